package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Sample rates for the two transports. The telephony side is fixed by the
// media-stream contract; the agent rates match the Settings message we send
// at connection open.
const (
	TelephonyRate = 8000
	AgentInRate   = 48000
	AgentOutRate  = 24000

	// FrameBytes is one 20ms telephony frame: 160 mu-law bytes at 8kHz.
	FrameBytes = 160
)

func newResampler(inRate, outRate int) (resampling.Resampler, error) {
	return resampling.New(&resampling.Config{
		InputRate:  float64(inRate),
		OutputRate: float64(outRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
}

// Uplink converts caller audio (mu-law @ 8kHz) to agent audio
// (linear16 @ 48kHz). It carries resampler filter memory across frames, so
// one Uplink belongs to exactly one call and must not be reused.
type Uplink struct {
	res resampling.Resampler
}

func NewUplink() (*Uplink, error) {
	res, err := newResampler(TelephonyRate, AgentInRate)
	if err != nil {
		return nil, fmt.Errorf("creating uplink resampler: %w", err)
	}
	return &Uplink{res: res}, nil
}

// Process resamples one telephony frame. Empty input returns empty output
// and leaves the filter state untouched.
func (u *Uplink) Process(ulaw []byte) ([]byte, error) {
	if len(ulaw) == 0 {
		return nil, nil
	}
	in := make([]float64, len(ulaw))
	for i, b := range ulaw {
		in[i] = float64(DecodeUlawSample(b)) / 32768.0
	}
	out, err := u.res.Process(in)
	if err != nil {
		return nil, fmt.Errorf("uplink resample: %w", err)
	}
	return floatsToPCM(out), nil
}

// Downlink converts agent TTS audio (linear16 @ 24kHz) to telephony audio
// (mu-law @ 8kHz). Same ownership rule as Uplink: one per call.
type Downlink struct {
	res resampling.Resampler
}

func NewDownlink() (*Downlink, error) {
	res, err := newResampler(AgentOutRate, TelephonyRate)
	if err != nil {
		return nil, fmt.Errorf("creating downlink resampler: %w", err)
	}
	return &Downlink{res: res}, nil
}

// Process resamples a chunk of agent PCM. A trailing odd byte is dropped.
// Empty input returns empty output and leaves the filter state untouched.
func (d *Downlink) Process(pcm []byte) ([]byte, error) {
	if len(pcm) < 2 {
		return nil, nil
	}
	n := len(pcm) / 2
	in := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		in[i] = float64(s) / 32768.0
	}
	out, err := d.res.Process(in)
	if err != nil {
		return nil, fmt.Errorf("downlink resample: %w", err)
	}
	ulaw := make([]byte, len(out))
	for i, f := range out {
		ulaw[i] = EncodeUlawSample(clampSample(f))
	}
	return ulaw, nil
}

func clampSample(f float64) int16 {
	if f >= 1.0 {
		return 32767
	}
	if f <= -1.0 {
		return -32768
	}
	return int16(f * 32767.0)
}

func floatsToPCM(fs []float64) []byte {
	out := make([]byte, len(fs)*2)
	for i, f := range fs {
		s := clampSample(f)
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}
