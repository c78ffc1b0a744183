package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder writes little-endian 16-bit PCM to a WAV file. Used to keep an
// optional per-call capture of caller audio for debugging.
type Recorder struct {
	f   *os.File
	enc *wav.Encoder
}

func NewRecorder(path string, sampleRate int) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating recording file: %w", err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	return &Recorder{f: f, enc: enc}, nil
}

// Write appends PCM samples to the recording. A trailing odd byte is dropped.
func (r *Recorder) Write(pcm []byte) error {
	n := len(pcm) / 2
	if n == 0 {
		return nil
	}
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: 1,
			SampleRate:  r.enc.SampleRate,
		},
		Data:           make([]int, n),
		SourceBitDepth: 16,
	}
	for i := 0; i < n; i++ {
		buf.Data[i] = int(int16(pcm[i*2]) | int16(pcm[i*2+1])<<8)
	}
	if err := r.enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the file.
func (r *Recorder) Close() error {
	if err := r.enc.Close(); err != nil {
		r.f.Close()
		return fmt.Errorf("closing wav encoder: %w", err)
	}
	return r.f.Close()
}
