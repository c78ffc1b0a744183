package audio

// G.711 mu-law codec for the telephony leg. Twilio media streams carry
// mu-law at 8kHz; the agent wants linear16, so every frame passes through
// these tables in one direction or the other.

const (
	ulawBias = 0x84
	ulawClip = 32635
)

// EncodeUlawSample compresses one 16-bit linear sample to a mu-law byte.
func EncodeUlawSample(pcm int16) byte {
	var sign byte
	s := int32(pcm)
	if s < 0 {
		s = -s
		sign = 0x80
	}
	if s > ulawClip {
		s = ulawClip
	}
	s += ulawBias

	exponent := byte(7)
	for mask := int32(0x4000); mask != 0 && s&mask == 0; mask >>= 1 {
		exponent--
	}
	mantissa := byte((s >> (exponent + 3)) & 0x0F)
	return ^(sign | exponent<<4 | mantissa)
}

// DecodeUlawSample expands one mu-law byte to a 16-bit linear sample.
func DecodeUlawSample(u byte) int16 {
	u = ^u
	sign := u & 0x80
	exponent := (u >> 4) & 0x07
	mantissa := u & 0x0F
	sample := (int16(mantissa)<<3 + ulawBias) << exponent
	sample -= ulawBias
	if sign != 0 {
		return -sample
	}
	return sample
}

// EncodeUlaw compresses little-endian 16-bit PCM to mu-law bytes.
// A trailing odd byte is dropped.
func EncodeUlaw(pcm []byte) []byte {
	n := len(pcm) / 2
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		s := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		out[i] = EncodeUlawSample(s)
	}
	return out
}

// DecodeUlaw expands mu-law bytes to little-endian 16-bit PCM.
func DecodeUlaw(ulaw []byte) []byte {
	out := make([]byte, len(ulaw)*2)
	for i, u := range ulaw {
		s := DecodeUlawSample(u)
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}
