package audio

import "iter"

// Frames splits b into size-byte chunks. The final chunk may be shorter;
// a zero-length chunk is never produced. The sequence is restartable:
// ranging over it twice yields the same chunks.
func Frames(b []byte, size int) iter.Seq[[]byte] {
	if size <= 0 {
		panic("audio: frame size must be positive")
	}
	return func(yield func([]byte) bool) {
		for i := 0; i < len(b); i += size {
			end := i + size
			if end > len(b) {
				end = len(b)
			}
			if !yield(b[i:end]) {
				return
			}
		}
	}
}
