// SPDX-License-Identifier: EPL-2.0

package audio

// MixToMono appends one sample per frame of interleaved to dst, each the
// arithmetic mean across the frame's channels. Frame order is preserved and
// channels == 1 is a plain copy.
func MixToMono(dst []float64, interleaved []float64, channels int) ([]float64, error) {
	if channels < 1 {
		return dst, ErrInvalidDescriptor
	}
	if len(interleaved)%channels != 0 {
		return dst, ErrInvalidDstSize
	}

	if channels == 1 {
		return append(dst, interleaved...), nil
	}

	frames := len(interleaved) / channels
	start := len(dst)
	dst = grow(dst, frames)
	out := dst[start:]

	invChannels := 1.0 / float64(channels)

	// Unrolled loop for common cases
	switch channels {
	case 2: // Stereo (most common)
		for f := range frames {
			idx := f << 1 // f * 2
			out[f] = (interleaved[idx] + interleaved[idx+1]) * 0.5
		}
	case 4: // Quad
		for f := range frames {
			idx := f << 2 // f * 4
			sum := interleaved[idx] + interleaved[idx+1] + interleaved[idx+2] + interleaved[idx+3]
			out[f] = sum * 0.25
		}
	default:
		for f := range frames {
			sum := 0.0
			baseIdx := f * channels
			for c := range channels {
				sum += interleaved[baseIdx+c]
			}
			out[f] = sum * invChannels
		}
	}

	return dst, nil
}
