// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Divisor returns the value integer samples of bitDepth are divided by to
// land in [-1,1). Only 8, 16, 24 and 32 bits are supported.
func Divisor(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8:
		return 128.0, nil
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, fmt.Errorf("%w: %d-bit integer", ErrUnsupportedBitDepth, bitDepth)
	}
}

// Duration returns playback time in seconds for totalSamples interleaved
// samples (all channels counted).
func Duration(totalSamples, sampleRate, channels int) float64 {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	return float64(totalSamples) / (float64(sampleRate) * float64(channels))
}

// CheckLayout verifies DecodePCM can handle desc.
func CheckLayout(desc StreamDescriptor) error {
	switch desc.Format {
	case SampleFormatInt:
		_, err := Divisor(desc.BitDepth)
		return err
	case SampleFormatFloat:
		if desc.BitDepth != 32 && desc.BitDepth != 64 {
			return fmt.Errorf("%w: %d-bit float", ErrUnsupportedBitDepth, desc.BitDepth)
		}
		return nil
	default:
		return fmt.Errorf("%w: sample format %v", ErrUnsupportedCodec, desc.Format)
	}
}

// DecodePCM appends the samples held in data to dst, normalized to [-1,1].
//
// 8-bit integer samples are unsigned with a 128 offset, as WAV stores them.
// Float samples are clamped into range and NaN becomes silence. Trailing
// bytes that do not form a whole sample are ignored.
func DecodePCM(dst []float64, data []byte, desc StreamDescriptor, order binary.ByteOrder) ([]float64, error) {
	if err := CheckLayout(desc); err != nil {
		return dst, err
	}

	bps := desc.BytesPerSample()
	count := len(data) / bps
	start := len(dst)
	dst = grow(dst, count)

	if desc.Format == SampleFormatFloat {
		for i := range count {
			b := data[i*bps : i*bps+bps]
			var v float64
			if bps == 4 {
				v = float64(math.Float32frombits(order.Uint32(b)))
			} else {
				v = math.Float64frombits(order.Uint64(b))
			}
			dst[start+i] = clampUnit(v)
		}
		return dst, nil
	}

	div, _ := Divisor(desc.BitDepth)
	inv := 1.0 / div
	bigEndian := order == binary.ByteOrder(binary.BigEndian)

	switch desc.BitDepth {
	case 8:
		for i := range count {
			dst[start+i] = (float64(data[i]) - 128) * inv
		}
	case 16:
		for i := range count {
			dst[start+i] = float64(int16(order.Uint16(data[i*2:]))) * inv
		}
	case 24:
		for i := range count {
			b := data[i*3 : i*3+3]
			var u uint32
			if bigEndian {
				u = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
			} else {
				u = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
			}
			// sign-extend from 24 bits
			dst[start+i] = float64(int32(u<<8)>>8) * inv
		}
	case 32:
		for i := range count {
			dst[start+i] = float64(int32(order.Uint32(data[i*4:]))) * inv
		}
	}

	return dst, nil
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}

// grow extends dst by n elements, reusing capacity when possible.
func grow(dst []float64, n int) []float64 {
	if cap(dst)-len(dst) < n {
		next := make([]float64, len(dst), len(dst)+max(n, cap(dst)))
		copy(next, dst)
		dst = next
	}
	return dst[:len(dst)+n]
}
