// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ResampleMono is a convenience function that runs a whole mono buffer
// through a Resampler in fixed-size chunks and flushes the remainder.
//
// For streaming input, drive a Resampler directly:
//
//	r, _ := audio.NewResampler(44100, 16000)
//	out, _ = r.Process(out, chunk) // len(chunk) == r.ChunkSize()
//	out, _ = r.Flush(out, tail)    // len(tail) <= r.ChunkSize()
func ResampleMono(samples []float64, srcRate, dstRate int) ([]float64, error) {
	r, err := NewResampler(srcRate, dstRate)
	if err != nil {
		return nil, err
	}

	chunk := r.ChunkSize()
	out := make([]float64, 0, int(float64(len(samples))*r.Ratio())+1)

	i := 0
	for ; i+chunk <= len(samples); i += chunk {
		out, err = r.Process(out, samples[i:i+chunk])
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	out, err = r.Flush(out, samples[i:])
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return out, nil
}
