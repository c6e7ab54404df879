// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/voicebot/utils"
)

// Fixed kernel configuration, a quality/latency tradeoff.
const (
	DefaultChunkSize    = 1024
	DefaultKernelLength = 64
	DefaultCutoff       = 0.95
	DefaultOversampling = 128

	// MaxRatio bounds target/source (and source/target) rate. The kernel's
	// accuracy degrades beyond it.
	MaxRatio = 10.0
)

// ResamplerConfig holds the windowed-sinc kernel parameters.
type ResamplerConfig struct {
	// ChunkSize is the number of mono input samples Process accepts.
	ChunkSize int
	// KernelLength is the number of taps; must be even.
	KernelLength int
	// Cutoff is the passband edge relative to the lower Nyquist frequency.
	Cutoff float64
	// Oversampling is the number of kernel phases between two input samples.
	Oversampling int
}

func DefaultResamplerConfig() ResamplerConfig {
	return ResamplerConfig{
		ChunkSize:    DefaultChunkSize,
		KernelLength: DefaultKernelLength,
		Cutoff:       DefaultCutoff,
		Oversampling: DefaultOversampling,
	}
}

// Resampler converts mono float64 samples from one rate to another using
// Blackman-Harris windowed sinc interpolation. Kernel phases are tabulated
// at Oversampling points and interpolated linearly in between.
//
// Input arrives in chunks of exactly ChunkSize samples, followed by one
// Flush with the final (possibly short or empty) chunk. Output position k
// sits at input position k*src/dst, computed in integers, so after Flush
// exactly ceil(n*dst/src) samples have been produced for n input samples.
// The tail is padded with silence; the ringing this leaves in the last
// half-kernel of output is accepted precision loss.
//
// A Resampler belongs to a single conversion and is not safe for concurrent use.
type Resampler struct {
	cfg     ResamplerConfig
	srcRate int64
	dstRate int64
	bypass  bool

	half  int
	table [][]float64 // Oversampling+1 phases of KernelLength taps

	hist      []float64
	histStart int64 // absolute input index of hist[0]
	consumed  int64
	produced  int64
	flushed   bool
}

// NewResampler creates a resampler with the default configuration.
func NewResampler(srcRate, dstRate int) (*Resampler, error) {
	return NewResamplerWithConfig(srcRate, dstRate, DefaultResamplerConfig())
}

func NewResamplerWithConfig(srcRate, dstRate int, cfg ResamplerConfig) (*Resampler, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d Hz -> %d Hz", ErrUnsupportedResampleRatio, srcRate, dstRate)
	}

	ratio := float64(dstRate) / float64(srcRate)
	if ratio > MaxRatio || ratio < 1/MaxRatio {
		return nil, fmt.Errorf("%w: %d Hz -> %d Hz (%.3fx)", ErrUnsupportedResampleRatio, srcRate, dstRate, ratio)
	}

	if cfg.ChunkSize <= 0 || cfg.KernelLength <= 0 || cfg.KernelLength%2 != 0 ||
		cfg.Oversampling <= 0 || cfg.Cutoff <= 0 || cfg.Cutoff > 1 {
		return nil, fmt.Errorf("invalid resampler config: %+v", cfg)
	}

	r := &Resampler{
		cfg:     cfg,
		srcRate: int64(srcRate),
		dstRate: int64(dstRate),
		bypass:  srcRate == dstRate,
		half:    cfg.KernelLength / 2,
	}

	if !r.bypass {
		r.table = buildKernel(cfg, min(1.0, ratio))
		// Silence before the first sample so the first window is complete
		r.hist = make([]float64, r.half-1, cfg.ChunkSize+cfg.KernelLength)
		r.histStart = -int64(r.half - 1)
	}

	return r, nil
}

// buildKernel tabulates the windowed sinc for every phase offset.
func buildKernel(cfg ResamplerConfig, scale float64) [][]float64 {
	cutoff := cfg.Cutoff * scale
	taps := cfg.KernelLength
	half := float64(taps / 2)

	table := make([][]float64, cfg.Oversampling+1)
	for p := range table {
		frac := float64(p) / float64(cfg.Oversampling)
		row := make([]float64, taps)
		sum := 0.0
		for j := range taps {
			// distance from the interpolation point to tap j
			d := float64(j) - half + 1 - frac
			w := utils.BlackmanHarris((d + half) / (2 * half))
			row[j] = cutoff * utils.Sinc(cutoff*d) * w
			sum += row[j]
		}
		// unity gain at DC for every phase
		for j := range row {
			row[j] /= sum
		}
		table[p] = row
	}

	return table
}

func (r *Resampler) Config() ResamplerConfig { return r.cfg }
func (r *Resampler) ChunkSize() int          { return r.cfg.ChunkSize }
func (r *Resampler) SourceRate() int         { return int(r.srcRate) }
func (r *Resampler) TargetRate() int         { return int(r.dstRate) }

// Ratio is target rate over source rate.
func (r *Resampler) Ratio() float64 { return float64(r.dstRate) / float64(r.srcRate) }

// Consumed returns the number of input samples fed so far.
func (r *Resampler) Consumed() int64 { return r.consumed }

// Produced returns the number of output samples emitted so far.
func (r *Resampler) Produced() int64 { return r.produced }

// Process feeds exactly one chunk and appends every output sample whose
// kernel window is now complete to dst.
func (r *Resampler) Process(dst []float64, chunk []float64) ([]float64, error) {
	if r.flushed {
		return dst, ErrResamplerFlushed
	}
	if len(chunk) != r.cfg.ChunkSize {
		return dst, fmt.Errorf("%w: got %d, want %d", ErrChunkSize, len(chunk), r.cfg.ChunkSize)
	}

	return r.feed(dst, chunk, -1), nil
}

// Flush feeds the final chunk (at most ChunkSize samples, possibly none)
// and drains every remaining output sample. The resampler is unusable afterwards.
func (r *Resampler) Flush(dst []float64, tail []float64) ([]float64, error) {
	if r.flushed {
		return dst, ErrResamplerFlushed
	}
	if len(tail) > r.cfg.ChunkSize {
		return dst, fmt.Errorf("%w: final chunk of %d exceeds %d", ErrChunkSize, len(tail), r.cfg.ChunkSize)
	}
	r.flushed = true

	total := r.consumed + int64(len(tail))
	want := (total*r.dstRate + r.srcRate - 1) / r.srcRate

	if r.bypass {
		r.consumed = total
		r.produced += int64(len(tail))
		return append(dst, tail...), nil
	}

	r.hist = append(r.hist, tail...)
	r.consumed = total
	// trailing silence completes the windows of the last samples
	r.hist = append(r.hist, make([]float64, r.half)...)

	dst = r.emit(dst, want)
	r.hist = nil

	return dst, nil
}

func (r *Resampler) feed(dst []float64, chunk []float64, limit int64) []float64 {
	if r.bypass {
		r.consumed += int64(len(chunk))
		r.produced += int64(len(chunk))
		return append(dst, chunk...)
	}

	r.hist = append(r.hist, chunk...)
	r.consumed += int64(len(chunk))

	return r.emit(dst, limit)
}

// emit produces output while windows are complete, stopping at limit
// outputs when limit >= 0, then discards history no longer needed.
func (r *Resampler) emit(dst []float64, limit int64) []float64 {
	last := r.histStart + int64(len(r.hist)) - 1
	half := int64(r.half)
	taps := r.cfg.KernelLength
	over := float64(r.cfg.Oversampling)

	for limit < 0 || r.produced < limit {
		num := r.produced * r.srcRate
		base := num / r.dstRate
		if base+half > last {
			break
		}

		frac := float64(num%r.dstRate) / float64(r.dstRate)
		pos := frac * over
		p := int(pos)
		w := pos - float64(p)
		k0 := r.table[p]
		k1 := r.table[min(p+1, r.cfg.Oversampling)]

		start := int(base - half + 1 - r.histStart)
		window := r.hist[start : start+taps]

		acc := 0.0
		for j, x := range window {
			acc += x * (k0[j] + w*(k1[j]-k0[j]))
		}

		dst = append(dst, acc)
		r.produced++
	}

	next := (r.produced * r.srcRate) / r.dstRate
	keepFrom := next - half + 1
	if drop := keepFrom - r.histStart; drop > 0 {
		if drop > int64(len(r.hist)) {
			drop = int64(len(r.hist))
		}
		n := copy(r.hist, r.hist[drop:])
		r.hist = r.hist[:n]
		r.histStart += drop
	}

	return dst
}
