// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"math"
	"testing"
)

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	r, err := NewResampler(44100, 16000)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}

	if r.SourceRate() != 44100 || r.TargetRate() != 16000 {
		t.Errorf("rates = %d -> %d, want 44100 -> 16000", r.SourceRate(), r.TargetRate())
	}
	if r.ChunkSize() != DefaultChunkSize {
		t.Errorf("ChunkSize() = %d, want %d", r.ChunkSize(), DefaultChunkSize)
	}
	if cfg := r.Config(); cfg != DefaultResamplerConfig() {
		t.Errorf("Config() = %+v, want defaults", cfg)
	}
	if math.Abs(r.Ratio()-16000.0/44100.0) > 1e-12 {
		t.Errorf("Ratio() = %v", r.Ratio())
	}
}

func TestResampler_RatioBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src, dst int
		wantErr  bool
	}{
		{src: 44100, dst: 16000},
		{src: 8000, dst: 48000},
		{src: 8000, dst: 80000},
		{src: 80000, dst: 8000},
		{src: 16000, dst: 16000},
		{src: 8000, dst: 96000, wantErr: true},
		{src: 192000, dst: 8000, wantErr: true},
		{src: 0, dst: 16000, wantErr: true},
		{src: 16000, dst: -1, wantErr: true},
	}

	for _, tt := range tests {
		_, err := NewResampler(tt.src, tt.dst)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewResampler(%d, %d) error = %v, wantErr %v", tt.src, tt.dst, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedResampleRatio) {
			t.Errorf("NewResampler(%d, %d) error = %v, want ErrUnsupportedResampleRatio", tt.src, tt.dst, err)
		}
	}
}

func TestResampler_InvalidConfig(t *testing.T) {
	t.Parallel()

	bad := []ResamplerConfig{
		{ChunkSize: 0, KernelLength: 64, Cutoff: 0.95, Oversampling: 128},
		{ChunkSize: 1024, KernelLength: 63, Cutoff: 0.95, Oversampling: 128},
		{ChunkSize: 1024, KernelLength: 64, Cutoff: 1.5, Oversampling: 128},
		{ChunkSize: 1024, KernelLength: 64, Cutoff: 0.95, Oversampling: 0},
	}

	for _, cfg := range bad {
		if _, err := NewResamplerWithConfig(44100, 16000, cfg); err == nil {
			t.Errorf("NewResamplerWithConfig(%+v) succeeded, want error", cfg)
		}
	}
}

func TestResampler_FlushLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src, dst int
		n        int
	}{
		{name: "44.1k to 16k, 1s", src: 44100, dst: 16000, n: 44100},
		{name: "44.1k to 16k, odd", src: 44100, dst: 16000, n: 12345},
		{name: "48k to 16k", src: 48000, dst: 16000, n: 48001},
		{name: "8k to 16k", src: 8000, dst: 16000, n: 999},
		{name: "22.05k to 16k", src: 22050, dst: 16000, n: 3000},
		{name: "16k to 44.1k", src: 16000, dst: 44100, n: 1025},
		{name: "short", src: 44100, dst: 16000, n: 3},
		{name: "single sample", src: 8000, dst: 48000, n: 1},
		{name: "empty", src: 44100, dst: 16000, n: 0},
		{name: "bypass", src: 16000, dst: 16000, n: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := ResampleMono(sine(tt.n, tt.src, 440, 0.5), tt.src, tt.dst)
			if err != nil {
				t.Fatalf("ResampleMono() error = %v", err)
			}

			want := (tt.n*tt.dst + tt.src - 1) / tt.src
			if len(out) != want {
				t.Errorf("len(out) = %d, want ceil(%d*%d/%d) = %d", len(out), tt.n, tt.dst, tt.src, want)
			}
		})
	}
}

func TestResampler_BypassIsIdentity(t *testing.T) {
	t.Parallel()

	in := sine(3000, 16000, 440, 0.7)
	out, err := ResampleMono(in, 16000, 16000)
	if err != nil {
		t.Fatalf("ResampleMono() error = %v", err)
	}

	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestResampler_PreservesDC(t *testing.T) {
	t.Parallel()

	for _, rates := range [][2]int{{44100, 16000}, {16000, 48000}, {48000, 16000}} {
		out, err := ResampleMono(constant(8000, 0.5), rates[0], rates[1])
		if err != nil {
			t.Fatalf("ResampleMono(%v) error = %v", rates, err)
		}

		// outputs near either end see padding
		for i := 128; i < len(out)-128; i++ {
			if math.Abs(out[i]-0.5) > 1e-6 {
				t.Fatalf("%v: out[%d] = %v, want 0.5", rates, i, out[i])
			}
		}
	}
}

func TestResampler_PreservesTone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src, dst int
	}{
		{name: "downsample", src: 48000, dst: 16000},
		{name: "downsample fractional", src: 44100, dst: 16000},
		{name: "upsample", src: 16000, dst: 48000},
		{name: "upsample fractional", src: 16000, dst: 44100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := ResampleMono(sine(tt.src/2, tt.src, 440, 0.5), tt.src, tt.dst)
			if err != nil {
				t.Fatalf("ResampleMono() error = %v", err)
			}

			want := sine(len(out), tt.dst, 440, 0.5)
			for i := 128; i < len(out)-128; i++ {
				if math.Abs(out[i]-want[i]) > 0.01 {
					t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
				}
			}
		})
	}
}

func TestResampler_RemovesAliasing(t *testing.T) {
	t.Parallel()

	// 12 kHz is above the 8 kHz Nyquist limit of the target rate
	out, err := ResampleMono(sine(48000, 48000, 12000, 0.5), 48000, 16000)
	if err != nil {
		t.Fatalf("ResampleMono() error = %v", err)
	}

	peak := 0.0
	for _, v := range out[64 : len(out)-64] {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 0.01 {
		t.Errorf("aliased peak = %v, want attenuated below 0.01", peak)
	}
}

func TestResampler_ChunkSizeIndependent(t *testing.T) {
	t.Parallel()

	in := sine(10000, 44100, 1000, 0.5)

	run := func(chunk int) []float64 {
		cfg := DefaultResamplerConfig()
		cfg.ChunkSize = chunk
		r, err := NewResamplerWithConfig(44100, 16000, cfg)
		if err != nil {
			t.Fatalf("NewResamplerWithConfig() error = %v", err)
		}

		var out []float64
		i := 0
		for ; i+chunk <= len(in); i += chunk {
			out, err = r.Process(out, in[i:i+chunk])
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
		}
		out, err = r.Flush(out, in[i:])
		if err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		return out
	}

	a := run(1024)
	b := run(100)

	if len(a) != len(b) {
		t.Fatalf("len = %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("out[%d] = %v vs %v", i, a[i], b[i])
		}
	}
}

func TestResampler_ProcessRejectsPartialChunk(t *testing.T) {
	t.Parallel()

	r, _ := NewResampler(44100, 16000)

	_, err := r.Process(nil, make([]float64, 10))
	if !errors.Is(err, ErrChunkSize) {
		t.Errorf("Process(short) error = %v, want ErrChunkSize", err)
	}

	_, err = r.Flush(nil, make([]float64, DefaultChunkSize+1))
	if !errors.Is(err, ErrChunkSize) {
		t.Errorf("Flush(long) error = %v, want ErrChunkSize", err)
	}
}

func TestResampler_UnusableAfterFlush(t *testing.T) {
	t.Parallel()

	r, _ := NewResampler(44100, 16000)
	if _, err := r.Flush(nil, nil); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if _, err := r.Process(nil, make([]float64, DefaultChunkSize)); !errors.Is(err, ErrResamplerFlushed) {
		t.Errorf("Process() after flush error = %v, want ErrResamplerFlushed", err)
	}
	if _, err := r.Flush(nil, nil); !errors.Is(err, ErrResamplerFlushed) {
		t.Errorf("second Flush() error = %v, want ErrResamplerFlushed", err)
	}
}

func TestResampler_Counters(t *testing.T) {
	t.Parallel()

	r, _ := NewResampler(44100, 16000)
	out, _ := r.Process(nil, constant(DefaultChunkSize, 0))
	out, _ = r.Flush(out, constant(100, 0))

	if r.Consumed() != DefaultChunkSize+100 {
		t.Errorf("Consumed() = %d", r.Consumed())
	}
	if r.Produced() != int64(len(out)) {
		t.Errorf("Produced() = %d, want %d", r.Produced(), len(out))
	}
}

func TestResampler_KernelRowsHaveUnityGain(t *testing.T) {
	t.Parallel()

	table := buildKernel(DefaultResamplerConfig(), 16000.0/44100.0)
	if len(table) != DefaultOversampling+1 {
		t.Fatalf("phases = %d, want %d", len(table), DefaultOversampling+1)
	}

	for p, row := range table {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d sums to %v, want 1", p, sum)
		}
	}
}

func TestResampler_ProcessZeroAllocs(t *testing.T) {
	r, _ := NewResampler(44100, 16000)
	chunk := sine(DefaultChunkSize, 44100, 440, 0.5)
	dst := make([]float64, 0, DefaultChunkSize)

	allocs := testing.AllocsPerRun(100, func() {
		dst, _ = r.Process(dst[:0], chunk)
	})

	if allocs > 0 {
		t.Errorf("Process() allocated %v times per chunk, want 0", allocs)
	}
}

func BenchmarkResampler_Downsample(b *testing.B) {
	r, _ := NewResampler(44100, 16000)
	chunk := sine(DefaultChunkSize, 44100, 440, 0.5)
	dst := make([]float64, 0, DefaultChunkSize)

	b.ReportAllocs()
	for b.Loop() {
		dst, _ = r.Process(dst[:0], chunk)
	}
}

func BenchmarkResampler_Upsample(b *testing.B) {
	r, _ := NewResampler(8000, 16000)
	chunk := sine(DefaultChunkSize, 8000, 440, 0.5)
	dst := make([]float64, 0, 2*DefaultChunkSize+1)

	b.ReportAllocs()
	for b.Loop() {
		dst, _ = r.Process(dst[:0], chunk)
	}
}

func BenchmarkResampleMono_OneSecond(b *testing.B) {
	in := sine(44100, 44100, 440, 0.5)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = ResampleMono(in, 44100, 16000)
	}
}
