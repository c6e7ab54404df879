// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"math"
	"testing"
)

func TestMixToMono(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       []float64
		channels int
		want     []float64
	}{
		{name: "mono passthrough", in: []float64{0.1, -0.2, 0.3}, channels: 1, want: []float64{0.1, -0.2, 0.3}},
		{name: "stereo average", in: []float64{1, 3, 2, 4}, channels: 2, want: []float64{2, 3}},
		{name: "opposite phase cancels", in: []float64{0.5, -0.5, -1, 1}, channels: 2, want: []float64{0, 0}},
		{name: "three channels", in: []float64{0.3, 0.6, 0.9}, channels: 3, want: []float64{0.6}},
		{name: "quad", in: []float64{0.1, 0.2, 0.3, 0.4, 1, 1, 1, 1}, channels: 4, want: []float64{0.25, 1}},
		{name: "5.1", in: []float64{0.6, 0.6, 0.6, 0.6, 0.6, 0.6}, channels: 6, want: []float64{0.6}},
		{name: "empty", in: nil, channels: 2, want: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := MixToMono(nil, tt.in, tt.channels)
			if err != nil {
				t.Fatalf("MixToMono() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("MixToMono() len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("out[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMixToMono_Errors(t *testing.T) {
	t.Parallel()

	if _, err := MixToMono(nil, []float64{1, 2, 3}, 2); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("odd stereo input error = %v, want ErrInvalidDstSize", err)
	}
	if _, err := MixToMono(nil, []float64{1}, 0); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("zero channels error = %v, want ErrInvalidDescriptor", err)
	}
}

func TestMixToMono_AppendsToDst(t *testing.T) {
	t.Parallel()

	dst := []float64{9}
	got, err := MixToMono(dst, []float64{1, 3}, 2)
	if err != nil {
		t.Fatalf("MixToMono() error = %v", err)
	}
	if len(got) != 2 || got[0] != 9 || got[1] != 2 {
		t.Errorf("MixToMono() = %v, want [9 2]", got)
	}
}

func TestMixToMono_MonoCopies(t *testing.T) {
	t.Parallel()

	in := []float64{0.5, 0.25}
	got, _ := MixToMono(nil, in, 1)
	got[0] = 0

	if in[0] != 0.5 {
		t.Error("mono passthrough aliased the input")
	}
}

func TestMixToMono_ZeroAllocs(t *testing.T) {
	in := sine(2048, 16000, 440, 0.5)
	dst := make([]float64, 0, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		dst, _ = MixToMono(dst[:0], in, 2)
	})

	if allocs > 0 {
		t.Errorf("MixToMono() allocated %v times per run, want 0", allocs)
	}
}

func BenchmarkMixToMono_Stereo(b *testing.B) {
	in := sine(8192, 44100, 440, 0.5)
	dst := make([]float64, 0, 4096)

	b.ReportAllocs()
	for b.Loop() {
		dst, _ = MixToMono(dst[:0], in, 2)
	}
}

func BenchmarkMixToMono_ManyChannels(b *testing.B) {
	in := sine(8*1024, 44100, 440, 0.5)
	dst := make([]float64, 0, 1024)

	b.ReportAllocs()
	for b.Loop() {
		dst, _ = MixToMono(dst[:0], in, 8)
	}
}
