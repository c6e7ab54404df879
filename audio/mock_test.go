// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"io"
	"math"
)

// mockFormat claims streams starting with magic.
type mockFormat struct {
	name  string
	magic string
}

func (m mockFormat) Name() string { return m.name }

func (m mockFormat) Probe(header []byte) bool {
	return bytes.HasPrefix(header, []byte(m.magic))
}

func (m mockFormat) Open(io.ReadSeeker) (FormatReader, error) {
	return nil, nil
}

// mockDecoder records calls and echoes packet bytes as samples.
type mockDecoder struct {
	track  Track
	frame  Frame
	decode int
	resets int
}

func (d *mockDecoder) Decode(p Packet) (*Frame, error) {
	d.decode++
	d.frame.Channels = d.track.Descriptor.Channels
	d.frame.Samples = d.frame.Samples[:0]
	for _, b := range p.Data {
		d.frame.Samples = append(d.frame.Samples, float64(b)/255)
	}
	return &d.frame, nil
}

func (d *mockDecoder) Reset() { d.resets++ }

func newMockDecoder(track Track) (Decoder, error) {
	return &mockDecoder{track: track}, nil
}

// sine returns n mono samples of a sine wave.
func sine(n, rate int, freq, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

// constant returns n copies of v.
func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
