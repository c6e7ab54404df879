// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"

	"github.com/ik5/voicebot/audio"
	"github.com/ik5/voicebot/formats/pcm"
)

// DecodeSamples turns WAV bytes into interleaved float samples in [-1,1] at
// the file's own rate, along with the clip duration. Malformed headers wrap
// audio.ErrInvalidHeader.
func DecodeSamples(b []byte) (*audio.AudioData, error) {
	r, err := NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	dec, err := pcm.NewDecoder(r.track)
	if err != nil {
		return nil, err
	}

	desc := r.Descriptor()
	// the declared size is untrusted, the input length is not
	samples := make([]float32, 0, min(r.remaining, int64(len(b)))/int64(desc.BytesPerSample()))

	for {
		res := r.Next()
		switch res.Status {
		case audio.StatusPacket:
			frame, err := dec.Decode(res.Packet)
			if err != nil {
				return nil, err
			}
			for _, s := range frame.Samples {
				samples = append(samples, float32(s))
			}
		case audio.StatusResetRequired:
			dec.Reset()
		case audio.StatusFatal:
			return nil, res.Err
		case audio.StatusEndOfStream:
			if len(samples) == 0 {
				return nil, fmt.Errorf("%w: no audio decoded", audio.ErrDecodeIO)
			}
			return &audio.AudioData{
				Samples:    samples,
				Duration:   audio.Duration(len(samples), desc.SampleRate, desc.Channels),
				SampleRate: desc.SampleRate,
				Channels:   desc.Channels,
			}, nil
		}
	}
}
