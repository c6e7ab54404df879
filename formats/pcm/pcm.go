// SPDX-License-Identifier: EPL-2.0

// Package pcm implements codec decoders for uncompressed PCM payloads.
//
// Containers that carry raw samples (WAV, AIFF, and the repacked output of
// the MP3 and Vorbis readers) report one of the pcm_* codec ids, and the
// decoders here turn those packets into normalized float64 frames.
package pcm

import (
	"encoding/binary"
	"fmt"

	"github.com/ik5/voicebot/audio"
)

// Layout is the storage layout behind a PCM codec id.
type Layout struct {
	BitDepth int
	Format   audio.SampleFormat
	Order    binary.ByteOrder
}

var layouts = map[audio.CodecType]Layout{
	audio.CodecPCMU8:    {BitDepth: 8, Format: audio.SampleFormatInt, Order: binary.LittleEndian},
	audio.CodecPCMS16LE: {BitDepth: 16, Format: audio.SampleFormatInt, Order: binary.LittleEndian},
	audio.CodecPCMS24LE: {BitDepth: 24, Format: audio.SampleFormatInt, Order: binary.LittleEndian},
	audio.CodecPCMS32LE: {BitDepth: 32, Format: audio.SampleFormatInt, Order: binary.LittleEndian},
	audio.CodecPCMF32LE: {BitDepth: 32, Format: audio.SampleFormatFloat, Order: binary.LittleEndian},
	audio.CodecPCMF64LE: {BitDepth: 64, Format: audio.SampleFormatFloat, Order: binary.LittleEndian},
	audio.CodecPCMS16BE: {BitDepth: 16, Format: audio.SampleFormatInt, Order: binary.BigEndian},
	audio.CodecPCMS24BE: {BitDepth: 24, Format: audio.SampleFormatInt, Order: binary.BigEndian},
	audio.CodecPCMS32BE: {BitDepth: 32, Format: audio.SampleFormatInt, Order: binary.BigEndian},
}

// LayoutOf returns the layout of codec.
func LayoutOf(codec audio.CodecType) (Layout, bool) {
	l, ok := layouts[codec]
	return l, ok
}

// CodecFor picks the codec id for an integer or float layout.
func CodecFor(format audio.SampleFormat, bitDepth int, order binary.ByteOrder) (audio.CodecType, error) {
	for codec, l := range layouts {
		if l.Format == format && l.BitDepth == bitDepth && l.Order == order {
			return codec, nil
		}
	}
	return audio.CodecNull, fmt.Errorf("%w: %d-bit %v", audio.ErrUnsupportedBitDepth, bitDepth, format)
}

// Register adds a decoder factory for every PCM codec id to reg.
func Register(reg *audio.CodecRegistry) {
	for codec := range layouts {
		reg.Register(codec, NewDecoder)
	}
}

// Decoder normalizes PCM packets. It is stateless between packets, so
// Reset does nothing.
type Decoder struct {
	desc  audio.StreamDescriptor
	order binary.ByteOrder
	frame audio.Frame
}

// NewDecoder is an audio.DecoderFactory for PCM tracks. The codec id decides
// the sample layout; the track descriptor supplies rate and channel count.
func NewDecoder(track audio.Track) (audio.Decoder, error) {
	l, ok := LayoutOf(track.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not PCM", audio.ErrUnsupportedCodec, track.Codec)
	}
	if err := track.Descriptor.Validate(); err != nil {
		return nil, err
	}

	desc := track.Descriptor
	desc.BitDepth = l.BitDepth
	desc.Format = l.Format

	return &Decoder{
		desc:  desc,
		order: l.Order,
		frame: audio.Frame{Channels: desc.Channels},
	}, nil
}

// Decode returns the packet's samples as a frame owned by d. Samples that do
// not fill a whole frame at the end of the packet are dropped.
func (d *Decoder) Decode(p audio.Packet) (*audio.Frame, error) {
	samples, err := audio.DecodePCM(d.frame.Samples[:0], p.Data, d.desc, d.order)
	if err != nil {
		return nil, err
	}

	whole := len(samples) - len(samples)%d.desc.Channels
	d.frame.Samples = samples[:whole]

	return &d.frame, nil
}

func (d *Decoder) Reset() {}
