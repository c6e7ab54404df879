// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/voicebot/audio"
)

const (
	packetFrames = 4096

	// identification headers sit in the first Ogg page
	sniffBytes = 512

	opusRate = 48000

	maxEmptyReads = 100
)

var (
	opusHead = []byte("OpusHead")
	oggMagic = []byte("OggS")
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// Format recognises Ogg containers. Vorbis streams are decoded, Opus
// streams are reported with codec "opus" so that a codec registry without
// an Opus decoder rejects them with audio.ErrUnsupportedCodec.
type Format struct{}

func (Format) Name() string { return "ogg" }

func (Format) Probe(header []byte) bool {
	return bytes.HasPrefix(header, oggMagic)
}

func (Format) Open(r io.ReadSeeker) (audio.FormatReader, error) {
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: ogg: %w", audio.ErrDecodeIO, err)
	}
	head = head[:n]

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: ogg: %w", audio.ErrDecodeIO, err)
	}

	if i := bytes.Index(head, opusHead); i >= 0 {
		return newOpusReader(head[i:])
	}

	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: ogg vorbis: %w", audio.ErrDecodeIO, err)
	}
	return newReader(dec)
}

// Reader repacks decoded Vorbis audio as little-endian float32 PCM packets.
type Reader struct {
	dec   oggReader
	track audio.Track

	samples []float32
	buf     []byte
	err     error
	done    bool
}

func newReader(dec oggReader) (*Reader, error) {
	desc := audio.StreamDescriptor{
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
		BitDepth:   32,
		Format:     audio.SampleFormatFloat,
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: ogg vorbis: %w", audio.ErrDecodeIO, err)
	}

	return &Reader{
		dec:     dec,
		track:   audio.Track{ID: 0, Codec: audio.CodecPCMF32LE, Descriptor: desc},
		samples: make([]float32, packetFrames*desc.Channels),
		buf:     make([]byte, packetFrames*desc.Channels*4),
	}, nil
}

func (r *Reader) Tracks() []audio.Track { return []audio.Track{r.track} }

func (r *Reader) Next() audio.ReadResult {
	for range maxEmptyReads {
		if r.err != nil {
			return audio.ResultFromError(r.err)
		}
		if r.done {
			return audio.EndOfStream()
		}

		// Read returns a count of values, always a multiple of the channel count
		n, err := r.dec.Read(r.samples)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			r.done = true
		default:
			r.err = err
		}

		if n == 0 {
			continue
		}

		out := r.buf[:n*4]
		for i, v := range r.samples[:n] {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
		}

		return audio.PacketResult(audio.Packet{TrackID: r.track.ID, Data: out})
	}

	r.err = io.ErrNoProgress
	return audio.ResultFromError(r.err)
}

func (r *Reader) Close() error { return nil }

// opusReader describes an Ogg Opus stream without decoding it.
type opusReader struct {
	track audio.Track
}

func newOpusReader(head []byte) (*opusReader, error) {
	// OpusHead: magic(8) version(1) channels(1) pre-skip(2) input rate(4)
	if len(head) < 16 {
		return nil, fmt.Errorf("%w: truncated OpusHead", audio.ErrDecodeIO)
	}

	// Opus always decodes at 48 kHz, the input rate is informational
	desc := audio.StreamDescriptor{SampleRate: opusRate, Channels: int(head[9]), BitDepth: 16}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: OpusHead: %w", audio.ErrDecodeIO, err)
	}

	return &opusReader{
		track: audio.Track{ID: 0, Codec: audio.CodecOpus, Descriptor: desc},
	}, nil
}

func (o *opusReader) Tracks() []audio.Track { return []audio.Track{o.track} }

func (o *opusReader) Next() audio.ReadResult {
	return audio.Fatal(fmt.Errorf("%w: %q", audio.ErrUnsupportedCodec, audio.CodecOpus))
}

func (o *opusReader) Close() error { return nil }
