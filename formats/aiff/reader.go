// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/voicebot/audio"
	"github.com/ik5/voicebot/formats/pcm"
)

const packetFrames = 4096

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Format recognises AIFF and AIFF-C containers.
type Format struct{}

func (Format) Name() string { return "aiff" }

func (Format) Probe(header []byte) bool {
	if len(header) < 12 || !bytes.Equal(header[0:4], []byte("FORM")) {
		return false
	}
	kind := string(header[8:12])
	return kind == "AIFF" || kind == "AIFC"
}

func (Format) Open(r io.ReadSeeker) (audio.FormatReader, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %w", audio.ErrDecodeIO, ErrNotAiffFile)
	}

	dec.ReadInfo()
	return newReader(dec, int(dec.BitDepth), int(dec.NumSampleFrames))
}

// Reader repacks go-audio's integer samples as big-endian PCM, the byte
// order AIFF stores them in.
type Reader struct {
	dec   aiffReader
	track audio.Track
	bps   int

	ints *goaudio.IntBuffer
	buf  []byte
	err  error
	done bool

	// samples promised by the COMM chunk, 0 when unknown
	declared  int
	delivered int
}

// newReader wraps dec. frames is the COMM chunk frame count; a stream that
// ends before it is reported as truncated.
func newReader(dec aiffReader, bitDepth, frames int) (*Reader, error) {
	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDecodeIO, ErrUnsupportedAiffLayout)
	}

	desc := audio.StreamDescriptor{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   bitDepth,
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDecodeIO, err)
	}

	// 8-bit AIFF is signed and has no pcm codec id
	if bitDepth == 8 {
		return nil, fmt.Errorf("%w: 8-bit AIFF", audio.ErrUnsupportedBitDepth)
	}
	codec, err := pcm.CodecFor(audio.SampleFormatInt, bitDepth, binary.BigEndian)
	if err != nil {
		return nil, err
	}

	n := packetFrames * desc.Channels
	return &Reader{
		dec:   dec,
		track: audio.Track{ID: 0, Codec: codec, Descriptor: desc},
		bps:   desc.BytesPerSample(),
		ints:  &goaudio.IntBuffer{Data: make([]int, n), Format: format, SourceBitDepth: bitDepth},
		buf:   make([]byte, n*desc.BytesPerSample()),

		declared: frames * desc.Channels,
	}, nil
}

func (r *Reader) Tracks() []audio.Track { return []audio.Track{r.track} }

func (r *Reader) Next() audio.ReadResult {
	if r.err != nil {
		return audio.ResultFromError(r.err)
	}
	if r.done {
		return audio.EndOfStream()
	}

	r.ints.Data = r.ints.Data[:cap(r.ints.Data)]
	n, err := r.dec.PCMBuffer(r.ints)
	switch {
	case err == nil && n < len(r.ints.Data):
		r.done = true
	case err == nil:
	case errors.Is(err, io.EOF):
		r.done = true
	default:
		r.err = err
	}

	r.delivered += n
	if r.done && r.delivered < r.declared {
		r.done = false
		r.err = fmt.Errorf("%w: %d of %d samples", ErrTruncated, r.delivered, r.declared)
	}

	if n == 0 {
		return r.Next()
	}

	out := r.buf[:n*r.bps]
	for i, v := range r.ints.Data[:n] {
		b := out[i*r.bps : (i+1)*r.bps]
		switch r.bps {
		case 2:
			binary.BigEndian.PutUint16(b, uint16(int16(v)))
		case 3:
			b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
		case 4:
			binary.BigEndian.PutUint32(b, uint32(int32(v)))
		}
	}

	return audio.PacketResult(audio.Packet{TrackID: r.track.ID, Data: out})
}

func (r *Reader) Close() error { return nil }
