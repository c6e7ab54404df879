// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/voicebot/audio"
)

// go-mp3 always produces interleaved stereo signed 16-bit little-endian PCM.
const (
	channels     = 2
	bytesPerSamp = 2
	frameBytes   = channels * bytesPerSamp

	packetBytes = 4096 * frameBytes
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// Format recognises MPEG-1/2 Layer III streams, with or without an ID3v2 tag.
type Format struct{}

func (Format) Name() string { return "mp3" }

func (Format) Probe(header []byte) bool {
	if bytes.HasPrefix(header, []byte("ID3")) {
		return true
	}
	return isFrameSync(header)
}

// isFrameSync checks for an MPEG audio frame header carrying Layer III with
// valid bitrate and sample rate indexes.
func isFrameSync(h []byte) bool {
	if len(h) < 4 || h[0] != 0xFF || h[1]&0xE0 != 0xE0 {
		return false
	}

	version := (h[1] >> 3) & 0x03
	layer := (h[1] >> 1) & 0x03
	bitrate := h[2] >> 4
	rate := (h[2] >> 2) & 0x03

	return version != 0x01 && layer == 0x01 && bitrate != 0x0F && rate != 0x03
}

func (Format) Open(r io.ReadSeeker) (audio.FormatReader, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %w", audio.ErrDecodeIO, err)
	}
	return newReader(dec), nil
}

// Reader hands out decoded PCM in packets of whole stereo frames.
type Reader struct {
	dec   mp3Reader
	track audio.Track
	buf   []byte
	err   error // failure held back until the data read with it was delivered
	done  bool
}

func newReader(dec mp3Reader) *Reader {
	return &Reader{
		dec: dec,
		track: audio.Track{
			ID:    0,
			Codec: audio.CodecPCMS16LE,
			Descriptor: audio.StreamDescriptor{
				SampleRate: dec.SampleRate(),
				Channels:   channels,
				BitDepth:   16,
			},
		},
		buf: make([]byte, packetBytes),
	}
}

func (r *Reader) Tracks() []audio.Track { return []audio.Track{r.track} }

func (r *Reader) Next() audio.ReadResult {
	if r.err != nil {
		return audio.ResultFromError(r.err)
	}
	if r.done {
		return audio.EndOfStream()
	}

	n, err := io.ReadFull(r.dec, r.buf)
	n -= n % frameBytes

	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		r.done = true
	default:
		r.err = err
	}

	if n == 0 {
		return r.Next()
	}

	return audio.PacketResult(audio.Packet{TrackID: r.track.ID, Data: r.buf[:n]})
}

func (r *Reader) Close() error { return nil }
