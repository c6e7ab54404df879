// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"github.com/ik5/voicebot/audio"
	"github.com/ik5/voicebot/formats/pcm"
)

// packetFrames is the number of sample frames per packet.
const packetFrames = 4096

// Format recognises RIFF/WAVE containers.
type Format struct{}

func (Format) Name() string { return "wav" }

func (Format) Probe(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[0:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

func (Format) Open(r io.ReadSeeker) (audio.FormatReader, error) {
	return NewReader(r)
}

// Reader splits the data chunk of a WAV file into block-aligned packets.
// Chunk walking and the fmt chunk are handled by go-audio/wav.
type Reader struct {
	dec   *wav.Decoder
	track audio.Track

	data      io.Reader
	remaining int64
	buf       []byte
}

// NewReader parses the headers of r and positions it at the data chunk.
func NewReader(r io.ReadSeeker) (*Reader, error) {
	// go-audio/wav drops the fmt extension, so the subformat is read first
	sub, hasSub := subFormat(r)

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidHeader, ErrNotWavFile)
	}

	desc := audio.StreamDescriptor{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidHeader, err)
	}

	tag := dec.WavAudioFormat
	if tag == formatExtensible {
		if !hasSub {
			return nil, fmt.Errorf("%w: %w", audio.ErrInvalidHeader, ErrMissingSubFormat)
		}
		tag = sub
	}

	codec, err := codecFor(tag, &desc)
	if err != nil {
		return nil, err
	}

	if err := dec.FwdToPCM(); err != nil || dec.PCMChunk == nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidHeader, ErrMissingPCMChunk)
	}

	blockAlign := desc.Channels * desc.BytesPerSample()

	return &Reader{
		dec:       dec,
		track:     audio.Track{ID: 0, Codec: codec, Descriptor: desc},
		data:      dec.PCMChunk.R,
		remaining: int64(dec.PCMChunk.Size),
		buf:       make([]byte, packetFrames*blockAlign),
	}, nil
}

// subFormat returns the format tag held in the first two bytes of the
// SubFormat GUID of a WAVE_FORMAT_EXTENSIBLE fmt chunk. It leaves r at the
// start of the stream.
func subFormat(r io.ReadSeeker) (uint16, bool) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, false
	}
	defer r.Seek(0, io.SeekStart)

	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return 0, false
	}

	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, false
		}
		if ch.ID != riff.FmtID {
			if _, err := io.Copy(io.Discard, ch.R); err != nil {
				return 0, false
			}
			continue
		}

		// base fmt(16) cbSize(2) validBits(2) channelMask(4) SubFormat(16)
		if ch.Size < extensibleFmtSize {
			return 0, false
		}
		body := make([]byte, extensibleFmtSize)
		if _, err := io.ReadFull(ch.R, body); err != nil {
			return 0, false
		}
		if binary.LittleEndian.Uint16(body[16:18]) < extensibleCbSize {
			return 0, false
		}
		return binary.LittleEndian.Uint16(body[24:26]), true
	}
}

// codecFor maps a format tag (the subformat for extensible files) and bit
// depth onto a PCM codec and fills in the sample format.
func codecFor(tag uint16, desc *audio.StreamDescriptor) (audio.CodecType, error) {
	switch tag {
	case formatPCM:
		desc.Format = audio.SampleFormatInt
	case formatIEEEFloat:
		desc.Format = audio.SampleFormatFloat
	default:
		return audio.CodecNull, fmt.Errorf("%w: WAV format tag %#x", audio.ErrUnsupportedCodec, tag)
	}

	return pcm.CodecFor(desc.Format, desc.BitDepth, binary.LittleEndian)
}

func (r *Reader) Tracks() []audio.Track { return []audio.Track{r.track} }

// Descriptor returns the stream layout from the fmt chunk.
func (r *Reader) Descriptor() audio.StreamDescriptor { return r.track.Descriptor }

// Next returns the next packet. A data chunk shorter than its declared size
// is a decode I/O error. The packet data is only valid until the next call.
func (r *Reader) Next() audio.ReadResult {
	if r.remaining <= 0 {
		return audio.EndOfStream()
	}

	want := int64(len(r.buf))
	if r.remaining < want {
		want = r.remaining
	}

	n, err := io.ReadFull(r.data, r.buf[:want])
	r.remaining -= int64(n)

	if err != nil {
		// go-audio rounds odd chunk sizes up to include the pad byte, which
		// writers often leave out
		if errors.Is(err, io.ErrUnexpectedEOF) && want-int64(n) == 1 && r.remaining == 1 {
			r.remaining = 0
		} else {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return audio.Fatal(fmt.Errorf("%w: data chunk truncated with %d bytes left: %w",
				audio.ErrDecodeIO, r.remaining, err))
		}
	}

	return audio.PacketResult(audio.Packet{TrackID: r.track.ID, Data: r.buf[:n]})
}

func (r *Reader) Close() error { return nil }
