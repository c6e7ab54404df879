// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/voicebot/audio"
	"github.com/ik5/voicebot/utils"
)

// writeChunk is the number of samples converted per Write call.
const writeChunk = 8192

// Encoder writes a 16-bit integer PCM WAV stream.
//
// The header goes out once, before the first sample. With a seekable
// destination the size fields start as zero and are patched by Finalize.
// A streaming encoder declares the sample count up front instead, and
// Finalize checks that exactly that many samples were written.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	w    io.Writer
	ws   io.WriteSeeker
	desc audio.StreamDescriptor

	declared  int64 // data bytes promised by a streaming encoder, -1 if seekable
	written   int64 // data bytes written so far
	header    bool
	finalized bool

	buf []byte
}

// NewEncoder creates an encoder that patches the header sizes in ws when
// finalized.
func NewEncoder(ws io.WriteSeeker, desc audio.StreamDescriptor) (*Encoder, error) {
	if err := checkOutput(desc); err != nil {
		return nil, err
	}

	return &Encoder{
		w:        ws,
		ws:       ws,
		desc:     desc,
		declared: -1,
	}, nil
}

// NewStreamingEncoder creates an encoder for a non-seekable w that will
// receive exactly totalSamples samples (all channels counted).
func NewStreamingEncoder(w io.Writer, desc audio.StreamDescriptor, totalSamples int) (*Encoder, error) {
	if err := checkOutput(desc); err != nil {
		return nil, err
	}
	if _, err := checkDataSize(int64(totalSamples) * 2); err != nil {
		return nil, err
	}

	return &Encoder{
		w:        w,
		desc:     desc,
		declared: int64(totalSamples) * 2,
	}, nil
}

func checkOutput(desc audio.StreamDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	if desc.BitDepth != 16 || desc.Format != audio.SampleFormatInt {
		return fmt.Errorf("%w: got %d-bit %v", ErrOnlyPCM16bitSupported, desc.BitDepth, desc.Format)
	}
	return nil
}

func (e *Encoder) Descriptor() audio.StreamDescriptor { return e.desc }

// DataSize returns the number of data bytes written so far.
func (e *Encoder) DataSize() int64 { return e.written }

// WriteHeader writes the header. Calling it is optional; the first write of
// samples does it implicitly.
func (e *Encoder) WriteHeader() error {
	if e.finalized {
		return ErrEncoderFinalized
	}
	if e.header {
		return ErrHeaderWritten
	}

	size := uint32(0)
	if e.declared >= 0 {
		size = uint32(e.declared)
	}

	if _, err := e.w.Write(Header(e.desc, size)); err != nil {
		return fmt.Errorf("writing WAV header: %w", err)
	}
	e.header = true

	return nil
}

// WriteSamples appends signed 16-bit samples in little-endian order.
func (e *Encoder) WriteSamples(samples []int16) error {
	if err := e.begin(); err != nil {
		return err
	}

	for i := 0; i < len(samples); i += writeChunk {
		chunk := samples[i:min(i+writeChunk, len(samples))]
		buf := e.scratch(len(chunk) * 2)
		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:], uint16(s))
		}
		if err := e.write(buf); err != nil {
			return err
		}
	}

	return nil
}

// WriteFloats converts samples in [-1,1] to 16-bit PCM and appends them.
func (e *Encoder) WriteFloats(samples []float64) error {
	if err := e.begin(); err != nil {
		return err
	}

	for i := 0; i < len(samples); i += writeChunk {
		chunk := samples[i:min(i+writeChunk, len(samples))]
		buf := e.scratch(len(chunk) * 2)
		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:], uint16(utils.FloatToInt16(s)))
		}
		if err := e.write(buf); err != nil {
			return err
		}
	}

	return nil
}

// Finalize completes the file. It may only be called once.
func (e *Encoder) Finalize() error {
	if e.finalized {
		return ErrEncoderFinalized
	}
	if !e.header {
		if err := e.WriteHeader(); err != nil {
			return err
		}
	}
	e.finalized = true

	if e.ws == nil {
		if e.written != e.declared {
			return fmt.Errorf("%w: wrote %d bytes, declared %d", ErrDataSizeMismatch, e.written, e.declared)
		}
		return nil
	}

	dataSize, err := checkDataSize(e.written)
	if err != nil {
		return err
	}

	var field [4]byte
	patch := func(offset int64, v uint32) error {
		binary.LittleEndian.PutUint32(field[:], v)
		if _, err := e.ws.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("seeking WAV header: %w", err)
		}
		if _, err := e.ws.Write(field[:]); err != nil {
			return fmt.Errorf("patching WAV header: %w", err)
		}
		return nil
	}

	if err := patch(riffSizeOffset, riffSize(dataSize)); err != nil {
		return err
	}
	if err := patch(dataSizeOffset, dataSize); err != nil {
		return err
	}

	if _, err := e.ws.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seeking WAV end: %w", err)
	}

	return nil
}

func (e *Encoder) begin() error {
	if e.finalized {
		return ErrEncoderFinalized
	}
	if !e.header {
		return e.WriteHeader()
	}
	return nil
}

func (e *Encoder) scratch(n int) []byte {
	if cap(e.buf) < n {
		e.buf = make([]byte, n)
	}
	return e.buf[:n]
}

func (e *Encoder) write(b []byte) error {
	if e.declared >= 0 && e.written+int64(len(b)) > e.declared {
		return fmt.Errorf("%w: exceeds %d declared bytes", ErrDataSizeMismatch, e.declared)
	}
	if _, err := checkDataSize(e.written + int64(len(b))); err != nil {
		return err
	}

	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("writing WAV data: %w", err)
	}
	e.written += int64(len(b))

	return nil
}

// WriteWAV16 writes a complete mono 16-bit PCM WAV at sampleRate.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	desc := audio.StreamDescriptor{SampleRate: sampleRate, Channels: 1, BitDepth: 16}

	enc, err := NewStreamingEncoder(w, desc, len(samples))
	if err != nil {
		return err
	}
	if err := enc.WriteSamples(samples); err != nil {
		return err
	}

	return enc.Finalize()
}
