// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests: waveform
// generators, WAV byte builders and scripted format readers.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/ik5/voicebot/audio"
)

// Sine generates frames*channels interleaved samples of a sine wave with
// the same value on every channel.
func Sine(frames, sampleRate, channels int, frequency, amplitude float64) []float64 {
	return Waveform(frames, channels, func(frame, channel int) float64 {
		t := float64(frame) / float64(sampleRate)
		return amplitude * math.Sin(2*math.Pi*frequency*t)
	})
}

// Constant generates frames*channels copies of value.
func Constant(frames, channels int, value float64) []float64 {
	return Waveform(frames, channels, func(int, int) float64 { return value })
}

// Waveform generates interleaved samples from fn(frame, channel).
func Waveform(frames, channels int, fn func(frame, channel int) float64) []float64 {
	out := make([]float64, frames*channels)
	for f := range frames {
		for c := range channels {
			out[f*channels+c] = fn(f, c)
		}
	}
	return out
}

// EncodeInt packs samples in [-1,1] as little-endian integer PCM.
// 8-bit output is unsigned with a 128 offset.
func EncodeInt(samples []float64, bitDepth int) []byte {
	bps := bitDepth / 8
	scale := math.Ldexp(1, bitDepth-1)
	out := make([]byte, len(samples)*bps)

	for i, s := range samples {
		v := math.Round(s * scale)
		v = math.Max(-scale, math.Min(scale-1, v))
		b := out[i*bps : i*bps+bps]

		switch bitDepth {
		case 8:
			b[0] = byte(int(v) + 128)
		case 16:
			binary.LittleEndian.PutUint16(b, uint16(int16(v)))
		case 24:
			u := uint32(int32(v))
			b[0], b[1], b[2] = byte(u), byte(u>>8), byte(u>>16)
		case 32:
			binary.LittleEndian.PutUint32(b, uint32(int32(v)))
		}
	}

	return out
}

// EncodeInt16 packs int16 samples as little-endian bytes.
func EncodeInt16(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// EncodeFloat32 packs samples as little-endian IEEE float32.
func EncodeFloat32(samples []float64) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(s)))
	}
	return out
}

// EncodeFloat64 packs samples as little-endian IEEE float64.
func EncodeFloat64(samples []float64) []byte {
	out := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(s))
	}
	return out
}

// WAV wraps data in a canonical 44-byte RIFF/WAVE header. Float
// descriptors get format tag 3, everything else tag 1.
func WAV(desc audio.StreamDescriptor, data []byte) []byte {
	tag := uint16(1)
	if desc.Format == audio.SampleFormatFloat {
		tag = 3
	}
	return WAVWithTag(desc, tag, data)
}

// WAVWithTag is WAV with an explicit format tag.
func WAVWithTag(desc audio.StreamDescriptor, tag uint16, data []byte) []byte {
	bps := (desc.BitDepth + 7) / 8
	buf := new(bytes.Buffer)

	le := func(v any) { _ = binary.Write(buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	le(uint32(36 + len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	le(uint32(16))
	le(tag)
	le(uint16(desc.Channels))
	le(uint32(desc.SampleRate))
	le(uint32(desc.SampleRate * desc.Channels * bps))
	le(uint16(desc.Channels * bps))
	le(uint16(desc.BitDepth))
	buf.WriteString("data")
	le(uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

// WAVExtensible wraps data in a WAVE_FORMAT_EXTENSIBLE header whose
// SubFormat GUID carries subTag (1 integer PCM, 3 IEEE float).
func WAVExtensible(desc audio.StreamDescriptor, subTag uint16, data []byte) []byte {
	bps := (desc.BitDepth + 7) / 8
	buf := new(bytes.Buffer)

	le := func(v any) { _ = binary.Write(buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	le(uint32(60 + len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	le(uint32(40))
	le(uint16(0xFFFE))
	le(uint16(desc.Channels))
	le(uint32(desc.SampleRate))
	le(uint32(desc.SampleRate * desc.Channels * bps))
	le(uint16(desc.Channels * bps))
	le(uint16(desc.BitDepth))
	le(uint16(22))            // cbSize
	le(uint16(desc.BitDepth)) // valid bits
	le(uint32(0))             // channel mask
	le(subTag)
	// rest of the KSDATAFORMAT_SUBTYPE GUID
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})
	buf.WriteString("data")
	le(uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

// SineWAV builds a 16-bit PCM WAV of a sine wave.
func SineWAV(seconds float64, sampleRate, channels int, frequency float64) []byte {
	frames := int(seconds * float64(sampleRate))
	samples := Sine(frames, sampleRate, channels, frequency, 0.5)
	desc := audio.StreamDescriptor{SampleRate: sampleRate, Channels: channels, BitDepth: 16}
	return WAV(desc, EncodeInt(samples, 16))
}

// ScriptedReader is a FormatReader replaying a fixed list of results.
// Once the script runs out it reports end of stream.
type ScriptedReader struct {
	TrackList []audio.Track
	Script    []audio.ReadResult
	Pulls     int
	Closed    bool
}

func (s *ScriptedReader) Tracks() []audio.Track { return s.TrackList }

func (s *ScriptedReader) Next() audio.ReadResult {
	if s.Pulls >= len(s.Script) {
		s.Pulls++
		return audio.EndOfStream()
	}
	res := s.Script[s.Pulls]
	s.Pulls++
	return res
}

func (s *ScriptedReader) Close() error {
	s.Closed = true
	return nil
}

// ScriptedFormat claims any stream starting with Magic and opens Reader.
type ScriptedFormat struct {
	FormatName string
	Magic      string
	Reader     audio.FormatReader
	OpenErr    error
}

func (f *ScriptedFormat) Name() string { return f.FormatName }

func (f *ScriptedFormat) Probe(header []byte) bool {
	return bytes.HasPrefix(header, []byte(f.Magic))
}

func (f *ScriptedFormat) Open(io.ReadSeeker) (audio.FormatReader, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	return f.Reader, nil
}
