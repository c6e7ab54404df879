// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files.
//
// # Reading
//
// Format plugs into an audio.FormatRegistry. Its Reader uses go-audio/wav to
// walk the chunks and read the fmt chunk, then hands out the data chunk in
// block-aligned packets tagged with a PCM codec id:
//
//	tag 1: pcm_u8, pcm_s16le, pcm_s24le, pcm_s32le
//	tag 3: pcm_f32le, pcm_f64le
//
// For WAVE_FORMAT_EXTENSIBLE (0xFFFE) the tag is taken from the first two
// bytes of the SubFormat GUID, read with go-audio/riff. Other format tags fail with audio.ErrUnsupportedCodec and other bit depths
// with audio.ErrUnsupportedBitDepth.
//
// DecodeSamples is the short path used ahead of speech recognition:
//
//	data, err := wav.DecodeSamples(b)
//	// data.Samples in [-1, 1], data.Duration in seconds
//
// # Writing
//
// Encoder emits signed 16-bit little-endian PCM behind a canonical 44-byte
// header. On an io.WriteSeeker the RIFF and data sizes are patched when the
// encoder is finalized:
//
//	buf := wav.NewWriteBuffer(0)
//	enc, _ := wav.NewEncoder(buf, desc)
//	_ = enc.WriteFloats(samples)
//	_ = enc.Finalize()
//
// For plain writers, NewStreamingEncoder takes the sample count up front and
// WriteWAV16 writes a whole mono file in one call.
package wav
