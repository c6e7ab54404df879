// SPDX-License-Identifier: EPL-2.0

// Package audio provides the building blocks of the normalization pipeline.
//
// This package contains:
//   - the data model shared by containers and codecs (StreamDescriptor,
//     Track, Packet, ReadResult, Frame, AudioData)
//   - FormatRegistry and CodecRegistry for runtime format/codec selection
//   - the sample normalizer (Divisor, DecodePCM, Duration)
//   - MixToMono for channel downmixing
//   - Resampler for sample rate conversion
//
// # Pulling Packets
//
// A FormatReader returns a tagged ReadResult instead of signalling end of
// stream through an error:
//
//	for {
//	    res := reader.Next()
//	    switch res.Status {
//	    case audio.StatusPacket:
//	        frame, err := decoder.Decode(res.Packet)
//	        // ...
//	    case audio.StatusResetRequired:
//	        decoder.Reset()
//	    case audio.StatusEndOfStream:
//	        return nil
//	    case audio.StatusFatal:
//	        return res.Err
//	    }
//	}
//
// # Resampling
//
// The Resampler uses a 64-tap Blackman-Harris windowed sinc with cutoff
// 0.95 and 128 tabulated phases. It consumes mono input in chunks of 1024
// samples and must be flushed with the final partial chunk:
//
//	r, _ := audio.NewResampler(44100, 16000)
//	out, _ = r.Process(out, chunk)
//	out, _ = r.Flush(out, tail)
//
// Rates more than 10x apart are rejected with ErrUnsupportedResampleRatio.
//
// # Sample Format
//
// Audio samples are represented as float64 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// Integer PCM is divided by 128, 32768, 8388608 or 2147483648 depending on
// bit depth. 8-bit PCM is unsigned with a 128 offset.
//
// # Error Handling
//
// Every failure is a sentinel error usable with errors.Is:
//
//	if errors.Is(err, audio.ErrUnsupportedBitDepth) {
//	    // ...
//	}
package audio
