// SPDX-License-Identifier: EPL-2.0

// Package voicebot prepares voice messages for speech recognition.
//
// Incoming audio arrives as opaque bytes in whatever container the client
// used. It is normalized to a mono 16-bit PCM WAV at 16 kHz, decoded back to
// float samples and handed to a recognizer.
//
// # Supported Formats
//
// The native pipeline handles:
//   - WAV (8/16/24/32-bit integer, 32/64-bit float) via formats/wav
//   - AIFF / AIFF-C (16/24/32-bit) via formats/aiff
//   - Ogg Vorbis via formats/vorbis
//   - MP3 via formats/mp3
//
// Ogg Opus is recognised but not decoded; it reports audio.ErrUnsupportedCodec.
//
// # Quick Start
//
//	out, err := voicebot.NormalizeToWAV(input, 16000)
//	if err != nil {
//	    return err
//	}
//	data, err := voicebot.ConvertWAVToSamples(out)
//	// data.Samples is mono float32 at 16 kHz, data.Duration in seconds
//
// # External Fallback
//
// Inputs the native pipeline cannot decode can be routed to ffmpeg:
//
//	conv := voicebot.Fallback{
//	    Primary:   pipeline.New(),
//	    Secondary: transcode.New(),
//	}
//	out, err := conv.ConvertToWAV(ctx, input)
//
// Only unrecognized formats, unsupported codecs and inputs without an audio
// track fall back. Broken inputs of a supported format fail right away.
//
// # Building Blocks
//
// For finer control, see the subpackages:
//   - audio: data model, sample normalizer, channel mixer, resampler
//   - pipeline: the decode orchestrator behind NormalizeToWAV
//   - formats/*: container readers and the WAV encoder
//   - stt: speech recognition
//   - bot: the voice bot dialogue
package voicebot
