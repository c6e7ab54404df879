// SPDX-License-Identifier: EPL-2.0

// Package mp3 reads MP3 streams through github.com/hajimehoshi/go-mp3.
//
// Format probes for an ID3v2 tag or a Layer III frame header. go-mp3 decodes
// to interleaved stereo 16-bit PCM whatever the source channel mode, so the
// Reader always reports one pcm_s16le track with two channels at the
// stream's sample rate; mono files come out with both channels equal.
//
// A stream that go-mp3 cannot start decoding fails Open with
// audio.ErrDecodeIO. A failure mid-stream is reported after the packet read
// with it, as a fatal result.
package mp3
