// SPDX-License-Identifier: EPL-2.0

// Package vorbis reads Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis.
//
// Decoded audio is repacked as little-endian float32 and reported as a
// pcm_f32le track, so it flows through the same PCM codec as float WAV.
//
// Ogg Opus is recognised from its OpusHead identification header but not
// decoded: the track reports codec "opus", which the default codec registry
// does not know, and the conversion fails with audio.ErrUnsupportedCodec.
// Callers that need Opus fall back to an external transcoder.
package vorbis
