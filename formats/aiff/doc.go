// SPDX-License-Identifier: EPL-2.0

// Package aiff reads AIFF files through github.com/go-audio/aiff.
//
// go-audio decodes samples into an audio.IntBuffer; the Reader packs them
// back into big-endian bytes and reports a pcm_s16be, pcm_s24be or
// pcm_s32be track, so the shared PCM codec does the normalization.
// 8-bit AIFF fails with audio.ErrUnsupportedBitDepth.
package aiff
