// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("sample count must be multiple of channels")

	ErrUnrecognizedFormat       = errors.New("unrecognized audio format")
	ErrNoAudioTrack             = errors.New("no audio track found")
	ErrUnsupportedCodec         = errors.New("unsupported codec")
	ErrUnsupportedBitDepth      = errors.New("unsupported bit depth")
	ErrUnsupportedResampleRatio = errors.New("unsupported resample ratio")
	ErrDecodeIO                 = errors.New("decode i/o error")
	ErrInvalidHeader            = errors.New("invalid WAV header")
	ErrInvalidDescriptor        = errors.New("invalid stream descriptor")

	// ErrResetRequired is the one condition the decode loop recovers from locally.
	ErrResetRequired = errors.New("decoder reset required")

	ErrChunkSize        = errors.New("resampler input must be exactly one chunk")
	ErrResamplerFlushed = errors.New("resampler already flushed")
)
