// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile      = errors.New("not a WAV file")
	ErrMissingPCMChunk = errors.New("WAV file has no data chunk")

	ErrMissingSubFormat = errors.New("extensible WAV fmt chunk has no subformat")

	ErrOnlyPCM16bitSupported = errors.New("only 16-bit integer PCM output is supported")
	ErrHeaderWritten         = errors.New("WAV header already written")
	ErrEncoderFinalized      = errors.New("WAV encoder already finalized")
	ErrDataSizeMismatch      = errors.New("written data does not match the declared size")
	ErrDataTooLarge          = errors.New("WAV data exceeds 4 GiB")
)
