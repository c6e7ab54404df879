// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not a readable AIFF file
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedAiffLayout indicates the decoder reported no usable format
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")

	// ErrTruncated indicates the sound data ended before the declared frame count
	ErrTruncated = errors.New("AIFF sound data truncated")
)
