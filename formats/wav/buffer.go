// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
)

var errNegativeOffset = errors.New("negative offset")

// WriteBuffer is an in-memory io.WriteSeeker, the destination for an
// Encoder whose header must be patched after the data is known.
// Writing past the end zero-fills the gap.
type WriteBuffer struct {
	buf []byte
	pos int
}

// NewWriteBuffer returns a buffer with room for size bytes.
func NewWriteBuffer(size int) *WriteBuffer {
	return &WriteBuffer{buf: make([]byte, 0, size)}
}

func (b *WriteBuffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.buf) {
		if end > cap(b.buf) {
			grown := make([]byte, len(b.buf), max(end, 2*cap(b.buf)))
			copy(grown, b.buf)
			b.buf = grown
		}
		clear(b.buf[len(b.buf):end])
		b.buf = b.buf[:end]
	}

	copy(b.buf[b.pos:], p)
	b.pos = end

	return len(p), nil
}

func (b *WriteBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(b.pos) + offset
	case io.SeekEnd:
		next = int64(len(b.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if next < 0 {
		return 0, errNegativeOffset
	}

	b.pos = int(next)
	return next, nil
}

// Bytes returns the buffer contents. The slice aliases the buffer.
func (b *WriteBuffer) Bytes() []byte { return b.buf }

func (b *WriteBuffer) Len() int { return len(b.buf) }

// Reset empties the buffer, keeping its capacity.
func (b *WriteBuffer) Reset() {
	b.buf = b.buf[:0]
	b.pos = 0
}
