// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/voicebot/audio"
)

// HeaderSize is the length of the canonical RIFF/WAVE header.
const HeaderSize = 44

const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE

	extensibleFmtSize = 40
	extensibleCbSize  = 22

	riffSizeOffset = 4
	dataSizeOffset = 40
)

// Header builds the 44-byte canonical header for a data chunk of dataSize
// bytes. Float descriptors get format tag 3, all others tag 1.
func Header(desc audio.StreamDescriptor, dataSize uint32) []byte {
	bytesPerSample := uint16(desc.BytesPerSample())
	numChannels := uint16(desc.Channels)
	byteRate := uint32(desc.SampleRate) * uint32(numChannels) * uint32(bytesPerSample)
	blockAlign := numChannels * bytesPerSample

	tag := uint16(formatPCM)
	if desc.Format == audio.SampleFormatFloat {
		tag = formatIEEEFloat
	}

	header := make([]byte, HeaderSize)

	// RIFF header (12 bytes)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[riffSizeOffset:8], riffSize(dataSize))
	copy(header[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], tag)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(desc.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], uint16(desc.BitDepth))

	// data chunk header (8 bytes)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[dataSizeOffset:HeaderSize], dataSize)

	return header
}

// riffSize is the RIFF chunk size: the file length minus 8.
func riffSize(dataSize uint32) uint32 {
	return HeaderSize - 8 + dataSize
}

func checkDataSize(n int64) (uint32, error) {
	if n < 0 || n > math.MaxUint32-(HeaderSize-8) {
		return 0, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, n)
	}
	return uint32(n), nil
}
