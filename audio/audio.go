// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"sync"
)

// SampleFormat tells integer PCM apart from IEEE float PCM.
type SampleFormat uint8

const (
	SampleFormatInt SampleFormat = iota
	SampleFormatFloat
)

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatInt:
		return "int"
	case SampleFormatFloat:
		return "float"
	default:
		return fmt.Sprintf("SampleFormat(%d)", uint8(f))
	}
}

// StreamDescriptor describes a PCM stream as probed from its container.
// It is immutable once a track has been selected.
type StreamDescriptor struct {
	// SampleRate of the PCM stream in Hz.
	SampleRate int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels int
	// BitDepth of a single sample as stored in the source.
	BitDepth int
	Format   SampleFormat
}

// Validate reports whether the descriptor can drive a conversion.
func (d StreamDescriptor) Validate() error {
	if d.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrInvalidDescriptor, d.Channels)
	}
	if d.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidDescriptor, d.SampleRate)
	}
	return nil
}

// BytesPerSample returns the storage size of one sample.
func (d StreamDescriptor) BytesPerSample() int {
	return (d.BitDepth + 7) / 8
}

// CodecType identifies how the payload of a packet is encoded.
type CodecType string

const (
	// CodecNull marks a track that carries no decodable audio.
	CodecNull CodecType = ""

	CodecPCMU8    CodecType = "pcm_u8"
	CodecPCMS16LE CodecType = "pcm_s16le"
	CodecPCMS24LE CodecType = "pcm_s24le"
	CodecPCMS32LE CodecType = "pcm_s32le"
	CodecPCMF32LE CodecType = "pcm_f32le"
	CodecPCMF64LE CodecType = "pcm_f64le"
	CodecPCMS16BE CodecType = "pcm_s16be"
	CodecPCMS24BE CodecType = "pcm_s24be"
	CodecPCMS32BE CodecType = "pcm_s32be"

	CodecOpus CodecType = "opus"
)

// Track is one elementary stream inside a container.
type Track struct {
	ID         int
	Codec      CodecType
	Descriptor StreamDescriptor
}

// Packet is one unit of encoded payload pulled from a container.
type Packet struct {
	TrackID int
	Data    []byte
}

// ReadStatus tags the outcome of a FormatReader.Next call.
type ReadStatus uint8

const (
	// StatusPacket means Packet holds the next payload.
	StatusPacket ReadStatus = iota
	// StatusEndOfStream means the container is exhausted; it is not an error.
	StatusEndOfStream
	// StatusResetRequired means decoder state must be reset before continuing.
	StatusResetRequired
	// StatusFatal means Err holds an unrecoverable failure.
	StatusFatal
)

func (s ReadStatus) String() string {
	switch s {
	case StatusPacket:
		return "packet"
	case StatusEndOfStream:
		return "end-of-stream"
	case StatusResetRequired:
		return "reset-required"
	case StatusFatal:
		return "fatal"
	default:
		return fmt.Sprintf("ReadStatus(%d)", uint8(s))
	}
}

// ReadResult is the tagged result of pulling the next packet.
type ReadResult struct {
	Status ReadStatus
	Packet Packet
	Err    error
}

func PacketResult(p Packet) ReadResult { return ReadResult{Status: StatusPacket, Packet: p} }
func EndOfStream() ReadResult          { return ReadResult{Status: StatusEndOfStream} }
func ResetRequired() ReadResult        { return ReadResult{Status: StatusResetRequired} }

// Fatal wraps err into a fatal result. A nil err still yields a fatal result.
func Fatal(err error) ReadResult {
	if err == nil {
		err = ErrDecodeIO
	}
	return ReadResult{Status: StatusFatal, Err: err}
}

// ResultFromError maps a reader error onto a tagged result: io.EOF is a clean
// end of stream, everything else is a fatal decode I/O failure.
func ResultFromError(err error) ReadResult {
	if err == io.EOF {
		return EndOfStream()
	}
	return Fatal(fmt.Errorf("%w: %w", ErrDecodeIO, err))
}

// FormatReader demultiplexes a container into packets.
type FormatReader interface {
	// Tracks lists the tracks found while probing, in container order.
	Tracks() []Track
	// Next pulls the next packet of any track.
	Next() ReadResult
	// Close releases any resources.
	Close() error
}

// Format recognises and opens one container type.
type Format interface {
	// Name is the registry key (e.g., "wav", "mp3", "ogg").
	Name() string
	// Probe reports whether header (the first bytes of a stream) belongs to this format.
	Probe(header []byte) bool
	// Open starts demultiplexing r.
	Open(r io.ReadSeeker) (FormatReader, error)
}

// Frame is the decoded output for one packet: interleaved samples in [-1,1].
// It is owned by the Decoder and only valid until the next Decode call.
type Frame struct {
	Channels int
	Samples  []float64
}

// Frames returns the number of sample frames held.
func (f *Frame) Frames() int {
	if f == nil || f.Channels == 0 {
		return 0
	}
	return len(f.Samples) / f.Channels
}

// Decoder turns packets of a single codec into frames.
type Decoder interface {
	Decode(p Packet) (*Frame, error)
	// Reset drops any state carried between packets.
	Reset()
}

// DecoderFactory binds a Decoder to a track's codec parameters.
type DecoderFactory func(track Track) (Decoder, error)

// AudioData is the decode-to-samples result handed to speech recognition.
type AudioData struct {
	// Samples are interleaved values in [-1,1] at the source rate.
	Samples []float32
	// Duration is the playback time in seconds.
	Duration   float64
	SampleRate int
	Channels   int
}

// FormatRegistry holds container formats in probe order.
type FormatRegistry struct {
	formats []Format

	mtx *sync.Mutex
}

func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{
		mtx: &sync.Mutex{},
	}
}

// Register adds f, replacing a previous format of the same name in place.
func (r *FormatRegistry) Register(f Format) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for i, existing := range r.formats {
		if existing.Name() == f.Name() {
			r.formats[i] = f
			return
		}
	}
	r.formats = append(r.formats, f)
}

func (r *FormatRegistry) Get(name string) (Format, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, f := range r.formats {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Probe returns the first registered format claiming header.
func (r *FormatRegistry) Probe(header []byte) (Format, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, f := range r.formats {
		if f.Probe(header) {
			return f, nil
		}
	}
	return nil, ErrUnrecognizedFormat
}

// CodecRegistry maps codec ids to decoder factories.
type CodecRegistry struct {
	codecs map[CodecType]DecoderFactory

	mtx *sync.Mutex
}

func NewCodecRegistry() *CodecRegistry {
	return &CodecRegistry{
		codecs: make(map[CodecType]DecoderFactory),
		mtx:    &sync.Mutex{},
	}
}

func (r *CodecRegistry) Register(codec CodecType, f DecoderFactory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[codec] = f
}

func (r *CodecRegistry) Get(codec CodecType) (DecoderFactory, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.codecs[codec]
	return f, ok
}

// Make instantiates a decoder for track.
func (r *CodecRegistry) Make(track Track) (Decoder, error) {
	f, ok := r.Get(track.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, track.Codec)
	}
	dec, err := f(track)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return dec, nil
}

// FirstAudioTrack selects the first track whose codec is not CodecNull.
func FirstAudioTrack(tracks []Track) (Track, error) {
	for _, t := range tracks {
		if t.Codec != CodecNull {
			return t, nil
		}
	}
	return Track{}, ErrNoAudioTrack
}
