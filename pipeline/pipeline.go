// SPDX-License-Identifier: EPL-2.0

// Package pipeline turns arbitrary audio bytes into a normalized WAV:
// probe the container, pick the first audio track, decode packet by packet,
// mix down to mono, resample and encode as 16-bit PCM.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ik5/voicebot/audio"
	"github.com/ik5/voicebot/formats/aiff"
	"github.com/ik5/voicebot/formats/mp3"
	"github.com/ik5/voicebot/formats/pcm"
	"github.com/ik5/voicebot/formats/vorbis"
	"github.com/ik5/voicebot/formats/wav"
)

const (
	// DefaultTargetRate is the rate speech recognition expects.
	DefaultTargetRate = 16000

	// probeSize is how much of the input format probes get to see.
	probeSize = 64
)

// DefaultFormats returns a registry with every bundled container. MP3 comes
// last since a bare frame sync is the weakest signature.
func DefaultFormats() *audio.FormatRegistry {
	reg := audio.NewFormatRegistry()
	reg.Register(wav.Format{})
	reg.Register(aiff.Format{})
	reg.Register(vorbis.Format{})
	reg.Register(mp3.Format{})
	return reg
}

// DefaultCodecs returns a registry with the PCM codecs.
func DefaultCodecs() *audio.CodecRegistry {
	reg := audio.NewCodecRegistry()
	pcm.Register(reg)
	return reg
}

type Option func(*Converter)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) { c.log = l }
}

func WithFormats(reg *audio.FormatRegistry) Option {
	return func(c *Converter) { c.formats = reg }
}

func WithCodecs(reg *audio.CodecRegistry) Option {
	return func(c *Converter) { c.codecs = reg }
}

func WithResamplerConfig(cfg audio.ResamplerConfig) Option {
	return func(c *Converter) { c.resampler = cfg }
}

// WithTargetRate sets the output rate used by ConvertToWAV.
func WithTargetRate(rate int) Option {
	return func(c *Converter) { c.targetRate = rate }
}

// Converter is the decode orchestrator. It holds no per-conversion state
// and is safe for concurrent use.
type Converter struct {
	formats    *audio.FormatRegistry
	codecs     *audio.CodecRegistry
	resampler  audio.ResamplerConfig
	targetRate int
	log        zerolog.Logger
}

func New(opts ...Option) *Converter {
	c := &Converter{
		formats:    DefaultFormats(),
		codecs:     DefaultCodecs(),
		resampler:  audio.DefaultResamplerConfig(),
		targetRate: DefaultTargetRate,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeToWAV converts input to a mono 16-bit PCM WAV at targetRate.
// Any failure returns no data; a partial WAV is never returned.
func (c *Converter) NormalizeToWAV(input []byte, targetRate int) ([]byte, error) {
	return c.normalize(context.Background(), input, targetRate)
}

// ConvertToWAV is NormalizeToWAV at the configured target rate, stopping
// early when ctx is done.
func (c *Converter) ConvertToWAV(ctx context.Context, input []byte) ([]byte, error) {
	return c.normalize(ctx, input, c.targetRate)
}

func (c *Converter) normalize(ctx context.Context, input []byte, targetRate int) ([]byte, error) {
	format, err := c.formats.Probe(input[:min(len(input), probeSize)])
	if err != nil {
		return nil, err
	}

	reader, err := format.Open(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", format.Name(), err)
	}
	defer reader.Close()

	track, err := audio.FirstAudioTrack(reader.Tracks())
	if err != nil {
		return nil, err
	}
	desc := track.Descriptor
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	dec, err := c.codecs.Make(track)
	if err != nil {
		return nil, err
	}

	rs, err := audio.NewResamplerWithConfig(desc.SampleRate, targetRate, c.resampler)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("format", format.Name()).
		Int("track", track.ID).
		Str("codec", string(track.Codec)).
		Int("sample_rate", desc.SampleRate).
		Int("channels", desc.Channels).
		Int("target_rate", targetRate).
		Msg("probed input")

	out := wav.NewWriteBuffer(wav.HeaderSize + estimateBytes(len(input), desc, targetRate))
	enc, err := wav.NewEncoder(out, audio.StreamDescriptor{SampleRate: targetRate, Channels: 1, BitDepth: 16})
	if err != nil {
		return nil, err
	}
	if err := enc.WriteHeader(); err != nil {
		return nil, err
	}

	l := &loop{rs: rs, enc: enc, chunk: rs.ChunkSize()}
	if err := l.run(ctx, c.log, reader, dec, track.ID); err != nil {
		return nil, err
	}

	if rs.Consumed() == 0 {
		return nil, fmt.Errorf("%w: no audio decoded", audio.ErrDecodeIO)
	}
	if err := enc.Finalize(); err != nil {
		return nil, err
	}

	c.log.Debug().
		Int("packets", l.packets).
		Int("resets", l.resets).
		Int64("samples_in", rs.Consumed()).
		Int64("samples_out", rs.Produced()).
		Msg("normalized")

	return out.Bytes(), nil
}

// estimateBytes guesses the output data size from the input size, capped
// so that a lying header cannot force a large allocation.
func estimateBytes(inputLen int, desc audio.StreamDescriptor, targetRate int) int {
	bps := max(desc.BytesPerSample(), 1)
	frames := inputLen / (bps * desc.Channels)
	est := int(float64(frames)*float64(targetRate)/float64(desc.SampleRate)) * 2
	return min(est, 64<<20)
}

// loop is the state of one decode run.
type loop struct {
	rs    *audio.Resampler
	enc   *wav.Encoder
	chunk int

	mono    []float64 // mixed samples waiting for a full chunk
	out     []float64
	packets int
	resets  int
}

func (l *loop) run(ctx context.Context, log zerolog.Logger, reader audio.FormatReader, dec audio.Decoder, trackID int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := reader.Next()
		switch res.Status {
		case audio.StatusPacket:
			if res.Packet.TrackID != trackID {
				continue
			}
			l.packets++

			frame, err := dec.Decode(res.Packet)
			if errors.Is(err, audio.ErrResetRequired) {
				log.Debug().Int("packet", l.packets).Msg("decoder reset")
				dec.Reset()
				l.resets++
				continue
			}
			if err != nil {
				return fmt.Errorf("decoding packet %d: %w", l.packets, err)
			}

			if err := l.push(frame); err != nil {
				return err
			}

		case audio.StatusResetRequired:
			log.Debug().Int("packet", l.packets).Msg("stream reset")
			dec.Reset()
			l.resets++

		case audio.StatusEndOfStream:
			return l.flush()

		case audio.StatusFatal:
			return res.Err

		default:
			return fmt.Errorf("%w: unknown read status %v", audio.ErrDecodeIO, res.Status)
		}
	}
}

// push mixes frame down and feeds every complete chunk to the resampler.
func (l *loop) push(frame *audio.Frame) error {
	var err error
	l.mono, err = audio.MixToMono(l.mono, frame.Samples, frame.Channels)
	if err != nil {
		return err
	}

	i := 0
	for ; i+l.chunk <= len(l.mono); i += l.chunk {
		l.out, err = l.rs.Process(l.out[:0], l.mono[i:i+l.chunk])
		if err != nil {
			return err
		}
		if err := l.enc.WriteFloats(l.out); err != nil {
			return err
		}
	}

	n := copy(l.mono, l.mono[i:])
	l.mono = l.mono[:n]

	return nil
}

func (l *loop) flush() error {
	var err error
	l.out, err = l.rs.Flush(l.out[:0], l.mono)
	if err != nil {
		return err
	}
	l.mono = l.mono[:0]

	return l.enc.WriteFloats(l.out)
}
