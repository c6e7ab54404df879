// SPDX-License-Identifier: EPL-2.0

// Package transcode converts audio with an external ffmpeg binary. It is the
// fallback for containers and codecs the native pipeline does not decode.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

var ErrExternalToolFailed = errors.New("external audio converter failed")

const (
	DefaultPath       = "ffmpeg"
	DefaultSampleRate = 16000
)

type Option func(*FFmpeg)

// WithPath sets the ffmpeg executable, looked up in PATH when not absolute.
func WithPath(path string) Option {
	return func(f *FFmpeg) { f.path = path }
}

func WithSampleRate(rate int) Option {
	return func(f *FFmpeg) { f.rate = rate }
}

// WithTempDir sets where input and output files are staged. Empty means
// os.TempDir.
func WithTempDir(dir string) Option {
	return func(f *FFmpeg) { f.tempDir = dir }
}

func WithLogger(l zerolog.Logger) Option {
	return func(f *FFmpeg) { f.log = l }
}

// FFmpeg produces mono 16-bit PCM WAV files by running ffmpeg on staged
// temp files. It holds no per-call state and is safe for concurrent use.
type FFmpeg struct {
	path    string
	rate    int
	tempDir string
	log     zerolog.Logger
}

func New(opts ...Option) *FFmpeg {
	f := &FFmpeg{
		path: DefaultPath,
		rate: DefaultSampleRate,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Args returns the ffmpeg arguments converting in to out.
func (f *FFmpeg) Args(in, out string) []string {
	return []string{
		"-y",
		"-i", in,
		"-ar", strconv.Itoa(f.rate),
		"-ac", "1",
		"-f", "wav",
		"-acodec", "pcm_s16le",
		out,
	}
}

// ConvertToWAV stages input in a temp file and converts it.
func (f *FFmpeg) ConvertToWAV(ctx context.Context, input []byte) ([]byte, error) {
	in, err := os.CreateTemp(f.tempDir, "voicebot-in-*")
	if err != nil {
		return nil, fmt.Errorf("staging input: %w", err)
	}
	defer os.Remove(in.Name())

	if _, err := in.Write(input); err != nil {
		in.Close()
		return nil, fmt.Errorf("staging input: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("staging input: %w", err)
	}

	return f.ConvertFile(ctx, in.Name())
}

// ConvertFile converts the audio file at path and returns the WAV bytes.
// ffmpeg output is discarded; only the exit status is inspected.
func (f *FFmpeg) ConvertFile(ctx context.Context, path string) ([]byte, error) {
	out, err := os.CreateTemp(f.tempDir, "voicebot-out-*.wav")
	if err != nil {
		return nil, fmt.Errorf("staging output: %w", err)
	}
	out.Close()
	defer os.Remove(out.Name())

	// nil Stdout and Stderr go to the null device
	cmd := exec.CommandContext(ctx, f.path, f.Args(path, out.Name())...)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrExternalToolFailed, f.path, err)
	}

	wav, err := os.ReadFile(out.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: reading output: %w", ErrExternalToolFailed, err)
	}
	if len(wav) == 0 {
		return nil, fmt.Errorf("%w: %s produced no output", ErrExternalToolFailed, f.path)
	}

	f.log.Debug().
		Str("input", path).
		Int("bytes", len(wav)).
		Dur("took", time.Since(start)).
		Msg("ffmpeg conversion done")

	return wav, nil
}
