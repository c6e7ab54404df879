// SPDX-License-Identifier: EPL-2.0

// Package stt runs speech recognition over mono 16 kHz float samples.
//
// The whisper.cpp engine needs cgo and is only compiled with the
// whisper_cpp build tag. Without it New returns an engine whose Recognize
// always fails with ErrEngineUnavailable, so the rest of the bot still
// builds and runs.
package stt

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

var ErrEngineUnavailable = errors.New("speech recognition engine unavailable")

// SampleRate is the rate Recognize expects its samples at.
const SampleRate = 16000

// Recognizer turns audio samples into text.
type Recognizer interface {
	// Recognize transcribes mono samples in [-1,1] at SampleRate.
	Recognize(ctx context.Context, samples []float32) (string, error)
	Close() error
}

// Params configures an engine.
type Params struct {
	// ModelPath is the ggml model file.
	ModelPath string
	// Threads used for inference; values below 1 mean DefaultThreads.
	Threads int
	// Language code, or "auto" to detect it.
	Language string
	Logger   zerolog.Logger
}

const (
	DefaultThreads  = 4
	DefaultLanguage = "auto"
)

func (p Params) withDefaults() Params {
	if p.Threads < 1 {
		p.Threads = DefaultThreads
	}
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	return p
}

// joinSegments concatenates segment texts with single spaces.
func joinSegments(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
