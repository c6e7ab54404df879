// SPDX-License-Identifier: EPL-2.0

//go:build whisper_cpp

package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	whisperpkg "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// whisperEngine is backed by whisper.cpp with greedy sampling.
type whisperEngine struct {
	p     Params
	model whisperpkg.Model

	// whisper.cpp contexts share the model and must not run concurrently
	mu sync.Mutex
}

func New(p Params) (Recognizer, error) {
	p = p.withDefaults()

	m, err := whisperpkg.New(p.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: load model %q: %w", ErrEngineUnavailable, p.ModelPath, err)
	}

	p.Logger.Info().
		Str("model", p.ModelPath).
		Int("threads", p.Threads).
		Str("language", p.Language).
		Msg("stt: whisper model loaded")

	return &whisperEngine{p: p, model: m}, nil
}

func (e *whisperEngine) Close() error {
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}

func (e *whisperEngine) Recognize(ctx context.Context, samples []float32) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// inference itself cannot be interrupted
	if err := ctx.Err(); err != nil {
		return "", err
	}

	wctx, err := e.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create context: %w", err)
	}
	wctx.SetThreads(uint(e.p.Threads))
	if err := wctx.SetLanguage(e.p.Language); err != nil {
		return "", fmt.Errorf("set language %q: %w", e.p.Language, err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process audio: %w", err)
	}

	var segments []string
	for {
		seg, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read segment: %w", err)
		}
		segments = append(segments, seg.Text)
	}

	text := joinSegments(segments)
	e.p.Logger.Debug().
		Int("samples", len(samples)).
		Int("segments", len(segments)).
		Msg("stt: transcription complete")

	return text, nil
}
