// SPDX-License-Identifier: EPL-2.0

//go:build !whisper_cpp

package stt

import (
	"context"
	"fmt"
)

type stubEngine struct {
	p Params
}

// New returns a placeholder engine; rebuild with -tags whisper_cpp for
// real recognition.
func New(p Params) (Recognizer, error) {
	p = p.withDefaults()
	p.Logger.Warn().Msg("stt: built without whisper_cpp, recognition disabled")
	return &stubEngine{p: p}, nil
}

func (e *stubEngine) Recognize(ctx context.Context, _ []float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: built without whisper_cpp (model %q)", ErrEngineUnavailable, e.p.ModelPath)
}

func (e *stubEngine) Close() error { return nil }
