// SPDX-License-Identifier: EPL-2.0

//go:build !whisper_cpp

package stt

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestStub_Unavailable(t *testing.T) {
	t.Parallel()

	logs := new(bytes.Buffer)
	r, err := New(Params{ModelPath: "ggml-base.bin", Logger: zerolog.New(logs)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	text, err := r.Recognize(context.Background(), make([]float32, 16000))
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("Recognize() error = %v, want ErrEngineUnavailable", err)
	}
	if text != "" {
		t.Errorf("Recognize() = %q, want empty", text)
	}
	if !bytes.Contains(logs.Bytes(), []byte("recognition disabled")) {
		t.Errorf("missing startup warning in %s", logs)
	}
}

func TestStub_ContextCanceled(t *testing.T) {
	t.Parallel()

	r, _ := New(Params{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Recognize(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Recognize() error = %v, want context.Canceled", err)
	}
}
