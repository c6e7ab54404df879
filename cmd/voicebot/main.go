// SPDX-License-Identifier: EPL-2.0

// Command voicebot serves the voice bot over a WebSocket.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/voicebot"
	"github.com/ik5/voicebot/bot"
	"github.com/ik5/voicebot/internal/config"
	"github.com/ik5/voicebot/internal/logging"
	"github.com/ik5/voicebot/internal/ws"
	"github.com/ik5/voicebot/pipeline"
	"github.com/ik5/voicebot/stt"
	"github.com/ik5/voicebot/transcode"
)

func main() {
	cfg := config.Load()
	log := logging.Setup(os.Stderr, cfg.LogLevel)

	conv := voicebot.Fallback{
		Primary: pipeline.New(
			pipeline.WithLogger(log),
			pipeline.WithTargetRate(stt.SampleRate),
		),
		Logger: log,
	}
	if cfg.FFmpegFallback {
		conv.Secondary = transcode.New(
			transcode.WithPath(cfg.FFmpegPath),
			transcode.WithSampleRate(stt.SampleRate),
			transcode.WithLogger(log),
		)
	}

	rec, err := stt.New(stt.Params{
		ModelPath: cfg.ModelPath,
		Threads:   cfg.WhisperThreads,
		Language:  cfg.WhisperLanguage,
		Logger:    log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("loading speech recognition")
	}
	defer rec.Close()

	handler := bot.New(conv, rec,
		bot.WithRatio(cfg.RecordingToWallRatio),
		bot.WithLogger(log),
	)

	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     ws.NewServer(handler, cfg.MaxAudioBytes, log).Router(),
		ReadTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info().Str("addr", cfg.Addr).Msg("Starting bot...")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}
