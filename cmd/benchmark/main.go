// SPDX-License-Identifier: EPL-2.0

// Command benchmark measures recognition speed on one file.
//
//	benchmark <model> <input>
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ik5/voicebot"
	"github.com/ik5/voicebot/bot"
	"github.com/ik5/voicebot/internal/config"
	"github.com/ik5/voicebot/internal/logging"
	"github.com/ik5/voicebot/stt"
	"github.com/ik5/voicebot/transcode"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <model> <input>\n", os.Args[0])
		os.Exit(1)
	}
	model, input := os.Args[1], os.Args[2]

	cfg := config.Load()
	log := logging.FromEnv()

	log.Info().Msg("Starting benchmark run")
	log.Info().Str("model", model).Str("input", input).Msg("benchmark parameters")

	ctx := context.Background()
	ff := transcode.New(
		transcode.WithPath(cfg.FFmpegPath),
		transcode.WithSampleRate(stt.SampleRate),
		transcode.WithLogger(log),
	)

	wav, err := ff.ConvertFile(ctx, input)
	if err != nil {
		log.Fatal().Err(err).Msg("converting input")
	}

	data, err := voicebot.ConvertWAVToSamples(wav)
	if err != nil {
		log.Fatal().Err(err).Msg("decoding samples")
	}

	total := int(math.Round(data.Duration))
	log.Info().Msgf("Audio duration: %d minutes, %d seconds (%d samples)", total/60, total%60, len(data.Samples))

	rec, err := stt.New(stt.Params{
		ModelPath: model,
		Threads:   cfg.WhisperThreads,
		Language:  cfg.WhisperLanguage,
		Logger:    log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("loading model")
	}
	defer rec.Close()

	start := time.Now()
	text, err := rec.Recognize(ctx, data.Samples)
	took := time.Since(start)
	if err != nil {
		log.Fatal().Err(err).Msg("recognizing")
	}

	log.Info().Str("text", text).Msg("Recognized text")
	log.Info().
		Float64("speed", bot.Speed(total, took)).
		Dur("took", took).
		Msg("Recognition speed (seconds of audio in second)")
}
