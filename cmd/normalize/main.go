// SPDX-License-Identifier: EPL-2.0

// Command normalize converts an audio file to a mono 16-bit PCM WAV.
//
//	normalize <input.{wav|aiff|ogg|mp3}> <output.wav> [rate]
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ik5/voicebot/internal/logging"
	"github.com/ik5/voicebot/pipeline"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: normalize <input.{wav|aiff|ogg|mp3}> <output.wav> [rate]")
		os.Exit(1)
	}
	inPath := os.Args[1]
	outPath := os.Args[2]

	log := logging.FromEnv()

	rate := pipeline.DefaultTargetRate
	if len(os.Args) > 3 {
		r, err := strconv.Atoi(os.Args[3])
		if err != nil || r <= 0 {
			log.Fatal().Str("rate", os.Args[3]).Msg("invalid sample rate")
		}
		rate = r
	}

	input, err := os.ReadFile(inPath)
	if err != nil {
		log.Fatal().Err(err).Msg("reading input")
	}

	out, err := pipeline.New(pipeline.WithLogger(log)).NormalizeToWAV(input, rate)
	if err != nil {
		log.Fatal().Err(err).Str("input", inPath).Msg("normalizing")
	}

	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		log.Fatal().Err(err).Msg("writing output")
	}

	fmt.Println("Wrote:", outPath)
}
