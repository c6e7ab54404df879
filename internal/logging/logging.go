// SPDX-License-Identifier: EPL-2.0

// Package logging configures the global zerolog logger for the binaries.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup sets the global logger to write to w at level, falling back to info
// when level does not parse, and returns it.
func Setup(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	lvl := zerolog.InfoLevel
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			lvl = l
		}
	}

	log.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return log.Logger
}

// FromEnv is Setup on stderr with LOG_LEVEL.
func FromEnv() zerolog.Logger {
	return Setup(os.Stderr, os.Getenv("LOG_LEVEL"))
}
