// SPDX-License-Identifier: EPL-2.0

// Package config reads the bot configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Addr      string
	ModelPath string

	WhisperThreads  int
	WhisperLanguage string

	// RecordingToWallRatio is the expected seconds of audio recognized per
	// second of wall time, used for the time estimate.
	RecordingToWallRatio float64

	FFmpegPath     string
	FFmpegFallback bool

	MaxAudioBytes int64
	LogLevel      string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "0", "false", "no", "off":
			return false
		default:
			return true
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func Load() Config {
	return Config{
		Addr:                 getenv("VOICEBOT_ADDR", ":8080"),
		ModelPath:            getenv("GGML", "./models/ggml-base.bin"),
		WhisperThreads:       getenvInt("WHISPER_THREADS", 4),
		WhisperLanguage:      getenv("WHISPER_LANGUAGE", "auto"),
		RecordingToWallRatio: getenvFloat("RECORDING_TO_WALL_RATIO", 10),
		FFmpegPath:           getenv("FFMPEG_PATH", "ffmpeg"),
		FFmpegFallback:       getenvBool("FFMPEG_FALLBACK", true),
		MaxAudioBytes:        getenvInt64("MAX_AUDIO_BYTES", 20<<20),
		LogLevel:             getenv("LOG_LEVEL", "info"),
	}
}
