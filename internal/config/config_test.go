// SPDX-License-Identifier: EPL-2.0

package config

import "testing"

// Tests here use t.Setenv and therefore cannot run in parallel.

var keys = []string{
	"VOICEBOT_ADDR", "GGML", "WHISPER_THREADS", "WHISPER_LANGUAGE",
	"RECORDING_TO_WALL_RATIO", "FFMPEG_PATH",
	"FFMPEG_FALLBACK", "MAX_AUDIO_BYTES", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	got := Load()
	want := Config{
		Addr:                 ":8080",
		ModelPath:            "./models/ggml-base.bin",
		WhisperThreads:       4,
		WhisperLanguage:      "auto",
		RecordingToWallRatio: 10,
		FFmpegPath:           "ffmpeg",
		FFmpegFallback:       true,
		MaxAudioBytes:        20 << 20,
		LogLevel:             "info",
	}

	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VOICEBOT_ADDR", "127.0.0.1:9000")
	t.Setenv("GGML", "/models/ggml-small.bin")
	t.Setenv("WHISPER_THREADS", "8")
	t.Setenv("WHISPER_LANGUAGE", "ru")
	t.Setenv("RECORDING_TO_WALL_RATIO", "2.5")
	t.Setenv("FFMPEG_PATH", "/usr/bin/ffmpeg")
	t.Setenv("FFMPEG_FALLBACK", "off")
	t.Setenv("MAX_AUDIO_BYTES", "1024")
	t.Setenv("LOG_LEVEL", "debug")

	got := Load()
	want := Config{
		Addr:                 "127.0.0.1:9000",
		ModelPath:            "/models/ggml-small.bin",
		WhisperThreads:       8,
		WhisperLanguage:      "ru",
		RecordingToWallRatio: 2.5,
		FFmpegPath:           "/usr/bin/ffmpeg",
		FFmpegFallback:       false,
		MaxAudioBytes:        1024,
		LogLevel:             "debug",
	}

	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoad_InvalidNumbersKeepDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("WHISPER_THREADS", "many")
	t.Setenv("RECORDING_TO_WALL_RATIO", "fast")
	t.Setenv("MAX_AUDIO_BYTES", "20MB")

	got := Load()
	if got.WhisperThreads != 4 || got.RecordingToWallRatio != 10 || got.MaxAudioBytes != 20<<20 {
		t.Errorf("Load() = %+v, want numeric defaults", got)
	}
}

func TestGetenvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{value: "", def: true, want: true},
		{value: "", def: false, want: false},
		{value: "0", def: true, want: false},
		{value: "FALSE", def: true, want: false},
		{value: "No", def: true, want: false},
		{value: "1", def: false, want: true},
		{value: "yes", def: false, want: true},
	}

	for _, tt := range tests {
		t.Setenv("VOICEBOT_TEST_BOOL", tt.value)
		if got := getenvBool("VOICEBOT_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("getenvBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}
