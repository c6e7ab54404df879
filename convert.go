// SPDX-License-Identifier: EPL-2.0

package voicebot

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ik5/voicebot/audio"
	"github.com/ik5/voicebot/formats/wav"
	"github.com/ik5/voicebot/pipeline"
)

// Converter turns audio bytes of any supported kind into a mono 16-bit PCM
// WAV ready for speech recognition.
type Converter interface {
	ConvertToWAV(ctx context.Context, input []byte) ([]byte, error)
}

var native = pipeline.New()

// NormalizeToWAV decodes input, mixes it down to mono and resamples it to
// targetRate, returning a complete 16-bit PCM WAV.
//
// Example:
//
//	out, err := voicebot.NormalizeToWAV(oggBytes, 16000)
//	if errors.Is(err, audio.ErrUnrecognizedFormat) {
//	    // hand the bytes to an external converter
//	}
func NormalizeToWAV(input []byte, targetRate int) ([]byte, error) {
	return native.NormalizeToWAV(input, targetRate)
}

// ConvertWAVToSamples decodes WAV bytes into float samples in [-1,1] plus
// the clip duration in seconds.
func ConvertWAVToSamples(b []byte) (*audio.AudioData, error) {
	return wav.DecodeSamples(b)
}

// NeedsFallback reports whether err means the native decoder cannot handle
// the input at all, as opposed to the input being broken.
func NeedsFallback(err error) bool {
	return errors.Is(err, audio.ErrUnrecognizedFormat) ||
		errors.Is(err, audio.ErrUnsupportedCodec) ||
		errors.Is(err, audio.ErrNoAudioTrack)
}

// Fallback tries Primary first and hands inputs it cannot decode to
// Secondary. A nil Secondary disables the fallback.
type Fallback struct {
	Primary   Converter
	Secondary Converter
	Logger    zerolog.Logger
}

func (f Fallback) ConvertToWAV(ctx context.Context, input []byte) ([]byte, error) {
	out, err := f.Primary.ConvertToWAV(ctx, input)
	if err == nil || f.Secondary == nil || !NeedsFallback(err) {
		return out, err
	}

	f.Logger.Debug().Err(err).Int("bytes", len(input)).Msg("native conversion unsupported, falling back")

	return f.Secondary.ConvertToWAV(ctx, input)
}
