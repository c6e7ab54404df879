// SPDX-License-Identifier: EPL-2.0

// Package bot implements the voice bot dialogue independently of the chat
// transport: it answers audio payloads with a duration estimate, the
// recognition speed and the recognized text.
package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ik5/voicebot"
	"github.com/ik5/voicebot/stt"
)

const (
	// MaxMessageLength is the longest text sent inline; longer
	// transcriptions go out as a document.
	MaxMessageLength = 4096

	DocumentName = "recognized_text.txt"

	// DefaultRatio is how many seconds of audio are expected to be
	// recognized per second of wall time.
	DefaultRatio = 10.0

	msgSomethingWrong = "Something went wrong"
	msgNoSpeech       = "No speech recognized."
	msgSendAudio      = "Send a voice message or an audio file to recognize it."
)

// ErrUnexpectedLayout is reported when the converter hands back audio the
// recognizer cannot take as is.
var ErrUnexpectedLayout = errors.New("converted audio is not 16 kHz mono")

type ReplyKind string

const (
	KindText     ReplyKind = "text"
	KindDocument ReplyKind = "document"
)

// Reply is one outgoing message.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Filename string
	Document []byte
}

func TextReply(text string) Reply { return Reply{Kind: KindText, Text: text} }

// Sender delivers replies to the chat the request came from.
type Sender interface {
	Send(ctx context.Context, r Reply) error
}

type Command struct {
	Name        string
	Description string
}

// Commands lists what HelpText describes.
var Commands = []Command{
	{Name: "recognize", Description: "recognize the attached audio file."},
	{Name: "help", Description: "display this text."},
}

func HelpText() string {
	var b strings.Builder
	b.WriteString("These commands are supported:")
	for _, c := range Commands {
		fmt.Fprintf(&b, "\n/%s - %s", c.Name, c.Description)
	}
	return b.String()
}

type Option func(*Handler)

// WithRatio sets the expected audio-to-wall-time ratio. Non-positive values
// are ignored.
func WithRatio(ratio float64) Option {
	return func(h *Handler) {
		if ratio > 0 {
			h.ratio = ratio
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(h *Handler) { h.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// Handler runs one request at a time per call and keeps no state between
// calls; it is safe for concurrent use when its converter and recognizer are.
type Handler struct {
	conv  voicebot.Converter
	rec   stt.Recognizer
	ratio float64
	log   zerolog.Logger
	now   func() time.Time
}

func New(conv voicebot.Converter, rec stt.Recognizer, opts ...Option) *Handler {
	h := &Handler{
		conv:  conv,
		rec:   rec,
		ratio: DefaultRatio,
		log:   zerolog.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleCommand answers a text message.
func (h *Handler) HandleCommand(ctx context.Context, text string, send Sender) error {
	name, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	// Telegram style "/help@botname"
	name, _, _ = strings.Cut(name, "@")

	switch name {
	case "/help", "/start":
		return send.Send(ctx, TextReply(HelpText()))
	case "/recognize":
		return send.Send(ctx, TextReply(msgSendAudio))
	default:
		if strings.HasPrefix(name, "/") {
			return send.Send(ctx, TextReply(HelpText()))
		}
		return send.Send(ctx, TextReply(msgSomethingWrong))
	}
}

// HandleAudio recognizes payload and reports progress through send.
// Processing failures are answered with an "Error: ..." reply; the returned
// error is reserved for failures of send itself.
func (h *Handler) HandleAudio(ctx context.Context, payload []byte, send Sender) error {
	if len(payload) == 0 {
		return send.Send(ctx, TextReply(msgSomethingWrong))
	}

	log := h.log.With().Str("job", uuid.NewString()).Logger()
	log.Info().Int("bytes", len(payload)).Msg("audio received")

	wav, err := h.conv.ConvertToWAV(ctx, payload)
	if err != nil {
		return h.fail(ctx, log, send, "converting audio", err)
	}

	data, err := voicebot.ConvertWAVToSamples(wav)
	if err != nil {
		return h.fail(ctx, log, send, "decoding samples", err)
	}
	if data.SampleRate != stt.SampleRate || data.Channels != 1 {
		err := fmt.Errorf("%w: %d Hz, %d channels", ErrUnexpectedLayout, data.SampleRate, data.Channels)
		return h.fail(ctx, log, send, "decoding samples", err)
	}

	total := int(math.Round(data.Duration))
	expected := int(float64(total) / h.ratio)
	msg := fmt.Sprintf("Audio duration: %s.\nExpected recognition time: %s",
		minutesSeconds(total), ExpectedTime(expected))
	if err := send.Send(ctx, TextReply(msg)); err != nil {
		return err
	}

	start := h.now()
	text, err := h.rec.Recognize(ctx, data.Samples)
	took := h.now().Sub(start)
	if err != nil {
		return h.fail(ctx, log, send, "recognizing", err)
	}

	speed := Speed(total, took)
	log.Info().Str("text", text).Msg("recognized text")
	log.Info().Float64("speed", speed).Dur("took", took).Msg("recognition speed")

	msg = fmt.Sprintf("Actual recognition speed: %.2f seconds of audio in second", speed)
	if err := send.Send(ctx, TextReply(msg)); err != nil {
		return err
	}

	switch {
	case text == "":
		return send.Send(ctx, TextReply(msgNoSpeech))
	case len(text) > MaxMessageLength:
		return send.Send(ctx, Reply{Kind: KindDocument, Filename: DocumentName, Document: []byte(text)})
	default:
		return send.Send(ctx, TextReply(text))
	}
}

func (h *Handler) fail(ctx context.Context, log zerolog.Logger, send Sender, stage string, err error) error {
	log.Warn().Err(err).Str("stage", stage).Msg("request failed")
	return send.Send(ctx, TextReply("Error: "+err.Error()))
}

func minutesSeconds(total int) string {
	return fmt.Sprintf("%d minutes %d seconds", total/60, total%60)
}

// ExpectedTime formats seconds as "M minutes S seconds", dropping the
// minutes when there are none.
func ExpectedTime(seconds int) string {
	if seconds >= 60 {
		return minutesSeconds(seconds)
	}
	return fmt.Sprintf("%d seconds", seconds)
}

// Speed returns seconds of audio recognized per second of wall time.
func Speed(audioSeconds int, took time.Duration) float64 {
	if took <= 0 {
		return 0
	}
	return float64(audioSeconds) / took.Seconds()
}
