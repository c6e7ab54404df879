// SPDX-License-Identifier: EPL-2.0

// Package ws exposes the bot over a WebSocket. Binary frames carry audio,
// text frames carry commands, and every reply is a JSON object.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ik5/voicebot/bot"
)

const idleTimeout = 120 * time.Second

// wireReply is the JSON form of bot.Reply. Document bodies are base64.
type wireReply struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Filename string `json:"filename,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

type Server struct {
	handler  *bot.Handler
	maxBytes int64
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewServer serves handler; audio payloads above maxBytes are refused.
func NewServer(handler *bot.Handler, maxBytes int64, log zerolog.Logger) *Server {
	return &Server{
		handler:  handler,
		maxBytes: maxBytes,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024 * 16,
			WriteBufferSize: 1024 * 16,
		},
		log: log,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	mux.HandleFunc("/ws", s.Handle)
	return mux
}

// connSender writes replies to one connection; gorilla connections allow
// a single concurrent writer.
type connSender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *connSender) Send(_ context.Context, r bot.Reply) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(wireReply{
		Type:     string(r.Kind),
		Text:     r.Text,
		Filename: r.Filename,
		Data:     r.Document,
	})
}

func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	log := s.log.With().Str("conn", uuid.NewString()).Logger()
	log.Info().Str("remote", r.RemoteAddr).Msg("client connected")
	defer log.Info().Msg("client disconnected")

	// frames past twice the limit drop the connection instead of being answered
	if s.maxBytes > 0 {
		conn.SetReadLimit(2 * s.maxBytes)
	}

	send := &connSender{conn: conn}
	ctx := r.Context()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(idleTimeout))

		mt, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("ws read error")
			}
			return
		}

		switch mt {
		case websocket.BinaryMessage:
			if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
				msg := fmt.Sprintf("Error: audio too large (%d bytes, limit %d)", len(data), s.maxBytes)
				err = send.Send(ctx, bot.TextReply(msg))
			} else {
				err = s.handler.HandleAudio(ctx, data, send)
			}
		case websocket.TextMessage:
			err = s.handler.HandleCommand(ctx, string(data), send)
		default:
			continue
		}

		if err != nil {
			log.Warn().Err(err).Msg("ws write error")
			return
		}
	}
}
