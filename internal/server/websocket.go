package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/jonathan/hiring-assistant/internal/privacy"
	"github.com/jonathan/hiring-assistant/internal/session"
)

// wsFrame is the message structure in both directions. Clients send
// "message" and "ping"; the server answers with "session", "reply",
// "error" and "pong".
type wsFrame struct {
	Type       string          `json:"type"`
	Content    string          `json:"content,omitempty"`
	Error      string          `json:"error,omitempty"`
	RetryAfter int             `json:"retry_after,omitempty"`
	Result     *session.Result `json:"result,omitempty"`
	Session    *sessionView    `json:"session,omitempty"`
}

// handleWebSocket carries one session's conversation over a socket. A text
// frame that is not JSON is treated as the message content. Each message
// draws from the same rate-limit bucket as POST .../messages.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := s.logger.With("session", privacy.HashForLog(id))
	clientID := s.extractClientID(r)
	messagesPath := "/api/v1/sessions/" + id + "/messages"

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		log.Warn("failed to accept websocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			log.Debug("failed to close websocket", "error", closeErr)
		}
	}()
	ws.SetReadLimit(maxMessageBytes)

	ctx := r.Context()
	view := s.view(sess)
	if err := writeFrame(ctx, ws, wsFrame{Type: "session", Session: &view}); err != nil {
		return
	}

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Debug("websocket closed by client")
			} else {
				log.Debug("websocket read error", "error", err)
			}
			return
		}

		var in wsFrame
		if err := json.Unmarshal(data, &in); err != nil {
			in = wsFrame{Type: "message", Content: string(data)}
		}

		switch in.Type {
		case "ping":
			if err := writeFrame(ctx, ws, wsFrame{Type: "pong"}); err != nil {
				return
			}
		case "message":
			if allowed, info := s.rateLimiter.Allow(clientID, messagesPath, http.MethodPost); !allowed {
				log.Warn("websocket rate limit exceeded", "limit", info.Limit)
				frame := wsFrame{Type: "error", Error: "rate_limit_exceeded", RetryAfter: retryAfterSeconds(info)}
				if writeFrame(ctx, ws, frame) != nil {
					return
				}
				continue
			}
			result, err := s.sessions.Handle(ctx, id, in.Content)
			if err != nil {
				if HTTPStatus(err) == http.StatusInternalServerError {
					log.Error("websocket turn failed", "error", err)
					err = errInternal
				}
				if writeFrame(ctx, ws, wsFrame{Type: "error", Error: err.Error()}) != nil {
					return
				}
				continue
			}
			if err := writeFrame(ctx, ws, wsFrame{Type: "reply", Result: &result}); err != nil {
				return
			}
			if result.Ended {
				return
			}
		default:
			if err := writeFrame(ctx, ws, wsFrame{Type: "error", Error: "unknown frame type: " + in.Type}); err != nil {
				return
			}
		}
	}
}

var errInternal = errors.New("internal error")

func writeFrame(ctx context.Context, ws *websocket.Conn, frame wsFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
