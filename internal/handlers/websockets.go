package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMsgSize      = 1 << 12 // 4 KB
	defaultInterval = 2 * time.Second
	maxInterval     = time.Minute

	msgState = "state"
	msgError = "error"
)

// wsEnvelope wraps every message. Data is a service.Status.
type wsEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Any origin may subscribe; the stream is read-only.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConnect streams the status, polling every ?interval and sending only
// when it differs from the last message.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := parseInterval(c.Query("interval"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.drain(conn, done)

	poll := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer poll.Stop()
	defer ping.Stop()

	ctx := c.Request.Context()
	var last []byte
	for {
		if last, err = h.pushStatus(ctx, conn, last); err != nil {
			if h.log != nil {
				h.log.Infow("ws_write_failed", "err", err)
			}
			return
		}

		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-poll.C:
		}
	}
}

// parseInterval accepts a Go duration up to maxInterval; anything else is the default.
func parseInterval(s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
		return d
	}
	return defaultInterval
}

// drain reads until the peer goes away so control frames are processed.
func (h *Handler) drain(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// pushStatus writes the status if it differs from last and returns what was sent.
// A failed read is reported to the client as an error message.
func (h *Handler) pushStatus(ctx context.Context, conn *websocket.Conn, last []byte) ([]byte, error) {
	env := wsEnvelope{Type: msgState}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		env.Data, err = json.Marshal(st)
	}
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_state_failed", "err", err)
		}
		env = wsEnvelope{Type: msgError, Error: errGetState}
	}

	msg, err := json.Marshal(env)
	if err != nil {
		return last, err
	}
	if bytes.Equal(msg, last) {
		return last, nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return msg, conn.WriteMessage(websocket.TextMessage, msg)
}
