package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait   = 10 * time.Second
	wsPongWait    = 60 * time.Second
	wsPingEvery   = wsPongWait * 9 / 10
	wsReadLimit   = 512
	wsRefresh     = time.Second
	wsMaxRefresh  = time.Minute
	wsTypeStatus  = "status"
	wsTypeError   = "error"
	errBadRefresh = "refresh must be a Go duration between 0 and 1m"
)

// wsEnvelope wraps every message sent on /ws.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The config page is served from the device itself, usually by IP address
// on the provisioning network, so any origin is accepted.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Live relay status
// @Description  Upgrades to a websocket. A {"type":"status","data":RelayStatus} envelope is pushed on connect, whenever the controller changes state, and every refresh period so current_time keeps moving.
// @Tags         device
// @Param        refresh  query  string  false  "Clock refresh period as a Go duration (max 1m)"  example(1s)
// @Success      101
// @Failure      400  {object}  map[string]string
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	refresh, ok := parseRefresh(c.Query("refresh"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadRefresh})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logWarn("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	s := &statusStream{h: h, conn: conn, refresh: refresh}
	s.run(ctx, cancel)
}

// parseRefresh reads the refresh query value. Empty means the default.
func parseRefresh(q string) (time.Duration, bool) {
	if q == "" {
		return wsRefresh, true
	}
	d, err := time.ParseDuration(q)
	if err != nil || d <= 0 || d > wsMaxRefresh {
		return 0, false
	}
	return d, true
}

// statusStream pushes relay status to one websocket client.
type statusStream struct {
	h       *Handler
	conn    *websocket.Conn
	refresh time.Duration
}

func (s *statusStream) run(ctx context.Context, cancel context.CancelFunc) {
	// The client only sends control frames; reading keeps pongs flowing and
	// notices a closed socket.
	s.conn.SetReadLimit(wsReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := s.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	changes := s.h.services.Monitoring.Changes(ctx)
	clockTick := time.NewTicker(s.refresh)
	defer clockTick.Stop()
	ping := time.NewTicker(wsPingEvery)
	defer ping.Stop()

	if err := s.push(ctx); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, open := <-changes:
			if !open {
				return
			}
			if err := s.push(ctx); err != nil {
				return
			}
		case <-clockTick.C:
			if err := s.push(ctx); err != nil {
				return
			}
		case <-ping.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				s.h.logWarn("ws_ping_failed", "err", err)
				return
			}
		}
	}
}

// push writes the current status. A status failure is reported to the client
// as an error envelope and ends the stream.
func (s *statusStream) push(ctx context.Context) error {
	msg := wsEnvelope{Type: wsTypeStatus}
	st, statusErr := s.h.services.Monitoring.Status(ctx)
	if statusErr != nil {
		s.h.logWarn("ws_status_failed", "err", statusErr)
		msg = wsEnvelope{Type: wsTypeError, Error: errGetStatus}
	} else {
		msg.Data = st
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.h.logWarn("ws_write_failed", "err", err)
		return err
	}
	return statusErr
}
