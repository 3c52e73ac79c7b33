package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/soyeahso/cerberus/internal/hooks"
)

const (
	eventBufferSize = 64
	writeTimeout    = 10 * time.Second
	pingInterval    = 30 * time.Second
)

// handleEvents upgrades to WebSocket and streams hook events to the client.
// Each connection registers a handler on every hook event; the handler feeds
// a buffered channel drained by the write loop. A slow client drops events
// rather than blocking emitters.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.hooks == nil {
		writeError(w, http.StatusServiceUnavailable, "event stream not available")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events := make(chan hooks.Payload, eventBufferSize)
	name := "dashboard-" + uuid.New().String()
	for _, event := range hooks.AllEvents {
		s.hooks.On(event, name, func(ctx context.Context, p hooks.Payload) error {
			select {
			case events <- p:
			default:
				s.log.Warn().Str("event", p.Event).Msg("event stream full, dropping event")
			}
			return nil
		})
	}
	defer func() {
		for _, event := range hooks.AllEvents {
			s.hooks.Off(event, name)
		}
	}()

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("event stream connected")

	// Read loop only detects disconnects; inbound frames are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case p := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(p); err != nil {
				s.log.Debug().Err(err).Msg("event stream write failed")
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			s.log.Debug().Str("remote", r.RemoteAddr).Msg("event stream disconnected")
			return
		case <-r.Context().Done():
			return
		}
	}
}
