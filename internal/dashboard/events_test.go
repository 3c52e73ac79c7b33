package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/hooks"
	"github.com/soyeahso/cerberus/internal/logging"
)

func dialEvents(t *testing.T, s *Server, query string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s.handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/events" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestEventStreamDeliversHookEvents(t *testing.T) {
	hm := hooks.NewManager(logging.New(nil, "silent"))
	s, _, _ := testServer(t, config.Config{}, WithHooks(hm))

	conn := dialEvents(t, s, "")

	// Give the handler a moment to register its hook subscriptions.
	require.Eventually(t, func() bool {
		return hm.Count(hooks.EventAgentRunStarted) == 1
	}, time.Second, 10*time.Millisecond)

	hm.Emit(context.Background(), hooks.EventAgentRunStarted, map[string]any{"agent": "mailer"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var p hooks.Payload
	require.NoError(t, conn.ReadJSON(&p))
	assert.Equal(t, hooks.EventAgentRunStarted, p.Event)
	assert.Equal(t, "mailer", p.Data["agent"])
	assert.False(t, p.Timestamp.IsZero())
}

func TestEventStreamUnsubscribesOnDisconnect(t *testing.T) {
	hm := hooks.NewManager(logging.New(nil, "silent"))
	s, _, _ := testServer(t, config.Config{}, WithHooks(hm))

	conn := dialEvents(t, s, "")
	require.Eventually(t, func() bool {
		return hm.Count(hooks.EventJobCompleted) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool {
		return hm.Count(hooks.EventJobCompleted) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestEventStreamRequiresToken(t *testing.T) {
	hm := hooks.NewManager(logging.New(nil, "silent"))
	s, _, _ := testServer(t, config.Config{
		Dashboard: config.DashboardConfig{Auth: config.DashboardAuth{Token: "sekret"}},
	}, WithHooks(hm))

	ts := httptest.NewServer(s.handler())
	t.Cleanup(ts.Close)
	base := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/events"

	_, resp, err := websocket.DefaultDialer.Dial(base, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(base+"?token=sekret", nil)
	require.NoError(t, err)
	conn.Close()
}

func TestEventStreamUnavailableWithoutHooks(t *testing.T) {
	s, _, _ := testServer(t, config.Config{})

	req := httptest.NewRequest("GET", "/ws/events", nil)
	rr := httptest.NewRecorder()
	s.handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
