package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soyeahso/cerberus/internal/agent"
	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/hooks"
	"github.com/soyeahso/cerberus/internal/logging"
	"github.com/soyeahso/cerberus/internal/store"
	"github.com/soyeahso/cerberus/internal/version"
)

// Server is the Cerberus dashboard HTTP + WebSocket server. It exposes the
// business store and the agent orchestrator as a JSON REST API, plus a
// WebSocket event stream fed by the hook manager.
type Server struct {
	cfg  config.Config
	auth ResolvedAuth
	log  *logging.Logger
	biz  *store.Business
	orch *agent.Orchestrator

	// Hook manager (optional — nil disables /ws/events and lifecycle emits)
	hooks *hooks.Manager

	startedAt  time.Time
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// ServerOption configures the dashboard server.
type ServerOption func(*Server)

// WithHooks sets the hook manager backing the /ws/events stream.
func WithHooks(hm *hooks.Manager) ServerOption {
	return func(s *Server) {
		s.hooks = hm
	}
}

// New creates a dashboard server over the given business store and
// orchestrator.
func New(cfg config.Config, log *logging.Logger, biz *store.Business, orch *agent.Orchestrator, opts ...ServerOption) *Server {
	allowedOrigins := cfg.Dashboard.AllowedOrigins
	s := &Server{
		cfg:  cfg,
		auth: ResolveAuth(cfg.Dashboard.Auth),
		log:  log.Sub("dashboard"),
		biz:  biz,
		orch: orch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(allowedOrigins),
		},
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// checkWebSocketOrigin returns a function that validates WebSocket Origin
// headers. Requests without an Origin header (non-browser clients) are always
// allowed; browser requests must match a configured origin.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.DashboardConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// handler builds the full HTTP handler: routes wrapped in auth and the
// standard middleware chain.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	var h http.Handler = mux
	h = s.requireAuth(h)
	h = withMiddleware(h, s.log, s.cfg.Dashboard.AllowedOrigins)
	return h
}

// requireAuth rejects unauthenticated requests to everything but /health.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || Authorize(s.auth, r) {
			next.ServeHTTP(w, r)
			return
		}
		s.log.Warn().Str("path", r.URL.Path).Str("remote", r.RemoteAddr).Msg("unauthorized request")
		writeError(w, http.StatusUnauthorized, "unauthorized")
	})
}

// Start begins listening for HTTP and WebSocket connections.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Dashboard)

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.handler(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.Dashboard.Bind == "lan" && !s.auth.Enabled() {
		s.log.Warn().Msg("dashboard bound to LAN without an auth token")
	}

	s.startedAt = time.Now()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Dashboard.Bind).
		Bool("auth", s.auth.Enabled()).
		Str("version", version.Version).
		Msg("dashboard server starting")

	if s.hooks != nil {
		s.hooks.Emit(ctx, hooks.EventServerStart, map[string]any{
			"addr": ln.Addr().String(),
		})
	}

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down dashboard server")
		if s.hooks != nil {
			s.hooks.Emit(context.Background(), hooks.EventServerStop, nil)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
