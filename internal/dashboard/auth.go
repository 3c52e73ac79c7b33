package dashboard

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/soyeahso/cerberus/internal/config"
)

// ResolvedAuth holds the resolved dashboard credentials.
type ResolvedAuth struct {
	Token string
}

// Enabled reports whether requests must present a token. An empty token
// leaves the dashboard open, which is the expected mode for a loopback bind.
func (a ResolvedAuth) Enabled() bool { return a.Token != "" }

// ResolveAuth resolves the dashboard token from config and environment.
// Precedence: config value → CERBERUS_DASHBOARD_TOKEN → empty (auth off).
func ResolveAuth(cfg config.DashboardAuth) ResolvedAuth {
	auth := ResolvedAuth{Token: cfg.Token}
	if auth.Token == "" {
		auth.Token = os.Getenv("CERBERUS_DASHBOARD_TOKEN")
	}
	return auth
}

// Authorize checks the request against the resolved auth. Credentials come
// from the Authorization header (Bearer scheme) or, for WebSocket clients
// that cannot set headers, a ?token= query parameter.
func Authorize(auth ResolvedAuth, r *http.Request) bool {
	if !auth.Enabled() {
		return true
	}
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return false
	}
	return safeEqual(token, auth.Token)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// safeEqual performs a constant-time string comparison to prevent timing
// attacks, without leaking the secret length via an early return.
func safeEqual(a, b string) bool {
	lenMatch := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))
	cmp := subtle.ConstantTimeCompare([]byte(a), []byte(b))
	return subtle.ConstantTimeSelect(lenMatch, cmp, 0) == 1
}
