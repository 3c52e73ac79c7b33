package dashboard

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soyeahso/cerberus/internal/config"
)

func TestSafeEqual(t *testing.T) {
	assert.True(t, safeEqual("secret", "secret"))
	assert.True(t, safeEqual("", ""))
	assert.False(t, safeEqual("secret", "wrong"))
	assert.False(t, safeEqual("short", "longer-string"))
	assert.False(t, safeEqual("secret", ""))
	assert.False(t, safeEqual("", "secret"))
}

func TestResolveAuthFromConfig(t *testing.T) {
	auth := ResolveAuth(config.DashboardAuth{Token: "config-token"})
	assert.Equal(t, "config-token", auth.Token)
	assert.True(t, auth.Enabled())
}

func TestResolveAuthFromEnv(t *testing.T) {
	t.Setenv("CERBERUS_DASHBOARD_TOKEN", "env-token")
	auth := ResolveAuth(config.DashboardAuth{})
	assert.Equal(t, "env-token", auth.Token)
}

func TestResolveAuthConfigWinsOverEnv(t *testing.T) {
	t.Setenv("CERBERUS_DASHBOARD_TOKEN", "env-token")
	auth := ResolveAuth(config.DashboardAuth{Token: "config-token"})
	assert.Equal(t, "config-token", auth.Token)
}

func TestResolveAuthEmpty(t *testing.T) {
	auth := ResolveAuth(config.DashboardAuth{})
	assert.False(t, auth.Enabled())
}

func TestAuthorizeOpenWhenDisabled(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/clients", nil)
	assert.True(t, Authorize(ResolvedAuth{}, req))
}

func TestAuthorizeBearerHeader(t *testing.T) {
	auth := ResolvedAuth{Token: "sekret"}

	req := httptest.NewRequest("GET", "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	assert.True(t, Authorize(auth, req))

	req.Header.Set("Authorization", "bearer sekret") // scheme is case-insensitive
	assert.True(t, Authorize(auth, req))

	req.Header.Set("Authorization", "Bearer wrong")
	assert.False(t, Authorize(auth, req))

	req.Header.Del("Authorization")
	assert.False(t, Authorize(auth, req))
}

func TestAuthorizeQueryToken(t *testing.T) {
	auth := ResolvedAuth{Token: "sekret"}

	req := httptest.NewRequest("GET", "/ws/events?token=sekret", nil)
	assert.True(t, Authorize(auth, req))

	req = httptest.NewRequest("GET", "/ws/events?token=wrong", nil)
	assert.False(t, Authorize(auth, req))
}

func TestBearerTokenRejectsOtherSchemes(t *testing.T) {
	assert.Empty(t, bearerToken("Basic dXNlcjpwYXNz"))
	assert.Empty(t, bearerToken(""))
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
}
