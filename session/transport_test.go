package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/account"
	"github.com/skillorbit/skillorbit/services/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Environment: env},
		JWT: config.JWTConfig{
			AccessSecret:  "a1b2c3d4e5f6g7h8i9j0k1l2m3n4o5p6q7r8s9t0",
			RefreshSecret: "z9y8x7w6v5u4t3s2r1q0p9o8n7m6l5k4j3i2h1g0",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
			Issuer:        "skillorbit",
		},
		Cookie: config.CookieConfig{AccessName: "accessToken", RefreshName: "refreshToken"},
	}
}

func issuePair(t *testing.T, cfg *config.Config) *jwt.TokenPair {
	t.Helper()
	pair, err := jwt.NewIssuer(cfg.JWT, nil).IssueTokenPair("acct-1", account.RoleStudent)
	require.NoError(t, err)
	return pair
}

func record(fn func(c echo.Context)) []*http.Cookie {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	fn(c)
	return rec.Result().Cookies()
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAttach_Development(t *testing.T) {
	cfg := testConfig("development")
	transport := NewTransport(cfg)
	pair := issuePair(t, cfg)

	cookies := record(func(c echo.Context) { transport.Attach(c, pair) })
	require.Len(t, cookies, 2)

	access := cookieByName(cookies, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, pair.AccessToken, access.Value)
	assert.Equal(t, 900, access.MaxAge)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)

	refresh := cookieByName(cookies, "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, pair.RefreshToken, refresh.Value)
	assert.Equal(t, 604800, refresh.MaxAge)
	assert.True(t, refresh.HttpOnly)
}

func TestAttach_Production(t *testing.T) {
	cfg := testConfig("production")
	transport := NewTransport(cfg)

	cookies := record(func(c echo.Context) { transport.Attach(c, issuePair(t, cfg)) })

	for _, cookie := range cookies {
		assert.True(t, cookie.Secure, cookie.Name)
		assert.True(t, cookie.HttpOnly, cookie.Name)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite, cookie.Name)
	}
}

func TestClear_UsesIdenticalAttributes(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			cfg := testConfig(env)
			cfg.Cookie.Domain = "skillorbit.io"
			transport := NewTransport(cfg)

			set := record(func(c echo.Context) { transport.Attach(c, issuePair(t, cfg)) })
			cleared := record(func(c echo.Context) { transport.Clear(c) })
			require.Len(t, cleared, 2)

			for _, original := range set {
				c := cookieByName(cleared, original.Name)
				require.NotNil(t, c)
				assert.Empty(t, c.Value)
				assert.Equal(t, -1, c.MaxAge)
				assert.Equal(t, original.Path, c.Path)
				assert.Equal(t, original.Domain, c.Domain)
				assert.Equal(t, original.HttpOnly, c.HttpOnly)
				assert.Equal(t, original.Secure, c.Secure)
				assert.Equal(t, original.SameSite, c.SameSite)
				assert.True(t, c.Expires.Before(time.Now()))
			}
		})
	}
}

func TestReadTokens(t *testing.T) {
	transport := NewTransport(testConfig("development"))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "r-value"})
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "a-value"})
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "r-value", transport.RefreshToken(c))
	assert.Equal(t, "a-value", transport.AccessToken(c))

	empty := e.NewContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), httptest.NewRecorder())
	assert.Empty(t, transport.RefreshToken(empty))
	assert.Empty(t, transport.AccessToken(empty))
}
