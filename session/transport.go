package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/jwt"
)

// Transport binds the access/refresh pair to the client as HttpOnly cookies.
type Transport struct {
	accessName  string
	refreshName string
	domain      string
	secure      bool
	sameSite    http.SameSite
}

func NewTransport(cfg *config.Config) *Transport {
	t := &Transport{
		accessName:  cfg.Cookie.AccessName,
		refreshName: cfg.Cookie.RefreshName,
		domain:      cfg.Cookie.Domain,
		sameSite:    http.SameSiteLaxMode,
	}
	if cfg.App.IsProduction() {
		t.secure = true
		t.sameSite = http.SameSiteStrictMode
	}
	return t
}

func (t *Transport) AccessCookieName() string  { return t.accessName }
func (t *Transport) RefreshCookieName() string { return t.refreshName }

func (t *Transport) Attach(c echo.Context, pair *jwt.TokenPair) {
	c.SetCookie(t.cookie(t.accessName, pair.AccessToken, pair.AccessMaxAge(), pair.AccessExpiresAt))
	c.SetCookie(t.cookie(t.refreshName, pair.RefreshToken, pair.RefreshMaxAge(), pair.RefreshExpiresAt))
}

// Clear expires both cookies using the same attributes they were set with, so browsers match and drop them.
func (t *Transport) Clear(c echo.Context) {
	c.SetCookie(t.cookie(t.accessName, "", -1, time.Unix(0, 0)))
	c.SetCookie(t.cookie(t.refreshName, "", -1, time.Unix(0, 0)))
}

func (t *Transport) RefreshToken(c echo.Context) string {
	cookie, err := c.Cookie(t.refreshName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (t *Transport) AccessToken(c echo.Context) string {
	cookie, err := c.Cookie(t.accessName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (t *Transport) cookie(name, value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   t.domain,
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: t.sameSite,
	}
}
