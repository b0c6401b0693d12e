package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/skillorbit/skillorbit/config"
	jwtmw "github.com/skillorbit/skillorbit/middleware/jwt"
	"github.com/skillorbit/skillorbit/middleware/ratelimit"
	"github.com/skillorbit/skillorbit/openapi"
	"github.com/skillorbit/skillorbit/server"
	"github.com/skillorbit/skillorbit/services/auth"
	"github.com/skillorbit/skillorbit/services/health"
	"github.com/skillorbit/skillorbit/services/jwt"
	"github.com/skillorbit/skillorbit/services/logging"
	"github.com/skillorbit/skillorbit/services/metrics"
	"github.com/skillorbit/skillorbit/session"
	"go.uber.org/fx"
)

type RouteParams struct {
	fx.In

	Server    *server.Server
	Config    *config.Config
	Auth      *AuthHandler
	Issuer    *jwt.Issuer
	Transport *session.Transport
	Docs      *openapi.OpenAPI
	Logger    *logging.Service
	Limits    ratelimit.Store  `optional:"true"`
	Health    *health.Checker  `optional:"true"`
	Metrics   *metrics.Service `optional:"true"`
}

func RegisterRoutes(p RouteParams) {
	e := p.Server.Echo()

	var limited []echo.MiddlewareFunc
	if p.Config.RateLimit.Enabled && p.Limits != nil {
		limited = append(limited, ratelimit.Middleware(ratelimit.FromConfig(p.Config, p.Limits, p.Logger.Named("ratelimit"))))
	}

	g := e.Group("/auth")
	g.POST("/register", p.Auth.Register, limited...)
	g.GET("/verify-email", p.Auth.VerifyEmail)
	g.POST("/resend-verification", p.Auth.ResendVerification, limited...)
	g.POST("/login", p.Auth.Login, limited...)
	g.POST("/logout", p.Auth.Logout)
	g.POST("/refresh-token", p.Auth.RefreshToken)
	g.GET("/me", p.Auth.Me, jwtmw.RequireAuth(p.Issuer, p.Transport.AccessCookieName()))

	if p.Health != nil {
		e.GET("/health/live", p.Health.Live)
		e.GET("/health/ready", p.Health.Ready)
	}

	if p.Config.Metrics.Enabled && p.Metrics != nil {
		e.GET(p.Config.Metrics.Path, echo.WrapHandler(p.Metrics.Handler()))
	}

	documentAuthRoutes(p.Docs, p.Config)
	e.GET("/openapi.json", p.Docs.JSONHandler())
	e.GET("/openapi.yaml", p.Docs.YAMLHandler())
}

func provideAuthHandler(svc *auth.Service, transport *session.Transport, logger *logging.Service) *AuthHandler {
	return NewAuthHandler(svc, transport, logger.Named("http.auth"))
}

var Module = fx.Options(
	fx.Provide(provideAuthHandler, NewDocs),
	fx.Invoke(RegisterRoutes),
)
