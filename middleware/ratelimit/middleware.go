package ratelimit

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skillorbit/skillorbit/apperror"
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/zap"
)

type Config struct {
	Store          Store
	Rate           int
	Period         time.Duration
	CountMode      config.CountingMode
	KeyGenerator   func(c echo.Context) string
	OnLimitReached func(c echo.Context) error
	Logger         *logging.Service
}

func Middleware(cfg *Config) echo.MiddlewareFunc {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Period <= 0 {
		cfg.Period = time.Minute
	}
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = DefaultKeyGenerator
	}
	if cfg.OnLimitReached == nil {
		cfg.OnLimitReached = DefaultOnLimitReached
	}
	if cfg.CountMode == "" {
		cfg.CountMode = config.CountAll
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := cfg.KeyGenerator(c)
			resetTime := time.Now().Add(cfg.Period)

			count, existingReset, exists, err := cfg.Store.Get(ctx, key)
			if err != nil {
				// a broken store must not take the auth endpoints down with it
				cfg.Logger.Warn("rate limit store unavailable, allowing request", zap.Error(err))
				return next(c)
			}
			if exists {
				resetTime = existingReset
			}

			if count >= cfg.Rate {
				setHeaders(c, cfg.Rate, 0, resetTime)
				return cfg.OnLimitReached(c)
			}

			newCount := count + 1
			if cfg.CountMode == config.CountAll {
				if newCount, err = cfg.Store.Increment(ctx, key, resetTime); err != nil {
					cfg.Logger.Warn("rate limit increment failed", zap.Error(err))
				}
			}
			setHeaders(c, cfg.Rate, max(cfg.Rate-newCount, 0), resetTime)

			handlerErr := next(c)

			if cfg.CountMode != config.CountAll {
				failed := statusOf(c, handlerErr) >= http.StatusBadRequest
				shouldCount := (cfg.CountMode == config.CountFailures && failed) ||
					(cfg.CountMode == config.CountSuccess && !failed)
				if shouldCount {
					if _, err := cfg.Store.Increment(ctx, key, resetTime); err != nil {
						cfg.Logger.Warn("rate limit increment failed", zap.Error(err))
					}
				}
			}

			return handlerErr
		}
	}
}

// statusOf resolves the status a handler error will be rendered with, since the
// error handler has not written the response yet.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Status()
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

func setHeaders(c echo.Context, limit, remaining int, reset time.Time) {
	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
}

// DefaultKeyGenerator buckets by client IP and route so each endpoint has its own budget.
func DefaultKeyGenerator(c echo.Context) string {
	realIP := c.RealIP()
	if realIP == "" || realIP == "unknown" {
		realIP = "fallback"
	}
	return "rate_limit:" + c.Path() + ":" + realIP
}

func DefaultOnLimitReached(c echo.Context) error {
	return apperror.RateLimited
}
