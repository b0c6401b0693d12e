package logging

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*Service, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewFromZap(zap.New(core)), logs
}

func TestNewService(t *testing.T) {
	t.Run("json to stdout", func(t *testing.T) {
		service, err := NewService(Config{Level: "info", Format: "json", OutputPath: "stdout"})

		require.NoError(t, err)
		assert.NotNil(t, service.Logger())
	})

	t.Run("console format", func(t *testing.T) {
		service, err := NewService(Config{Level: "debug", Format: "console"})

		require.NoError(t, err)
		assert.True(t, service.Logger().Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewService(Config{Format: "xml"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported log format")
	})

	t.Run("file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "skillorbit.log")

		service, err := NewService(Config{Level: "warn", Format: "json", OutputPath: logFile})
		require.NoError(t, err)

		service.Warn("disk check", zap.String("component", "test"))
		_ = service.Sync()

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "disk check")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestNilService(t *testing.T) {
	var service *Service

	assert.NotPanics(t, func() {
		service.Debug("debug")
		service.Info("info")
		service.Warn("warn")
		service.Error("error")
		service.With(zap.String("k", "v")).Info("still nil")
		service.Named("child").Info("still nil")
		_ = service.Sync()
	})
	assert.NotNil(t, service.Logger())
}

func TestWithAndNamed(t *testing.T) {
	service, logs := newObserved(zapcore.InfoLevel)

	service.Named("auth").With(zap.String("operation", "login")).Info("login succeeded")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "auth", entry.LoggerName)
	assert.Equal(t, "login", entry.ContextMap()["operation"])
}

func TestRequestLogger(t *testing.T) {
	service, logs := newObserved(zapcore.InfoLevel)

	e := echo.New()
	e.Use(RequestLogger(service, "/health/live"))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return echo.ErrNotFound })
	e.GET("/boom", func(c echo.Context) error { return echo.ErrInternalServerError })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/ok", "/missing", "/boom", "/health/live"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Equal(t, 3, logs.Len())

	entries := logs.All()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "Chrome", entries[0].ContextMap()["browser"])
	assert.Equal(t, "Windows", entries[0].ContextMap()["os"])
	assert.Equal(t, "desktop", entries[0].ContextMap()["device"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestUserAgentFields(t *testing.T) {
	assert.Nil(t, UserAgentFields(""))

	fields := UserAgentFields("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	require.Len(t, fields, 3)
	assert.Equal(t, "mobile", fields[2].String)
}
