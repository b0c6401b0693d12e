package verification

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/skillorbit/skillorbit/config"
	"go.uber.org/fx"
)

const (
	DefaultTokenBytes = 32
	DefaultWindow     = 24 * time.Hour
)

type Generator struct {
	length int
	window time.Duration
	now    func() time.Time
	random io.Reader
}

func NewGenerator(length int, window time.Duration) *Generator {
	if length <= 0 {
		length = DefaultTokenBytes
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Generator{
		length: length,
		window: window,
		now:    time.Now,
		random: rand.Reader,
	}
}

// Generate returns a hex token of length random bytes and the instant it stops being accepted.
func (g *Generator) Generate() (string, time.Time, error) {
	buf := make([]byte, g.length)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), g.now().Add(g.window), nil
}

func (g *Generator) Window() time.Duration {
	return g.window
}

var Module = fx.Options(
	fx.Provide(func(cfg *config.Config) *Generator {
		return NewGenerator(cfg.Auth.EmailVerificationTokenLength, cfg.Auth.EmailVerificationExpiry)
	}),
)
