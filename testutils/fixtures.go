package testutils

import (
	"time"

	"github.com/skillorbit/skillorbit/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	TestAccessSecret  = "a1b2c3d4e5f6g7h8i9j0k1l2m3n4o5p6q7r8s9t0"
	TestRefreshSecret = "z9y8x7w6v5u4t3s2r1q0p9o8n7m6l5k4j3i2h1g0"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "SkillOrbit",
			URL:         "http://localhost:8080",
			Environment: "development",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "0",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Log: config.LogConfig{Level: "info", Format: "json", Output: "stdout"},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		Auth: config.AuthConfig{
			MinLength:                    8,
			BcryptCost:                   bcrypt.MinCost,
			EmailVerificationTokenLength: 32,
			EmailVerificationExpiry:      24 * time.Hour,
			SelfRegisterRoles:            []string{"STUDENT", "INSTRUCTOR"},
		},
		JWT: config.JWTConfig{
			AccessSecret:  TestAccessSecret,
			RefreshSecret: TestRefreshSecret,
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
			Issuer:        "skillorbit",
		},
		Cookie: config.CookieConfig{
			AccessName:  "accessToken",
			RefreshName: "refreshToken",
		},
		Mail: config.MailConfig{
			FromAddress: "no-reply@skillorbit.local",
			FromName:    "SkillOrbit",
			SendTimeout: time.Second,
		},
		RateLimit: config.RateLimitConfig{
			Enabled:   false,
			Store:     "memory",
			Rate:      10,
			Period:    time.Minute,
			CountMode: config.CountAll,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

var TestPasswords = struct {
	Valid    string
	TooShort string
	Wrong    string
}{
	Valid:    "orbit-learner-42",
	TooShort: "short",
	Wrong:    "not-the-password",
}
