package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const EnvironmentProduction = "production"

type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Log       LogConfig       `envPrefix:"LOG_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	Cookie    CookieConfig    `envPrefix:"COOKIE_"`
	Mail      MailConfig      `envPrefix:"MAIL_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Metrics   MetricsConfig   `envPrefix:"METRICS_"`
}

type AppConfig struct {
	Name        string `env:"NAME" envDefault:"SkillOrbit"`
	URL         string `env:"URL" envDefault:"http://localhost:8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, EnvironmentProduction)
}

type ServerConfig struct {
	Host           string        `env:"HOST" envDefault:"localhost"`
	Port           string        `env:"PORT" envDefault:"8080"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" envSeparator:","`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"skillorbit.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	MinLength                    int           `env:"MIN_LENGTH" envDefault:"8"`
	RequireUpper                 bool          `env:"REQUIRE_UPPER" envDefault:"false"`
	RequireLower                 bool          `env:"REQUIRE_LOWER" envDefault:"false"`
	RequireNumber                bool          `env:"REQUIRE_NUMBER" envDefault:"false"`
	RequireSpecial               bool          `env:"REQUIRE_SPECIAL" envDefault:"false"`
	BcryptCost                   int           `env:"BCRYPT_COST" envDefault:"10"`
	EmailVerificationTokenLength int           `env:"EMAIL_VERIFICATION_TOKEN_LENGTH" envDefault:"32"`
	EmailVerificationExpiry      time.Duration `env:"EMAIL_VERIFICATION_EXPIRY" envDefault:"24h"`
	SelfRegisterRoles            []string      `env:"SELF_REGISTER_ROLES" envSeparator:"," envDefault:"STUDENT,INSTRUCTOR"`
}

type JWTConfig struct {
	AccessSecret  string        `env:"ACCESS_SECRET"`
	RefreshSecret string        `env:"REFRESH_SECRET"`
	AccessExpiry  time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
	RefreshExpiry time.Duration `env:"REFRESH_EXPIRY" envDefault:"168h"`
	Issuer        string        `env:"ISSUER" envDefault:"skillorbit"`
}

type CookieConfig struct {
	AccessName  string `env:"ACCESS_NAME" envDefault:"accessToken"`
	RefreshName string `env:"REFRESH_NAME" envDefault:"refreshToken"`
	Domain      string `env:"DOMAIN"`
}

type MailConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"false"`
	Host         string        `env:"HOST" envDefault:"localhost"`
	Port         int           `env:"PORT" envDefault:"587"`
	Username     string        `env:"USERNAME"`
	Password     string        `env:"PASSWORD"`
	Encryption   string        `env:"ENCRYPTION" envDefault:"tls"`
	FromAddress  string        `env:"FROM_ADDRESS" envDefault:"no-reply@skillorbit.local"`
	FromName     string        `env:"FROM_NAME" envDefault:"SkillOrbit"`
	TemplatesDir string        `env:"TEMPLATES_DIR"`
	SendTimeout  time.Duration `env:"SEND_TIMEOUT" envDefault:"30s"`
}

type CountingMode string

const (
	CountAll      CountingMode = "all"
	CountFailures CountingMode = "failures"
	CountSuccess  CountingMode = "success"
)

type RateLimitConfig struct {
	Enabled   bool          `env:"ENABLED" envDefault:"true"`
	Store     string        `env:"STORE" envDefault:"memory"`
	Rate      int           `env:"RATE" envDefault:"10"`
	Period    time.Duration `env:"PERIOD" envDefault:"1m"`
	CountMode CountingMode  `env:"COUNT_MODE" envDefault:"all"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/metrics"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	if c, ok := cfg.(*Config); ok {
		return c.Validate()
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validateJWTConfig(&c.JWT); err != nil {
		return err
	}
	if err := validateRateLimitConfig(&c.RateLimit); err != nil {
		return err
	}
	if c.Auth.EmailVerificationTokenLength < 16 || c.Auth.EmailVerificationTokenLength > MaxVerificationTokenLength {
		return fmt.Errorf("email verification token length must be between 16 and %d bytes", MaxVerificationTokenLength)
	}
	if c.Auth.EmailVerificationExpiry <= 0 {
		return fmt.Errorf("email verification expiry must be positive")
	}
	return validateSelfRegisterRoles(c.Auth.SelfRegisterRoles)
}

// Hex encoding doubles the byte length; the stored token column holds 128 characters.
const MaxVerificationTokenLength = 64

var knownRoles = []string{"STUDENT", "INSTRUCTOR", "ADMIN"}

func validateSelfRegisterRoles(roles []string) error {
	if len(roles) == 0 {
		return fmt.Errorf("at least one self-register role is required")
	}
	for _, r := range roles {
		if !slices.Contains(knownRoles, strings.ToUpper(strings.TrimSpace(r))) {
			return fmt.Errorf("unknown self-register role %q, must be one of: %s", r, strings.Join(knownRoles, ", "))
		}
	}
	return nil
}

var weakSecretPatterns = []string{"password", "secret", "test", "example", "default", "change"}

func validateJWTConfig(cfg *JWTConfig) error {
	secrets := map[string]string{
		"access":  cfg.AccessSecret,
		"refresh": cfg.RefreshSecret,
	}
	for _, name := range []string{"access", "refresh"} {
		secret := secrets[name]
		if len(secret) < 32 {
			return fmt.Errorf("JWT %s secret must be at least 32 characters long", name)
		}
		lower := strings.ToLower(secret)
		for _, pattern := range weakSecretPatterns {
			if strings.Contains(lower, pattern) {
				return fmt.Errorf("JWT %s secret contains weak patterns", name)
			}
		}
	}

	if cfg.AccessSecret == cfg.RefreshSecret {
		return fmt.Errorf("JWT access and refresh secrets must differ")
	}

	if cfg.AccessExpiry <= 0 || cfg.RefreshExpiry <= 0 {
		return fmt.Errorf("JWT token lifetimes must be positive")
	}
	if cfg.RefreshExpiry <= cfg.AccessExpiry {
		return fmt.Errorf("JWT refresh expiry must be longer than access expiry")
	}
	return nil
}

func validateRateLimitConfig(cfg *RateLimitConfig) error {
	switch cfg.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("rate limit store must be: memory or redis")
	}

	switch cfg.CountMode {
	case CountAll, CountFailures, CountSuccess:
	default:
		return fmt.Errorf("rate limit count mode must be: all, failures, or success")
	}
	return nil
}
