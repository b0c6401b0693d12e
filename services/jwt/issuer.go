package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/account"
	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken     = errors.New("invalid JWT token")
	ErrExpiredToken     = errors.New("JWT token has expired")
	ErrMalformedToken   = errors.New("malformed JWT token")
	ErrInvalidSignature = errors.New("invalid JWT token signature")
	ErrWrongTokenType   = errors.New("JWT token has the wrong type")
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

type Claims struct {
	Role      account.Role `json:"role"`
	TokenType TokenType    `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *Claims) SubjectID() string {
	return c.Subject
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	accessTTL        time.Duration
	refreshTTL       time.Duration
}

func (p *TokenPair) AccessMaxAge() int {
	return int(p.accessTTL.Seconds())
}

func (p *TokenPair) RefreshMaxAge() int {
	return int(p.refreshTTL.Seconds())
}

type Issuer struct {
	cfg    config.JWTConfig
	logger *logging.Service
	now    func() time.Time
}

func NewIssuer(cfg config.JWTConfig, logger *logging.Service) *Issuer {
	return &Issuer{cfg: cfg, logger: logger, now: time.Now}
}

func (i *Issuer) AccessTTL() time.Duration  { return i.cfg.AccessExpiry }
func (i *Issuer) RefreshTTL() time.Duration { return i.cfg.RefreshExpiry }

func (i *Issuer) IssueTokenPair(subjectID string, role account.Role) (*TokenPair, error) {
	now := i.now()

	access, accessExp, err := i.sign(subjectID, role, AccessToken, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := i.sign(subjectID, role, RefreshToken, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		accessTTL:        i.cfg.AccessExpiry,
		refreshTTL:       i.cfg.RefreshExpiry,
	}, nil
}

func (i *Issuer) sign(subjectID string, role account.Role, kind TokenType, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl(kind))
	claims := Claims{
		Role:      role,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.cfg.Issuer,
			Subject:   subjectID,
			Audience:  []string{i.cfg.Issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret(kind))
	if err != nil {
		i.logger.Error("failed to sign JWT token", zap.String("token_type", string(kind)), zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to generate %s token: %w", kind, err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, expiry, issuer and that the token was minted as kind.
func (i *Issuer) Verify(tokenString string, kind TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return i.secret(kind), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		i.logger.Debug("JWT token validation failed", zap.String("token_type", string(kind)), zap.Error(err))

		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != kind {
		return nil, ErrWrongTokenType
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (i *Issuer) secret(kind TokenType) []byte {
	if kind == RefreshToken {
		return []byte(i.cfg.RefreshSecret)
	}
	return []byte(i.cfg.AccessSecret)
}

func (i *Issuer) ttl(kind TokenType) time.Duration {
	if kind == RefreshToken {
		return i.cfg.RefreshExpiry
	}
	return i.cfg.AccessExpiry
}
