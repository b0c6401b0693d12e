package jwt

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/skillorbit/skillorbit/apperror"
	"github.com/skillorbit/skillorbit/services/account"
	"github.com/skillorbit/skillorbit/services/jwt"
)

const (
	SubjectIDKey = "_jwt_subject_id"
	RoleKey      = "_jwt_role"
	ClaimsKey    = "_jwt_claims"
)

type Verifier interface {
	Verify(token string, kind jwt.TokenType) (*jwt.Claims, error)
}

// RequireAuth accepts the access token from cookieName, falling back to an Authorization: Bearer header.
func RequireAuth(verifier Verifier, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c, cookieName)
			if token == "" {
				return apperror.Unauthenticated
			}

			claims, err := verifier.Verify(token, jwt.AccessToken)
			if err != nil {
				return apperror.Unauthenticated.WithDetails(reason(err))
			}

			c.Set(SubjectIDKey, claims.SubjectID())
			c.Set(RoleKey, claims.Role)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

// RequireRole trusts the role claim for the lifetime of the token. Use after RequireAuth.
func RequireRole(roles ...account.Role) echo.MiddlewareFunc {
	allowed := make(map[account.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(RoleKey).(account.Role)
			if !ok {
				return apperror.Unauthenticated
			}
			if !allowed[role] {
				return apperror.Forbidden
			}
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "access token has expired"
	case errors.Is(err, jwt.ErrMalformedToken):
		return "malformed access token"
	case errors.Is(err, jwt.ErrInvalidSignature):
		return "invalid access token signature"
	default:
		return "invalid access token"
	}
}

func GetSubjectID(c echo.Context) string {
	if id, ok := c.Get(SubjectIDKey).(string); ok {
		return id
	}
	return ""
}

func GetRole(c echo.Context) account.Role {
	if role, ok := c.Get(RoleKey).(account.Role); ok {
		return role
	}
	return ""
}

func GetClaims(c echo.Context) *jwt.Claims {
	if claims, ok := c.Get(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}
