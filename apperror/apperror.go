package apperror

import "net/http"

type Error struct {
	status  int
	code    string
	message string
	details string
}

func New(status int, code, message string) *Error {
	return &Error{status: status, code: code, message: message}
}

func (e *Error) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}
	return e.message
}

func (e *Error) Status() int     { return e.status }
func (e *Error) Code() string    { return e.code }
func (e *Error) Message() string { return e.message }
func (e *Error) Details() string { return e.details }

// WithDetails returns a copy carrying details; the original stays shared.
func (e *Error) WithDetails(details string) *Error {
	return &Error{
		status:  e.status,
		code:    e.code,
		message: e.message,
		details: details,
	}
}

// Is matches on the machine code so copies made by WithDetails still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.code == t.code
}

var (
	DuplicateEmail      = New(http.StatusBadRequest, "DUPLICATE_EMAIL", "An account with this email already exists")
	InvalidToken        = New(http.StatusBadRequest, "INVALID_TOKEN", "Invalid verification token")
	TokenExpired        = New(http.StatusBadRequest, "TOKEN_EXPIRED", "Verification token has expired")
	AlreadyVerified     = New(http.StatusBadRequest, "ALREADY_VERIFIED", "Email is already verified")
	InvalidCredentials  = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	EmailNotVerified    = New(http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Please verify your email before logging in")
	NoRefreshToken      = New(http.StatusUnauthorized, "NO_REFRESH_TOKEN", "Refresh token not provided")
	InvalidRefreshToken = New(http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid or expired refresh token")
	UserNotFound        = New(http.StatusUnauthorized, "USER_NOT_FOUND", "User no longer exists")
	Unauthenticated     = New(http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
	Forbidden           = New(http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
	NotFound            = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ValidationFailed    = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	WeakPassword        = New(http.StatusBadRequest, "WEAK_PASSWORD", "Password does not meet the strength policy")
	RoleNotAllowed      = New(http.StatusBadRequest, "ROLE_NOT_ALLOWED", "Role cannot be chosen at registration")
	RateLimited         = New(http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
	Internal            = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
)
