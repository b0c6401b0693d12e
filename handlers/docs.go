package handlers

import (
	"net/http"

	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/openapi"
	"github.com/skillorbit/skillorbit/server"
	"github.com/skillorbit/skillorbit/services/account"
)

const (
	securityCookie = "cookieAuth"
	securityBearer = "bearerAuth"
)

func NewDocs(cfg *config.Config) *openapi.OpenAPI {
	return openapi.New(cfg.App.Name+" API", "1.0.0").
		Description("Account registration, email verification and cookie-based sessions.").
		Server(cfg.App.URL, cfg.App.Environment).
		Tag("auth", "Authentication and session lifecycle").
		Tag("ops", "Health and metrics").
		CookieAuth(securityCookie, cfg.Cookie.AccessName, "Access token cookie set by login").
		BearerAuth(securityBearer, "Access token for non-browser clients")
}

func documentAuthRoutes(docs *openapi.OpenAPI, cfg *config.Config) {
	cookies := cfg.Cookie.AccessName + " and " + cfg.Cookie.RefreshName + " HttpOnly cookies"

	docs.Document(http.MethodPost, "/auth/register").
		Summary("Register a new account").
		OperationID("register").
		Tags("auth").
		Body(RegisterRequest{}, "New account details; role defaults to STUDENT").
		Response(http.StatusCreated, RegisterResponse{}, "Account created, verification email queued").
		Response(http.StatusBadRequest, server.ErrorResponse{}, "DUPLICATE_EMAIL, WEAK_PASSWORD, ROLE_NOT_ALLOWED or VALIDATION_FAILED").
		Response(http.StatusTooManyRequests, server.ErrorResponse{}, "RATE_LIMITED").
		Build()

	docs.Document(http.MethodGet, "/auth/verify-email").
		Summary("Verify an email address").
		OperationID("verifyEmail").
		Tags("auth").
		QueryParam("token", "Token from the verification link", true).
		Response(http.StatusOK, Response{}, "Verified, or already verified").
		Response(http.StatusBadRequest, server.ErrorResponse{}, "INVALID_TOKEN or TOKEN_EXPIRED").
		Build()

	docs.Document(http.MethodPost, "/auth/resend-verification").
		Summary("Send a fresh verification link").
		OperationID("resendVerification").
		Tags("auth").
		Body(EmailRequest{}, "Account email").
		Response(http.StatusOK, Response{}, "Generic acknowledgement").
		Response(http.StatusBadRequest, server.ErrorResponse{}, "ALREADY_VERIFIED").
		Response(http.StatusTooManyRequests, server.ErrorResponse{}, "RATE_LIMITED").
		Build()

	docs.Document(http.MethodPost, "/auth/login").
		Summary("Log in").
		OperationID("login").
		Tags("auth").
		Body(LoginRequest{}, "Credentials").
		Response(http.StatusOK, account.Public{}, "Logged in").
		SetsCookies(http.StatusOK, cookies).
		Response(http.StatusUnauthorized, server.ErrorResponse{}, "INVALID_CREDENTIALS").
		Response(http.StatusForbidden, server.ErrorResponse{}, "EMAIL_NOT_VERIFIED").
		Response(http.StatusTooManyRequests, server.ErrorResponse{}, "RATE_LIMITED").
		Build()

	docs.Document(http.MethodPost, "/auth/logout").
		Summary("Log out").
		OperationID("logout").
		Tags("auth").
		Response(http.StatusOK, Response{}, "Session cookies cleared").
		SetsCookies(http.StatusOK, "expired "+cookies).
		Build()

	docs.Document(http.MethodPost, "/auth/refresh-token").
		Summary("Rotate the session cookies").
		OperationID("refreshToken").
		Tags("auth").
		CookieParam(cfg.Cookie.RefreshName, "Refresh token").
		Response(http.StatusOK, account.Public{}, "New token pair issued").
		SetsCookies(http.StatusOK, cookies).
		Response(http.StatusUnauthorized, server.ErrorResponse{}, "NO_REFRESH_TOKEN, INVALID_REFRESH_TOKEN or USER_NOT_FOUND; cookies cleared").
		Build()

	docs.Document(http.MethodGet, "/auth/me").
		Summary("Current account").
		OperationID("me").
		Tags("auth").
		Security(securityCookie, securityBearer).
		Response(http.StatusOK, account.Public{}, "Public account fields").
		Response(http.StatusUnauthorized, server.ErrorResponse{}, "UNAUTHENTICATED").
		Build()

	docs.Document(http.MethodGet, "/health/live").
		Summary("Liveness probe").
		Tags("ops").
		Response(http.StatusOK, nil, "Process is running").
		Build()

	docs.Document(http.MethodGet, "/health/ready").
		Summary("Readiness probe").
		Tags("ops").
		Response(http.StatusOK, nil, "Dependencies reachable").
		Response(http.StatusServiceUnavailable, nil, "Database unreachable").
		Build()
}
