package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/skillorbit/skillorbit/apperror"
	jwtmw "github.com/skillorbit/skillorbit/middleware/jwt"
	"github.com/skillorbit/skillorbit/services/account"
	"github.com/skillorbit/skillorbit/services/auth"
	"github.com/skillorbit/skillorbit/services/jwt"
	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*account.Public, error)
	VerifyEmail(ctx context.Context, token string) (*auth.VerifyResult, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.LoginResult, error)
	Logout()
	GetCurrentUser(ctx context.Context, subjectID string) (*account.Public, error)
}

type SessionTransport interface {
	Attach(c echo.Context, pair *jwt.TokenPair)
	Clear(c echo.Context)
	RefreshToken(c echo.Context) string
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
	Role     string `json:"role,omitempty"`
}

type RegisterResponse struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Role  account.Role `json:"role"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type AuthHandler struct {
	auth      AuthService
	transport SessionTransport
	logger    *logging.Service
}

func NewAuthHandler(svc AuthService, transport SessionTransport, logger *logging.Service) *AuthHandler {
	return &AuthHandler{
		auth:      svc,
		transport: transport,
		logger:    logger,
	}
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperror.ValidationFailed.WithDetails("malformed request body")
	}
	return c.Validate(req)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	public, err := h.auth.Register(c.Request().Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return Success(c, http.StatusCreated, RegisterResponse{
		ID:    public.ID,
		Name:  public.Name,
		Email: public.Email,
		Role:  public.Role,
	}, "Registration successful. Please check your email to verify your account.")
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	result, err := h.auth.VerifyEmail(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		return errors.WithStack(err)
	}

	if result.AlreadyVerified {
		return Success(c, http.StatusOK, nil, "Email is already verified. You can log in.")
	}
	return Success(c, http.StatusOK, nil, "Email verified successfully. You can now log in.")
}

func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.auth.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return Success(c, http.StatusOK, nil, "If an account with that email exists, a verification link has been sent.")
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errors.WithStack(err)
	}

	h.transport.Attach(c, result.Tokens)

	fields := append([]zap.Field{
		zap.String("account_id", result.Account.ID),
		zap.String("remote_ip", c.RealIP()),
	}, logging.UserAgentFields(c.Request().UserAgent())...)
	h.logger.Info("login succeeded", fields...)

	return Success(c, http.StatusOK, result.Account, "Login successful")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.auth.Logout()
	h.transport.Clear(c)
	return Success(c, http.StatusOK, nil, "Logged out successfully")
}

func (h *AuthHandler) RefreshToken(c echo.Context) error {
	result, err := h.auth.Refresh(c.Request().Context(), h.transport.RefreshToken(c))
	if err != nil {
		h.transport.Clear(c)
		return errors.WithStack(err)
	}

	h.transport.Attach(c, result.Tokens)
	return Success(c, http.StatusOK, result.Account, "Token refreshed")
}

func (h *AuthHandler) Me(c echo.Context) error {
	public, err := h.auth.GetCurrentUser(c.Request().Context(), jwtmw.GetSubjectID(c))
	if err != nil {
		return errors.WithStack(err)
	}
	return Success(c, http.StatusOK, public, "")
}
