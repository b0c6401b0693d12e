package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/skillorbit/skillorbit/apperror"
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/account"
	"github.com/skillorbit/skillorbit/services/jwt"
	"github.com/skillorbit/skillorbit/services/logging"
	"github.com/skillorbit/skillorbit/services/mail"
	"github.com/skillorbit/skillorbit/services/metrics"
	"go.uber.org/zap"
)

type PasswordHasher interface {
	ValidatePolicy(password string) error
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type TokenIssuer interface {
	IssueTokenPair(subjectID string, role account.Role) (*jwt.TokenPair, error)
	Verify(token string, kind jwt.TokenType) (*jwt.Claims, error)
}

type VerificationTokens interface {
	Generate() (token string, expiry time.Time, err error)
}

type MailDispatcher interface {
	Dispatch(templateName, to, subject string, data mail.TemplateData)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginResult struct {
	Account account.Public
	Tokens  *jwt.TokenPair
}

type VerifyResult struct {
	AlreadyVerified bool
}

type Service struct {
	appName string
	appURL  string
	window  time.Duration
	allowed map[account.Role]bool
	store   account.Store
	hasher  PasswordHasher
	issuer  TokenIssuer
	tokens  VerificationTokens
	mailer  MailDispatcher
	logger  *logging.Service
	metrics *metrics.Service
	now     func() time.Time
}

func NewService(
	cfg *config.Config,
	store account.Store,
	hasher PasswordHasher,
	issuer TokenIssuer,
	tokens VerificationTokens,
	mailer MailDispatcher,
	logger *logging.Service,
	m *metrics.Service,
) *Service {
	allowed := make(map[account.Role]bool)
	for _, r := range cfg.Auth.SelfRegisterRoles {
		if role, err := account.ParseRole(r); err == nil {
			allowed[role] = true
		}
	}

	return &Service{
		appName: cfg.App.Name,
		appURL:  strings.TrimRight(cfg.App.URL, "/"),
		window:  cfg.Auth.EmailVerificationExpiry,
		allowed: allowed,
		store:   store,
		hasher:  hasher,
		issuer:  issuer,
		tokens:  tokens,
		mailer:  mailer,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (public *account.Public, err error) {
	defer s.record("register", &err)

	role := account.RoleStudent
	if in.Role != "" {
		parsed, perr := account.ParseRole(in.Role)
		if perr != nil {
			return nil, apperror.ValidationFailed.WithDetails("role must be one of STUDENT, INSTRUCTOR, ADMIN")
		}
		role = parsed
	}
	if !s.allowed[role] {
		s.logger.Warn("self-registration with disallowed role", zap.String("role", string(role)))
		return nil, apperror.RoleNotAllowed
	}

	if err := s.hasher.ValidatePolicy(in.Password); err != nil {
		return nil, apperror.WeakPassword.WithDetails(err.Error())
	}

	email := account.NormalizeEmail(in.Email)
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil, apperror.DuplicateEmail
	} else if !errors.Is(err, account.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	token, expiry, err := s.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	acct := &account.Account{
		Name:                         strings.TrimSpace(in.Name),
		Email:                        email,
		PasswordHash:                 hash,
		Role:                         role,
		IsEmailVerified:              false,
		EmailVerificationToken:       &token,
		EmailVerificationTokenExpiry: &expiry,
	}
	if err := s.store.Create(ctx, acct); err != nil {
		if errors.Is(err, account.ErrDuplicateEmail) {
			return nil, apperror.DuplicateEmail
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info("account registered", zap.String("account_id", acct.ID), zap.String("role", string(role)))
	s.sendVerification(acct, token)

	p := acct.ToPublic()
	return &p, nil
}

// VerifyEmail keeps the token after success so revisiting the link reports AlreadyVerified.
func (s *Service) VerifyEmail(ctx context.Context, token string) (result *VerifyResult, err error) {
	defer s.record("verify_email", &err)

	if token == "" {
		return nil, apperror.InvalidToken
	}

	acct, err := s.store.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, apperror.InvalidToken
		}
		return nil, fmt.Errorf("verify email: %w", err)
	}

	if acct.IsEmailVerified {
		return &VerifyResult{AlreadyVerified: true}, nil
	}

	if acct.EmailVerificationTokenExpiry == nil || !s.now().Before(*acct.EmailVerificationTokenExpiry) {
		return nil, apperror.TokenExpired
	}

	if err := s.store.MarkEmailVerified(ctx, acct.ID); err != nil {
		return nil, fmt.Errorf("verify email: %w", err)
	}

	s.logger.Info("email verified", zap.String("account_id", acct.ID))
	s.mailer.Dispatch(mail.TemplateWelcome, acct.Email, fmt.Sprintf("Welcome to %s", s.appName), mail.TemplateData{
		"AppName":  s.appName,
		"Name":     acct.Name,
		"LoginURL": s.appURL,
	})

	return &VerifyResult{}, nil
}

// ResendVerification answers unknown emails exactly like a real send so callers cannot probe for accounts.
func (s *Service) ResendVerification(ctx context.Context, email string) (err error) {
	defer s.record("resend_verification", &err)

	acct, err := s.store.FindByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			s.logger.Debug("verification resend requested for unknown email")
			return nil
		}
		return fmt.Errorf("resend verification: %w", err)
	}

	if acct.IsEmailVerified {
		return apperror.AlreadyVerified
	}

	token, expiry, err := s.tokens.Generate()
	if err != nil {
		return fmt.Errorf("resend verification: %w", err)
	}
	if err := s.store.UpdateVerificationToken(ctx, acct.ID, token, expiry); err != nil {
		return fmt.Errorf("resend verification: %w", err)
	}

	s.sendVerification(acct, token)
	return nil
}

func (s *Service) Login(ctx context.Context, email, plaintext string) (result *LoginResult, err error) {
	defer s.record("login", &err)

	acct, err := s.store.FindByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, apperror.InvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(plaintext, acct.PasswordHash) {
		s.logger.Warn("login failed: wrong password", zap.String("account_id", acct.ID))
		return nil, apperror.InvalidCredentials
	}

	if !acct.IsEmailVerified {
		return nil, apperror.EmailNotVerified
	}

	pair, err := s.issuer.IssueTokenPair(acct.ID, acct.Role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &LoginResult{Account: acct.ToPublic(), Tokens: pair}, nil
}

// Refresh rotates both tokens. Refresh tokens are stateless, so an old one stays usable until it expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (result *LoginResult, err error) {
	defer s.record("refresh", &err)

	if refreshToken == "" {
		return nil, apperror.NoRefreshToken
	}

	claims, err := s.issuer.Verify(refreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, apperror.InvalidRefreshToken
	}

	acct, err := s.store.FindByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, apperror.UserNotFound
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	pair, err := s.issuer.IssueTokenPair(acct.ID, acct.Role)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return &LoginResult{Account: acct.ToPublic(), Tokens: pair}, nil
}

func (s *Service) Logout() {
	s.metrics.RecordAuth("logout", metrics.OutcomeSuccess)
}

func (s *Service) GetCurrentUser(ctx context.Context, subjectID string) (public *account.Public, err error) {
	defer s.record("me", &err)

	if subjectID == "" {
		return nil, apperror.Unauthenticated
	}

	acct, err := s.store.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, apperror.NotFound
		}
		return nil, fmt.Errorf("get current user: %w", err)
	}

	p := acct.ToPublic()
	return &p, nil
}

func (s *Service) VerificationURL(token string) string {
	return fmt.Sprintf("%s/auth/verify-email?token=%s", s.appURL, url.QueryEscape(token))
}

func (s *Service) sendVerification(acct *account.Account, token string) {
	s.mailer.Dispatch(mail.TemplateEmailVerification, acct.Email, fmt.Sprintf("Verify your %s email", s.appName), mail.TemplateData{
		"AppName":         s.appName,
		"Name":            acct.Name,
		"VerificationURL": s.VerificationURL(token),
		"ExpiresIn":       humanizeDuration(s.window),
	})
}

func (s *Service) record(operation string, err *error) {
	outcome := metrics.OutcomeSuccess
	if *err != nil {
		var appErr *apperror.Error
		if errors.As(*err, &appErr) {
			outcome = appErr.Code()
		} else {
			outcome = "error"
		}
	}
	s.metrics.RecordAuth(operation, outcome)
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d > 0 && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d > 0 && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
