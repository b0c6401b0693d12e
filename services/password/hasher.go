package password

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past this length
const maxPasswordBytes = 72

var ErrHashingFailed = errors.New("failed to hash password")

// PolicyError describes which strength requirement a password failed.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return e.Reason
}

type Policy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

func PolicyFromConfig(cfg config.AuthConfig) Policy {
	return Policy{
		MinLength:      cfg.MinLength,
		RequireUpper:   cfg.RequireUpper,
		RequireLower:   cfg.RequireLower,
		RequireNumber:  cfg.RequireNumber,
		RequireSpecial: cfg.RequireSpecial,
	}
}

func (p Policy) Validate(password string) error {
	if len([]rune(password)) < p.MinLength {
		return &PolicyError{Reason: fmt.Sprintf("password must be at least %d characters", p.MinLength)}
	}
	if len(password) > maxPasswordBytes {
		return &PolicyError{Reason: fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes)}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	var missing []string
	if p.RequireUpper && !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if p.RequireLower && !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if p.RequireNumber && !hasNumber {
		missing = append(missing, "one number")
	}
	if p.RequireSpecial && !hasSpecial {
		missing = append(missing, "one special character")
	}
	if len(missing) > 0 {
		return &PolicyError{Reason: "password must contain at least " + strings.Join(missing, ", ")}
	}
	return nil
}

type Hasher struct {
	cost   int
	policy Policy
	logger *logging.Service
}

func NewHasher(cost int, policy Policy, logger *logging.Service) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost, policy: policy, logger: logger}
}

func (h *Hasher) ValidatePolicy(password string) error {
	if err := h.policy.Validate(password); err != nil {
		h.logger.Debug("password rejected by policy", zap.String("reason", err.Error()))
		return err
	}
	return nil
}

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		h.logger.Error("password hashing failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrHashingFailed, err)
	}
	return string(hash), nil
}

// Verify reports false for a mismatch or an unparseable hash; it never errors.
func (h *Hasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		h.logger.Warn("stored password hash is malformed", zap.Error(err))
	}
	return err == nil
}
