package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Store interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByVerificationToken(ctx context.Context, token string) (*Account, error)
	Create(ctx context.Context, account *Account) error
	UpdateVerificationToken(ctx context.Context, id, token string, expiry time.Time) error
	MarkEmailVerified(ctx context.Context, id string) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return s.first(ctx, "email = ?", NormalizeEmail(email))
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*Account, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) FindByVerificationToken(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return s.first(ctx, "email_verification_token = ?", token)
}

func (s *GormStore) first(ctx context.Context, query string, arg any) (*Account, error) {
	var acct Account
	if err := s.db.WithContext(ctx).Where(query, arg).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &acct, nil
}

// Create relies on the unique email index so concurrent registrations resolve to one row.
func (s *GormStore) Create(ctx context.Context, account *Account) error {
	account.Email = NormalizeEmail(account.Email)
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateVerificationToken(ctx context.Context, id, token string, expiry time.Time) error {
	return s.update(ctx, id, map[string]any{
		"email_verification_token":        token,
		"email_verification_token_expiry": expiry,
	})
}

func (s *GormStore) MarkEmailVerified(ctx context.Context, id string) error {
	return s.update(ctx, id, map[string]any{"is_email_verified": true})
}

func (s *GormStore) update(ctx context.Context, id string, updates map[string]any) error {
	result := s.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
