package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleInstructor:
		return RoleInstructor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type Account struct {
	ID                           string     `gorm:"primaryKey;size:36"`
	Name                         string     `gorm:"size:255;not null"`
	Email                        string     `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash                 string     `gorm:"not null"`
	Role                         Role       `gorm:"size:32;not null;default:STUDENT"`
	IsEmailVerified              bool       `gorm:"not null;default:false"`
	EmailVerificationToken       *string    `gorm:"size:128;uniqueIndex"`
	EmailVerificationTokenExpiry *time.Time
	Avatar                       *string
	Bio                          *string
	Education                    *string
	Career                       *string
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Public is the account view safe to return to clients.
type Public struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Role            Role    `json:"role"`
	IsEmailVerified bool    `json:"isEmailVerified"`
	Avatar          *string `json:"avatar"`
	Bio             *string `json:"bio"`
	Education       *string `json:"education"`
	Career          *string `json:"career"`
}

func (a *Account) ToPublic() Public {
	return Public{
		ID:              a.ID,
		Name:            a.Name,
		Email:           a.Email,
		Role:            a.Role,
		IsEmailVerified: a.IsEmailVerified,
		Avatar:          a.Avatar,
		Bio:             a.Bio,
		Education:       a.Education,
		Career:          a.Career,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
