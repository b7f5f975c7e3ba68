package domain

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status is the approval state of an account.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseDecision validates an admin decision; only approved/rejected are accepted.
func ParseDecision(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	}
	return "", E(KindInvalidStatus, "invalid status")
}

type User struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Email            string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	FullName         string    `gorm:"size:128;not null" json:"fullName"`
	PasswordHash     string    `gorm:"size:100;not null" json:"-"`
	Role             Role      `gorm:"size:16;not null;default:user" json:"role"`
	Status           Status    `gorm:"size:16;not null;default:pending;index" json:"status"`
	TwoFactorEnabled bool      `gorm:"not null;default:false" json:"twoFactorEnabled"`
	Photo            string    `gorm:"size:255" json:"photo"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// NormalizeEmail lower-cases and trims; emails are compared case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize enforces the record invariants before a write.
func (u *User) Normalize() {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = StatusPending
	}
	if u.Role == RoleAdmin {
		u.Status = StatusApproved
	}
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByStatus(ctx context.Context, role Role, status Status) ([]User, error)
	UpdateStatus(ctx context.Context, id string, status Status) (bool, error)
	UpdateTwoFactor(ctx context.Context, id string, enabled bool) (bool, error)
	Delete(ctx context.Context, id string) (*User, error)
}
