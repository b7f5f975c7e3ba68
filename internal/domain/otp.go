package domain

import (
	"context"
	"time"
)

// OTPChallenge is a pending proof of email ownership, keyed by email.
type OTPChallenge struct {
	Email    string    `gorm:"primaryKey;size:191" json:"email"`
	CodeHash string    `gorm:"size:100;not null" json:"-"`
	IssuedAt time.Time `gorm:"not null;index" json:"issuedAt"`
}

func (OTPChallenge) TableName() string { return "otp_challenges" }

// ExpiredAt reports whether the challenge is past ttl at now.
func (c *OTPChallenge) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return !now.Before(c.IssuedAt.Add(ttl))
}

type OTPStore interface {
	// Put replaces any challenge for the same email.
	Put(ctx context.Context, ch *OTPChallenge, ttl time.Duration) error
	// Get returns nil when no challenge is stored.
	Get(ctx context.Context, email string) (*OTPChallenge, error)
	// DeleteIfMatch atomically removes the challenge only if it still carries codeHash.
	DeleteIfMatch(ctx context.Context, email, codeHash string) (bool, error)
	Delete(ctx context.Context, email string) error
}
