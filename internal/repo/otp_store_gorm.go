package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"daily-task-portal/internal/domain"
)

// OTPStoreGorm keeps challenges in the otp_challenges table; expiry is checked on read.
type OTPStoreGorm struct{ db *gorm.DB }

func NewOTPStoreGorm(db *gorm.DB) *OTPStoreGorm { return &OTPStoreGorm{db: db} }

func (s *OTPStoreGorm) Put(ctx context.Context, ch *domain.OTPChallenge, _ time.Duration) error {
	row := *ch
	row.Email = domain.NormalizeEmail(row.Email)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "issued_at"}),
	}).Create(&row).Error
}

func (s *OTPStoreGorm) Get(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	var ch domain.OTPChallenge
	err := s.db.WithContext(ctx).First(&ch, "email = ?", domain.NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *OTPStoreGorm) DeleteIfMatch(ctx context.Context, email, codeHash string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("email = ? AND code_hash = ?", domain.NormalizeEmail(email), codeHash).
		Delete(&domain.OTPChallenge{})
	return res.RowsAffected == 1, res.Error
}

func (s *OTPStoreGorm) Delete(ctx context.Context, email string) error {
	return s.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).Delete(&domain.OTPChallenge{}).Error
}
