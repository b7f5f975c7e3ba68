package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"daily-task-portal/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	u.Normalize()
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if IsDupKey(err) {
			return domain.E(domain.KindConflict, "user already exists")
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", domain.NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) ListByStatus(ctx context.Context, role domain.Role, status domain.Status) ([]domain.User, error) {
	var users []domain.User
	q := r.db.WithContext(ctx).Where("status = ?", status)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateStatus reports false when no row has the id.
func (r *UserRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected > 0, res.Error
}

func (r *UserRepo) UpdateTwoFactor(ctx context.Context, id string, enabled bool) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("two_factor_enabled", enabled)
	return res.RowsAffected > 0, res.Error
}

// Delete removes the row and returns what was deleted, or nil if nothing matched.
func (r *UserRepo) Delete(ctx context.Context, id string) (*domain.User, error) {
	var deleted *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			deleted = &u
		}
		return nil
	})
	return deleted, err
}

// IsDupKey matches unique violations across drivers without relying on error translation.
func IsDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
