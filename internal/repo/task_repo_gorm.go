package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"daily-task-portal/internal/domain"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) CreateBatch(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&tasks).Error
	})
}

func (r *TaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *TaskRepo) ListByUser(ctx context.Context, userID string, desc bool) ([]domain.Task, error) {
	order := "date asc, id asc"
	if desc {
		order = "date desc, id desc"
	}
	var tasks []domain.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order(order).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CompleteIfOpen is a single conditional UPDATE; concurrent callers race on completed = false.
func (r *TaskRepo) CompleteIfOpen(ctx context.Context, id, userID, answer string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND user_id = ? AND completed = ?", id, userID, false).
		Updates(map[string]any{"answer": answer, "completed": true})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
