package domain

import (
	"context"
	"time"
)

type Task struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	Title     string    `gorm:"size:1024;not null" json:"title"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Answer    string    `gorm:"type:text" json:"answer"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

type TaskRepository interface {
	// CreateBatch inserts all tasks or none.
	CreateBatch(ctx context.Context, tasks []Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	// ListByUser returns the user's tasks ordered by date; desc flips the order.
	ListByUser(ctx context.Context, userID string, desc bool) ([]Task, error)
	// CompleteIfOpen stores the answer only while completed=false and reports whether it did.
	CompleteIfOpen(ctx context.Context, id, userID, answer string) (bool, error)
}

// CalendarStatus is the derived state of one calendar day.
type CalendarStatus string

const (
	CalendarMissed    CalendarStatus = "Missed"
	CalendarSubmitted CalendarStatus = "Submitted"
)

// DateLayout keys calendar days.
const DateLayout = "2006-01-02"
