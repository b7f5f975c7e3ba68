package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"daily-task-portal/internal/core/metrics"
	"daily-task-portal/internal/domain"
	"daily-task-portal/pkg/utils"
)

// TaskList is a user's view of their tasks.
type TaskList struct {
	Tasks    []domain.Task                    `json:"tasks"`
	JoinDate time.Time                        `json:"joinDate"`
	Calendar map[string]domain.CalendarStatus `json:"calendar"`
}

type TaskService struct {
	tasks  domain.TaskRepository
	users  domain.UserRepository
	window SubmissionWindow
	now    Clock
	l      *zap.Logger
}

func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository, window SubmissionWindow, now Clock, l *zap.Logger) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{tasks: tasks, users: users, window: window, now: now, l: l}
}

// Assign creates one open task per distinct user id, all stamped with the same time.
func (s *TaskService) Assign(ctx context.Context, title string, userIDs []string) ([]domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.E(domain.KindValidation, "title is required")
	}
	ids := make([]string, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, domain.E(domain.KindValidation, "at least one user id is required")
	}

	now := s.now()
	tasks := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, domain.Task{
			ID:     utils.NewID(),
			UserID: id,
			Title:  title,
			Date:   now,
		})
	}
	if err := s.tasks.CreateBatch(ctx, tasks); err != nil {
		return nil, domain.Internal("assign tasks failed", err)
	}
	metrics.TasksAssigned.Add(float64(len(tasks)))
	s.l.Info("tasks assigned", zap.String("title", title), zap.Int("count", len(tasks)))
	return tasks, nil
}

// Submit records the owner's answer once, inside the submission window.
func (s *TaskService) Submit(ctx context.Context, userID, taskID, answer string) (*domain.Task, error) {
	task, err := s.submit(ctx, userID, taskID, answer)
	result := "ok"
	if err != nil {
		result = string(domain.KindOf(err))
	}
	metrics.TaskSubmissions.WithLabelValues(result).Inc()
	return task, err
}

func (s *TaskService) submit(ctx context.Context, userID, taskID, answer string) (*domain.Task, error) {
	if strings.TrimSpace(taskID) == "" || strings.TrimSpace(answer) == "" {
		return nil, domain.E(domain.KindValidation, "taskId and answer are required")
	}
	if !s.window.Contains(s.now()) {
		return nil, domain.E(domain.KindOutsideWindow, "submissions are accepted only during the daily window")
	}
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, domain.Internal("lookup task failed", err)
	}
	if t == nil {
		return nil, domain.E(domain.KindNotFound, "task not found")
	}
	if t.UserID != userID {
		return nil, domain.E(domain.KindUnauthorized, "task belongs to another user")
	}
	if t.Completed {
		return nil, domain.E(domain.KindAlreadySubmitted, "task already submitted")
	}
	ok, err := s.tasks.CompleteIfOpen(ctx, t.ID, userID, answer)
	if err != nil {
		return nil, domain.Internal("submit task failed", err)
	}
	if !ok {
		return nil, domain.E(domain.KindAlreadySubmitted, "task already submitted")
	}
	t.Answer = answer
	t.Completed = true
	return t, nil
}

// ListForUser returns tasks oldest first with the join date and derived calendar.
func (s *TaskService) ListForUser(ctx context.Context, userID string) (*TaskList, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, domain.E(domain.KindUnauthorized, "account no longer exists")
	}
	tasks, err := s.tasks.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, domain.Internal("list tasks failed", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return &TaskList{
		Tasks:    tasks,
		JoinDate: u.CreatedAt,
		Calendar: DeriveCalendarStatus(tasks, s.now(), s.window.location()),
	}, nil
}
