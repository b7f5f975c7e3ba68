package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/service"
	"daily-task-portal/internal/transport/http/ez"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler { return &TaskHandler{tasks: tasks} }

type submitIn struct {
	TaskID string `json:"taskId" binding:"required"`
	Answer string `json:"answer" binding:"required"`
}

type assignIn struct {
	Title string   `json:"title" binding:"required"`
	Users []string `json:"users" binding:"required,min=1"`
}

type assignOut struct {
	Message string        `json:"message"`
	Tasks   []domain.Task `json:"tasks"`
}

func (h *TaskHandler) MountAPI(_, authed ez.EZ) {
	ez.RegisterAction(authed, ez.Action[struct{}, *service.TaskList]{
		Method: http.MethodGet,
		Path:   "/tasks",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.TaskList, error) {
			return h.tasks.ListForUser(c.Request.Context(), c.GetString(ez.KeyUserID))
		},
	})

	ez.RegisterAction(authed, ez.Action[submitIn, *domain.Task]{
		Method: http.MethodPost,
		Path:   "/tasks/submit",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *submitIn) (*domain.Task, error) {
			return h.tasks.Submit(c.Request.Context(), c.GetString(ez.KeyUserID), in.TaskID, in.Answer)
		},
	})
}

func (h *TaskHandler) MountAdmin(_, admin ez.EZ) {
	ez.RegisterAction(admin, ez.Action[assignIn, assignOut]{
		Method: http.MethodPost,
		Path:   "/tasks",
		Binder: ez.BindJSON,
		Roles:  []string{string(domain.RoleAdmin)},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *assignIn) (assignOut, error) {
			tasks, err := h.tasks.Assign(c.Request.Context(), in.Title, in.Users)
			if err != nil {
				return assignOut{}, err
			}
			return assignOut{Message: "Task assigned successfully", Tasks: tasks}, nil
		},
	})
}
