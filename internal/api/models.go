package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/taskboard/internal/domain"
)

// TaskForm is the task payload submitted by the create and update forms.
// The task being updated is identified by the prepared "id" parameter.
type TaskForm struct {
	ThreadID    int64  `json:"thread_id"   validate:"gte=0"`
	Title       string `json:"title"       validate:"required,max=128"`
	Description string `json:"description" validate:"max=255"`
	Status      string `json:"status"      validate:"omitempty,oneof=todo doing done"`
}

// LoginForm is the payload of the login form.
type LoginForm struct {
	LoginName string `json:"login_name" validate:"required,max=64"`
	Password  string `json:"password"   validate:"required,max=72"`
}

// bindTaskForm reads a TaskForm from the parsed request form. Numeric fields
// that are missing or malformed read as zero.
func bindTaskForm(r *http.Request) (TaskForm, error) {
	if err := r.ParseForm(); err != nil {
		return TaskForm{}, err
	}
	return TaskForm{
		ThreadID:    formInt64(r, "thread_id"),
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Status:      r.PostFormValue("status"),
	}, nil
}

func bindLoginForm(r *http.Request) (LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return LoginForm{}, err
	}
	return LoginForm{
		LoginName: strings.TrimSpace(r.PostFormValue("login_name")),
		Password:  r.PostFormValue("password"),
	}, nil
}

func formInt64(r *http.Request, key string) int64 {
	v, err := strconv.ParseInt(r.FormValue(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// newTask builds an unsaved task from the form.
func (f TaskForm) newTask() *domain.Task {
	task := &domain.Task{
		Title:       f.Title,
		Description: f.Description,
		Status:      domain.TaskStatus(f.Status),
		ThreadID:    f.ThreadID,
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}
	return task
}

// applyTo copies the submitted fields onto an existing task. A missing
// thread_id keeps the task in its current thread.
func (f TaskForm) applyTo(task *domain.Task) {
	task.Title = f.Title
	task.Description = f.Description
	if f.Status != "" {
		task.Status = domain.TaskStatus(f.Status)
	}
	if f.ThreadID > 0 && f.ThreadID != task.ThreadID {
		task.ThreadID = f.ThreadID
		task.Thread = nil
	}
}
