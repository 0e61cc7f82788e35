package domain

import (
	"time"
	"unicode/utf8"
)

// TaskStatus represents the progress state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

// Field limits mirrored by the tasks table columns.
const (
	MaxTaskTitleLength       = 128
	MaxTaskDescriptionLength = 255
)

// Task is a unit of work owned by a single user and filed under a thread.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	UserID      int64      `json:"user_id"`
	ThreadID    int64      `json:"thread_id"`
	Thread      *Thread    `json:"thread,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask returns a blank, unsaved task attached to the given thread.
// A nil thread leaves the association empty.
func NewTask(thread *Thread) *Task {
	t := &Task{Status: TaskStatusTodo}
	if thread != nil {
		t.SetThread(thread)
	}
	return t
}

// SetThread associates the task with thread, keeping ThreadID in sync.
func (t *Task) SetThread(thread *Thread) {
	t.Thread = thread
	t.ThreadID = thread.ID
}

// IsNew reports whether the task has not been persisted yet.
func (t *Task) IsNew() bool {
	return t.ID == 0
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID int64) bool {
	return t.UserID != 0 && t.UserID == userID
}

// Validate checks the task fields and its user/thread references.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}
	if utf8.RuneCountInString(t.Description) > MaxTaskDescriptionLength {
		return ErrTaskDescTooLong
	}
	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}
	if t.UserID <= 0 {
		return ErrEmptyTaskUserID
	}
	if t.ThreadID <= 0 {
		return ErrEmptyTaskThreadID
	}
	return nil
}

// Touch stamps the modification time, and the creation time for new tasks.
func (t *Task) Touch(now time.Time) {
	now = now.UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// IsValidTaskStatus checks if the given status is a known TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone:
		return true
	default:
		return false
	}
}
