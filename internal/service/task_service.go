package service

import (
	"context"
	"database/sql"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/store"
)

// ListParams is a raw listing request. Zero or out-of-range values are
// replaced by defaults during normalisation.
type ListParams struct {
	Page     int
	PageSize int
	Sort     domain.SortType
	Filters  []domain.SearchFilter
}

// TaskService provides the task use cases behind the web routes.
type TaskService interface {
	// ListTasks returns one page of the user's tasks.
	ListTasks(ctx context.Context, userID int64, params ListParams) (*domain.Page[*domain.Task], error)

	// GetTask loads a task by ID without checking ownership.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// GetOwnedTask loads a task and returns ErrNotOwned if userID is not its owner.
	GetOwnedTask(ctx context.Context, userID, id int64) (*domain.Task, error)

	// NewTask returns a blank task attached to the user's thread threadID.
	NewTask(ctx context.Context, userID, threadID int64) (*domain.Task, error)

	// CreateTask saves task for userID under threadID and assigns its ID.
	CreateTask(ctx context.Context, userID, threadID int64, task *domain.Task) error

	// UpdateTask saves the mutable fields of an existing task owned by userID.
	UpdateTask(ctx context.Context, userID int64, task *domain.Task) error

	// DeleteTask removes a task owned by userID.
	DeleteTask(ctx context.Context, userID, id int64) error
}

type taskServiceImpl struct {
	tasks      store.TaskStore
	threads    store.ThreadStore
	db         *sql.DB
	pagination config.PaginationConfig
	logger     *slog.Logger
	now        func() time.Time
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService. It returns an error if a required
// dependency is missing.
func NewTaskService(
	tasks store.TaskStore,
	threads store.ThreadStore,
	db *sql.DB,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "task store cannot be nil"}
	}
	if threads == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "thread store cannot be nil"}
	}
	if db == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if pagination.DefaultPageSize <= 0 {
		pagination.DefaultPageSize = 3
	}
	if pagination.MaxPageSize < pagination.DefaultPageSize {
		pagination.MaxPageSize = pagination.DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:      tasks,
		threads:    threads,
		db:         db,
		pagination: pagination,
		logger:     logger.With("component", "task_service"),
		now:        time.Now,
	}, nil
}

// NormalizeListParams applies paging defaults and bounds to params.
func NormalizeListParams(params ListParams, pagination config.PaginationConfig) domain.PageRequest {
	req := domain.PageRequest{Number: params.Page, Size: params.PageSize, Sort: params.Sort}
	if req.Number < 1 {
		req.Number = 1
	}
	if req.Size <= 0 {
		req.Size = pagination.DefaultPageSize
	}
	if pagination.MaxPageSize > 0 && req.Size > pagination.MaxPageSize {
		req.Size = pagination.MaxPageSize
	}
	if req.Size > 0 && req.Number > math.MaxInt/req.Size {
		req.Number = math.MaxInt / req.Size
	}
	if req.Sort != domain.SortTitle {
		req.Sort = domain.SortAuto
	}
	return req
}

func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// ListTasks implements TaskService.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID int64,
	params ListParams,
) (page *domain.Page[*domain.Task], err error) {
	defer func(start time.Time) { observeOperation("list", start, err) }(time.Now())

	req := NormalizeListParams(params, s.pagination)
	page, err = s.tasks.Query(ctx, store.TaskQuery{
		UserID:  userID,
		Filters: params.Filters,
		Page:    req,
	})
	if err != nil {
		s.log(ctx).Error("failed to list tasks", "error", err, "user_id", userID)
		return nil, NewTaskServiceError("list_tasks", "failed to query tasks", err)
	}

	s.log(ctx).Debug("listed tasks",
		"user_id", userID,
		"page", req.Number,
		"size", req.Size,
		"sort", req.Sort,
		"total", page.Total)
	return page, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if id <= 0 {
		return nil, store.ErrTaskNotFound
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// GetOwnedTask implements TaskService.
func (s *taskServiceImpl) GetOwnedTask(ctx context.Context, userID, id int64) (*domain.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.OwnedBy(userID) {
		s.log(ctx).Warn("task access by non-owner", "task_id", id, "user_id", userID)
		return nil, ErrNotOwned
	}
	return task, nil
}

// NewTask implements TaskService.
func (s *taskServiceImpl) NewTask(ctx context.Context, userID, threadID int64) (*domain.Task, error) {
	thread, err := s.resolveThread(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}
	return domain.NewTask(thread), nil
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID, threadID int64,
	task *domain.Task,
) (err error) {
	defer func(start time.Time) { observeOperation("create", start, err) }(time.Now())

	thread, err := s.resolveThread(ctx, userID, threadID)
	if err != nil {
		return err
	}

	task.ID = 0
	task.UserID = userID
	task.SetThread(thread)
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}
	task.Touch(s.now())

	if err = task.Validate(); err != nil {
		return err
	}

	if err = s.tasks.Create(ctx, task); err != nil {
		s.log(ctx).Error("failed to create task", "error", err, "user_id", userID, "thread_id", threadID)
		return NewTaskServiceError("create_task", "failed to save task", err)
	}

	taskTitleLength.Observe(float64(utf8.RuneCountInString(task.Title)))
	s.log(ctx).Info("task created", "task_id", task.ID, "user_id", userID, "thread_id", thread.ID)
	return nil
}

// UpdateTask implements TaskService.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, userID int64, task *domain.Task) (err error) {
	defer func(start time.Time) { observeOperation("update", start, err) }(time.Now())

	if task.IsNew() {
		return store.ErrTaskNotFound
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		existing, err := txTasks.GetByID(ctx, task.ID)
		if err != nil {
			return NewTaskServiceError("update_task", "failed to retrieve task", err)
		}
		if !existing.OwnedBy(userID) {
			s.log(ctx).Warn("task update by non-owner", "task_id", task.ID, "user_id", userID)
			return ErrNotOwned
		}

		if task.ThreadID != existing.ThreadID {
			thread, err := s.resolveThread(ctx, userID, task.ThreadID)
			if err != nil {
				return err
			}
			task.SetThread(thread)
		} else if task.Thread == nil {
			task.Thread = existing.Thread
		}

		task.UserID = existing.UserID
		task.CreatedAt = existing.CreatedAt
		task.Touch(s.now())

		if err := task.Validate(); err != nil {
			return err
		}

		if err := txTasks.Update(ctx, task); err != nil {
			return NewTaskServiceError("update_task", "failed to save task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	taskTitleLength.Observe(float64(utf8.RuneCountInString(task.Title)))
	s.log(ctx).Info("task updated", "task_id", task.ID, "user_id", userID)
	return nil
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, id int64) (err error) {
	defer func(start time.Time) { observeOperation("delete", start, err) }(time.Now())

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		existing, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return NewTaskServiceError("delete_task", "failed to retrieve task", err)
		}
		if !existing.OwnedBy(userID) {
			s.log(ctx).Warn("task delete by non-owner", "task_id", id, "user_id", userID)
			return ErrNotOwned
		}

		if err := txTasks.Delete(ctx, id); err != nil {
			return NewTaskServiceError("delete_task", "failed to delete task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("task deleted", "task_id", id, "user_id", userID)
	return nil
}

// resolveThread loads threadID and checks it belongs to userID.
func (s *taskServiceImpl) resolveThread(ctx context.Context, userID, threadID int64) (*domain.Thread, error) {
	if threadID <= 0 {
		return nil, store.ErrThreadNotFound
	}
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return nil, NewTaskServiceError("resolve_thread", "failed to retrieve thread", err)
	}
	if !thread.OwnedBy(userID) {
		s.log(ctx).Warn("thread access by non-owner", "thread_id", threadID, "user_id", userID)
		return nil, ErrThreadNotOwned
	}
	return thread, nil
}
