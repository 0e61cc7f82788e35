package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/store"
)

// ThreadService provides the thread pages tasks redirect to.
type ThreadService interface {
	// ListThreads returns the threads owned by userID.
	ListThreads(ctx context.Context, userID int64) ([]*domain.Thread, error)

	// GetThreadWithTasks loads a thread owned by userID and the tasks filed under it.
	GetThreadWithTasks(ctx context.Context, userID, threadID int64) (*domain.Thread, []*domain.Task, error)

	// CreateThread creates a thread titled title for userID.
	CreateThread(ctx context.Context, userID int64, title string) (*domain.Thread, error)
}

type threadServiceImpl struct {
	threads store.ThreadStore
	tasks   store.TaskStore
	logger  *slog.Logger
	now     func() time.Time
}

var _ ThreadService = (*threadServiceImpl)(nil)

// NewThreadService creates a ThreadService.
func NewThreadService(threads store.ThreadStore, tasks store.TaskStore, logger *slog.Logger) (ThreadService, error) {
	if threads == nil || tasks == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "thread and task stores are required"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &threadServiceImpl{
		threads: threads,
		tasks:   tasks,
		logger:  logger.With("component", "thread_service"),
		now:     time.Now,
	}, nil
}

// ListThreads implements ThreadService.
func (s *threadServiceImpl) ListThreads(ctx context.Context, userID int64) ([]*domain.Thread, error) {
	threads, err := s.threads.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list threads", "error", err, "user_id", userID)
		return nil, NewTaskServiceError("list_threads", "failed to query threads", err)
	}
	return threads, nil
}

// GetThreadWithTasks implements ThreadService.
func (s *threadServiceImpl) GetThreadWithTasks(
	ctx context.Context,
	userID, threadID int64,
) (*domain.Thread, []*domain.Task, error) {
	if threadID <= 0 {
		return nil, nil, store.ErrThreadNotFound
	}

	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return nil, nil, NewTaskServiceError("get_thread", "failed to retrieve thread", err)
	}
	if !thread.OwnedBy(userID) {
		return nil, nil, ErrThreadNotOwned
	}

	tasks, err := s.tasks.ListByThread(ctx, threadID)
	if err != nil {
		s.logger.Error("failed to list thread tasks", "error", err, "thread_id", threadID)
		return nil, nil, NewTaskServiceError("get_thread", "failed to list thread tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return thread, tasks, nil
}

// CreateThread implements ThreadService.
func (s *threadServiceImpl) CreateThread(ctx context.Context, userID int64, title string) (*domain.Thread, error) {
	thread := &domain.Thread{Title: title, UserID: userID, CreatedAt: s.now().UTC()}
	if err := thread.Validate(); err != nil {
		return nil, err
	}
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, NewTaskServiceError("create_thread", "failed to save thread", err)
	}
	s.logger.Info("thread created", "thread_id", thread.ID, "user_id", userID)
	return thread, nil
}
