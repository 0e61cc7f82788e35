package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow     = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	testPaging   = config.PaginationConfig{DefaultPageSize: 3, MaxPageSize: 100}
	ownedThread  = &domain.Thread{ID: 5, Title: "Inbox", UserID: 1}
	foreignThread = &domain.Thread{ID: 6, Title: "Theirs", UserID: 2}
)

type taskServiceFixture struct {
	svc     *taskServiceImpl
	tasks   *MockTaskStore
	threads *MockThreadStore
	sql     sqlmock.Sqlmock
}

func newTaskServiceFixture(t *testing.T) *taskServiceFixture {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tasks := &MockTaskStore{}
	threads := &MockThreadStore{}
	svc, err := NewTaskService(tasks, threads, db, testPaging, nil)
	require.NoError(t, err)

	impl := svc.(*taskServiceImpl)
	impl.now = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		tasks.AssertExpectations(t)
		threads.AssertExpectations(t)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
	return &taskServiceFixture{svc: impl, tasks: tasks, threads: threads, sql: sqlMock}
}

func storedTask(id, userID int64) *domain.Task {
	return &domain.Task{
		ID:        id,
		Title:     "Stored",
		Status:    domain.TaskStatusTodo,
		UserID:    userID,
		ThreadID:  5,
		Thread:    ownedThread,
		CreatedAt: fixedNow.Add(-time.Hour),
		UpdatedAt: fixedNow.Add(-time.Hour),
	}
}

func TestNewTaskService_RequiresDependencies(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewTaskService(nil, &MockThreadStore{}, db, testPaging, nil)
	assert.Error(t, err)
	_, err = NewTaskService(&MockTaskStore{}, nil, db, testPaging, nil)
	assert.Error(t, err)
	_, err = NewTaskService(&MockTaskStore{}, &MockThreadStore{}, nil, testPaging, nil)
	assert.Error(t, err)
}

func TestNormalizeListParams(t *testing.T) {
	tests := []struct {
		name   string
		params ListParams
		want   domain.PageRequest
	}{
		{name: "defaults", params: ListParams{}, want: domain.PageRequest{Number: 1, Size: 3, Sort: domain.SortAuto}},
		{name: "negative_page", params: ListParams{Page: -4, PageSize: 10}, want: domain.PageRequest{Number: 1, Size: 10, Sort: domain.SortAuto}},
		{name: "capped_size", params: ListParams{Page: 2, PageSize: 1000}, want: domain.PageRequest{Number: 2, Size: 100, Sort: domain.SortAuto}},
		{name: "title_sort", params: ListParams{Sort: domain.SortTitle}, want: domain.PageRequest{Number: 1, Size: 3, Sort: domain.SortTitle}},
		{name: "unknown_sort", params: ListParams{Sort: "priority"}, want: domain.PageRequest{Number: 1, Size: 3, Sort: domain.SortAuto}},
		{name: "huge_page", params: ListParams{Page: math.MaxInt / 2}, want: domain.PageRequest{Number: math.MaxInt / 3, Size: 3, Sort: domain.SortAuto}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeListParams(tt.params, testPaging)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Offset(), 0)
		})
	}
}

func TestTaskService_ListTasks(t *testing.T) {
	f := newTaskServiceFixture(t)
	filters := []domain.SearchFilter{{Field: "title", Operator: domain.OpLIKE, Value: "report"}}
	expectedQuery := store.TaskQuery{
		UserID:  1,
		Filters: filters,
		Page:    domain.PageRequest{Number: 1, Size: 3, Sort: domain.SortAuto},
	}
	page := domain.NewPage([]*domain.Task{storedTask(3, 1)}, expectedQuery.Page, 1)
	f.tasks.On("Query", mock.Anything, expectedQuery).Return(page, nil)

	before := testutil.ToFloat64(taskOperations.WithLabelValues("list", outcomeSuccess))
	got, err := f.svc.ListTasks(context.Background(), 1, ListParams{Filters: filters})
	require.NoError(t, err)
	assert.Same(t, page, got)
	assert.Equal(t, before+1, testutil.ToFloat64(taskOperations.WithLabelValues("list", outcomeSuccess)))
}

func TestTaskService_ListTasks_StoreError(t *testing.T) {
	f := newTaskServiceFixture(t)
	dbErr := errors.New("connection reset")
	f.tasks.On("Query", mock.Anything, mock.Anything).Return(nil, dbErr)

	before := testutil.ToFloat64(taskOperations.WithLabelValues("list", outcomeError))
	_, err := f.svc.ListTasks(context.Background(), 1, ListParams{})
	assert.ErrorIs(t, err, dbErr)

	var svcErr *TaskServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "list_tasks", svcErr.Operation)
	assert.Equal(t, before+1, testutil.ToFloat64(taskOperations.WithLabelValues("list", outcomeError)))
}

func TestTaskService_GetOwnedTask(t *testing.T) {
	f := newTaskServiceFixture(t)
	f.tasks.On("GetByID", mock.Anything, int64(7)).Return(storedTask(7, 1), nil).Twice()

	task, err := f.svc.GetOwnedTask(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), task.ID)

	_, err = f.svc.GetOwnedTask(context.Background(), 2, 7)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = f.svc.GetTask(context.Background(), 0)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_NewTask(t *testing.T) {
	f := newTaskServiceFixture(t)
	f.threads.On("GetByID", mock.Anything, int64(5)).Return(ownedThread, nil)
	f.threads.On("GetByID", mock.Anything, int64(6)).Return(foreignThread, nil)
	f.threads.On("GetByID", mock.Anything, int64(9)).Return(nil, store.ErrThreadNotFound)

	task, err := f.svc.NewTask(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, task.IsNew())
	assert.Equal(t, int64(5), task.ThreadID)
	assert.Same(t, ownedThread, task.Thread)

	_, err = f.svc.NewTask(context.Background(), 1, 6)
	assert.ErrorIs(t, err, ErrThreadNotOwned)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = f.svc.NewTask(context.Background(), 1, 9)
	assert.ErrorIs(t, err, store.ErrThreadNotFound)
}

func TestTaskService_CreateTask(t *testing.T) {
	t.Run("persists_with_user_and_thread", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		f.threads.On("GetByID", mock.Anything, int64(5)).Return(ownedThread, nil)
		f.tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
			return task.UserID == 1 && task.ThreadID == 5 && task.Thread == ownedThread &&
				task.Status == domain.TaskStatusTodo && task.CreatedAt.Equal(fixedNow)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Task).ID = 11
		}).Return(nil).Once()

		task := &domain.Task{ID: 99, Title: "Write report", UserID: 42}
		require.NoError(t, f.svc.CreateTask(context.Background(), 1, 5, task))
		assert.Equal(t, int64(11), task.ID)
		assert.Equal(t, int64(1), task.UserID)
	})

	t.Run("validation_failure_skips_store", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		f.threads.On("GetByID", mock.Anything, int64(5)).Return(ownedThread, nil)

		before := testutil.ToFloat64(taskOperations.WithLabelValues("create", outcomeRejected))
		err := f.svc.CreateTask(context.Background(), 1, 5, &domain.Task{})
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
		assert.Equal(t, before+1, testutil.ToFloat64(taskOperations.WithLabelValues("create", outcomeRejected)))
	})

	t.Run("thread_id_zero_is_not_found", func(t *testing.T) {
		f := newTaskServiceFixture(t)

		err := f.svc.CreateTask(context.Background(), 1, 0, &domain.Task{Title: "x"})
		assert.ErrorIs(t, err, store.ErrThreadNotFound)
	})
}

func TestTaskService_UpdateTask(t *testing.T) {
	t.Run("keeps_identity_and_owner", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		f.sql.ExpectBegin()
		f.sql.ExpectCommit()
		existing := storedTask(7, 1)
		f.tasks.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)
		f.tasks.On("Update", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
			return task.ID == 7 && task.UserID == 1 && task.Title == "Renamed" &&
				task.CreatedAt.Equal(existing.CreatedAt) && task.UpdatedAt.Equal(fixedNow)
		})).Return(nil)

		task := &domain.Task{ID: 7, Title: "Renamed", Status: domain.TaskStatusDoing, UserID: 1, ThreadID: 5}
		require.NoError(t, f.svc.UpdateTask(context.Background(), 1, task))
		assert.Same(t, ownedThread, task.Thread)
	})

	t.Run("moves_to_another_owned_thread", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		f.sql.ExpectBegin()
		f.sql.ExpectCommit()
		other := &domain.Thread{ID: 8, Title: "Later", UserID: 1}
		f.tasks.On("GetByID", mock.Anything, int64(7)).Return(storedTask(7, 1), nil)
		f.threads.On("GetByID", mock.Anything, int64(8)).Return(other, nil)
		f.tasks.On("Update", mock.Anything, mock.Anything).Return(nil)

		task := &domain.Task{ID: 7, Title: "Moved", Status: domain.TaskStatusTodo, UserID: 1, ThreadID: 8}
		require.NoError(t, f.svc.UpdateTask(context.Background(), 1, task))
		assert.Equal(t, int64(8), task.Thread.ID)
	})

	t.Run("non_owner_rolls_back", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()
		f.tasks.On("GetByID", mock.Anything, int64(7)).Return(storedTask(7, 2), nil)

		task := &domain.Task{ID: 7, Title: "Hijack", Status: domain.TaskStatusTodo, ThreadID: 5}
		assert.ErrorIs(t, f.svc.UpdateTask(context.Background(), 1, task), ErrNotOwned)
		f.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unsaved_task", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		assert.ErrorIs(t, f.svc.UpdateTask(context.Background(), 1, &domain.Task{}), store.ErrTaskNotFound)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	t.Run("deletes_owned_task", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		f.sql.ExpectBegin()
		f.sql.ExpectCommit()
		f.tasks.On("GetByID", mock.Anything, int64(7)).Return(storedTask(7, 1), nil)
		f.tasks.On("Delete", mock.Anything, int64(7)).Return(nil)

		require.NoError(t, f.svc.DeleteTask(context.Background(), 1, 7))
	})

	t.Run("second_delete_is_not_found", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()
		f.tasks.On("GetByID", mock.Anything, int64(7)).Return(nil, store.ErrTaskNotFound)

		before := testutil.ToFloat64(taskOperations.WithLabelValues("delete", outcomeRejected))
		assert.ErrorIs(t, f.svc.DeleteTask(context.Background(), 1, 7), store.ErrTaskNotFound)
		assert.Equal(t, before+1, testutil.ToFloat64(taskOperations.WithLabelValues("delete", outcomeRejected)))
	})

	t.Run("non_owner", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()
		f.tasks.On("GetByID", mock.Anything, int64(7)).Return(storedTask(7, 2), nil)

		assert.ErrorIs(t, f.svc.DeleteTask(context.Background(), 1, 7), ErrNotOwned)
	})

	t.Run("delete_failure_is_wrapped", func(t *testing.T) {
		f := newTaskServiceFixture(t)
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()
		f.tasks.On("GetByID", mock.Anything, int64(7)).Return(storedTask(7, 1), nil)
		f.tasks.On("Delete", mock.Anything, int64(7)).Return(sql.ErrConnDone)

		err := f.svc.DeleteTask(context.Background(), 1, 7)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		var svcErr *TaskServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}
