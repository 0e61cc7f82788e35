package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/store"
)

const taskSelectColumns = `
	SELECT t.id, t.title, t.description, t.status, t.user_id, t.thread_id,
	       t.created_at, t.updated_at,
	       th.id, th.title, th.user_id, th.created_at
	FROM tasks t
	JOIN threads th ON th.id = t.thread_id`

// taskFilterColumns maps searchable fields to their qualified columns.
var taskFilterColumns = map[string]string{
	"title":       "t.title",
	"description": "t.description",
	"status":      "t.status",
}

var filterOperators = map[domain.SearchOperator]string{
	domain.OpEQ:  "=",
	domain.OpGT:  ">",
	domain.OpLT:  "<",
	domain.OpGTE: ">=",
	domain.OpLTE: "<=",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, the default logger is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("invalid task data", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO tasks (title, description, status, user_id, thread_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		task.UserID,
		task.ThreadID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to insert task",
			slog.Int64("user_id", task.UserID),
			slog.Int64("thread_id", task.ThreadID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", MapError(err))
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, taskSelectColumns+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", MapError(err))
	}

	return task, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("invalid task data", slog.Int64("task_id", task.ID), slog.String("error", err.Error()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, thread_id = $4, updated_at = $5
		WHERE id = $6`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		task.ThreadID,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task", slog.Int64("task_id", task.ID), slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return err
		}
		return store.NewStoreError("task", "update", err)
	}

	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return err
		}
		return store.NewStoreError("task", "delete", err)
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// Query implements store.TaskStore.Query
func (s *PostgresTaskStore) Query(ctx context.Context, q store.TaskQuery) (*domain.Page[*domain.Task], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if q.Page.Size <= 0 {
		return nil, store.NewStoreError("task", "query",
			fmt.Errorf("%w: page size must be positive", store.ErrInvalidEntity))
	}

	where, args, err := buildTaskWhere(q)
	if err != nil {
		return nil, store.NewStoreError("task", "query", err)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM tasks t` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.Int64("user_id", q.UserID), slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "count", MapError(err))
	}

	offset := q.Page.Offset()
	if int64(offset) >= total {
		return domain.NewPage[*domain.Task](nil, q.Page, total), nil
	}

	n := len(args)
	listQuery := taskSelectColumns + where + taskOrderBy(q.Page.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, q.Page.Size, offset)

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.Int64("user_id", q.UserID), slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "query", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, store.NewStoreError("task", "query", MapError(err))
	}

	log.Debug("tasks queried",
		slog.Int64("user_id", q.UserID),
		slog.Int("page", q.Page.Number),
		slog.Int("returned", len(tasks)),
		slog.Int64("total", total))

	return domain.NewPage(tasks, q.Page, total), nil
}

// ListByThread implements store.TaskStore.ListByThread
func (s *PostgresTaskStore) ListByThread(ctx context.Context, threadID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, taskSelectColumns+` WHERE t.thread_id = $1 ORDER BY t.id DESC`, threadID)
	if err != nil {
		log.Error("failed to list thread tasks", slog.Int64("thread_id", threadID), slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, store.NewStoreError("task", "list", MapError(err))
	}
	return tasks, nil
}

// buildTaskWhere renders the WHERE clause for q with positional arguments.
func buildTaskWhere(q store.TaskQuery) (string, []any, error) {
	var b strings.Builder
	args := []any{q.UserID}
	b.WriteString(" WHERE t.user_id = $1")

	for _, f := range q.Filters {
		column, ok := taskFilterColumns[f.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", domain.ErrMalformedSearchParam, f.Field)
		}

		if f.Operator == domain.OpLIKE {
			args = append(args, "%"+likeEscaper.Replace(f.Value)+"%")
			fmt.Fprintf(&b, ` AND %s ILIKE $%d ESCAPE '\'`, column, len(args))
			continue
		}

		op, ok := filterOperators[f.Operator]
		if !ok {
			return "", nil, fmt.Errorf("%w: operator %q", domain.ErrMalformedSearchParam, f.Operator)
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, " AND %s %s $%d", column, op, len(args))
	}

	return b.String(), args, nil
}

func taskOrderBy(sort domain.SortType) string {
	if sort == domain.SortTitle {
		return " ORDER BY t.title ASC, t.id ASC"
	}
	return " ORDER BY t.id DESC"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task   domain.Task
		thread domain.Thread
		status string
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&task.UserID,
		&task.ThreadID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&thread.ID,
		&thread.Title,
		&thread.UserID,
		&thread.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatus(status)
	task.Thread = &thread
	return &task, nil
}

func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
