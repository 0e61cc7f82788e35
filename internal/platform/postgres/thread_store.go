package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/store"
)

// PostgresThreadStore implements the store.ThreadStore interface
// using a PostgreSQL database as the storage backend.
type PostgresThreadStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresThreadStore creates a new PostgreSQL implementation of the ThreadStore interface.
func NewPostgresThreadStore(db store.DBTX, logger *slog.Logger) *PostgresThreadStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresThreadStore{
		db:     db,
		logger: logger.With(slog.String("component", "thread_store")),
	}
}

// Ensure PostgresThreadStore implements store.ThreadStore interface
var _ store.ThreadStore = (*PostgresThreadStore)(nil)

// Create implements store.ThreadStore.Create
func (s *PostgresThreadStore) Create(ctx context.Context, thread *domain.Thread) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := thread.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO threads (title, user_id, created_at) VALUES ($1, $2, $3) RETURNING id`,
		thread.Title, thread.UserID, thread.CreatedAt,
	).Scan(&thread.ID)
	if err != nil {
		log.Error("failed to insert thread",
			slog.Int64("user_id", thread.UserID),
			slog.String("error", err.Error()))
		return store.NewStoreError("thread", "create", MapError(err))
	}

	return nil
}

// GetByID implements store.ThreadStore.GetByID
func (s *PostgresThreadStore) GetByID(ctx context.Context, id int64) (*domain.Thread, error) {
	var thread domain.Thread
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, user_id, created_at FROM threads WHERE id = $1`, id,
	).Scan(&thread.ID, &thread.Title, &thread.UserID, &thread.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrThreadNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get thread",
			slog.Int64("thread_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("thread", "get", MapError(err))
	}
	return &thread, nil
}

// ListByUser implements store.ThreadStore.ListByUser
func (s *PostgresThreadStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, user_id, created_at FROM threads WHERE user_id = $1 ORDER BY title ASC, id ASC`,
		userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list threads",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("thread", "list", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	threads := []*domain.Thread{}
	for rows.Next() {
		var thread domain.Thread
		if err := rows.Scan(&thread.ID, &thread.Title, &thread.UserID, &thread.CreatedAt); err != nil {
			return nil, store.NewStoreError("thread", "list", err)
		}
		threads = append(threads, &thread)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("thread", "list", err)
	}
	return threads, nil
}
