package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestRunInTransaction(t *testing.T) {
	fnErr := errors.New("function failed")

	tests := []struct {
		name      string
		setup     func(sqlmock.Sqlmock)
		fn        TxFn
		assertErr func(*testing.T, error)
	}{
		{
			name: "commit on success",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return nil },
			assertErr: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "rollback returns function error unchanged",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectRollback()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return ErrTaskNotFound },
			assertErr: func(t *testing.T, err error) {
				assert.Equal(t, ErrTaskNotFound, err)
			},
		},
		{
			name: "begin failure",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return nil },
			assertErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrTransactionFailed)
				assert.Contains(t, err.Error(), "connection refused")
			},
		},
		{
			name: "commit failure",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectCommit().WillReturnError(errors.New("commit failed"))
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return nil },
			assertErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrTransactionFailed)
				assert.Contains(t, err.Error(), "commit failed")
			},
		},
		{
			name: "rollback failure keeps original error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectRollback().WillReturnError(errors.New("rollback failed"))
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return fnErr },
			assertErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, fnErr)
				assert.Contains(t, err.Error(), "rollback failed")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tc.setup(mock)

			err := RunInTransaction(context.Background(), db, tc.fn)
			tc.assertErr(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_Panic(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "test panic", func() {
		_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			panic("test panic")
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrTaskNotFound))
	assert.True(t, IsNotFoundError(NewStoreError("task", "get", ErrThreadNotFound)))
	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrLoginNameExists))

	err := NewStoreError("task", "query", errors.New("boom"))
	assert.Equal(t, "query operation on task failed: boom", err.Error())
}
