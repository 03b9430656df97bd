package main

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/storage"
)

func newMockSchema(t *testing.T) (*storage.Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewPostgres(db), mock
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Up", func(t *testing.T) {
		pg, mock := newMockSchema(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, run(ctx, pg, "up"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Down", func(t *testing.T) {
		pg, mock := newMockSchema(t)
		mock.ExpectExec("DROP TABLE IF EXISTS kv_store").
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, run(ctx, pg, "down"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reset", func(t *testing.T) {
		pg, mock := newMockSchema(t)
		for _, key := range stateKeys {
			mock.ExpectExec("DELETE FROM kv_store").
				WithArgs(key).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}

		require.NoError(t, run(ctx, pg, "reset"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reset failure", func(t *testing.T) {
		pg, mock := newMockSchema(t)
		mock.ExpectExec("DELETE FROM kv_store").
			WithArgs(storage.KeyCart).
			WillReturnError(sql.ErrConnDone)

		err := run(ctx, pg, "reset")
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})

	t.Run("Unknown mode", func(t *testing.T) {
		pg, _ := newMockSchema(t)
		assert.ErrorContains(t, run(ctx, pg, "sideways"), "unknown mode")
	})
}
