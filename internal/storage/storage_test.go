package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Error - missing key", func(t *testing.T) {
		_, err := s.Get(ctx, KeyCart)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Success - set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, KeyCart, []byte(`[1,2]`)))

		got, err := s.Get(ctx, KeyCart)
		require.NoError(t, err)
		assert.JSONEq(t, `[1,2]`, string(got))
	})

	t.Run("Success - overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, KeyCart, []byte(`[3]`)))

		got, err := s.Get(ctx, KeyCart)
		require.NoError(t, err)
		assert.JSONEq(t, `[3]`, string(got))
	})

	t.Run("Success - delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, KeyCart))
		_, err := s.Get(ctx, KeyCart)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, s.Delete(ctx, KeyCart))
	})

	t.Run("Success - json helpers", func(t *testing.T) {
		var out doc
		found, err := LoadJSON(ctx, s, KeyUser, &out)
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, SaveJSON(ctx, s, KeyUser, doc{Name: "u1", Count: 2}))

		found, err = LoadJSON(ctx, s, KeyUser, &out)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, doc{Name: "u1", Count: 2}, out)
	})
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())

	t.Run("Success - returned bytes are copies", func(t *testing.T) {
		m := NewMemory()
		in := []byte(`"a"`)
		require.NoError(t, m.Set(context.Background(), "k", in))
		in[1] = 'b'

		got, err := m.Get(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, `"a"`, string(got))
	})
}

func TestFile(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	exerciseStore(t, f)

	t.Run("Error - invalid key", func(t *testing.T) {
		err := f.Set(context.Background(), "../escape", []byte(`{}`))
		assert.Error(t, err)
	})
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(NewRedisClient(mr.Addr(), "", 0))

	exerciseStore(t, r)

	t.Run("Success - keys are prefixed", func(t *testing.T) {
		require.NoError(t, r.Set(context.Background(), KeyOrders, []byte(`[]`)))
		assert.True(t, mr.Exists("storefront:orders"))
	})

	t.Run("Error - server down", func(t *testing.T) {
		mr.Close()
		_, err := r.Get(context.Background(), KeyOrders)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestPostgres(t *testing.T) {
	ctx := context.Background()

	newMock := func(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return NewPostgres(db), mock
	}

	t.Run("Success - migrate", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, p.Migrate(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - drop", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectExec("DROP TABLE IF EXISTS kv_store").
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, p.Drop(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - get", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectQuery("SELECT value FROM kv_store WHERE key = \\$1").
			WithArgs(KeyProducts).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

		got, err := p.Get(ctx, KeyProducts)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error - get missing", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectQuery("SELECT value FROM kv_store").
			WithArgs(KeyProducts).
			WillReturnError(sql.ErrNoRows)

		_, err := p.Get(ctx, KeyProducts)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Success - set upserts", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs(KeyOrders, []byte(`[]`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, p.Set(ctx, KeyOrders, []byte(`[]`)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error - set fails", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectExec("INSERT INTO kv_store").
			WillReturnError(sql.ErrConnDone)

		err := p.Set(ctx, KeyOrders, []byte(`[]`))
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})

	t.Run("Success - delete", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectExec("DELETE FROM kv_store WHERE key = \\$1").
			WithArgs(KeyUser).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, p.Delete(ctx, KeyUser))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
