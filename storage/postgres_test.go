package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/themeprefs"
)

// withMockOpen points sqlOpenFunc at db for the duration of the test.
func withMockOpen(t *testing.T, db *sql.DB, openErr error) {
	t.Helper()
	original := sqlOpenFunc
	sqlOpenFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
		if openErr != nil {
			return nil, openErr
		}
		return db, nil
	}
	t.Cleanup(func() { sqlOpenFunc = original })
}

func TestNewPostgresStorage(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing()
		mock.ExpectExec(regexp.QuoteMeta(createTableSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		withMockOpen(t, db, nil)

		storage, err := NewPostgresStorage("dummy_conn_string")
		assert.NoError(t, err)
		assert.NotNil(t, storage)
		assert.NoError(t, mock.ExpectationsWereMet(), "sqlmock expectations not met")
	})

	t.Run("sql open error", func(t *testing.T) {
		expectedErr := errors.New("failed to open database")
		withMockOpen(t, nil, expectedErr)

		_, err := NewPostgresStorage("dummy_conn_string")
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("ping error", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)

		mock.ExpectPing().WillReturnError(errors.New("ping failed"))
		mock.ExpectClose()
		withMockOpen(t, db, nil)

		_, err = NewPostgresStorage("dummy_conn_string")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres: failed to ping database")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("migrate error", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)

		mock.ExpectPing()
		mock.ExpectExec(regexp.QuoteMeta(createTableSQL)).WillReturnError(errors.New("migrate failed"))
		mock.ExpectClose()
		withMockOpen(t, db, nil)

		_, err = NewPostgresStorage("dummy_conn_string")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to run migrations")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func newTestPostgresStorage(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PostgresStorage{db: db}, mock
}

func TestPostgresStorage_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		storage, mock := newTestPostgresStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
			WithArgs("session-1", "theme").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("dark"))

		v, err := storage.Get(ctx, "session-1", "theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		storage, mock := newTestPostgresStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
			WithArgs("session-1", "theme").
			WillReturnError(sql.ErrNoRows)

		_, err := storage.Get(ctx, "session-1", "theme")
		assert.ErrorIs(t, err, themeprefs.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		storage, mock := newTestPostgresStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
			WithArgs("session-1", "theme").
			WillReturnError(errors.New("connection reset"))

		_, err := storage.Get(ctx, "session-1", "theme")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres: failed to get")
		assert.NotErrorIs(t, err, themeprefs.ErrNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		storage, _ := newTestPostgresStorage(t)
		_, err := storage.Get(ctx, "", "theme")
		assert.ErrorIs(t, err, themeprefs.ErrInvalidInput)
	})
}

func TestPostgresStorage_Set(t *testing.T) {
	ctx := context.Background()

	t.Run("successful set", func(t *testing.T) {
		storage, mock := newTestPostgresStorage(t)
		mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).
			WithArgs("session-1", "theme", "dark", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, storage.Set(ctx, "session-1", "theme", "dark"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		storage, mock := newTestPostgresStorage(t)
		mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).
			WithArgs("session-1", "theme", "dark", sqlmock.AnyArg()).
			WillReturnError(errors.New("read-only transaction"))

		err := storage.Set(ctx, "session-1", "theme", "dark")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres: failed to set")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStorage_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		storage, mock := newTestPostgresStorage(t)
		mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
			WithArgs("session-1", "theme").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, storage.Delete(ctx, "session-1", "theme"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to delete", func(t *testing.T) {
		storage, mock := newTestPostgresStorage(t)
		mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
			WithArgs("session-1", "theme").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, storage.Delete(ctx, "session-1", "theme"), themeprefs.ErrNotFound)
	})

	t.Run("rows affected error", func(t *testing.T) {
		storage, mock := newTestPostgresStorage(t)
		mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
			WithArgs("session-1", "theme").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("driver cannot count")))

		err := storage.Delete(ctx, "session-1", "theme")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get affected rows")
	})
}

func TestPostgresStorage_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	storage := &PostgresStorage{db: db}
	assert.NoError(t, storage.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
