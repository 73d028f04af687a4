// Package storage provides a PostgreSQL-based implementation of the Backend interface.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/CreativeUnicorns/themeprefs"
)

// sqlOpenFunc is a package-level variable that can be overridden for testing.
var sqlOpenFunc = sql.Open

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS theme_preferences (
			scope TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (scope, key)
		);
	`

	upsertSQL = `
		INSERT INTO theme_preferences (scope, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope, key)
		DO UPDATE SET value = $3, updated_at = $4
	`

	selectSQL = `
		SELECT value
		FROM theme_preferences
		WHERE scope = $1 AND key = $2
	`

	deleteSQL = `
		DELETE FROM theme_preferences
		WHERE scope = $1 AND key = $2
	`
)

// PostgresStorage implements the Backend interface using PostgreSQL.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage connects to PostgreSQL using connString and runs migrations.
func NewPostgresStorage(connString string) (*PostgresStorage, error) {
	db, err := sqlOpenFunc("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	storage := &PostgresStorage{db: db}
	if err := storage.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: failed to run migrations: %w", err)
	}

	return storage, nil
}

// migrate runs the necessary database migrations.
func (s *PostgresStorage) migrate() error {
	_, err := s.db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("postgres: failed to execute create table statement: %w", err)
	}
	return nil
}

// Get retrieves the value stored for scope and key.
// It returns themeprefs.ErrNotFound if the row does not exist.
func (s *PostgresStorage) Get(ctx context.Context, scope, key string) (string, error) {
	if err := validateArgs(scope, key); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx, selectSQL, scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", themeprefs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres: failed to get %q for scope %q: %w", key, scope, err)
	}
	return value, nil
}

// Set stores or updates the value for scope and key.
func (s *PostgresStorage) Set(ctx context.Context, scope, key, value string) error {
	if err := validateArgs(scope, key); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, upsertSQL, scope, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres: failed to set %q for scope %q: %w", key, scope, err)
	}
	return nil
}

// Delete removes the value for scope and key.
// It returns themeprefs.ErrNotFound if the row does not exist.
func (s *PostgresStorage) Delete(ctx context.Context, scope, key string) error {
	if err := validateArgs(scope, key); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, deleteSQL, scope, key)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete %q for scope %q: %w", key, scope, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return themeprefs.ErrNotFound
	}
	return nil
}

// Close closes the PostgreSQL database connection.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
