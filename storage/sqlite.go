// Package storage provides a SQLite-based implementation of the Backend interface.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/CreativeUnicorns/themeprefs"
)

const (
	sqliteCreateTableSQL = `
		CREATE TABLE IF NOT EXISTS theme_preferences (
			scope TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (scope, key)
		);
	`

	sqliteUpsertSQL = `
		INSERT INTO theme_preferences (scope, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	sqliteSelectSQL = `
		SELECT value
		FROM theme_preferences
		WHERE scope = ? AND key = ?
	`

	sqliteDeleteSQL = `
		DELETE FROM theme_preferences
		WHERE scope = ? AND key = ?
	`
)

// SQLiteStorage implements the Backend interface using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens the SQLite database at dbPath with the cgo
// go-sqlite3 driver and runs migrations.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	return openSQLite("sqlite3", dbPath)
}

func openSQLite(driver, dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent toggles.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: failed to run migrations: %w", err)
	}

	return storage, nil
}

// migrate runs the necessary database migrations.
func (s *SQLiteStorage) migrate() error {
	_, err := s.db.Exec(sqliteCreateTableSQL)
	return err
}

// Get retrieves the value stored for scope and key.
// It returns themeprefs.ErrNotFound if the row does not exist.
func (s *SQLiteStorage) Get(ctx context.Context, scope, key string) (string, error) {
	if err := validateArgs(scope, key); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx, sqliteSelectSQL, scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", themeprefs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: failed to get %q for scope %q: %w", key, scope, err)
	}
	return value, nil
}

// Set stores or updates the value for scope and key.
func (s *SQLiteStorage) Set(ctx context.Context, scope, key, value string) error {
	if err := validateArgs(scope, key); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, sqliteUpsertSQL, scope, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite: failed to set %q for scope %q: %w", key, scope, err)
	}
	return nil
}

// Delete removes the value for scope and key.
// It returns themeprefs.ErrNotFound if the row does not exist.
func (s *SQLiteStorage) Delete(ctx context.Context, scope, key string) error {
	if err := validateArgs(scope, key); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, sqliteDeleteSQL, scope, key)
	if err != nil {
		return fmt.Errorf("sqlite: failed to delete %q for scope %q: %w", key, scope, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return themeprefs.ErrNotFound
	}
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
