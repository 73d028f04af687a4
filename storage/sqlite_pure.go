package storage

import (
	_ "modernc.org/sqlite" // cgo-free SQLite driver, registered as "sqlite"
)

// NewPureSQLiteStorage opens the SQLite database at dbPath with the pure-Go
// modernc.org/sqlite driver. Use it for builds with CGO_ENABLED=0; the schema
// and behaviour match NewSQLiteStorage.
func NewPureSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	return openSQLite("sqlite", dbPath)
}
