package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// InMemory is the path for a process-lifetime database. The directory is
// mock data; nothing in this application persists across runs.
const InMemory = ":memory:"

// DB wraps the SQLite connection holding the user directory.
type DB struct {
	*sql.DB
}

// Open creates a new SQLite connection. The connection pool is capped at one
// connection: an in-memory database exists per connection, so a second
// connection would see an empty schema.
func Open(path string) (*DB, error) {
	dsn := path
	if path != InMemory {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	// Verify connection.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &DB{db}, nil
}
