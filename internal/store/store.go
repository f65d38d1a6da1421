package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// JournalFormat is stamped into the database's user_version. It changes
// when the schema or the event payload encoding changes in a way older
// readers cannot follow.
const JournalFormat = 1

// ErrUnsupportedFormat is returned by Open for a journal stamped with a
// newer format than JournalFormat.
var ErrUnsupportedFormat = errors.New("unsupported journal format")

// Store is the session journal. It holds a single connection, so all reads
// and writes are serialised.
type Store struct {
	db *sql.DB
}

// Open opens the journal at path and creates it if it does not exist. Use
// ":memory:" for a throwaway journal.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	// SQLite has one writer, and an in-memory journal lives only as long as
	// its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := prepare(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// dsn passes the connection settings to the driver, so every connection it
// opens gets them.
func dsn(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_foreign_keys", "on")
	return path + "?" + params.Encode()
}

// prepare creates the tables of a new journal and stamps its format. An
// existing journal keeps its data; one from a newer format is refused
// before anything is written to it.
func prepare(db *sql.DB) error {
	var format int
	if err := db.QueryRow("PRAGMA user_version").Scan(&format); err != nil {
		return fmt.Errorf("read journal format: %w", err)
	}
	if format > JournalFormat {
		return fmt.Errorf("%w: %d, want at most %d", ErrUnsupportedFormat, format, JournalFormat)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if format == JournalFormat {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", JournalFormat)); err != nil {
		return fmt.Errorf("stamp journal format: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the connection for ad-hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}
