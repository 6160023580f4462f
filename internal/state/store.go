// Package state persists shell bookkeeping in a local SQLite database:
// session records, per-statement query history, and favorite queries. The
// store lives in its own database file and never touches the session
// database the user is querying.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	// sqlite driver for the state database.
	_ "modernc.org/sqlite"
)

// Session is one shell run against one database.
type Session struct {
	ID           string
	DatabasePath string
	StartedAt    time.Time
}

// HistoryRecord is one executed input line with its outcome.
type HistoryRecord struct {
	ID         string
	SessionID  string
	Query      string
	ExecutedAt time.Time
	Duration   time.Duration
	Rows       int64
	Error      string
}

// Favorite is a saved query addressable by name.
type Favorite struct {
	Name      string
	Query     string
	CreatedAt time.Time
}

// Store provides access to the state database.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewStore creates a store instance. Call Open before using it.
func NewStore(logger *slog.Logger) *Store {
	return &Store{logger: logger}
}

// Open opens a connection to the state database.
// Use ":memory:" for an in-memory database.
func (s *Store) Open(path string) error {
	dsn := ":memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	if path == ":memory:" {
		// Every in-memory connection is its own database, so the pool
		// must stay on a single connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping state database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the state database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// BeginSession records the start of a shell session against databasePath.
func (s *Store) BeginSession(ctx context.Context, databasePath string) (*Session, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	session := &Session{
		ID:           generateID(),
		DatabasePath: databasePath,
		StartedAt:    time.Now().UTC(),
	}

	s.logger.Debug("beginning session",
		slog.String("id", session.ID),
		slog.String("database", databasePath))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, database_path, started_at) VALUES (?, ?, ?)`,
		session.ID, session.DatabasePath, session.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to begin session: %w", err)
	}

	return session, nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	session := &Session{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, database_path, started_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&session.ID, &session.DatabasePath, &session.StartedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}
