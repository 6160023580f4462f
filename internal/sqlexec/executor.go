// Package sqlexec runs SQL against the session database and keeps the
// completion engine's schema snapshot current. The Executor handles
// statement execution; the Refresher rebuilds snapshots off the hot path.
package sqlexec

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/leaplite/pkg/parser"
	"github.com/leapstack-labs/leaplite/pkg/token"

	// sqlite driver for the session database.
	_ "modernc.org/sqlite"
)

// Result is one renderable block: an optional title, a result set, and a
// status line. Special commands and SQL statements both produce Results so
// the shell renders them uniformly.
type Result struct {
	Title    string
	Columns  []string
	Rows     [][]string
	Status   string
	Duration time.Duration
}

// HasRows reports whether the result carries a result set (as opposed to a
// bare status like "Query OK").
func (r Result) HasRows() bool {
	return len(r.Columns) > 0
}

// Executor owns the connection to the session database.
type Executor struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open connects to the SQLite database at path, creating the file if needed.
// An empty path or ":memory:" opens an in-memory database. The parent
// directory must exist; SQLite creates files but not directories.
func Open(path string, log *slog.Logger) (*Executor, error) {
	memory := path == "" || path == ":memory:"
	dsn := ":memory:"
	if !memory {
		expanded, err := expandPath(path)
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(expanded)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", dir)
		}
		path = expanded
		dsn = expanded + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		// Every in-memory connection is its own database, so the pool
		// must stay on a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Executor{db: db, path: path, log: log}, nil
}

// NewWithDB wraps an already-open connection. Useful for testing or when
// the connection comes from elsewhere; Close still closes it.
func NewWithDB(db *sql.DB, log *slog.Logger) *Executor {
	return &Executor{db: db, log: log}
}

// Path returns the database file path, or "" for an in-memory database.
func (e *Executor) Path() string {
	if e.path == ":memory:" {
		return ""
	}
	return e.path
}

// DB exposes the underlying connection pool.
func (e *Executor) DB() *sql.DB { return e.db }

// Close closes the database connection.
func (e *Executor) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// Run splits input into statements and executes them in order, one Result
// per statement. Execution stops at the first failing statement; the Results
// of the statements that already ran are returned alongside the error.
func (e *Executor) Run(ctx context.Context, input string) ([]Result, error) {
	var results []Result
	for _, stmt := range parser.SplitText(input) {
		res, err := e.RunStatement(ctx, stmt)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunStatement executes one statement, choosing the query or exec path by
// its leading keyword. Optional args bind to ? placeholders.
func (e *Executor) RunStatement(ctx context.Context, stmt string, args ...any) (Result, error) {
	e.log.Debug("executing statement", "sql", stmt)
	start := time.Now()

	if returnsRows(stmt) {
		res, err := e.Query(ctx, stmt, args...)
		if err != nil {
			return Result{}, err
		}
		res.Duration = time.Since(start)
		return res, nil
	}

	res, err := e.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Result{}, err
	}
	status := "Query OK"
	if affected, err := res.RowsAffected(); err == nil {
		status = fmt.Sprintf("Query OK, %d row%s affected", affected, plural(affected))
	}
	return Result{Status: status, Duration: time.Since(start)}, nil
}

// Query runs a statement expected to produce rows and collects the full
// result set. Values are stringified once here so rendering never touches
// driver types.
func (e *Executor) Query(ctx context.Context, query string, args ...any) (Result, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = rows.Close() }()
	return collectRows(rows)
}

func collectRows(rows *sql.Rows) (Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}

	var collected [][]string
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return Result{}, err
		}
		row := make([]string, len(cols))
		for i, val := range values {
			row[i] = formatValue(val)
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}

	count := int64(len(collected))
	return Result{
		Columns: cols,
		Rows:    collected,
		Status:  fmt.Sprintf("%d row%s in set", count, plural(count)),
	}, nil
}

// returnsRows decides Query versus Exec by the statement's leading keyword.
// RETURNING clauses flip DML statements over to the query path.
func returnsRows(stmt string) bool {
	sig := significantTokens(stmt)
	if len(sig) == 0 {
		return false
	}
	switch sig[0].Keyword() {
	case "SELECT", "VALUES", "WITH", "PRAGMA", "EXPLAIN":
		return true
	}
	for _, t := range sig[1:] {
		if t.Keyword() == "RETURNING" {
			return true
		}
	}
	return false
}

// refreshKeywords are the statement heads that change what completion should
// offer when they succeed.
var refreshKeywords = map[string]struct{}{
	"CREATE": {}, "ALTER": {}, "DROP": {}, "ATTACH": {}, "DETACH": {},
}

// NeedsRefresh reports whether input contains a statement that modifies the
// schema. Callers trigger a snapshot refresh only after such input executes
// without error; a failed or cancelled DDL statement changes nothing.
func NeedsRefresh(input string) bool {
	for _, stmt := range parser.SplitText(input) {
		sig := significantTokens(stmt)
		if len(sig) == 0 {
			continue
		}
		if _, ok := refreshKeywords[sig[0].Keyword()]; ok {
			return true
		}
	}
	return false
}

func significantTokens(stmt string) []token.Token {
	var sig []token.Token
	for _, t := range parser.Tokenize(stmt) {
		if t.Significant() {
			sig = append(sig, t)
		}
	}
	return sig
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

func plural(n int64) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
