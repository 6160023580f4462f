// Package special implements the shell's dot and backslash commands: schema
// listings, favorite queries, history, and completion refresh. Commands are
// looked up in a Registry keyed by every spelling (name plus aliases) and
// dispatched with a Request carrying the live execution surfaces.
package special

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/leapstack-labs/leaplite/internal/sqlexec"
)

// ArgType selects what a command handler receives from the input line.
type ArgType int32

const (
	// NoQuery commands ignore everything after the command word.
	NoQuery ArgType = iota
	// ParsedQuery commands receive the text after the command word in Request.Arg.
	ParsedQuery
	// RawQuery commands receive the whole input line in Request.Query.
	RawQuery
)

// Verbosity is parsed from a trailing + or - on the command word, as in
// ".schema+ users".
type Verbosity int32

const (
	Normal Verbosity = iota
	Verbose
	Succinct
)

var (
	// ErrCommandNotFound reports that the input line does not name a
	// registered command. The shell falls back to running such lines as SQL.
	ErrCommandNotFound = errors.New("command not found")

	// ErrQuit is returned by the quit commands to end the shell loop.
	ErrQuit = errors.New("quit")
)

// Favorite is a named query saved in the state store.
type Favorite struct {
	Name  string
	Query string
}

// FavoriteStore persists favorite queries. Implemented by the state store.
type FavoriteStore interface {
	ListFavorites(ctx context.Context) ([]Favorite, error)
	// GetFavorite returns the saved query for name, or false when absent.
	GetFavorite(ctx context.Context, name string) (string, bool, error)
	SaveFavorite(ctx context.Context, name, query string) error
	// DeleteFavorite reports whether a favorite existed under name.
	DeleteFavorite(ctx context.Context, name string) (bool, error)
}

// HistoryEntry is one executed input line, oldest first in listings.
type HistoryEntry struct {
	Query      string
	ExecutedAt time.Time
}

// HistoryStore reads back persisted query history.
type HistoryStore interface {
	RecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// Request carries everything a command handler may act on. Favorites and
// History are nil when state persistence is disabled; Refresh is nil when no
// completion refresher is running.
type Request struct {
	Exec      *sqlexec.Executor
	Favorites FavoriteStore
	History   HistoryStore
	Refresh   func()

	// Arg is the text after the command word (ParsedQuery commands only).
	Arg string
	// Query is the full input line (RawQuery commands only).
	Query     string
	Verbosity Verbosity
}

// Handler executes one command. Returned results render exactly like
// statement results.
type Handler func(ctx context.Context, req Request) ([]sqlexec.Result, error)

// Command describes one registered special command.
type Command struct {
	Name        string
	Shortcut    string
	Description string
	Arg         ArgType
	// Hidden commands run but stay out of the help listing.
	Hidden bool
	// CaseSensitive commands must be typed exactly; others match any casing.
	CaseSensitive bool
	// TableArg marks commands whose argument is a table name, so the
	// completer can offer tables after the command word.
	TableArg bool
	// Aliases are registered as hidden spellings of the same command.
	Aliases []string
	Handler Handler
}

type registration struct {
	cmd    *Command
	hidden bool
}

// Registry maps every command spelling to its Command. Case-insensitive
// commands are keyed by their lowercase spelling.
type Registry struct {
	commands map[string]registration
}

// NewRegistry returns a registry with the built-in commands installed. The
// shell adds its own commands (connection and formatting control) on top.
func NewRegistry() *Registry {
	r := &Registry{commands: make(map[string]registration)}
	r.registerBuiltins()
	return r
}

// Register installs cmd under its name and, hidden, under each alias.
// Later registrations win, so the shell can override a built-in.
func (r *Registry) Register(cmd *Command) {
	r.commands[registryKey(cmd.Name, cmd.CaseSensitive)] = registration{cmd: cmd, hidden: cmd.Hidden}
	for _, alias := range cmd.Aliases {
		r.commands[registryKey(alias, cmd.CaseSensitive)] = registration{cmd: cmd, hidden: true}
	}
}

func registryKey(name string, caseSensitive bool) string {
	if caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// Parse splits a special command line into its name, verbosity suffix, and
// argument text. A + on the command word asks for verbose output, a - for
// succinct; both are stripped from the returned name.
func Parse(line string) (name string, verbosity Verbosity, arg string) {
	name, arg, _ = strings.Cut(line, " ")
	verbosity = Normal
	switch {
	case strings.Contains(name, "+"):
		verbosity = Verbose
	case strings.Contains(name, "-"):
		verbosity = Succinct
	}
	return strings.Trim(strings.TrimSpace(name), "+-"), verbosity, strings.TrimSpace(arg)
}

func (r *Registry) lookup(name string) (registration, bool) {
	if reg, ok := r.commands[name]; ok {
		return reg, true
	}
	reg, ok := r.commands[strings.ToLower(name)]
	if !ok || reg.cmd.CaseSensitive {
		return registration{}, false
	}
	return reg, true
}

// Execute parses line, resolves the command, and runs its handler. The
// returned error is ErrCommandNotFound when line names no registered command,
// in which case the caller should treat the line as SQL.
func (r *Registry) Execute(ctx context.Context, req Request, line string) ([]sqlexec.Result, error) {
	name, verbosity, arg := Parse(line)
	reg, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}

	req.Verbosity = verbosity
	switch reg.cmd.Arg {
	case ParsedQuery:
		req.Arg = arg
	case RawQuery:
		req.Query = line
	}
	return reg.cmd.Handler(ctx, req)
}

// Help lists the visible commands sorted by registry key.
func (r *Registry) Help() []sqlexec.Result {
	keys := make([]string, 0, len(r.commands))
	for key := range r.commands {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var rows [][]string
	for _, key := range keys {
		reg := r.commands[key]
		if reg.hidden {
			continue
		}
		rows = append(rows, []string{reg.cmd.Name, reg.cmd.Shortcut, reg.cmd.Description})
	}
	return []sqlexec.Result{{Columns: []string{"Command", "Shortcut", "Description"}, Rows: rows}}
}

// Info describes one registered spelling for the completion engine.
type Info struct {
	Name     string
	TableArg bool
}

// Spellings returns every registered spelling, aliases included, sorted.
func (r *Registry) Spellings() []Info {
	keys := make([]string, 0, len(r.commands))
	for key := range r.commands {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	infos := make([]Info, 0, len(keys))
	for _, key := range keys {
		infos = append(infos, Info{Name: key, TableArg: r.commands[key].cmd.TableArg})
	}
	return infos
}

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "help",
		Shortcut:    `\?`,
		Description: "Show this help.",
		Arg:         NoQuery,
		Aliases:     []string{`\?`, "?", ".help"},
		Handler: func(ctx context.Context, req Request) ([]sqlexec.Result, error) {
			return r.Help(), nil
		},
	})
	r.Register(&Command{
		Name:        ".exit",
		Shortcut:    `\q`,
		Description: "Exit.",
		Arg:         NoQuery,
		Aliases:     []string{`\q`, "exit"},
		Handler:     quitHandler,
	})
	r.Register(&Command{
		Name:        "quit",
		Shortcut:    `\q`,
		Description: "Quit.",
		Arg:         NoQuery,
		Aliases:     []string{".quit"},
		Handler:     quitHandler,
	})
	r.Register(&Command{
		Name:        ".refresh",
		Shortcut:    `\#`,
		Description: "Refresh auto-completions.",
		Arg:         NoQuery,
		Aliases:     []string{`\#`, "rehash"},
		Handler:     refreshCompletions,
	})
	r.Register(&Command{
		Name:        ".history",
		Shortcut:    ".history",
		Description: "Show recent query history.",
		Arg:         NoQuery,
		Handler:     showHistory,
	})
	r.registerDBCommands()
	r.registerIOCommands()
}

func quitHandler(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	return nil, ErrQuit
}

func refreshCompletions(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.Refresh == nil {
		return []sqlexec.Result{{Status: "Auto-completion is disabled."}}, nil
	}
	req.Refresh()
	return []sqlexec.Result{{Status: "Auto-completion refresh started in the background."}}, nil
}

const historyLimit = 50

func showHistory(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.History == nil {
		return []sqlexec.Result{{Status: "History persistence is disabled."}}, nil
	}
	entries, err := req.History.RecentHistory(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.ExecutedAt.Format("2006-01-02 15:04:05"), entry.Query})
	}
	return []sqlexec.Result{{Columns: []string{"Time", "Query"}, Rows: rows}}, nil
}
