// Package shell implements the interactive leaplite shell: the readline
// loop, multiline statement buffering, dispatch between special commands
// and SQL, and result rendering.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/leapstack-labs/leaplite/internal/special"
	"github.com/leapstack-labs/leaplite/internal/sqlexec"
	"github.com/leapstack-labs/leaplite/internal/state"
	"github.com/leapstack-labs/leaplite/pkg/completion"
)

// Options configures a Shell.
type Options struct {
	// Database is the SQLite file to open; empty opens an in-memory database.
	Database string
	// Prompt is the prompt template; see expandPrompt for its tokens.
	Prompt        string
	OutputFormat  string
	KeywordCasing string
	HistoryFile   string
	Timing        bool
	// AutoRefresh runs the background snapshot refresher during Run.
	AutoRefresh bool
	// Store persists history and favorites; nil disables persistence.
	Store   *state.Store
	Version string
	Logger  *slog.Logger

	// Out and ErrOut default to os.Stdout and os.Stderr.
	Out    io.Writer
	ErrOut io.Writer
}

// Shell owns one session: the database connection, the special command
// registry, the completion machinery, and the input loop.
type Shell struct {
	opts Options
	log  *slog.Logger

	exec     *sqlexec.Executor
	registry *special.Registry
	engine   *completion.Engine

	refresher   *sqlexec.Refresher
	stopRefresh context.CancelFunc

	store     *state.Store
	sessionID string

	out    io.Writer
	errOut io.Writer

	// baseCtx is the context Run or RunBatch was entered with. Commands
	// that start background work must not inherit a per-statement context.
	baseCtx context.Context

	format string
	timing bool
	prompt string
}

// New opens the session database and assembles a shell around it.
func New(ctx context.Context, opts Options) (*Shell, error) {
	log := opts.Logger
	if log == nil {
		// slog.DiscardHandler equivalent for pre-1.24 toolchains.
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	exec, err := sqlexec.Open(opts.Database, log)
	if err != nil {
		return nil, err
	}

	s := &Shell{
		opts:     opts,
		log:      log,
		exec:     exec,
		registry: special.NewRegistry(),
		engine:   completion.NewEngine(),
		store:    opts.Store,
		out:      opts.Out,
		errOut:   opts.ErrOut,
		baseCtx:  ctx,
		format:   opts.OutputFormat,
		timing:   opts.Timing,
		prompt:   opts.Prompt,
	}
	s.registerShellCommands()
	s.registerCompletionVocabulary()

	if s.store != nil {
		session, err := s.store.BeginSession(ctx, opts.Database)
		if err != nil {
			_ = exec.Close()
			return nil, fmt.Errorf("failed to begin session: %w", err)
		}
		s.sessionID = session.ID
	}

	return s, nil
}

// Close releases the shell's database connection and stops background work.
func (s *Shell) Close() error {
	if s.stopRefresh != nil {
		s.stopRefresh()
		s.stopRefresh = nil
	}
	return s.exec.Close()
}

// Executor exposes the current connection, which .open may have swapped
// since New.
func (s *Shell) Executor() *sqlexec.Executor {
	return s.exec
}

// Run starts the interactive loop and blocks until the user quits.
func (s *Shell) Run(ctx context.Context) error {
	s.baseCtx = ctx
	s.startRefresher()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            s.promptString(),
		HistoryFile:       s.opts.HistoryFile,
		AutoComplete:      newCompleter(s.engine, s.snapshotSource(), s.opts.KeywordCasing),
		InterruptPrompt:   "^C",
		EOFPrompt:         ".quit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s.banner(ctx)

	var buf lineBuffer
	for {
		if buf.pending() {
			rl.SetPrompt(continuationPrompt(s.promptString()))
		} else {
			rl.SetPrompt(s.promptString())
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		input, ready := buf.push(line)
		if !ready {
			continue
		}

		quit, _ := s.runUnit(ctx, input, true)
		if quit {
			break
		}
	}
	return nil
}

// RunBatch executes input without an interactive loop. Status lines are
// suppressed so piped output stays parseable, and execution stops at the
// first error.
func (s *Shell) RunBatch(ctx context.Context, input string) error {
	s.baseCtx = ctx

	var buf lineBuffer
	for _, line := range strings.Split(input, "\n") {
		unit, ready := buf.push(line)
		if !ready {
			continue
		}
		quit, err := s.runUnit(ctx, unit, false)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}

	if rest := strings.TrimSpace(buf.flush()); rest != "" {
		if _, err := s.runUnit(ctx, rest, false); err != nil {
			return err
		}
	}
	return nil
}

// runUnit dispatches one input unit: special command first, SQL on
// fall-through. The bool reports that the shell should exit. In interactive
// mode errors are printed, not returned.
func (s *Shell) runUnit(ctx context.Context, input string, interactive bool) (bool, error) {
	runCtx := ctx
	if interactive {
		var stop func()
		runCtx, stop = withInterrupt(ctx)
		defer stop()
	}

	// Commands are matched without a statement terminator, so ".tables;"
	// and "help;" behave like their bare spellings.
	cmdLine := strings.TrimRight(strings.TrimSpace(input), "; \t")
	results, err := s.registry.Execute(runCtx, s.request(), cmdLine)
	if errors.Is(err, special.ErrQuit) {
		return true, nil
	}
	if errors.Is(err, special.ErrCommandNotFound) {
		return false, s.runSQL(runCtx, input, interactive)
	}

	// Render before checking the error; a failing command may still have
	// produced results.
	s.render(results, interactive)
	if err != nil {
		if interactive {
			s.printError(err)
			return false, nil
		}
		return false, err
	}
	return false, nil
}

func (s *Shell) runSQL(ctx context.Context, input string, interactive bool) error {
	start := time.Now()
	results, err := s.exec.Run(ctx, input)
	duration := time.Since(start)

	s.render(results, interactive)
	if interactive {
		s.recordHistory(input, duration, results, err)
	}

	if err != nil {
		if interactive {
			s.printError(err)
			return nil
		}
		return err
	}

	if s.refresher != nil && sqlexec.NeedsRefresh(input) {
		s.refresher.Request()
	}
	return nil
}

func (s *Shell) render(results []sqlexec.Result, interactive bool) {
	for i, res := range results {
		if interactive && i > 0 {
			_, _ = fmt.Fprintln(s.out)
		}
		var err error
		if interactive {
			err = Render(s.out, res, s.format, s.timing)
		} else {
			err = RenderData(s.out, res, s.format)
		}
		if err != nil {
			s.printError(err)
		}
	}
}

func (s *Shell) printError(err error) {
	_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
}

// request assembles the dependencies handlers may act on.
func (s *Shell) request() special.Request {
	req := special.Request{Exec: s.exec}
	if s.store != nil {
		req.Favorites = stateFavorites{store: s.store}
		req.History = stateHistory{store: s.store}
	}
	if s.refresher != nil {
		req.Refresh = s.refresher.Request
	}
	return req
}

func (s *Shell) recordHistory(query string, duration time.Duration, results []sqlexec.Result, execErr error) {
	if s.store == nil {
		return
	}
	var rows int64
	for _, res := range results {
		rows += int64(len(res.Rows))
	}
	// Recording outlives statement cancellation.
	if err := s.store.RecordQuery(context.Background(), s.sessionID, query, duration, rows, execErr); err != nil {
		s.log.Warn("failed to record history", "error", err)
	}
}

func (s *Shell) promptString() string {
	return expandPrompt(s.prompt, s.exec.Path(), time.Now())
}

func (s *Shell) banner(ctx context.Context) {
	sqliteVersion := "unknown"
	if res, err := s.exec.Query(ctx, "SELECT sqlite_version()"); err == nil && len(res.Rows) > 0 {
		sqliteVersion = res.Rows[0][0]
	}
	_, _ = fmt.Fprintf(s.out, "LeapLite %s (SQLite %s)\n", s.opts.Version, sqliteVersion)
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)
}

// startRefresher launches the snapshot worker for the current executor.
func (s *Shell) startRefresher() {
	if !s.opts.AutoRefresh {
		return
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.stopRefresh = cancel
	s.refresher = sqlexec.NewRefresher(s.exec, s.log)
	s.refresher.Start(ctx)
}

// snapshotSource defers the refresher lookup so .open swapping the
// refresher is picked up by the completer.
func (s *Shell) snapshotSource() metadataSource {
	return snapshotFunc(func() *completion.Snapshot {
		if s.refresher == nil {
			return nil
		}
		return s.refresher.Snapshot()
	})
}

type snapshotFunc func() *completion.Snapshot

func (f snapshotFunc) Snapshot() *completion.Snapshot { return f() }

// registerCompletionVocabulary teaches the engine every registered command
// spelling so completion works at the start of a line.
func (s *Shell) registerCompletionVocabulary() {
	infos := s.registry.Spellings()
	entries := make([]completion.SpecialEntry, 0, len(infos))
	for _, info := range infos {
		arg := completion.ArgNone
		if info.TableArg {
			arg = completion.ArgTable
		}
		entries = append(entries, completion.SpecialEntry{Name: info.Name, Arg: arg})
	}
	s.engine.RegisterSpecials(entries)
}

// withInterrupt derives a context cancelled by SIGINT, so Ctrl-C aborts the
// running statement instead of the shell.
func withInterrupt(ctx context.Context) (context.Context, func()) {
	runCtx, cancel := context.WithCancel(ctx)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-runCtx.Done():
		}
	}()
	return runCtx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// stateFavorites adapts the state store to the favorite-store interface.
type stateFavorites struct {
	store *state.Store
}

func (f stateFavorites) ListFavorites(ctx context.Context) ([]special.Favorite, error) {
	records, err := f.store.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]special.Favorite, len(records))
	for i, r := range records {
		out[i] = special.Favorite{Name: r.Name, Query: r.Query}
	}
	return out, nil
}

func (f stateFavorites) GetFavorite(ctx context.Context, name string) (string, bool, error) {
	return f.store.GetFavorite(ctx, name)
}

func (f stateFavorites) SaveFavorite(ctx context.Context, name, query string) error {
	return f.store.SaveFavorite(ctx, name, query)
}

func (f stateFavorites) DeleteFavorite(ctx context.Context, name string) (bool, error) {
	return f.store.DeleteFavorite(ctx, name)
}

// stateHistory adapts the state store to the history reader interface.
type stateHistory struct {
	store *state.Store
}

func (h stateHistory) RecentHistory(ctx context.Context, limit int) ([]special.HistoryEntry, error) {
	records, err := h.store.RecentHistory(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]special.HistoryEntry, len(records))
	for i, r := range records {
		out[i] = special.HistoryEntry{Query: r.Query, ExecutedAt: r.ExecutedAt}
	}
	return out, nil
}
