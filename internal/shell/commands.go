package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leaplite/internal/special"
	"github.com/leapstack-labs/leaplite/internal/sqlexec"
)

// tableFormats lists the output modes .mode accepts, in display order.
var tableFormats = []string{"table", "csv", "json", "markdown"}

// registerShellCommands installs the commands that need shell state: the
// connection, the output mode, the prompt, and the dispatch loop itself.
func (s *Shell) registerShellCommands() {
	s.registry.Register(&special.Command{
		Name:        ".open",
		Shortcut:    ".open",
		Description: "Change to a new database.",
		Arg:         special.ParsedQuery,
		Aliases:     []string{"use", `\u`},
		Handler: func(ctx context.Context, req special.Request) ([]sqlexec.Result, error) {
			return s.changeDatabase(req.Arg)
		},
	})

	s.registry.Register(&special.Command{
		Name:          ".mode",
		Shortcut:      `\T`,
		Description:   "Change the table format used to output results.",
		Arg:           special.ParsedQuery,
		CaseSensitive: true,
		Aliases:       []string{"tableformat", `\T`},
		Handler: func(ctx context.Context, req special.Request) ([]sqlexec.Result, error) {
			return s.changeFormat(req.Arg), nil
		},
	})

	s.registry.Register(&special.Command{
		Name:          ".read",
		Shortcut:      `\. filename`,
		Description:   "Execute commands from file.",
		Arg:           special.ParsedQuery,
		CaseSensitive: true,
		Aliases:       []string{`\.`, "source"},
		Handler: func(ctx context.Context, req special.Request) ([]sqlexec.Result, error) {
			return s.executeFromFile(ctx, req.Arg)
		},
	})

	s.registry.Register(&special.Command{
		Name:          "prompt",
		Shortcut:      `\R`,
		Description:   "Change prompt format.",
		Arg:           special.ParsedQuery,
		CaseSensitive: true,
		Aliases:       []string{`\R`},
		Handler: func(ctx context.Context, req special.Request) ([]sqlexec.Result, error) {
			return s.changePrompt(req.Arg), nil
		},
	})

	s.registry.Register(&special.Command{
		Name:          ".status",
		Shortcut:      `\s`,
		Description:   "Show current settings.",
		Arg:           special.RawQuery,
		CaseSensitive: true,
		Aliases:       []string{`\s`},
		Handler: func(ctx context.Context, req special.Request) ([]sqlexec.Result, error) {
			return s.showStatus(ctx)
		},
	})

	s.registry.Register(&special.Command{
		Name:        ".timing",
		Shortcut:    ".timing [on|off]",
		Description: "Turn per-statement timing on or off.",
		Arg:         special.ParsedQuery,
		Handler: func(ctx context.Context, req special.Request) ([]sqlexec.Result, error) {
			return s.toggleTiming(req.Arg), nil
		},
	})

	s.registry.Register(&special.Command{
		Name:   ":q",
		Hidden: true,
		Arg:    special.NoQuery,
		Handler: func(ctx context.Context, req special.Request) ([]sqlexec.Result, error) {
			return nil, special.ErrQuit
		},
	})
}

// changeDatabase reconnects to path; empty reconnects to the current
// database. The completion refresher restarts against the new connection.
func (s *Shell) changeDatabase(path string) ([]sqlexec.Result, error) {
	if err := s.reopen(path); err != nil {
		return nil, err
	}
	db := s.exec.Path()
	if db == "" {
		db = ":memory:"
	}
	status := fmt.Sprintf("You are now connected to database \"%s\"", db)
	return []sqlexec.Result{{Status: status}}, nil
}

func (s *Shell) reopen(path string) error {
	if path == "" {
		path = s.exec.Path()
	}
	newExec, err := sqlexec.Open(path, s.log)
	if err != nil {
		return err
	}

	if s.stopRefresh != nil {
		s.stopRefresh()
		s.stopRefresh = nil
		s.refresher = nil
	}
	_ = s.exec.Close()
	s.exec = newExec
	s.startRefresher()
	return nil
}

func (s *Shell) changeFormat(arg string) []sqlexec.Result {
	for _, format := range tableFormats {
		if arg == format {
			s.format = arg
			return []sqlexec.Result{{Status: "Changed table format to " + arg}}
		}
	}

	msg := fmt.Sprintf("Table format %s not recognized. Allowed formats:", arg)
	for _, format := range tableFormats {
		msg += "\n\t" + format
	}
	return []sqlexec.Result{{Status: msg}}
}

func (s *Shell) changePrompt(arg string) []sqlexec.Result {
	if arg == "" {
		return []sqlexec.Result{{Status: "Missing required argument, format."}}
	}
	s.prompt = arg
	return []sqlexec.Result{{Status: "Changed prompt format to " + arg}}
}

func (s *Shell) executeFromFile(ctx context.Context, arg string) ([]sqlexec.Result, error) {
	if arg == "" {
		return []sqlexec.Result{{Status: "Missing required argument, filename."}}, nil
	}
	data, err := os.ReadFile(expandUser(arg))
	if err != nil {
		return []sqlexec.Result{{Status: err.Error()}}, nil
	}
	return s.exec.Run(ctx, string(data))
}

func (s *Shell) showStatus(ctx context.Context) ([]sqlexec.Result, error) {
	db := s.exec.Path()
	if db == "" {
		db = ":memory:"
	}
	sqliteVersion := "unknown"
	if res, err := s.exec.Query(ctx, "SELECT sqlite_version()"); err == nil && len(res.Rows) > 0 {
		sqliteVersion = res.Rows[0][0]
	}

	lines := []string{
		"--------------",
		fmt.Sprintf("leaplite %s, running on SQLite %s", s.opts.Version, sqliteVersion),
		"Current database: " + db,
		"Output format: " + s.format,
		"Keyword casing: " + s.opts.KeywordCasing,
		"Timing: " + onOff(s.timing),
		"--------------",
	}
	return []sqlexec.Result{{Status: strings.Join(lines, "\n")}}, nil
}

func (s *Shell) toggleTiming(arg string) []sqlexec.Result {
	switch strings.ToLower(arg) {
	case "":
		s.timing = !s.timing
	case "on":
		s.timing = true
	case "off":
		s.timing = false
	default:
		return []sqlexec.Result{{Status: "Usage: .timing on|off"}}
	}
	return []sqlexec.Result{{Status: "Timing is " + onOff(s.timing) + "."}}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
