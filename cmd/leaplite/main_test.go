// Package main provides tests for the LeapLite CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaplite/internal/cli"
)

// isolateEnv points the XDG directories at a temp dir so tests never touch
// a real user config, history, or state database.
func isolateEnv(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	if err := os.Setenv("XDG_CONFIG_HOME", tmpDir); err != nil {
		t.Fatalf("failed to set XDG_CONFIG_HOME: %v", err)
	}
	if err := os.Setenv("XDG_DATA_HOME", tmpDir); err != nil {
		t.Fatalf("failed to set XDG_DATA_HOME: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("XDG_CONFIG_HOME")
		_ = os.Unsetenv("XDG_DATA_HOME")
	})
	return tmpDir
}

func TestVersionCommand(t *testing.T) {
	isolateEnv(t)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("version command error = %v", err)
	}

	if output := buf.String(); !strings.Contains(output, "LeapLite") {
		t.Errorf("version output should contain 'LeapLite', got: %s", output)
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("--version error = %v", err)
	}

	if output := buf.String(); !strings.Contains(output, "leaplite") {
		t.Errorf("--version output should contain 'leaplite', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	for _, expected := range []string{"leaplite [database]", "--execute", "--output", "--no-state", "completion"} {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestExecuteFlag(t *testing.T) {
	isolateEnv(t)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"-e", "SELECT 1 AS x;", "--output", "csv", "--no-state"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute flag error = %v", err)
	}

	if got, want := buf.String(), "x\n1\n"; got != want {
		t.Errorf("execute output = %q, want %q", got, want)
	}
}

func TestExecuteAgainstDatabaseFile(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "app.db")

	cmd := cli.NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{dbPath, "-e", "CREATE TABLE t (n INTEGER); INSERT INTO t VALUES (7);", "--no-state"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("initial execute error = %v", err)
	}

	// A second invocation sees the data the first one wrote.
	cmd2 := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd2.SetOut(buf)
	cmd2.SetErr(new(bytes.Buffer))
	cmd2.SetArgs([]string{dbPath, "-e", "SELECT n FROM t;", "--output", "csv", "--no-state"})

	if err := cmd2.Execute(); err != nil {
		t.Fatalf("second execute error = %v", err)
	}

	if got, want := buf.String(), "n\n7\n"; got != want {
		t.Errorf("query output = %q, want %q", got, want)
	}
}

func TestPipedInput(t *testing.T) {
	isolateEnv(t)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader("SELECT 2;"))
	cmd.SetArgs([]string{"--output", "csv", "--no-state"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("piped input error = %v", err)
	}

	if got, want := buf.String(), "2\n2\n"; got != want {
		t.Errorf("piped output = %q, want %q", got, want)
	}
}

func TestStateFileCreated(t *testing.T) {
	tmpDir := isolateEnv(t)

	cmd := cli.NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader("SELECT 1;"))
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute error = %v", err)
	}

	statePath := filepath.Join(tmpDir, "leaplite", "state.db")
	if _, err := os.Stat(statePath); err != nil {
		t.Errorf("state database should exist at %s: %v", statePath, err)
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	isolateEnv(t)

	cmd := cli.NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"-o", "bogus", "-e", "SELECT 1;"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("invalid output format should return an error")
	}
	if !strings.Contains(err.Error(), "invalid output_format") {
		t.Errorf("error should name the invalid setting, got: %v", err)
	}
}

func TestTooManyArguments(t *testing.T) {
	cmd := cli.NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"one.db", "two.db"})

	if err := cmd.Execute(); err == nil {
		t.Error("extra positional arguments should return an error")
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			cmd := cli.NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"completion", shell})

			if err := cmd.Execute(); err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
