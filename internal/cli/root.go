// Package cli provides the command-line interface for LeapLite.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/leaplite/internal/cli/config"
	"github.com/leapstack-labs/leaplite/internal/shell"
	"github.com/leapstack-labs/leaplite/internal/state"
)

var (
	cfgFile     string
	executeFlag string
	cfg         *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leaplite [database]",
		Short: "LeapLite - SQLite shell with autocompletion",
		Long: `LeapLite is an interactive command-line client for SQLite with
context-sensitive autocompletion, multiline editing, pretty output
formats, and persistent query history and favorites.

Run it against a database file to get a shell, pipe SQL on stdin for
scripted use, or pass -e to execute statements and exit.`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// Print config file used (if verbose)
			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
SQLite shell built with Go
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/leaplite/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&executeFlag, "execute", "e", "", "Execute statements and quit")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|csv|json|markdown)")
	rootCmd.PersistentFlags().String("prompt", "", `Prompt format (default "leaplite \d> ")`)
	rootCmd.PersistentFlags().Bool("no-state", false, "Disable query history and favorites persistence")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "csv", "json", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// runShell assembles a shell from the loaded configuration and runs it in
// the mode the invocation asks for: one-shot -e, piped stdin, or the
// interactive loop.
func runShell(cmd *cobra.Command, args []string) error {
	database := cfg.Database
	if len(args) > 0 {
		database = args[0]
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	historyFile := cfg.HistoryFile
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0750); err != nil {
			logger.Warn("failed to create history directory", "path", historyFile, "error", err)
			historyFile = ""
		}
	}

	store := openStore(logger)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	s, err := shell.New(cmd.Context(), shell.Options{
		Database:      database,
		Prompt:        cfg.Prompt,
		OutputFormat:  cfg.OutputFormat,
		KeywordCasing: cfg.KeywordCasing,
		HistoryFile:   historyFile,
		Timing:        cfg.Timing,
		AutoRefresh:   cfg.AutoRefresh,
		Store:         store,
		Version:       Version,
		Logger:        logger,
		Out:           cmd.OutOrStdout(),
		ErrOut:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if executeFlag != "" {
		return s.RunBatch(cmd.Context(), executeFlag)
	}

	if stdin, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(stdin.Fd())) {
		return s.Run(cmd.Context())
	}

	// Piped input: execute everything on stdin and exit.
	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(input)) == "" {
		return nil
	}
	return s.RunBatch(cmd.Context(), string(input))
}

// openStore opens the state database, or returns nil when persistence is
// disabled or unavailable. A broken state store degrades the shell rather
// than stopping it.
func openStore(logger *slog.Logger) *state.Store {
	if cfg.NoState || cfg.StateFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.StateFile), 0750); err != nil {
		logger.Warn("failed to create state directory", "path", cfg.StateFile, "error", err)
		return nil
	}
	store := state.NewStore(logger)
	if err := store.Open(cfg.StateFile); err != nil {
		logger.Warn("failed to open state database", "path", cfg.StateFile, "error", err)
		return nil
	}
	if err := store.Migrate(); err != nil {
		logger.Warn("failed to migrate state database", "error", err)
		_ = store.Close()
		return nil
	}
	return store
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display LeapLite version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "LeapLite v%s\n", Version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Build date: %s, commit: %s\n", BuildDate, GitCommit)
		},
	}
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for LeapLite.

To load completions:

Bash:
  $ source <(leaplite completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ leaplite completion bash > /etc/bash_completion.d/leaplite
  # macOS:
  $ leaplite completion bash > $(brew --prefix)/etc/bash_completion.d/leaplite

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ leaplite completion zsh > "${fpath[1]}/_leaplite"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ leaplite completion fish | source

  # To load completions for each session, execute once:
  $ leaplite completion fish > ~/.config/fish/completions/leaplite.fish

PowerShell:
  PS> leaplite completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> leaplite completion powershell > leaplite.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
