package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lectern-app/lectern/internal/app"
	"github.com/lectern-app/lectern/internal/check"
	"github.com/lectern-app/lectern/internal/config"
	"github.com/lectern-app/lectern/internal/librarian"
	"github.com/lectern-app/lectern/internal/logging"
)

// Global flags
var (
	configPath string
	server     string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	var (
		prefsPath string
		refresh   time.Duration
	)
	root := &cobra.Command{
		Use:   "lectern",
		Short: "Terminal client for a Librarian content server",
		Long: `lectern browses the content list of a Librarian server, follows the
receiver status and downloads, and edits the receiver settings.

Without a subcommand it starts the interactive terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: configPath,
				PrefsPath:  prefsPath,
				Server:     server,
				Refresh:    refresh,
			})
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file path (default ~/.config/lectern/config.toml)")
	root.PersistentFlags().StringVarP(&server, "server", "s", "", "Librarian server address (overrides config)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Console log level for headless commands (overrides config)")
	root.Flags().StringVar(&prefsPath, "prefs", "", "Preferences file path (default ~/.config/lectern/prefs.toml)")
	root.Flags().DurationVar(&refresh, "refresh", 0, "UI refresh interval (default 1s)")

	root.AddCommand(newCheckCmd(), newPagesCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var (
		silent  bool
		asJSON  bool
		workers int
		cycles  int
	)
	cmd := &cobra.Command{
		Use:   "check <url>...",
		Short: "Load-test pages and report response times",
		Long: `Load each URL with N parallel workers for N cycles, print one status line
per request and finish with a summary: transactions, availability, elapsed
time, average/slowest/fastest response and the transaction rate.

Relative URLs are resolved against the configured server.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := headless()
			if err != nil {
				return err
			}
			logger := logging.NewConsole(os.Stderr, levelOr(cfg.LogLevel))

			report, err := check.Run(cmd.Context(), check.Options{
				Client:  client,
				Targets: args,
				Workers: workers,
				Cycles:  cycles,
				Silent:  silent,
				JSON:    asJSON,
				Out:     cmd.OutOrStdout(),
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			_, err = report.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().BoolVar(&silent, "silent", false, "Suppress per-request status lines")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON line per request")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Parallel loads per URL and cycle")
	cmd.Flags().IntVarP(&cycles, "cycles", "n", 1, "Number of cycles")
	return cmd
}

func newPagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages [path]",
		Short: "Print every page of a content list",
		Long: `Fetch the content list at path (default: the configured content path) and
follow it page by page to the end, printing each entry. Pages that fail or
come back empty are reported and skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := headless()
			if err != nil {
				return err
			}
			path := cfg.ContentPath
			if len(args) == 1 {
				path = args[0]
			}
			return app.Dump(cmd.Context(), app.DumpOptions{
				Client: client,
				Path:   path,
				Out:    cmd.OutOrStdout(),
				Logger: logging.NewConsole(os.Stderr, levelOr(cfg.LogLevel)),
			})
		},
	}
}

// headless loads the config and builds a client for the non-interactive
// commands.
func headless() (config.Config, *librarian.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	if server != "" {
		cfg.Server = server
	}
	client, err := librarian.NewClient(cfg.Server)
	if err != nil {
		return cfg, nil, fmt.Errorf("init librarian client: %w", err)
	}
	return cfg, client, nil
}

func levelOr(configured string) string {
	if logLevel != "" {
		return logLevel
	}
	return configured
}
