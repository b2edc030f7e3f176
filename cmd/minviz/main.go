// Package main is the entry point for MinViz. Without a subcommand it runs
// the convergence dashboard; the subcommands print or export the same
// analysis without a terminal UI.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/HeatXD/MinViz2024/internal/app"
	"github.com/HeatXD/MinViz2024/internal/config"
	"github.com/HeatXD/MinViz2024/internal/logger"
	"github.com/HeatXD/MinViz2024/internal/services"
	"github.com/HeatXD/MinViz2024/internal/ui/tabs/charts"
	"github.com/HeatXD/MinViz2024/internal/ui/tabs/history"
	"github.com/HeatXD/MinViz2024/internal/ui/tabs/info"
	"github.com/HeatXD/MinViz2024/internal/ui/tabs/summary"
	"github.com/HeatXD/MinViz2024/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options are the flags shared by every command.
type options struct {
	databasePath string
	logLevel     string
	noWatch      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "minviz [results.csv]",
		Short: "Analyse ACO vs NNH convergence benchmarks",
		Long: `MinViz reads benchmark results comparing the Nearest Neighbour Heuristic (NNH)
with Ant Colony Optimisation (ACO) and shows how quickly ACO overtakes NNH.

Without a subcommand it opens the interactive dashboard and reloads whenever
the results file changes.`,
		Version:       version.GetVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, args)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	root.PersistentFlags().StringVar(&opts.databasePath, "db", "", "run archive database path (default from DATABASE_PATH)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload when the results file changes")

	root.AddCommand(
		newReportCmd(opts),
		newExportCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(opts *options, args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(args) > 0 {
		cfg.ResultsPath = args[0]
	}
	if opts.databasePath != "" {
		cfg.DatabasePath = opts.databasePath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.noWatch {
		cfg.WatchResults = false
	}
	return cfg, cfg.Validate()
}

// runTUI runs the dashboard until the user quits.
func runTUI(cfg *config.Config) error {
	// The terminal belongs to the TUI, so logs go to a file.
	logFile, err := openLog(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger.Configure(cfg.LogLevel, logFile)
	logger.Info("Starting dashboard", "version", version.GetVersion(), "results", cfg.ResultsPath)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)
	state := model.GetState()
	model.SetTabs([]app.Tab{
		summary.New(state),
		charts.New(state),
		history.New(state, svcManager),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
