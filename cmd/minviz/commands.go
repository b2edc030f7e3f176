package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/HeatXD/MinViz2024/internal/analysis"
	"github.com/HeatXD/MinViz2024/internal/charts"
	"github.com/HeatXD/MinViz2024/internal/config"
	"github.com/HeatXD/MinViz2024/internal/db"
	"github.com/HeatXD/MinViz2024/internal/ingest"
	"github.com/HeatXD/MinViz2024/internal/logger"
	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/report"
	"github.com/HeatXD/MinViz2024/internal/version"
)

// cliLogLevel keeps one-shot commands quiet unless asked otherwise.
const cliLogLevel = "warn"

// setup loads the configuration for a one-shot command and sends logs to stderr.
func setup(cmd *cobra.Command, opts *options, args []string) (*config.Config, error) {
	cfg, err := loadConfig(opts, args)
	if err != nil {
		return nil, err
	}
	level := cliLogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger.Configure(level, cmd.ErrOrStderr())
	return cfg, nil
}

// analyse reads the results file at path and runs the full analysis over it.
func analyse(path string) (*models.Analysis, error) {
	records, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := analysis.Analyze(path, records)
	if err != nil {
		return nil, fmt.Errorf("failed to analyse %s: %w", path, err)
	}
	return a, nil
}

func newReportCmd(opts *options) *cobra.Command {
	var format string
	var archive bool

	cmd := &cobra.Command{
		Use:   "report [results.csv]",
		Short: "Print the convergence summary and per point count statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := setup(cmd, opts, args)
			if err != nil {
				return err
			}

			a, err := analyse(cfg.ResultsPath)
			if err != nil {
				return err
			}
			if archive {
				if err := archiveRun(cfg, a); err != nil {
					return err
				}
			}
			return report.Write(cmd.OutOrStdout(), a, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "output format: text, yaml or json")
	cmd.Flags().BoolVar(&archive, "archive", false, "also record the analysis in the run archive")
	return cmd
}

func archiveRun(cfg *config.Config, a *models.Analysis) error {
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open run archive: %w", err)
	}
	defer database.Close()

	run := models.NewRun(a)
	if err := database.SaveRun(&run); err != nil {
		return err
	}
	if _, err := database.PruneRuns(cfg.HistoryLimit); err != nil {
		logger.Warn("Failed to prune run archive", "error", err)
	}
	logger.Info("Archived run", "id", run.ID)
	return nil
}

// exportFormats are the encodings the export command writes.
var exportFormats = []string{"png", "yaml", "json"}

func newExportCmd(opts *options) *cobra.Command {
	var dir string
	var format string

	cmd := &cobra.Command{
		Use:   "export [results.csv]",
		Short: "Write the charts as PNG images or the analysis as YAML/JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, opts, args)
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.ChartDir = dir
			}

			a, err := analyse(cfg.ResultsPath)
			if err != nil {
				return err
			}

			paths, err := export(cfg, a, strings.ToLower(format))
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default from CHART_DIR)")
	cmd.Flags().StringVarP(&format, "format", "f", "png", "export format: "+strings.Join(exportFormats, ", "))
	return cmd
}

// export writes a to cfg.ChartDir and returns the files written.
func export(cfg *config.Config, a *models.Analysis, format string) ([]string, error) {
	if format == "png" {
		return charts.ExportPNG(cfg.ChartDir, charts.Views(a.Results), cfg.ChartWidth, cfg.ChartHeight)
	}

	f, err := report.ParseFormat(format)
	if err != nil || f == report.FormatText {
		return nil, fmt.Errorf("unsupported export format %q (want %s)", format, strings.Join(exportFormats, ", "))
	}

	if err := os.MkdirAll(cfg.ChartDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(cfg.ChartDir, "analysis."+string(f))
	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := report.Write(out, a, f); err != nil {
		out.Close()
		return nil, err
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return []string{path}, nil
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArchive(cmd, opts, func(_ *config.Config, database *db.DB) error {
				runs, err := database.ListRuns(limit)
				if err != nil {
					return err
				}
				return report.WriteRuns(cmd.OutOrStdout(), runs)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")

	cmd.AddCommand(newHistoryShowCmd(opts), newHistoryDeleteCmd(opts), newHistoryPruneCmd(opts))
	return cmd
}

func newHistoryShowCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <run-id|latest>",
		Short: "Print an archived run",
		Long:  "Print an archived run. \"latest\" selects the newest run of the configured results file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			return withArchive(cmd, opts, func(cfg *config.Config, database *db.DB) error {
				run, err := lookupRun(database, cfg, args[0])
				if err != nil {
					return err
				}
				a, err := analysisFromRun(run)
				if err != nil {
					return err
				}
				return report.Write(cmd.OutOrStdout(), a, f)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "output format: text, yaml or json")
	return cmd
}

func newHistoryDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <run-id>",
		Aliases: []string{"delete"},
		Short:   "Delete an archived run",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run id %q: %w", args[0], err)
			}
			return withArchive(cmd, opts, func(_ *config.Config, database *db.DB) error {
				if err := database.DeleteRun(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", id)
				return nil
			})
		},
	}
}

func newHistoryPruneCmd(opts *options) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop all but the newest archived runs and compact the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArchive(cmd, opts, func(cfg *config.Config, database *db.DB) error {
				if keep <= 0 {
					keep = cfg.HistoryLimit
				}
				pruned, err := database.PruneRuns(keep)
				if err != nil {
					return err
				}
				if err := database.Vacuum(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d runs from %s\n", pruned, database.Path())
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&keep, "keep", "k", 0, "runs to keep (default from HISTORY_LIMIT)")
	return cmd
}

// lookupRun resolves a run id or "latest".
func lookupRun(database *db.DB, cfg *config.Config, ref string) (*models.Run, error) {
	if ref == "latest" {
		return database.LatestRun(cfg.ResultsPath)
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", ref, err)
	}
	return database.GetRun(id)
}

// withArchive opens the run archive for the duration of fn.
func withArchive(cmd *cobra.Command, opts *options, fn func(*config.Config, *db.DB) error) error {
	cfg, err := setup(cmd, opts, nil)
	if err != nil {
		return err
	}
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open run archive: %w", err)
	}
	defer database.Close()
	return fn(cfg, database)
}

// analysisFromRun rebuilds the per point count breakdown of an archived run.
func analysisFromRun(run *models.Run) (*models.Analysis, error) {
	a := &models.Analysis{
		CreatedAt:    run.CreatedAt,
		Source:       run.Source,
		Records:      run.Records,
		Results:      run.Results,
		Summary:      run.Summary,
		ByPointCount: map[int]models.PointCountStats{},
	}
	if !run.HasResults() {
		return a, nil
	}
	byPC, err := analysis.AggregateByPointCount(run.Results)
	if err != nil {
		return nil, err
	}
	a.ByPointCount = byPC
	return a, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
