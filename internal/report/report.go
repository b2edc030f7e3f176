// Package report renders analysis results as text, YAML and JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/HeatXD/MinViz2024/internal/models"
)

// NotAvailable is printed in place of an absent optional value.
const NotAvailable = "n/a"

// Format selects an export encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat converts a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text, yaml or json)", s)
	}
}

// Write renders a in the given format.
func Write(w io.Writer, a *models.Analysis, f Format) error {
	switch f {
	case FormatText:
		return WriteSummary(w, a)
	case FormatYAML:
		return WriteYAML(w, a)
	case FormatJSON:
		return WriteJSON(w, a)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// Optional formats p with two decimals followed by suffix, or NotAvailable.
func Optional(p *float64, suffix string) string {
	if p == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*p, 'f', 2, 64) + suffix
}

// WriteSummary prints the headline statistics followed by the per point
// count breakdown.
func WriteSummary(w io.Writer, a *models.Analysis) error {
	s := a.Summary
	ew := &errWriter{w: w}

	ew.printf("\n=== ACO vs NNH Convergence Analysis ===\n")
	if a.Source != "" {
		ew.printf("\nSource: %s (%d records)\n", a.Source, a.Records)
	}
	ew.printf("\nTotal problem configurations analyzed: %d\n", s.Total)
	ew.printf("Configurations where ACO beats NNH: %d\n", s.Wins)
	ew.printf("Overall success rate: %.2f%%\n", s.SuccessRatePct)
	if sk := a.Skipped; sk.MissingBaseline+sk.MissingOptimizerRuns > 0 {
		ew.printf("Skipped instances: %d without NNH runs, %d without ACO runs\n",
			sk.MissingBaseline, sk.MissingOptimizerRuns)
	}

	ew.printf("\nWhen ACO beats NNH:\n")
	ew.printf("- Average iterations until better solution: %s\n", Optional(s.MeanIteration, ""))
	ew.printf("- Median iterations until better solution: %s\n", Optional(s.MedianIteration, ""))
	ew.printf("- Average time until better solution: %s\n", Optional(s.MeanTimeMs, " ms"))
	ew.printf("- Median time until better solution: %s\n", Optional(s.MedianTimeMs, " ms"))
	ew.printf("- Average improvement over NNH: %s\n", Optional(s.MeanImprovementPct, "%"))

	ew.printf("\n=== Statistics by Point Count ===\n")
	ew.printf("%s\n", PointCountTable(a).String())

	return ew.err
}

// PointCountHeaders are the column titles of the per point count table.
var PointCountHeaders = []string{
	"Points", "Runs", "Wins", "Success %",
	"Iter mean", "Iter median", "Iter std",
	"Time mean", "Time median", "Time std",
	"Impr mean", "Impr std",
}

// PointCountRows returns one table row per point count, ascending.
func PointCountRows(a *models.Analysis) [][]string {
	counts := a.SortedPointCounts()
	rows := make([][]string, 0, len(counts))
	for _, pc := range counts {
		st := a.ByPointCount[pc]
		rows = append(rows, []string{
			strconv.Itoa(st.PointCount),
			strconv.Itoa(st.Count),
			strconv.Itoa(st.Wins),
			strconv.FormatFloat(st.SuccessRate*100, 'f', 2, 64),
			Optional(st.Iteration.Mean, ""),
			Optional(st.Iteration.Median, ""),
			Optional(st.Iteration.Std, ""),
			Optional(st.TimeMs.Mean, ""),
			Optional(st.TimeMs.Median, ""),
			Optional(st.TimeMs.Std, ""),
			Optional(st.ImprovementMean, ""),
			Optional(st.ImprovementStd, ""),
		})
	}
	return rows
}

// PointCountTable builds an unstyled table of PointCountRows.
func PointCountTable(a *models.Analysis) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(PointCountHeaders...).
		Rows(PointCountRows(a)...)
}

// WriteRuns prints one line per archived run.
func WriteRuns(w io.Writer, runs []models.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Created", "Source", "Records", "Instances", "Wins", "Success %")
	for _, r := range runs {
		t.Row(
			r.ID.String(),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Source,
			strconv.Itoa(r.Records),
			strconv.Itoa(r.Summary.Total),
			strconv.Itoa(r.Summary.Wins),
			strconv.FormatFloat(r.Summary.SuccessRatePct, 'f', 2, 64),
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// WriteJSON encodes a as indented JSON.
func WriteJSON(w io.Writer, a *models.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("failed to encode analysis as JSON: %w", err)
	}
	return nil
}

// WriteYAML encodes a as YAML.
func WriteYAML(w io.Writer, a *models.Analysis) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("failed to encode analysis as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}
	return nil
}

// errWriter keeps the first write error so printing code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
