package analysis

import (
	"fmt"
	"time"

	"github.com/HeatXD/MinViz2024/internal/models"
)

// Analyze runs the full convergence analysis over records read from source.
// It fails with ErrEmptyInput when no instance has both a baseline and an
// optimiser run.
func Analyze(source string, records []models.BenchmarkRecord) (*models.Analysis, error) {
	results, skipped, err := ComputeConvergenceWithReport(records)
	if err != nil {
		return nil, fmt.Errorf("failed to compute convergence: %w", err)
	}

	summary, err := Summarize(results)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize %s: %w", source, err)
	}

	byPointCount, err := AggregateByPointCount(results)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", source, err)
	}

	return &models.Analysis{
		CreatedAt:    time.Now(),
		Source:       source,
		Records:      len(records),
		Skipped:      skipped,
		Results:      results,
		Summary:      summary,
		ByPointCount: byPointCount,
	}, nil
}
