// Package models defines data structures and domain types.
package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ConvergenceResult holds the convergence facts for one problem instance
// that has both a baseline and at least one optimiser run.
type ConvergenceResult struct {
	// ConvergenceIteration and ConvergenceTimeMs are nil when the optimiser
	// never beats the baseline.
	ConvergenceIteration *int     `json:"convergence_iteration,omitempty" yaml:"convergence_iteration,omitempty"`
	ConvergenceTimeMs    *float64 `json:"convergence_time_ms,omitempty" yaml:"convergence_time_ms,omitempty"`

	FinalImprovementPct float64 `json:"final_improvement_pct" yaml:"final_improvement_pct"`
	BaselineDistance    float64 `json:"baseline_distance" yaml:"baseline_distance"`
	BaselineTimeMs      float64 `json:"baseline_time_ms" yaml:"baseline_time_ms"`
	BestACODistance     float64 `json:"best_aco_distance" yaml:"best_aco_distance"`
	BestACOTimeMs       float64 `json:"best_aco_time_ms" yaml:"best_aco_time_ms"`

	PointCount  int     `json:"point_count" yaml:"point_count"`
	CubicVolume float64 `json:"cubic_volume" yaml:"cubic_volume"`
	Seed        int64   `json:"seed" yaml:"seed"`
	NNHRuns     int     `json:"nnh_runs" yaml:"nnh_runs"`
	ACORuns     int     `json:"aco_runs" yaml:"aco_runs"`

	BeatsBaseline bool `json:"beats_baseline" yaml:"beats_baseline"`
}

// Key returns the problem instance the result was computed for.
func (r ConvergenceResult) Key() InstanceKey {
	return InstanceKey{PointCount: r.PointCount, CubicVolume: r.CubicVolume, Seed: r.Seed}
}

// TimeRatio returns the optimiser/baseline time ratio. The second return
// value is false when the baseline took no measurable time.
func (r ConvergenceResult) TimeRatio() (float64, bool) {
	if r.BaselineTimeMs == 0 {
		return 0, false
	}
	return r.BestACOTimeMs / r.BaselineTimeMs, true
}

// SummaryStats aggregates convergence results over every instance.
// Optional fields are nil when no instance beats the baseline.
type SummaryStats struct {
	MeanIteration      *float64 `json:"mean_iteration,omitempty" yaml:"mean_iteration,omitempty"`
	MedianIteration    *float64 `json:"median_iteration,omitempty" yaml:"median_iteration,omitempty"`
	MeanTimeMs         *float64 `json:"mean_time_ms,omitempty" yaml:"mean_time_ms,omitempty"`
	MedianTimeMs       *float64 `json:"median_time_ms,omitempty" yaml:"median_time_ms,omitempty"`
	MeanImprovementPct *float64 `json:"mean_improvement_pct,omitempty" yaml:"mean_improvement_pct,omitempty"`
	Total              int      `json:"total" yaml:"total"`
	Wins               int      `json:"wins" yaml:"wins"`
	SuccessRatePct     float64  `json:"success_rate_pct" yaml:"success_rate_pct"`
}

// Dispersion describes the centre and spread of a set of values.
// Std is the sample (n-1) standard deviation and is nil with fewer than two values.
type Dispersion struct {
	Mean   *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Median *float64 `json:"median,omitempty" yaml:"median,omitempty"`
	Std    *float64 `json:"std,omitempty" yaml:"std,omitempty"`
	N      int      `json:"n" yaml:"n"`
}

// PointCountStats aggregates convergence results sharing a point count.
type PointCountStats struct {
	Iteration       Dispersion `json:"iteration" yaml:"iteration"`
	TimeMs          Dispersion `json:"time_ms" yaml:"time_ms"`
	ImprovementMean *float64   `json:"improvement_mean,omitempty" yaml:"improvement_mean,omitempty"`
	ImprovementStd  *float64   `json:"improvement_std,omitempty" yaml:"improvement_std,omitempty"`
	PointCount      int        `json:"point_count" yaml:"point_count"`
	Count           int        `json:"count" yaml:"count"`
	Wins            int        `json:"wins" yaml:"wins"`
	SuccessRate     float64    `json:"success_rate" yaml:"success_rate"` // fraction in [0, 1]
}

// SkipReport counts the problem instances left out of an analysis.
type SkipReport struct {
	Instances            int `json:"instances" yaml:"instances"`
	MissingBaseline      int `json:"missing_baseline" yaml:"missing_baseline"`
	MissingOptimizerRuns int `json:"missing_optimizer_runs" yaml:"missing_optimizer_runs"`
}

// Analysis bundles one full analysis pass over a results file.
type Analysis struct {
	CreatedAt    time.Time               `json:"created_at" yaml:"created_at"`
	ByPointCount map[int]PointCountStats `json:"by_point_count" yaml:"by_point_count"`
	Source       string                  `json:"source" yaml:"source"`
	Results      []ConvergenceResult     `json:"results" yaml:"results"`
	Skipped      SkipReport              `json:"skipped" yaml:"skipped"`
	Summary      SummaryStats            `json:"summary" yaml:"summary"`
	Records      int                     `json:"records" yaml:"records"`
}

// SortedPointCounts returns the point counts present in ByPointCount in ascending order.
func (a *Analysis) SortedPointCounts() []int {
	counts := make([]int, 0, len(a.ByPointCount))
	for pc := range a.ByPointCount {
		counts = append(counts, pc)
	}
	slices.Sort(counts)
	return counts
}

// Run is an analysis persisted in the run archive.
type Run struct {
	CreatedAt time.Time
	Source    string
	Results   []ConvergenceResult
	Summary   SummaryStats
	ID        uuid.UUID
	Records   int
}

// HasResults returns true if the run was loaded together with its results.
func (r *Run) HasResults() bool {
	return len(r.Results) > 0
}

// NewRun wraps an analysis in a Run with a fresh ID.
func NewRun(a *Analysis) Run {
	return Run{
		ID:        uuid.New(),
		CreatedAt: a.CreatedAt,
		Source:    a.Source,
		Records:   a.Records,
		Summary:   a.Summary,
		Results:   a.Results,
	}
}
