// Package charts turns convergence results into scatter views and renders
// them as PNG images.
package charts

import (
	"math"

	"github.com/HeatXD/MinViz2024/internal/models"
)

// ViewID identifies one of the fixed chart views.
type ViewID int

const (
	ViewIterations ViewID = iota
	ViewImprovement
	ViewConvergenceTime
	ViewTimeRatio
)

// Slug returns a file-name friendly identifier.
func (id ViewID) Slug() string {
	switch id {
	case ViewIterations:
		return "iterations"
	case ViewImprovement:
		return "improvement"
	case ViewConvergenceTime:
		return "convergence_time"
	case ViewTimeRatio:
		return "time_ratio"
	default:
		return "unknown"
	}
}

// Point is one plotted result.
type Point struct {
	X, Y float64
}

// View is a titled scatter plot with an optional horizontal reference line.
type View struct {
	Title     string
	XLabel    string
	YLabel    string
	Points    []Point
	Reference *float64
	ID        ViewID
}

// Empty reports whether the view has nothing to plot.
func (v View) Empty() bool {
	return len(v.Points) == 0
}

// Bounds returns the data extent of the view including the reference line.
// Degenerate ranges are widened so both spans are positive. ok is false for
// an empty view.
func (v View) Bounds() (xMin, xMax, yMin, yMax float64, ok bool) {
	if v.Empty() {
		return 0, 0, 0, 0, false
	}

	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for _, p := range v.Points {
		xMin, xMax = min(xMin, p.X), max(xMax, p.X)
		yMin, yMax = min(yMin, p.Y), max(yMax, p.Y)
	}
	if v.Reference != nil {
		yMin, yMax = min(yMin, *v.Reference), max(yMax, *v.Reference)
	}

	xMin, xMax = widen(xMin, xMax)
	yMin, yMax = widen(yMin, yMax)
	return xMin, xMax, yMin, yMax, true
}

func widen(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	pad := math.Abs(lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

const pointCountLabel = "Point Count"

// Views builds the four fixed views from a set of convergence results.
func Views(results []models.ConvergenceResult) []View {
	one := 1.0
	views := []View{
		{
			ID:     ViewIterations,
			Title:  "Convergence Speed by Problem Size (Iterations)",
			XLabel: pointCountLabel,
			YLabel: "Iterations until ACO beats NNH",
		},
		{
			ID:     ViewImprovement,
			Title:  "Solution Quality Improvement",
			XLabel: pointCountLabel,
			YLabel: "Improvement over NNH (%)",
		},
		{
			ID:     ViewConvergenceTime,
			Title:  "Convergence Speed by Problem Size (Time)",
			XLabel: pointCountLabel,
			YLabel: "Time until ACO beats NNH (ms)",
		},
		{
			ID:        ViewTimeRatio,
			Title:     "Computational Efficiency Comparison",
			XLabel:    pointCountLabel,
			YLabel:    "ACO/NNH Time Ratio",
			Reference: &one,
		},
	}

	for _, r := range results {
		x := float64(r.PointCount)
		if r.ConvergenceIteration != nil {
			views[ViewIterations].Points = append(views[ViewIterations].Points, Point{x, float64(*r.ConvergenceIteration)})
		}
		views[ViewImprovement].Points = append(views[ViewImprovement].Points, Point{x, r.FinalImprovementPct})
		if r.ConvergenceTimeMs != nil {
			views[ViewConvergenceTime].Points = append(views[ViewConvergenceTime].Points, Point{x, *r.ConvergenceTimeMs})
		}
		if ratio, ok := r.TimeRatio(); ok {
			views[ViewTimeRatio].Points = append(views[ViewTimeRatio].Points, Point{x, ratio})
		}
	}
	return views
}
