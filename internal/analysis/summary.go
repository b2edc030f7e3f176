package analysis

import "github.com/HeatXD/MinViz2024/internal/models"

// Summarize aggregates convergence results over every instance. Iteration,
// time and improvement statistics cover only the instances where the
// optimiser beats the baseline and stay nil when there are none.
func Summarize(results []models.ConvergenceResult) (models.SummaryStats, error) {
	if len(results) == 0 {
		return models.SummaryStats{}, ErrEmptyInput
	}

	var iterations, times, improvements []float64
	for _, r := range results {
		if !r.BeatsBaseline {
			continue
		}
		iterations = append(iterations, float64(*r.ConvergenceIteration))
		times = append(times, *r.ConvergenceTimeMs)
		improvements = append(improvements, r.FinalImprovementPct)
	}

	wins := len(iterations)
	return models.SummaryStats{
		Total:              len(results),
		Wins:               wins,
		SuccessRatePct:     float64(wins) / float64(len(results)) * 100,
		MeanIteration:      optMean(iterations),
		MedianIteration:    optMedian(iterations),
		MeanTimeMs:         optMean(times),
		MedianTimeMs:       optMedian(times),
		MeanImprovementPct: optMean(improvements),
	}, nil
}
