package analysis

import "github.com/HeatXD/MinViz2024/internal/models"

// AggregateByPointCount groups convergence results by point count.
//
// Iteration and time statistics are computed over the beating results of
// each group only; results that never beat the baseline are excluded rather
// than counted as zero. Improvement statistics cover every result in the
// group, with non-beating results contributing their 0% improvement.
func AggregateByPointCount(results []models.ConvergenceResult) (map[int]models.PointCountStats, error) {
	if len(results) == 0 {
		return nil, ErrEmptyInput
	}

	type bucket struct {
		iterations   []float64
		times        []float64
		improvements []float64
	}
	buckets := make(map[int]*bucket)
	for _, r := range results {
		b, ok := buckets[r.PointCount]
		if !ok {
			b = &bucket{}
			buckets[r.PointCount] = b
		}
		b.improvements = append(b.improvements, r.FinalImprovementPct)
		if r.ConvergenceIteration != nil {
			b.iterations = append(b.iterations, float64(*r.ConvergenceIteration))
		}
		if r.ConvergenceTimeMs != nil {
			b.times = append(b.times, *r.ConvergenceTimeMs)
		}
	}

	stats := make(map[int]models.PointCountStats, len(buckets))
	for pc, b := range buckets {
		count := len(b.improvements)
		wins := len(b.iterations)
		stats[pc] = models.PointCountStats{
			PointCount:      pc,
			Count:           count,
			Wins:            wins,
			Iteration:       dispersion(b.iterations),
			TimeMs:          dispersion(b.times),
			ImprovementMean: optMean(b.improvements),
			ImprovementStd:  optStdDev(b.improvements),
			SuccessRate:     float64(wins) / float64(count),
		}
	}
	return stats, nil
}

func dispersion(values []float64) models.Dispersion {
	return models.Dispersion{
		N:      len(values),
		Mean:   optMean(values),
		Median: optMedian(values),
		Std:    optStdDev(values),
	}
}
