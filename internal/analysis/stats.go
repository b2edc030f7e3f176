package analysis

import (
	"math"
	"slices"
)

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median does not modify values.
func median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// sampleStdDev uses the n-1 denominator.
func sampleStdDev(values []float64) float64 {
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// The opt* helpers return nil where the statistic is undefined for the
// number of values given.

func optMean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	return ptr(mean(values))
}

func optMedian(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	return ptr(median(values))
}

func optStdDev(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	return ptr(sampleStdDev(values))
}

func ptr[T any](v T) *T {
	return &v
}
