// Package models defines data structures and domain types.
package models

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Algorithm identifies the tour-construction algorithm that produced a record.
type Algorithm string

const (
	// AlgorithmNNH is the one-shot nearest-neighbour heuristic (the baseline).
	AlgorithmNNH Algorithm = "NNH"
	// AlgorithmACO is the iterative ant-colony optimiser.
	AlgorithmACO Algorithm = "ACO"
)

// ErrUnknownAlgorithm is returned for algorithm labels other than NNH and ACO.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ParseAlgorithm converts a label from the results file into an Algorithm.
// Surrounding whitespace is ignored; the comparison is case-sensitive.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.TrimSpace(s)); a {
	case AlgorithmNNH, AlgorithmACO:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Valid reports whether a is one of the known algorithms.
func (a Algorithm) Valid() bool {
	return a == AlgorithmNNH || a == AlgorithmACO
}

// String returns the label used in the results file.
func (a Algorithm) String() string {
	return string(a)
}

// TicksToMillis converts raw timer ticks (100ns each) to milliseconds.
func TicksToMillis(ticks int64) float64 {
	return float64(ticks) * 100 / 1_000_000
}

// BenchmarkRecord is one row of the benchmark results file.
type BenchmarkRecord struct {
	Algorithm    Algorithm
	AOSPositions string // carried through, unused by the analysis
	Distance     float64
	CubicVolume  float64
	Seed         int64
	ElapsedTicks int64
	PointCount   int
	Iterations   int // ignored for NNH records
}

// Key returns the problem instance the record belongs to.
func (r BenchmarkRecord) Key() InstanceKey {
	return InstanceKey{
		PointCount:  r.PointCount,
		CubicVolume: r.CubicVolume,
		Seed:        r.Seed,
	}
}

// ElapsedMs returns the run's elapsed time in milliseconds.
func (r BenchmarkRecord) ElapsedMs() float64 {
	return TicksToMillis(r.ElapsedTicks)
}

// Validate checks the record's fields against their documented domains.
func (r BenchmarkRecord) Validate() error {
	switch {
	case !r.Algorithm.Valid():
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(r.Algorithm))
	case !finite(r.Distance) || r.Distance < 0:
		return fmt.Errorf("distance must be a non-negative number, got %g", r.Distance)
	case r.ElapsedTicks < 0:
		return fmt.Errorf("elapsed ticks must be non-negative, got %d", r.ElapsedTicks)
	case r.PointCount <= 0:
		return fmt.Errorf("point count must be positive, got %d", r.PointCount)
	case !finite(r.CubicVolume) || r.CubicVolume <= 0:
		return fmt.Errorf("cubic volume must be a positive number, got %g", r.CubicVolume)
	case r.Iterations < 0:
		return fmt.Errorf("iterations must be non-negative, got %d", r.Iterations)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// InstanceKey identifies one routing problem.
type InstanceKey struct {
	PointCount  int
	CubicVolume float64
	Seed        int64
}

// Compare orders keys by point count, then volume, then seed.
func (k InstanceKey) Compare(o InstanceKey) int {
	if c := cmp.Compare(k.PointCount, o.PointCount); c != 0 {
		return c
	}
	if c := cmp.Compare(k.CubicVolume, o.CubicVolume); c != 0 {
		return c
	}
	return cmp.Compare(k.Seed, o.Seed)
}

// String returns a compact human readable form, e.g. "n=10 v=1000 seed=1".
func (k InstanceKey) String() string {
	return fmt.Sprintf("n=%d v=%g seed=%d", k.PointCount, k.CubicVolume, k.Seed)
}
