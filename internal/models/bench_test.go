package models

import (
	"errors"
	"math"
	"testing"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"NNH", "NNH", AlgorithmNNH, false},
		{"ACO", "ACO", AlgorithmACO, false},
		{"Whitespace", " ACO\t", AlgorithmACO, false},
		{"Lowercase", "aco", "", true},
		{"Empty", "", "", true},
		{"Other", "GA", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAlgorithm) {
					t.Fatalf("ParseAlgorithm(%q) error = %v, want ErrUnknownAlgorithm", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAlgorithm(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTicksToMillis(t *testing.T) {
	tests := []struct {
		ticks int64
		want  float64
	}{
		{0, 0},
		{10_000, 1},
		{200_000, 20},
		{1_000_000, 100},
	}
	for _, tt := range tests {
		if got := TicksToMillis(tt.ticks); got != tt.want {
			t.Errorf("TicksToMillis(%d) = %v, want %v", tt.ticks, got, tt.want)
		}
	}
}

func TestBenchmarkRecord_Validate(t *testing.T) {
	valid := BenchmarkRecord{
		Algorithm:    AlgorithmACO,
		Distance:     12.5,
		Seed:         20,
		ElapsedTicks: 1000,
		PointCount:   5,
		CubicVolume:  125,
		Iterations:   3,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(r *BenchmarkRecord)
	}{
		{"UnknownAlgorithm", func(r *BenchmarkRecord) { r.Algorithm = "GA" }},
		{"NegativeDistance", func(r *BenchmarkRecord) { r.Distance = -1 }},
		{"NaNDistance", func(r *BenchmarkRecord) { r.Distance = math.NaN() }},
		{"NegativeTicks", func(r *BenchmarkRecord) { r.ElapsedTicks = -5 }},
		{"ZeroPoints", func(r *BenchmarkRecord) { r.PointCount = 0 }},
		{"ZeroVolume", func(r *BenchmarkRecord) { r.CubicVolume = 0 }},
		{"InfiniteVolume", func(r *BenchmarkRecord) { r.CubicVolume = math.Inf(1) }},
		{"NegativeIterations", func(r *BenchmarkRecord) { r.Iterations = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Errorf("Validate() accepted %+v", r)
			}
		})
	}
}

func TestInstanceKey_Compare(t *testing.T) {
	a := InstanceKey{PointCount: 5, CubicVolume: 125, Seed: 20}
	tests := []struct {
		name string
		b    InstanceKey
		want int
	}{
		{"Equal", a, 0},
		{"MorePoints", InstanceKey{PointCount: 10, CubicVolume: 1, Seed: 0}, -1},
		{"LargerVolume", InstanceKey{PointCount: 5, CubicVolume: 1000, Seed: 0}, -1},
		{"SmallerSeed", InstanceKey{PointCount: 5, CubicVolume: 125, Seed: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInstanceKey_String(t *testing.T) {
	k := InstanceKey{PointCount: 10, CubicVolume: 1000, Seed: 1}
	if got, want := k.String(), "n=10 v=1000 seed=1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestConvergenceResult_TimeRatio(t *testing.T) {
	r := ConvergenceResult{BaselineTimeMs: 4, BestACOTimeMs: 10}
	ratio, ok := r.TimeRatio()
	if !ok || ratio != 2.5 {
		t.Errorf("TimeRatio() = %v, %v; want 2.5, true", ratio, ok)
	}

	r.BaselineTimeMs = 0
	if _, ok := r.TimeRatio(); ok {
		t.Error("TimeRatio() with zero baseline time should report false")
	}
}

func TestAnalysis_SortedPointCounts(t *testing.T) {
	a := &Analysis{ByPointCount: map[int]PointCountStats{80: {}, 5: {}, 20: {}}}
	got := a.SortedPointCounts()
	want := []int{5, 20, 80}
	if len(got) != len(want) {
		t.Fatalf("SortedPointCounts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedPointCounts()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
