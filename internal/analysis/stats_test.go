package analysis

import (
	"math"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"Single", []float64{3}, 3},
		{"Odd", []float64{9, 1, 5}, 5},
		{"Even", []float64{4, 1, 3, 2}, 2.5},
		{"Duplicates", []float64{2, 2, 2, 8}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedian_DoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_ = median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("median reordered its input: %v", values)
	}
}

func TestSampleStdDev(t *testing.T) {
	got := sampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := math.Sqrt(32.0 / 7)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("sampleStdDev = %v, want %v", got, want)
	}
}

func TestOptionalHelpers(t *testing.T) {
	if optMean(nil) != nil || optMedian(nil) != nil {
		t.Error("mean and median of no values should be nil")
	}
	if optStdDev([]float64{1}) != nil {
		t.Error("std of one value should be nil")
	}
	if v := optStdDev([]float64{1, 3}); v == nil || math.Abs(*v-math.Sqrt2) > 1e-12 {
		t.Errorf("optStdDev([1 3]) = %v, want sqrt(2)", v)
	}
}
