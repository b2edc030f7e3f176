package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeatXD/MinViz2024/internal/models"
)

func TestAggregateByPointCount_EmptyInput(t *testing.T) {
	stats, err := AggregateByPointCount(nil)
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, stats)
}

func TestAggregateByPointCount(t *testing.T) {
	results := []models.ConvergenceResult{
		beating(10, 2, 1.0, 10.0),
		beating(10, 4, 3.0, 30.0),
		beating(10, 9, 8.0, 20.0),
		losing(10),
		beating(40, 7, 5.0, 12.0),
		losing(80),
		losing(80),
	}

	stats, err := AggregateByPointCount(results)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	ten := stats[10]
	assert.Equal(t, 10, ten.PointCount)
	assert.Equal(t, 4, ten.Count)
	assert.Equal(t, 3, ten.Wins)
	assert.InDelta(t, 0.75, ten.SuccessRate, 1e-9)

	assert.Equal(t, 3, ten.Iteration.N)
	assert.InDelta(t, 5.0, *ten.Iteration.Mean, 1e-9)
	assert.InDelta(t, 4.0, *ten.Iteration.Median, 1e-9)
	assert.InDelta(t, math.Sqrt(13), *ten.Iteration.Std, 1e-9)

	assert.InDelta(t, 4.0, *ten.TimeMs.Mean, 1e-9)
	assert.InDelta(t, 3.0, *ten.TimeMs.Median, 1e-9)
	assert.InDelta(t, math.Sqrt(13), *ten.TimeMs.Std, 1e-9)

	// improvement covers the losing row as 0%: {10, 30, 20, 0}
	assert.InDelta(t, 15.0, *ten.ImprovementMean, 1e-9)
	assert.InDelta(t, math.Sqrt(500.0/3), *ten.ImprovementStd, 1e-9)

	forty := stats[40]
	assert.Equal(t, 1, forty.Iteration.N)
	assert.InDelta(t, 7.0, *forty.Iteration.Mean, 1e-9)
	assert.Nil(t, forty.Iteration.Std, "std of a single value is undefined")
	assert.Nil(t, forty.ImprovementStd)
	assert.InDelta(t, 1.0, forty.SuccessRate, 1e-9)

	eighty := stats[80]
	assert.Zero(t, eighty.Wins)
	assert.Zero(t, eighty.Iteration.N)
	assert.Nil(t, eighty.Iteration.Mean)
	assert.Nil(t, eighty.Iteration.Median)
	assert.Nil(t, eighty.TimeMs.Mean)
	assert.InDelta(t, 0.0, *eighty.ImprovementMean, 1e-9)
	assert.InDelta(t, 0.0, *eighty.ImprovementStd, 1e-9)
	assert.Zero(t, eighty.SuccessRate)
}
