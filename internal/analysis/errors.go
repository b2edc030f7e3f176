package analysis

import (
	"errors"

	"github.com/HeatXD/MinViz2024/internal/models"
)

var (
	// ErrEmptyInput is returned when an aggregation is asked to work on no results.
	ErrEmptyInput = errors.New("no convergence results to aggregate")

	// ErrUnknownAlgorithm is returned when a record carries a label other than NNH or ACO.
	ErrUnknownAlgorithm = models.ErrUnknownAlgorithm
)
