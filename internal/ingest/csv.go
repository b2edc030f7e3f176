// Package ingest reads benchmark result files into records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/HeatXD/MinViz2024/internal/models"
)

// Column names of the benchmark results file.
const (
	ColumnAlgorithm    = "Algo"
	ColumnDistance     = "Distance"
	ColumnSeed         = "Seed"
	ColumnElapsedTime  = "ElapsedTime"
	ColumnPointCount   = "PointCount"
	ColumnCubicVolume  = "CubicVolume"
	ColumnIterations   = "Iterations"
	ColumnAOSPositions = "AOSPositions"
)

var requiredColumns = []string{
	ColumnAlgorithm,
	ColumnDistance,
	ColumnSeed,
	ColumnElapsedTime,
	ColumnPointCount,
	ColumnCubicVolume,
	ColumnIterations,
}

var (
	// ErrMalformedRow is wrapped by every RowError.
	ErrMalformedRow = errors.New("malformed row")
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// RowError describes a row that could not be turned into a record.
type RowError struct {
	Err    error
	Column string
	Line   int
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

// Unwrap exposes both the cause and ErrMalformedRow to errors.Is.
func (e *RowError) Unwrap() []error {
	return []error{ErrMalformedRow, e.Err}
}

// ReadFile opens path and reads it with ReadCSV.
func ReadFile(path string) ([]models.BenchmarkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses a results file. The first row is the header; columns are
// located by name so their order does not matter. An empty input yields no
// records and no error.
func ReadCSV(r io.Reader) ([]models.BenchmarkRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.BenchmarkRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var line int
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, &RowError{Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)

		rec, err := cols.parse(row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// columnIndex maps column names to their position in a row.
type columnIndex map[string]int

func mapColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columnIndex) parse(row []string, line int) (models.BenchmarkRecord, error) {
	var rec models.BenchmarkRecord
	var err error

	field := func(name string) string {
		return strings.TrimSpace(row[c[name]])
	}
	fail := func(name string, cause error) error {
		return &RowError{Line: line, Column: name, Err: cause}
	}

	if rec.Algorithm, err = models.ParseAlgorithm(field(ColumnAlgorithm)); err != nil {
		return rec, fail(ColumnAlgorithm, err)
	}
	if rec.Distance, err = strconv.ParseFloat(field(ColumnDistance), 64); err != nil {
		return rec, fail(ColumnDistance, err)
	}
	if rec.Seed, err = strconv.ParseInt(field(ColumnSeed), 10, 64); err != nil {
		return rec, fail(ColumnSeed, err)
	}
	if rec.ElapsedTicks, err = strconv.ParseInt(field(ColumnElapsedTime), 10, 64); err != nil {
		return rec, fail(ColumnElapsedTime, err)
	}
	if rec.PointCount, err = strconv.Atoi(field(ColumnPointCount)); err != nil {
		return rec, fail(ColumnPointCount, err)
	}
	if rec.CubicVolume, err = strconv.ParseFloat(field(ColumnCubicVolume), 64); err != nil {
		return rec, fail(ColumnCubicVolume, err)
	}
	if rec.Iterations, err = parseIterations(field(ColumnIterations), rec.Algorithm); err != nil {
		return rec, fail(ColumnIterations, err)
	}
	if i, ok := c[ColumnAOSPositions]; ok {
		rec.AOSPositions = row[i]
	}

	if err := rec.Validate(); err != nil {
		return rec, fail("", err)
	}
	return rec, nil
}

// parseIterations accepts an empty cell on NNH rows, which carry no
// iteration number.
func parseIterations(s string, algo models.Algorithm) (int, error) {
	if s == "" && algo == models.AlgorithmNNH {
		return 0, nil
	}
	return strconv.Atoi(s)
}
