package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/logger"
	"github.com/HeatXD/MinViz2024/internal/models"
)

// ErrRunNotFound is returned when no run with the requested ID exists.
var ErrRunNotFound = errors.New("run not found")

// SaveRun stores a run and its convergence results.
func (db *DB) SaveRun(run *models.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, created_at, records, instances, wins, success_rate, summary_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID.String(),
		run.Source,
		run.CreatedAt.UTC().Format(timeLayout),
		run.Records,
		run.Summary.Total,
		run.Summary.Wins,
		run.Summary.SuccessRatePct,
		string(summary),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_results (run_id, `+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range run.Results {
		_, err := stmt.ExecContext(ctx,
			run.ID.String(),
			r.PointCount,
			r.CubicVolume,
			r.Seed,
			r.BeatsBaseline,
			nullInt(r.ConvergenceIteration),
			nullFloat(r.ConvergenceTimeMs),
			r.FinalImprovementPct,
			r.BaselineDistance,
			r.BaselineTimeMs,
			r.BestACODistance,
			r.BestACOTimeMs,
			r.NNHRuns,
			r.ACORuns,
		)
		if err != nil {
			return fmt.Errorf("failed to insert result %s: %w", r.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	logger.Debug("Saved run", "id", run.ID, "results", len(run.Results))
	return nil
}

// ListRuns returns the most recent runs, newest first, without their
// results. A limit of zero or less returns every run.
func (db *DB) ListRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC LIMIT ?`
	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRun returns the run with the given ID together with its results.
func (db *DB) GetRun(id uuid.UUID) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	run, err := scanRun(db.QueryRowContext(context.Background(), query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	results, err := db.getRunResults(id)
	if err != nil {
		return nil, err
	}
	run.Results = results

	return run, nil
}

// LatestRun returns the newest run recorded for source, or ErrRunNotFound.
func (db *DB) LatestRun(source string) (*models.Run, error) {
	query := `SELECT id FROM runs WHERE source = ? ORDER BY created_at DESC LIMIT 1`

	var idStr string
	err := db.QueryRowContext(context.Background(), query, source).Scan(&idStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no runs for %s", ErrRunNotFound, source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run id %q: %w", idStr, err)
	}
	return db.GetRun(id)
}

// DeleteRun removes a run and its results.
func (db *DB) DeleteRun(id uuid.UUID) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_results WHERE run_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete run results: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	return tx.Commit()
}

// PruneRuns keeps the newest keep runs and deletes the rest.
func (db *DB) PruneRuns(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stale := `SELECT id FROM runs ORDER BY created_at DESC LIMIT -1 OFFSET ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_results WHERE run_id IN (`+stale+`)`, keep); err != nil {
		return 0, fmt.Errorf("failed to prune run results: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id IN (`+stale+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}
	return n, nil
}

func (db *DB) getRunResults(id uuid.UUID) ([]models.ConvergenceResult, error) {
	query := `SELECT ` + resultColumns + ` FROM run_results WHERE run_id = ? ORDER BY id`
	rows, err := db.QueryContext(context.Background(), query, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query run results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []models.ConvergenceResult
	for rows.Next() {
		var r models.ConvergenceResult
		var iteration sql.NullInt64
		var timeMs sql.NullFloat64

		err := rows.Scan(
			&r.PointCount,
			&r.CubicVolume,
			&r.Seed,
			&r.BeatsBaseline,
			&iteration,
			&timeMs,
			&r.FinalImprovementPct,
			&r.BaselineDistance,
			&r.BaselineTimeMs,
			&r.BestACODistance,
			&r.BestACOTimeMs,
			&r.NNHRuns,
			&r.ACORuns,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run result: %w", err)
		}

		if iteration.Valid {
			it := int(iteration.Int64)
			r.ConvergenceIteration = &it
		}
		if timeMs.Valid {
			r.ConvergenceTimeMs = &timeMs.Float64
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var run models.Run
	var idStr, createdAt, summary string

	if err := s.Scan(&idStr, &run.Source, &createdAt, &run.Records, &summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run id %q: %w", idStr, err)
	}
	run.ID = id

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run time %q: %w", createdAt, err)
	}
	run.CreatedAt = t

	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode run summary: %w", err)
	}

	return &run, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
