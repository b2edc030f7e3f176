package db

// SQL fragments and formats shared by the run queries
const (
	// timeLayout is fixed width so created_at sorts lexically in time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z"

	runColumns = "id, source, created_at, records, summary_json"

	resultColumns = `point_count, cubic_volume, seed, beats_baseline,
		convergence_iteration, convergence_time_ms, final_improvement_pct,
		baseline_distance, baseline_time_ms, best_aco_distance, best_aco_time_ms,
		nnh_runs, aco_runs`
)
