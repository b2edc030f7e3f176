package analysis

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/HeatXD/MinViz2024/internal/models"
)

// instanceRuns holds the records of one problem instance split by algorithm.
type instanceRuns struct {
	nnh []models.BenchmarkRecord
	aco []models.BenchmarkRecord
}

// ComputeConvergence computes one ConvergenceResult per problem instance that
// has at least one NNH record and at least one ACO record. Results are ordered
// by instance key.
func ComputeConvergence(records []models.BenchmarkRecord) ([]models.ConvergenceResult, error) {
	results, _, err := ComputeConvergenceWithReport(records)
	return results, err
}

// ComputeConvergenceWithReport is ComputeConvergence that also reports how
// many instances were left out and why.
func ComputeConvergenceWithReport(records []models.BenchmarkRecord) ([]models.ConvergenceResult, models.SkipReport, error) {
	groups, err := groupByInstance(records)
	if err != nil {
		return nil, models.SkipReport{}, err
	}

	keys := make([]models.InstanceKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, models.InstanceKey.Compare)

	report := models.SkipReport{Instances: len(keys)}
	results := make([]models.ConvergenceResult, 0, len(keys))
	for _, k := range keys {
		runs := groups[k]
		switch {
		case len(runs.nnh) == 0:
			report.MissingBaseline++
			continue
		case len(runs.aco) == 0:
			report.MissingOptimizerRuns++
			continue
		}
		results = append(results, convergenceFor(k, runs))
	}

	return results, report, nil
}

func groupByInstance(records []models.BenchmarkRecord) (map[models.InstanceKey]*instanceRuns, error) {
	groups := make(map[models.InstanceKey]*instanceRuns)
	for i, rec := range records {
		k := rec.Key()
		runs, ok := groups[k]
		if !ok {
			runs = &instanceRuns{}
			groups[k] = runs
		}

		switch rec.Algorithm {
		case models.AlgorithmNNH:
			runs.nnh = append(runs.nnh, rec)
		case models.AlgorithmACO:
			runs.aco = append(runs.aco, rec)
		default:
			return nil, fmt.Errorf("record %d (%s): %w: %q", i, k, ErrUnknownAlgorithm, string(rec.Algorithm))
		}
	}
	return groups, nil
}

// convergenceFor requires both subsets of runs to be non-empty.
func convergenceFor(k models.InstanceKey, runs *instanceRuns) models.ConvergenceResult {
	res := models.ConvergenceResult{
		PointCount:  k.PointCount,
		CubicVolume: k.CubicVolume,
		Seed:        k.Seed,
		NNHRuns:     len(runs.nnh),
		ACORuns:     len(runs.aco),
	}

	distances := make([]float64, len(runs.nnh))
	times := make([]float64, len(runs.nnh))
	for i, r := range runs.nnh {
		distances[i] = r.Distance
		times[i] = r.ElapsedMs()
	}
	res.BaselineDistance = mean(distances)
	res.BaselineTimeMs = mean(times)

	aco := slices.Clone(runs.aco)
	slices.SortStableFunc(aco, func(a, b models.BenchmarkRecord) int {
		return cmp.Compare(a.Iterations, b.Iterations)
	})

	beating := make([]models.BenchmarkRecord, 0, len(aco))
	for _, r := range aco {
		if r.Distance < res.BaselineDistance {
			beating = append(beating, r)
		}
	}

	if len(beating) == 0 {
		res.BestACODistance, res.BestACOTimeMs = bestOf(aco)
		return res
	}

	first := beating[0]
	res.BeatsBaseline = true
	res.ConvergenceIteration = ptr(first.Iterations)
	res.ConvergenceTimeMs = ptr(first.ElapsedMs())
	res.BestACODistance, res.BestACOTimeMs = bestOf(beating)
	res.FinalImprovementPct = (res.BaselineDistance - res.BestACODistance) / res.BaselineDistance * 100
	return res
}

// bestOf returns the minimum distance and the minimum elapsed time over
// records, each taken independently.
func bestOf(records []models.BenchmarkRecord) (distance, timeMs float64) {
	distance = records[0].Distance
	timeMs = records[0].ElapsedMs()
	for _, r := range records[1:] {
		distance = min(distance, r.Distance)
		timeMs = min(timeMs, r.ElapsedMs())
	}
	return distance, timeMs
}
