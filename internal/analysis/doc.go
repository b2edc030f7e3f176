// Package analysis detects, per problem instance, the first optimiser
// iteration whose tour is strictly shorter than the nearest-neighbour
// baseline, and aggregates those per-instance facts into summary and
// per-point-count statistics.
//
// The package is pure: every function works on in-memory slices, never
// mutates its input and is safe to call concurrently.
package analysis
