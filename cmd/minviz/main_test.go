package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeatXD/MinViz2024/internal/db"
	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/version"
)

const resultsCSV = `Algo,Distance,Seed,ElapsedTime,PointCount,CubicVolume,Iterations
NNH,50,1,200000,10,1000,0
ACO,60,1,100000,10,1000,1
ACO,45,1,500000,10,1000,5
NNH,20,2,10000,5,125,0
ACO,25,2,30000,5,125,1
`

type env struct {
	dir      string
	results  string
	database string
	charts   string
}

func setupEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	e := env{
		dir:      dir,
		results:  filepath.Join(dir, "BenchResults.csv"),
		database: filepath.Join(dir, "data", "minviz.db"),
		charts:   filepath.Join(dir, "charts"),
	}
	require.NoError(t, os.WriteFile(e.results, []byte(resultsCSV), 0o600))

	t.Setenv("HOME", dir)
	t.Setenv("BENCH_RESULTS_PATH", e.results)
	t.Setenv("DATABASE_PATH", e.database)
	t.Setenv("CHART_DIR", e.charts)
	t.Setenv("LOG_PATH", filepath.Join(dir, "minviz.log"))
	t.Setenv("CHART_WIDTH", "320")
	t.Setenv("CHART_HEIGHT", "240")
	return e
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	version.Reset()
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Info()+"\n", out)
}

func TestReportCmd_Text(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "=== ACO vs NNH Convergence Analysis ===")
	assert.Contains(t, out, "Total problem configurations analyzed: 2")
	assert.Contains(t, out, "Configurations where ACO beats NNH: 1")
	assert.Contains(t, out, "Overall success rate: 50.00%")
	assert.Contains(t, out, "=== Statistics by Point Count ===")
}

func TestReportCmd_JSON(t *testing.T) {
	e := setupEnv(t)

	out, err := execute(t, "report", "--format", "json", e.results)
	require.NoError(t, err)

	var a models.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, 2, a.Summary.Total)
	assert.Equal(t, 1, a.Summary.Wins)
	assert.Len(t, a.Results, 2)
}

func TestReportCmd_Errors(t *testing.T) {
	e := setupEnv(t)

	_, err := execute(t, "report", filepath.Join(e.dir, "missing.csv"))
	assert.Error(t, err)

	_, err = execute(t, "report", "--format", "xml")
	assert.Error(t, err)

	empty := filepath.Join(e.dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("Algo,Distance,Seed,ElapsedTime,PointCount,CubicVolume,Iterations\n"), 0o600))
	_, err = execute(t, "report", empty)
	assert.Error(t, err)
}

func TestExportCmd_YAML(t *testing.T) {
	e := setupEnv(t)

	out, err := execute(t, "export", "--format", "yaml")
	require.NoError(t, err)

	path := filepath.Join(e.charts, "analysis.yaml")
	assert.Equal(t, path+"\n", out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "success_rate_pct: 50")
}

func TestExportCmd_PNG(t *testing.T) {
	e := setupEnv(t)
	dir := filepath.Join(e.dir, "png")

	out, err := execute(t, "export", "--dir", dir)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	assert.NotEmpty(t, files)
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "export", "--format", "text")
	assert.Error(t, err)
	_, err = execute(t, "export", "--format", "svg")
	assert.Error(t, err)
}

func TestHistoryCmds(t *testing.T) {
	e := setupEnv(t)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet.")

	_, err = execute(t, "report", "--archive")
	require.NoError(t, err)

	out, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "BenchResults.csv")

	database, err := db.New(e.database)
	require.NoError(t, err)
	runs, err := database.ListRuns(10)
	require.NoError(t, err)
	require.NoError(t, database.Close())
	require.Len(t, runs, 1)
	id := runs[0].ID.String()

	out, err = execute(t, "history", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Configurations where ACO beats NNH: 1")

	latest, err := execute(t, "history", "show", "latest", "--format", "json")
	require.NoError(t, err)
	var a models.Analysis
	require.NoError(t, json.Unmarshal([]byte(latest), &a))
	assert.Equal(t, e.results, a.Source)
	assert.Len(t, a.ByPointCount, 2)

	out, err = execute(t, "history", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted run "+id)

	_, err = execute(t, "history", "show", id)
	assert.Error(t, err)

	_, err = execute(t, "history", "show", "not-a-uuid")
	assert.Error(t, err)
}

func TestHistoryPruneCmd(t *testing.T) {
	e := setupEnv(t)
	for i := 0; i < 3; i++ {
		_, err := execute(t, "report", "--archive")
		require.NoError(t, err)
	}

	out, err := execute(t, "history", "prune", "--keep", "1")
	require.NoError(t, err)
	assert.Equal(t, "Pruned 2 runs from "+e.database+"\n", out)

	_, err = execute(t, "history", "show", "latest")
	assert.NoError(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	e := setupEnv(t)
	opts := &options{
		databasePath: filepath.Join(e.dir, "other.db"),
		logLevel:     "debug",
		noWatch:      true,
	}

	cfg, err := loadConfig(opts, []string{"other.csv"})
	require.NoError(t, err)
	assert.Equal(t, "other.csv", cfg.ResultsPath)
	assert.Equal(t, opts.databasePath, cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.WatchResults)
}
