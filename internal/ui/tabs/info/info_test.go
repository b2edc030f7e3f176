package info

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/app"
	"github.com/HeatXD/MinViz2024/internal/config"
	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/version"
)

func TestNew(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestModel_View(t *testing.T) {
	version.Reset()
	version.Version = "1.2.3"
	t.Cleanup(version.Reset)

	cfg := &config.Config{
		ResultsPath:    "BenchResults.csv",
		DatabasePath:   "/tmp/minviz.db",
		ChartWidth:     1024,
		ChartHeight:    640,
		WatchResults:   true,
		ReloadDebounce: 250 * time.Millisecond,
	}
	m := New(app.NewState(), cfg)
	m.SetSize(100, 60)

	view := m.View()
	for _, want := range []string{
		"BenchResults.csv",
		"/tmp/minviz.db",
		"1024x640 px",
		"on, debounce 250ms",
		"No analysis loaded",
		"1.2.3",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_ViewWithAnalysis(t *testing.T) {
	state := app.NewState()
	id := uuid.New()
	state.SetAnalysis(&models.Analysis{
		Source:  "BenchResults.csv",
		Records: 42,
		Results: make([]models.ConvergenceResult, 3),
		Skipped: models.SkipReport{Instances: 1},
	}, id)
	state.SetLastError(errors.New("bad header"))

	m := New(state, nil)
	m.SetSize(100, 60)

	view := m.View()
	for _, want := range []string{
		"Configuration not loaded",
		"Current Analysis",
		"42",
		id.String(),
		"Last error: bad header",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
