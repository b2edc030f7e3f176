package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/app"
	"github.com/HeatXD/MinViz2024/internal/models"
)

func ptr[T any](v T) *T { return &v }

func sampleAnalysis() *models.Analysis {
	return &models.Analysis{
		Source:    "BenchResults.csv",
		Records:   7,
		CreatedAt: time.Now(),
		Summary: models.SummaryStats{
			Total:              2,
			Wins:               1,
			SuccessRatePct:     50,
			MeanIteration:      ptr(5.0),
			MedianIteration:    ptr(5.0),
			MeanTimeMs:         ptr(50.0),
			MedianTimeMs:       ptr(50.0),
			MeanImprovementPct: ptr(20.0),
		},
		ByPointCount: map[int]models.PointCountStats{
			5: {PointCount: 5, Count: 1},
			10: {
				PointCount:      10,
				Count:           1,
				Wins:            1,
				SuccessRate:     1,
				Iteration:       models.Dispersion{Mean: ptr(5.0), Median: ptr(5.0), N: 1},
				TimeMs:          models.Dispersion{Mean: ptr(50.0), Median: ptr(50.0), N: 1},
				ImprovementMean: ptr(20.0),
			},
		},
		Skipped: models.SkipReport{Instances: 1, MissingBaseline: 1},
	}
}

func loadedState() *app.State {
	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	state.SetAnalysis(sampleAnalysis(), uuid.New())
	return state
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState())
	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestModel_ViewLoading(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)
	if view := m.View(); !strings.Contains(view, "Analysing results...") {
		t.Errorf("View should show the loading spinner, got %q", view)
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	m := New(state)
	m.SetSize(80, 24)

	view := m.View()
	if !strings.Contains(view, "Nothing to show") {
		t.Errorf("View should show the empty card, got %q", view)
	}

	state.SetLastError(errors.New("open BenchResults.csv: no such file"))
	view = m.View()
	if !strings.Contains(view, "Analysis failed") {
		t.Errorf("View should show the error, got %q", view)
	}
}

func TestModel_ViewAnalysis(t *testing.T) {
	m := New(loadedState())
	m.SetSize(100, 80)

	view := m.View()
	for _, want := range []string{
		"ACO vs NNH Convergence",
		"BenchResults.csv",
		"Overview",
		"By Point Count",
		"5 pts",
		"10 pts",
		"Skipped 1 instances",
		"Mean Iterations to Beat NNH",
		"iterations",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_ViewStaleError(t *testing.T) {
	state := loadedState()
	state.SetLastError(errors.New("bad header"))
	m := New(state)
	m.SetSize(100, 80)

	view := m.View()
	if !strings.Contains(view, "Last reload failed") {
		t.Error("View should flag stale results")
	}
	if !strings.Contains(view, "By Point Count") {
		t.Error("View should still show the previous analysis")
	}
}

func TestModel_ViewDistanceChart(t *testing.T) {
	state := loadedState()
	m := New(state)
	m.SetSize(100, 120)

	if view := m.View(); !strings.Contains(view, "Needs at least two point counts") {
		t.Error("View should explain the missing distance chart")
	}

	a := sampleAnalysis()
	a.Results = []models.ConvergenceResult{
		{PointCount: 5, BaselineDistance: 20, BestACODistance: 25},
		{PointCount: 10, BaselineDistance: 50, BestACODistance: 45},
	}
	state.SetAnalysis(a, uuid.New())

	view := m.View()
	for _, want := range []string{"Mean Distance: NNH vs best ACO", "point counts 5, 10", "NNH", "ACO"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_ViewReloading(t *testing.T) {
	state := loadedState()
	m := New(state)
	m.SetSize(100, 80)
	without := m.View()

	state.SetLoading(app.ResourceAnalysis, true)
	if with := m.View(); with == without {
		t.Error("View should change while a reload is running")
	}
}

func TestModel_KeyBindings(t *testing.T) {
	m := New(loadedState())

	steps := []struct {
		key  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, 1},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, 0},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, 1},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}, 0},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}, 1},
	}
	for i, step := range steps {
		m.Update(step.key)
		if m.selectedIndex != step.want {
			t.Errorf("step %d: selectedIndex = %d, want %d", i, m.selectedIndex, step.want)
		}
	}

	// no analysis, nothing to move over
	empty := New(app.NewState())
	empty.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if empty.selectedIndex != 0 {
		t.Errorf("selectedIndex = %d, want 0", empty.selectedIndex)
	}
}

func TestModel_ClampSelectionOnReload(t *testing.T) {
	state := loadedState()
	m := New(state)
	m.selectedIndex = 5

	m.Update(app.AnalysisLoadedMsg{})
	if m.selectedIndex != 1 {
		t.Errorf("selectedIndex = %d, want 1", m.selectedIndex)
	}
}

func TestModel_Animation(t *testing.T) {
	m := New(loadedState())
	m.Update(app.AnalysisLoadedMsg{})

	anim, ok := m.animations[10]
	if !ok {
		t.Fatal("animation for point count 10 should exist")
	}
	if anim.TargetPercent != 100 {
		t.Errorf("TargetPercent = %v, want 100", anim.TargetPercent)
	}

	later := time.Now().Add(2 * time.Second)
	if cmd := m.handleAnimationTick(animationTickMsg(later)); cmd == nil {
		t.Error("first tick should keep animating")
	}
	if anim.CurrentPercent != 100 {
		t.Errorf("CurrentPercent = %v, want 100", anim.CurrentPercent)
	}
	if got := m.displayPercent(10, 0); got != 100 {
		t.Errorf("displayPercent = %v, want 100", got)
	}

	if cmd := m.handleAnimationTick(animationTickMsg(later)); cmd != nil {
		t.Error("animation should stop once every bar is done")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
