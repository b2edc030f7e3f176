package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/app"
	"github.com/HeatXD/MinViz2024/internal/config"
	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/services"
)

const resultsCSV = `Algo,Distance,Seed,ElapsedTime,PointCount,CubicVolume,Iterations
NNH,50,1,200000,10,1000,0
ACO,60,1,100000,10,1000,1
ACO,45,1,500000,10,1000,5
NNH,20,2,10000,5,125,0
ACO,25,2,30000,5,125,1
`

func newManager(t *testing.T) *services.Manager {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := &config.Config{
		ResultsPath:  filepath.Join(tmpDir, "BenchResults.csv"),
		DatabasePath: filepath.Join(tmpDir, "test.db"),
		HistoryLimit: 10,
	}
	if err := os.WriteFile(cfg.ResultsPath, []byte(resultsCSV), 0600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	mgr, err := services.NewManager(cfg)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// loaded returns a history model that has listed two archived runs.
func loaded(t *testing.T) (*Model, *services.Manager) {
	t.Helper()
	mgr := newManager(t)
	for i := 0; i < 2; i++ {
		if _, err := mgr.Analyze(); err != nil {
			t.Fatalf("Analyze() failed: %v", err)
		}
	}

	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	state.SetAnalysis(mgr.Latest(), mgr.LatestRunID())

	m := New(state, mgr)
	m.SetSize(120, 50)
	m.Update(m.Init()())
	if len(m.runs) != 2 {
		t.Fatalf("expected 2 runs, got %d (err %q)", len(m.runs), m.errorMsg)
	}
	return m, mgr
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.limit() != app.DefaultHistoryLimit {
		t.Errorf("limit() = %d, want default", m.limit())
	}
}

func TestModel_InitWithoutServices(t *testing.T) {
	m := New(app.NewState(), nil)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init returned nil")
	}
	if view := m.View(); !strings.Contains(view, "Loading run history") {
		t.Errorf("View should show loading, got %q", view)
	}

	m.Update(cmd())
	if m.loading {
		t.Error("loading should be cleared")
	}
	if view := m.View(); !strings.Contains(view, "Error:") {
		t.Errorf("View should show error, got %q", view)
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), nil)
	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	m := New(app.NewState(), nil)
	m.Update(app.RunsLoadedMsg{})
	if view := m.View(); !strings.Contains(view, "No archived runs yet") {
		t.Errorf("unexpected view: %q", view)
	}
}

func TestModel_WithData(t *testing.T) {
	m, mgr := loaded(t)
	if m.limit() != 10 {
		t.Errorf("limit() = %d, want 10", m.limit())
	}

	view := m.View()
	for _, want := range []string{
		"History: 2 runs",
		"Archived Runs",
		shortID(m.runs[0].ID),
		shortID(m.runs[1].ID),
		"Run " + m.runs[0].ID.String(),
		"BenchResults.csv",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}

	// newest first, so the current run is on top
	if m.runs[0].ID != mgr.LatestRunID() {
		t.Error("latest run should be listed first")
	}
}

func TestModel_Navigation(t *testing.T) {
	m, _ := loaded(t)

	m.Update(keyPress('j'))
	if m.selected != 1 {
		t.Errorf("selected = %d, want 1", m.selected)
	}
	m.Update(keyPress('j'))
	if m.selected != 1 {
		t.Errorf("selected should stop at the last run, got %d", m.selected)
	}
	m.Update(keyPress('k'))
	m.Update(keyPress('k'))
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
}

func TestModel_DeleteConfirm(t *testing.T) {
	m, _ := loaded(t)
	m.Update(keyPress('j'))
	target := m.runs[1].ID

	_, cmd := m.Update(keyPress('d'))
	if m.pendingDelete == nil || *m.pendingDelete != target {
		t.Fatal("first d should arm the delete")
	}
	if !strings.Contains(m.View(), "Press d again") {
		t.Error("View should ask for confirmation")
	}

	_, cmd = m.Update(keyPress('d'))
	if cmd == nil {
		t.Fatal("second d should return a command")
	}
	msg, ok := cmd().(app.DeleteRunMsg)
	if !ok || msg.ID != target {
		t.Errorf("expected DeleteRunMsg for %s, got %+v", target, cmd())
	}
	if m.pendingDelete != nil {
		t.Error("pending delete should be cleared")
	}
}

func TestModel_DeleteCancel(t *testing.T) {
	m, _ := loaded(t)

	m.Update(keyPress('d'))
	if cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Error("cancel should not return a command")
	}
	if m.pendingDelete != nil {
		t.Error("pending delete should be cleared")
	}
}

func TestModel_ReloadsOnEvents(t *testing.T) {
	m, _ := loaded(t)

	_, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabHistory})
	if cmd == nil {
		t.Fatal("switching to history should reload")
	}
	if !m.loading {
		t.Error("loading should be set")
	}

	// a reload is in flight, so further triggers are ignored
	if c := m.reload(); c != nil {
		t.Error("reload should be skipped while loading")
	}

	msg := cmd()
	m.Update(msg)
	if m.loading {
		t.Error("loading should be cleared")
	}

	m.Update(app.RunDeletedMsg{ID: uuid.New()})
	if !m.loading {
		t.Error("a deleted run should trigger a reload")
	}
}

func TestModel_SelectionClampedAfterReload(t *testing.T) {
	m := New(app.NewState(), nil)
	m.selected = 3
	m.Update(app.RunsLoadedMsg{Runs: []models.Run{{ID: uuid.New()}}})
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
}

func TestModel_SuccessTrend(t *testing.T) {
	m := New(app.NewState(), nil)
	m.runs = []models.Run{
		{Summary: models.SummaryStats{SuccessRatePct: 75}},
		{Summary: models.SummaryStats{SuccessRatePct: 25}},
	}
	trend := m.successTrend()
	if len(trend) != 2 || trend[0] != 25 || trend[1] != 75 {
		t.Errorf("successTrend = %v, want oldest first", trend)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
