// Package history provides the tab for browsing archived analysis runs.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/HeatXD/MinViz2024/internal/app"
	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/services"
)

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Delete  key.Binding
	Cancel  key.Binding
	Refresh key.Binding
}

// defaultKeyMap returns the default key bindings for the history tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev run"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next run"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete run"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "reload list"),
		),
	}
}

// Model represents the history tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	runs          []models.Run
	selected      int
	pendingDelete *uuid.UUID
	loading       bool
	lastRefresh   time.Time
	errorMsg      string
}

// New creates a new history model.
func New(state *app.State, svc *services.Manager) *Model {
	return &Model{
		state:    state,
		services: svc,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the history tab.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.loadRunsCmd()
}

func (m *Model) limit() int {
	if m.services != nil && m.services.Config() != nil && m.services.Config().HistoryLimit > 0 {
		return m.services.Config().HistoryLimit
	}
	return app.DefaultHistoryLimit
}

// loadRunsCmd creates a command to list archived runs.
func (m *Model) loadRunsCmd() tea.Cmd {
	svc := m.services
	limit := m.limit()
	return func() tea.Msg {
		if svc == nil {
			return app.RunsLoadedMsg{Error: services.ErrNoDatabase}
		}
		runs, err := svc.ListRuns(limit)
		return app.RunsLoadedMsg{Runs: runs, Error: err}
	}
}

func (m *Model) reload() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	return m.loadRunsCmd()
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.RunsLoadedMsg:
		m.handleRunsLoaded(msg)

	case app.TabSwitchMsg:
		if msg.Tab == app.TabHistory {
			cmds = append(cmds, m.reload())
		}

	case app.AnalysisLoadedMsg, app.RunDeletedMsg:
		cmds = append(cmds, m.reload())

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleRunsLoaded(msg app.RunsLoadedMsg) {
	m.loading = false
	if msg.Error != nil {
		m.errorMsg = msg.Error.Error()
		return
	}
	m.errorMsg = ""
	m.runs = msg.Runs
	m.lastRefresh = time.Now()
	m.selected = min(m.selected, max(len(m.runs)-1, 0))
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.pendingDelete != nil {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if len(m.runs) > 0 {
			m.selected = min(m.selected+1, len(m.runs)-1)
		}
	case key.Matches(msg, m.keys.Up):
		m.selected = max(m.selected-1, 0)
	case key.Matches(msg, m.keys.Delete):
		if run := m.Selected(); run != nil {
			id := run.ID
			m.pendingDelete = &id
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.reload()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// handleConfirmKey resolves a pending delete: d confirms, anything else cancels.
func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	id := *m.pendingDelete
	m.pendingDelete = nil

	if !key.Matches(msg, m.keys.Delete) {
		return nil
	}
	return func() tea.Msg { return app.DeleteRunMsg{ID: id} }
}

// Selected returns the highlighted run, or nil if there are none.
func (m *Model) Selected() *models.Run {
	if m.selected < 0 || m.selected >= len(m.runs) {
		return nil
	}
	return &m.runs[m.selected]
}

// successTrend returns the success rates of the listed runs, oldest first.
func (m *Model) successTrend() []float64 {
	trend := make([]float64, len(m.runs))
	for i, r := range m.runs {
		trend[len(m.runs)-1-i] = r.Summary.SuccessRatePct
	}
	return trend
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Down,
		m.keys.Up,
		m.keys.Delete,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Delete, m.keys.Cancel, m.keys.Refresh},
	}
}

func shortID(id uuid.UUID) string {
	return fmt.Sprintf("%.8s", id.String())
}
