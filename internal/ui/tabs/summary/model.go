// Package summary provides the overview tab: headline convergence figures
// and the per point count breakdown.
package summary

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/HeatXD/MinViz2024/internal/app"
	"github.com/HeatXD/MinViz2024/internal/ui/components"
)

type animationTickMsg time.Time

func animationTickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*40, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

const animationDuration = 1.5 // seconds

// keyMap defines the key bindings specific to the summary tab.
type keyMap struct {
	NextRow  key.Binding
	PrevRow  key.Binding
	FirstRow key.Binding
	LastRow  key.Binding
}

// defaultKeyMap returns the default key bindings for the summary tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextRow: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next point count"),
		),
		PrevRow: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev point count"),
		),
		FirstRow: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first point count"),
		),
		LastRow: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last point count"),
		),
	}
}

// AnimationState tracks the state of an animation.
type AnimationState struct {
	StartTime      time.Time
	CurrentPercent float64
	TargetPercent  float64
	StartPercent   float64
}

// Model represents the summary tab state.
type Model struct {
	state          *app.State
	animations     map[int]*AnimationState // keyed by point count
	spinner        components.LoadingSpinner
	keys           keyMap
	viewport       viewport.Model
	width          int
	height         int
	selectedIndex  int
	animationFrame int
}

// New creates a new summary model.
func New(state *app.State) *Model {
	return &Model{
		state:      state,
		spinner:    components.NewSpinner("Analysing results..."),
		keys:       defaultKeyMap(),
		viewport:   viewport.New(0, 0),
		animations: make(map[int]*AnimationState),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), animationTickCmd())
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case animationTickMsg:
		cmds = append(cmds, m.handleAnimationTick(msg))

	case app.StartLoadingMsg:
		cmds = append(cmds, animationTickCmd())

	case app.AnalysisLoadedMsg, app.TabSwitchMsg:
		m.clampSelection()
		m.syncAnimationTargets(time.Now())
		cmds = append(cmds, animationTickCmd())

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAnimationTick(msg animationTickMsg) tea.Cmd {
	m.animationFrame++
	now := time.Time(msg)

	animating := m.syncAnimationTargets(now)
	m.stepAnimations(now)

	if animating || m.state.AnyLoading() || m.state.IsInitialLoading() {
		return animationTickCmd()
	}
	return nil
}

func (m *Model) pointCounts() []int {
	a := m.state.GetAnalysis()
	if a == nil {
		return nil
	}
	return a.SortedPointCounts()
}

func (m *Model) clampSelection() {
	n := len(m.pointCounts())
	m.selectedIndex = min(max(m.selectedIndex, 0), max(n-1, 0))
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := len(m.pointCounts())

	switch {
	case key.Matches(msg, m.keys.NextRow):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevRow):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstRow):
		m.selectedIndex = 0
	case key.Matches(msg, m.keys.LastRow):
		if count > 0 {
			m.selectedIndex = count - 1
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the summary.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// syncAnimationTargets points every success bar at its latest rate and
// reports whether any bar still has to move.
func (m *Model) syncAnimationTargets(now time.Time) (animating bool) {
	a := m.state.GetAnalysis()
	if a == nil {
		return false
	}

	for pc, st := range a.ByPointCount {
		if m.updateAnimationState(pc, st.SuccessRate*100, now) {
			animating = true
		}
	}
	return animating
}

func (m *Model) updateAnimationState(pointCount int, target float64, now time.Time) bool {
	state, exists := m.animations[pointCount]
	if !exists {
		state = &AnimationState{StartTime: now}
		m.animations[pointCount] = state
	}

	if target != state.TargetPercent {
		state.StartPercent = state.CurrentPercent
		state.TargetPercent = target
		state.StartTime = now
	}

	return state.CurrentPercent != state.TargetPercent
}

func (m *Model) stepAnimations(now time.Time) {
	for _, state := range m.animations {
		if state.CurrentPercent == state.TargetPercent {
			continue
		}
		elapsed := now.Sub(state.StartTime).Seconds()
		if elapsed >= animationDuration {
			state.CurrentPercent = state.TargetPercent
			continue
		}
		progress := elapsed / animationDuration
		ease := 1.0 - (1.0-progress)*(1.0-progress)
		state.CurrentPercent = state.StartPercent + (state.TargetPercent-state.StartPercent)*ease
	}
}

// displayPercent returns the animated success rate of a point count.
func (m *Model) displayPercent(pointCount int, target float64) float64 {
	if anim, ok := m.animations[pointCount]; ok {
		return anim.CurrentPercent
	}
	return target
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextRow, m.keys.PrevRow}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextRow, m.keys.PrevRow},
		{m.keys.FirstRow, m.keys.LastRow},
	}
}
