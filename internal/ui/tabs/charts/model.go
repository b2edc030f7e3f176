// Package charts provides the tab that plots convergence results as
// terminal scatter charts.
package charts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HeatXD/MinViz2024/internal/app"
	chartdata "github.com/HeatXD/MinViz2024/internal/charts"
	"github.com/HeatXD/MinViz2024/internal/ui/components"
	"github.com/HeatXD/MinViz2024/internal/ui/styles"
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Export key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("n", "]"),
			key.WithHelp("n", "next chart"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "["),
			key.WithHelp("p", "prev chart"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export PNG"),
		),
	}
}

// viewCount is the number of fixed chart views.
const viewCount = 4

// Model represents the charts tab state.
type Model struct {
	state  *app.State
	keys   keyMap
	width  int
	height int
	active chartdata.ViewID
}

// New creates a new charts model.
func New(state *app.State) *Model {
	return &Model{
		state:  state,
		keys:   defaultKeyMap(),
		active: chartdata.ViewIterations,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Next):
			m.active = (m.active + 1) % viewCount
		case key.Matches(msg, m.keys.Prev):
			m.active = (m.active - 1 + viewCount) % viewCount
		}
	}
	return m, nil
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Active returns the view currently shown.
func (m *Model) Active() chartdata.ViewID {
	return m.active
}

// View renders the charts tab.
func (m *Model) View() string {
	results := m.state.GetResults()
	if len(results) == 0 {
		return styles.DocStyle.Render(styles.HelpStyle.Render("No results to plot yet. Press r to reload."))
	}

	views := chartdata.Views(results)
	v := views[m.active]

	plotWidth := max(m.width-8, 40)
	plotHeight := max(m.height-6, 10)

	sections := []string{
		m.renderSelector(views),
		"",
		components.RenderScatter(v, plotWidth, plotHeight),
		m.renderFooter(v, len(results)),
	}

	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderSelector(views []chartdata.View) string {
	parts := make([]string, 0, len(views))
	for _, v := range views {
		label := fmt.Sprintf("%d %s", int(v.ID)+1, shortTitle(v.ID))
		if v.ID == m.active {
			parts = append(parts, styles.FocusedStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, styles.HelpStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

func shortTitle(id chartdata.ViewID) string {
	switch id {
	case chartdata.ViewIterations:
		return "Iterations"
	case chartdata.ViewImprovement:
		return "Improvement"
	case chartdata.ViewConvergenceTime:
		return "Time"
	case chartdata.ViewTimeRatio:
		return "Time Ratio"
	default:
		return "?"
	}
}

func (m *Model) renderFooter(v chartdata.View, total int) string {
	items := []components.LegendItem{{Label: "result", Color: components.ChartACOColor}}
	if v.Reference != nil {
		items = append(items, components.LegendItem{
			Label: fmt.Sprintf("y = %g", *v.Reference),
			Color: styles.Error,
		})
	}

	note := fmt.Sprintf("%d of %d configurations plotted", len(v.Points), total)
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		components.RenderLegend(items)+"   "+styles.HelpStyle.Render(note),
	)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Next, m.keys.Prev, m.keys.Export}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Next, m.keys.Prev}, {m.keys.Export}}
}
