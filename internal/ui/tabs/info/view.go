package info

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/HeatXD/MinViz2024/internal/ui/styles"
	"github.com/HeatXD/MinViz2024/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDataCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

// renderConfigCard renders the configuration paths card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if m.config != nil {
		watch := "off"
		if m.config.WatchResults {
			watch = "on, debounce " + m.config.ReloadDebounce.String()
		}
		rows = append(rows,
			m.renderConfigRow("Results File", m.config.ResultsPath),
			m.renderConfigRow("Database", m.config.DatabasePath),
			m.renderConfigRow("Chart Directory", m.config.ChartDir),
			m.renderConfigRow("Chart Size", fmt.Sprintf("%dx%d px", m.config.ChartWidth, m.config.ChartHeight)),
			m.renderConfigRow("Log File", m.config.LogPath),
			m.renderConfigRow("Log Level", m.config.LogLevel),
			m.renderConfigRow("Watch Results", watch),
			m.renderConfigRow("Desktop Alerts", strconv.FormatBool(m.config.NotifyOnReload)),
			m.renderConfigRow("History Limit", strconv.Itoa(m.config.HistoryLimit)),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderDataCard describes the analysis currently on screen.
func (m *Model) renderDataCard() string {
	rows := []string{styles.CardTitleStyle.Render("Current Analysis")}

	a := m.state.GetAnalysis()
	if a == nil {
		rows = append(rows, styles.HelpStyle.Render("No analysis loaded"))
	} else {
		updated := m.state.GetLastUpdated()
		rows = append(rows,
			m.renderConfigRow("Source", a.Source),
			m.renderConfigRow("Records", strconv.Itoa(a.Records)),
			m.renderConfigRow("Instances", strconv.Itoa(len(a.Results))),
			m.renderConfigRow("Skipped", strconv.Itoa(a.Skipped.Instances)),
			m.renderConfigRow("Run ID", m.state.GetRunID().String()),
			m.renderConfigRow("Updated", fmt.Sprintf("%s (%s ago)",
				updated.Local().Format("15:04:05"),
				m.state.TimeSinceUpdate().Truncate(time.Second))),
		)
	}

	if err := m.state.GetLastError(); err != nil {
		rows = append(rows, "", styles.ErrorTextStyle.Render("Last error: "+err.Error()))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About MinViz"))

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
