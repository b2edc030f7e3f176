package history

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/report"
	"github.com/HeatXD/MinViz2024/internal/ui/components"
	"github.com/HeatXD/MinViz2024/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	if m.loading && len(m.runs) == 0 {
		return m.renderLoading()
	}
	if m.errorMsg != "" {
		return m.renderError()
	}
	if len(m.runs) == 0 {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(),
		m.renderRunList(),
	}
	if run := m.Selected(); run != nil {
		sections = append(sections, m.renderRunDetail(run))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading run history..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("No archived runs yet."),
		styles.HelpStyle.Render("Every analysis of the results file is recorded here."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render(fmt.Sprintf("History: %d runs", len(m.runs)))

	trend := components.RenderSparkline(m.successTrend(), max(m.width-40, 10))
	trendStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", trendStyle.Render("success "+trend))

	subtitle := ""
	if !m.lastRefresh.IsZero() {
		subtitle = styles.HelpStyle.Render("Updated " + m.lastRefresh.Format("15:04:05"))
	}
	if m.pendingDelete != nil {
		subtitle = styles.WarningTextStyle.Render(fmt.Sprintf(
			"Delete run %s? Press d again to confirm, any other key to cancel", shortID(*m.pendingDelete)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderRunList() string {
	cardWidth := max(m.width-6, 40)
	current := m.state.GetRunID()

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Archived Runs"))}

	for i, r := range m.runs {
		prefix := "  "
		if i == m.selected {
			prefix = styles.FocusedStyle.Render("▸ ")
		}
		marker := "  "
		if r.ID == current {
			marker = styles.SuccessTextStyle.Render("● ")
		}

		rate := styles.GetSuccessStyle(r.Summary.SuccessRatePct).
			Width(8).
			Align(lipgloss.Right).
			Render(fmt.Sprintf("%.2f%%", r.Summary.SuccessRatePct))

		line := fmt.Sprintf("%s%s%s  %s  %3d/%-3d %s  %s",
			prefix,
			marker,
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Summary.Wins,
			r.Summary.Total,
			rate,
			styles.HelpStyle.Render(r.Source),
		)
		rows = append(rows, line)
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderRunDetail(r *models.Run) string {
	cardWidth := max(m.width-6, 40)
	s := r.Summary

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Run "+r.ID.String())),
		fmt.Sprintf("  Source        %s (%d records)", r.Source, r.Records),
		"  " + components.SimpleSuccessBar(s.SuccessRatePct,
			fmt.Sprintf("Wins %d/%d", s.Wins, s.Total), cardWidth-8),
		fmt.Sprintf("  Iterations    mean %s  median %s",
			report.Optional(s.MeanIteration, ""), report.Optional(s.MedianIteration, "")),
		fmt.Sprintf("  Time          mean %s  median %s",
			report.Optional(s.MeanTimeMs, " ms"), report.Optional(s.MedianTimeMs, " ms")),
		fmt.Sprintf("  Improvement   mean %s", report.Optional(s.MeanImprovementPct, "%")),
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
