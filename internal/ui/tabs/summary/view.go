package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HeatXD/MinViz2024/internal/app"
	"github.com/HeatXD/MinViz2024/internal/models"
	"github.com/HeatXD/MinViz2024/internal/report"
	"github.com/HeatXD/MinViz2024/internal/ui/components"
	"github.com/HeatXD/MinViz2024/internal/ui/styles"
)

// View renders the summary tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	a := m.state.GetAnalysis()
	cardWidth := max(m.width-6, 40)

	sections := []string{m.renderTitle(a)}
	if err := m.state.GetLastError(); err != nil {
		sections = append(sections, m.renderError(err, a != nil), "")
	}
	if a != nil && m.state.IsLoading(app.ResourceAnalysis) {
		sections = append(sections, components.LoadingBar(cardWidth, m.animationFrame), "")
	}

	if a == nil {
		sections = append(sections, m.renderEmpty(cardWidth))
	} else {
		sections = append(sections,
			m.renderOverview(a, cardWidth),
			m.renderPointCounts(a, cardWidth),
			m.renderIterationChart(a, cardWidth),
			m.renderDistanceChart(a, cardWidth),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(a *models.Analysis) string {
	title := styles.TitleStyle.Render("ACO vs NNH Convergence")
	subtitle := "No results analysed yet"
	if a != nil {
		subtitle = fmt.Sprintf("%s · %d records · analysed %s",
			a.Source, a.Records, a.CreatedAt.Local().Format("15:04:05"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderError(err error, stale bool) string {
	msg := "Analysis failed: " + err.Error()
	if stale {
		msg = "Last reload failed, showing previous results: " + err.Error()
	}
	return styles.ErrorTextStyle.Render("✗ " + msg)
}

func (m *Model) renderEmpty(cardWidth int) string {
	icon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
	rows := []string{
		cardTitle("Results"),
		fmt.Sprintf("  %s %s", icon, styles.HelpStyle.Render("Nothing to show")),
		"",
		styles.InfoTextStyle.Render("  ╰─▶ Write benchmark results and press r to reload"),
	}
	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func cardTitle(title string) string {
	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	return fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render(title))
}

func (m *Model) renderOverview(a *models.Analysis, cardWidth int) string {
	s := a.Summary
	rows := []string{cardTitle("Overview")}

	rows = append(rows,
		statLine("Configurations", fmt.Sprintf("%d", s.Total)),
		statLine("ACO beats NNH", styles.GetOutcomeStyle(s.Wins > 0).Render(fmt.Sprintf("%d", s.Wins))),
		"  "+components.SimpleSuccessBar(s.SuccessRatePct, "Success", cardWidth-8),
		"",
		styles.SubTitleStyle.MarginBottom(0).Render("  When ACO beats NNH"),
		statLine("Iterations (mean / median)", report.Optional(s.MeanIteration, "")+" / "+report.Optional(s.MedianIteration, "")),
		statLine("Time (mean / median)", report.Optional(s.MeanTimeMs, " ms")+" / "+report.Optional(s.MedianTimeMs, " ms")),
		statLine("Improvement over NNH", report.Optional(s.MeanImprovementPct, "%")),
	)

	if a.Skipped.Instances > 0 {
		rows = append(rows, "", styles.WarningTextStyle.Render(fmt.Sprintf(
			"  ⚠ Skipped %d instances: %d without NNH, %d without ACO",
			a.Skipped.Instances, a.Skipped.MissingBaseline, a.Skipped.MissingOptimizerRuns)))
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func statLine(label, value string) string {
	return fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(28).Render(label),
		value)
}

func (m *Model) renderPointCounts(a *models.Analysis, cardWidth int) string {
	rows := []string{cardTitle("By Point Count")}

	counts := a.SortedPointCounts()
	if len(counts) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No point counts"))
		return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	for i, pc := range counts {
		st := a.ByPointCount[pc]
		selected := i == m.selectedIndex

		prefix := "  "
		if selected {
			prefix = styles.FocusedStyle.Render("▸ ")
		}
		label := fmt.Sprintf("%5d pts %3d/%-3d", pc, st.Wins, st.Count)
		bar := components.SimpleSuccessBar(m.displayPercent(pc, st.SuccessRate*100), label, cardWidth-6)
		rows = append(rows, prefix+bar)

		if selected {
			rows = append(rows, m.renderPointCountDetail(st)...)
		}
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderPointCountDetail(st models.PointCountStats) []string {
	detail := func(label string, d models.Dispersion, suffix string) string {
		return styles.HelpStyle.Render(fmt.Sprintf("      %-12s mean %s  median %s  std %s  (n=%d)",
			label,
			report.Optional(d.Mean, suffix),
			report.Optional(d.Median, suffix),
			report.Optional(d.Std, suffix),
			d.N))
	}
	return []string{
		detail("iterations", st.Iteration, ""),
		detail("time", st.TimeMs, " ms"),
		styles.HelpStyle.Render(fmt.Sprintf("      %-12s mean %s  std %s",
			"improvement",
			report.Optional(st.ImprovementMean, "%"),
			report.Optional(st.ImprovementStd, "%"))),
	}
}

// renderIterationChart plots mean iterations to beat NNH against point count.
func (m *Model) renderIterationChart(a *models.Analysis, cardWidth int) string {
	var data []float64
	var labels []string
	for _, pc := range a.SortedPointCounts() {
		if mean := a.ByPointCount[pc].Iteration.Mean; mean != nil {
			data = append(data, *mean)
			labels = append(labels, fmt.Sprintf("%d", pc))
		}
	}

	rows := []string{cardTitle("Mean Iterations to Beat NNH")}
	switch {
	case len(data) == 0:
		rows = append(rows, styles.HelpStyle.Render("  ACO never beat NNH"))
	case len(data) == 1:
		rows = append(rows, components.RenderBarChart(data, labels, cardWidth-6))
	default:
		rows = append(rows, components.RenderLineChart(data, cardWidth-16, 8,
			"point counts "+strings.Join(labels, ", ")))
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderDistanceChart compares the mean NNH distance with the mean best ACO
// distance for each point count.
func (m *Model) renderDistanceChart(a *models.Analysis, cardWidth int) string {
	type sums struct {
		nnh, aco float64
		n        int
	}
	byPC := make(map[int]*sums)
	for _, r := range a.Results {
		s, ok := byPC[r.PointCount]
		if !ok {
			s = &sums{}
			byPC[r.PointCount] = s
		}
		s.nnh += r.BaselineDistance
		s.aco += r.BestACODistance
		s.n++
	}

	var nnh, aco []float64
	var labels []string
	for _, pc := range a.SortedPointCounts() {
		s, ok := byPC[pc]
		if !ok {
			continue
		}
		nnh = append(nnh, s.nnh/float64(s.n))
		aco = append(aco, s.aco/float64(s.n))
		labels = append(labels, fmt.Sprintf("%d", pc))
	}

	rows := []string{cardTitle("Mean Distance: NNH vs best ACO")}
	if len(nnh) < 2 {
		rows = append(rows, styles.HelpStyle.Render("  Needs at least two point counts"))
	} else {
		rows = append(rows,
			components.RenderDualLineChart(nnh, aco, cardWidth-16, 8,
				"point counts "+strings.Join(labels, ", ")),
			components.RenderLegend([]components.LegendItem{
				{Label: "NNH", Color: components.ChartNNHColor},
				{Label: "ACO", Color: components.ChartACOColor},
			}),
		)
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
