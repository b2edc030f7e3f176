// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/HeatXD/MinViz2024/internal/charts"
	"github.com/HeatXD/MinViz2024/internal/ui/styles"
)

// ChartColors defines colors for chart elements.
var (
	ChartNNHColor     = lipgloss.Color("#cc785c")
	ChartACOColor     = lipgloss.Color("#4285f4")
	ChartPrimaryColor = lipgloss.Color("#7D56F4")
)

// Scatter glyphs for one and several results in a cell.
const (
	scatterPoint     = '•'
	scatterCluster   = '◆'
	scatterReference = '┄'
)

// yLabelWidth is the gutter reserved for y-axis tick labels.
const yLabelWidth = 9

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)

	return graph
}

// RenderDualLineChart plots baseline and optimiser series against each other.
func RenderDualLineChart(nnh, aco []float64, width, height int, caption string) string {
	if len(nnh) == 0 && len(aco) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	// Normalize lengths - pad shorter array with zeros
	maxLen := max(len(nnh), len(aco))
	nnhData := make([]float64, maxLen)
	acoData := make([]float64, maxLen)
	copy(nnhData, nnh)
	copy(acoData, aco)

	graph := asciigraph.PlotMany([][]float64{nnhData, acoData},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(
			asciigraph.Red,
			asciigraph.Blue,
		),
	)

	return graph
}

// RenderScatter draws a view as a character-cell scatter plot of width x
// height cells, axes and labels included.
func RenderScatter(v charts.View, width, height int) string {
	title := styles.CardTitleStyle.MarginBottom(0).Render(v.Title)
	xMin, xMax, yMin, yMax, ok := v.Bounds()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render("No data available"))
	}

	plotW := max(width-yLabelWidth-1, 10)
	plotH := max(height-4, 3) // title, x axis, x labels, x name

	counts := make([][]int, plotH)
	for i := range counts {
		counts[i] = make([]int, plotW)
	}
	for _, p := range v.Points {
		col := scale(p.X, xMin, xMax, plotW)
		row := plotH - 1 - scale(p.Y, yMin, yMax, plotH)
		counts[row][col]++
	}

	refRow := -1
	if v.Reference != nil {
		refRow = plotH - 1 - scale(*v.Reference, yMin, yMax, plotH)
	}

	pointStyle := lipgloss.NewStyle().Foreground(ChartACOColor)
	lines := make([]string, 0, plotH+4)
	lines = append(lines, title)
	for row := 0; row < plotH; row++ {
		var label string
		switch row {
		case 0:
			label = formatTick(yMax)
		case plotH - 1:
			label = formatTick(yMin)
		case refRow:
			label = formatTick(*v.Reference)
		}

		var b strings.Builder
		b.WriteString(styles.AxisStyle.Render(fmt.Sprintf("%*s ", yLabelWidth-1, label)))
		b.WriteString(styles.AxisStyle.Render("│"))
		for col := 0; col < plotW; col++ {
			switch n := counts[row][col]; {
			case n > 1:
				b.WriteString(pointStyle.Render(string(scatterCluster)))
			case n == 1:
				b.WriteString(pointStyle.Render(string(scatterPoint)))
			case row == refRow:
				b.WriteString(styles.ReferenceLineStyle.Render(string(scatterReference)))
			default:
				b.WriteByte(' ')
			}
		}
		lines = append(lines, b.String())
	}

	gutter := strings.Repeat(" ", yLabelWidth)
	lines = append(lines, styles.AxisStyle.Render(gutter+"└"+strings.Repeat("─", plotW)))

	lo, hi := formatTick(xMin), formatTick(xMax)
	pad := max(plotW-len(lo)-len(hi), 1)
	lines = append(lines, styles.AxisStyle.Render(gutter+" "+lo+strings.Repeat(" ", pad)+hi))
	lines = append(lines, styles.HelpStyle.Render(gutter+" "+centerText(v.XLabel+"  vs  "+v.YLabel, plotW)))

	return strings.Join(lines, "\n")
}

// scale maps v in [lo, hi] onto a cell index in [0, cells).
func scale(v, lo, hi float64, cells int) int {
	if hi <= lo || cells <= 1 {
		return 0
	}
	i := int(math.Round((v - lo) / (hi - lo) * float64(cells-1)))
	return min(max(i, 0), cells-1)
}

func formatTick(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e7 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	// Find max value for scaling
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Find max label length
	maxLabelLen := 0
	for _, l := range labels {
		if len(l) > maxLabelLen {
			maxLabelLen = len(l)
		}
	}

	barWidth := width - maxLabelLen - 10 // Leave room for label and value
	if barWidth < 10 {
		barWidth = 10
	}

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		// Pad label
		paddedLabel := fmt.Sprintf("%*s", maxLabelLen, label)

		// Calculate bar length
		barLen := int((v / maxVal) * float64(barWidth))
		if barLen < 0 {
			barLen = 0
		}

		bar := strings.Repeat("█", barLen)
		valueStr := fmt.Sprintf(" %.1f", v)

		line := paddedLabel + " │" + bar + valueStr
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	// Find max value
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		idx := int(float64(i) * step)
		normalized := int((values[idx] / maxVal) * float64(len(sparkChars)-1))
		normalized = min(max(normalized, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
