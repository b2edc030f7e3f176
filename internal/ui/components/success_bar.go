package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HeatXD/MinViz2024/internal/logger"
	"github.com/HeatXD/MinViz2024/internal/ui/styles"
)

type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

const (
	barLowColor  = "#ff6b6b"
	barHighColor = "#51cf66"
)

// SuccessBar renders how often the optimiser beat the baseline as an
// animated progress bar.
type SuccessBar struct {
	progress       progress.Model
	label          string
	percent        float64
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewSuccessBar creates a new success bar with gradient colors.
func NewSuccessBar() SuccessBar {
	return NewSuccessBarWithWidth(30)
}

// NewSuccessBarWithWidth creates a success bar with a specific width.
func NewSuccessBarWithWidth(width int) SuccessBar {
	p := progress.New(
		progress.WithScaledGradient(barLowColor, barHighColor),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return SuccessBar{progress: p}
}

// Init initializes the progress bar model.
func (b SuccessBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (b SuccessBar) Update(msg tea.Msg) (SuccessBar, tea.Cmd) {
	var cmds []tea.Cmd

	if _, ok := msg.(AnimationTickMsg); ok && b.isAnimating {
		switch {
		case b.currentPercent < b.targetPercent:
			step := max((b.targetPercent-b.currentPercent)/10, 0.5)
			b.currentPercent = min(b.currentPercent+step, b.targetPercent)
			cmds = append(cmds, animationTick())
		case b.currentPercent > b.targetPercent:
			step := max((b.currentPercent-b.targetPercent)/10, 0.5)
			b.currentPercent = max(b.currentPercent-step, b.targetPercent)
			cmds = append(cmds, animationTick())
		default:
			b.isAnimating = false
		}
	}

	model, cmd := b.progress.Update(msg)
	b.progress = model.(progress.Model)
	cmds = append(cmds, cmd)

	return b, tea.Batch(cmds...)
}

// SetPercent sets the target percentage and starts animating towards it.
func (b *SuccessBar) SetPercent(percent float64) tea.Cmd {
	b.percent = percent
	b.targetPercent = percent

	if !b.isAnimating {
		b.isAnimating = true
		return tea.Batch(
			b.progress.SetPercent(percent/100),
			animationTick(),
		)
	}

	return b.progress.SetPercent(percent / 100)
}

// Percent returns the target percentage.
func (b SuccessBar) Percent() float64 {
	return b.percent
}

// Displayed returns the percentage currently drawn while animating.
func (b SuccessBar) Displayed() float64 {
	return b.currentPercent
}

// SetLabel sets the bar label.
func (b *SuccessBar) SetLabel(label string) {
	b.label = label
}

// View renders the bar with its label and percentage.
func (b SuccessBar) View(width int) string {
	barWidth := max(width-30, 10) // Reserve space for label and percentage
	b.progress.Width = barWidth

	bar := b.progress.ViewAs(b.percent / 100)

	percentStr := styles.GetSuccessStyle(b.percent).
		Width(8).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.2f%%", b.percent))

	labelStr := styles.ProgressLabelStyle.Width(15).Render(b.label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		percentStr,
	)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	filled = min(max(filled, 0), width)

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(barLowColor, barHighColor, t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleSuccessBar renders a static labelled gradient bar, used for rows in
// the per point count breakdown.
func SimpleSuccessBar(percent float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 8
	barWidth := max(width-labelWidth-percentWidth-4, 5)

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetSuccessStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.2f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}

// LoadingBar renders a shimmering placeholder bar while an analysis runs.
func LoadingBar(width int, frame int) string {
	barWidth := max(width-8, 10)

	const cycle = 120
	t := float64(frame%cycle) / float64(cycle)
	var p float64
	if t < 0.5 {
		p = t * 2
	} else {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	shimmerPos := int(eased * float64(barWidth))

	var barChars []string
	for i := 0; i < barWidth; i++ {
		dist := shimmerPos - i
		if dist < 0 {
			dist = -dist
		}

		var char string
		var style lipgloss.Style
		switch {
		case dist < 3:
			char = "▓"
			style = lipgloss.NewStyle().Foreground(styles.ACO)
		case dist < 5:
			char = "▒"
			style = lipgloss.NewStyle().Foreground(styles.TextSecondary)
		default:
			char = "░"
			style = lipgloss.NewStyle().Foreground(styles.BgLight)
		}
		barChars = append(barChars, style.Render(char))
	}

	dots := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	dot := lipgloss.NewStyle().Foreground(styles.ACO).Render(dots[(frame/2)%len(dots)])

	return "    " + strings.Join(barChars, "") + " " + dot
}
