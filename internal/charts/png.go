package charts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/HeatXD/MinViz2024/internal/logger"
)

// ErrEmptyView is returned when a view without points is rendered.
var ErrEmptyView = errors.New("view has no points to plot")

// pointStyle renders points only, with no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func referenceStyle() chart.Style {
	return chart.Style{
		StrokeColor:     chart.ColorRed.WithAlpha(128),
		StrokeWidth:     1.5,
		StrokeDashArray: []float64{6, 4},
	}
}

// buildChart lays out v on a width x height canvas.
func buildChart(v View, width, height int) (*chart.Chart, error) {
	xMin, xMax, yMin, yMax, ok := v.Bounds()
	if !ok {
		return nil, fmt.Errorf("%s: %w", v.Title, ErrEmptyView)
	}

	xs := make([]float64, 0, len(v.Points)+1)
	ys := make([]float64, 0, len(v.Points)+1)
	for _, p := range v.Points {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	st := pointStyle(chart.ColorBlue)
	if len(xs) == 1 {
		// go-chart wants at least two values per series
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
		st.DotWidth = 6
	}

	series := []chart.Series{
		chart.ContinuousSeries{Name: "Results", XValues: xs, YValues: ys, Style: st},
	}
	if v.Reference != nil {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("y = %g", *v.Reference),
			XValues: []float64{xMin, xMax},
			YValues: []float64{*v.Reference, *v.Reference},
			Style:   referenceStyle(),
		})
	}

	ch := &chart.Chart{
		Title:      v.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Name: v.XLabel, Range: &chart.ContinuousRange{Min: xMin, Max: xMax}},
		YAxis:      chart.YAxis{Name: v.YLabel, Range: &chart.ContinuousRange{Min: yMin, Max: yMax}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch, nil
}

// RenderPNG draws v as a PNG image of the given size.
func RenderPNG(w io.Writer, v View, width, height int) error {
	ch, err := buildChart(v, width, height)
	if err != nil {
		return err
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render %s: %w", v.ID.Slug(), err)
	}
	return nil
}

// ExportPNG writes every non-empty view to dir as <slug>.png and returns the
// paths written. Empty views are skipped.
func ExportPNG(dir string, views []View, width, height int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	var written []string
	for _, v := range views {
		if v.Empty() {
			logger.Warn("Skipping empty chart", "view", v.ID.Slug())
			continue
		}

		path := filepath.Join(dir, v.ID.Slug()+".png")
		if err := writePNG(path, v, width, height); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writePNG(path string, v View, width, height int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return RenderPNG(f, v, width, height)
}
