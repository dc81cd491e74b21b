// Package chart renders the history and forecast overlay as a PNG line chart.
package chart

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"vivienda/server/internal/forecast"
	"vivienda/server/internal/models"
)

var (
	historyColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	smoothedColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	forecastColor = color.RGBA{R: 220, G: 20, B: 60, A: 255}
)

// Options controls the rendered image.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions matches the dashboard's 9x4 inch figure.
func DefaultOptions() Options {
	return Options{Title: "Serie histórica y pronóstico", Width: 9 * vg.Inch, Height: 4 * vg.Inch}
}

// Render draws points as a PNG. Missing values break the line instead of
// being drawn as zero.
func Render(w io.Writer, points []models.OverlayPoint, opts Options) error {
	groups := forecast.BySeries(points)

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Fecha"
	p.Y.Label.Text = "Índice"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Vertical.Color = color.Gray{Y: 200}
	grid.Horizontal.Color = color.Gray{Y: 200}
	p.Add(grid)

	drawn := 0

	n, err := addSeries(p, groups[models.SeriesHistorical], "Histórico", func(l *plotter.Line, s *plotter.Scatter) {
		l.Color = historyColor
		l.Width = vg.Points(1)
		s.GlyphStyle.Color = historyColor
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
	})
	if err != nil {
		return err
	}
	drawn += n

	n, err = addSeries(p, groups[models.SeriesSmoothed], "Media móvil", func(l *plotter.Line, s *plotter.Scatter) {
		l.Color = smoothedColor
		l.Width = vg.Points(1.5)
		s.GlyphStyle.Radius = 0
	})
	if err != nil {
		return err
	}
	drawn += n

	n, err = addSeries(p, groups[models.SeriesForecast], "Pronóstico (futuro)", func(l *plotter.Line, s *plotter.Scatter) {
		l.Color = forecastColor
		l.Width = vg.Points(1.5)
		l.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		s.GlyphStyle.Radius = 0
	})
	if err != nil {
		return err
	}
	drawn += n

	if drawn == 0 {
		return fmt.Errorf("%w: nothing to draw", models.ErrInsufficientData)
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// addSeries draws every contiguous run of defined values as its own line and
// adds a single legend entry. It returns the number of points drawn.
func addSeries(p *plot.Plot, points []models.OverlayPoint, label string, style func(*plotter.Line, *plotter.Scatter)) (int, error) {
	drawn := 0
	legend := false
	for _, seg := range segments(points) {
		line, scatter, err := plotter.NewLinePoints(seg)
		if err != nil {
			return 0, fmt.Errorf("failed to build %s line: %w", label, err)
		}
		style(line, scatter)
		p.Add(line)
		if scatter.GlyphStyle.Radius > 0 {
			p.Add(scatter)
		}
		if !legend {
			p.Legend.Add(label, line)
			legend = true
		}
		drawn += len(seg)
	}
	return drawn, nil
}

// segments splits points at missing values.
func segments(points []models.OverlayPoint) []plotter.XYs {
	var (
		out     []plotter.XYs
		current plotter.XYs
	)
	for _, pt := range points {
		if pt.Value == nil {
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
			continue
		}
		current = append(current, plotter.XY{X: float64(pt.Date.Unix()), Y: *pt.Value})
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}
