package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/simaogato/wealthsnap-backend/internal/usecase/metrics"
)

// ErrNoData is returned when the series has no points to draw
var ErrNoData = errors.New("trend series is empty")

const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var (
	lineColor = color.RGBA{R: 0x24, G: 0x7B, B: 0xA0, A: 0xFF}
	gridColor = color.RGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}
)

// Options controls the rendered image
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	Format string // png, svg, pdf...
}

// RenderTrend draws series as a dated line chart and writes the encoded image to w
func RenderTrend(w io.Writer, series []metrics.TrendPoint, metric metrics.Metric, opts Options) error {
	if len(series) == 0 {
		return ErrNoData
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Format == "" {
		opts.Format = "png"
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = defaultTitle(metric)
	}
	p.X.Label.Text = "Date"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Y.Label.Text = yLabel(metric)

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	p.Add(grid)

	xys := make(plotter.XYs, len(series))
	for i, point := range series {
		xys[i].X = float64(point.Time().Unix())
		xys[i].Y = point.Value.InexactFloat64()
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("failed to build line: %w", err)
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = lineColor

	points, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("failed to build points: %w", err)
	}
	points.GlyphStyle.Color = lineColor
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(2.5)

	p.Add(line, points)

	// A single sample would give a zero-width axis
	if len(series) == 1 {
		const day = 24 * 60 * 60
		p.X.Min, p.X.Max = xys[0].X-day, xys[0].X+day
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", opts.Format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func defaultTitle(metric metrics.Metric) string {
	if metric == metrics.MetricReturnRate {
		return "Return rate"
	}
	return "Net worth"
}

func yLabel(metric metrics.Metric) string {
	if metric == metrics.MetricReturnRate {
		return "Return (%)"
	}
	return "Total"
}
