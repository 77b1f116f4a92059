package services

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"polio-eradicator/internal/logger"
	"polio-eradicator/internal/models"
)

const (
	snapshotWidth  = 11 * vg.Inch
	snapshotHeight = 6 * vg.Inch
	maxGlyphRadius = 0.45 * vg.Inch
)

var markerFill = color.NRGBA{R: 214, G: 39, B: 40, A: 150}

// SnapshotService renders one year of markers to a PNG chart.
type SnapshotService struct {
	log     logger.Logger
	maxSize float64
}

func NewSnapshotService(log logger.Logger, maxMarkerSize float64) *SnapshotService {
	if log == nil {
		log = logger.NewNop()
	}
	if maxMarkerSize <= 0 {
		maxMarkerSize = DefaultMaxMarkerSize
	}
	return &SnapshotService{log: log, maxSize: maxMarkerSize}
}

// Render writes the chart for year to w. A year without incidents still
// produces an image with an empty plot.
func (s *SnapshotService) Render(w io.Writer, ix *models.YearIndex, year int) error {
	markers := ix.Markers(year)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Reported polio incidents, %d", year)
	if len(markers) == 0 {
		p.Title.Text += " (none)"
	}
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -90, 90
	p.Add(plotter.NewGrid())

	if len(markers) > 0 {
		xys := make(plotter.XYs, len(markers))
		labels := make([]string, len(markers))
		for i, m := range markers {
			xys[i].X = m.Position.Lng
			xys[i].Y = m.Position.Lat
			labels[i] = m.Country
		}

		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("snapshot scatter: %w", err)
		}
		scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  markerFill,
				Shape:  draw.CircleGlyph{},
				Radius: s.glyphRadius(markers[i].Radius),
			}
		}

		names, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return fmt.Errorf("snapshot labels: %w", err)
		}
		p.Add(scatter, names)
	}

	wt, err := p.WriterTo(snapshotWidth, snapshotHeight, "png")
	if err != nil {
		return fmt.Errorf("snapshot canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.log.Info("Snapshot rendered", map[string]interface{}{
		"year":    year,
		"markers": len(markers),
	})
	return nil
}

// glyphRadius maps a map marker radius onto the chart, keeping the same
// proportions between markers.
func (s *SnapshotService) glyphRadius(radius float64) vg.Length {
	r := vg.Length(radius/s.maxSize) * maxGlyphRadius
	if r < vg.Points(1.5) {
		r = vg.Points(1.5)
	}
	return r
}
