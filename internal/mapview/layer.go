package mapview

import (
	"image/color"
	"math"

	"polio-eradicator/internal/models"
)

var (
	// Same stroke and fill Leaflet gives circle markers by default.
	defaultStroke = color.NRGBA{R: 0x33, G: 0x88, B: 0xff, A: 0xff}
	defaultFill   = color.NRGBA{R: 0x33, G: 0x88, B: 0xff, A: 0x33}
)

const defaultStrokeWidth = 3

// CircleMarker is a circle whose radius is in screen pixels, independent
// of zoom.
type CircleMarker struct {
	Position models.LatLng
	Radius   float64
	Popup    string
	Stroke   color.Color
	Fill     color.Color
}

func NewCircleMarker(pos models.LatLng, radius float64) CircleMarker {
	return CircleMarker{
		Position: pos,
		Radius:   radius,
		Stroke:   defaultStroke,
		Fill:     defaultFill,
	}
}

// BindPopup returns the marker with text attached as its popup.
func (m CircleMarker) BindPopup(text string) CircleMarker {
	m.Popup = text
	return m
}

// contains reports whether p lies inside the marker drawn around center.
func (m CircleMarker) contains(center, p Point) bool {
	return math.Hypot(p.X-center.X, p.Y-center.Y) <= m.Radius
}

// LayerGroup is a named set of markers that can be cleared as a unit.
type LayerGroup struct {
	name    string
	markers []CircleMarker
}

func NewLayerGroup(name string) *LayerGroup {
	return &LayerGroup{name: name}
}

func (g *LayerGroup) Name() string { return g.name }

func (g *LayerGroup) AddLayer(m CircleMarker) {
	g.markers = append(g.markers, m)
}

func (g *LayerGroup) ClearLayers() {
	g.markers = nil
}

func (g *LayerGroup) Len() int { return len(g.markers) }

// Markers returns the group's markers in insertion order.
func (g *LayerGroup) Markers() []CircleMarker {
	out := make([]CircleMarker, len(g.markers))
	copy(out, g.markers)
	return out
}
