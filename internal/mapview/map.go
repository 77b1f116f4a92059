package mapview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"polio-eradicator/internal/models"
)

var oceanColor = color.NRGBA{R: 0xaa, G: 0xd3, B: 0xdf, A: 0xff}

// WorldSource produces the stitched base map for a zoom level.
type WorldSource interface {
	World(ctx context.Context, zoom int) (image.Image, error)
}

// Map is a slippy-map style widget: a tiled base image under named layer
// groups of circle markers. Everything is drawn into one raster so markers
// never spill outside the widget.
type Map struct {
	widget.BaseWidget

	center models.LatLng
	zoom   int
	layer  TileLayer
	base   image.Image

	groups map[string]*LayerGroup
	order  []string

	// OnMarkerTapped is called with the marker under a tap, if any.
	OnMarkerTapped func(CircleMarker)
}

func NewMap() *Map {
	m := &Map{groups: make(map[string]*LayerGroup)}
	m.ExtendBaseWidget(m)
	return m
}

// SetView recenters the map.
func (m *Map) SetView(center models.LatLng, zoom int) {
	m.setView(center, zoom)
	m.Refresh()
}

func (m *Map) setView(center models.LatLng, zoom int) {
	m.center = center
	m.zoom = clampZoom(zoom)
}

// View returns the current center and zoom.
func (m *Map) View() (models.LatLng, int) {
	return m.center, m.zoom
}

// SetTileLayer configures where the base map comes from. Call LoadTiles to
// fetch it.
func (m *Map) SetTileLayer(layer TileLayer) {
	m.layer = layer
}

// AddLayerGroup puts a group on the map, or returns the one already there.
func (m *Map) AddLayerGroup(name string) *LayerGroup {
	if g, ok := m.groups[name]; ok {
		return g
	}
	g := NewLayerGroup(name)
	m.groups[name] = g
	m.order = append(m.order, name)
	return g
}

// Group looks up a layer group by name.
func (m *Map) Group(name string) (*LayerGroup, bool) {
	g, ok := m.groups[name]
	return g, ok
}

// Apply runs cmds in order and redraws once. Commands that fail are
// skipped; their errors are joined in the result.
func (m *Map) Apply(cmds ...Command) error {
	var errs []error
	for _, cmd := range cmds {
		if err := cmd.apply(m); err != nil {
			errs = append(errs, err)
		}
	}
	m.Refresh()
	return errors.Join(errs...)
}

// SetBaseImage replaces the world image drawn under the markers.
func (m *Map) SetBaseImage(img image.Image) {
	m.base = img
	m.Refresh()
}

// LoadTiles fetches the base map in the background and installs it on the
// UI goroutine. done, if set, also runs on the UI goroutine.
func (m *Map) LoadTiles(ctx context.Context, src WorldSource, done func(error)) {
	zoom := m.zoom
	go func() {
		img, err := src.World(ctx, zoom)
		fyne.Do(func() {
			if img != nil && ctx.Err() == nil {
				m.SetBaseImage(img)
			}
			if done != nil {
				done(err)
			}
		})
	}()
}

// MarkerAt returns the smallest marker under pos, a position relative to
// the widget. Later markers win ties.
func (m *Map) MarkerAt(pos fyne.Position) (CircleMarker, bool) {
	origin := m.origin(m.Size())
	p := Point{X: float64(pos.X), Y: float64(pos.Y)}

	var best CircleMarker
	found := false
	for _, name := range m.order {
		for _, mk := range m.groups[name].markers {
			if !mk.contains(m.toScreen(mk.Position, origin), p) {
				continue
			}
			if !found || mk.Radius <= best.Radius {
				best, found = mk, true
			}
		}
	}
	return best, found
}

// Tapped shows the popup of the marker under the pointer.
func (m *Map) Tapped(ev *fyne.PointEvent) {
	mk, ok := m.MarkerAt(ev.Position)
	if !ok {
		return
	}
	if m.OnMarkerTapped != nil {
		m.OnMarkerTapped(mk)
	}
	if mk.Popup == "" {
		return
	}
	if c := fyne.CurrentApp().Driver().CanvasForObject(m); c != nil {
		widget.ShowPopUpAtPosition(widget.NewLabel(mk.Popup), c, ev.AbsolutePosition)
	}
}

func (m *Map) CreateRenderer() fyne.WidgetRenderer {
	raster := canvas.NewRaster(m.paint)
	raster.SetMinSize(fyne.NewSize(TileSize, TileSize/2))
	return &mapRenderer{raster: raster}
}

// origin is where world pixel (0, 0) lands on the widget.
func (m *Map) origin(size fyne.Size) Point {
	c := Project(m.center, m.zoom)
	return Point{
		X: float64(size.Width)/2 - c.X,
		Y: float64(size.Height)/2 - c.Y,
	}
}

func (m *Map) toScreen(ll models.LatLng, origin Point) Point {
	p := Project(ll, m.zoom)
	return Point{X: p.X + origin.X, Y: p.Y + origin.Y}
}

func (m *Map) paint(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(oceanColor), image.Point{}, xdraw.Src)

	size := m.Size()
	scale := 1.0
	if size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}
	origin := m.origin(size)

	if m.base != nil {
		ws := WorldSize(m.zoom) * scale
		x0, y0 := origin.X*scale, origin.Y*scale
		offsets := []float64{0}
		if !m.layer.NoWrap {
			offsets = append(offsets, -ws, ws)
		}
		for _, off := range offsets {
			r := image.Rect(
				int(math.Round(x0+off)), int(math.Round(y0)),
				int(math.Round(x0+off+ws)), int(math.Round(y0+ws)),
			)
			if r.Overlaps(dst.Bounds()) {
				xdraw.ApproxBiLinear.Scale(dst, r, m.base, m.base.Bounds(), xdraw.Over, nil)
			}
		}
	}

	for _, name := range m.order {
		for _, mk := range m.groups[name].markers {
			p := m.toScreen(mk.Position, origin)
			drawMarker(dst, mk, p.X*scale, p.Y*scale, scale)
		}
	}
	return dst
}

func drawMarker(dst *image.RGBA, mk CircleMarker, cx, cy, scale float64) {
	r := mk.Radius * scale
	if r <= 0 {
		return
	}
	fill := ringMask{cx: cx, cy: cy, outer: r}
	stroke := ringMask{cx: cx, cy: cy, outer: r, inner: math.Max(0, r-defaultStrokeWidth*scale)}

	if mk.Fill != nil {
		b := fill.Bounds().Intersect(dst.Bounds())
		xdraw.DrawMask(dst, b, image.NewUniform(mk.Fill), image.Point{}, fill, b.Min, xdraw.Over)
	}
	if mk.Stroke != nil {
		b := stroke.Bounds().Intersect(dst.Bounds())
		xdraw.DrawMask(dst, b, image.NewUniform(mk.Stroke), image.Point{}, stroke, b.Min, xdraw.Over)
	}
}

type mapRenderer struct {
	raster *canvas.Raster
}

func (r *mapRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
}

func (r *mapRenderer) MinSize() fyne.Size {
	return r.raster.MinSize()
}

func (r *mapRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *mapRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *mapRenderer) Destroy() {}
