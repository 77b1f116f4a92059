package mapview

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polio-eradicator/internal/models"
)

const group = "incidents"

func newTestMap(t *testing.T) *Map {
	t.Helper()
	test.NewTempApp(t)
	m := NewMap()
	m.Resize(fyne.NewSize(512, 512))
	m.AddLayerGroup(group)
	m.SetView(models.LatLng{}, 1)
	return m
}

func TestMapApplyClearAndAdd(t *testing.T) {
	m := newTestMap(t)
	a := NewCircleMarker(models.LatLng{Lat: 20, Lng: 10}, 50).BindPopup("a")
	b := NewCircleMarker(models.LatLng{Lat: 40, Lng: 30}, 80).BindPopup("b")

	require.NoError(t, m.Apply(ClearLayers{Group: group}, AddMarker{Group: group, Marker: a}, AddMarker{Group: group, Marker: b}))
	g, ok := m.Group(group)
	require.True(t, ok)
	assert.Equal(t, []CircleMarker{a, b}, g.Markers())

	require.NoError(t, m.Apply(ClearLayers{Group: group}, AddMarker{Group: group, Marker: b}))
	assert.Equal(t, []CircleMarker{b}, g.Markers())
}

func TestMapApplyUnknownGroup(t *testing.T) {
	m := newTestMap(t)
	err := m.Apply(
		AddMarker{Group: "other", Marker: NewCircleMarker(models.LatLng{}, 5)},
		AddMarker{Group: group, Marker: NewCircleMarker(models.LatLng{}, 5)},
	)
	assert.ErrorIs(t, err, ErrUnknownGroup)

	g, _ := m.Group(group)
	assert.Equal(t, 1, g.Len(), "valid commands still apply")
}

func TestMapSetViewClampsZoom(t *testing.T) {
	m := newTestMap(t)
	m.SetView(models.LatLng{Lat: 10, Lng: 20}, 12)

	center, zoom := m.View()
	assert.Equal(t, models.LatLng{Lat: 10, Lng: 20}, center)
	assert.Equal(t, MaxZoom, zoom)
}

func TestMapSetViewCommandMatchesMethod(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.Apply(SetView{Center: models.LatLng{Lat: -5, Lng: 7}, Zoom: -2}))

	center, zoom := m.View()
	assert.Equal(t, models.LatLng{Lat: -5, Lng: 7}, center)
	assert.Equal(t, 0, zoom)
}

func TestMapMarkerAtPrefersSmallest(t *testing.T) {
	m := newTestMap(t)
	big := NewCircleMarker(models.LatLng{}, 100).BindPopup("big")
	small := NewCircleMarker(models.LatLng{}, 10).BindPopup("small")
	require.NoError(t, m.Apply(AddMarker{Group: group, Marker: small}, AddMarker{Group: group, Marker: big}))

	// The widget center is lat/lng 0,0.
	got, ok := m.MarkerAt(fyne.NewPos(256, 256))
	require.True(t, ok)
	assert.Equal(t, "small", got.Popup)

	got, ok = m.MarkerAt(fyne.NewPos(256+50, 256))
	require.True(t, ok)
	assert.Equal(t, "big", got.Popup)

	_, ok = m.MarkerAt(fyne.NewPos(10, 10))
	assert.False(t, ok)
}

func TestMapTappedReportsMarker(t *testing.T) {
	m := newTestMap(t)
	w := test.NewWindow(m)
	defer w.Close()
	w.Resize(fyne.NewSize(512, 512))
	require.NoError(t, m.Apply(AddMarker{Group: group, Marker: NewCircleMarker(models.LatLng{}, 20).BindPopup("hit")}))

	var tapped []string
	m.OnMarkerTapped = func(mk CircleMarker) { tapped = append(tapped, mk.Popup) }

	center := fyne.NewPos(m.Size().Width/2, m.Size().Height/2)
	m.Tapped(&fyne.PointEvent{Position: center, AbsolutePosition: center})
	m.Tapped(&fyne.PointEvent{Position: fyne.NewPos(1, 1)})
	assert.Equal(t, []string{"hit"}, tapped)
}

func TestMapPaint(t *testing.T) {
	m := newTestMap(t)
	mk := NewCircleMarker(models.LatLng{}, 40)
	mk.Fill = color.NRGBA{R: 255, A: 255}
	require.NoError(t, m.Apply(AddMarker{Group: group, Marker: mk}))

	img := m.paint(512, 512)
	assert.Equal(t, image.Rect(0, 0, 512, 512), img.Bounds())

	r, g, b, _ := img.At(256, 256).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)

	assert.Equal(t, color.RGBAModel.Convert(oceanColor), img.At(5, 5))
}

func TestMapPaintBaseImage(t *testing.T) {
	m := newTestMap(t)
	m.SetTileLayer(TileLayer{NoWrap: true})
	base := image.NewRGBA(image.Rect(0, 0, 512, 512))
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			base.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	m.SetBaseImage(base)

	_, g, _, _ := m.paint(512, 512).At(100, 100).RGBA()
	assert.Equal(t, uint32(0xffff), g)
}

func TestRingMask(t *testing.T) {
	disc := ringMask{cx: 50, cy: 50, outer: 10}
	assert.Equal(t, color.Alpha{A: 0xff}, disc.At(50, 50))
	assert.Equal(t, color.Alpha{}, disc.At(70, 50))

	ring := ringMask{cx: 50, cy: 50, outer: 10, inner: 7}
	assert.Equal(t, color.Alpha{}, ring.At(50, 50))
	assert.Equal(t, color.Alpha{A: 0xff}, ring.At(58, 50))
}
