package controllers

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polio-eradicator/internal/mapview"
	"polio-eradicator/internal/models"
	"polio-eradicator/internal/services"
)

const scenarioOne = `{
	"A": {"coordinates": [10, 20], "occurrences": {"2000": 5, "2001": 0}},
	"B": {"coordinates": [30, 40], "occurrences": {"2000": 10, "2001": 0}}
}`

type fakeView struct {
	minYear, maxYear int
	shownYear        int
	rendered         [][]mapview.Command
	markers          []mapview.CircleMarker
	statuses         []string
	errors           []error
	markerCount      int
	countries        int

	saveResult func() (fyne.URIWriteCloser, error)
	saveName   string

	onYear   func(int)
	onExport func()
}

func (v *fakeView) SetYearRange(min, max int) { v.minYear, v.maxYear = min, max }
func (v *fakeView) ShowYear(year int) { v.shownYear = year }
func (v *fakeView) UpdateStatus(s string) { v.statuses = append(v.statuses, s) }
func (v *fakeView) SetMarkerCount(n int) { v.markerCount = n }
func (v *fakeView) ShowError(_ string, err error) {
	v.errors = append(v.errors, err)
}
func (v *fakeView) SetDatasetInfo(countries int, _ models.IndexStats) { v.countries = countries }
func (v *fakeView) SetYearChangeHandler(h func(int)) { v.onYear = h }
func (v *fakeView) SetExportHandler(h func()) { v.onExport = h }

// RenderMap plays the commands against a marker list the way the map does.
func (v *fakeView) RenderMap(cmds []mapview.Command) error {
	v.rendered = append(v.rendered, cmds)
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case mapview.ClearLayers:
			v.markers = nil
		case mapview.AddMarker:
			v.markers = append(v.markers, c.Marker)
		}
	}
	return nil
}

func (v *fakeView) ShowSaveDialog(name string, cb func(fyne.URIWriteCloser, error)) {
	v.saveName = name
	if v.saveResult != nil {
		cb(v.saveResult())
	}
}

type memWriter struct {
	bytes.Buffer
	closed bool
}

func (w *memWriter) Close() error { w.closed = true; return nil }
func (w *memWriter) URI() fyne.URI { return storage.NewFileURI("/tmp/polio-2000.png") }

func setup(t *testing.T, doc string) (*MainController, *fakeView) {
	t.Helper()
	svc := services.NewDatasetService(nil, services.IndexOptions{})
	ds, err := services.DecodeDataset(strings.NewReader(doc))
	require.NoError(t, err)
	ix, err := svc.BuildIndex(ds)
	require.NoError(t, err)

	view := &fakeView{}
	mc := NewMainController(services.NewSnapshotService(nil, services.DefaultMaxMarkerSize), nil)
	mc.SetMainView(view)
	mc.Install(ds, ix)
	return mc, view
}

func popups(markers []mapview.CircleMarker) []string {
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = m.Popup
	}
	return out
}

func TestInstallSelectsFirstYear(t *testing.T) {
	mc, view := setup(t, scenarioOne)

	assert.Equal(t, 2000, view.minYear)
	assert.Equal(t, 2001, view.maxYear)
	assert.Equal(t, 2, view.countries)
	assert.Equal(t, ViewState{Selected: true, Year: 2000}, mc.State())
	assert.Equal(t, 2000, view.shownYear)
	require.Len(t, view.markers, 2)
	assert.InDelta(t, 141.421, view.markers[0].Radius, 1e-3)
	assert.Equal(t, 200.0, view.markers[1].Radius)
	assert.Equal(t, models.LatLng{Lat: 20, Lng: 10}, view.markers[0].Position)
}

func TestSelectYearReplacesMarkers(t *testing.T) {
	mc, view := setup(t, `{
		"A": {"coordinates": [10, 20], "occurrences": {"2000": 5, "2001": 3, "2002": 0}},
		"B": {"coordinates": [30, 40], "occurrences": {"2000": 10, "2001": 0, "2002": 0}}
	}`)

	view.onYear(2001)
	assert.Equal(t, []string{"In 2001, A has 3 incidents of polio reported"}, popups(view.markers))
	assert.Equal(t, 1, view.markerCount)

	view.onYear(2002)
	assert.Empty(t, view.markers, "no stale markers after an empty year")
	assert.Equal(t, 0, view.markerCount)
	assert.Equal(t, "2002: no incidents reported", view.statuses[len(view.statuses)-1])

	view.onYear(2000)
	assert.Equal(t, []string{
		"In 2000, A has 5 incidents of polio reported",
		"In 2000, B has 10 incidents of polio reported",
	}, popups(view.markers))
	assert.Equal(t, ViewState{Selected: true, Year: 2000}, mc.State())
}

func TestSelectYearClamps(t *testing.T) {
	mc, view := setup(t, scenarioOne)

	mc.SelectYear(1990)
	assert.Equal(t, 2000, mc.State().Year)
	mc.SelectYear(2050)
	assert.Equal(t, 2001, mc.State().Year)
	assert.Empty(t, view.markers)
}

func TestSelectYearBeforeInstall(t *testing.T) {
	view := &fakeView{}
	mc := NewMainController(nil, nil)
	mc.SetMainView(view)

	mc.SelectYear(2000)
	assert.False(t, mc.State().Selected)
	assert.Empty(t, view.rendered)
}

func TestRedrawCommandsStartWithClear(t *testing.T) {
	mc, _ := setup(t, scenarioOne)

	cmds := RedrawCommands(mc.index, 2000)
	require.Len(t, cmds, 3)
	assert.Equal(t, mapview.ClearLayers{Group: IncidentGroup}, cmds[0])
	for _, cmd := range cmds[1:] {
		add, ok := cmd.(mapview.AddMarker)
		require.True(t, ok)
		assert.Equal(t, IncidentGroup, add.Group)
	}

	assert.Equal(t, []mapview.Command{mapview.ClearLayers{Group: IncidentGroup}}, RedrawCommands(mc.index, 2001))
}

func TestExportSnapshot(t *testing.T) {
	_, view := setup(t, scenarioOne)
	w := &memWriter{}
	view.saveResult = func() (fyne.URIWriteCloser, error) { return w, nil }

	view.onExport()

	assert.Equal(t, "polio-2000.png", view.saveName)
	assert.True(t, w.closed)
	_, err := png.Decode(&w.Buffer)
	require.NoError(t, err)
	assert.Equal(t, "Saved polio-2000.png", view.statuses[len(view.statuses)-1])
	assert.Empty(t, view.errors)
}

func TestExportSnapshotCancelledDialog(t *testing.T) {
	_, view := setup(t, scenarioOne)
	view.saveResult = func() (fyne.URIWriteCloser, error) { return nil, nil }

	view.onExport()
	assert.Empty(t, view.errors)
}

func TestExportSnapshotErrors(t *testing.T) {
	_, view := setup(t, scenarioOne)
	view.saveResult = func() (fyne.URIWriteCloser, error) { return nil, errors.New("denied") }
	view.onExport()
	require.Len(t, view.errors, 1)
	assert.EqualError(t, view.errors[0], "denied")

	empty := &fakeView{}
	mc := NewMainController(nil, nil)
	mc.SetMainView(empty)
	mc.ExportSnapshot()
	require.Len(t, empty.errors, 1)
	assert.ErrorIs(t, empty.errors[0], errNoYear)
}
