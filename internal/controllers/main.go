package controllers

import (
	"errors"
	"fmt"

	"polio-eradicator/internal/logger"
	"polio-eradicator/internal/mapview"
	"polio-eradicator/internal/models"
	"polio-eradicator/internal/services"

	"fyne.io/fyne/v2"
)

// IncidentGroup is the layer group holding the markers for the selected year.
const IncidentGroup = "incidents"

var errNoYear = errors.New("no year selected")

// View is what the controller needs from the window.
type View interface {
	SetYearRange(min, max int)
	ShowYear(year int)
	RenderMap(cmds []mapview.Command) error
	UpdateStatus(status string)
	SetDatasetInfo(countries int, stats models.IndexStats)
	SetMarkerCount(n int)
	ShowError(title string, err error)
	ShowSaveDialog(fileName string, callback func(fyne.URIWriteCloser, error))

	SetYearChangeHandler(handler func(int))
	SetExportHandler(handler func())
}

// ViewState is the only mutable application state: which year is shown.
type ViewState struct {
	Selected bool
	Year     int
}

// MainController connects the year slider to the map.
type MainController struct {
	snapshots *services.SnapshotService
	log       logger.Logger

	view View

	dataset *models.Dataset
	index   *models.YearIndex
	state   ViewState
}

func NewMainController(snapshots *services.SnapshotService, log logger.Logger) *MainController {
	if log == nil {
		log = logger.NewNop()
	}
	return &MainController{
		snapshots: snapshots,
		log:       log,
	}
}

// SetMainView associates the view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.view = view
	view.SetYearChangeHandler(mc.SelectYear)
	view.SetExportHandler(mc.ExportSnapshot)
}

// Install hands the loaded dataset to the controller, sets the slider range
// and shows the first year.
func (mc *MainController) Install(ds *models.Dataset, ix *models.YearIndex) {
	mc.dataset = ds
	mc.index = ix

	stats := ix.Stats()
	mc.view.SetYearRange(stats.MinYear, stats.MaxYear)
	mc.view.SetDatasetInfo(ds.Len(), stats)

	mc.SelectYear(stats.MinYear)
}

// SelectYear replaces the markers on the map with the bucket for year.
// Years outside the dataset are clamped.
func (mc *MainController) SelectYear(year int) {
	if mc.index == nil {
		mc.log.Debug("Year change before data load ignored", map[string]interface{}{"year": year})
		return
	}

	year = mc.index.Clamp(year)
	cmds := RedrawCommands(mc.index, year)
	mc.state = ViewState{Selected: true, Year: year}

	if err := mc.view.RenderMap(cmds); err != nil {
		mc.handleError("Map update failed", err)
	}
	mc.view.ShowYear(year)

	markers := len(cmds) - 1
	mc.view.SetMarkerCount(markers)
	if markers == 0 {
		mc.view.UpdateStatus(fmt.Sprintf("%d: no incidents reported", year))
	} else {
		mc.view.UpdateStatus(fmt.Sprintf("%d: %d countries reporting", year, markers))
	}

	mc.log.Debug("Year selected", map[string]interface{}{
		"year":    year,
		"markers": markers,
	})
}

// State returns the current selection.
func (mc *MainController) State() ViewState {
	return mc.state
}

// RedrawCommands returns the commands that make the incident group show
// exactly the markers for year: one clear followed by one add per marker.
func RedrawCommands(ix *models.YearIndex, year int) []mapview.Command {
	markers := ix.Markers(year)
	cmds := make([]mapview.Command, 0, len(markers)+1)
	cmds = append(cmds, mapview.ClearLayers{Group: IncidentGroup})
	for _, m := range markers {
		cmds = append(cmds, mapview.AddMarker{
			Group:  IncidentGroup,
			Marker: mapview.NewCircleMarker(m.Position, m.Radius).BindPopup(m.Popup),
		})
	}
	return cmds
}

// ExportSnapshot asks for a destination and writes a PNG chart of the
// selected year to it.
func (mc *MainController) ExportSnapshot() {
	if !mc.state.Selected {
		mc.handleError("Export failed", errNoYear)
		return
	}

	year := mc.state.Year
	mc.view.ShowSaveDialog(fmt.Sprintf("polio-%d.png", year), func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mc.handleError("Export failed", err)
			return
		}
		if writer == nil {
			return
		}
		mc.writeSnapshot(writer, year)
	})
}

func (mc *MainController) writeSnapshot(writer fyne.URIWriteCloser, year int) {
	err := mc.snapshots.Render(writer, mc.index, year)
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		mc.handleError("Export failed", err)
		mc.view.UpdateStatus("Export failed")
		return
	}

	mc.log.Info("Snapshot exported", map[string]interface{}{
		"year": year,
		"uri":  writer.URI().String(),
	})
	mc.view.UpdateStatus(fmt.Sprintf("Saved %s", writer.URI().Name()))
}

// handleError logs err and shows it to the user.
func (mc *MainController) handleError(title string, err error) {
	mc.log.Error(title, err, nil)
	if mc.view != nil {
		mc.view.ShowError(title, err)
	}
}

// Shutdown performs cleanup when the application closes
func (mc *MainController) Shutdown() {
	mc.log.Info("Controller shutdown", map[string]interface{}{
		"selected": mc.state.Selected,
		"year":     mc.state.Year,
	})
}
