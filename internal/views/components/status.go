package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays application status and information
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	datasetInfo *widget.Label
	markerInfo  *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Loading data...")
	sb.datasetInfo = widget.NewLabel("No dataset")
	sb.markerInfo = widget.NewLabel("Markers: --")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.datasetInfo,
		widget.NewSeparator(),
		sb.markerInfo,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetDatasetInfo shows the size and span of the loaded dataset.
func (sb *StatusBar) SetDatasetInfo(countries, firstYear, lastYear, highValue int) {
	sb.datasetInfo.SetText(fmt.Sprintf("%d countries, %d-%d, peak %d", countries, firstYear, lastYear, highValue))
}

// GetDatasetInfo returns the dataset summary text
func (sb *StatusBar) GetDatasetInfo() string {
	return sb.datasetInfo.Text
}

// SetMarkerCount shows how many markers are on the map.
func (sb *StatusBar) SetMarkerCount(n int) {
	sb.markerInfo.SetText(fmt.Sprintf("Markers: %d", n))
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
