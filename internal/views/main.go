package views

import (
	"polio-eradicator/internal/mapview"
	"polio-eradicator/internal/models"
	"polio-eradicator/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
)

const title = "Reported polio incidents by country"

// MainView is the single application window: map in the middle, toolbar on
// top, year slider and status bar underneath.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	mapWidget     *mapview.Map
	yearSlider    *components.YearSlider
	statusBar     *components.StatusBar

	// Event handlers - connected to controller
	yearChangeHandler func(int)
	exportHandler     func()
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.toolbar = components.NewToolbar(title)
	mv.mapWidget = mapview.NewMap()
	mv.yearSlider = components.NewYearSlider()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	bottomArea := container.NewVBox(
		mv.yearSlider.GetContainer(),
		mv.statusBar.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(
		mv.toolbar.GetContainer(), // top
		bottomArea,                // bottom
		nil,                       // left
		nil,                       // right
		mv.mapWidget,              // center
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.yearSlider.SetYearChangeHandler(func(year int) {
		if mv.yearChangeHandler != nil {
			mv.yearChangeHandler(year)
		}
	})

	mv.toolbar.SetExportHandler(func() {
		if mv.exportHandler != nil {
			mv.exportHandler()
		}
	})

	mv.mapWidget.OnMarkerTapped = func(m mapview.CircleMarker) {
		mv.statusBar.SetStatus(m.Popup)
	}
}

// SetYearChangeHandler sets the handler for slider moves
func (mv *MainView) SetYearChangeHandler(handler func(int)) {
	mv.yearChangeHandler = handler
}

// SetExportHandler sets the handler for export requests
func (mv *MainView) SetExportHandler(handler func()) {
	mv.exportHandler = handler
}

// SetYearRange bounds the slider and enables exporting.
func (mv *MainView) SetYearRange(min, max int) {
	mv.yearSlider.SetRange(min, max)
	mv.toolbar.EnableExport(true)
}

// ShowYear moves the slider and its label to year.
func (mv *MainView) ShowYear(year int) {
	mv.yearSlider.SetYear(year)
}

// RenderMap forwards typed commands to the map widget.
func (mv *MainView) RenderMap(cmds []mapview.Command) error {
	return mv.mapWidget.Apply(cmds...)
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

func (mv *MainView) SetDatasetInfo(countries int, stats models.IndexStats) {
	mv.statusBar.SetDatasetInfo(countries, stats.MinYear, stats.MaxYear, stats.HighValue)
}

func (mv *MainView) SetMarkerCount(n int) {
	mv.statusBar.SetMarkerCount(n)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	dialog.ShowError(err, mv.window)
}

// ShowSaveDialog asks where to save, suggesting fileName.
func (mv *MainView) ShowSaveDialog(fileName string, callback func(fyne.URIWriteCloser, error)) {
	d := dialog.NewFileSave(callback, mv.window)
	d.SetFileName(fileName)
	d.Show()
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	dialog.ShowConfirm(title, message, callback, mv.window)
}

// Map returns the map widget so the application can configure tiles.
func (mv *MainView) Map() *mapview.Map {
	return mv.mapWidget
}

// YearSlider returns the slider component
func (mv *MainView) YearSlider() *components.YearSlider {
	return mv.yearSlider
}

// StatusBar returns the status bar component
func (mv *MainView) StatusBar() *components.StatusBar {
	return mv.statusBar
}

// Show displays the view
func (mv *MainView) Show() {
	mv.window.Show()
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}
