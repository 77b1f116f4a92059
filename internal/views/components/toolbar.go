package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the window title line and the export action.
type Toolbar struct {
	container    *fyne.Container
	titleLabel   *widget.Label
	exportButton *widget.Button

	exportHandler func()
}

// NewToolbar creates a new toolbar component
func NewToolbar(title string) *Toolbar {
	t := &Toolbar{}
	t.createComponents(title)
	t.buildLayout()
	return t
}

func (t *Toolbar) createComponents(title string) {
	t.titleLabel = widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	t.exportButton = widget.NewButtonWithIcon("Export PNG", theme.DocumentSaveIcon(), func() {
		if t.exportHandler != nil {
			t.exportHandler()
		}
	})
	t.exportButton.Importance = widget.HighImportance
	t.exportButton.Disable()
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.titleLabel,
		layout.NewSpacer(),
		t.exportButton,
	)
}

// SetExportHandler sets the callback for the export button
func (t *Toolbar) SetExportHandler(handler func()) {
	t.exportHandler = handler
}

// EnableExport turns the export button on once there is something to export.
func (t *Toolbar) EnableExport(enabled bool) {
	if enabled {
		t.exportButton.Enable()
	} else {
		t.exportButton.Disable()
	}
}

// ExportButton exposes the button for tests.
func (t *Toolbar) ExportButton() *widget.Button {
	return t.exportButton
}

// GetContainer returns the toolbar container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
