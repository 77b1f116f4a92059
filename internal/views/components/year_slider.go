package components

import (
	"math"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// YearSlider is a horizontal slider over whole years with the selected year
// printed next to it.
type YearSlider struct {
	container *fyne.Container
	label     *widget.Label
	slider    *widget.Slider

	current       int
	onYearChanged func(int)
}

func NewYearSlider() *YearSlider {
	ys := &YearSlider{}
	ys.createComponents()
	ys.buildLayout()
	return ys
}

func (ys *YearSlider) createComponents() {
	ys.label = widget.NewLabel("----")
	ys.slider = widget.NewSlider(0, 1)
	ys.slider.Step = 1
	ys.slider.Disable()
	ys.slider.OnChanged = ys.handleChange
}

func (ys *YearSlider) buildLayout() {
	ys.container = container.NewBorder(nil, nil, ys.label, nil, ys.slider)
}

// handleChange reports whole-year changes only; drags within the same year
// are dropped.
func (ys *YearSlider) handleChange(value float64) {
	year := int(math.Round(value))
	ys.label.SetText(strconv.Itoa(year))
	if year == ys.current {
		return
	}
	ys.current = year
	if ys.onYearChanged != nil {
		ys.onYearChanged(year)
	}
}

// SetRange bounds the slider to [first, last] and enables it.
func (ys *YearSlider) SetRange(first, last int) {
	ys.slider.Min = float64(first)
	ys.slider.Max = float64(last)
	if first < last {
		ys.slider.Enable()
	} else {
		ys.slider.Disable()
	}
	ys.slider.Refresh()
}

// SetYear moves the slider without reporting a change.
func (ys *YearSlider) SetYear(year int) {
	ys.current = year
	ys.label.SetText(strconv.Itoa(year))
	ys.slider.SetValue(float64(year))
}

// Year returns the year the slider shows.
func (ys *YearSlider) Year() int {
	return ys.current
}

// Label returns the text next to the slider.
func (ys *YearSlider) Label() string {
	return ys.label.Text
}

// Slider exposes the underlying widget for tests.
func (ys *YearSlider) Slider() *widget.Slider {
	return ys.slider
}

// SetYearChangeHandler sets the callback for slider moves
func (ys *YearSlider) SetYearChangeHandler(handler func(int)) {
	ys.onYearChanged = handler
}

// GetContainer returns the slider container
func (ys *YearSlider) GetContainer() *fyne.Container {
	return ys.container
}
