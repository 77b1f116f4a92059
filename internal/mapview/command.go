package mapview

import (
	"errors"
	"fmt"

	"polio-eradicator/internal/models"
)

var ErrUnknownGroup = errors.New("layer group not on map")

// Command is one typed instruction for a Map.
type Command interface {
	apply(m *Map) error
}

// SetView recenters the map and changes its zoom.
type SetView struct {
	Center models.LatLng
	Zoom   int
}

// ClearLayers removes every marker from a group.
type ClearLayers struct {
	Group string
}

// AddMarker appends a marker to a group.
type AddMarker struct {
	Group  string
	Marker CircleMarker
}

func (c SetView) apply(m *Map) error {
	m.setView(c.Center, c.Zoom)
	return nil
}

func (c ClearLayers) apply(m *Map) error {
	g, ok := m.groups[c.Group]
	if !ok {
		return fmt.Errorf("clear %q: %w", c.Group, ErrUnknownGroup)
	}
	g.ClearLayers()
	return nil
}

func (c AddMarker) apply(m *Map) error {
	g, ok := m.groups[c.Group]
	if !ok {
		return fmt.Errorf("add marker to %q: %w", c.Group, ErrUnknownGroup)
	}
	g.AddLayer(c.Marker)
	return nil
}
