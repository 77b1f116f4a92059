package models

// Coordinates is a position as stored in the dataset: longitude first.
type Coordinates struct {
	Longitude float64 `validate:"gte=-180,lte=180"`
	Latitude  float64 `validate:"gte=-90,lte=90"`
}

// LatLng returns the position in display order.
func (c Coordinates) LatLng() LatLng {
	return LatLng{Lat: c.Latitude, Lng: c.Longitude}
}

// LatLng is a geographic position in the order the map expects.
type LatLng struct {
	Lat float64
	Lng float64
}

// CountryRecord holds one country's reported incidents. Years keeps the
// order in which the source listed them.
type CountryRecord struct {
	Name        string
	Coordinates Coordinates
	Occurrences map[int]int
	Years       []int
}

// Count returns the incidents reported for year and whether the year was
// present in the source at all.
func (c CountryRecord) Count(year int) (int, bool) {
	n, ok := c.Occurrences[year]
	return n, ok
}

// Dataset is the immutable result of loading the incident file, in
// document order.
type Dataset struct {
	Countries []CountryRecord
}

// Len returns the number of countries.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Countries)
}
