package models

// Marker describes one circle to draw for a country in a given year.
type Marker struct {
	Country  string
	Year     int
	Count    int
	Position LatLng
	Radius   float64
	Popup    string
}

// YearIndex maps each year to the markers to show for it. It is built once
// at load time and never modified afterwards.
type YearIndex struct {
	Years     []int
	HighValue int
	buckets   map[int][]Marker
}

// NewYearIndex wraps prebuilt buckets. years must be sorted ascending.
func NewYearIndex(years []int, highValue int, buckets map[int][]Marker) *YearIndex {
	if buckets == nil {
		buckets = make(map[int][]Marker)
	}
	return &YearIndex{
		Years:     years,
		HighValue: highValue,
		buckets:   buckets,
	}
}

// MinYear is the lower bound of the selectable range.
func (ix *YearIndex) MinYear() int {
	if len(ix.Years) == 0 {
		return 0
	}
	return ix.Years[0]
}

// MaxYear is the upper bound of the selectable range.
func (ix *YearIndex) MaxYear() int {
	if len(ix.Years) == 0 {
		return 0
	}
	return ix.Years[len(ix.Years)-1]
}

// Markers returns a copy of the bucket for year. A year without incidents
// yields an empty slice.
func (ix *YearIndex) Markers(year int) []Marker {
	bucket := ix.buckets[year]
	out := make([]Marker, len(bucket))
	copy(out, bucket)
	return out
}

// Clamp limits year to [MinYear, MaxYear].
func (ix *YearIndex) Clamp(year int) int {
	if year < ix.MinYear() {
		return ix.MinYear()
	}
	if year > ix.MaxYear() {
		return ix.MaxYear()
	}
	return year
}

// IndexStats summarises an index for logging and the status bar.
type IndexStats struct {
	Years     int
	MinYear   int
	MaxYear   int
	HighValue int
	Markers   int
}

func (ix *YearIndex) Stats() IndexStats {
	total := 0
	for _, bucket := range ix.buckets {
		total += len(bucket)
	}
	return IndexStats{
		Years:     len(ix.Years),
		MinYear:   ix.MinYear(),
		MaxYear:   ix.MaxYear(),
		HighValue: ix.HighValue,
		Markers:   total,
	}
}
