package services

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"polio-eradicator/internal/models"
)

// DefaultMaxMarkerSize is the radius, in pixels, of the marker drawn for the
// largest count in the dataset.
const DefaultMaxMarkerSize = 200.0

// YearPolicy decides how the selectable years are derived when countries
// disagree about which years they report.
type YearPolicy string

const (
	// YearPolicyStrict takes the first country's years and requires every
	// other country to report exactly the same set.
	YearPolicyStrict YearPolicy = "strict"
	// YearPolicyUnion takes every year any country reports. A year a
	// country does not list counts as zero for it.
	YearPolicyUnion YearPolicy = "union"
)

type IndexOptions struct {
	MaxMarkerSize float64
	Policy        YearPolicy
}

func (o IndexOptions) withDefaults() IndexOptions {
	if o.MaxMarkerSize <= 0 {
		o.MaxMarkerSize = DefaultMaxMarkerSize
	}
	if o.Policy == "" {
		o.Policy = YearPolicyStrict
	}
	return o
}

// MarkerRadius scales count so that marker area, not radius, is
// proportional to count/highValue. highValue must be positive.
func MarkerRadius(count, highValue int, maxSize float64) float64 {
	return maxSize * math.Sqrt(float64(count)/float64(highValue))
}

var popupPrinter = message.NewPrinter(language.English)

// PopupText is the label shown when a marker is tapped.
func PopupText(year int, country string, count int) string {
	return popupPrinter.Sprintf("In %s, %s has %d incidents of polio reported", strconv.Itoa(year), country, count)
}

// BuildIndex buckets the dataset's non-zero counts by year.
func (s *DatasetService) BuildIndex(ds *models.Dataset) (*models.YearIndex, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	years, err := selectYears(ds, s.opts.Policy)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("%w: %q reports no years", ErrEmptyDataset, ds.Countries[0].Name)
	}

	high := highValue(ds)
	if high == 0 {
		return nil, ErrNoIncidents
	}

	buckets := make(map[int][]models.Marker, len(years))
	for _, country := range ds.Countries {
		pos := country.Coordinates.LatLng()
		for _, year := range country.Years {
			count := country.Occurrences[year]
			if count == 0 {
				continue
			}
			buckets[year] = append(buckets[year], models.Marker{
				Country:  country.Name,
				Year:     year,
				Count:    count,
				Position: pos,
				Radius:   MarkerRadius(count, high, s.opts.MaxMarkerSize),
				Popup:    PopupText(year, country.Name, count),
			})
		}
	}

	ix := models.NewYearIndex(years, high, buckets)
	stats := ix.Stats()
	s.log.Info("Year index built", map[string]interface{}{
		"countries":  ds.Len(),
		"years":      stats.Years,
		"first_year": stats.MinYear,
		"last_year":  stats.MaxYear,
		"high_value": stats.HighValue,
		"markers":    stats.Markers,
		"policy":     string(s.opts.Policy),
	})
	return ix, nil
}

func selectYears(ds *models.Dataset, policy YearPolicy) ([]int, error) {
	switch policy {
	case YearPolicyStrict:
		ref := ds.Countries[0]
		for _, country := range ds.Countries[1:] {
			for _, year := range ref.Years {
				if _, ok := country.Count(year); !ok {
					return nil, fmt.Errorf("%w: %q has no value for %d, which %q reports",
						ErrYearMismatch, country.Name, year, ref.Name)
				}
			}
			for _, year := range country.Years {
				if _, ok := ref.Count(year); !ok {
					return nil, fmt.Errorf("%w: %q reports %d, which %q does not",
						ErrYearMismatch, country.Name, year, ref.Name)
				}
			}
		}
		years := slices.Clone(ref.Years)
		slices.Sort(years)
		return years, nil

	case YearPolicyUnion:
		seen := make(map[int]bool)
		var years []int
		for _, country := range ds.Countries {
			for _, year := range country.Years {
				if !seen[year] {
					seen[year] = true
					years = append(years, year)
				}
			}
		}
		slices.Sort(years)
		return years, nil

	default:
		return nil, fmt.Errorf("unknown year policy %q", policy)
	}
}

func highValue(ds *models.Dataset) int {
	high := 0
	for _, country := range ds.Countries {
		for _, count := range country.Occurrences {
			high = max(high, count)
		}
	}
	return high
}
