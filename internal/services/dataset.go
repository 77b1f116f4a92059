package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"polio-eradicator/internal/logger"
	"polio-eradicator/internal/models"
)

// maxCount bounds a single (country, year) incident count, whatever
// notation the number uses.
const maxCount = math.MaxInt32

var validate = validator.New()

// DatasetService reads the incident file and turns it into a YearIndex.
type DatasetService struct {
	log  logger.Logger
	opts IndexOptions
}

func NewDatasetService(log logger.Logger, opts IndexOptions) *DatasetService {
	if log == nil {
		log = logger.NewNop()
	}
	return &DatasetService{log: log, opts: opts.withDefaults()}
}

// Load reads and decodes the dataset at path.
func (s *DatasetService) Load(path string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := DecodeDataset(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	s.log.Debug("Dataset decoded", map[string]interface{}{
		"path":      path,
		"countries": ds.Len(),
	})
	return ds, nil
}

// LoadIndex loads path and builds its index in one step.
func (s *DatasetService) LoadIndex(path string) (*models.Dataset, *models.YearIndex, error) {
	ds, err := s.Load(path)
	if err != nil {
		return nil, nil, err
	}
	ix, err := s.BuildIndex(ds)
	if err != nil {
		return nil, nil, fmt.Errorf("index %s: %w", path, err)
	}
	return ds, ix, nil
}

type countryJSON struct {
	Coordinates []*float64  `json:"coordinates" validate:"required,len=2,dive,required"`
	Occurrences *yearCounts `json:"occurrences"`
	Occurences  *yearCounts `json:"occurences"`
}

type yearCounts struct {
	years  []int
	counts map[int]int
}

// DecodeDataset parses the incident document. Countries and their years
// keep the order in which they appear in the input.
func DecodeDataset(r io.Reader) (*models.Dataset, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	ds := &models.Dataset{}
	seen := make(map[string]bool)
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCountry, name)
		}
		seen[name] = true

		var raw countryJSON
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("country %q: %w", name, err)
		}
		rec, err := raw.record(name)
		if err != nil {
			return nil, fmt.Errorf("country %q: %w", name, err)
		}
		ds.Countries = append(ds.Countries, rec)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after dataset object")
	}
	return ds, nil
}

func (c countryJSON) record(name string) (models.CountryRecord, error) {
	rec := models.CountryRecord{Name: name, Occurrences: make(map[int]int)}

	// A null element is rejected here rather than read as 0.
	if err := validate.Struct(c); err != nil {
		return rec, fmt.Errorf("%w: %s", ErrInvalidCoordinates, describeCoordinates(c.Coordinates))
	}
	coords := models.Coordinates{Longitude: *c.Coordinates[0], Latitude: *c.Coordinates[1]}
	if err := validate.Struct(coords); err != nil {
		return rec, fmt.Errorf("%w: got [%v, %v]", ErrInvalidCoordinates, coords.Longitude, coords.Latitude)
	}
	rec.Coordinates = coords

	occ := c.Occurrences
	if c.Occurences != nil {
		if occ != nil {
			return rec, ErrConflictingKeys
		}
		occ = c.Occurences
	}
	if occ != nil {
		rec.Years = occ.years
		rec.Occurrences = occ.counts
	}
	return rec, nil
}

func (y *yearCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	y.counts = make(map[int]int)
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return err
		}
		year, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidYear, key)
		}
		if _, dup := y.counts[year]; dup {
			return fmt.Errorf("%w: %d listed twice", ErrInvalidYear, year)
		}

		var value *json.Number
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("year %d: %w", year, err)
		}
		count := 0
		if value != nil {
			if count, err = parseCount(*value); err != nil {
				return fmt.Errorf("year %d: %w", year, err)
			}
		}

		y.years = append(y.years, year)
		y.counts[year] = count
	}
	return expectDelim(dec, '}')
}

func describeCoordinates(values []*float64) string {
	if values == nil {
		return "missing"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			parts[i] = "null"
		} else {
			parts[i] = strconv.FormatFloat(*v, 'g', -1, 64)
		}
	}
	return "got [" + strings.Join(parts, ", ") + "]"
}

// parseCount accepts whole numbers in [0, maxCount] written either as
// integers or in float/exponent form.
func parseCount(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		if i < 0 || i > maxCount {
			return 0, fmt.Errorf("%w: %d", ErrInvalidCount, i)
		}
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f < 0 || f != math.Trunc(f) || f > maxCount {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCount, n)
	}
	return int(f), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
