package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Load reads records from a .json or .csv file and validates them.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open data file: %w", err)
	}
	defer f.Close()

	var records []Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		records, err = LoadJSON(f)
	case ".csv":
		records, err = LoadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported data file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// jsonRecord mirrors one object of the country data file. Pointer fields let
// the decoder tell a missing coordinate from a zero one.
type jsonRecord struct {
	Country          string   `mapstructure:"country"`
	Name             string   `mapstructure:"name"`
	Lat              *float64 `mapstructure:"lat"`
	Lon              *float64 `mapstructure:"lon"`
	Lng              *float64 `mapstructure:"lng"`
	Population       float64  `mapstructure:"population"`
	GDP              float64  `mapstructure:"gdp"`
	Area             float64  `mapstructure:"area"`
	AverageElevation float64  `mapstructure:"averageElevation"`
}

// LoadJSON decodes an array of country objects. Numeric fields may be given
// as JSON numbers or numeric strings.
func LoadJSON(r io.Reader) ([]Record, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for i, obj := range raw {
		var jr jsonRecord
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &jr,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(obj); err != nil {
			return nil, fmt.Errorf("record %d: %w: %v", i, ErrInvalidRecord, err)
		}

		name := jr.Country
		if name == "" {
			name = jr.Name
		}
		lon := jr.Lon
		if lon == nil {
			lon = jr.Lng
		}
		if jr.Lat == nil || lon == nil {
			return nil, fmt.Errorf("record %d (%s): %w: missing lat/lon", i, name, ErrInvalidRecord)
		}

		records = append(records, Record{
			Name: name,
			Lat:  *jr.Lat,
			Lon:  *lon,
			Metrics: Metrics{
				Population:       jr.Population,
				GDP:              jr.GDP,
				Area:             jr.Area,
				AverageElevation: jr.AverageElevation,
			},
		})
	}
	return records, nil
}

// LoadCSV reads a CSV with a header row.
// Column detection (case-insensitive): country|name, lat|latitude,
// lon|lng|long|longitude, population, gdp, area, averageelevation|elevation.
// Missing metric columns read as zero.
func LoadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}

	idxName, idxLat, idxLon := -1, -1, -1
	idxMetric := [NumCategories]int{-1, -1, -1, -1}
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "country", "name":
			if idxName == -1 {
				idxName = i
			}
		case "lat", "latitude":
			idxLat = i
		case "lon", "lng", "long", "longitude":
			idxLon = i
		case "population":
			idxMetric[Population] = i
		case "gdp":
			idxMetric[GDP] = i
		case "area":
			idxMetric[Area] = i
		case "averageelevation", "elevation":
			idxMetric[Elevation] = i
		}
	}
	if idxName == -1 || idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: country/latitude/longitude columns not found")
	}

	field := func(row []string, idx int) (float64, error) {
		if idx < 0 || idx >= len(row) {
			return 0, nil
		}
		s := strings.TrimSpace(row[idx])
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	}

	records := make([]Record, 0, len(rows)-1)
	for line, row := range rows[1:] {
		if idxName >= len(row) || idxLat >= len(row) || idxLon >= len(row) {
			return nil, fmt.Errorf("csv row %d: %w: short row", line+2, ErrInvalidRecord)
		}
		rec := Record{Name: strings.TrimSpace(row[idxName])}
		if rec.Lat, err = strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64); err != nil {
			return nil, fmt.Errorf("csv row %d: %w: lat: %v", line+2, ErrInvalidRecord, err)
		}
		if rec.Lon, err = strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64); err != nil {
			return nil, fmt.Errorf("csv row %d: %w: lon: %v", line+2, ErrInvalidRecord, err)
		}
		var vals [NumCategories]float64
		for c, idx := range idxMetric {
			if vals[c], err = field(row, idx); err != nil {
				return nil, fmt.Errorf("csv row %d: %w: %s: %v", line+2, ErrInvalidRecord, Category(c), err)
			}
		}
		rec.Metrics = Metrics{
			Population:       vals[Population],
			GDP:              vals[GDP],
			Area:             vals[Area],
			AverageElevation: vals[Elevation],
		}
		records = append(records, rec)
	}
	return records, nil
}
