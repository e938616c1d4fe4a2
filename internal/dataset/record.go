package dataset

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRecord is returned when a record breaks the loader's preconditions.
var ErrInvalidRecord = errors.New("invalid record")

// Metrics is the statistic set carried by every record.
type Metrics struct {
	Population       float64
	GDP              float64
	Area             float64
	AverageElevation float64
}

// Select returns the metric driving the given category.
func (m Metrics) Select(c Category) float64 {
	switch c {
	case Population:
		return m.Population
	case GDP:
		return m.GDP
	case Area:
		return m.Area
	case Elevation:
		return m.AverageElevation
	default:
		return 0
	}
}

// Record is one country as loaded from the data source. Records are not
// modified after loading.
type Record struct {
	Name    string
	Lat     float64
	Lon     float64
	Metrics Metrics
}

// Validate checks the ranges the render core relies on: latitude in
// [-90,90], longitude in [-180,180] and finite, non-negative metrics.
func Validate(records []Record) error {
	for i, r := range records {
		if r.Name == "" {
			return fmt.Errorf("record %d: %w: empty name", i, ErrInvalidRecord)
		}
		if math.IsNaN(r.Lat) || r.Lat < -90 || r.Lat > 90 {
			return fmt.Errorf("record %d (%s): %w: lat %v out of range", i, r.Name, ErrInvalidRecord, r.Lat)
		}
		if math.IsNaN(r.Lon) || r.Lon < -180 || r.Lon > 180 {
			return fmt.Errorf("record %d (%s): %w: lon %v out of range", i, r.Name, ErrInvalidRecord, r.Lon)
		}
		for _, c := range Categories() {
			v := r.Metrics.Select(c)
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return fmt.Errorf("record %d (%s): %w: %s %v", i, r.Name, ErrInvalidRecord, c, v)
			}
		}
	}
	return nil
}
