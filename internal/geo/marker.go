package geo

import "statmap/internal/dataset"

// Marker is a record projected into render space with every metric
// normalized against the full data set.
type Marker struct {
	Name       string
	X, Y       float32
	Normalized [dataset.NumCategories]float32
}

// Metric returns the normalized value for c, or 0 for an unknown category.
func (m Marker) Metric(c dataset.Category) float32 {
	if !c.Valid() {
		return 0
	}
	return m.Normalized[c]
}

// BuildMarkers normalizes records in input order. Ranges are taken over the
// entire set before any single record is normalized.
func BuildMarkers(records []dataset.Record) []Marker {
	ranges := Ranges(records)

	markers := make([]Marker, len(records))
	for i, r := range records {
		x, y := Project(r.Lat, r.Lon)
		m := Marker{Name: r.Name, X: x, Y: y}
		for _, c := range dataset.Categories() {
			m.Normalized[c] = float32(Normalize(r.Metrics.Select(c), ranges[c].Min, ranges[c].Max))
		}
		markers[i] = m
	}
	return markers
}
