package geo

import (
	"testing"

	"statmap/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCorners(t *testing.T) {
	x, y := Project(90, 180)
	assert.InDelta(t, RenderExtent, x, 1e-6)
	assert.InDelta(t, RenderExtent, y, 1e-6)

	x, y = Project(0, 0)
	assert.Zero(t, x)
	assert.Zero(t, y)

	x, y = Project(45, -90)
	assert.InDelta(t, -0.375, x, 1e-6)
	assert.InDelta(t, 0.375, y, 1e-6)
}

func TestProjectIsOddAndLinear(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 15 {
		for lon := -180.0; lon <= 180; lon += 30 {
			x, y := Project(lat, lon)
			nx, ny := Project(-lat, -lon)
			assert.Equal(t, -x, nx, "x at (%v,%v)", lat, lon)
			assert.Equal(t, -y, ny, "y at (%v,%v)", lat, lon)

			hx, hy := Project(lat/2, lon/2)
			assert.InDelta(t, x/2, hx, 1e-6)
			assert.InDelta(t, y/2, hy, 1e-6)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(10, 10, 20))
	assert.Equal(t, 1.0, Normalize(20, 10, 20))
	assert.Equal(t, 0.5, Normalize(15, 10, 20))
	assert.Equal(t, 0.0, Normalize(7, 7, 7))
}

func TestNormalizeMapsExtremes(t *testing.T) {
	values := []float64{3, 99, 12, 0.5, 47}
	min, max := values[0], values[0]
	for _, v := range values {
		min = minf(min, v)
		max = maxf(max, v)
	}
	assert.Equal(t, 0.0, Normalize(min, min, max))
	assert.Equal(t, 1.0, Normalize(max, min, max))
	for _, v := range values {
		n := Normalize(v, min, max)
		assert.GreaterOrEqual(t, n, 0.0)
		assert.LessOrEqual(t, n, 1.0)
	}
}

func TestBuildMarkers_TwoRecordScenario(t *testing.T) {
	records := []dataset.Record{
		{Name: "A", Metrics: dataset.Metrics{Population: 10}},
		{Name: "B", Metrics: dataset.Metrics{Population: 20}},
	}
	markers := BuildMarkers(records)
	require.Len(t, markers, 2)

	assert.Equal(t, "A", markers[0].Name)
	assert.Equal(t, float32(0), markers[0].Metric(dataset.Population))
	assert.Equal(t, float32(1), markers[1].Metric(dataset.Population))

	// Every other metric is constant across the set.
	for _, c := range []dataset.Category{dataset.GDP, dataset.Area, dataset.Elevation} {
		assert.Zero(t, markers[0].Metric(c))
		assert.Zero(t, markers[1].Metric(c))
	}
}

func TestBuildMarkers_UsesGlobalRange(t *testing.T) {
	records := []dataset.Record{
		{Name: "low", Lat: 10, Lon: 20, Metrics: dataset.Metrics{GDP: 100}},
		{Name: "mid", Lat: -10, Lon: -20, Metrics: dataset.Metrics{GDP: 150}},
		{Name: "high", Lat: 0, Lon: 0, Metrics: dataset.Metrics{GDP: 300}},
	}
	markers := BuildMarkers(records)

	assert.InDelta(t, 0.25, markers[1].Metric(dataset.GDP), 1e-6)
	x, y := Project(-10, -20)
	assert.Equal(t, x, markers[1].X)
	assert.Equal(t, y, markers[1].Y)
}

func TestBuildMarkers_SingleRecord(t *testing.T) {
	markers := BuildMarkers([]dataset.Record{
		{Name: "Solo", Lat: 12, Lon: 34, Metrics: dataset.Metrics{Population: 5, GDP: 6, Area: 7, AverageElevation: 8}},
	})
	require.Len(t, markers, 1)
	for _, c := range dataset.Categories() {
		assert.Zero(t, markers[0].Metric(c), c.String())
	}
}

func TestBuildMarkers_Empty(t *testing.T) {
	assert.Empty(t, BuildMarkers(nil))
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
