package scene

import (
	"math"
	"testing"

	"statmap/internal/dataset"
	"statmap/internal/geo"
	"statmap/internal/meshing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maxZ returns the highest z of the marker at index i in a scene built with style.
func maxZ(vertices []float32, i int, style Style) float32 {
	per := style.Segments * meshing.VerticesPerSegment * 3
	var top float32
	for j := i * per; j < (i+1)*per; j += 3 {
		if z := vertices[j+2]; z > top {
			top = z
		}
	}
	return top
}

func TestAssemble_TwoRecordScenario(t *testing.T) {
	markers := geo.BuildMarkers([]dataset.Record{
		{Name: "A", Metrics: dataset.Metrics{Population: 10}},
		{Name: "B", Metrics: dataset.Metrics{Population: 20}},
	})
	style := DefaultStyle()

	vertices, colors := Assemble(markers, dataset.Population, style)
	require.Len(t, colors, len(vertices))
	require.Equal(t, 2*12*DefaultSegments*3, len(vertices))

	assert.Equal(t, float32(0), maxZ(vertices, 0, style))
	assert.Equal(t, float32(0.5), maxZ(vertices, 1, style))
}

func TestAssemble_Empty(t *testing.T) {
	vertices, colors := Assemble(nil, dataset.GDP, DefaultStyle())
	assert.Empty(t, vertices)
	assert.Empty(t, colors)
}

func TestAssemble_SingleRecordIsFlatButNotEmpty(t *testing.T) {
	markers := geo.BuildMarkers([]dataset.Record{
		{Name: "Solo", Lat: 10, Lon: 10, Metrics: dataset.Metrics{Population: 3, GDP: 3, Area: 3, AverageElevation: 3}},
	})
	for _, c := range dataset.Categories() {
		vertices, colors := Assemble(markers, c, DefaultStyle())
		require.NotEmpty(t, vertices, c.String())
		require.Len(t, colors, len(vertices))
		assert.Equal(t, float32(0), maxZ(vertices, 0, DefaultStyle()), c.String())
	}
}

func TestAssemble_OrderAndColors(t *testing.T) {
	markers := []geo.Marker{
		{Name: "Brazil", X: -0.2, Y: -0.1},
		{Name: "Nepal", X: 0.35, Y: 0.23},
	}
	style := Style{Radius: 0.01, Segments: 3}
	vertices, colors := Assemble(markers, dataset.Area, style)

	per := 3 * meshing.VerticesPerSegment * 3
	require.Len(t, vertices, 2*per)

	// The first vertex of each marker is its base center.
	assert.Equal(t, []float32{-0.2, -0.1, 0}, vertices[0:3])
	assert.Equal(t, []float32{0.35, 0.23, 0}, vertices[per:per+3])

	brazil := meshing.HashColor("Brazil")
	nepal := meshing.HashColor("Nepal")
	assert.Equal(t, []float32{brazil.R, brazil.G, brazil.B}, colors[0:3])
	assert.Equal(t, []float32{nepal.R, nepal.G, nepal.B}, colors[per:per+3])
}

func TestAssemble_DegenerateStyle(t *testing.T) {
	markers := []geo.Marker{{Name: "A"}, {Name: "B"}}
	vertices, colors := Assemble(markers, dataset.GDP, Style{Radius: 0.01, Segments: 2})
	assert.Empty(t, vertices)
	assert.Empty(t, colors)
}

func TestAssemble_DropsNonFiniteValues(t *testing.T) {
	var m geo.Marker
	m.Name = "nan"
	m.Normalized[dataset.GDP] = float32(math.NaN())
	vertices, _ := Assemble([]geo.Marker{m}, dataset.GDP, Style{Radius: 0.01, Segments: 3})
	for _, v := range vertices {
		assert.False(t, math.IsNaN(float64(v)), "NaN reached the buffer")
	}
}

func TestSceneRebuild(t *testing.T) {
	markers := geo.BuildMarkers([]dataset.Record{
		{Name: "A", Metrics: dataset.Metrics{Population: 10, GDP: 5}},
		{Name: "B", Metrics: dataset.Metrics{Population: 20, GDP: 1}},
	})
	s := New(markers, DefaultStyle())
	assert.False(t, s.Built())
	assert.Zero(t, s.VertexCount())
	assert.Equal(t, 2, s.Markers())

	s.Rebuild(dataset.GDP)
	assert.True(t, s.Built())
	assert.Equal(t, dataset.GDP, s.Category())
	assert.Equal(t, 2*12*DefaultSegments, s.VertexCount())
	assert.Equal(t, float32(0.5), maxZ(s.Vertices, 0, DefaultStyle()))
	assert.Equal(t, float32(0), maxZ(s.Vertices, 1, DefaultStyle()))

	s.Rebuild(dataset.Population)
	assert.Equal(t, dataset.Population, s.Category())
	assert.Equal(t, float32(0), maxZ(s.Vertices, 0, DefaultStyle()))
	assert.Equal(t, float32(0.5), maxZ(s.Vertices, 1, DefaultStyle()))
}
