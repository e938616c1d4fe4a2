// Package scene turns normalized markers into one merged vertex/color buffer
// for the selected category.
package scene

import (
	"math"

	"statmap/internal/dataset"
	"statmap/internal/geo"
	"statmap/internal/meshing"
	"statmap/internal/profiling"
)

// HeightScale converts a normalized metric into marker height. It is a
// visual constant, not derived from the data.
const HeightScale = 0.5

// Marker geometry defaults.
const (
	DefaultRadius   = 0.005
	DefaultSegments = 20
)

// Style controls marker geometry.
type Style struct {
	Radius   float32
	Segments int
}

// DefaultStyle returns the standard marker geometry.
func DefaultStyle() Style {
	return Style{Radius: DefaultRadius, Segments: DefaultSegments}
}

// Assemble builds every marker's cylinder for category c and concatenates
// them. Markers are emitted in slice order, which is also the draw order.
// The returned slices have equal length, a multiple of 3.
func Assemble(markers []geo.Marker, c dataset.Category, style Style) (vertices, colors []float32) {
	defer profiling.Track("scene.Assemble")()

	perMarker := style.Segments * meshing.VerticesPerSegment * 3
	if style.Segments < meshing.MinSegments {
		perMarker = 0
	}
	vertices = make([]float32, 0, perMarker*len(markers))
	colors = make([]float32, 0, perMarker*len(markers))

	for _, m := range markers {
		cyl := meshing.BuildCylinder(
			finite(m.X),
			finite(m.Y),
			finite(m.Metric(c)*HeightScale),
			style.Radius,
			style.Segments,
			meshing.HashColor(m.Name),
		)
		vertices = append(vertices, cyl.Vertices...)
		colors = append(colors, cyl.Colors...)
	}
	return vertices, colors
}

// finite keeps NaN and Inf out of GPU buffers.
func finite(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}

// Scene owns the markers and the buffers assembled for the last category.
type Scene struct {
	markers  []geo.Marker
	style    Style
	category dataset.Category
	built    bool

	Vertices []float32
	Colors   []float32
}

// New creates a scene over markers. Buffers are empty until Rebuild.
func New(markers []geo.Marker, style Style) *Scene {
	return &Scene{markers: markers, style: style}
}

// Rebuild replaces the buffers with the geometry for category c.
func (s *Scene) Rebuild(c dataset.Category) {
	s.Vertices, s.Colors = Assemble(s.markers, c, s.style)
	s.category = c
	s.built = true
}

// Category returns the category of the last Rebuild.
func (s *Scene) Category() dataset.Category {
	return s.category
}

// Built reports whether Rebuild has run at least once.
func (s *Scene) Built() bool {
	return s.built
}

// VertexCount returns the number of vertices in the current buffers.
func (s *Scene) VertexCount() int {
	return len(s.Vertices) / 3
}

// Markers returns the number of markers in the scene.
func (s *Scene) Markers() int {
	return len(s.markers)
}
