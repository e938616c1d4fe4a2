package meshing

import "math"

// VerticesPerSegment is the number of vertices emitted for one angular slice:
// a bottom triangle, a top triangle and two side-wall triangles.
const VerticesPerSegment = 12

// MinSegments is the smallest segment count that encloses an area.
const MinSegments = 3

// Cylinder is a flat-shaded triangle soup. Vertices holds xyz triples and
// Colors holds one rgb triple per vertex.
type Cylinder struct {
	Vertices []float32
	Colors   []float32
}

// VertexCount returns the number of vertices.
func (c Cylinder) VertexCount() int {
	return len(c.Vertices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (c Cylinder) IsEmpty() bool {
	return len(c.Vertices) == 0
}

// BuildCylinder generates a closed cylinder standing on the z=0 plane with its
// base centered at (x, y).
//
// The result always holds exactly VerticesPerSegment*segments vertices, all
// tinted with color. A zero height collapses the mesh into a flat disk but
// keeps the vertex count. segments below MinSegments is a caller error and
// returns an empty Cylinder.
func BuildCylinder(x, y, height, radius float32, segments int, color Color) Cylinder {
	if segments < MinSegments {
		return Cylinder{}
	}

	n := segments * VerticesPerSegment * 3
	vertices := make([]float32, 0, n)
	colors := make([]float32, 0, n)

	angleStep := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i++ {
		angle := float64(i) * angleStep
		nextAngle := float64(i+1) * angleStep

		x1 := x + radius*float32(math.Cos(angle))
		y1 := y + radius*float32(math.Sin(angle))
		x2 := x + radius*float32(math.Cos(nextAngle))
		y2 := y + radius*float32(math.Sin(nextAngle))

		// Bottom
		vertices = append(vertices,
			x, y, 0,
			x1, y1, 0,
			x2, y2, 0,
		)
		// Top, reversed winding
		vertices = append(vertices,
			x, y, height,
			x2, y2, height,
			x1, y1, height,
		)
		// Side
		vertices = append(vertices,
			x1, y1, 0,
			x1, y1, height,
			x2, y2, 0,
			x2, y2, 0,
			x1, y1, height,
			x2, y2, height,
		)
	}

	for i := 0; i < VerticesPerSegment*segments; i++ {
		colors = append(colors, color.R, color.G, color.B)
	}

	return Cylinder{Vertices: vertices, Colors: colors}
}
