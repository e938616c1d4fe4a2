package meshing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCylinderVertexCount(t *testing.T) {
	col := Color{R: 0.1, G: 0.2, B: 0.3}
	for segments := MinSegments; segments <= 64; segments++ {
		cyl := BuildCylinder(0.1, -0.2, 0.4, 0.005, segments, col)
		require.Equal(t, 12*segments, cyl.VertexCount(), "segments=%d", segments)
		require.Len(t, cyl.Colors, len(cyl.Vertices), "segments=%d", segments)
		require.Zero(t, len(cyl.Vertices)%3)
	}
}

func TestCylinderFlatColor(t *testing.T) {
	col := Color{R: 0.467, G: 0.078, B: 0.247}
	cyl := BuildCylinder(0, 0, 1, 1, 8, col)
	for i := 0; i < len(cyl.Colors); i += 3 {
		assert.Equal(t, col, Color{R: cyl.Colors[i], G: cyl.Colors[i+1], B: cyl.Colors[i+2]})
	}
}

func TestCylinderGeometry(t *testing.T) {
	const (
		cx, cy   = float32(0.3), float32(-0.4)
		height   = float32(0.25)
		radius   = float32(0.01)
		segments = 4
	)
	cyl := BuildCylinder(cx, cy, height, radius, segments, Color{})

	vertex := func(i int) [3]float32 {
		return [3]float32{cyl.Vertices[3*i], cyl.Vertices[3*i+1], cyl.Vertices[3*i+2]}
	}

	// First slice: bottom triangle starts at the center on z=0.
	assert.Equal(t, [3]float32{cx, cy, 0}, vertex(0))
	// Top triangle starts at the center on z=height.
	assert.Equal(t, [3]float32{cx, cy, height}, vertex(3))
	// Top winding is reversed: its second vertex is the bottom's third.
	b2, t1 := vertex(2), vertex(4)
	assert.Equal(t, b2[0], t1[0])
	assert.Equal(t, b2[1], t1[1])

	for i := 0; i < cyl.VertexCount(); i++ {
		v := vertex(i)
		assert.True(t, v[2] == 0 || v[2] == height, "vertex %d z=%v", i, v[2])
		d := math.Hypot(float64(v[0]-cx), float64(v[1]-cy))
		assert.LessOrEqual(t, d, float64(radius)+1e-6, "vertex %d outside radius", i)
	}
}

func TestCylinderZeroHeight(t *testing.T) {
	cyl := BuildCylinder(0, 0, 0, 0.005, 20, Color{R: 1})
	require.False(t, cyl.IsEmpty())
	assert.Equal(t, 240, cyl.VertexCount())
	for i := 2; i < len(cyl.Vertices); i += 3 {
		assert.Zero(t, cyl.Vertices[i])
	}
}

func TestCylinderTooFewSegments(t *testing.T) {
	for _, segments := range []int{-1, 0, 1, 2} {
		cyl := BuildCylinder(0, 0, 1, 1, segments, Color{})
		assert.True(t, cyl.IsEmpty(), "segments=%d", segments)
		assert.Empty(t, cyl.Colors)
	}
}

func TestHashColorDeterministic(t *testing.T) {
	for _, name := range []string{"", "A", "Brazil", "United States", "Côte d'Ivoire"} {
		assert.Equal(t, HashColor(name), HashColor(name), name)
	}
}

func TestHashColorKnownValues(t *testing.T) {
	cases := map[string]Color{
		"":              {},
		"A":             {},
		"Brazil":        {R: 0.467, G: 0.078, B: 0.247},
		"United States": {R: 0.525, G: 0.855, B: 0.247}, // hash wraps negative
		"Côte d'Ivoire": {R: 0.286, G: 0.071, B: 0.035},
		"😀":             {R: 0, G: 0.106, B: 0.051}, // surrogate pair
	}
	for name, want := range cases {
		got := HashColor(name)
		assert.InDelta(t, want.R, got.R, 1e-6, "%q R", name)
		assert.InDelta(t, want.G, got.G, 1e-6, "%q G", name)
		assert.InDelta(t, want.B, got.B, 1e-6, "%q B", name)
	}
}

func TestHashColorRange(t *testing.T) {
	for _, name := range []string{"x", "yy", "Kazakhstan", "Papua New Guinea", "São Tomé and Príncipe"} {
		c := HashColor(name)
		for _, v := range []float32{c.R, c.G, c.B} {
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
		}
	}
}

func BenchmarkBuildCylinderBasic(b *testing.B) {
	col := HashColor("Brazil")
	for i := 0; i < b.N; i++ {
		_ = BuildCylinder(0.1, 0.2, 0.5, 0.005, 20, col)
	}
}
