package background

import (
	"statmap/internal/graphics"
	"statmap/internal/graphics/gpu"
	renderer "statmap/internal/graphics/renderer"
	"statmap/internal/profiling"
)

// Quad vertex layout: x, y, z, u, v.
const (
	floatsPerVertex = 5
	stride          = floatsPerVertex * 4
	texCoordOffset  = 3 * 4
)

// Vertices covers render space with two triangles. Texture coordinates map
// the full image onto the quad.
var Vertices = []float32{
	-0.75, -0.75, 0, 0, 0,
	-0.75, 0.75, 0, 0, 1,
	0.75, -0.75, 0, 1, 0,
	-0.75, 0.75, 0, 0, 1,
	0.75, 0.75, 0, 1, 1,
	0.75, -0.75, 0, 1, 0,
}

// VertexCount is the number of quad vertices drawn per pass.
var VertexCount = int32(len(Vertices) / floatsPerVertex)

// Background draws the map quad with depth testing off so markers never
// fight it. The quad is tinted white and sampled from the bound texture when
// one is available.
type Background struct {
	gl  gpu.GL
	vao uint32
	vbo uint32
}

func New() *Background {
	return &Background{}
}

// Init uploads the static quad once.
func (b *Background) Init(g gpu.GL) error {
	b.gl = g
	b.vao = g.GenVertexArray()
	g.BindVertexArray(b.vao)

	b.vbo = g.GenBuffer()
	g.BindBuffer(gpu.ArrayBuffer, b.vbo)
	g.BufferData(gpu.ArrayBuffer, Vertices, gpu.StaticDraw)

	g.VertexAttribPointer(graphics.AttribPosition, 3, stride, 0)
	g.EnableVertexAttribArray(graphics.AttribPosition)
	g.VertexAttribPointer(graphics.AttribTexCoord, 2, stride, texCoordOffset)
	g.EnableVertexAttribArray(graphics.AttribTexCoord)

	// Color and the textured flag come from constant attributes at draw time.
	g.DisableVertexAttribArray(graphics.AttribColor)
	g.DisableVertexAttribArray(graphics.AttribTextured)

	g.BindVertexArray(0)
	return nil
}

func (b *Background) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.renderBackground")()

	g := ctx.GL
	g.Disable(gpu.DepthTest)
	g.BindVertexArray(b.vao)

	g.VertexAttrib3f(graphics.AttribColor, 1, 1, 1)
	g.ActiveTexture(gpu.Texture0)
	if ctx.Textured {
		g.BindTexture(gpu.Texture2D, ctx.Texture)
		g.VertexAttrib1f(graphics.AttribTextured, 1)
	} else {
		g.BindTexture(gpu.Texture2D, 0)
		g.VertexAttrib1f(graphics.AttribTextured, 0)
	}

	g.DrawArrays(gpu.Triangles, 0, VertexCount)
	g.BindVertexArray(0)
}

// Dispose cleans up OpenGL resources
func (b *Background) Dispose() {
	if b.gl == nil {
		return
	}
	if b.vao != 0 {
		b.gl.DeleteVertexArray(b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		b.gl.DeleteBuffer(b.vbo)
		b.vbo = 0
	}
}
