package markers

import (
	"statmap/internal/graphics"
	"statmap/internal/graphics/gpu"
	renderer "statmap/internal/graphics/renderer"
	"statmap/internal/profiling"
)

// Markers draws every extruded cylinder in one call from the concatenated
// scene buffers, with depth testing on so taller markers occlude shorter
// ones behind them.
type Markers struct {
	gl          gpu.GL
	vao         uint32
	positionVBO uint32
	colorVBO    uint32
	vertexCount int32
}

var _ renderer.SceneConsumer = (*Markers)(nil)

func New() *Markers {
	return &Markers{}
}

func (m *Markers) Init(g gpu.GL) error {
	m.gl = g
	m.vao = g.GenVertexArray()
	g.BindVertexArray(m.vao)

	m.positionVBO = g.GenBuffer()
	g.BindBuffer(gpu.ArrayBuffer, m.positionVBO)
	g.VertexAttribPointer(graphics.AttribPosition, 3, 0, 0)
	g.EnableVertexAttribArray(graphics.AttribPosition)

	m.colorVBO = g.GenBuffer()
	g.BindBuffer(gpu.ArrayBuffer, m.colorVBO)
	g.VertexAttribPointer(graphics.AttribColor, 3, 0, 0)
	g.EnableVertexAttribArray(graphics.AttribColor)

	g.DisableVertexAttribArray(graphics.AttribTexCoord)
	g.DisableVertexAttribArray(graphics.AttribTextured)

	g.BindVertexArray(0)
	return nil
}

// Upload replaces both buffers with the assembled scene. vertices and colors
// hold xyz and rgb triples of equal length.
func (m *Markers) Upload(vertices, colors []float32) {
	defer profiling.Track("renderer.uploadMarkers")()

	m.gl.BindBuffer(gpu.ArrayBuffer, m.positionVBO)
	m.gl.BufferData(gpu.ArrayBuffer, vertices, gpu.StaticDraw)
	m.gl.BindBuffer(gpu.ArrayBuffer, m.colorVBO)
	m.gl.BufferData(gpu.ArrayBuffer, colors, gpu.StaticDraw)
	m.gl.BindBuffer(gpu.ArrayBuffer, 0)

	m.vertexCount = int32(len(vertices) / 3)
}

// VertexCount returns the number of vertices drawn per pass.
func (m *Markers) VertexCount() int32 {
	return m.vertexCount
}

func (m *Markers) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.renderMarkers")()

	g := ctx.GL
	g.Enable(gpu.DepthTest)
	g.BindVertexArray(m.vao)
	g.DisableVertexAttribArray(graphics.AttribTexCoord)
	g.VertexAttrib1f(graphics.AttribTextured, 0)

	if m.vertexCount > 0 {
		g.DrawArrays(gpu.Triangles, 0, m.vertexCount)
	}
	g.BindVertexArray(0)
}

// Dispose cleans up OpenGL resources
func (m *Markers) Dispose() {
	if m.gl == nil {
		return
	}
	if m.vao != 0 {
		m.gl.DeleteVertexArray(m.vao)
		m.vao = 0
	}
	if m.positionVBO != 0 {
		m.gl.DeleteBuffer(m.positionVBO)
		m.positionVBO = 0
	}
	if m.colorVBO != 0 {
		m.gl.DeleteBuffer(m.colorVBO)
		m.colorVBO = 0
	}
	m.vertexCount = 0
}
