package renderer

import (
	"statmap/internal/graphics"
	"statmap/internal/graphics/gpu"
)

// RenderContext provides shared context for all renderables
type RenderContext struct {
	GL     gpu.GL
	Shader *graphics.Shader
	Camera *graphics.Camera

	// Textured is set once a background texture has been uploaded.
	Textured bool
	Texture  uint32
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init(g gpu.GL) error
	Render(ctx RenderContext)
	Dispose()
}

// SceneConsumer is implemented by renderables that hold per-scene buffers.
// Upload replaces the previous buffers entirely.
type SceneConsumer interface {
	Upload(vertices, colors []float32)
}
