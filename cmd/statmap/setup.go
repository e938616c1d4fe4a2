package main

import (
	"context"
	"fmt"

	"statmap/internal/config"
	"statmap/internal/dataset"
	"statmap/internal/geo"
	"statmap/internal/graphics"
	"statmap/internal/graphics/gpu/opengl"
	"statmap/internal/graphics/renderables/background"
	"statmap/internal/graphics/renderables/markers"
	renderer "statmap/internal/graphics/renderer"
	"statmap/internal/input"
	"statmap/internal/logging"
	"statmap/internal/observability"
	"statmap/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupWindow(cfg *config.Config) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.WindowWidth, cfg.WindowHeight, "statmap", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}

// Viewer holds the initialized viewer components
type Viewer struct {
	Renderer *renderer.Renderer
	Scene    *scene.Scene
	Input    *input.InputManager
}

func setupViewer(ctx context.Context, cfg *config.Config, window *glfw.Window, records []dataset.Record, log logging.Logger, metrics *observability.Metrics) (*Viewer, error) {
	glContext, err := opengl.Init()
	if err != nil {
		metrics.SetupFailed(observability.StageContext)
		log.Error(ctx, "opengl init failed", logging.Err(err))
		return nil, fmt.Errorf("init opengl: %w", err)
	}
	log.Info(ctx, "opengl ready", logging.String("version", glContext.Version()))

	sc := scene.New(geo.BuildMarkers(records), cfg.Style())
	r := renderer.New(glContext, sc,
		[]renderer.Renderable{background.New(), markers.New()},
		renderer.WithLogger(log.With(logging.String("component", "renderer"))),
		renderer.WithMetrics(metrics),
		renderer.WithTextureTimeout(cfg.TextureTimeout),
	)
	if err := r.SetCategory(ctx, cfg.Category); err != nil {
		return nil, err
	}

	var images <-chan graphics.ImageResult
	if cfg.BackgroundPath != "" {
		images = graphics.LoadImageAsync(cfg.BackgroundPath)
	}

	// Framebuffer size, not window size, so high-DPI displays get full resolution.
	fbWidth, fbHeight := window.GetFramebufferSize()
	if err := r.Init(ctx, fbWidth, fbHeight, images); err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	return &Viewer{Renderer: r, Scene: sc, Input: input.NewInputManager()}, nil
}
