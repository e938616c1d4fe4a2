package main

import (
	"context"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupInputHandlers(ctx context.Context, window *glfw.Window, app *Viewer) {
	app.Input.SetKeyCallback(window)

	// Framebuffer size callback
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		app.Renderer.SetViewport(fbWidth, fbHeight)
	})

	// Refresh callback (called during window resize to prevent visual glitches)
	window.SetRefreshCallback(func(w *glfw.Window) {
		if app.Renderer.Frame(ctx) {
			w.SwapBuffers()
		}
	})
}
