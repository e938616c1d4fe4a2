package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"statmap/internal/dataset"
	"statmap/internal/graphics"
	"statmap/internal/graphics/gpu"
	"statmap/internal/logging"
	"statmap/internal/observability"
	"statmap/internal/profiling"
	"statmap/internal/scene"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is the pipeline lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateRendering
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRendering:
		return "rendering"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrNoContext          = errors.New("no graphics context")
	ErrNoSurface          = errors.New("drawing surface has no area")
	ErrAlreadyInitialized = errors.New("renderer already initialized")
	ErrFailed             = errors.New("renderer setup failed")
	ErrInvalidCategory    = errors.New("invalid category")
)

// DefaultTextureTimeout bounds how long the first draw waits for the
// background image.
const DefaultTextureTimeout = 5 * time.Second

var clearColor = [4]float32{0.0, 0.2, 0.3, 1.0}

// Option configures a Renderer.
type Option func(*Renderer)

func WithLogger(l logging.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(r *Renderer) {
		if c != nil {
			r.clock = c
		}
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(r *Renderer) { r.metrics = m }
}

// WithTextureTimeout sets how long the first draw is deferred while the
// background image loads. Zero or negative draws untextured immediately.
func WithTextureTimeout(d time.Duration) Option {
	return func(r *Renderer) { r.timeout = d }
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Renderer) {
		if t != nil {
			r.tracer = t
		}
	}
}

// Renderer orchestrates the map pipeline: one program, a fixed camera and
// the renderables drawn in the order given. Every exported method is
// serialized on one mutex and must be called from the thread owning the GL
// context.
type Renderer struct {
	mu sync.Mutex

	gl          gpu.GL
	scene       *scene.Scene
	renderables []Renderable

	log     logging.Logger
	clock   clockwork.Clock
	metrics *observability.Metrics
	tracer  trace.Tracer
	timeout time.Duration

	state  State
	err    error
	shader *graphics.Shader
	camera *graphics.Camera
	width  int
	height int

	// category is the latest request; the scene may lag behind it while
	// the first draw is deferred.
	category dataset.Category

	images   <-chan graphics.ImageResult
	timer    clockwork.Timer
	waiting  bool
	timedOut bool
	texture  uint32
}

// New creates a renderer over sc. Renderables are initialized in order,
// drawn in order and disposed in reverse.
func New(g gpu.GL, sc *scene.Scene, rs []Renderable, opts ...Option) *Renderer {
	if sc == nil {
		sc = scene.New(nil, scene.DefaultStyle())
	}
	r := &Renderer{
		gl:          g,
		scene:       sc,
		renderables: rs,
		log:         logging.Noop(),
		clock:       clockwork.NewRealClock(),
		tracer:      otel.Tracer(observability.TracerName),
		timeout:     DefaultTextureTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init acquires the program, uploads the camera matrices and static
// buffers, then performs the first render. When images is non-nil the first
// draw is deferred until it yields a result or the texture timeout elapses;
// Frame finishes the deferred draw.
//
// A nil context, an empty surface and shader or link errors leave the
// renderer in StateFailed with no draw issued.
func (r *Renderer) Init(ctx context.Context, width, height int, images <-chan graphics.ImageResult) error {
	ctx, span := r.tracer.Start(ctx, "renderer.Init", trace.WithAttributes(
		attribute.Int("surface.width", width),
		attribute.Int("surface.height", height),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateUninitialized:
	case StateFailed:
		return fmt.Errorf("%w: %w", ErrFailed, r.err)
	default:
		return ErrAlreadyInitialized
	}

	if r.gl == nil {
		return r.fail(ctx, span, observability.StageContext, ErrNoContext)
	}
	if width <= 0 || height <= 0 {
		return r.fail(ctx, span, observability.StageSurface, fmt.Errorf("%w: %dx%d", ErrNoSurface, width, height))
	}

	shader, err := graphics.NewShader(r.gl, graphics.MapVertexShader, graphics.MapFragmentShader)
	if err != nil {
		return r.fail(ctx, span, observability.StageShader, fmt.Errorf("build map program: %w", err))
	}

	r.gl.Enable(gpu.DepthTest)
	r.gl.DepthFunc(gpu.Lequal)
	r.gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	r.gl.Viewport(0, 0, int32(width), int32(height))

	r.width, r.height = width, height
	r.shader = shader
	r.camera = graphics.NewCamera(width, height)
	r.shader.Use()
	r.uploadMatrices()
	r.shader.SetInt(graphics.UniformTexture, 0)

	for i, rb := range r.renderables {
		if err := rb.Init(r.gl); err != nil {
			for j := i - 1; j >= 0; j-- {
				r.renderables[j].Dispose()
			}
			r.shader.Delete()
			r.shader = nil
			return r.fail(ctx, span, observability.StageBuffers, fmt.Errorf("init renderable: %w", err))
		}
	}

	r.state = StateReady
	r.log.Info(ctx, "renderer initialized",
		logging.Int("width", width),
		logging.Int("height", height),
		logging.Int("markers", r.scene.Markers()),
		logging.String("category", r.category.String()),
	)

	r.rebuild(ctx)

	r.images = images
	if images != nil && r.timeout > 0 {
		r.waiting = true
		r.timer = r.clock.NewTimer(r.timeout)
	}
	r.poll(ctx)
	if !r.waiting {
		r.draw(ctx)
	}
	return nil
}

// SetCategory requests a render for c. While the first draw is deferred the
// category is only recorded; the draw that ends the wait uses the latest
// value. Before Init the category is kept for the first render.
func (r *Renderer) SetCategory(ctx context.Context, c dataset.Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidCategory, c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateFailed:
		return fmt.Errorf("%w: %w", ErrFailed, r.err)
	case StateUninitialized:
		r.category = c
		return nil
	}

	prev := r.category
	r.category = c
	if r.waiting {
		r.log.Debug(ctx, "category recorded while background is loading",
			logging.String("category", c.String()))
		return nil
	}
	if prev == c && r.scene.Category() == c {
		return nil
	}

	r.rebuild(ctx)
	r.draw(ctx)
	return nil
}

// Frame checks for a finished image load and redraws the current scene.
// It reports whether a draw was issued; nothing is drawn before Init, after
// a setup failure or while the first draw is deferred.
func (r *Renderer) Frame(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateReady {
		return false
	}
	r.poll(ctx)
	if r.waiting {
		return false
	}
	if !r.scene.Built() || r.scene.Category() != r.category {
		r.rebuild(ctx)
	}
	r.draw(ctx)
	return true
}

// SetViewport resizes the viewport and re-uploads the projection matrix.
// Non-positive sizes, such as a minimized window, are ignored.
func (r *Renderer) SetViewport(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateReady || width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
	r.shader.Use()
	r.shader.SetMatrix4(graphics.UniformProjection, r.camera.GetProjectionMatrix())
}

func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the setup error that moved the renderer to StateFailed.
func (r *Renderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Textured reports whether a background texture is bound for drawing.
func (r *Renderer) Textured() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.texture != 0
}

// Category returns the most recently requested category.
func (r *Renderer) Category() dataset.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.category
}

// Dispose releases every GPU object in reverse creation order. A failed
// renderer stays failed; otherwise it may be initialized again.
func (r *Renderer) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.waiting = false
	r.images = nil

	if r.state != StateReady {
		return
	}
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	if r.texture != 0 {
		r.gl.DeleteTexture(r.texture)
		r.texture = 0
	}
	r.shader.Delete()
	r.shader = nil
	r.state = StateUninitialized
}

func (r *Renderer) uploadMatrices() {
	r.shader.SetMatrix4(graphics.UniformProjection, r.camera.GetProjectionMatrix())
	r.shader.SetMatrix4(graphics.UniformView, r.camera.GetViewMatrix())
	r.shader.SetMatrix4(graphics.UniformModel, r.camera.GetModelMatrix())
}

// rebuild assembles the scene for the requested category and replaces the
// buffers of every SceneConsumer.
func (r *Renderer) rebuild(ctx context.Context) {
	_, span := r.tracer.Start(ctx, "scene.Rebuild", trace.WithAttributes(
		attribute.String("category", r.category.String()),
	))
	defer span.End()

	start := r.clock.Now()
	r.scene.Rebuild(r.category)
	for _, rb := range r.renderables {
		if sc, ok := rb.(SceneConsumer); ok {
			sc.Upload(r.scene.Vertices, r.scene.Colors)
		}
	}

	vertices := r.scene.VertexCount()
	span.SetAttributes(attribute.Int("vertices", vertices))
	r.metrics.SceneRebuilt(r.clock.Since(start).Seconds(), vertices)
	r.log.Debug(ctx, "scene rebuilt",
		logging.String("category", r.category.String()),
		logging.Int("vertices", vertices),
	)
}

func (r *Renderer) draw(ctx context.Context) {
	_, span := r.tracer.Start(ctx, "renderer.Render", trace.WithAttributes(
		attribute.String("category", r.scene.Category().String()),
		attribute.Bool("textured", r.texture != 0),
	))
	defer span.End()
	defer profiling.Track("renderer.Render")()

	r.state = StateRendering
	r.gl.Clear(gpu.ColorBufferBit | gpu.DepthBufferBit)
	r.shader.Use()

	rc := RenderContext{
		GL:       r.gl,
		Shader:   r.shader,
		Camera:   r.camera,
		Textured: r.texture != 0,
		Texture:  r.texture,
	}
	for _, rb := range r.renderables {
		rb.Render(rc)
	}

	r.state = StateReady
	r.metrics.RenderDone()
}

// poll consumes a finished image load and checks the first-draw deadline.
// Images arriving after the deadline are still uploaded.
func (r *Renderer) poll(ctx context.Context) {
	if r.images != nil {
		select {
		case res, ok := <-r.images:
			r.images = nil
			if !ok {
				res.Err = errors.New("image source closed without a result")
			}
			r.applyImage(ctx, res)
		default:
		}
	}

	if !r.waiting {
		return
	}
	if r.images == nil {
		r.stopWaiting()
		return
	}
	select {
	case <-r.timer.Chan():
		r.timer = nil
		r.waiting = false
		r.timedOut = true
		r.metrics.TextureLoad(observability.TextureTimedOut)
		r.log.Warn(ctx, "background image not ready; drawing untextured",
			logging.String("timeout", r.timeout.String()))
	default:
	}
}

func (r *Renderer) stopWaiting() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.waiting = false
}

func (r *Renderer) applyImage(ctx context.Context, res graphics.ImageResult) {
	if res.Err != nil || res.Image == nil {
		err := res.Err
		if err == nil {
			err = errors.New("empty image")
		}
		r.metrics.TextureLoad(observability.TextureFailed)
		r.log.Warn(ctx, "background image unavailable; drawing untextured",
			logging.String("path", res.Path), logging.Err(err))
		return
	}

	r.texture = graphics.UploadTexture(r.gl, res.Image)
	outcome := observability.TextureLoaded
	if r.timedOut {
		outcome = observability.TextureLate
	}
	r.metrics.TextureLoad(outcome)
	r.log.Info(ctx, "background texture uploaded",
		logging.String("path", res.Path),
		logging.Int("width", res.Image.Bounds().Dx()),
		logging.Int("height", res.Image.Bounds().Dy()),
		logging.String("outcome", outcome),
	)
}

func (r *Renderer) fail(ctx context.Context, span trace.Span, stage string, err error) error {
	r.state = StateFailed
	r.err = err
	r.metrics.SetupFailed(stage)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.log.Error(ctx, "renderer setup failed", logging.String("stage", stage), logging.Err(err))
	return err
}
