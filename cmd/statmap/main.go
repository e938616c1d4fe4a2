package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"statmap/internal/config"
	"statmap/internal/dataset"
	"statmap/internal/input"
	"statmap/internal/logging"
	"statmap/internal/observability"
	"statmap/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "statmap:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cfg, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx := context.Background()
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		Exporter:    cfg.TraceExporter,
		ServiceName: "statmap",
	}, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	records, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return err
	}
	log.Info(ctx, "dataset loaded",
		logging.String("path", cfg.DataPath),
		logging.Int("records", len(records)),
	)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg)
	if err != nil {
		metrics.SetupFailed(observability.StageSurface)
		log.Error(ctx, "window setup failed", logging.Err(err))
		return err
	}
	defer window.Destroy()

	app, err := setupViewer(ctx, cfg, window, records, log, metrics)
	if err != nil {
		return err
	}
	defer app.Renderer.Dispose()

	setupInputHandlers(ctx, window, app)
	runLoop(ctx, window, app, log)

	summary, err := observability.Summary(reg)
	if err != nil {
		log.Warn(ctx, "metrics summary unavailable", logging.Err(err))
	} else {
		log.Info(ctx, "shutdown", logging.String("metrics", summary))
	}
	return nil
}

// applyFlags lets command-line flags override the environment.
func applyFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("statmap", flag.ContinueOnError)
	data := fs.String("data", cfg.DataPath, "country data file (.json or .csv)")
	background := fs.String("background", cfg.BackgroundPath, "background map image")
	category := fs.String("category", cfg.Category.String(), "initial category: population, gdp, area, averageElevation")
	width := fs.Int("width", cfg.WindowWidth, "window width")
	height := fs.Int("height", cfg.WindowHeight, "window height")
	timeout := fs.Duration("texture-timeout", cfg.TextureTimeout, "how long the first draw waits for the background")
	logLevel := fs.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	trace := fs.String("trace", cfg.TraceExporter, "trace exporter: none or stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := dataset.ParseCategory(*category)
	if err != nil {
		return err
	}
	cfg.DataPath = *data
	cfg.BackgroundPath = *background
	cfg.Category = c
	cfg.WindowWidth = *width
	cfg.WindowHeight = *height
	cfg.TextureTimeout = *timeout
	cfg.LogLevel = *logLevel
	cfg.TraceExporter = *trace
	return cfg.Validate()
}

func runLoop(ctx context.Context, window *glfw.Window, app *Viewer, log logging.Logger) {
	for !window.ShouldClose() {
		if cat, ok := app.Input.CategoryRequest(app.Renderer.Category()); ok {
			if err := app.Renderer.SetCategory(ctx, cat); err != nil {
				log.Error(ctx, "category change failed", logging.Err(err))
			} else {
				log.Info(ctx, "category selected", logging.String("category", cat.String()))
			}
		}
		if app.Input.JustPressed(input.ActionToggleProfiling) {
			log.Info(ctx, "profiling", logging.String("top", profiling.TopN(5)))
		}
		if app.Input.JustPressed(input.ActionQuit) {
			window.SetShouldClose(true)
		}
		app.Input.PostUpdate()

		if app.Renderer.Frame(ctx) {
			window.SwapBuffers()
		}
		glfw.WaitEventsTimeout((50 * time.Millisecond).Seconds())
	}
}
