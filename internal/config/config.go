package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"statmap/internal/dataset"
	"statmap/internal/scene"
)

// Config holds the viewer settings, populated from environment variables.
type Config struct {
	DataPath       string
	BackgroundPath string
	WindowWidth    int
	WindowHeight   int
	Category       dataset.Category
	TextureTimeout time.Duration

	LogLevel      string
	LogFormat     string
	TraceExporter string

	// Marker geometry.
	MarkerRadius   float32
	MarkerSegments int
}

// Default returns the configuration used when no variable is set.
func Default() *Config {
	return &Config{
		DataPath:       "assets/countryData.json",
		BackgroundPath: "assets/world.jpg",
		WindowWidth:    1280,
		WindowHeight:   720,
		Category:       dataset.Population,
		TextureTimeout: 5 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
		TraceExporter:  "none",
		MarkerRadius:   scene.DefaultRadius,
		MarkerSegments: scene.DefaultSegments,
	}
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := Default()

	cfg.DataPath = envOrDefault("STATMAP_DATA", cfg.DataPath)
	cfg.BackgroundPath = envOrDefault("STATMAP_BACKGROUND", cfg.BackgroundPath)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.TraceExporter = envOrDefault("STATMAP_TRACE_EXPORTER", cfg.TraceExporter)

	var err error
	if cfg.WindowWidth, err = envInt("STATMAP_WIDTH", cfg.WindowWidth); err != nil {
		return nil, err
	}
	if cfg.WindowHeight, err = envInt("STATMAP_HEIGHT", cfg.WindowHeight); err != nil {
		return nil, err
	}
	if cfg.MarkerSegments, err = envInt("STATMAP_MARKER_SEGMENTS", cfg.MarkerSegments); err != nil {
		return nil, err
	}

	if s := os.Getenv("STATMAP_CATEGORY"); s != "" {
		c, err := dataset.ParseCategory(s)
		if err != nil {
			return nil, fmt.Errorf("invalid STATMAP_CATEGORY: %w", err)
		}
		cfg.Category = c
	}
	if s := os.Getenv("STATMAP_TEXTURE_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid STATMAP_TEXTURE_TIMEOUT: %w", err)
		}
		cfg.TextureTimeout = d
	}
	if s := os.Getenv("STATMAP_MARKER_RADIUS"); s != "" {
		r, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid STATMAP_MARKER_RADIUS: %w", err)
		}
		cfg.MarkerRadius = float32(r)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and required values.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.New("STATMAP_DATA is required")
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.WindowWidth, c.WindowHeight)
	}
	if !c.Category.Valid() {
		return fmt.Errorf("invalid category %v", c.Category)
	}
	if c.TextureTimeout < 0 {
		return errors.New("texture timeout must not be negative")
	}
	if c.MarkerRadius <= 0 {
		return errors.New("marker radius must be positive")
	}
	if c.MarkerSegments < 3 {
		return fmt.Errorf("marker segments must be at least 3, got %d", c.MarkerSegments)
	}
	switch strings.ToLower(c.TraceExporter) {
	case "", "none", "off", "stdout":
	default:
		return fmt.Errorf("unsupported trace exporter %q", c.TraceExporter)
	}
	return nil
}

// Style returns the marker geometry.
func (c *Config) Style() scene.Style {
	return scene.Style{Radius: c.MarkerRadius, Segments: c.MarkerSegments}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
