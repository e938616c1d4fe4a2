package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.RenderDone()
	m.RenderDone()
	m.SceneRebuilt(0.002, 240)
	m.TextureLoad(TextureLoaded)
	m.SetupFailed(StageShader)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Renders))
	assert.Equal(t, 240.0, testutil.ToFloat64(m.SceneVertices))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TextureLoads.WithLabelValues(TextureLoaded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SetupFailures.WithLabelValues(StageShader)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RebuildSeconds))
}

func TestNewMetricsReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewMetrics(reg)
	require.NoError(t, err)
	b, err := NewMetrics(reg)
	require.NoError(t, err)

	a.RenderDone()
	assert.Equal(t, 1.0, testutil.ToFloat64(b.Renders))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RenderDone()
		m.SceneRebuilt(1, 1)
		m.TextureLoad(TextureFailed)
		m.SetupFailed(StageSurface)
	})
}

func TestSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.RenderDone()
	m.TextureLoad(TextureTimedOut)
	m.SceneRebuilt(0.01, 12)

	got, err := Summary(reg)
	require.NoError(t, err)
	assert.Contains(t, got, "statmap_renders_total=1")
	assert.Contains(t, got, "statmap_texture_loads_total{outcome=timeout}=1")
	assert.Contains(t, got, "statmap_scene_vertices=12")
	assert.Contains(t, got, "statmap_scene_rebuild_duration_seconds=1")
	assert.NotContains(t, got, "setup_failures", "vectors without children are not gathered")
}

func TestInitTracingStdout(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	shutdown, err := InitTracing(ctx, TracingConfig{Exporter: "stdout", Output: &buf}, nil)
	require.NoError(t, err)

	_, span := otel.Tracer(TracerName).Start(ctx, "renderer.Init")
	span.End()
	ShutdownWithTimeout(ctx, shutdown, nil)

	assert.True(t, strings.Contains(buf.String(), `"Name":"renderer.Init"`), buf.String())
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, err = InitTracing(context.Background(), TracingConfig{Exporter: "zipkin"}, nil)
	assert.ErrorContains(t, err, "unsupported tracing exporter")
}
