package observability

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Texture load outcomes.
const (
	TextureLoaded   = "loaded"
	TextureFailed   = "failed"
	TextureTimedOut = "timeout"
	TextureLate     = "late"
)

// Setup failure stages.
const (
	StageContext = "context"
	StageSurface = "surface"
	StageShader  = "shader"
	StageBuffers = "buffers"
)

// Metrics holds the Prometheus collectors for the render pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Renders        prometheus.Counter
	RebuildSeconds prometheus.Histogram
	SceneVertices  prometheus.Gauge
	TextureLoads   *prometheus.CounterVec // labels: outcome={loaded,failed,timeout,late}
	SetupFailures  *prometheus.CounterVec // labels: stage={context,surface,shader,buffers}
}

// NewMetrics registers the pipeline metrics against reg, defaulting to the
// global registry when nil. Collectors already registered under the same
// name are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	renders, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "statmap",
		Name:      "renders_total",
		Help:      "Total completed draw passes.",
	}))
	if err != nil {
		return nil, err
	}
	rebuild, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "statmap",
		Name:      "scene_rebuild_duration_seconds",
		Help:      "Time spent assembling and uploading marker geometry.",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}))
	if err != nil {
		return nil, err
	}
	vertices, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "statmap",
		Name:      "scene_vertices",
		Help:      "Vertices in the current marker buffers.",
	}))
	if err != nil {
		return nil, err
	}
	textures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statmap",
		Name:      "texture_loads_total",
		Help:      "Background image loads by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	failures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statmap",
		Name:      "setup_failures_total",
		Help:      "Fatal renderer setup failures by stage.",
	}, []string{"stage"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Renders:        renders,
		RebuildSeconds: rebuild,
		SceneVertices:  vertices,
		TextureLoads:   textures,
		SetupFailures:  failures,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) RenderDone() {
	if m == nil {
		return
	}
	m.Renders.Inc()
}

// SceneRebuilt records one rebuild and the resulting vertex count.
func (m *Metrics) SceneRebuilt(seconds float64, vertices int) {
	if m == nil {
		return
	}
	m.RebuildSeconds.Observe(seconds)
	m.SceneVertices.Set(float64(vertices))
}

func (m *Metrics) TextureLoad(outcome string) {
	if m == nil {
		return
	}
	m.TextureLoads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetupFailed(stage string) {
	if m == nil {
		return
	}
	m.SetupFailures.WithLabelValues(stage).Inc()
}

// Summary renders every statmap_ series in g as a single sorted line,
// e.g. "statmap_renders_total=3 statmap_texture_loads_total{outcome=loaded}=1".
// Histograms report their sample count.
func Summary(g prometheus.Gatherer) (string, error) {
	families, err := g.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}

	var parts []string
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "statmap_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			parts = append(parts, fmt.Sprintf("%s%s=%g", mf.GetName(), labels(m.GetLabel()), value(mf.GetType(), m)))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " "), nil
}

func labels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	kv := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		kv = append(kv, lp.GetName()+"="+lp.GetValue())
	}
	return "{" + strings.Join(kv, ",") + "}"
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(m.GetHistogram().GetSampleCount())
	default:
		return m.GetUntyped().GetValue()
	}
}
