// Package metrics exposes clock engine activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tartampluch/go-analogclock/internal/config"
	"github.com/tartampluch/go-analogclock/internal/engine"
)

// Metrics implements engine.Recorder on a private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	ticks       prometheus.Counter
	redraws     prometheus.Counter
	zoneChanges *prometheus.CounterVec
	frames      prometheus.Counter
	layouts     prometheus.Counter
	scale       prometheus.Gauge
}

// New creates and registers the clock metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricTicks,
			Help:      config.MetricHelpTicks,
		}),
		redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricRedraws,
			Help:      config.MetricHelpRedraws,
		}),
		zoneChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricZoneChanges,
			Help:      config.MetricHelpZone,
		}, []string{config.MetricLabelOutcome}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricFrames,
			Help:      config.MetricHelpFrames,
		}),
		layouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricLayouts,
			Help:      config.MetricHelpLayouts,
		}),
		scale: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricScale,
			Help:      config.MetricHelpScale,
		}),
	}

	m.registry.MustRegister(
		m.ticks,
		m.redraws,
		m.zoneChanges,
		m.frames,
		m.layouts,
		m.scale,
		collectors.NewGoCollector(),
	)

	// Both outcomes are visible from the first scrape.
	m.zoneChanges.WithLabelValues(config.OutcomeApplied)
	m.zoneChanges.WithLabelValues(config.OutcomeFallback)
	m.scale.Set(1)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Tick()            { m.ticks.Inc() }
func (m *Metrics) RedrawRequested() { m.redraws.Inc() }
func (m *Metrics) FrameRendered()   { m.frames.Inc() }

func (m *Metrics) ZoneChanged(fallback bool) {
	outcome := config.OutcomeApplied
	if fallback {
		outcome = config.OutcomeFallback
	}
	m.zoneChanges.WithLabelValues(outcome).Inc()
}

func (m *Metrics) LayoutComputed(scale float64) {
	m.layouts.Inc()
	m.scale.Set(scale)
}

var _ engine.Recorder = (*Metrics)(nil)
