package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AirspaceCollector bundles Prometheus metrics for the evaluation engine and
// provides a ready-to-serve /metrics handler for the monitor process.
type AirspaceCollector struct {
	gatherer prometheus.Gatherer

	Evaluations   *prometheus.CounterVec
	EvalDurations *prometheus.HistogramVec
	Violations    *prometheus.CounterVec

	ActiveDrones    prometheus.Gauge
	ActiveOperators prometheus.Gauge
	LoadedZones     prometheus.Gauge
	StreamClients   prometheus.Gauge
}

// NewAirspaceCollector registers evaluation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewAirspaceCollector(reg prometheus.Registerer) (*AirspaceCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airspace_evaluations_total",
		Help: "Total number of constraint evaluations, labeled by mode (preflight or monitor) and decision.",
	}, []string{"mode", "decision"})
	evaluations, err := registerCounterVec(reg, evaluations, "airspace_evaluations_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airspace_evaluation_duration_seconds",
		Help:    "Constraint evaluation latency in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}, []string{"mode"})
	durations, err = registerHistogramVec(reg, durations, "airspace_evaluation_duration_seconds")
	if err != nil {
		return nil, err
	}

	violations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airspace_violations_total",
		Help: "Total number of constraint violations observed, labeled by dimension.",
	}, []string{"dimension"})
	violations, err = registerCounterVec(reg, violations, "airspace_violations_total")
	if err != nil {
		return nil, err
	}

	drones, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airspace_active_drones",
		Help: "Current number of drones in the fleet roster.",
	}), "airspace_active_drones")
	if err != nil {
		return nil, err
	}
	operators, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airspace_active_operators",
		Help: "Current number of distinct operators with at least one active drone.",
	}), "airspace_active_operators")
	if err != nil {
		return nil, err
	}
	zones, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airspace_loaded_zones",
		Help: "Current number of zones held by the zone registry, all categories combined.",
	}), "airspace_loaded_zones")
	if err != nil {
		return nil, err
	}
	streamClients, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airspace_stream_clients",
		Help: "Current number of connected result-stream websocket clients.",
	}), "airspace_stream_clients")
	if err != nil {
		return nil, err
	}

	return &AirspaceCollector{
		gatherer:        gatherer,
		Evaluations:     evaluations,
		EvalDurations:   durations,
		Violations:      violations,
		ActiveDrones:    drones,
		ActiveOperators: operators,
		LoadedZones:     zones,
		StreamClients:   streamClients,
	}, nil
}

// RecordEvaluation counts one completed evaluation and observes its latency.
func (c *AirspaceCollector) RecordEvaluation(mode, decision string, d time.Duration) {
	if c == nil {
		return
	}
	if c.Evaluations != nil {
		c.Evaluations.WithLabelValues(mode, decision).Inc()
	}
	if c.EvalDurations != nil {
		c.EvalDurations.WithLabelValues(mode).Observe(d.Seconds())
	}
}

// RecordViolation counts one violation on the given constraint dimension.
func (c *AirspaceCollector) RecordViolation(dimension string) {
	if c == nil || c.Violations == nil {
		return
	}
	c.Violations.WithLabelValues(dimension).Inc()
}

// SetFleetCounts updates the roster gauges.
func (c *AirspaceCollector) SetFleetCounts(drones, operators int) {
	if c == nil {
		return
	}
	if c.ActiveDrones != nil {
		c.ActiveDrones.Set(float64(drones))
	}
	if c.ActiveOperators != nil {
		c.ActiveOperators.Set(float64(operators))
	}
}

// SetZoneCount updates the loaded-zone gauge.
func (c *AirspaceCollector) SetZoneCount(n int) {
	if c == nil || c.LoadedZones == nil {
		return
	}
	c.LoadedZones.Set(float64(n))
}

// SetStreamClients updates the websocket client gauge.
func (c *AirspaceCollector) SetStreamClients(n int) {
	if c == nil || c.StreamClients == nil {
		return
	}
	c.StreamClients.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *AirspaceCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
