package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalyzerCollector exposes Prometheus metrics for batch trajectory analysis.
type AnalyzerCollector struct {
	gatherer prometheus.Gatherer

	AnalysisDuration     prometheus.Histogram
	TrajectoriesAnalyzed prometheus.Counter
	ViolationsFound      prometheus.Counter
	FilesQueued          prometheus.Gauge
}

// NewAnalyzerCollector registers analyzer metrics against the provided registerer.
func NewAnalyzerCollector(reg prometheus.Registerer) (*AnalyzerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_trajectory_duration_seconds",
		Help:    "Duration of single-trajectory constraint analysis.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	duration, err := registerHistogram(reg, duration, "analyzer_trajectory_duration_seconds")
	if err != nil {
		return nil, err
	}

	analyzed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_trajectories_total",
		Help: "Cumulative number of trajectories analyzed.",
	})
	analyzed, err = registerCounter(reg, analyzed, "analyzer_trajectories_total")
	if err != nil {
		return nil, err
	}

	violations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_violations_total",
		Help: "Cumulative number of geofence violation samples found across all trajectories.",
	})
	violations, err = registerCounter(reg, violations, "analyzer_violations_total")
	if err != nil {
		return nil, err
	}

	queued := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "analyzer_files_queued",
		Help: "Number of trajectory files waiting to be analyzed.",
	})
	queued, err = registerGauge(reg, queued, "analyzer_files_queued")
	if err != nil {
		return nil, err
	}

	return &AnalyzerCollector{
		gatherer:             gatherer,
		AnalysisDuration:     duration,
		TrajectoriesAnalyzed: analyzed,
		ViolationsFound:      violations,
		FilesQueued:          queued,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *AnalyzerCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveAnalysis records the duration of one trajectory analysis and bumps
// the processed and violation counters.
func (c *AnalyzerCollector) ObserveAnalysis(d time.Duration, violations int) {
	if c == nil {
		return
	}
	if c.AnalysisDuration != nil {
		c.AnalysisDuration.Observe(d.Seconds())
	}
	if c.TrajectoriesAnalyzed != nil {
		c.TrajectoriesAnalyzed.Inc()
	}
	if c.ViolationsFound != nil && violations > 0 {
		c.ViolationsFound.Add(float64(violations))
	}
}

// SetQueuedFiles updates the backlog gauge.
func (c *AnalyzerCollector) SetQueuedFiles(count int) {
	if c == nil || c.FilesQueued == nil {
		return
	}
	c.FilesQueued.Set(float64(count))
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
