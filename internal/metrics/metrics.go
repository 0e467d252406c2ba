// Package metrics exports run results in the Prometheus text format.
//
// Each invocation builds its own registry and writes it to a file suitable
// for the node_exporter textfile collector; nothing is served over the
// network.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/aes/internal/runner"
)

// Recorder holds the gauges describing the most recent run per scenario.
type Recorder struct {
	registry *prometheus.Registry

	steps     *prometheus.GaugeVec
	success   *prometheus.GaugeVec
	duration  *prometheus.GaugeVec
	completed *prometheus.GaugeVec
}

// NewRecorder creates a Recorder backed by a fresh registry.
func NewRecorder() *Recorder {
	labels := []string{"scenario_id"}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aes_run_steps",
			Help: "Number of steps executed by the last run",
		}, labels),
		success: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aes_run_success",
			Help: "1 if the last run succeeded, 0 otherwise",
		}, labels),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aes_run_duration_seconds",
			Help: "Wall-clock duration of the last run",
		}, labels),
		completed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aes_run_completed_timestamp_seconds",
			Help: "Unix time at which the last run completed",
		}, labels),
	}
	r.registry.MustRegister(r.steps, r.success, r.duration, r.completed)
	return r
}

// Observe records run. Unparseable timestamps are an error and leave the
// time-based gauges unset.
func (r *Recorder) Observe(run runner.RunRecord) error {
	id := run.ScenarioID
	r.steps.WithLabelValues(id).Set(float64(len(run.Steps)))
	if run.Success {
		r.success.WithLabelValues(id).Set(1)
	} else {
		r.success.WithLabelValues(id).Set(0)
	}

	started, err := time.Parse(runner.TimeLayout, run.StartedAt)
	if err != nil {
		return fmt.Errorf("parse started_at: %w", err)
	}
	completed, err := time.Parse(runner.TimeLayout, run.CompletedAt)
	if err != nil {
		return fmt.Errorf("parse completed_at: %w", err)
	}
	r.duration.WithLabelValues(id).Set(completed.Sub(started).Seconds())
	r.completed.WithLabelValues(id).Set(float64(completed.UnixNano()) / 1e9)
	return nil
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all recorded metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
