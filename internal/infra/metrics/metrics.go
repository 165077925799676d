// Package metrics provides Prometheus metrics for tally.
// A CLI run is too short-lived to be scraped, so counters live on a private
// registry and are written to a node-exporter textfile at the end of a run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tally-cli/tally/internal/domain"
)

// Recorder owns one registry and the tally collectors registered on it.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	// Operations counts tracker operations by name and result.
	Operations *prometheus.CounterVec
	// TrackedSeconds counts time closed into intervals, per task.
	TrackedSeconds *prometheus.CounterVec
	// Tasks is the number of tasks per status after the last save.
	Tasks *prometheus.GaugeVec
}

// NewRecorder registers the tally collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		reg: reg,
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tally",
			Name:      "operations_total",
			Help:      "Tracker operations by name and result.",
		}, []string{"op", "result"}),
		TrackedSeconds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tally",
			Name:      "tracked_seconds_total",
			Help:      "Seconds recorded into closed intervals.",
		}, []string{"task"}),
		Tasks: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tally",
			Name:      "tasks",
			Help:      "Tasks in the store by status.",
		}, []string{"status"}),
	}
}

// Gatherer exposes the registry; WriteTextfile reads from it.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Operation counts one finished operation; err == nil is "ok".
func (r *Recorder) Operation(op string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.Operations.WithLabelValues(op, result).Inc()
}

// Tracked adds a closed span of work for task.
func (r *Recorder) Tracked(task string, d time.Duration) {
	if r == nil || d <= 0 {
		return
	}
	r.TrackedSeconds.WithLabelValues(task).Add(d.Seconds())
}

// Snapshot sets the per-status gauge from the saved list.
func (r *Recorder) Snapshot(tasks domain.TaskList) {
	if r == nil {
		return
	}
	for status, n := range tasks.CountByStatus() {
		r.Tasks.WithLabelValues(string(status)).Set(float64(n))
	}
}

// WriteTextfile writes the registry in text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	return prometheus.WriteToTextfile(path, r.Gatherer())
}
