package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every reactpack collector. It is separate from the default
// registry so a textfile only carries build metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	BuildCount = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactpack_build_count",
			Help: "Total number of builds by result",
		},
		[]string{"result"},
	)

	BuildFailed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactpack_build_failed",
			Help: "Number of failed builds by error kind",
		},
		[]string{"error_type"},
	)

	BuildDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reactpack_build_duration_seconds",
			Help:    "Build duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"result"},
	)

	AssetsEmitted = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "reactpack_assets_emitted",
			Help: "Number of files written by the bundler",
		},
	)

	TemplatesWritten = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "reactpack_templates_written",
			Help: "Number of HTML templates written",
		},
	)

	LastBuildEnd = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "reactpack_last_build_end_timestamp",
			Help: "Unix timestamp of when the last build ended",
		},
	)
)

func BuildSucceeded(start time.Time, files, templates int) {
	BuildCount.WithLabelValues("success").Inc()
	BuildDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	AssetsEmitted.Add(float64(files))
	TemplatesWritten.Add(float64(templates))
	LastBuildEnd.SetToCurrentTime()
}

func BuildFailure(start time.Time, errorType string) {
	BuildCount.WithLabelValues("failure").Inc()
	BuildFailed.WithLabelValues(errorType).Inc()
	BuildDuration.WithLabelValues("failure").Observe(time.Since(start).Seconds())
	LastBuildEnd.SetToCurrentTime()
}

// WriteTextfile writes the current metrics in the text exposition format,
// for collection by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
