package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supoclip_jobs_processed_total",
		Help: "Total number of clip jobs processed, by status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "supoclip_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
	}, []string{"stage"})

	ClipsRenderedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supoclip_clips_rendered_total",
		Help: "Total number of clips rendered across all jobs",
	})

	ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "supoclip_active_jobs",
		Help: "Number of clip jobs currently executing",
	})

	BridgeInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "supoclip_bridge_inflight_calls",
		Help: "Blocking collaborator calls currently running on the bridge",
	})
)
