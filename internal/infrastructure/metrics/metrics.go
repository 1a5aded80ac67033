package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LinkMetrics holds every prometheus collector of the link service.
type LinkMetrics struct {
	// generation
	LinksGeneratedTotal       prometheus.CounterVec
	LinkGenerationFailedTotal prometheus.CounterVec
	GenerationBatchDuration   prometheus.HistogramVec

	// lifecycle
	LinkClicksTotal      prometheus.CounterVec
	LinkCompletionsTotal prometheus.CounterVec
	GateDeniedTotal      prometheus.CounterVec
	StaleClickedLinks    prometheus.GaugeVec

	// quality control
	QCScore                prometheus.HistogramVec
	DetectorTriggeredTotal prometheus.CounterVec
	ManualOverridesTotal   prometheus.CounterVec
}

func NewLinkMetrics() *LinkMetrics {
	return &LinkMetrics{
		LinksGeneratedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "links_generated_total",
				Help: "Total survey links created by the generation orchestrator",
			},
			[]string{"project_id", "vendor_id", "mode"},
		),

		LinkGenerationFailedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "link_generation_failed_total",
				Help: "Link creations that failed inside a generation batch",
			},
			[]string{"project_id", "mode"},
		),

		GenerationBatchDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "link_generation_batch_duration_seconds",
				Help:    "Wall time of one generation request",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"project_id", "mode"},
		),

		LinkClicksTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "link_clicks_total",
				Help: "First-click registrations by gate decision",
			},
			[]string{"project_id", "decision"},
		),

		LinkCompletionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "link_completions_total",
				Help: "Completion attempts by terminal outcome",
			},
			[]string{"project_id", "outcome"},
		),

		GateDeniedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gate_denied_total",
				Help: "Gate denials by reason",
			},
			[]string{"project_id", "reason"},
		),

		StaleClickedLinks: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stale_clicked_links",
				Help: "Links sitting in CLICKED beyond the stale window",
			},
			[]string{"project_id"},
		),

		QCScore: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qc_score",
				Help:    "Suspicion score distribution of completion attempts",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"project_id", "recommendation"},
		),

		DetectorTriggeredTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qc_detector_triggered_total",
				Help: "Detector trigger counts by detector name",
			},
			[]string{"detector"},
		),

		ManualOverridesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qc_manual_overrides_total",
				Help: "Manual review decisions by disposition",
			},
			[]string{"project_id", "disposition"},
		),
	}
}
