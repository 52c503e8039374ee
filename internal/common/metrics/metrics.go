// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "label_generation_attempts_total",
			Help: "Total number of generative-service attempts",
		},
		[]string{"path"},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "label_generation_failures_total",
			Help: "Total number of failed generation attempts by error code",
		},
		[]string{"path", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "label_orchestration_stage_duration_seconds",
			Help: "Duration of orchestration stages in seconds",
		},
		[]string{"stage"},
	)

	CrisisFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crisis_subtask_fallbacks_total",
			Help: "Total number of crisis sub-tasks degraded to template fallback",
		},
		[]string{"subtask"},
	)

	TranslationsDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "label_translations_degraded_total",
			Help: "Total number of translation self-check failures",
		},
		[]string{"market"},
	)

	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crisis_audit_write_failures_total",
			Help: "Total number of crisis audit writes that exhausted retries",
		},
	)
)
