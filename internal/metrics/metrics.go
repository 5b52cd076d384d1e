// Package metrics provides the centralized Prometheus metrics registry for
// the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RatingRebuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slate_edge",
		Name:      "rating_rebuilds_total",
		Help:      "Total number of rating store rebuilds",
	}, []string{"league"})
	GamesAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slate_edge",
		Name:      "games_applied_total",
		Help:      "Total number of completed games replayed into ratings",
	}, []string{"league"})
	GamesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slate_edge",
		Name:      "games_skipped_total",
		Help:      "Total number of malformed or incomplete games skipped",
	}, []string{"league"})
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slate_edge",
		Name:      "predictions_total",
		Help:      "Total number of prediction rows emitted",
	}, []string{"league", "tier"})
	OutcomesResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slate_edge",
		Name:      "outcomes_resolved_total",
		Help:      "Total number of predictions resolved against finals",
	}, []string{"league"})
	UpsetCandidatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slate_edge",
		Name:      "upset_candidates_total",
		Help:      "Total number of upset candidates surfaced",
	}, []string{"league", "mode"})
	ProviderErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slate_edge",
		Name:      "provider_errors_total",
		Help:      "Total number of provider fetch failures",
	}, []string{"provider"})
)

// Gauge metrics
var (
	RatedTeams = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "slate_edge",
		Name:      "rated_teams",
		Help:      "Number of teams with an explicit rating per league",
	}, []string{"league"})
	CalibrationAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "slate_edge",
		Name:      "calibration_accuracy",
		Help:      "Rolling hit rate of resolved picks per league",
	}, []string{"league"})
	CalibrationECE = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "slate_edge",
		Name:      "calibration_ece",
		Help:      "Expected calibration error per league",
	}, []string{"league"})
	SlateCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "slate_edge",
		Name:      "slate_cache_entries",
		Help:      "Number of cached slates",
	})
)

// Histogram metrics
var (
	RatingRebuildDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "slate_edge",
		Name:      "rating_rebuild_duration_seconds",
		Help:      "Duration of rating store rebuilds in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"league"})
	SlateBuildDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "slate_edge",
		Name:      "slate_build_duration_seconds",
		Help:      "Duration of slate prediction passes in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"league"})
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "slate_edge",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of provider requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RatingRebuildsTotal)
		registry.MustRegister(GamesAppliedTotal)
		registry.MustRegister(GamesSkippedTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(OutcomesResolvedTotal)
		registry.MustRegister(UpsetCandidatesTotal)
		registry.MustRegister(ProviderErrorsTotal)

		registry.MustRegister(RatedTeams)
		registry.MustRegister(CalibrationAccuracy)
		registry.MustRegister(CalibrationECE)
		registry.MustRegister(SlateCacheSize)

		registry.MustRegister(RatingRebuildDuration)
		registry.MustRegister(SlateBuildDuration)
		registry.MustRegister(ProviderRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRebuild records a completed rating rebuild.
func RecordRebuild(league string, applied, skipped, teams int, durationSeconds float64) {
	RatingRebuildsTotal.WithLabelValues(league).Inc()
	GamesAppliedTotal.WithLabelValues(league).Add(float64(applied))
	GamesSkippedTotal.WithLabelValues(league).Add(float64(skipped))
	RatedTeams.WithLabelValues(league).Set(float64(teams))
	RatingRebuildDuration.WithLabelValues(league).Observe(durationSeconds)
}

// RecordPrediction records one emitted prediction row.
func RecordPrediction(league, tier string) {
	PredictionsTotal.WithLabelValues(league, tier).Inc()
}

// RecordOutcome records one resolved prediction.
func RecordOutcome(league string) {
	OutcomesResolvedTotal.WithLabelValues(league).Inc()
}

// UpdateCalibrationGauges refreshes the calibration gauges. Nil values
// leave the gauges untouched; they mean no history yet, not zero.
func UpdateCalibrationGauges(league string, accuracy, ece *float64) {
	if accuracy != nil {
		CalibrationAccuracy.WithLabelValues(league).Set(*accuracy)
	}
	if ece != nil {
		CalibrationECE.WithLabelValues(league).Set(*ece)
	}
}

// RecordUpsets records surfaced upset candidates.
func RecordUpsets(league, mode string, count int) {
	UpsetCandidatesTotal.WithLabelValues(league, mode).Add(float64(count))
}

// RecordProviderError records a provider fetch failure.
func RecordProviderError(provider string) {
	ProviderErrorsTotal.WithLabelValues(provider).Inc()
}
