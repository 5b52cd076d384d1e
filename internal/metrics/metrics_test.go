package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordRebuild(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordRebuild("nba", 120, 3, 30, 0.8)
	})
}

func TestRecordPredictionAndOutcome(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPrediction("nhl", "STRONG")
		accuracy := 0.61
		ece := 0.04
		RecordOutcome("nhl")
		UpdateCalibrationGauges("nhl", &accuracy, &ece)
		UpdateCalibrationGauges("nhl", nil, nil)
	})
}

func TestRecordUpsetsAndProviderErrors(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordUpsets("ncaam", "watch", 4)
		RecordProviderError("scoreboard")
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordPrediction("nba", "ELITE")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "slate_edge_predictions_total")
}
