package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fleetdeck/internal/environment"
	"github.com/wonny/fleetdeck/internal/telemetry"
	"github.com/wonny/fleetdeck/pkg/logger"
)

// stubProvider serves a fixed number of synthetic quiet bars.
type stubProvider struct {
	bars int
	err  error
}

func (p stubProvider) GetRecentBars(_ context.Context, _ string, lookback int) ([]telemetry.Bar, error) {
	if p.err != nil {
		return nil, p.err
	}

	n := p.bars
	if lookback > 0 && lookback < n {
		n = lookback
	}

	bars := make([]telemetry.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = telemetry.Bar{
			Time:             int64(1700000000 + i*86400),
			Close:            100,
			Volume:           telemetry.Ptr(5000.0),
			VolumeMA:         telemetry.Ptr(5000.0),
			KernelRegression: telemetry.Ptr(100.0),
			G200:             telemetry.Ptr(100.0),
			Histogram:        telemetry.Ptr(0.0),
		}
	}
	return bars, nil
}

func newEnvRouter(provider telemetry.BarProvider) *mux.Router {
	log := logger.NewNop()
	builder := environment.NewBuilder(provider, nil, 0, log)
	h := NewEnvironmentHandler(builder, nil, log)

	r := mux.NewRouter()
	r.HandleFunc("/api/environment/{ticker}", h.GetEnvironment).Methods("GET")
	r.HandleFunc("/api/recommendations/{ticker}", h.GetRecommendations).Methods("GET")
	return r
}

func TestGetEnvironment(t *testing.T) {
	router := newEnvRouter(stubProvider{bars: 32})

	req := httptest.NewRequest("GET", "/api/environment/rklb", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot environment.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))

	// ticker is normalized to upper case
	assert.Equal(t, "RKLB", snapshot.Ticker)
	assert.Equal(t, 32, snapshot.BarsUsed)
	for _, name := range []string{"hull", "firepower", "sensors", "fuel", "threat"} {
		assert.NotEmpty(t, snapshot.Why[name], name)
	}
}

func TestGetEnvironment_LookbackParam(t *testing.T) {
	router := newEnvRouter(stubProvider{bars: 32})

	req := httptest.NewRequest("GET", "/api/environment/RKLB?lookback=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot environment.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, 10, snapshot.BarsUsed)
}

func TestGetEnvironment_InvalidLookback(t *testing.T) {
	router := newEnvRouter(stubProvider{bars: 32})

	for _, q := range []string{"lookback=0", "lookback=-5", "lookback=abc"} {
		req := httptest.NewRequest("GET", "/api/environment/RKLB?"+q, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestGetEnvironment_InsufficientData(t *testing.T) {
	router := newEnvRouter(stubProvider{bars: 3})

	req := httptest.NewRequest("GET", "/api/environment/RKLB", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetEnvironment_ProviderFailure(t *testing.T) {
	router := newEnvRouter(stubProvider{err: fmt.Errorf("feed offline")})

	req := httptest.NewRequest("GET", "/api/environment/RKLB", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetRecommendations(t *testing.T) {
	router := newEnvRouter(stubProvider{bars: 32})

	req := httptest.NewRequest("GET", "/api/recommendations/RKLB", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "RKLB", resp.Ticker)
	require.NotNil(t, resp.Environment)
	require.Len(t, resp.Recommendations, 5)

	for i := 1; i < len(resp.Recommendations); i++ {
		assert.GreaterOrEqual(t,
			resp.Recommendations[i-1].Suitability,
			resp.Recommendations[i].Suitability)
	}
}
