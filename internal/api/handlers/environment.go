package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/fleetdeck/internal/environment"
	"github.com/wonny/fleetdeck/internal/missions"
	"github.com/wonny/fleetdeck/internal/stats"
	"github.com/wonny/fleetdeck/pkg/logger"
	"github.com/wonny/fleetdeck/pkg/metrics"
)

// EnvironmentHandler handles environment snapshot and recommendation
// API endpoints
// ⭐ SSOT: 환경 스냅샷 API 핸들러는 이 구조체에서만
type EnvironmentHandler struct {
	builder  *environment.Builder
	recorder *metrics.Recorder
	logger   *logger.Logger
}

// NewEnvironmentHandler creates a new environment handler
func NewEnvironmentHandler(builder *environment.Builder, recorder *metrics.Recorder, log *logger.Logger) *EnvironmentHandler {
	return &EnvironmentHandler{
		builder:  builder,
		recorder: recorder,
		logger:   log,
	}
}

// GetEnvironment returns the environment snapshot for a ticker
// GET /api/environment/{ticker}?lookback=32
func (h *EnvironmentHandler) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.computeSnapshot(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// RecommendationsResponse bundles the snapshot with its ranked
// recommendations
type RecommendationsResponse struct {
	Ticker          string                    `json:"ticker"`
	Environment     *environment.Snapshot     `json:"environment"`
	Recommendations []missions.Recommendation `json:"recommendations"`
}

// GetRecommendations returns ranked mission recommendations for a ticker
// GET /api/recommendations/{ticker}?lookback=32
func (h *EnvironmentHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.computeSnapshot(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, RecommendationsResponse{
		Ticker:          snapshot.Ticker,
		Environment:     snapshot,
		Recommendations: missions.GenerateRecommendations(snapshot),
	})
}

// computeSnapshot parses the request, runs the scan and writes the
// error response itself when something fails.
func (h *EnvironmentHandler) computeSnapshot(w http.ResponseWriter, r *http.Request) (*environment.Snapshot, bool) {
	ticker := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"]))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return nil, false
	}

	lookback := 0
	if raw := r.URL.Query().Get("lookback"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid lookback (expected a positive integer)")
			return nil, false
		}
		lookback = parsed
	}

	start := time.Now()
	snapshot, err := h.builder.Compute(r.Context(), ticker, lookback)

	if h.recorder != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		h.recorder.RecordScan(outcome)
		h.recorder.RecordScanDuration(ticker, time.Since(start).Seconds())
	}

	if err != nil {
		if errors.Is(err, stats.ErrInsufficientData) {
			respondError(w, http.StatusUnprocessableEntity, "Not enough bars to compute the environment")
			return nil, false
		}

		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to compute environment")
		respondError(w, http.StatusInternalServerError, "Failed to compute environment")
		return nil, false
	}

	return snapshot, true
}
