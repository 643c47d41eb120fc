package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/fleetdeck/internal/environment"
	"github.com/wonny/fleetdeck/internal/missions"
	"github.com/wonny/fleetdeck/pkg/logger"
	"github.com/wonny/fleetdeck/pkg/metrics"
)

// MissionHandler handles mission lifecycle API endpoints
// ⭐ SSOT: 미션 API 핸들러는 이 구조체에서만
type MissionHandler struct {
	manager  *missions.Manager
	recorder *metrics.Recorder
	logger   *logger.Logger
}

// NewMissionHandler creates a new mission handler
func NewMissionHandler(manager *missions.Manager, recorder *metrics.Recorder, log *logger.Logger) *MissionHandler {
	return &MissionHandler{
		manager:  manager,
		recorder: recorder,
		logger:   log,
	}
}

// GetTypes returns the mission archetype catalog
// GET /api/mission-types
func (h *MissionHandler) GetTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, missions.AllTypes())
}

// List returns all persisted missions
// GET /api/missions
func (h *MissionHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.manager.ListMissions(r.Context()))
}

// Get returns one mission by id
// GET /api/missions/{id}
func (h *MissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	mission, err := h.manager.GetMission(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Mission not found")
		return
	}

	respondJSON(w, http.StatusOK, mission)
}

// CreateMissionRequest represents a mission creation request
type CreateMissionRequest struct {
	Ticker     string                `json:"ticker"`
	Type       missions.TypeID       `json:"type"`
	Difficulty int                   `json:"difficulty,omitempty"`
	Duration   *missions.Duration    `json:"duration,omitempty"`
	Thesis     missions.Thesis       `json:"thesis,omitempty"`
	Env        *environment.Snapshot `json:"env,omitempty"`
}

// Create creates a new mission in PLANNING state
// POST /api/missions
func (h *MissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	mission, err := h.manager.CreateMission(r.Context(), req.Ticker, req.Type, missions.CreateOptions{
		Difficulty: req.Difficulty,
		Duration:   req.Duration,
		Thesis:     req.Thesis,
		Env:        req.Env,
	})
	if err != nil {
		if errors.Is(err, missions.ErrUnknownMissionType) {
			respondError(w, http.StatusBadRequest, "Unknown mission type")
			return
		}

		h.logger.WithError(err).Error("Failed to create mission")
		respondError(w, http.StatusInternalServerError, "Failed to create mission")
		return
	}

	if h.recorder != nil {
		h.recorder.RecordMissionOp("create")
	}

	respondJSON(w, http.StatusCreated, mission)
}

// LogRequest represents a mission log entry request
type LogRequest struct {
	Text string `json:"text"`
	Type string `json:"type,omitempty"` // default "user"
}

// AddLog appends an entry to a mission's log
// POST /api/missions/{id}/log
func (h *MissionHandler) AddLog(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Log text is required")
		return
	}

	mission, err := h.manager.AddMissionLog(r.Context(), mux.Vars(r)["id"], req.Text, req.Type)
	if err != nil {
		respondError(w, http.StatusNotFound, "Mission not found")
		return
	}

	if h.recorder != nil {
		h.recorder.RecordMissionOp("log")
	}

	respondJSON(w, http.StatusOK, mission)
}

// OutcomeRequest carries the closing note of a terminal transition
type OutcomeRequest struct {
	Outcome string `json:"outcome,omitempty"`
}

// Start moves a mission from PLANNING to ACTIVE
// POST /api/missions/{id}/start
func (h *MissionHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "start", func(id string) (*missions.Mission, error) {
		return h.manager.StartMission(r.Context(), id)
	})
}

// Complete moves a mission from ACTIVE to COMPLETED
// POST /api/missions/{id}/complete
func (h *MissionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	outcome := decodeOutcome(r)
	h.transition(w, r, "complete", func(id string) (*missions.Mission, error) {
		return h.manager.CompleteMission(r.Context(), id, outcome)
	})
}

// Abandon moves a mission from ACTIVE to ABANDONED
// POST /api/missions/{id}/abandon
func (h *MissionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	outcome := decodeOutcome(r)
	h.transition(w, r, "abandon", func(id string) (*missions.Mission, error) {
		return h.manager.AbandonMission(r.Context(), id, outcome)
	})
}

// transition runs one lifecycle operation and maps its errors
func (h *MissionHandler) transition(w http.ResponseWriter, r *http.Request, op string, fn func(string) (*missions.Mission, error)) {
	mission, err := fn(mux.Vars(r)["id"])
	if err != nil {
		switch {
		case errors.Is(err, missions.ErrMissionNotFound):
			respondError(w, http.StatusNotFound, "Mission not found")
		case errors.Is(err, missions.ErrInvalidTransition):
			respondError(w, http.StatusConflict, "Invalid mission state transition")
		default:
			h.logger.WithError(err).Error("Mission transition failed")
			respondError(w, http.StatusInternalServerError, "Mission transition failed")
		}
		return
	}

	if h.recorder != nil {
		h.recorder.RecordMissionOp(op)
	}

	respondJSON(w, http.StatusOK, mission)
}

// decodeOutcome reads the optional outcome body; an empty or absent
// body is fine.
func decodeOutcome(r *http.Request) string {
	var req OutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ""
	}
	return req.Outcome
}
