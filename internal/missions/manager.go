package missions

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/fleetdeck/internal/environment"
	"github.com/wonny/fleetdeck/pkg/logger"
)

// Manager owns the mutable mission records and their lifecycle.
// All storage goes through the Store port as whole-collection
// read-modify-write; storage failures are logged and swallowed so they
// never interrupt the mission flow.
// ⭐ SSOT: 미션 수명주기는 여기서만 변경
type Manager struct {
	store  Store
	logger *logger.Logger
}

// NewManager creates a mission lifecycle manager.
func NewManager(store Store, log *logger.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: log,
	}
}

// CreateOptions overrides the defaults of a new mission.
type CreateOptions struct {
	Difficulty int       // default 2
	Duration   *Duration // default {1D, 32}
	Thesis     Thesis
	Env        *environment.Snapshot
}

// CreateMission builds a new PLANNING mission for a catalog archetype
// and persists it. An id outside the catalog fails before anything is
// written.
func (m *Manager) CreateMission(ctx context.Context, ticker string, typeID TypeID, opts CreateOptions) (*Mission, error) {
	if _, ok := TypeByID(typeID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMissionType, typeID)
	}

	now := time.Now()

	difficulty := opts.Difficulty
	if difficulty < 1 || difficulty > 3 {
		difficulty = 2
	}

	duration := Duration{Unit: "1D", TargetBars: 32}
	if opts.Duration != nil {
		duration = *opts.Duration
	}

	mission := Mission{
		ID:         newMissionID(now),
		CreatedAt:  now,
		Ticker:     ticker,
		Type:       typeID,
		Status:     StatusPlanning,
		Difficulty: difficulty,
		Duration:   duration,
		Thesis:     opts.Thesis,
		Env:        opts.Env,
		Log: []LogEntry{
			{At: now, Type: "system", Text: "Mission created"},
		},
	}

	missions := m.loadAll(ctx)
	missions = append(missions, mission)
	m.saveAll(ctx, missions)

	m.logger.WithFields(map[string]interface{}{
		"mission_id": mission.ID,
		"ticker":     ticker,
		"type":       typeID,
	}).Info("Mission created")

	return &mission, nil
}

// AddMissionLog appends a timestamped entry to a mission's log.
func (m *Manager) AddMissionLog(ctx context.Context, missionID, text, entryType string) (*Mission, error) {
	if entryType == "" {
		entryType = "user"
	}

	return m.update(ctx, missionID, func(mission *Mission) error {
		mission.Log = append(mission.Log, LogEntry{
			At:   time.Now(),
			Type: entryType,
			Text: text,
		})
		return nil
	})
}

// StartMission moves a PLANNING mission to ACTIVE.
func (m *Manager) StartMission(ctx context.Context, missionID string) (*Mission, error) {
	return m.update(ctx, missionID, func(mission *Mission) error {
		if mission.Status != StatusPlanning {
			return fmt.Errorf("%w: cannot start from %s", ErrInvalidTransition, mission.Status)
		}
		now := time.Now()
		mission.Status = StatusActive
		mission.StartedAt = &now
		mission.Log = append(mission.Log, LogEntry{At: now, Type: "system", Text: "Mission started"})
		return nil
	})
}

// CompleteMission moves an ACTIVE mission to COMPLETED with an outcome.
func (m *Manager) CompleteMission(ctx context.Context, missionID, outcome string) (*Mission, error) {
	return m.update(ctx, missionID, func(mission *Mission) error {
		if mission.Status != StatusActive {
			return fmt.Errorf("%w: cannot complete from %s", ErrInvalidTransition, mission.Status)
		}
		now := time.Now()
		mission.Status = StatusCompleted
		mission.CompletedAt = &now
		mission.Outcome = outcome
		mission.Log = append(mission.Log, LogEntry{At: now, Type: "system", Text: "Mission completed"})
		return nil
	})
}

// AbandonMission moves an ACTIVE mission to ABANDONED with an outcome.
func (m *Manager) AbandonMission(ctx context.Context, missionID, outcome string) (*Mission, error) {
	return m.update(ctx, missionID, func(mission *Mission) error {
		if mission.Status != StatusActive {
			return fmt.Errorf("%w: cannot abandon from %s", ErrInvalidTransition, mission.Status)
		}
		now := time.Now()
		mission.Status = StatusAbandoned
		mission.CompletedAt = &now
		mission.Outcome = outcome
		mission.Log = append(mission.Log, LogEntry{At: now, Type: "system", Text: "Mission abandoned"})
		return nil
	})
}

// ListMissions returns the persisted collection in stored order.
func (m *Manager) ListMissions(ctx context.Context) []Mission {
	return m.loadAll(ctx)
}

// GetMission finds one mission by id.
func (m *Manager) GetMission(ctx context.Context, missionID string) (*Mission, error) {
	missions := m.loadAll(ctx)
	for i := range missions {
		if missions[i].ID == missionID {
			return &missions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, missionID)
}

// update runs a whole-collection read-modify-write around one mission.
func (m *Manager) update(ctx context.Context, missionID string, fn func(*Mission) error) (*Mission, error) {
	missions := m.loadAll(ctx)

	for i := range missions {
		if missions[i].ID != missionID {
			continue
		}
		if err := fn(&missions[i]); err != nil {
			return nil, err
		}
		m.saveAll(ctx, missions)
		return &missions[i], nil
	}

	return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, missionID)
}

// loadAll reads the collection, treating any storage failure as empty.
func (m *Manager) loadAll(ctx context.Context) []Mission {
	missions, err := m.store.Load(ctx)
	if err != nil {
		m.logger.WithError(err).Error("Failed to load mission collection, treating as empty")
		return []Mission{}
	}
	return missions
}

// saveAll writes the collection, dropping the write on failure.
func (m *Manager) saveAll(ctx context.Context, missions []Mission) {
	if err := m.store.Save(ctx, missions); err != nil {
		m.logger.WithError(err).Error("Failed to save mission collection")
	}
}
