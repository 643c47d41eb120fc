package missions

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/fleetdeck/internal/environment"
)

// Status is the mission lifecycle state.
// PLANNING → ACTIVE → {COMPLETED, ABANDONED}
type Status string

const (
	StatusPlanning  Status = "PLANNING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusAbandoned Status = "ABANDONED"
)

// ErrMissionNotFound is returned when a mission id is not in the store.
var ErrMissionNotFound = errors.New("mission not found")

// ErrInvalidTransition is returned for lifecycle moves the state machine
// does not allow from the mission's current status.
var ErrInvalidTransition = errors.New("invalid mission transition")

// Thesis is the reasoning attached to a mission at creation time.
type Thesis struct {
	Primary string `json:"primary"`
	Notes   string `json:"notes,omitempty"`
}

// LogEntry is one append-only event on a mission's log.
type LogEntry struct {
	At   time.Time `json:"at"`
	Type string    `json:"type"` // system, user, ...
	Text string    `json:"text"`
}

// Mission is the one mutable, persisted entity in the system.
// Owned exclusively by the Manager.
type Mission struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Ticker    string    `json:"ticker"`
	Type      TypeID    `json:"type"`
	Status    Status    `json:"status"`

	Difficulty int      `json:"difficulty"` // 1..3
	Duration   Duration `json:"duration"`
	Thesis     Thesis   `json:"thesis"`

	// Env is the snapshot captured at creation time, when available.
	Env *environment.Snapshot `json:"env,omitempty"`

	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Outcome     string     `json:"outcome,omitempty"`

	Log []LogEntry `json:"log"`
}

// newMissionID builds an id unique with overwhelming probability:
// millisecond timestamp plus a random suffix.
func newMissionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("M-%d-%s", now.UnixMilli(), suffix)
}
