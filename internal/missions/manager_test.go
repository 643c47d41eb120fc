package missions

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fleetdeck/pkg/logger"
)

var missionIDPattern = regexp.MustCompile(`^M-\d+-[0-9a-f]{8}$`)

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	return NewManager(store, logger.NewNop()), store
}

func TestCreateMission_Defaults(t *testing.T) {
	ctx := context.Background()
	manager, store := newTestManager()

	mission, err := manager.CreateMission(ctx, "RKLB", TypeStrike, CreateOptions{})
	require.NoError(t, err)

	assert.Equal(t, StatusPlanning, mission.Status)
	assert.Equal(t, "RKLB", mission.Ticker)
	assert.Equal(t, TypeStrike, mission.Type)
	assert.Equal(t, 2, mission.Difficulty)
	assert.Equal(t, Duration{Unit: "1D", TargetBars: 32}, mission.Duration)
	assert.Regexp(t, missionIDPattern, mission.ID)

	require.Len(t, mission.Log, 1)
	assert.Equal(t, "system", mission.Log[0].Type)
	assert.Equal(t, "Mission created", mission.Log[0].Text)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, mission.ID, persisted[0].ID)
}

func TestCreateMission_Overrides(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager()

	mission, err := manager.CreateMission(ctx, "RKLB", TypeCargo, CreateOptions{
		Difficulty: 3,
		Duration:   &Duration{Unit: "1W", TargetBars: 26},
		Thesis:     Thesis{Primary: "trend intact", Notes: "watch earnings"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, mission.Difficulty)
	assert.Equal(t, Duration{Unit: "1W", TargetBars: 26}, mission.Duration)
	assert.Equal(t, "trend intact", mission.Thesis.Primary)
}

func TestCreateMission_UnknownType(t *testing.T) {
	ctx := context.Background()
	manager, store := newTestManager()

	_, err := manager.CreateMission(ctx, "RKLB", "WARP", CreateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMissionType)

	// Nothing may be persisted on a rejected create
	persisted, loadErr := store.Load(ctx)
	require.NoError(t, loadErr)
	assert.Empty(t, persisted)
}

func TestCreateMission_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		mission, err := manager.CreateMission(ctx, "RKLB", TypeRecon, CreateOptions{})
		require.NoError(t, err)
		assert.False(t, seen[mission.ID], "duplicate id %s", mission.ID)
		seen[mission.ID] = true
	}
}

func TestAddMissionLog(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager()

	created, err := manager.CreateMission(ctx, "RKLB", TypeEscort, CreateOptions{})
	require.NoError(t, err)

	updated, err := manager.AddMissionLog(ctx, created.ID, "entering the lane", "user")
	require.NoError(t, err)

	require.Len(t, updated.Log, 2)
	assert.Equal(t, "user", updated.Log[1].Type)
	assert.Equal(t, "entering the lane", updated.Log[1].Text)

	// Entry survives a reload
	reloaded, err := manager.GetMission(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Log, 2)
}

func TestAddMissionLog_NotFound(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager()

	_, err := manager.AddMissionLog(ctx, "M-0-deadbeef", "hello", "user")
	assert.ErrorIs(t, err, ErrMissionNotFound)
}

func TestMissionLifecycle_HappyPath(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager()

	created, err := manager.CreateMission(ctx, "RKLB", TypeStrike, CreateOptions{})
	require.NoError(t, err)

	started, err := manager.StartMission(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, started.Status)
	require.NotNil(t, started.StartedAt)

	completed, err := manager.CompleteMission(ctx, created.ID, "target hit")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
	assert.Equal(t, "target hit", completed.Outcome)
	require.NotNil(t, completed.CompletedAt)

	// created + started + completed
	assert.Len(t, completed.Log, 3)
}

func TestMissionLifecycle_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager()

	created, err := manager.CreateMission(ctx, "RKLB", TypeHarvest, CreateOptions{})
	require.NoError(t, err)

	// Cannot complete or abandon before starting
	_, err = manager.CompleteMission(ctx, created.ID, "early")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = manager.AbandonMission(ctx, created.ID, "early")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = manager.StartMission(ctx, created.ID)
	require.NoError(t, err)

	// Cannot start twice
	_, err = manager.StartMission(ctx, created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = manager.AbandonMission(ctx, created.ID, "called off")
	require.NoError(t, err)

	// Terminal states accept no further transitions
	_, err = manager.CompleteMission(ctx, created.ID, "late")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// brokenStore fails every operation, standing in for quota or
// serialization errors at the persistence port.
type brokenStore struct{}

func (brokenStore) Load(context.Context) ([]Mission, error) {
	return nil, errors.New("storage quota exceeded")
}

func (brokenStore) Save(context.Context, []Mission) error {
	return errors.New("storage quota exceeded")
}

func TestManager_SwallowsPersistenceFailures(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(brokenStore{}, logger.NewNop())

	// Creation must still hand back a mission
	mission, err := manager.CreateMission(ctx, "RKLB", TypeRecon, CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusPlanning, mission.Status)

	// Listing degrades to empty instead of failing
	assert.Empty(t, manager.ListMissions(ctx))
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missions.json")
	store := NewFileStore(path)

	// Missing file reads as empty
	missions, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, missions)

	manager := NewManager(store, logger.NewNop())
	created, err := manager.CreateMission(ctx, "RKLB", TypeCargo, CreateOptions{
		Thesis: Thesis{Primary: "steady route"},
	})
	require.NoError(t, err)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Equal(t, created.ID, reloaded[0].ID)
	assert.Equal(t, "steady route", reloaded[0].Thesis.Primary)
}
