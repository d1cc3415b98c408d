package sim

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbutler/war-machine/internal/config"
	"github.com/mbutler/war-machine/internal/storage"
	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/world"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:  "development",
		WorldName:    "testworld",
		StartYear:    1000,
		Seed:         42,
		TurnInterval: 5 * time.Second,
		CatchUpCap:   100,
	}
}

func testEngine(t *testing.T) (*Engine, *storage.MockStore) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	store := storage.NewMockStore()
	w := world.New("testworld", 42, 1000)
	world.Seed(w, logger)
	return NewEngine(w, time.Time{}, store, testConfig(), logger), store
}

func TestTurnAdvancesAndPersists(t *testing.T) {
	e, store := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Turn(ctx))
	assert.Equal(t, 1, e.w.Calendar.Turn)
	assert.Equal(t, 1, store.SaveCalls, "every turn ends in a snapshot")
	require.NotNil(t, store.Snapshot)
	assert.Equal(t, 1, store.Snapshot.Calendar.Turn)
}

func TestConsequenceResolvesOnSchedule(t *testing.T) {
	e, store := testEngine(t)
	ctx := context.Background()

	e.w.Consequences.Enqueue(&consequence.Consequence{
		Type:                 consequence.TypeSettlementChange,
		Trigger:              "test pressure",
		TurnsUntilResolution: 3,
		Payload:              &consequence.SettlementPayload{Settlement: "Threshold", MoodDelta: -2, Reason: "bad news"},
	})
	moodBefore := e.w.Settlements["Threshold"].Mood

	require.NoError(t, e.tick(ctx))
	require.NoError(t, e.tick(ctx))
	assert.Equal(t, moodBefore, e.w.Settlements["Threshold"].Mood, "nothing resolves early")
	require.NoError(t, e.tick(ctx))
	assert.Equal(t, moodBefore-2, e.w.Settlements["Threshold"].Mood)
	assert.Equal(t, 0, e.w.Consequences.Len())

	// The resolution narrated itself into the chronicle.
	found := false
	for _, entry := range store.Chronicle {
		if entry.Category == "aftermath" {
			found = true
		}
	}
	assert.True(t, found, "resolution narration missing from chronicle")
}

func TestDayBoundaryRunsUpkeep(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	// High freshness so ambient events cannot out-fresh it this tick.
	ru := e.w.Rumors.Create("Threshold", "the mine", "treasure", "silver below", 30)
	freshBefore := ru.Freshness

	// Position one turn before the day boundary.
	e.w.Calendar.Turn = world.TurnsPerDay - 1
	require.NoError(t, e.tick(ctx))

	assert.Equal(t, freshBefore-1, ru.Freshness, "day boundary must decay rumors")
	assert.Equal(t, "follow word of treasure at the mine", e.w.Party.Goal)
	assert.Equal(t, ru.ID.String(), e.w.Party.GoalSource)
}

func TestIdleNPCsPickUpLocalRumors(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	e.w.Rumors.Create("Threshold", "the mine", "treasure", "silver below", 30)
	e.w.Calendar.Turn = world.TurnsPerDay - 1
	require.NoError(t, e.tick(ctx))

	investigating := 0
	for _, npc := range e.w.NPCsAt("Threshold") {
		for _, a := range npc.Agendas {
			if a.Kind == "investigate" && a.Target == "the mine" {
				investigating++
			}
		}
	}
	assert.Greater(t, investigating, 0, "town talk must give idle locals something to chase")

	// Each investigation is queued to be acted on later.
	queued := 0
	for _, c := range e.w.Consequences.Pending {
		payload, ok := c.Payload.(*consequence.NPCPayload)
		if ok && payload.Action == "act_on_agenda" && payload.Target == "the mine" {
			queued++
		}
	}
	assert.Equal(t, investigating, queued)

	// A busy NPC keeps to their own affairs on the next boundary.
	busy := e.w.NPCsAt("Kelven")
	if len(busy) > 0 {
		npc := busy[0]
		npc.AddAgenda(world.Agenda{Kind: "revenge", Target: "Redcloaks"})
		before := len(npc.Agendas)
		e.w.Rumors.Create("Kelven", "the crypt", "treasure", "a crypt of kings", 30)
		e.updateNPCGoals()
		assert.Equal(t, before, len(npc.Agendas), "a pending agenda blocks new investigations")
	}
}

func TestPartyGoalLapsesWithRumor(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	e.w.Rumors.Create("Threshold", "the mine", "treasure", "silver below", 1)
	e.w.Calendar.Turn = world.TurnsPerDay - 1
	require.NoError(t, e.tick(ctx))
	// Freshness 1 decayed to 0 on this boundary; the rumor is gone and
	// no goal was set from it.
	if e.w.Rumors.Len() == 0 && e.w.Party.Goal != "" {
		// Ambient events may have created fresh rumors; only a goal
		// pointing at a dead rumor is a failure.
		for _, ru := range e.w.Rumors.Active {
			if ru.ID.String() == e.w.Party.GoalSource {
				return
			}
		}
		t.Errorf("party goal %q points at no active rumor", e.w.Party.Goal)
	}
}

func TestCatchUpIsBounded(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	store := storage.NewMockStore()
	w := world.New("testworld", 42, 1000)
	world.Seed(w, logger)

	cfg := testConfig()
	cfg.CatchUpCap = 10
	// A day offline at 5s per turn is far more than 10 turns.
	e := NewEngine(w, time.Now().Add(-24*time.Hour), store, cfg, logger)

	require.NoError(t, e.CatchUp(context.Background()))
	assert.Equal(t, 10, e.w.Calendar.Turn, "catch-up must stop at the cap")
	assert.Equal(t, 1, store.SaveCalls, "catch-up is one batch with one snapshot")
}

func TestCatchUpSkipsFreshWorld(t *testing.T) {
	e, store := testEngine(t)
	require.NoError(t, e.CatchUp(context.Background()))
	assert.Equal(t, 0, e.w.Calendar.Turn)
	assert.Equal(t, 0, store.SaveCalls)
}

func TestLoadOrCreateSeedsWhenEmpty(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	store := storage.NewMockStore()

	w, savedAt, err := LoadOrCreate(context.Background(), testConfig(), store, logger)
	require.NoError(t, err)
	assert.True(t, savedAt.IsZero())
	assert.NotEmpty(t, w.Settlements, "fresh world must be seeded")
	assert.NotEmpty(t, w.NPCs)
}

func TestLoadOrCreateRestoresSnapshot(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	store := storage.NewMockStore()

	orig := world.New("testworld", 42, 1000)
	world.Seed(orig, logger)
	orig.Calendar.Turn = 777
	snap, err := orig.Snapshot()
	require.NoError(t, err)
	store.Snapshot = snap

	w, savedAt, err := LoadOrCreate(context.Background(), testConfig(), store, logger)
	require.NoError(t, err)
	assert.False(t, savedAt.IsZero())
	assert.Equal(t, 777, w.Calendar.Turn)
}

func TestPersistFailureIsFatal(t *testing.T) {
	e, store := testEngine(t)
	store.SaveErr = assert.AnError
	assert.Error(t, e.Turn(context.Background()))
}
