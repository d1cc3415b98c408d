package world

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/event"
)

func testWorld(t *testing.T) *World {
	t.Helper()
	w := New("testworld", 42, 1000)
	Seed(w, slog.New(slog.DiscardHandler))
	require.NotEmpty(t, w.NPCs, "seed produced no NPCs")
	return w
}

func TestSnapshotRoundTripIsStable(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	w := testWorld(t)
	w.Calendar.Turn = 3 * TurnsPerDay

	// Give the snapshot something nontrivial to carry.
	ev := event.New(event.TypeRaid, 3, "Threshold", 6)
	ev.Payload = &event.RaidPayload{Damage: 4, Casualties: 2, Raiders: "Redcloaks"}
	w.AppendHistory(ev)
	w.Rumors.Create("Threshold", "the mine", "treasure", "silver below", 4)
	w.Consequences.Enqueue(&consequence.Consequence{
		Type:                 consequence.TypeSettlementChange,
		TurnsUntilResolution: 12,
		Payload:              &consequence.SettlementPayload{Settlement: "Threshold", MoodDelta: -1},
	})

	first, err := w.Snapshot()
	require.NoError(t, err)
	data, err := json.Marshal(first)
	require.NoError(t, err)

	var loaded Snapshot
	require.NoError(t, json.Unmarshal(data, &loaded))
	restored, err := FromSnapshot(&loaded, logger)
	require.NoError(t, err)

	second, err := restored.Snapshot()
	require.NoError(t, err)

	// Save time is the one field allowed to differ.
	second.SavedAt = first.SavedAt
	secondData, err := json.Marshal(second)
	require.NoError(t, err)
	firstData, err := json.Marshal(first)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstData), string(secondData))
}

func TestFromSnapshotRestoresState(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	w := testWorld(t)
	w.Calendar.Turn = 500
	w.Consequences.Enqueue(&consequence.Consequence{
		Type:                 consequence.TypeSuccession,
		TurnsUntilResolution: 30,
		Payload:              &consequence.SuccessionPayload{Role: "reeve", Settlement: "Threshold"},
	})

	snap, err := w.Snapshot()
	require.NoError(t, err)
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var loaded Snapshot
	require.NoError(t, json.Unmarshal(data, &loaded))

	restored, err := FromSnapshot(&loaded, logger)
	require.NoError(t, err)

	assert.Equal(t, w.Calendar.Turn, restored.Calendar.Turn, "countdowns depend on the turn surviving")
	assert.Equal(t, len(w.NPCs), len(restored.NPCs))
	require.Equal(t, 1, restored.Consequences.Len())
	c := restored.Consequences.Pending[0]
	assert.Equal(t, 30, c.TurnsUntilResolution, "countdown must continue, not reset")
	payload, ok := c.Payload.(*consequence.SuccessionPayload)
	require.True(t, ok, "payload type lost in round-trip")
	assert.Equal(t, "reeve", payload.Role)

	for _, npc := range restored.NPCs {
		assert.NotNil(t, npc.Actor, "actor not rebuilt for %s", npc.Name)
	}
}

func TestMigrateV1Defaults(t *testing.T) {
	s := &Snapshot{
		SchemaVersion: 1,
		Name:          "old",
		Calendar:      Calendar{Year: 1000},
		History:       []event.WorldEvent{event.New(event.TypeDeath, 1, "Kelven", 5)},
	}
	s.History[0].Tags = nil

	require.NoError(t, Migrate(s))
	assert.Equal(t, SchemaVersion, s.SchemaVersion)
	assert.NotNil(t, s.Threads, "v1 migration must default the thread registry")
	assert.NotNil(t, s.History[0].Tags, "v1 migration must default event tags")
}

func TestMigrateRefusesNewerSchema(t *testing.T) {
	s := &Snapshot{SchemaVersion: SchemaVersion + 1}
	assert.Error(t, Migrate(s))
}

func TestMigrateCurrentIsNoOp(t *testing.T) {
	s := &Snapshot{SchemaVersion: SchemaVersion, SavedAt: time.Now()}
	require.NoError(t, Migrate(s))
	assert.Nil(t, s.Threads, "current-version migration must not touch fields")
}
