package storage

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/world"
)

func testFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), "testworld", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return store
}

func TestFileSnapshotRoundTrip(t *testing.T) {
	store := testFileStore(t)
	ctx := context.Background()

	snap := &world.Snapshot{
		SchemaVersion: world.SchemaVersion,
		SavedAt:       time.Now().UTC(),
		Name:          "testworld",
		Seed:          7,
		Calendar:      world.Calendar{Turn: 144, Year: 1000},
	}
	require.NoError(t, store.SaveSnapshot(ctx, snap))

	loaded, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.Seed, loaded.Seed)

	// No temp file left behind by the atomic write.
	_, err = os.Stat(store.snapshotPath() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileLoadMissingSnapshot(t *testing.T) {
	store := testFileStore(t)
	loaded, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFileChronicleBothFormats(t *testing.T) {
	store := testFileStore(t)
	ctx := context.Background()

	entry := event.ChronicleEntry{
		Category:  "death",
		Summary:   "Aldric was slain",
		Location:  "Threshold",
		Actors:    []string{"Aldric"},
		WorldTime: "3 Nuwmont, AC 1000, 14:00",
	}
	require.NoError(t, store.AppendChronicle(ctx, entry))
	require.NoError(t, store.AppendChronicle(ctx, entry))

	structured, err := os.ReadFile(store.chroniclePath())
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(structured), "\n"), "one JSON line per entry")

	readable, err := os.ReadFile(store.readablePath())
	require.NoError(t, err)
	assert.Contains(t, string(readable), "[death]")
	assert.Contains(t, string(readable), "@Threshold")
	assert.Contains(t, string(readable), "[Aldric]")
}

func TestFileTailChronicle(t *testing.T) {
	store := testFileStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, store.AppendChronicle(ctx, event.ChronicleEntry{
			Category: "festival", Summary: "a feast", Seed: int64(i),
		}))
	}

	entries, err := store.TailChronicle(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].Seed)
	assert.Equal(t, int64(3), entries[1].Seed)
}

func TestFileTailMissingChronicle(t *testing.T) {
	store := testFileStore(t)
	entries, err := store.TailChronicle(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
