package storage

import (
	"context"

	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/world"
)

// Store persists the world snapshot and the append-only chronicle.
// Persistence failures are the one error class the simulator treats as
// fatal: an unsaved world is unrecoverable.
type Store interface {
	Ping(ctx context.Context) error

	// SaveSnapshot writes the full world document, replacing the
	// previous snapshot.
	SaveSnapshot(ctx context.Context, s *world.Snapshot) error
	// LoadSnapshot returns the stored snapshot, or (nil, nil) when no
	// world has been saved yet.
	LoadSnapshot(ctx context.Context) (*world.Snapshot, error)

	// AppendChronicle appends one entry in both formats: a structured
	// record and a human-readable line.
	AppendChronicle(ctx context.Context, e event.ChronicleEntry) error
	// TailChronicle returns up to limit of the most recent structured
	// entries, oldest first. limit <= 0 means all.
	TailChronicle(ctx context.Context, limit int) ([]event.ChronicleEntry, error)

	Close() error
}
