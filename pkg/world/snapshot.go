package world

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/rumor"
	"github.com/mbutler/war-machine/pkg/story"
)

// SchemaVersion is the current snapshot schema. Version 1 snapshots
// predate story threads and narrative tags; Migrate defaults them.
const SchemaVersion = 2

// Snapshot is the one schema-versioned document holding the entire
// world: graph, calendar, queue, threads and every ancillary registry.
// Maps are flattened to name-sorted slices so save/load/save round-trips
// byte-identically.
type Snapshot struct {
	SchemaVersion int       `json:"schema_version"`
	SavedAt       time.Time `json:"saved_at"`
	Name          string    `json:"name"`
	Seed          int64     `json:"seed"`
	Calendar      Calendar  `json:"calendar"`

	NPCs        []*NPCSpec    `json:"npcs"`
	Settlements []*Settlement `json:"settlements"`
	Factions    []*Faction    `json:"factions"`
	Party       *Party        `json:"party"`

	History      []event.WorldEvent `json:"history"`
	Rumors       *rumor.Registry    `json:"rumors"`
	Consequences *consequence.Queue `json:"consequences"`
	Threads      *story.Registry    `json:"threads"`
}

// Snapshot flattens the world into its persistable form, encoding every
// typed payload along the way.
func (w *World) Snapshot() (*Snapshot, error) {
	s := &Snapshot{
		SchemaVersion: SchemaVersion,
		SavedAt:       time.Now().UTC(),
		Name:          w.Name,
		Seed:          w.Seed,
		Calendar:      w.Calendar,
		Party:         w.Party,
		History:       w.History,
		Rumors:        w.Rumors,
		Consequences:  w.Consequences,
		Threads:       w.Threads,
	}
	for _, name := range w.NPCNames() {
		s.NPCs = append(s.NPCs, w.NPCs[name].NPCSpec)
	}
	for _, name := range w.SettlementNames() {
		s.Settlements = append(s.Settlements, w.Settlements[name])
	}
	for _, name := range w.FactionNames() {
		s.Factions = append(s.Factions, w.Factions[name])
	}
	for i := range s.History {
		if err := s.History[i].EncodePayload(); err != nil {
			return nil, fmt.Errorf("failed to snapshot history: %w", err)
		}
	}
	for _, c := range s.Consequences.Pending {
		if err := c.EncodePayload(); err != nil {
			return nil, fmt.Errorf("failed to snapshot consequence queue: %w", err)
		}
	}
	return s, nil
}

// Migrate brings an older snapshot forward to the current schema by
// defaulting missing fields. Migrating an already-current snapshot is a
// no-op. Unknown future versions are refused.
func Migrate(s *Snapshot) error {
	switch {
	case s.SchemaVersion == SchemaVersion:
		return nil
	case s.SchemaVersion > SchemaVersion:
		return fmt.Errorf("snapshot schema %d is newer than supported %d", s.SchemaVersion, SchemaVersion)
	}
	// v1 -> v2: story threads and narrative tags did not exist yet.
	if s.Threads == nil {
		s.Threads = story.NewRegistry()
	}
	for i := range s.History {
		if s.History[i].Tags == nil {
			s.History[i].Tags = []event.Tag{}
		}
	}
	s.SchemaVersion = SchemaVersion
	return nil
}

// FromSnapshot rebuilds a runtime world: actors are reconstructed,
// payloads decoded, and a fresh RNG stream started. Countdowns continue
// from where they stopped; the stream itself is not resumed, so replay
// after restart is coherent but not byte-for-byte reproducible.
func FromSnapshot(s *Snapshot, logger *slog.Logger) (*World, error) {
	if err := Migrate(s); err != nil {
		return nil, err
	}
	w := New(s.Name, s.Seed, s.Calendar.Year)
	w.Calendar = s.Calendar
	if s.Party != nil {
		w.Party = s.Party
	}
	for _, spec := range s.NPCs {
		w.AddNPC(spec, logger)
	}
	for _, st := range s.Settlements {
		w.Settlements[st.Name] = st
	}
	for _, f := range s.Factions {
		w.Factions[f.Name] = f
	}
	if s.History != nil {
		w.History = s.History
		for i := range w.History {
			if err := w.History[i].DecodePayload(); err != nil {
				logger.Warn("Dropping undecodable event payload", "event", w.History[i].ID, "error", err)
			}
		}
	}
	if s.Rumors != nil {
		w.Rumors = s.Rumors
	}
	if s.Consequences != nil {
		w.Consequences = s.Consequences
		for _, c := range w.Consequences.Pending {
			if err := c.DecodePayload(); err != nil {
				logger.Warn("Dropping undecodable consequence payload", "consequence", c.ID, "error", err)
			}
		}
	}
	if s.Threads != nil {
		w.Threads = s.Threads
	}
	sortThreads(w.Threads)
	w.RNG = rand.New(rand.NewSource(s.Seed ^ int64(s.Calendar.Turn)))
	return w, nil
}

// sortThreads keeps thread order stable across round-trips.
func sortThreads(r *story.Registry) {
	sort.SliceStable(r.Threads, func(i, j int) bool {
		return r.Threads[i].StartedDay < r.Threads[j].StartedDay
	})
}
