// Package world holds the single mutable World object and its ancillary
// registries. Nothing mutates a World concurrently: all writes happen on
// the tick goroutine.
package world

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/rumor"
	"github.com/mbutler/war-machine/pkg/story"
)

// World is the shared world graph plus every registry the causality
// core coordinates. It is constructed or loaded at startup, mutated in
// place per tick, and serialized at each persistence boundary.
type World struct {
	Name     string
	Seed     int64
	Calendar Calendar

	NPCs        map[string]*NPC
	Settlements map[string]*Settlement
	Factions    map[string]*Faction
	Party       *Party

	// History is the bounded rolling event record, oldest first.
	History []event.WorldEvent

	Rumors       *rumor.Registry
	Consequences *consequence.Queue
	Threads      *story.Registry

	// RNG is the single continuously advancing pseudo-random stream.
	// Every stochastic decision in the simulation draws from it.
	RNG *rand.Rand
}

// New creates an empty world with the given seed.
func New(name string, seed int64, startYear int) *World {
	return &World{
		Name:         name,
		Seed:         seed,
		Calendar:     Calendar{Year: startYear},
		NPCs:         make(map[string]*NPC),
		Settlements:  make(map[string]*Settlement),
		Factions:     make(map[string]*Faction),
		Party:        &Party{},
		History:      make([]event.WorldEvent, 0, event.HistoryLimit),
		Rumors:       rumor.NewRegistry(),
		Consequences: consequence.NewQueue(),
		Threads:      story.NewRegistry(),
		RNG:          rand.New(rand.NewSource(seed)),
	}
}

// AppendHistory records an event, evicting the oldest entry once the
// rolling window is full. Events are never mutated after this point.
func (w *World) AppendHistory(ev event.WorldEvent) {
	if len(w.History) >= event.HistoryLimit {
		copy(w.History, w.History[1:])
		w.History = w.History[:len(w.History)-1]
	}
	w.History = append(w.History, ev)
}

// SettlementNames returns every settlement name, sorted for stable
// iteration wherever order touches the RNG stream.
func (w *World) SettlementNames() []string {
	names := make([]string, 0, len(w.Settlements))
	for name := range w.Settlements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NPCNames returns every NPC name, sorted.
func (w *World) NPCNames() []string {
	names := make([]string, 0, len(w.NPCs))
	for name := range w.NPCs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NPCsAt returns the living NPCs resident at the named settlement,
// ordered by name.
func (w *World) NPCsAt(settlement string) []*NPC {
	var out []*NPC
	for _, name := range w.NPCNames() {
		npc := w.NPCs[name]
		if npc.Alive && npc.Settlement == settlement {
			out = append(out, npc)
		}
	}
	return out
}

// FactionNames returns every faction name, sorted.
func (w *World) FactionNames() []string {
	names := make([]string, 0, len(w.Factions))
	for name := range w.Factions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddNPC registers an NPC, logging and dropping specs that cannot build
// an actor rather than halting the simulation.
func (w *World) AddNPC(spec *NPCSpec, logger *slog.Logger) *NPC {
	npc, err := NewNPC(spec)
	if err != nil {
		if logger != nil {
			logger.Warn("Dropping NPC with unbuildable actor", "name", spec.Name, "error", err)
		}
		return nil
	}
	w.NPCs[spec.Name] = npc
	return npc
}

// DailyUpkeep ages NPC memories. Rumor decay and story ticking live with
// their own registries; this covers the world graph's share of the day
// boundary.
func (w *World) DailyUpkeep() {
	for _, name := range w.NPCNames() {
		npc := w.NPCs[name]
		if npc.Alive {
			npc.DecayMemories()
		}
	}
}
