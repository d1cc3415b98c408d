// Package causality dispatches world events to per-type handlers that
// mutate the shared world graph, and resolves queued consequences the
// same way. A handler never recurses synchronously: anything that
// should happen later is expressed as an enqueued consequence, which
// bounds a single tick's causal depth and keeps effects ordered against
// the RNG stream.
package causality

import (
	"fmt"
	"log/slog"

	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/world"
)

// Chance per co-located witness of forming a memory of the event.
const witnessMemoryChance = 0.6

// Chance of a social shift between a co-located NPC pair per event.
const socialShiftChance = 0.15

// Events at or above this magnitude, if witnessed, broadcast rumors to
// every other settlement.
const rumorBroadcastMagnitude = 5

// Processor applies one event at a time to the world graph.
type Processor struct {
	w      *world.World
	logger *slog.Logger
}

// NewProcessor creates a processor bound to a world.
func NewProcessor(w *world.World, logger *slog.Logger) *Processor {
	return &Processor{w: w, logger: logger}
}

// Process appends the event to history, runs its type handler, then the
// effects every event shares: witness memories, social shifts, story
// feeding and rumor broadcast. Returns narration lines for the
// chronicle. Unknown or malformed events degrade to their generic
// effects rather than halting.
func (p *Processor) Process(ev *event.WorldEvent) []string {
	p.w.AppendHistory(*ev)

	narration := p.dispatch(ev)

	narration = append(narration, p.rollWitnessMemories(ev)...)
	narration = append(narration, p.rollSocialShift(ev)...)

	p.w.Threads.Feed(ev, p.w.Calendar.Day())
	p.w.Threads.CheckForStorySpawn(p.w.RNG, ev, p.w.Calendar.Day(), p.logger)

	p.scheduleRumorBroadcast(ev)

	return narration
}

// dispatch routes the event to its handler. The switch is exhaustive
// over event.Type; an unrecognized type is a logged no-op.
func (p *Processor) dispatch(ev *event.WorldEvent) []string {
	switch ev.Type {
	case event.TypeRaid:
		return p.handleRaid(ev)
	case event.TypeBattle:
		return p.handleBattle(ev)
	case event.TypeDeath:
		return p.handleDeath(ev)
	case event.TypeBetrayal:
		return p.handleBetrayal(ev)
	case event.TypeDiscovery:
		return p.handleDiscovery(ev)
	case event.TypeAssassination:
		return p.handleAssassination(ev)
	case event.TypePlague:
		return p.handlePlague(ev)
	case event.TypeFestival:
		return p.handleFestival(ev)
	case event.TypeDisappearance:
		return p.handleDisappearance(ev)
	case event.TypeAlliance:
		return p.handleAlliance(ev)
	case event.TypeCaravanAmbush:
		return p.handleCaravanAmbush(ev)
	case event.TypeMonsterSighting:
		return p.handleMonsterSighting(ev)
	default:
		p.logger.Warn("Unknown event type, skipping handler", "type", ev.Type, "event", ev.ID)
		return nil
	}
}

// enqueue wraps queue insertion so handlers stay terse.
func (p *Processor) enqueue(c *consequence.Consequence) {
	if c.TurnsUntilResolution <= 0 {
		c.TurnsUntilResolution = c.Priority.DelayTurns(p.w.RNG)
	}
	p.w.Consequences.Enqueue(c)
}

// rollWitnessMemories gives each co-located witness a fixed-probability
// chance to remember the event.
func (p *Processor) rollWitnessMemories(ev *event.WorldEvent) []string {
	if !ev.Witnessed || ev.Location == "" {
		return nil
	}
	var narration []string
	for _, npc := range p.w.NPCsAt(ev.Location) {
		if ev.HasActor(npc.Name) {
			continue // participants get their memories from the handler
		}
		if p.w.RNG.Float64() >= witnessMemoryChance {
			continue
		}
		npc.Remember(world.Memory{
			Category:  "witnessed",
			Emotion:   emotionFor(ev),
			Text:      fmt.Sprintf("saw it happen: %s", ev.Summary),
			Intensity: float64(ev.Magnitude),
			Day:       p.w.Calendar.Day(),
		})
		narration = append(narration, fmt.Sprintf("%s will not soon forget what they saw", npc.Name))
	}
	return narration
}

// rollSocialShift gives one co-located NPC pair a chance at a new bond,
// gated by temperament.
func (p *Processor) rollSocialShift(ev *event.WorldEvent) []string {
	if ev.Location == "" || p.w.RNG.Float64() >= socialShiftChance {
		return nil
	}
	locals := p.w.NPCsAt(ev.Location)
	if len(locals) < 2 {
		return nil
	}
	i := p.w.RNG.Intn(len(locals))
	j := p.w.RNG.Intn(len(locals) - 1)
	if j >= i {
		j++
	}
	a, b := locals[i], locals[j]
	if _, bonded := a.RelatedTo(b.Name); bonded {
		return nil
	}

	kind := world.RelationAlly
	switch {
	case ev.HasTag(event.TagViolence) && a.HasTrait("hot-tempered"):
		kind = world.RelationRival
	case ev.HasTag(event.TagConcord) && a.HasTrait("gregarious"):
		kind = world.RelationAlly
	case ev.HasTag(event.TagRomance):
		kind = world.RelationLover
	case a.HasTrait("calculating") || a.HasTrait("secretive"):
		// The calculating don't bond over shared misfortune.
		return nil
	}
	a.AddRelationship(b.Name, kind)
	b.AddRelationship(a.Name, kind)
	return []string{fmt.Sprintf("%s and %s are drawn together by what happened at %s", a.Name, b.Name, ev.Location)}
}

// scheduleRumorBroadcast queues one independent rumor-spawn consequence
// per non-origin settlement for notable witnessed events.
func (p *Processor) scheduleRumorBroadcast(ev *event.WorldEvent) {
	if !ev.Witnessed || ev.Magnitude < rumorBroadcastMagnitude || ev.Location == "" {
		return
	}
	kind := rumorKindFor(ev)
	for _, name := range p.w.SettlementNames() {
		if name == ev.Location {
			continue
		}
		p.enqueue(&consequence.Consequence{
			Type:     consequence.TypeSpawnRumor,
			Trigger:  fmt.Sprintf("word of the %s at %s travels to %s", ev.Type, ev.Location, name),
			Priority: consequence.PriorityNormal,
			Payload: &consequence.RumorPayload{
				Origin:    name,
				Target:    ev.Location,
				Kind:      kind,
				Text:      ev.Summary,
				Freshness: 2 + ev.Magnitude/2,
			},
		})
	}
}

// emotionFor picks the emotional register a witness attaches to the event.
func emotionFor(ev *event.WorldEvent) string {
	switch {
	case ev.HasTag(event.TagConcord), ev.HasTag(event.TagHeroism):
		return "awe"
	case ev.HasTag(event.TagLoss):
		return "sorrow"
	case ev.HasTag(event.TagViolence):
		return "fear"
	case ev.HasTag(event.TagMystery), ev.HasTag(event.TagOmen):
		return "unease"
	default:
		return "curiosity"
	}
}

// rumorKindFor maps an event to the kind of rumor it spreads as.
func rumorKindFor(ev *event.WorldEvent) string {
	switch {
	case ev.HasTag(event.TagTreasure):
		return "treasure"
	case ev.HasTag(event.TagViolence):
		return "war"
	case ev.HasTag(event.TagMystery), ev.HasTag(event.TagOmen):
		return "mystery"
	case ev.HasTag(event.TagConcord):
		return "opportunity"
	default:
		return "danger"
	}
}
