package sim

import (
	"fmt"

	"github.com/mbutler/war-machine/pkg/event"
)

// Chance per hour boundary that the wider world produces an event on
// its own, independent of the consequence queue.
const ambientEventChance = 0.2

var creatures = []string{
	"a pack of dire wolves", "an ogre", "goblin raiders",
	"a wyvern", "a troll", "something large in the marsh",
}

var occasions = []string{
	"the harvest moon", "a wedding between old families",
	"the founding day", "a saint's feast", "the first thaw",
}

var discoveries = []string{
	"a collapsed barrow", "an old mine shaft", "a ruined watchtower",
	"a cache of coin under a hearthstone", "a sealed crypt door",
}

// ambientEvent rolls for and builds a spontaneous world event. Returns
// nil most hours. The distribution favors small local color over
// violence; hostile factions supply the raids.
func (e *Engine) ambientEvent() *event.WorldEvent {
	rng := e.w.RNG
	if rng.Float64() >= ambientEventChance {
		return nil
	}
	settlements := e.w.SettlementNames()
	if len(settlements) == 0 {
		return nil
	}
	place := settlements[rng.Intn(len(settlements))]
	day := e.w.Calendar.Day()

	switch roll := rng.Intn(100); {
	case roll < 25:
		return e.ambientMonster(place, day)
	case roll < 45:
		return e.ambientFestival(place, day)
	case roll < 65:
		return e.ambientDiscovery(place, day)
	case roll < 80:
		return e.ambientRaid(place, day)
	case roll < 90:
		return e.ambientAmbush(place, day)
	default:
		return e.ambientDisappearance(place, day)
	}
}

func (e *Engine) ambientMonster(place string, day int) *event.WorldEvent {
	rng := e.w.RNG
	creature := creatures[rng.Intn(len(creatures))]
	threat := 2 + rng.Intn(7)
	ev := event.New(event.TypeMonsterSighting, day, place, threat)
	ev.Witnessed = true
	ev.Tags = []event.Tag{event.TagOmen, event.TagMystery}
	ev.Summary = fmt.Sprintf("%s was seen near %s", creature, place)
	ev.Payload = &event.MonsterPayload{Creature: creature, Threat: threat}
	return &ev
}

func (e *Engine) ambientFestival(place string, day int) *event.WorldEvent {
	rng := e.w.RNG
	occasion := occasions[rng.Intn(len(occasions))]
	ev := event.New(event.TypeFestival, day, place, 1+rng.Intn(3))
	ev.Witnessed = true
	ev.Tags = []event.Tag{event.TagConcord}
	ev.Summary = fmt.Sprintf("%s celebrates %s", place, occasion)
	ev.Payload = &event.FestivalPayload{Occasion: occasion}
	return &ev
}

func (e *Engine) ambientDiscovery(place string, day int) *event.WorldEvent {
	rng := e.w.RNG
	what := discoveries[rng.Intn(len(discoveries))]
	value := 50 * (1 + rng.Intn(20))
	ev := event.New(event.TypeDiscovery, day, place, 3+rng.Intn(4))
	ev.Witnessed = true
	ev.Tags = []event.Tag{event.TagTreasure, event.TagMystery}
	ev.Summary = fmt.Sprintf("%s found outside %s", what, place)
	payload := &event.DiscoveryPayload{What: what, Value: value}
	if rng.Float64() < 0.4 {
		payload.Guardian = creatures[rng.Intn(len(creatures))]
	}
	ev.Payload = payload
	return &ev
}

// ambientRaid only fires when a hostile faction exists to carry it out.
func (e *Engine) ambientRaid(place string, day int) *event.WorldEvent {
	rng := e.w.RNG
	var hostiles []string
	for _, name := range e.w.FactionNames() {
		if e.w.Factions[name].Hostile {
			hostiles = append(hostiles, name)
		}
	}
	if len(hostiles) == 0 {
		return nil
	}
	raiders := hostiles[rng.Intn(len(hostiles))]
	damage := 1 + rng.Intn(6)
	casualties := rng.Intn(damage + 1)
	ev := event.New(event.TypeRaid, day, place, damage+casualties)
	ev.Witnessed = true
	ev.Perpetrators = []string{raiders}
	ev.Tags = []event.Tag{event.TagViolence, event.TagLoss}
	ev.Summary = fmt.Sprintf("%s raided %s", raiders, place)
	ev.Payload = &event.RaidPayload{
		Damage:     damage,
		Casualties: casualties,
		Loot:       damage * (1 + rng.Intn(3)),
		Raiders:    raiders,
	}
	return &ev
}

func (e *Engine) ambientAmbush(place string, day int) *event.WorldEvent {
	rng := e.w.RNG
	var hostiles []string
	for _, name := range e.w.FactionNames() {
		if e.w.Factions[name].Hostile {
			hostiles = append(hostiles, name)
		}
	}
	if len(hostiles) == 0 {
		return nil
	}
	raiders := hostiles[rng.Intn(len(hostiles))]
	loot := 2 + rng.Intn(8)
	ev := event.New(event.TypeCaravanAmbush, day, place, 2+rng.Intn(4))
	ev.Witnessed = true
	ev.Perpetrators = []string{raiders}
	ev.Tags = []event.Tag{event.TagViolence}
	ev.Summary = fmt.Sprintf("a caravan bound for %s was ambushed on the road", place)
	ev.Payload = &event.RaidPayload{
		Damage:  1 + rng.Intn(3),
		Loot:    loot,
		Raiders: raiders,
	}
	return &ev
}

// ambientDisappearance picks a living local; no candidates, no event.
func (e *Engine) ambientDisappearance(place string, day int) *event.WorldEvent {
	rng := e.w.RNG
	locals := e.w.NPCsAt(place)
	if len(locals) == 0 {
		return nil
	}
	missing := locals[rng.Intn(len(locals))]
	ev := event.New(event.TypeDisappearance, day, place, 3+rng.Intn(3))
	ev.Witnessed = true
	ev.Victims = []string{missing.Name}
	ev.Actors = []string{missing.Name}
	ev.Tags = []event.Tag{event.TagMystery, event.TagLoss}
	ev.Summary = fmt.Sprintf("%s has not been seen in %s for days", missing.Name, place)
	ev.Payload = &event.DisappearancePayload{Missing: missing.Name, LastSeen: place}
	return &ev
}
