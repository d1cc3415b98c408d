package causality

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// buildWorld assembles a small fixed world: one raided town, a friendly
// garrison one raid away from retaliation, the raiders, and three
// townsfolk with one close bond between them.
func buildWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New("testworld", 1, 1000)

	w.Settlements["Threshold"] = &world.Settlement{
		Name: "Threshold", Population: 500,
		Mood: 6, Safety: 7, Unrest: 2, Wealth: 100,
	}
	w.Settlements["Kelven"] = &world.Settlement{
		Name: "Kelven", Population: 900,
		Mood: 5, Safety: 6, Unrest: 3, Wealth: 200,
	}

	w.Factions["Duke's Men"] = &world.Faction{
		Name: "Duke's Men", Morale: 6, RetaliationAt: 2,
		Attitudes: map[string]int{"Threshold": 5, "Kelven": 3},
	}
	w.Factions["Redcloaks"] = &world.Faction{
		Name: "Redcloaks", Morale: 5, Hostile: true,
		Attitudes: map[string]int{"Threshold": -4},
	}

	for _, spec := range []*world.NPCSpec{
		{Name: "Aldric", Settlement: "Threshold", Role: "reeve", Alive: true, MaxHP: 10,
			Relationships: []world.Relationship{{Target: "Mor", Kind: world.RelationKin}}},
		{Name: "Mor", Settlement: "Threshold", Alive: true, MaxHP: 10,
			Relationships: []world.Relationship{{Target: "Aldric", Kind: world.RelationKin}}},
		{Name: "Senna", Settlement: "Threshold", Alive: true, MaxHP: 10,
			Relationships: []world.Relationship{{Target: "Aldric", Kind: world.RelationRival}}},
		{Name: "Old Wat", Settlement: "Kelven", Alive: true, MaxHP: 10},
	} {
		require.NotNil(t, w.AddNPC(spec, testLogger()), "seed NPC %s failed to build", spec.Name)
	}
	w.Party = &world.Party{Name: "The Grey Company", Members: []string{"Mor"}, Morale: 6}
	return w
}

func TestRaidScenario(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	moodBefore := w.Settlements["Threshold"].Mood
	safetyBefore := w.Settlements["Threshold"].Safety

	ev := event.New(event.TypeRaid, 0, "Threshold", 6)
	ev.Witnessed = true
	ev.Perpetrators = []string{"Redcloaks"}
	ev.Tags = []event.Tag{event.TagViolence, event.TagLoss}
	ev.Summary = "Redcloaks raided Threshold"
	ev.Payload = &event.RaidPayload{Damage: 4, Casualties: 2, Loot: 30, Raiders: "Redcloaks"}

	p.Process(&ev)

	s := w.Settlements["Threshold"]
	assert.Less(t, s.Mood, moodBefore, "mood must drop")
	assert.LessOrEqual(t, s.Safety, safetyBefore-4, "safety must drop by at least the damage")

	// Everyone in town carries the attack.
	attacked := 0
	for _, name := range []string{"Aldric", "Mor", "Senna"} {
		for _, m := range w.NPCs[name].Memories {
			if m.Category == "was-attacked" && m.Intensity >= 5 {
				attacked++
				break
			}
		}
	}
	assert.GreaterOrEqual(t, attacked, 1, "at least one witness must remember being attacked at intensity >= 5")

	// The garrison crossed its retaliation threshold.
	var retaliation *consequence.Consequence
	for _, c := range w.Consequences.Pending {
		if c.Type != consequence.TypeFactionAction {
			continue
		}
		payload, ok := c.Payload.(*consequence.FactionPayload)
		if ok && payload.Action == "retaliate" && payload.Faction == "Duke's Men" {
			retaliation = c
		}
	}
	require.NotNil(t, retaliation, "friendly faction past its threshold must schedule retaliation")
	assert.Equal(t, "Redcloaks", retaliation.Payload.(*consequence.FactionPayload).Target)
	assert.Equal(t, 0, w.Factions["Duke's Men"].RecentLosses, "loss counter must reset after committing")
}

func TestDeathSchedulesRevengeOnCloseBondsOnly(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	ev := event.New(event.TypeDeath, 0, "Threshold", 7)
	ev.Victims = []string{"Aldric"}
	ev.Tags = []event.Tag{event.TagLoss}
	ev.Summary = "Aldric was slain"
	ev.Payload = &event.DeathPayload{Deceased: "Aldric", Cause: "a knife in the dark", Killer: "Redcloaks"}

	p.Process(&ev)

	assert.False(t, w.NPCs["Aldric"].Alive)

	// Mor is kin: grief plus a revenge agenda.
	mor := w.NPCs["Mor"]
	hasRevenge := false
	for _, a := range mor.Agendas {
		if a.Kind == "revenge" && a.Target == "Redcloaks" {
			hasRevenge = true
		}
	}
	assert.True(t, hasRevenge, "kin must swear revenge")

	// Senna is a rival: no grief, no revenge.
	for _, a := range w.NPCs["Senna"].Agendas {
		assert.NotEqual(t, "revenge", a.Kind, "rivals do not avenge")
	}
	// Old Wat never knew him.
	assert.Empty(t, w.NPCs["Old Wat"].Agendas)

	// A dead reeve leaves an office to fill.
	succession := false
	for _, c := range w.Consequences.Pending {
		if c.Type == consequence.TypeSuccession {
			succession = true
		}
	}
	assert.True(t, succession, "office holder death must schedule succession")
}

func TestDeathOfPartyMember(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())
	moraleBefore := w.Party.Morale

	ev := event.New(event.TypeDeath, 0, "Threshold", 7)
	ev.Payload = &event.DeathPayload{Deceased: "Mor", Killer: "Redcloaks"}
	p.Process(&ev)

	assert.Less(t, w.Party.Morale, moraleBefore)
	assert.Equal(t, "Redcloaks", w.Party.Vendetta)
}

func TestDeathOfUnknownNPCDegrades(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	ev := event.New(event.TypeDeath, 0, "Threshold", 5)
	ev.Payload = &event.DeathPayload{Deceased: "Nobody"}
	narration := p.dispatch(&ev)
	assert.Empty(t, narration, "unknown NPC death must be a quiet no-op")
}

func TestMalformedPayloadIsNoOp(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	ev := event.New(event.TypeRaid, 0, "Threshold", 6)
	ev.Payload = &event.DeathPayload{Deceased: "Aldric"} // wrong payload type

	moodBefore := w.Settlements["Threshold"].Mood
	narration := p.dispatch(&ev)
	assert.Empty(t, narration)
	assert.Equal(t, moodBefore, w.Settlements["Threshold"].Mood)
	assert.True(t, w.NPCs["Aldric"].Alive, "malformed raid must not kill anyone")

	unrestBefore := w.Settlements["Threshold"].Unrest
	safetyBefore := w.Settlements["Threshold"].Safety
	ev = event.New(event.TypeAssassination, 0, "Threshold", 6)
	ev.Payload = &event.RaidPayload{Damage: 3, Raiders: "Redcloaks"} // wrong payload type
	narration = p.dispatch(&ev)
	assert.Empty(t, narration)
	assert.Equal(t, unrestBefore, w.Settlements["Threshold"].Unrest, "malformed assassination must not stir the town")
	assert.Equal(t, safetyBefore, w.Settlements["Threshold"].Safety)
	assert.Empty(t, w.Consequences.Pending, "malformed payloads must schedule nothing")
}

func TestRaidWoundsDefenders(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	ev := event.New(event.TypeRaid, 0, "Threshold", 8)
	ev.Witnessed = true
	ev.Perpetrators = []string{"Redcloaks"}
	ev.Tags = []event.Tag{event.TagViolence}
	ev.Payload = &event.RaidPayload{Damage: 6, Casualties: 3, Loot: 10, Raiders: "Redcloaks"}
	p.Process(&ev)

	hpAfter := 0
	for _, name := range []string{"Aldric", "Mor", "Senna"} {
		hpAfter += w.NPCs[name].Actor.HP()
	}
	assert.Less(t, hpAfter, 30, "casualties must wound someone present")
	assert.Equal(t, 10, w.NPCs["Old Wat"].Actor.HP(), "the raid does not reach Kelven")
}

func TestWoundAtZeroQueuesDeath(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())
	senna := w.NPCs["Senna"]

	assert.Empty(t, p.wound(senna, 3, "Redcloaks"), "a survivable wound has no narration")
	assert.Equal(t, 7, senna.HP)
	assert.Equal(t, 7, senna.Actor.HP())

	line := p.wound(senna, 12, "Redcloaks")
	assert.NotEmpty(t, line, "a mortal wound must narrate the fall")
	assert.Equal(t, 0, senna.HP)
	assert.True(t, senna.Alive, "the death resolves through the queue, not inline")

	countDeaths := func() int {
		deaths := 0
		for _, c := range w.Consequences.Pending {
			payload, ok := c.Payload.(*consequence.EventPayload)
			if ok && payload.EventType == string(event.TypeDeath) &&
				len(payload.Victims) > 0 && payload.Victims[0] == "Senna" {
				deaths++
			}
		}
		return deaths
	}
	assert.Equal(t, 1, countDeaths())

	// Striking a dying NPC again must not queue a second death.
	p.wound(senna, 5, "Redcloaks")
	assert.Equal(t, 1, countDeaths())
}

func TestBattleLossesWoundMembers(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())
	require.NotNil(t, w.AddNPC(&world.NPCSpec{
		Name: "Sergeant Brask", Settlement: "Kelven", Faction: "Duke's Men", Alive: true, MaxHP: 14,
	}, testLogger()))

	ev := event.New(event.TypeBattle, 0, "Threshold", 6)
	ev.Tags = []event.Tag{event.TagViolence}
	ev.Payload = &event.BattlePayload{
		Attacker: "Duke's Men", Defender: "Redcloaks",
		Victor: "Redcloaks", AttackerLosses: 3, DefenderLosses: 1,
	}
	p.Process(&ev)

	assert.Less(t, w.NPCs["Sergeant Brask"].Actor.HP(), 14, "losses must land on the company's named members")
	assert.Equal(t, 10, w.NPCs["Old Wat"].Actor.HP(), "bystanders are not battle losses")
}

func TestUnknownEventTypeIsNoOp(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	ev := event.New("eclipse", 0, "Threshold", 5)
	narration := p.dispatch(&ev)
	assert.Empty(t, narration)
}

func TestRumorBroadcastForNotableEvents(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	ev := event.New(event.TypeRaid, 0, "Threshold", 6)
	ev.Witnessed = true
	ev.Summary = "Redcloaks raided Threshold"
	ev.Payload = &event.RaidPayload{Damage: 3, Raiders: "Redcloaks"}
	p.Process(&ev)

	broadcasts := 0
	for _, c := range w.Consequences.Pending {
		if c.Type != consequence.TypeSpawnRumor {
			continue
		}
		payload, ok := c.Payload.(*consequence.RumorPayload)
		require.True(t, ok)
		assert.NotEqual(t, "Threshold", payload.Origin, "broadcast must target other settlements")
		broadcasts++
	}
	assert.Equal(t, 1, broadcasts, "one spawn-rumor consequence per non-origin settlement")
}

func TestQuietEventsDoNotBroadcast(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	ev := event.New(event.TypeFestival, 0, "Threshold", 2)
	ev.Witnessed = true
	ev.Tags = []event.Tag{event.TagConcord}
	ev.Payload = &event.FestivalPayload{Occasion: "the harvest"}
	p.Process(&ev)

	for _, c := range w.Consequences.Pending {
		assert.NotEqual(t, consequence.TypeSpawnRumor, c.Type,
			"low-magnitude events must not broadcast")
	}
}

func TestResolveSpawnRumor(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	c := &consequence.Consequence{
		Type: consequence.TypeSpawnRumor,
		Payload: &consequence.RumorPayload{
			Origin: "Kelven", Target: "Threshold", Kind: "war",
			Text: "Threshold burns", Freshness: 4,
		},
	}
	narration, events := p.Resolve(c)
	assert.NotEmpty(t, narration)
	assert.Empty(t, events)
	assert.Equal(t, 1, w.Rumors.Len())
}

func TestResolveRetaliationSynthesizesBattle(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	c := &consequence.Consequence{
		Type: consequence.TypeFactionAction,
		Payload: &consequence.FactionPayload{
			Faction: "Duke's Men", Action: "retaliate", Target: "Redcloaks", Ground: "Threshold", Scale: 4,
		},
	}
	_, events := p.Resolve(c)
	require.Len(t, events, 1, "retaliation must produce a battle event")
	assert.Equal(t, event.TypeBattle, events[0].Type)
	assert.Equal(t, "Threshold", events[0].Location, "retaliation comes to a head on the wronged ground")
	payload, ok := events[0].Payload.(*event.BattlePayload)
	require.True(t, ok)
	assert.Equal(t, "Duke's Men", payload.Attacker)
	assert.Equal(t, "Redcloaks", payload.Defender)
}

func TestResolveRetaliationWithoutGroundPicksASettlement(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	c := &consequence.Consequence{
		Type: consequence.TypeFactionAction,
		Payload: &consequence.FactionPayload{
			Faction: "Duke's Men", Action: "retaliate", Target: "Redcloaks", Scale: 4,
		},
	}
	_, events := p.Resolve(c)
	require.Len(t, events, 1)
	assert.Contains(t, []string{"Threshold", "Kelven"}, events[0].Location, "battles happen somewhere on the map")
}

func TestResolveSpawnEventDeath(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	c := &consequence.Consequence{
		Type:    consequence.TypeSpawnEvent,
		Trigger: "wounds taken in the raid",
		Payload: &consequence.EventPayload{
			EventType: string(event.TypeDeath),
			Location:  "Threshold",
			Actors:    []string{"Redcloaks"},
			Victims:   []string{"Senna"},
			Magnitude: 6,
		},
	}
	_, events := p.Resolve(c)
	require.Len(t, events, 1)
	require.Equal(t, event.TypeDeath, events[0].Type)
	payload, ok := events[0].Payload.(*event.DeathPayload)
	require.True(t, ok, "a scheduled death must carry a death payload")
	assert.Equal(t, "Senna", payload.Deceased)
	assert.Equal(t, "Redcloaks", payload.Killer)

	// The cascade closes: the death handler can now act on it.
	p.Process(&events[0])
	assert.False(t, w.NPCs["Senna"].Alive)
}

func TestResolveUnknownConsequenceIsNoOp(t *testing.T) {
	w := buildWorld(t)
	p := NewProcessor(w, testLogger())

	narration, events := p.Resolve(&consequence.Consequence{Type: "weather"})
	assert.Empty(t, narration)
	assert.Empty(t, events)
}
