package causality

import (
	"fmt"

	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/rumor"
	"github.com/mbutler/war-machine/pkg/world"
)

// Resolve applies one expired consequence to the world. It mirrors the
// event handler pattern: world mutation plus narration, and any further
// delayed work goes back on the queue. Returned events are new facts
// for the caller to run through Process, keeping the causal cascade
// iterative rather than recursive.
func (p *Processor) Resolve(c *consequence.Consequence) ([]string, []event.WorldEvent) {
	switch c.Type {
	case consequence.TypeSpawnRumor:
		return p.resolveSpawnRumor(c), nil
	case consequence.TypeFactionAction:
		return p.resolveFactionAction(c)
	case consequence.TypeNPCReaction:
		return p.resolveNPCReaction(c)
	case consequence.TypeSettlementChange:
		return p.resolveSettlementChange(c), nil
	case consequence.TypeSpawnAntagonist:
		return p.resolveSpawnAntagonist(c), nil
	case consequence.TypeSpawnEvent:
		return p.resolveSpawnEvent(c)
	case consequence.TypeSupplyDisruption:
		return p.resolveSupplyDisruption(c), nil
	case consequence.TypeTreasureInflux:
		return p.resolveTreasureInflux(c), nil
	case consequence.TypeGuildAction:
		return p.resolveGuildAction(c), nil
	case consequence.TypeArmyMovement:
		return p.resolveArmyMovement(c)
	case consequence.TypeDiplomacyShift:
		return p.resolveDiplomacyShift(c), nil
	case consequence.TypeSuccession:
		return p.resolveSuccession(c), nil
	default:
		p.logger.Warn("Unknown consequence type, dropping", "type", c.Type, "id", c.ID)
		return nil, nil
	}
}

func (p *Processor) resolveSpawnRumor(c *consequence.Consequence) []string {
	payload, ok := c.Payload.(*consequence.RumorPayload)
	if !ok {
		p.logger.Warn("Spawn-rumor consequence without payload", "id", c.ID)
		return nil
	}
	ru := p.w.Rumors.Create(payload.Origin, payload.Target, rumorKind(payload.Kind), payload.Text, payload.Freshness)
	ru.Value = payload.Value
	if payload.Spread {
		p.w.Rumors.Spread(p.w.RNG, ru, p.w.SettlementNames())
	}
	return []string{fmt.Sprintf("in %s they are talking about %s", payload.Origin, payload.Target)}
}

func (p *Processor) resolveFactionAction(c *consequence.Consequence) ([]string, []event.WorldEvent) {
	payload, ok := c.Payload.(*consequence.FactionPayload)
	if !ok {
		p.logger.Warn("Faction consequence without payload", "id", c.ID)
		return nil, nil
	}
	f, ok := p.w.Factions[payload.Faction]
	if !ok {
		p.logger.Warn("Faction action for unknown faction", "faction", payload.Faction)
		return nil, nil
	}
	switch payload.Action {
	case "retaliate":
		// Retaliation becomes a fresh battle against the target.
		target, ok := p.w.Factions[payload.Target]
		if !ok {
			p.logger.Warn("Retaliation against vanished faction", "target", payload.Target)
			return []string{fmt.Sprintf("%s finds no one left to punish", f.Name)}, nil
		}
		scale := payload.Scale
		if scale < 2 {
			scale = 2
		}
		ground := payload.Ground
		if ground == "" {
			if names := p.w.SettlementNames(); len(names) > 0 {
				ground = names[p.w.RNG.Intn(len(names))]
			}
		}
		ev := event.New(event.TypeBattle, p.w.Calendar.Day(), ground, scale)
		ev.Actors = []string{f.Name, target.Name}
		ev.Witnessed = true
		ev.Tags = []event.Tag{event.TagViolence}
		victor := f.Name
		if f.Morale < target.Morale || (f.Morale == target.Morale && p.w.RNG.Float64() < 0.5) {
			victor = target.Name
		}
		ev.Payload = &event.BattlePayload{
			Attacker:       f.Name,
			Defender:       target.Name,
			Victor:         victor,
			AttackerLosses: 1 + p.w.RNG.Intn(scale),
			DefenderLosses: 1 + p.w.RNG.Intn(scale),
		}
		ev.Summary = fmt.Sprintf("%s rides against %s in answer for old wounds", f.Name, target.Name)
		return []string{c.Trigger}, []event.WorldEvent{ev}
	case "recruit":
		f.AdjustMorale(1)
		f.Territory++
		return []string{fmt.Sprintf("%s fills out its ranks", f.Name)}, nil
	case "fortify":
		if s, ok := p.w.Settlements[payload.Target]; ok {
			s.AdjustSafety(2)
		}
		return []string{fmt.Sprintf("%s garrisons %s", f.Name, payload.Target)}, nil
	default:
		p.logger.Warn("Unknown faction action", "action", payload.Action)
		return nil, nil
	}
}

func (p *Processor) resolveNPCReaction(c *consequence.Consequence) ([]string, []event.WorldEvent) {
	payload, ok := c.Payload.(*consequence.NPCPayload)
	if !ok {
		p.logger.Warn("NPC consequence without payload", "id", c.ID)
		return nil, nil
	}
	npc, ok := p.w.NPCs[payload.Name]
	if !ok || !npc.Alive {
		// Dead men keep no appointments.
		return nil, nil
	}
	switch payload.Action {
	case "act_on_agenda":
		return p.actOnAgenda(npc, payload.Target)
	case "flee":
		npc.Settlement = ""
		return []string{fmt.Sprintf("%s slips away before worse finds them", npc.Name)}, nil
	case "seek_aid":
		if s, ok := p.w.Settlements[npc.Settlement]; ok {
			s.AdjustUnrest(1)
		}
		return []string{fmt.Sprintf("%s goes door to door asking for help", npc.Name)}, nil
	default:
		p.logger.Warn("Unknown NPC action", "action", payload.Action)
		return nil, nil
	}
}

// actOnAgenda makes an NPC move on a pending revenge agenda. A target
// NPC may fall; a target faction is harried instead.
func (p *Processor) actOnAgenda(npc *world.NPC, target string) ([]string, []event.WorldEvent) {
	var agenda *world.Agenda
	for i := range npc.Agendas {
		if !npc.Agendas[i].Done && npc.Agendas[i].Target == target {
			agenda = &npc.Agendas[i]
			break
		}
	}
	if agenda == nil {
		return nil, nil
	}
	agenda.Done = true

	if victim, ok := p.w.NPCs[target]; ok && victim.Alive {
		// Courage decides whether it comes to steel.
		bravery := 10
		if v, ok := npc.Actor.Attribute("bravery"); ok {
			bravery = v
		}
		if p.w.RNG.Intn(20)+1 > bravery {
			return []string{fmt.Sprintf("%s's nerve fails at the last moment", npc.Name)}, nil
		}
		ev := event.New(event.TypeAssassination, p.w.Calendar.Day(), victim.Settlement, 6)
		ev.Actors = []string{npc.Name}
		ev.Victims = []string{victim.Name}
		ev.Witnessed = p.w.RNG.Float64() < 0.5
		ev.Tags = []event.Tag{event.TagViolence, event.TagLoss, event.TagIntrigue}
		ev.Payload = &event.DeathPayload{Deceased: victim.Name, Cause: "a knife in the dark", Killer: npc.Name}
		ev.Summary = fmt.Sprintf("%s is found dead, and %s is nowhere to be found", victim.Name, npc.Name)
		return nil, []event.WorldEvent{ev}
	}
	if f, ok := p.w.Factions[target]; ok {
		f.AdjustMorale(-1)
		return []string{fmt.Sprintf("%s bleeds %s where it can: a cut girth, a burned store, a bought silence", npc.Name, f.Name)}, nil
	}
	return []string{fmt.Sprintf("%s searches for %s in vain", npc.Name, target)}, nil
}

func (p *Processor) resolveSettlementChange(c *consequence.Consequence) []string {
	payload, ok := c.Payload.(*consequence.SettlementPayload)
	if !ok {
		p.logger.Warn("Settlement consequence without payload", "id", c.ID)
		return nil
	}
	s, ok := p.w.Settlements[payload.Settlement]
	if !ok {
		p.logger.Warn("Settlement change for unknown settlement", "settlement", payload.Settlement)
		return nil
	}
	s.AdjustMood(payload.MoodDelta)
	s.AdjustSafety(payload.SafetyDelta)
	s.AdjustUnrest(payload.UnrestDelta)
	s.Wealth += payload.WealthDelta
	if s.Wealth < 0 {
		s.Wealth = 0
	}
	if payload.Reason != "" {
		return []string{fmt.Sprintf("%s feels the weight of it: %s", s.Name, payload.Reason)}
	}
	return nil
}

func (p *Processor) resolveSpawnAntagonist(c *consequence.Consequence) []string {
	payload, ok := c.Payload.(*consequence.AntagonistPayload)
	if !ok {
		p.logger.Warn("Antagonist consequence without payload", "id", c.ID)
		return nil
	}
	if _, exists := p.w.NPCs[payload.Name]; exists {
		return nil // already walked on stage
	}
	name := payload.Name
	if payload.Epithet != "" {
		name = fmt.Sprintf("%s %s", payload.Name, payload.Epithet)
	}
	spec := &world.NPCSpec{
		Name:       payload.Name,
		Role:       "antagonist",
		Settlement: payload.Settlement,
		Traits:     []string{"ruthless", "vengeful"},
		MaxHP:      16 + p.w.RNG.Intn(16),
		AC:         13 + p.w.RNG.Intn(4),
		Attributes: map[string]int{"bravery": 13 + p.w.RNG.Intn(6), "cunning": 10 + p.w.RNG.Intn(8)},
		Alive:      true,
	}
	if p.w.AddNPC(spec, p.logger) == nil {
		return nil
	}
	if payload.Grudge != "" {
		p.w.NPCs[payload.Name].AddAgenda(world.Agenda{
			Kind: "grudge", Text: payload.Grudge, Day: p.w.Calendar.Day(),
		})
	}
	return []string{fmt.Sprintf("%s enters the tale, and the tale darkens for it", name)}
}

func (p *Processor) resolveSpawnEvent(c *consequence.Consequence) ([]string, []event.WorldEvent) {
	payload, ok := c.Payload.(*consequence.EventPayload)
	if !ok {
		p.logger.Warn("Spawn-event consequence without payload", "id", c.ID)
		return nil, nil
	}
	t := event.Type(payload.EventType)
	if !t.Valid() {
		p.logger.Warn("Spawn-event with unknown event type", "type", payload.EventType)
		return nil, nil
	}
	ev := event.New(t, p.w.Calendar.Day(), payload.Location, payload.Magnitude)
	ev.Actors = payload.Actors
	ev.Victims = payload.Victims
	ev.Witnessed = true
	ev.Summary = payload.Detail
	if ev.Summary == "" {
		ev.Summary = c.Trigger
	}
	// A scheduled death names its deceased so the death handler can act.
	if t == event.TypeDeath && len(payload.Victims) > 0 {
		killer := ""
		if len(payload.Actors) > 0 {
			killer = payload.Actors[0]
		}
		ev.Tags = []event.Tag{event.TagLoss}
		ev.Payload = &event.DeathPayload{Deceased: payload.Victims[0], Cause: "wounds past mending", Killer: killer}
	}
	// A scheduled raid still needs something to hit with.
	if t == event.TypeRaid || t == event.TypeCaravanAmbush {
		raiders := "unknown raiders"
		if len(payload.Actors) > 0 {
			raiders = payload.Actors[0]
		}
		ev.Tags = []event.Tag{event.TagViolence, event.TagUnrest}
		ev.Payload = &event.RaidPayload{
			Damage:     payload.Magnitude,
			Casualties: payload.Magnitude / 3,
			Loot:       payload.Magnitude * 5,
			Raiders:    raiders,
		}
	}
	return nil, []event.WorldEvent{ev}
}

func (p *Processor) resolveSupplyDisruption(c *consequence.Consequence) []string {
	payload, ok := c.Payload.(*consequence.SupplyPayload)
	if !ok {
		p.logger.Warn("Supply consequence without payload", "id", c.ID)
		return nil
	}
	s, ok := p.w.Settlements[payload.Settlement]
	if !ok {
		p.logger.Warn("Supply disruption for unknown settlement", "settlement", payload.Settlement)
		return nil
	}
	s.Wealth -= payload.Severity * 2
	if s.Wealth < 0 {
		s.Wealth = 0
	}
	s.AdjustMood(-1)
	s.AdjustUnrest(payload.Severity / 2)
	return []string{fmt.Sprintf("bread in %s costs what meat did; %s is blamed", s.Name, payload.Cause)}
}

func (p *Processor) resolveTreasureInflux(c *consequence.Consequence) []string {
	payload, ok := c.Payload.(*consequence.TreasurePayload)
	if !ok {
		p.logger.Warn("Treasure consequence without payload", "id", c.ID)
		return nil
	}
	s, ok := p.w.Settlements[payload.Settlement]
	if !ok {
		p.logger.Warn("Treasure influx for unknown settlement", "settlement", payload.Settlement)
		return nil
	}
	s.Wealth += payload.Value
	s.AdjustMood(1)
	return []string{fmt.Sprintf("new gold moves through %s, and everyone takes a little as it passes", s.Name)}
}

func (p *Processor) resolveGuildAction(c *consequence.Consequence) []string {
	payload, ok := c.Payload.(*consequence.GuildPayload)
	if !ok {
		p.logger.Warn("Guild consequence without payload", "id", c.ID)
		return nil
	}
	s, ok := p.w.Settlements[payload.Settlement]
	if !ok {
		p.logger.Warn("Guild action for unknown settlement", "settlement", payload.Settlement)
		return nil
	}
	switch payload.Operation {
	case "raise_prices":
		s.AdjustMood(-1)
		s.Wealth += 5
		return []string{fmt.Sprintf("the %s posts new rates in %s, to general cursing", payload.Guild, s.Name)}
	case "embargo":
		s.Wealth -= 10
		if s.Wealth < 0 {
			s.Wealth = 0
		}
		s.AdjustUnrest(1)
		return []string{fmt.Sprintf("the %s closes its doors to %s", payload.Guild, s.Name)}
	case "charter":
		s.AdjustMood(1)
		s.Wealth += 10
		return []string{fmt.Sprintf("a new %s charter brings trade to %s", payload.Guild, s.Name)}
	default:
		p.logger.Warn("Unknown guild operation", "operation", payload.Operation)
		return nil
	}
}

func (p *Processor) resolveArmyMovement(c *consequence.Consequence) ([]string, []event.WorldEvent) {
	payload, ok := c.Payload.(*consequence.ArmyPayload)
	if !ok {
		p.logger.Warn("Army consequence without payload", "id", c.ID)
		return nil, nil
	}
	f, ok := p.w.Factions[payload.Faction]
	if !ok {
		p.logger.Warn("Army movement for unknown faction", "faction", payload.Faction)
		return nil, nil
	}
	if s, ok := p.w.Settlements[payload.Target]; ok {
		if f.AttitudeToward(s.Name) < 0 {
			// Hostile approach: the town sees the dust and fears the worst.
			s.AdjustSafety(-1)
			s.AdjustUnrest(1)
			mag := 3 + payload.Strength/3
			ev := event.New(event.TypeRaid, p.w.Calendar.Day(), s.Name, mag)
			ev.Perpetrators = []string{f.Name}
			ev.Witnessed = true
			ev.Tags = []event.Tag{event.TagViolence, event.TagUnrest}
			ev.Payload = &event.RaidPayload{
				Damage:     mag,
				Casualties: 1 + payload.Strength/4,
				Loot:       payload.Strength * 3,
				Raiders:    f.Name,
			}
			ev.Summary = fmt.Sprintf("%s descends on %s in force", f.Name, s.Name)
			return nil, []event.WorldEvent{ev}
		}
		s.AdjustSafety(1)
		return []string{fmt.Sprintf("%s camps outside %s under friendly banners", f.Name, s.Name)}, nil
	}
	p.logger.Warn("Army movement toward unknown target", "target", payload.Target)
	return nil, nil
}

func (p *Processor) resolveDiplomacyShift(c *consequence.Consequence) []string {
	payload, ok := c.Payload.(*consequence.DiplomacyPayload)
	if !ok {
		p.logger.Warn("Diplomacy consequence without payload", "id", c.ID)
		return nil
	}
	f, ok := p.w.Factions[payload.Faction]
	if !ok {
		p.logger.Warn("Diplomacy shift for unknown faction", "faction", payload.Faction)
		return nil
	}
	f.ShiftAttitude(payload.Settlement, payload.Delta)
	return []string{fmt.Sprintf("the standing of %s in %s shifts, as standings do", payload.Faction, payload.Settlement)}
}

// resolveSuccession promotes the most suitable living local, or raises
// a newcomer when nobody will take the office.
func (p *Processor) resolveSuccession(c *consequence.Consequence) []string {
	payload, ok := c.Payload.(*consequence.SuccessionPayload)
	if !ok {
		p.logger.Warn("Succession consequence without payload", "id", c.ID)
		return nil
	}
	var heir *world.NPC
	for _, npc := range p.w.NPCsAt(payload.Settlement) {
		if npc.Role == payload.Role {
			return nil // office already filled
		}
		if kind, ok := npc.RelatedTo(payload.Predecessor); ok && kind.CloseBond() {
			heir = npc
			break
		}
		if heir == nil {
			heir = npc
		}
	}
	if heir == nil {
		spec := &world.NPCSpec{
			Name:       fmt.Sprintf("the new %s of %s", payload.Role, payload.Settlement),
			Role:       payload.Role,
			Settlement: payload.Settlement,
			Alive:      true,
		}
		if p.w.AddNPC(spec, p.logger) == nil {
			return nil
		}
		return []string{fmt.Sprintf("a stranger takes up the office of %s in %s", payload.Role, payload.Settlement)}
	}
	heir.Role = payload.Role
	heir.AddAgenda(world.Agenda{
		Kind:   "succession",
		Target: payload.Predecessor,
		Text:   fmt.Sprintf("must fill the boots of %s", payload.Predecessor),
		Day:    p.w.Calendar.Day(),
	})
	return []string{fmt.Sprintf("%s takes up the office of %s in %s", heir.Name, payload.Role, payload.Settlement)}
}

// rumorKind maps a payload kind string onto the rumor package's closed set.
func rumorKind(kind string) rumor.Kind {
	switch rumor.Kind(kind) {
	case rumor.KindTreasure, rumor.KindWar, rumor.KindMystery, rumor.KindOpportunity, rumor.KindDanger:
		return rumor.Kind(kind)
	default:
		return rumor.KindDanger
	}
}
