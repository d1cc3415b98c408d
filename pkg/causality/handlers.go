package causality

import (
	"fmt"

	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/world"
)

// handleRaid applies a raid against a settlement: structural damage,
// casualties, fear, and the slow bookkeeping of revenge.
func (p *Processor) handleRaid(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.RaidPayload)
	if !ok {
		p.logger.Warn("Raid event without raid payload", "event", ev.ID)
		return nil
	}
	s, ok := p.w.Settlements[ev.Location]
	if !ok {
		p.logger.Warn("Raid on unknown settlement", "settlement", ev.Location)
		return nil
	}

	s.AdjustMood(-(1 + payload.Damage/3))
	s.AdjustSafety(-payload.Damage)
	s.AdjustUnrest(payload.Casualties)
	s.Wealth -= payload.Loot
	if s.Wealth < 0 {
		s.Wealth = 0
	}

	narration := []string{fmt.Sprintf("%s reels from the raid; the damage will take a season to mend", s.Name)}

	// Everyone present carries the attack with them.
	for _, npc := range p.w.NPCsAt(s.Name) {
		npc.Remember(world.Memory{
			Category:  "was-attacked",
			Emotion:   "fear",
			Target:    payload.Raiders,
			Text:      fmt.Sprintf("was there when %s struck %s", payload.Raiders, s.Name),
			Intensity: float64(3 + payload.Damage),
			Day:       p.w.Calendar.Day(),
		})
	}

	// Steel falls on whoever is in the way.
	if defenders := p.w.NPCsAt(s.Name); len(defenders) > 0 {
		for i := 0; i < payload.Casualties; i++ {
			npc := defenders[p.w.RNG.Intn(len(defenders))]
			if line := p.wound(npc, 1+p.w.RNG.Intn(1+payload.Damage), payload.Raiders); line != "" {
				narration = append(narration, line)
			}
		}
	}

	// The raiders' own morale rises with success.
	if raiders, ok := p.w.Factions[payload.Raiders]; ok {
		raiders.AdjustMorale(1)
		raiders.ShiftAttitude(s.Name, -1)
	}

	// Friendly factions tally their losses; crossing the threshold
	// commits them to a delayed retaliation.
	for _, name := range p.w.FactionNames() {
		f := p.w.Factions[name]
		if f.Name == payload.Raiders || f.AttitudeToward(s.Name) <= 0 {
			continue
		}
		f.RecentLosses += payload.Casualties
		if f.RecentLosses >= f.RetaliationAt {
			f.RecentLosses = 0
			p.enqueue(&consequence.Consequence{
				Type:     consequence.TypeFactionAction,
				Trigger:  fmt.Sprintf("%s has endured enough at the hands of %s", f.Name, payload.Raiders),
				Priority: consequence.PriorityHigh,
				Payload: &consequence.FactionPayload{
					Faction: f.Name,
					Action:  "retaliate",
					Target:  payload.Raiders,
					Ground:  s.Name,
					Scale:   payload.Damage,
				},
			})
			narration = append(narration, fmt.Sprintf("%s swears an answer will come", f.Name))
		}
	}

	// Heavy raids starve the town for a while.
	if payload.Damage >= 5 {
		p.enqueue(&consequence.Consequence{
			Type:     consequence.TypeSupplyDisruption,
			Trigger:  fmt.Sprintf("the raid on %s burned granaries and scattered herds", s.Name),
			Priority: consequence.PriorityNormal,
			Payload:  &consequence.SupplyPayload{Settlement: s.Name, Severity: payload.Damage / 2, Cause: "raid"},
		})
	}
	return narration
}

// handleBattle settles a field engagement between two factions.
func (p *Processor) handleBattle(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.BattlePayload)
	if !ok {
		p.logger.Warn("Battle event without battle payload", "event", ev.ID)
		return nil
	}
	attacker, aok := p.w.Factions[payload.Attacker]
	defender, dok := p.w.Factions[payload.Defender]
	if !aok && !dok {
		p.logger.Warn("Battle between unknown factions",
			"attacker", payload.Attacker, "defender", payload.Defender)
		return nil
	}

	var narration []string
	if aok {
		attacker.RecentLosses += payload.AttackerLosses
		if payload.Victor == attacker.Name {
			attacker.AdjustMorale(2)
			attacker.Territory++
		} else {
			attacker.AdjustMorale(-1)
		}
	}
	if dok {
		defender.RecentLosses += payload.DefenderLosses
		if payload.Victor == defender.Name {
			defender.AdjustMorale(2)
		} else {
			defender.AdjustMorale(-2)
			if defender.Territory > 0 {
				defender.Territory--
			}
		}
	}
	narration = append(narration, fmt.Sprintf("the field at %s belongs to %s", ev.Location, payload.Victor))

	// Losses land on named members of each company.
	if aok {
		narration = append(narration, p.woundFactionMembers(attacker.Name, payload.Defender, payload.AttackerLosses)...)
	}
	if dok {
		narration = append(narration, p.woundFactionMembers(defender.Name, payload.Attacker, payload.DefenderLosses)...)
	}

	// Defeat this lopsided invites a diplomatic realignment.
	if payload.DefenderLosses >= 2*payload.AttackerLosses && dok {
		for _, name := range p.w.SettlementNames() {
			if defender.AttitudeToward(name) > 3 {
				p.enqueue(&consequence.Consequence{
					Type:     consequence.TypeDiplomacyShift,
					Trigger:  fmt.Sprintf("%s doubts %s can still protect it", name, defender.Name),
					Priority: consequence.PriorityLow,
					Payload:  &consequence.DiplomacyPayload{Faction: defender.Name, Settlement: name, Delta: -2, Reason: "defeat"},
				})
			}
		}
	}
	return narration
}

// handleDeath flips the alive flag, spreads grief and vengeance along
// the dead NPC's relationships, and lines up a successor for any vacant
// role. A successor rising is delayed work, never inline.
func (p *Processor) handleDeath(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.DeathPayload)
	if !ok {
		p.logger.Warn("Death event without death payload", "event", ev.ID)
		return nil
	}
	deceased, ok := p.w.NPCs[payload.Deceased]
	if !ok {
		p.logger.Warn("Death of unknown NPC", "name", payload.Deceased)
		return nil
	}
	if !deceased.Alive {
		return nil // already dead; stale consequence
	}
	deceased.Alive = false

	narration := []string{fmt.Sprintf("%s is dead; %s", deceased.Name, causeOrUnknown(payload.Cause))}

	vengeanceTarget := payload.Killer
	day := p.w.Calendar.Day()
	for _, name := range p.w.NPCNames() {
		npc := p.w.NPCs[name]
		if !npc.Alive || npc.Name == deceased.Name {
			continue
		}
		kind, related := npc.RelatedTo(deceased.Name)
		if !related || !kind.CloseBond() {
			continue
		}
		npc.Remember(world.Memory{
			Category:  "grief",
			Emotion:   "sorrow",
			Target:    deceased.Name,
			Text:      fmt.Sprintf("mourns %s, who was %s to them", deceased.Name, kind),
			Intensity: 8,
			Day:       day,
		})
		npc.AddAgenda(world.Agenda{
			Kind:   "revenge",
			Target: vengeanceTarget,
			Text:   fmt.Sprintf("will see %s answered for", deceased.Name),
			Day:    day,
		})
		p.enqueue(&consequence.Consequence{
			Type:     consequence.TypeNPCReaction,
			Trigger:  fmt.Sprintf("%s broods on the death of %s", npc.Name, deceased.Name),
			Priority: consequence.PriorityNormal,
			Payload:  &consequence.NPCPayload{Name: npc.Name, Action: "act_on_agenda", Target: vengeanceTarget},
		})
		narration = append(narration, fmt.Sprintf("%s swears %s will be answered for", npc.Name, deceased.Name))
	}

	if s, ok := p.w.Settlements[deceased.Settlement]; ok {
		s.AdjustMood(-1)
	}

	// Offices do not stay empty.
	if holdsOffice(deceased.Role) {
		p.enqueue(&consequence.Consequence{
			Type:     consequence.TypeSuccession,
			Trigger:  fmt.Sprintf("the office of %s at %s stands empty", deceased.Role, deceased.Settlement),
			Priority: consequence.PriorityNormal,
			Payload:  &consequence.SuccessionPayload{Predecessor: deceased.Name, Role: deceased.Role, Settlement: deceased.Settlement},
		})
	}

	// The party takes the loss of one of its own hard.
	if p.w.Party != nil && memberOf(p.w.Party, deceased.Name) {
		p.w.Party.AdjustMorale(-2)
		if vengeanceTarget != "" {
			p.w.Party.Vendetta = vengeanceTarget
		}
	}
	return narration
}

// handleBetrayal sours relationships and marks the traitor.
func (p *Processor) handleBetrayal(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.BetrayalPayload)
	if !ok {
		p.logger.Warn("Betrayal event without betrayal payload", "event", ev.ID)
		return nil
	}
	betrayed, ok := p.w.NPCs[payload.Betrayed]
	if !ok || !betrayed.Alive {
		p.logger.Warn("Betrayal of missing NPC", "name", payload.Betrayed)
		return nil
	}
	day := p.w.Calendar.Day()
	betrayed.Remember(world.Memory{
		Category:  "betrayed",
		Emotion:   "fury",
		Target:    payload.Traitor,
		Text:      fmt.Sprintf("was sold out by %s over %s", payload.Traitor, payload.Stakes),
		Intensity: 9,
		Day:       day,
	})
	betrayed.AddAgenda(world.Agenda{
		Kind:   "revenge",
		Target: payload.Traitor,
		Text:   fmt.Sprintf("owes %s a betrayal repaid", payload.Traitor),
		Day:    day,
	})
	// An existing bond curdles rather than being deleted; new enmity is
	// recorded alongside it.
	if _, had := betrayed.RelatedTo(payload.Traitor); !had {
		betrayed.AddRelationship(payload.Traitor, world.RelationEnemy)
	}
	if p.w.Party != nil && memberOf(p.w.Party, payload.Betrayed) {
		p.w.Party.Vendetta = payload.Traitor
		p.w.Party.AdjustMorale(-1)
	}
	return []string{fmt.Sprintf("%s learns the worth of %s's word", payload.Betrayed, payload.Traitor)}
}

// handleDiscovery turns a find into wealth-to-come and a treasure rumor.
func (p *Processor) handleDiscovery(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.DiscoveryPayload)
	if !ok {
		p.logger.Warn("Discovery event without discovery payload", "event", ev.ID)
		return nil
	}
	site := payload.Site
	if site == "" {
		site = ev.Location
	}
	ru := p.w.Rumors.Create(ev.Location, site, "treasure",
		fmt.Sprintf("%s has been found near %s", payload.What, site), 4+ev.Magnitude/2)
	ru.Value = payload.Value
	ru.Source = ev.ID
	p.w.Rumors.Spread(p.w.RNG, ru, p.w.SettlementNames())

	p.enqueue(&consequence.Consequence{
		Type:     consequence.TypeTreasureInflux,
		Trigger:  fmt.Sprintf("the find near %s starts changing hands", site),
		Priority: consequence.PriorityLow,
		Payload:  &consequence.TreasurePayload{Settlement: ev.Location, Value: payload.Value / 2, Source: payload.What},
	})

	if payload.Guardian != "" {
		p.enqueue(&consequence.Consequence{
			Type:     consequence.TypeSpawnAntagonist,
			Trigger:  fmt.Sprintf("something guarded %s, and it has noticed the diggers", payload.What),
			Priority: consequence.PriorityNormal,
			Payload:  &consequence.AntagonistPayload{Name: payload.Guardian, Settlement: ev.Location, Grudge: "its hoard was touched"},
		})
	}
	return []string{fmt.Sprintf("word of %s spreads faster than sense", payload.What)}
}

// handleAssassination is a death with intent: everything a death does,
// plus public fear.
func (p *Processor) handleAssassination(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.DeathPayload)
	if !ok {
		p.logger.Warn("Assassination event without death payload", "event", ev.ID)
		return nil
	}
	narration := p.handleDeath(ev)
	if s, ok := p.w.Settlements[ev.Location]; ok {
		s.AdjustUnrest(2)
		s.AdjustSafety(-1)
	}
	if payload.Killer != "" {
		p.enqueue(&consequence.Consequence{
			Type:     consequence.TypeSpawnRumor,
			Trigger:  "a name is whispered behind closed doors",
			Priority: consequence.PriorityHigh,
			Payload: &consequence.RumorPayload{
				Origin: ev.Location, Target: payload.Killer, Kind: "mystery",
				Text:      fmt.Sprintf("they say %s's hand was behind the killing of %s", payload.Killer, payload.Deceased),
				Freshness: 6,
			},
		})
	}
	return narration
}

// handlePlague grinds a settlement down and disrupts its supply.
func (p *Processor) handlePlague(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.PlaguePayload)
	if !ok {
		p.logger.Warn("Plague event without plague payload", "event", ev.ID)
		return nil
	}
	s, ok := p.w.Settlements[ev.Location]
	if !ok {
		p.logger.Warn("Plague in unknown settlement", "settlement", ev.Location)
		return nil
	}
	s.AdjustMood(-payload.Severity / 2)
	s.AdjustUnrest(payload.Severity / 3)
	s.Population -= s.Population * payload.Severity / 40
	p.enqueue(&consequence.Consequence{
		Type:     consequence.TypeSupplyDisruption,
		Trigger:  fmt.Sprintf("quarantine chokes the roads out of %s", s.Name),
		Priority: consequence.PriorityNormal,
		Payload:  &consequence.SupplyPayload{Settlement: s.Name, Severity: payload.Severity / 2, Cause: payload.Disease},
	})
	return []string{fmt.Sprintf("the %s walks the streets of %s", payload.Disease, s.Name)}
}

// handleFestival is the rare unambiguously good news.
func (p *Processor) handleFestival(ev *event.WorldEvent) []string {
	s, ok := p.w.Settlements[ev.Location]
	if !ok {
		p.logger.Warn("Festival in unknown settlement", "settlement", ev.Location)
		return nil
	}
	s.AdjustMood(2)
	s.AdjustUnrest(-1)
	occasion := "the season"
	if payload, ok := ev.Payload.(*event.FestivalPayload); ok {
		occasion = payload.Occasion
	}
	p.w.Rumors.Create(s.Name, s.Name, "opportunity",
		fmt.Sprintf("%s keeps an open table for %s", s.Name, occasion), 3)
	return []string{fmt.Sprintf("%s celebrates %s", s.Name, occasion)}
}

// handleDisappearance starts a mystery without resolving it.
func (p *Processor) handleDisappearance(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.DisappearancePayload)
	if !ok {
		p.logger.Warn("Disappearance event without payload", "event", ev.ID)
		return nil
	}
	ru := p.w.Rumors.Create(ev.Location, payload.LastSeen, "mystery",
		fmt.Sprintf("%s has not been seen since %s", payload.Missing, payload.LastSeen), 5)
	ru.Source = ev.ID
	if npc, ok := p.w.NPCs[payload.Missing]; ok && npc.Alive {
		// Gone is not dead; the record stays until something says otherwise.
		for _, rel := range npc.Relationships {
			kin, ok := p.w.NPCs[rel.Target]
			if !ok || !kin.Alive {
				continue
			}
			kin.AddAgenda(world.Agenda{
				Kind:   "investigate",
				Target: payload.Missing,
				Text:   fmt.Sprintf("searches for %s", payload.Missing),
				Day:    p.w.Calendar.Day(),
			})
		}
	}
	if s, ok := p.w.Settlements[ev.Location]; ok {
		s.AdjustSafety(-1)
	}
	return []string{fmt.Sprintf("%s is gone, and nobody can say where", payload.Missing)}
}

// handleAlliance warms relations between the named parties.
func (p *Processor) handleAlliance(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.AlliancePayload)
	if !ok || len(payload.Parties) < 2 {
		p.logger.Warn("Alliance event without usable payload", "event", ev.ID)
		return nil
	}
	for _, name := range payload.Parties {
		f, ok := p.w.Factions[name]
		if !ok {
			continue
		}
		f.AdjustMorale(1)
		if s, ok := p.w.Settlements[ev.Location]; ok {
			f.ShiftAttitude(s.Name, 2)
		}
	}
	p.enqueue(&consequence.Consequence{
		Type:     consequence.TypeDiplomacyShift,
		Trigger:  "the new compact ripples outward",
		Priority: consequence.PriorityLow,
		Payload:  &consequence.DiplomacyPayload{Faction: payload.Parties[0], Settlement: ev.Location, Delta: 1, Reason: "alliance"},
	})
	return []string{fmt.Sprintf("hands are clasped at %s; how long they stay clasped is another matter", ev.Location)}
}

// handleCaravanAmbush hits a settlement in its purse rather than its walls.
func (p *Processor) handleCaravanAmbush(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.RaidPayload)
	if !ok {
		p.logger.Warn("Caravan ambush without raid payload", "event", ev.ID)
		return nil
	}
	s, ok := p.w.Settlements[ev.Location]
	if !ok {
		p.logger.Warn("Caravan ambush near unknown settlement", "settlement", ev.Location)
		return nil
	}
	s.Wealth -= payload.Loot
	if s.Wealth < 0 {
		s.Wealth = 0
	}
	p.enqueue(&consequence.Consequence{
		Type:     consequence.TypeSupplyDisruption,
		Trigger:  fmt.Sprintf("merchants strike %s from their routes", s.Name),
		Priority: consequence.PriorityNormal,
		Payload:  &consequence.SupplyPayload{Settlement: s.Name, Severity: 2 + payload.Loot/20, Cause: "ambushed roads"},
	})
	p.enqueue(&consequence.Consequence{
		Type:     consequence.TypeGuildAction,
		Trigger:  fmt.Sprintf("the guilds of %s demand protection or recompense", s.Name),
		Priority: consequence.PriorityNormal,
		Payload:  &consequence.GuildPayload{Settlement: s.Name, Guild: "Ironmarch Guild", Operation: "raise_prices"},
	})
	return []string{fmt.Sprintf("the %s road is no longer safe, and prices in %s already know it", s.Name, s.Name)}
}

// handleMonsterSighting frightens a settlement and may seed a hunt.
func (p *Processor) handleMonsterSighting(ev *event.WorldEvent) []string {
	payload, ok := ev.Payload.(*event.MonsterPayload)
	if !ok {
		p.logger.Warn("Monster sighting without monster payload", "event", ev.ID)
		return nil
	}
	if s, ok := p.w.Settlements[ev.Location]; ok {
		s.AdjustSafety(-payload.Threat / 2)
		s.AdjustMood(-1)
	}
	ru := p.w.Rumors.Create(ev.Location, payload.Lair, "danger",
		fmt.Sprintf("a %s haunts the lands near %s", payload.Creature, ev.Location), 3+payload.Threat/2)
	ru.Source = ev.ID
	if payload.Threat >= 6 {
		p.enqueue(&consequence.Consequence{
			Type:     consequence.TypeSpawnEvent,
			Trigger:  fmt.Sprintf("the %s grows bolder", payload.Creature),
			Priority: consequence.PriorityNormal,
			Payload: &consequence.EventPayload{
				EventType: string(event.TypeRaid),
				Location:  ev.Location,
				Magnitude: payload.Threat,
				Detail:    fmt.Sprintf("the %s descends on %s", payload.Creature, ev.Location),
			},
		})
	}
	return []string{fmt.Sprintf("shutters close early in %s", ev.Location)}
}

// wound drives damage through the NPC's d20 actor and keeps the
// serialized HP in step. An NPC brought to zero does not die inline;
// the death is queued so its fallout runs through the death handler.
// Returns a narration line only when the NPC falls.
func (p *Processor) wound(npc *world.NPC, damage int, by string) string {
	if npc == nil || !npc.Alive || damage <= 0 {
		return ""
	}
	hp := npc.Actor.HP() - damage
	if hp < 0 {
		hp = 0
	}
	if err := npc.Actor.SetHP(hp); err != nil {
		p.logger.Warn("Failed to set actor HP", "name", npc.Name, "hp", hp, "error", err)
	}
	npc.HP = hp
	if hp > 0 {
		return ""
	}
	// A dying NPC gets exactly one death on the queue.
	for _, c := range p.w.Consequences.Pending {
		payload, ok := c.Payload.(*consequence.EventPayload)
		if ok && payload.EventType == string(event.TypeDeath) &&
			len(payload.Victims) > 0 && payload.Victims[0] == npc.Name {
			return ""
		}
	}
	p.enqueue(&consequence.Consequence{
		Type:     consequence.TypeSpawnEvent,
		Trigger:  fmt.Sprintf("%s's wounds are beyond any herb or prayer", npc.Name),
		Priority: consequence.PriorityUrgent,
		Payload: &consequence.EventPayload{
			EventType: string(event.TypeDeath),
			Location:  npc.Settlement,
			Actors:    []string{by},
			Victims:   []string{npc.Name},
			Magnitude: 6,
			Detail:    fmt.Sprintf("%s dies of wounds taken from %s", npc.Name, by),
		},
	})
	return fmt.Sprintf("%s falls to %s and is carried off the field", npc.Name, by)
}

// woundFactionMembers spreads battle losses across a faction's named
// members. Factions with no named members take their losses off the
// books.
func (p *Processor) woundFactionMembers(faction, enemy string, losses int) []string {
	if losses <= 0 {
		return nil
	}
	var members []*world.NPC
	for _, name := range p.w.NPCNames() {
		npc := p.w.NPCs[name]
		if npc.Alive && npc.Faction == faction {
			members = append(members, npc)
		}
	}
	if len(members) == 0 {
		return nil
	}
	var narration []string
	for i := 0; i < losses; i++ {
		npc := members[p.w.RNG.Intn(len(members))]
		if line := p.wound(npc, 1+p.w.RNG.Intn(4+losses), enemy); line != "" {
			narration = append(narration, line)
		}
	}
	return narration
}

func causeOrUnknown(cause string) string {
	if cause == "" {
		return "the cause is unclear"
	}
	return cause
}

func holdsOffice(role string) bool {
	switch role {
	case "reeve", "captain", "guildmaster", "priest":
		return true
	default:
		return false
	}
}

func memberOf(party *world.Party, name string) bool {
	for _, m := range party.Members {
		if m == name {
			return true
		}
	}
	return false
}
