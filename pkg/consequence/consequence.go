// Package consequence holds the delayed-effect queue: effects a handler
// wants to happen later, each resolved exactly once when its countdown
// expires.
package consequence

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Type is the closed set of consequence variants.
type Type string

const (
	TypeSpawnRumor       Type = "spawn_rumor"
	TypeFactionAction    Type = "faction_action"
	TypeNPCReaction      Type = "npc_reaction"
	TypeSettlementChange Type = "settlement_change"
	TypeSpawnAntagonist  Type = "spawn_antagonist"
	TypeSpawnEvent       Type = "spawn_event"
	TypeSupplyDisruption Type = "supply_disruption"
	TypeTreasureInflux   Type = "treasure_influx"
	TypeGuildAction      Type = "guild_action"
	TypeArmyMovement     Type = "army_movement"
	TypeDiplomacyShift   Type = "diplomacy_shift"
	TypeSuccession       Type = "succession"
)

// Priority is an advisory ordering hint. It only tunes how long a delay
// is chosen at enqueue time; resolution within a tick stays FIFO.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// DelayTurns picks a countdown appropriate to the priority: urgent 1-2
// turns, high 2-6, normal 6-24, low 24-144.
func (p Priority) DelayTurns(rng *rand.Rand) int {
	switch p {
	case PriorityUrgent:
		return 1 + rng.Intn(2)
	case PriorityHigh:
		return 2 + rng.Intn(5)
	case PriorityLow:
		return 24 + rng.Intn(121)
	default:
		return 6 + rng.Intn(19)
	}
}

// Consequence is a scheduled delayed effect. It is owned exclusively by
// the process-wide queue and removed exactly once, at resolution.
type Consequence struct {
	ID      uuid.UUID `json:"id"`
	Type    Type      `json:"type"`
	Trigger string    `json:"trigger"` // human-readable cause, for the chronicle
	// TurnsUntilResolution is decremented once per turn tick; the
	// consequence resolves when it reaches zero, never before.
	TurnsUntilResolution int             `json:"turns_until_resolution"`
	Priority             Priority        `json:"priority,omitempty"`
	Payload              Payload         `json:"-"`
	RawPayload           json.RawMessage `json:"payload,omitempty"`
}

// Payload is the type-specific data a consequence carries to its resolver.
type Payload interface {
	PayloadKind() string
}

// RumorPayload seeds a rumor at a settlement.
type RumorPayload struct {
	Origin    string `json:"origin"`
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Freshness int    `json:"freshness"`
	Value     int    `json:"value,omitempty"`
	Spread    bool   `json:"spread,omitempty"` // also fan out to other settlements
}

func (RumorPayload) PayloadKind() string { return "rumor" }

// FactionPayload drives a delayed faction action such as a retaliation.
// Ground names where the action comes to a head.
type FactionPayload struct {
	Faction string `json:"faction"`
	Action  string `json:"action"` // "retaliate", "recruit", "fortify"
	Target  string `json:"target,omitempty"`
	Ground  string `json:"ground,omitempty"`
	Scale   int    `json:"scale,omitempty"`
}

func (FactionPayload) PayloadKind() string { return "faction" }

// NPCPayload drives a delayed personal reaction.
type NPCPayload struct {
	Name   string `json:"name"`
	Action string `json:"action"` // "act_on_agenda", "flee", "seek_aid"
	Target string `json:"target,omitempty"`
}

func (NPCPayload) PayloadKind() string { return "npc" }

// SettlementPayload perturbs settlement state after a delay.
type SettlementPayload struct {
	Settlement  string `json:"settlement"`
	MoodDelta   int    `json:"mood_delta,omitempty"`
	SafetyDelta int    `json:"safety_delta,omitempty"`
	UnrestDelta int    `json:"unrest_delta,omitempty"`
	WealthDelta int    `json:"wealth_delta,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func (SettlementPayload) PayloadKind() string { return "settlement" }

// AntagonistPayload introduces a named antagonist into the world.
type AntagonistPayload struct {
	Name       string `json:"name"`
	Epithet    string `json:"epithet,omitempty"`
	Settlement string `json:"settlement,omitempty"`
	Grudge     string `json:"grudge,omitempty"`
}

func (AntagonistPayload) PayloadKind() string { return "antagonist" }

// EventPayload schedules a follow-on world event.
type EventPayload struct {
	EventType string   `json:"event_type"`
	Location  string   `json:"location,omitempty"`
	Actors    []string `json:"actors,omitempty"`
	Victims   []string `json:"victims,omitempty"`
	Magnitude int      `json:"magnitude,omitempty"`
	Detail    string   `json:"detail,omitempty"`
}

func (EventPayload) PayloadKind() string { return "event" }

// SupplyPayload disrupts or restores a settlement's supply.
type SupplyPayload struct {
	Settlement string `json:"settlement"`
	Severity   int    `json:"severity"` // 1-10
	Cause      string `json:"cause,omitempty"`
}

func (SupplyPayload) PayloadKind() string { return "supply" }

// TreasurePayload moves wealth into a settlement, usually drawn there
// by a treasure rumor.
type TreasurePayload struct {
	Settlement string `json:"settlement"`
	Value      int    `json:"value"`
	Source     string `json:"source,omitempty"`
}

func (TreasurePayload) PayloadKind() string { return "treasure" }

// GuildPayload drives guild operations in a settlement.
type GuildPayload struct {
	Settlement string `json:"settlement"`
	Guild      string `json:"guild"`
	Operation  string `json:"operation"` // "raise_prices", "embargo", "charter"
}

func (GuildPayload) PayloadKind() string { return "guild" }

// ArmyPayload moves a faction's strength toward a target.
type ArmyPayload struct {
	Faction  string `json:"faction"`
	Target   string `json:"target"`
	Strength int    `json:"strength"`
}

func (ArmyPayload) PayloadKind() string { return "army" }

// DiplomacyPayload shifts relations between a faction and a settlement.
type DiplomacyPayload struct {
	Faction    string `json:"faction"`
	Settlement string `json:"settlement"`
	Delta      int    `json:"delta"`
	Reason     string `json:"reason,omitempty"`
}

func (DiplomacyPayload) PayloadKind() string { return "diplomacy" }

// SuccessionPayload hands a dead NPC's role to a successor.
type SuccessionPayload struct {
	Predecessor string `json:"predecessor"`
	Role        string `json:"role"`
	Settlement  string `json:"settlement,omitempty"`
}

func (SuccessionPayload) PayloadKind() string { return "succession" }

// EncodePayload serializes the typed payload for storage.
func (c *Consequence) EncodePayload() error {
	if c.Payload == nil {
		c.RawPayload = nil
		return nil
	}
	data, err := json.Marshal(c.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode consequence payload: %w", err)
	}
	env, err := json.Marshal(struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}{Kind: c.Payload.PayloadKind(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode consequence payload envelope: %w", err)
	}
	c.RawPayload = env
	return nil
}

// DecodePayload rebuilds the typed payload after load. An unknown kind
// leaves Payload nil; the resolver treats that as a no-op.
func (c *Consequence) DecodePayload() error {
	if len(c.RawPayload) == 0 {
		c.Payload = nil
		return nil
	}
	var env struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(c.RawPayload, &env); err != nil {
		return fmt.Errorf("failed to decode consequence payload: %w", err)
	}
	var p Payload
	switch env.Kind {
	case "rumor":
		p = &RumorPayload{}
	case "faction":
		p = &FactionPayload{}
	case "npc":
		p = &NPCPayload{}
	case "settlement":
		p = &SettlementPayload{}
	case "antagonist":
		p = &AntagonistPayload{}
	case "event":
		p = &EventPayload{}
	case "supply":
		p = &SupplyPayload{}
	case "treasure":
		p = &TreasurePayload{}
	case "guild":
		p = &GuildPayload{}
	case "army":
		p = &ArmyPayload{}
	case "diplomacy":
		p = &DiplomacyPayload{}
	case "succession":
		p = &SuccessionPayload{}
	default:
		c.Payload = nil
		return nil
	}
	if err := json.Unmarshal(env.Data, p); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
	}
	c.Payload = p
	return nil
}
