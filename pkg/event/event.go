package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the closed set of world event variants.
type Type string

const (
	TypeRaid            Type = "raid"
	TypeBattle          Type = "battle"
	TypeDeath           Type = "death"
	TypeBetrayal        Type = "betrayal"
	TypeDiscovery       Type = "discovery"
	TypeAssassination   Type = "assassination"
	TypePlague          Type = "plague"
	TypeFestival        Type = "festival"
	TypeDisappearance   Type = "disappearance"
	TypeAlliance        Type = "alliance"
	TypeCaravanAmbush   Type = "caravan_ambush"
	TypeMonsterSighting Type = "monster_sighting"
)

// Types lists every valid event type, in declaration order.
var Types = []Type{
	TypeRaid, TypeBattle, TypeDeath, TypeBetrayal, TypeDiscovery,
	TypeAssassination, TypePlague, TypeFestival, TypeDisappearance,
	TypeAlliance, TypeCaravanAmbush, TypeMonsterSighting,
}

// Valid reports whether t is a known event type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Tag is a structured narrative marker attached to an event at creation.
// Story thread spawning matches on tags rather than summary text.
type Tag string

const (
	TagViolence Tag = "violence"
	TagLoss     Tag = "loss"
	TagTreasure Tag = "treasure"
	TagIntrigue Tag = "intrigue"
	TagUnrest   Tag = "unrest"
	TagHeroism  Tag = "heroism"
	TagMystery  Tag = "mystery"
	TagRomance  Tag = "romance"
	TagOmen     Tag = "omen"
	TagConcord  Tag = "concord"
)

// WorldEvent is the immutable record of something that happened.
// It is never mutated after construction; history keeps the last
// HistoryLimit entries.
type WorldEvent struct {
	ID           uuid.UUID `json:"id"`
	Type         Type      `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	Day          int       `json:"day"` // absolute world day
	Location     string    `json:"location,omitempty"`
	Actors       []string  `json:"actors,omitempty"`
	Victims      []string  `json:"victims,omitempty"`
	Perpetrators []string  `json:"perpetrators,omitempty"`
	Magnitude    int       `json:"magnitude"` // 1-10
	Witnessed    bool      `json:"witnessed"`
	Tags         []Tag     `json:"tags,omitempty"`
	Summary      string    `json:"summary"`
	Details      string    `json:"details,omitempty"`
	Payload      Payload   `json:"-"`

	// RawPayload carries the typed payload across serialization.
	RawPayload json.RawMessage `json:"payload,omitempty"`
}

// HistoryLimit bounds the rolling event history.
const HistoryLimit = 200

// New constructs an event with a fresh id and clamped magnitude.
func New(t Type, day int, location string, magnitude int) WorldEvent {
	if magnitude < 1 {
		magnitude = 1
	}
	if magnitude > 10 {
		magnitude = 10
	}
	return WorldEvent{
		ID:        uuid.New(),
		Type:      t,
		Timestamp: time.Now(),
		Day:       day,
		Location:  location,
		Magnitude: magnitude,
	}
}

// HasTag reports whether the event carries the given narrative tag.
func (e *WorldEvent) HasTag(tag Tag) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasActor reports whether name appears among actors, victims or perpetrators.
func (e *WorldEvent) HasActor(name string) bool {
	for _, list := range [][]string{e.Actors, e.Victims, e.Perpetrators} {
		for _, a := range list {
			if a == name {
				return true
			}
		}
	}
	return false
}

// EncodePayload serializes the typed payload into RawPayload for storage.
// Events with no payload round-trip with RawPayload nil.
func (e *WorldEvent) EncodePayload() error {
	if e.Payload == nil {
		e.RawPayload = nil
		return nil
	}
	data, err := json.Marshal(envelope{Kind: e.Payload.PayloadKind(), Data: mustMarshal(e.Payload)})
	if err != nil {
		return fmt.Errorf("failed to encode event payload: %w", err)
	}
	e.RawPayload = data
	return nil
}

// DecodePayload rebuilds the typed payload from RawPayload after load.
// An unknown payload kind leaves Payload nil; the event still narrates.
func (e *WorldEvent) DecodePayload() error {
	if len(e.RawPayload) == 0 {
		e.Payload = nil
		return nil
	}
	var env envelope
	if err := json.Unmarshal(e.RawPayload, &env); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}
	p := payloadFor(env.Kind)
	if p == nil {
		e.Payload = nil
		return nil
	}
	if err := json.Unmarshal(env.Data, p); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
	}
	e.Payload = p
	return nil
}

type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
