package world

import (
	"fmt"

	"github.com/jwebster45206/d20"
)

// RelationKind classifies a social bond between two NPCs.
type RelationKind string

const (
	RelationAlly   RelationKind = "ally"
	RelationKin    RelationKind = "kin"
	RelationLover  RelationKind = "lover"
	RelationMentor RelationKind = "mentor"
	RelationRival  RelationKind = "rival"
	RelationEnemy  RelationKind = "enemy"
)

// closeBonds are the relationship kinds that trigger grief and vengeance
// when the related NPC dies.
var closeBonds = map[RelationKind]bool{
	RelationAlly:   true,
	RelationKin:    true,
	RelationLover:  true,
	RelationMentor: true,
}

// CloseBond reports whether k is a bond strong enough to mourn over.
func (k RelationKind) CloseBond() bool { return closeBonds[k] }

// Relationship is a directed social bond. Relationships are created at
// seed time or by event-driven social shifts and are never deleted.
type Relationship struct {
	Target string       `json:"target"`
	Kind   RelationKind `json:"kind"`
}

// Memory is an emotional record an NPC keeps about something witnessed
// or suffered. Intensity decays daily and the memory is pruned below
// MemoryFloor.
type Memory struct {
	Category  string  `json:"category"` // e.g. "was-attacked", "grief", "witnessed"
	Emotion   string  `json:"emotion"`
	Target    string  `json:"target,omitempty"`
	Text      string  `json:"text"`
	Intensity float64 `json:"intensity"`
	Acted     bool    `json:"acted"`
	Day       int     `json:"day"`
}

// MemoryFloor is the intensity below which memories are pruned.
const MemoryFloor = 1.0

// MemoryDecayRate is subtracted from every memory's intensity once per day.
const MemoryDecayRate = 0.25

// Agenda is a goal an NPC intends to pursue, usually planted by the
// causality processor.
type Agenda struct {
	Kind   string `json:"kind"` // e.g. "revenge", "succession", "investigate"
	Target string `json:"target,omitempty"`
	Text   string `json:"text"`
	Day    int    `json:"day"`
	Done   bool   `json:"done,omitempty"`
}

// NPCSpec is the serializable part of an NPC. The d20 actor it implies
// is rebuilt after load.
type NPCSpec struct {
	Name          string         `json:"name"`
	Role          string         `json:"role,omitempty"` // e.g. "reeve", "captain", "hedge wizard"
	Settlement    string         `json:"settlement,omitempty"`
	Faction       string         `json:"faction,omitempty"`
	Traits        []string       `json:"traits,omitempty"`
	MaxHP         int            `json:"max_hp,omitempty"`
	HP            int            `json:"hp,omitempty"`
	AC            int            `json:"ac,omitempty"`
	Attributes    map[string]int `json:"attributes,omitempty"`
	Alive         bool           `json:"alive"`
	Relationships []Relationship `json:"relationships,omitempty"`
	Memories      []Memory       `json:"memories,omitempty"`
	Agendas       []Agenda       `json:"agendas,omitempty"`
}

// NPC is the runtime representation: the spec plus a combat actor.
type NPC struct {
	*NPCSpec
	Actor *d20.Actor `json:"-"`
}

// NewNPC builds the runtime NPC from a spec, including its d20 actor.
// NPCs with no combat stats get a minimal actor so wound handling never
// has to special-case them.
func NewNPC(spec *NPCSpec) (*NPC, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}
	maxHP := spec.MaxHP
	if maxHP <= 0 {
		maxHP = 4
	}
	ac := spec.AC
	if ac <= 0 {
		ac = 10
	}
	actor, err := d20.NewActor(spec.Name).
		WithHP(maxHP).
		WithAC(ac).
		WithAttributes(spec.Attributes).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor for %s: %w", spec.Name, err)
	}
	if spec.HP > 0 && spec.HP != maxHP {
		if err := actor.SetHP(spec.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP for %s: %w", spec.Name, err)
		}
	}
	return &NPC{NPCSpec: spec, Actor: actor}, nil
}

// HasTrait reports whether the NPC carries the named trait.
func (n *NPC) HasTrait(trait string) bool {
	for _, t := range n.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// RelatedTo returns the relationship kind toward target, if any.
func (n *NPC) RelatedTo(target string) (RelationKind, bool) {
	for _, r := range n.Relationships {
		if r.Target == target {
			return r.Kind, true
		}
	}
	return "", false
}

// AddRelationship records a bond unless one toward the target already exists.
func (n *NPC) AddRelationship(target string, kind RelationKind) {
	if _, ok := n.RelatedTo(target); ok {
		return
	}
	n.Relationships = append(n.Relationships, Relationship{Target: target, Kind: kind})
}

// Remember appends a memory.
func (n *NPC) Remember(m Memory) {
	n.Memories = append(n.Memories, m)
}

// AddAgenda appends an agenda unless an identical kind/target pair is
// already pending.
func (n *NPC) AddAgenda(a Agenda) {
	for _, existing := range n.Agendas {
		if existing.Kind == a.Kind && existing.Target == a.Target {
			return
		}
	}
	n.Agendas = append(n.Agendas, a)
}

// Idle reports whether the NPC has no pending agenda.
func (n *NPC) Idle() bool {
	for _, a := range n.Agendas {
		if !a.Done {
			return false
		}
	}
	return true
}

// DecayMemories ages every memory by one day and prunes the faded ones.
func (n *NPC) DecayMemories() {
	kept := n.Memories[:0]
	for _, m := range n.Memories {
		m.Intensity -= MemoryDecayRate
		if m.Intensity >= MemoryFloor {
			kept = append(kept, m)
		}
	}
	n.Memories = kept
}
