// Package story recognizes multi-beat plotlines from raw events and
// escalates them through a fixed phase machine until one of the
// archetype's enumerated outcomes resolves the arc.
package story

import (
	"time"

	"github.com/google/uuid"
)

// Phase is a story thread's position in its arc. Phases only advance;
// a thread never regresses.
type Phase string

const (
	PhaseInciting   Phase = "inciting"
	PhaseRising     Phase = "rising"
	PhaseClimax     Phase = "climax"
	PhaseResolution Phase = "resolution"
	PhaseAftermath  Phase = "aftermath"
)

var phaseOrder = map[Phase]int{
	PhaseInciting:   0,
	PhaseRising:     1,
	PhaseClimax:     2,
	PhaseResolution: 3,
	PhaseAftermath:  4,
}

// Terminal reports whether p ends the arc.
func (p Phase) Terminal() bool { return p == PhaseResolution || p == PhaseAftermath }

// Phase escalation thresholds.
const (
	risingAt     = 5.0  // tension at which inciting becomes rising
	climaxAt     = 8.0  // tension at which rising becomes climax
	resolutionAt = 10.0 // tension at which the arc resolves outright
)

// MaxUnresolved caps concurrently unresolved threads to bound narrative
// load. A further spawn candidate merges into an existing thread or is
// dropped.
const MaxUnresolved = 8

// Beat is one appended moment in a thread's life. Beats are append-only.
type Beat struct {
	Text         string    `json:"text"`
	TensionDelta float64   `json:"tension_delta"`
	Day          int       `json:"day"`
	At           time.Time `json:"at"`
}

// Thread is one tracked narrative arc.
type Thread struct {
	ID         uuid.UUID `json:"id"`
	Archetype  string    `json:"archetype"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Phase      Phase     `json:"phase"`
	Actors     []string  `json:"actors,omitempty"`
	Location   string    `json:"location,omitempty"`
	Tension    float64   `json:"tension"` // clamped to [0,10]
	Beats      []Beat    `json:"beats,omitempty"`
	Outcomes   []string  `json:"outcomes,omitempty"` // enumerated possible endings
	Resolved   bool      `json:"resolved"`
	Resolution string    `json:"resolution,omitempty"` // chosen outcome text
	StartedDay int       `json:"started_day"`
	UpdatedDay int       `json:"updated_day"`
}

// HasActor reports whether name is among the thread's actors.
func (t *Thread) HasActor(name string) bool {
	for _, a := range t.Actors {
		if a == name {
			return true
		}
	}
	return false
}

// AddBeat appends a beat, applies its tension delta within [0,10], and
// advances the phase if a threshold was crossed.
func (t *Thread) AddBeat(text string, delta float64, day int) {
	t.Beats = append(t.Beats, Beat{
		Text:         text,
		TensionDelta: delta,
		Day:          day,
		At:           time.Now(),
	})
	t.Tension += delta
	if t.Tension < 0 {
		t.Tension = 0
	}
	if t.Tension > 10 {
		t.Tension = 10
	}
	t.UpdatedDay = day
	t.escalate()
}

// escalate walks the phase forward as far as the current tension allows.
// Movement is strictly one-directional; falling tension never demotes.
func (t *Thread) escalate() {
	if t.Phase.Terminal() {
		return
	}
	if t.Phase == PhaseInciting && t.Tension >= risingAt {
		t.Phase = PhaseRising
	}
	if t.Phase == PhaseRising && t.Tension >= climaxAt {
		t.Phase = PhaseClimax
	}
}

// advanceTo moves the thread to a later phase. Requests to move backward
// are ignored.
func (t *Thread) advanceTo(p Phase) {
	if phaseOrder[p] > phaseOrder[t.Phase] {
		t.Phase = p
	}
}
