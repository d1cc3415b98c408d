// Package rumor turns notable events into decaying, geographically
// spreadable information records. Rumors are both narrative artifacts
// and read-mostly shared state: goal selection picks the freshest one
// as a travel target.
package rumor

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Kind classifies what a rumor is about.
type Kind string

const (
	KindTreasure    Kind = "treasure"
	KindDanger      Kind = "danger"
	KindWar         Kind = "war"
	KindMystery     Kind = "mystery"
	KindOpportunity Kind = "opportunity"
)

// highValue kinds generate sibling rumors at other settlements.
func (k Kind) highValue() bool {
	return k == KindTreasure || k == KindWar || k == KindDanger
}

// Rumor is a single unit of spreadable information. Freshness is
// decremented once per day and the rumor is removed at zero; that decay
// is the sole bound on rumor growth.
type Rumor struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	Target    string    `json:"target"`           // place or entity the rumor points at
	Origin    string    `json:"origin"`           // settlement where this copy circulates
	Freshness int       `json:"freshness"`        // days of life remaining
	Value     int       `json:"value,omitempty"`  // treasure-attraction metadata
	Source    uuid.UUID `json:"source,omitempty"` // event that spawned it, if any
}

// Registry owns every active rumor.
type Registry struct {
	Active []*Rumor `json:"active"`
}

// NewRegistry returns an empty rumor registry.
func NewRegistry() *Registry {
	return &Registry{Active: make([]*Rumor, 0)}
}

// Create constructs a rumor and adds it to the active set.
func (r *Registry) Create(origin, target string, kind Kind, text string, freshness int) *Rumor {
	ru := &Rumor{
		ID:        uuid.New(),
		Kind:      kind,
		Text:      text,
		Target:    target,
		Origin:    origin,
		Freshness: freshness,
	}
	r.Active = append(r.Active, ru)
	return ru
}

// Spread produces sibling rumors of base at other settlements, modeling
// distortion over distance: reduced freshness and a chance of an
// exaggerated retelling. Low-value kinds do not travel.
func (r *Registry) Spread(rng *rand.Rand, base *Rumor, settlements []string) []*Rumor {
	if base == nil || !base.Kind.highValue() {
		return nil
	}
	// Drop the origin from the candidate list.
	candidates := make([]string, 0, len(settlements))
	for _, s := range settlements {
		if s != base.Origin {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	n := 1 + rng.Intn(4)
	if n > len(candidates) {
		n = len(candidates)
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	siblings := make([]*Rumor, 0, n)
	for _, dest := range candidates[:n] {
		freshness := base.Freshness - 1 - rng.Intn(2)
		if freshness < 1 {
			freshness = 1
		}
		sib := &Rumor{
			ID:        uuid.New(),
			Kind:      base.Kind,
			Text:      base.Text,
			Target:    base.Target,
			Origin:    dest,
			Freshness: freshness,
			Value:     base.Value,
			Source:    base.Source,
		}
		// Retellings grow in the telling.
		if rng.Float64() < 0.35 {
			sib.Text = exaggerate(base.Text)
			if sib.Value > 0 {
				sib.Value += sib.Value / 2
			}
		}
		siblings = append(siblings, sib)
	}
	r.Active = append(r.Active, siblings...)
	return siblings
}

// Decay ages every rumor by one day and removes the expired ones.
// Call exactly once per day tick.
func (r *Registry) Decay() int {
	kept := r.Active[:0]
	removed := 0
	for _, ru := range r.Active {
		ru.Freshness--
		if ru.Freshness > 0 {
			kept = append(kept, ru)
		} else {
			removed++
		}
	}
	r.Active = kept
	return removed
}

// Boost extends a rumor's life, the only way freshness may increase.
func (r *Registry) Boost(id uuid.UUID, days int) bool {
	for _, ru := range r.Active {
		if ru.ID == id {
			ru.Freshness += days
			return true
		}
	}
	return false
}

// Freshest returns the most recently credible rumor, preferring higher
// freshness and breaking ties by higher value. Returns nil when no rumor
// is active.
func (r *Registry) Freshest() *Rumor {
	var best *Rumor
	for _, ru := range r.Active {
		if best == nil || ru.Freshness > best.Freshness ||
			(ru.Freshness == best.Freshness && ru.Value > best.Value) {
			best = ru
		}
	}
	return best
}

// FreshestAt returns the freshest rumor circulating at the named
// settlement, with the same tie-break as Freshest. Returns nil when the
// town has nothing to talk about.
func (r *Registry) FreshestAt(origin string) *Rumor {
	var best *Rumor
	for _, ru := range r.Active {
		if ru.Origin != origin {
			continue
		}
		if best == nil || ru.Freshness > best.Freshness ||
			(ru.Freshness == best.Freshness && ru.Value > best.Value) {
			best = ru
		}
	}
	return best
}

// Len returns the number of active rumors.
func (r *Registry) Len() int { return len(r.Active) }

func exaggerate(text string) string {
	return fmt.Sprintf("%s (or so they say, and the tale has grown with each telling)", text)
}
