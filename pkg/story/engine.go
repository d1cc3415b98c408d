package story

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/event"
)

// Registry owns every tracked story thread, resolved and unresolved.
type Registry struct {
	Threads []*Thread `json:"threads"`
}

// NewRegistry returns an empty thread registry.
func NewRegistry() *Registry {
	return &Registry{Threads: make([]*Thread, 0)}
}

// Unresolved returns the currently open threads.
func (r *Registry) Unresolved() []*Thread {
	var open []*Thread
	for _, t := range r.Threads {
		if !t.Resolved {
			open = append(open, t)
		}
	}
	return open
}

// ByID returns the thread with the given id, if tracked.
func (r *Registry) ByID(id uuid.UUID) (*Thread, bool) {
	for _, t := range r.Threads {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// CheckForStorySpawn matches an event against the archetype catalog and
// either spawns a new thread, merges the event into an existing
// unresolved thread of the same archetype sharing an actor, or does
// nothing. The unresolved count never exceeds MaxUnresolved.
func (r *Registry) CheckForStorySpawn(rng *rand.Rand, ev *event.WorldEvent, day int, logger *slog.Logger) *Thread {
	for _, a := range Catalog {
		if !a.matches(ev) {
			continue
		}
		if rng.Float64() >= a.SpawnChance {
			continue
		}
		// Prefer merging over duplicating the same arc.
		if existing := r.mergeCandidate(a.ID, ev); existing != nil {
			existing.AddBeat(fmt.Sprintf("the tale of %s grows: %s", existing.Title, ev.Summary), 0.5+rng.Float64(), day)
			return existing
		}
		if len(r.Unresolved()) >= MaxUnresolved {
			if logger != nil {
				logger.Debug("Story cap reached, dropping spawn candidate",
					"archetype", a.ID, "event", ev.ID)
			}
			return nil
		}
		t := a.Instantiate(ev, day)
		t.ID = uuid.New()
		t.AddBeat(ev.Summary, 0, day)
		r.Threads = append(r.Threads, t)
		if logger != nil {
			logger.Info("Story thread spawned",
				"archetype", a.ID, "title", t.Title, "tension", t.Tension)
		}
		return t
	}
	return nil
}

// mergeCandidate finds an unresolved thread of the archetype that shares
// an actor with the event.
func (r *Registry) mergeCandidate(archetype string, ev *event.WorldEvent) *Thread {
	for _, t := range r.Threads {
		if t.Resolved || t.Archetype != archetype {
			continue
		}
		for _, a := range t.Actors {
			if ev.HasActor(a) {
				return t
			}
		}
	}
	return nil
}

// Feed folds an event into every unresolved thread whose actor set
// overlaps, nudging tension by the event's weight.
func (r *Registry) Feed(ev *event.WorldEvent, day int) {
	for _, t := range r.Threads {
		if t.Resolved {
			continue
		}
		overlap := false
		for _, a := range t.Actors {
			if ev.HasActor(a) {
				overlap = true
				break
			}
		}
		if !overlap {
			continue
		}
		t.AddBeat(ev.Summary, float64(ev.Magnitude)/4, day)
	}
}

// Resolution describes a thread that ended this tick, along with the
// settlement-mood consequence its ending implies.
type Resolution struct {
	Thread  *Thread
	Outcome string
	// Mood is the consequence to enqueue, nil when the thread has no
	// location to perturb.
	Mood *consequence.Consequence
}

// chance per stale day that a climax-phase thread resolves.
const climaxResolveChance = 0.25

// beat progression chance per stale day for an unresolved thread.
const beatChance = 0.6

// TickStories runs once per day: every stale unresolved thread may gain
// a progression beat, and climax-phase threads may resolve. Returned
// resolutions carry consequences for the caller to enqueue; this keeps
// the registry free of queue plumbing.
func (r *Registry) TickStories(rng *rand.Rand, day int, logger *slog.Logger) []Resolution {
	var resolutions []Resolution
	for _, t := range r.Threads {
		if t.Resolved || t.UpdatedDay >= day {
			continue
		}
		if t.Tension >= resolutionAt || (t.Phase == PhaseClimax && rng.Float64() < climaxResolveChance) {
			resolutions = append(resolutions, r.resolve(rng, t, day, logger))
			continue
		}
		if rng.Float64() < beatChance {
			delta := 0.5 + rng.Float64()*1.5
			t.AddBeat(randomBeat(rng, categoryOf(t.Archetype), t.Location), delta, day)
			// A beat can push tension over the top; resolve on the
			// same day rather than letting it hang.
			if t.Tension >= resolutionAt {
				resolutions = append(resolutions, r.resolve(rng, t, day, logger))
			}
		}
	}
	return resolutions
}

// resolve selects one enumerated outcome, appends the final beat, marks
// the thread terminal, and builds the settlement-mood consequence.
func (r *Registry) resolve(rng *rand.Rand, t *Thread, day int, logger *slog.Logger) Resolution {
	outcome := "the matter ends quietly, as most matters do"
	if len(t.Outcomes) > 0 {
		outcome = t.Outcomes[rng.Intn(len(t.Outcomes))]
	}
	t.advanceTo(PhaseResolution)
	t.Resolved = true
	t.Resolution = outcome
	t.Beats = append(t.Beats, Beat{Text: "and so it ends: " + outcome, Day: day})
	t.UpdatedDay = day

	res := Resolution{Thread: t, Outcome: outcome}
	if t.Location != "" {
		sign := moodSign(outcome)
		res.Mood = &consequence.Consequence{
			Type:                 consequence.TypeSettlementChange,
			Trigger:              fmt.Sprintf("the tale of %s reaches its end", t.Title),
			TurnsUntilResolution: consequence.PriorityHigh.DelayTurns(rng),
			Priority:             consequence.PriorityHigh,
			Payload: &consequence.SettlementPayload{
				Settlement: t.Location,
				MoodDelta:  sign * (1 + int(t.Tension)/4),
				Reason:     outcome,
			},
		}
	}
	if logger != nil {
		logger.Info("Story thread resolved",
			"archetype", t.Archetype, "title", t.Title, "outcome", outcome)
	}
	return res
}

// categoryOf maps a thread's archetype id back to its beat category.
// Unknown archetypes (from a newer snapshot) fall back to mystery beats.
func categoryOf(id string) Category {
	if a, ok := ArchetypeByID(id); ok {
		return a.Category
	}
	return CatMystery
}

var hopefulWords = []string{
	"prosper", "peace", "holds", "saved", "recover", "heals", "well",
	"victory", "honored", "rich", "free", "home", "grace", "reconciled",
	"feeds", "warden", "able", "alive", "save",
}

var grimWords = []string{
	"burn", "ruin", "bleed", "falls", "fall of", "dies", "dead", "grave",
	"hangs", "razes", "flee", "feud", "war", "poison", "withers", "empt",
	"hunger", "mercy", "shame", "knives", "takes the",
}

// moodSign infers whether an outcome lands as good or ill news for the
// settlement from the outcome's wording. Mixed or neutral wording reads
// as a small negative: endings unsettle people.
func moodSign(outcome string) int {
	lower := strings.ToLower(outcome)
	score := 0
	for _, w := range hopefulWords {
		if strings.Contains(lower, w) {
			score++
		}
	}
	for _, w := range grimWords {
		if strings.Contains(lower, w) {
			score--
		}
	}
	if score > 0 {
		return 1
	}
	return -1
}
