// Package sim drives the world on a periodic tick. All mutation happens
// synchronously inside a turn; the only concurrency is the idle wait
// between ticks.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mbutler/war-machine/internal/config"
	"github.com/mbutler/war-machine/internal/storage"
	"github.com/mbutler/war-machine/pkg/causality"
	"github.com/mbutler/war-machine/pkg/consequence"
	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/world"
)

// Engine owns the tick loop: consequence resolution, ambient event
// generation, daily upkeep, and the snapshot after each batch.
type Engine struct {
	w      *world.World
	proc   *causality.Processor
	store  storage.Store
	cfg    *config.Config
	logger *slog.Logger

	// lastSavedAt is the wall time of the snapshot this world loaded
	// from; zero for a freshly seeded world.
	lastSavedAt time.Time
}

// NewEngine binds a world to its storage and configuration.
func NewEngine(w *world.World, savedAt time.Time, store storage.Store, cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		w:           w,
		proc:        causality.NewProcessor(w, logger),
		store:       store,
		cfg:         cfg,
		logger:      logger,
		lastSavedAt: savedAt,
	}
}

// LoadOrCreate restores the stored world, or seeds a fresh one when no
// snapshot exists. The returned time is when the snapshot was saved,
// zero for a new world.
func LoadOrCreate(ctx context.Context, cfg *config.Config, store storage.Store, logger *slog.Logger) (*world.World, time.Time, error) {
	snap, err := store.LoadSnapshot(ctx)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading snapshot: %w", err)
	}
	if snap != nil {
		w, err := world.FromSnapshot(snap, logger)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("restoring world: %w", err)
		}
		logger.Info("World restored from snapshot",
			"name", w.Name, "date", w.Calendar.Date(), "saved_at", snap.SavedAt)
		return w, snap.SavedAt, nil
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := world.New(cfg.WorldName, seed, cfg.StartYear)
	world.Seed(w, logger)
	logger.Info("Seeded new world", "name", w.Name, "seed", seed, "year", cfg.StartYear)
	return w, time.Time{}, nil
}

// Run catches up missed turns, then ticks at the configured interval
// until the context is cancelled. A final snapshot is written on the
// way out.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.CatchUp(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(e.cfg.TurnInterval)
	defer ticker.Stop()

	e.logger.Info("Simulation running",
		"interval", e.cfg.TurnInterval, "date", e.w.Calendar.Date())
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Shutting down, saving final snapshot", "turn", e.w.Calendar.Turn)
			return e.persist(context.WithoutCancel(ctx))
		case <-ticker.C:
			if err := e.Turn(ctx); err != nil {
				return err
			}
		}
	}
}

// CatchUp replays the turns missed while the process was offline, up to
// the configured cap, as one batch with a single snapshot at the end.
// Replay draws from the same continuously advancing RNG stream as live
// ticks, so the output is coherent but not reproducible across runs.
func (e *Engine) CatchUp(ctx context.Context) error {
	if e.lastSavedAt.IsZero() {
		return nil
	}
	missed := int(time.Since(e.lastSavedAt) / e.cfg.TurnInterval)
	if missed <= 0 {
		return nil
	}
	if missed > e.cfg.CatchUpCap {
		e.logger.Warn("Offline gap exceeds catch-up cap, truncating",
			"missed", missed, "cap", e.cfg.CatchUpCap)
		missed = e.cfg.CatchUpCap
	}
	e.logger.Info("Catching up missed turns", "turns", missed)
	for i := 0; i < missed; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.tick(ctx); err != nil {
			return err
		}
	}
	return e.persist(ctx)
}

// Turn advances the world one tick and snapshots the result.
func (e *Engine) Turn(ctx context.Context) error {
	if err := e.tick(ctx); err != nil {
		return err
	}
	return e.persist(ctx)
}

// tick is one simulation step: the calendar advances, due consequences
// resolve (any events they synthesize run through the full causality
// pass), an ambient event may fire on the hour, and the day boundary
// runs upkeep.
func (e *Engine) tick(ctx context.Context) error {
	newHour, newDay := e.w.Calendar.Advance()

	for _, c := range e.w.Consequences.Tick() {
		narration, events := e.proc.Resolve(c)
		if err := e.chronicleNarration(ctx, narration); err != nil {
			return err
		}
		for i := range events {
			if err := e.processEvent(ctx, &events[i]); err != nil {
				return err
			}
		}
	}

	if newHour {
		if ev := e.ambientEvent(); ev != nil {
			if err := e.processEvent(ctx, ev); err != nil {
				return err
			}
		}
	}
	if newDay {
		if err := e.dailyUpkeep(ctx); err != nil {
			return err
		}
	}
	return nil
}

// processEvent runs one event through the causality processor and
// appends it, plus any narration it produced, to the chronicle.
func (e *Engine) processEvent(ctx context.Context, ev *event.WorldEvent) error {
	narration := e.proc.Process(ev)
	if err := e.store.AppendChronicle(ctx, ev.Entry(e.w.Calendar.Timestamp(), e.w.Seed)); err != nil {
		return fmt.Errorf("appending event to chronicle: %w", err)
	}
	return e.chronicleNarration(ctx, narration)
}

// chronicleNarration records handler narration lines as aftermath
// entries.
func (e *Engine) chronicleNarration(ctx context.Context, lines []string) error {
	for _, line := range lines {
		entry := event.ChronicleEntry{
			Category:  "aftermath",
			Summary:   line,
			WorldTime: e.w.Calendar.Timestamp(),
			RealTime:  time.Now(),
			Seed:      e.w.Seed,
		}
		if err := e.store.AppendChronicle(ctx, entry); err != nil {
			return fmt.Errorf("appending narration to chronicle: %w", err)
		}
	}
	return nil
}

// dailyUpkeep runs the day-boundary work: rumor decay, story thread
// progression and resolution, memory aging, and party and NPC goal
// selection.
func (e *Engine) dailyUpkeep(ctx context.Context) error {
	day := e.w.Calendar.Day()

	if removed := e.w.Rumors.Decay(); removed > 0 {
		e.logger.Debug("Rumors faded", "count", removed, "remaining", e.w.Rumors.Len())
	}

	for _, res := range e.w.Threads.TickStories(e.w.RNG, day, e.logger) {
		if res.Mood != nil {
			e.w.Consequences.Enqueue(res.Mood)
		}
		entry := event.ChronicleEntry{
			Category:  "story",
			Summary:   fmt.Sprintf("the tale of %s concludes", res.Thread.Title),
			Details:   res.Outcome,
			Location:  res.Thread.Location,
			Actors:    res.Thread.Actors,
			WorldTime: e.w.Calendar.Timestamp(),
			RealTime:  time.Now(),
			Seed:      e.w.Seed,
		}
		if err := e.store.AppendChronicle(ctx, entry); err != nil {
			return fmt.Errorf("appending story resolution to chronicle: %w", err)
		}
	}

	e.w.DailyUpkeep()
	e.updatePartyGoal()
	e.updateNPCGoals()
	return nil
}

// investigateFreshness is the minimum freshness for town talk to get
// under anyone's skin.
const investigateFreshness = 4

// updateNPCGoals lets idle townsfolk chase what their own town is
// talking about. The agenda is acted on later through the queue, which
// also marks it done.
func (e *Engine) updateNPCGoals() {
	day := e.w.Calendar.Day()
	for _, name := range e.w.NPCNames() {
		npc := e.w.NPCs[name]
		if !npc.Alive || npc.Settlement == "" || !npc.Idle() {
			continue
		}
		ru := e.w.Rumors.FreshestAt(npc.Settlement)
		if ru == nil || ru.Freshness < investigateFreshness {
			continue
		}
		npc.AddAgenda(world.Agenda{
			Kind:   "investigate",
			Target: ru.Target,
			Text:   fmt.Sprintf("means to learn the truth of the talk about %s", ru.Target),
			Day:    day,
		})
		e.w.Consequences.Enqueue(&consequence.Consequence{
			Type:                 consequence.TypeNPCReaction,
			Trigger:              fmt.Sprintf("the talk in %s has gotten under %s's skin", npc.Settlement, npc.Name),
			Priority:             consequence.PriorityLow,
			TurnsUntilResolution: consequence.PriorityLow.DelayTurns(e.w.RNG),
			Payload:              &consequence.NPCPayload{Name: npc.Name, Action: "act_on_agenda", Target: ru.Target},
		})
		e.logger.Debug("NPC takes up an investigation", "name", npc.Name, "target", ru.Target)
	}
}

// updatePartyGoal points the party at the freshest active rumor. The
// goal lapses when its rumor decays away and nothing replaces it.
func (e *Engine) updatePartyGoal() {
	freshest := e.w.Rumors.Freshest()
	if freshest == nil {
		if e.w.Party.Goal != "" {
			e.logger.Debug("Party goal lapsed with its rumor", "goal", e.w.Party.Goal)
			e.w.Party.Goal, e.w.Party.GoalSource = "", ""
		}
		return
	}
	id := freshest.ID.String()
	if e.w.Party.GoalSource == id {
		return
	}
	e.w.Party.Goal = fmt.Sprintf("follow word of %s at %s", freshest.Kind, freshest.Target)
	e.w.Party.GoalSource = id
	e.logger.Info("Party takes up a new goal", "goal", e.w.Party.Goal, "freshness", freshest.Freshness)
}

// persist snapshots the world. Storage failure here is fatal to the
// caller; an unsaved world is unrecoverable.
func (e *Engine) persist(ctx context.Context) error {
	snap, err := e.w.Snapshot()
	if err != nil {
		return fmt.Errorf("building snapshot: %w", err)
	}
	if err := e.store.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	e.lastSavedAt = snap.SavedAt
	return nil
}
