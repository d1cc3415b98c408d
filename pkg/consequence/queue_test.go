package consequence

import (
	"math/rand"
	"testing"
)

func TestQueueResolvesExactlyOnce(t *testing.T) {
	q := NewQueue()
	c := q.Enqueue(&Consequence{
		Type:                 TypeSpawnRumor,
		TurnsUntilResolution: 3,
	})

	for turn := 1; turn <= 2; turn++ {
		if due := q.Tick(); len(due) != 0 {
			t.Fatalf("turn %d: nothing should be due yet, got %d", turn, len(due))
		}
	}
	due := q.Tick()
	if len(due) != 1 || due[0].ID != c.ID {
		t.Fatalf("expected the consequence due on turn 3, got %v", due)
	}
	if q.Len() != 0 {
		t.Errorf("resolved consequence still pending, len=%d", q.Len())
	}
	// Further ticks must never surface it again.
	for turn := 4; turn <= 10; turn++ {
		if due := q.Tick(); len(due) != 0 {
			t.Fatalf("turn %d: consequence resolved twice", turn)
		}
	}
}

func TestQueueFIFOWithinTick(t *testing.T) {
	q := NewQueue()
	first := q.Enqueue(&Consequence{Type: TypeFactionAction, TurnsUntilResolution: 1, Priority: PriorityLow})
	second := q.Enqueue(&Consequence{Type: TypeSpawnRumor, TurnsUntilResolution: 1, Priority: PriorityUrgent})

	due := q.Tick()
	if len(due) != 2 {
		t.Fatalf("expected both due, got %d", len(due))
	}
	// Priority never reorders; insertion order wins.
	if due[0].ID != first.ID || due[1].ID != second.ID {
		t.Error("same-tick expirations left FIFO order")
	}
}

func TestEnqueueMinimumCountdown(t *testing.T) {
	q := NewQueue()
	c := q.Enqueue(&Consequence{Type: TypeSuccession})
	if c.TurnsUntilResolution != 1 {
		t.Errorf("expected countdown floor of 1, got %d", c.TurnsUntilResolution)
	}
	if c.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("enqueue did not assign an id")
	}
}

func TestPriorityDelayRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tests := []struct {
		priority Priority
		min, max int
	}{
		{PriorityUrgent, 1, 2},
		{PriorityHigh, 2, 6},
		{PriorityNormal, 6, 24},
		{PriorityLow, 24, 144},
	}
	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			for i := 0; i < 200; i++ {
				d := tt.priority.DelayTurns(rng)
				if d < tt.min || d > tt.max {
					t.Fatalf("delay %d outside [%d,%d]", d, tt.min, tt.max)
				}
			}
		})
	}
}
