package consequence

import (
	"github.com/google/uuid"
)

// Queue holds pending consequences. There is exactly one queue per
// world; each item leaves it exactly once, when its countdown expires.
// The entire pending list is part of the persisted snapshot, so
// countdowns continue across restarts regardless of wall-clock gaps.
type Queue struct {
	Pending []*Consequence `json:"pending"`
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{Pending: make([]*Consequence, 0)}
}

// Enqueue assigns an id if the consequence has none and appends it.
func (q *Queue) Enqueue(c *Consequence) *Consequence {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.TurnsUntilResolution < 1 {
		c.TurnsUntilResolution = 1
	}
	q.Pending = append(q.Pending, c)
	return c
}

// Tick decrements every pending countdown by one turn and removes the
// items that reached zero, returning them in insertion order. Priority
// never reorders a live queue entry; same-tick expirations stay FIFO.
func (q *Queue) Tick() []*Consequence {
	var due []*Consequence
	kept := q.Pending[:0]
	for _, c := range q.Pending {
		c.TurnsUntilResolution--
		if c.TurnsUntilResolution <= 0 {
			due = append(due, c)
		} else {
			kept = append(kept, c)
		}
	}
	// Zero the freed tail so resolved items cannot be reached again.
	for i := len(kept); i < len(q.Pending); i++ {
		q.Pending[i] = nil
	}
	q.Pending = kept
	return due
}

// Len returns the number of pending consequences.
func (q *Queue) Len() int { return len(q.Pending) }
