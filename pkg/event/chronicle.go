package event

import (
	"fmt"
	"strings"
	"time"
)

// ChronicleEntry is the flat record appended to the event log.
// Downstream consumers see exactly this shape; nothing about rendering
// is assumed here.
type ChronicleEntry struct {
	Category string   `json:"category"`
	Summary  string   `json:"summary"`
	Details  string   `json:"details,omitempty"`
	Location string   `json:"location,omitempty"`
	Actors   []string `json:"actors,omitempty"`
	// WorldTime is the in-world calendar date, e.g. "12 Thaumont, AC 1012".
	WorldTime string    `json:"world_time"`
	RealTime  time.Time `json:"real_time"`
	Seed      int64     `json:"seed"`
}

// Entry builds a chronicle entry from an event.
func (e *WorldEvent) Entry(worldTime string, seed int64) ChronicleEntry {
	return ChronicleEntry{
		Category:  string(e.Type),
		Summary:   e.Summary,
		Details:   e.Details,
		Location:  e.Location,
		Actors:    e.Actors,
		WorldTime: worldTime,
		RealTime:  e.Timestamp,
		Seed:      seed,
	}
}

// String renders the human-readable chronicle line:
//
//	<timestamp> [<category>] @<location> [<actors>] <summary> — <details>
func (c ChronicleEntry) String() string {
	var b strings.Builder
	b.WriteString(c.WorldTime)
	fmt.Fprintf(&b, " [%s]", c.Category)
	if c.Location != "" {
		fmt.Fprintf(&b, " @%s", c.Location)
	}
	if len(c.Actors) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(c.Actors, ", "))
	}
	b.WriteString(" ")
	b.WriteString(c.Summary)
	if c.Details != "" {
		b.WriteString(" — ")
		b.WriteString(c.Details)
	}
	return b.String()
}
