package world

// Settlement is a mutable per-settlement record read and written by the
// causality processor. Mood, safety and unrest are clamped to 0-10.
type Settlement struct {
	Name       string `json:"name"`
	Terrain    string `json:"terrain,omitempty"`
	Population int    `json:"population"`
	Mood       int    `json:"mood"`   // 0 despairing, 10 jubilant
	Safety     int    `json:"safety"` // 0 lawless, 10 guarded
	Unrest     int    `json:"unrest"` // 0 quiet, 10 rioting
	Wealth     int    `json:"wealth"`
}

func clampScale(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// AdjustMood shifts mood by delta within bounds.
func (s *Settlement) AdjustMood(delta int) { s.Mood = clampScale(s.Mood + delta) }

// AdjustSafety shifts safety by delta within bounds.
func (s *Settlement) AdjustSafety(delta int) { s.Safety = clampScale(s.Safety + delta) }

// AdjustUnrest shifts unrest by delta within bounds.
func (s *Settlement) AdjustUnrest(delta int) { s.Unrest = clampScale(s.Unrest + delta) }

// Faction is a mutable per-faction record. Attitudes are keyed by
// settlement name, -10 hostile to +10 devoted.
type Faction struct {
	Name      string `json:"name"`
	Morale    int    `json:"morale"`    // 0-10
	Territory int    `json:"territory"` // hexes held
	// RecentLosses accumulates casualties; crossing RetaliationAt
	// triggers a retaliate consequence and resets the counter.
	RecentLosses  int            `json:"recent_losses"`
	RetaliationAt int            `json:"retaliation_at"`
	Attitudes     map[string]int `json:"attitudes,omitempty"`
	Hostile       bool           `json:"hostile,omitempty"` // raider bands, monster hordes
}

// AttitudeToward returns the faction's attitude to a settlement (0 if unset).
func (f *Faction) AttitudeToward(settlement string) int {
	if f.Attitudes == nil {
		return 0
	}
	return f.Attitudes[settlement]
}

// ShiftAttitude moves the faction's attitude toward a settlement, clamped
// to [-10, 10].
func (f *Faction) ShiftAttitude(settlement string, delta int) {
	if f.Attitudes == nil {
		f.Attitudes = make(map[string]int)
	}
	v := f.Attitudes[settlement] + delta
	if v < -10 {
		v = -10
	}
	if v > 10 {
		v = 10
	}
	f.Attitudes[settlement] = v
}

// AdjustMorale shifts morale by delta within 0-10.
func (f *Faction) AdjustMorale(delta int) { f.Morale = clampScale(f.Morale + delta) }

// Party is the adventuring party the simulation follows.
type Party struct {
	Name     string   `json:"name"`
	Members  []string `json:"members,omitempty"` // NPC names
	Location string   `json:"location,omitempty"`
	Morale   int      `json:"morale"` // 0-10
	Fame     int      `json:"fame"`
	// Vendetta names a faction or NPC the party has sworn against.
	Vendetta string `json:"vendetta,omitempty"`
	// Goal is the party's current travel/quest target, usually picked
	// from the freshest rumor.
	Goal       string `json:"goal,omitempty"`
	GoalSource string `json:"goal_source,omitempty"` // rumor id that set the goal
}

// AdjustMorale shifts party morale by delta within 0-10.
func (p *Party) AdjustMorale(delta int) { p.Morale = clampScale(p.Morale + delta) }
