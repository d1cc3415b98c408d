package story

import "testing"

func TestTensionStaysInRange(t *testing.T) {
	th := &Thread{Phase: PhaseInciting}
	th.AddBeat("a quiet start", -5, 1)
	if th.Tension != 0 {
		t.Errorf("tension below floor: %f", th.Tension)
	}
	for i := 0; i < 10; i++ {
		th.AddBeat("escalation", 3, i+2)
		if th.Tension < 0 || th.Tension > 10 {
			t.Fatalf("tension out of range: %f", th.Tension)
		}
	}
	if th.Tension != 10 {
		t.Errorf("expected tension pinned at 10, got %f", th.Tension)
	}
}

func TestPhasesNeverRegress(t *testing.T) {
	th := &Thread{Phase: PhaseInciting}
	seen := []Phase{th.Phase}

	th.AddBeat("trouble brews", 5, 1) // crosses risingAt
	seen = append(seen, th.Phase)
	th.AddBeat("a lull", -4, 2) // tension drops; phase must hold
	seen = append(seen, th.Phase)
	th.AddBeat("open conflict", 8, 3) // crosses climaxAt
	seen = append(seen, th.Phase)
	th.advanceTo(PhaseRising) // backward request, ignored
	seen = append(seen, th.Phase)

	prev := -1
	for i, p := range seen {
		order, ok := phaseOrder[p]
		if !ok {
			t.Fatalf("unknown phase %q", p)
		}
		if order < prev {
			t.Fatalf("phase regressed at step %d: %v", i, seen)
		}
		prev = order
	}
	if th.Phase != PhaseClimax {
		t.Errorf("expected climax, got %s", th.Phase)
	}
}

func TestEscalationThresholds(t *testing.T) {
	tests := []struct {
		name     string
		delta    float64
		expected Phase
	}{
		{"below rising", 4.9, PhaseInciting},
		{"at rising", 5, PhaseRising},
		{"at climax", 8, PhaseClimax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := &Thread{Phase: PhaseInciting}
			th.AddBeat("beat", tt.delta, 1)
			if th.Phase != tt.expected {
				t.Errorf("tension %f: expected %s, got %s", tt.delta, tt.expected, th.Phase)
			}
		})
	}
}

func TestTerminalPhaseHolds(t *testing.T) {
	th := &Thread{Phase: PhaseResolution}
	th.AddBeat("aftershock", 10, 1)
	if th.Phase != PhaseResolution {
		t.Errorf("terminal phase escalated to %s", th.Phase)
	}
}
