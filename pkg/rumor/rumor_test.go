package rumor

import (
	"math/rand"
	"testing"
)

func TestRumorLifetime(t *testing.T) {
	r := NewRegistry()
	ru := r.Create("Threshold", "the old mine", KindTreasure, "gold under the hill", 5)

	// Present on days 1 through 5 after creation.
	for day := 1; day <= 5; day++ {
		if r.Len() != 1 {
			t.Fatalf("day %d: rumor should still be active", day)
		}
		r.Decay()
	}
	// Absent from day 6 onward.
	if r.Len() != 0 {
		t.Fatalf("rumor should be gone on day 6, freshness=%d", ru.Freshness)
	}
}

func TestDecayIsNonIncreasing(t *testing.T) {
	r := NewRegistry()
	r.Create("Kelven", "the road", KindDanger, "wolves on the road", 4)
	prev := 4
	for day := 0; day < 4; day++ {
		r.Decay()
		if r.Len() == 0 {
			return
		}
		if f := r.Active[0].Freshness; f >= prev {
			t.Fatalf("freshness did not decrease: %d -> %d", prev, f)
		} else {
			prev = f
		}
	}
}

func TestBoostExtendsLife(t *testing.T) {
	r := NewRegistry()
	ru := r.Create("Luln", "the keep", KindWar, "soldiers muster", 1)
	if !r.Boost(ru.ID, 3) {
		t.Fatal("boost failed to find the rumor")
	}
	r.Decay()
	if r.Len() != 1 {
		t.Error("boosted rumor expired early")
	}
}

func TestSpreadTargetsOtherSettlements(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	r := NewRegistry()
	settlements := []string{"Threshold", "Kelven", "Verge", "Luln"}
	base := r.Create("Threshold", "the barrow", KindTreasure, "a barrow full of coin", 6)

	siblings := r.Spread(rng, base, settlements)
	if len(siblings) == 0 {
		t.Fatal("treasure rumors must travel")
	}
	for _, sib := range siblings {
		if sib.Origin == base.Origin {
			t.Errorf("sibling spawned at origin %s", sib.Origin)
		}
		if sib.Freshness >= base.Freshness {
			t.Errorf("sibling at %s did not lose freshness: %d", sib.Origin, sib.Freshness)
		}
		if sib.Freshness < 1 {
			t.Errorf("sibling freshness below floor: %d", sib.Freshness)
		}
	}
}

func TestLowValueKindsDoNotSpread(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	r := NewRegistry()
	base := r.Create("Threshold", "the fair", KindOpportunity, "open tables at the fair", 3)
	if siblings := r.Spread(rng, base, []string{"Threshold", "Kelven"}); siblings != nil {
		t.Errorf("opportunity rumors should stay local, got %d siblings", len(siblings))
	}
}

func TestFreshestPrefersFreshnessThenValue(t *testing.T) {
	r := NewRegistry()
	stale := r.Create("Verge", "a ruin", KindMystery, "lights in the ruin", 2)
	fresh := r.Create("Threshold", "the mine", KindTreasure, "silver in the mine", 5)
	rich := r.Create("Kelven", "the crypt", KindTreasure, "a crypt of kings", 5)
	fresh.Value = 10
	rich.Value = 100

	best := r.Freshest()
	if best == nil || best.ID != rich.ID {
		t.Errorf("expected the high-value tie winner, got %+v (stale=%s)", best, stale.ID)
	}
}

func TestFreshestAtFiltersByOrigin(t *testing.T) {
	r := NewRegistry()
	r.Create("Kelven", "the road", KindDanger, "wolves on the road", 9)
	local := r.Create("Threshold", "the mine", KindTreasure, "silver in the mine", 5)

	best := r.FreshestAt("Threshold")
	if best == nil || best.ID != local.ID {
		t.Errorf("expected the local rumor, got %+v", best)
	}
	if r.FreshestAt("Verge") != nil {
		t.Error("a town with no circulating rumor must return nil")
	}
}

func TestFreshestEmpty(t *testing.T) {
	r := NewRegistry()
	if r.Freshest() != nil {
		t.Error("empty registry must return nil")
	}
}
