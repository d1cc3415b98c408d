package world

import "testing"

func TestNewNPCDefaults(t *testing.T) {
	npc, err := NewNPC(&NPCSpec{Name: "Aldric", Alive: true})
	if err != nil {
		t.Fatalf("minimal spec must build: %v", err)
	}
	if npc.Actor == nil {
		t.Fatal("NPC built without actor")
	}
}

func TestNewNPCNilSpec(t *testing.T) {
	if _, err := NewNPC(nil); err == nil {
		t.Error("nil spec must error")
	}
}

func TestAddRelationshipDeduplicates(t *testing.T) {
	npc := &NPC{NPCSpec: &NPCSpec{Name: "Mor"}}
	npc.AddRelationship("Senna", RelationAlly)
	npc.AddRelationship("Senna", RelationRival) // existing bond holds
	if len(npc.Relationships) != 1 {
		t.Fatalf("expected one relationship, got %d", len(npc.Relationships))
	}
	if kind, _ := npc.RelatedTo("Senna"); kind != RelationAlly {
		t.Errorf("original bond replaced by %s", kind)
	}
}

func TestCloseBonds(t *testing.T) {
	tests := []struct {
		kind  RelationKind
		close bool
	}{
		{RelationAlly, true},
		{RelationKin, true},
		{RelationLover, true},
		{RelationMentor, true},
		{RelationRival, false},
		{RelationEnemy, false},
	}
	for _, tt := range tests {
		if got := tt.kind.CloseBond(); got != tt.close {
			t.Errorf("%s: CloseBond() = %v, want %v", tt.kind, got, tt.close)
		}
	}
}

func TestAddAgendaDeduplicates(t *testing.T) {
	npc := &NPC{NPCSpec: &NPCSpec{Name: "Senna"}}
	npc.AddAgenda(Agenda{Kind: "revenge", Target: "Redcloaks"})
	npc.AddAgenda(Agenda{Kind: "revenge", Target: "Redcloaks"})
	npc.AddAgenda(Agenda{Kind: "revenge", Target: "Wolfskins"})
	if len(npc.Agendas) != 2 {
		t.Errorf("expected 2 agendas, got %d", len(npc.Agendas))
	}
}

func TestIdle(t *testing.T) {
	npc := &NPC{NPCSpec: &NPCSpec{Name: "Senna"}}
	if !npc.Idle() {
		t.Error("an NPC with no agendas is idle")
	}
	npc.AddAgenda(Agenda{Kind: "revenge", Target: "Redcloaks"})
	if npc.Idle() {
		t.Error("a pending agenda means busy")
	}
	npc.Agendas[0].Done = true
	if !npc.Idle() {
		t.Error("a finished agenda no longer occupies the NPC")
	}
}

func TestMemoryDecayPrunesFaded(t *testing.T) {
	npc := &NPC{NPCSpec: &NPCSpec{Name: "Aldric"}}
	npc.Remember(Memory{Category: "grief", Intensity: 8})
	npc.Remember(Memory{Category: "witnessed", Intensity: 1.1})

	npc.DecayMemories()
	if len(npc.Memories) != 1 {
		t.Fatalf("faint memory should be pruned, got %d memories", len(npc.Memories))
	}
	if npc.Memories[0].Category != "grief" {
		t.Error("wrong memory pruned")
	}
	if npc.Memories[0].Intensity != 8-MemoryDecayRate {
		t.Errorf("intensity not decayed: %f", npc.Memories[0].Intensity)
	}
}
