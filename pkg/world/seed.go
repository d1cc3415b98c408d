package world

import "log/slog"

// Seed populates an empty world with a small starting roster: a handful
// of settlements, the factions that care about them, a party, and a
// relationship-linked cast of NPCs. The full map generator lives
// outside this core; this is just enough world for the engine to turn.
func Seed(w *World, logger *slog.Logger) {
	settlements := []*Settlement{
		{Name: "Threshold", Terrain: "Clear", Population: 900, Mood: 6, Safety: 6, Unrest: 2, Wealth: 40},
		{Name: "Kelven", Terrain: "Hills", Population: 1400, Mood: 5, Safety: 7, Unrest: 3, Wealth: 70},
		{Name: "Verge", Terrain: "Forest", Population: 350, Mood: 5, Safety: 4, Unrest: 2, Wealth: 15},
		{Name: "Luln", Terrain: "Clear", Population: 600, Mood: 4, Safety: 3, Unrest: 5, Wealth: 25},
	}
	for _, s := range settlements {
		w.Settlements[s.Name] = s
	}

	factions := []*Faction{
		{Name: "Duke's Men", Morale: 7, Territory: 12, RetaliationAt: 8,
			Attitudes: map[string]int{"Threshold": 6, "Kelven": 8, "Verge": 2, "Luln": 1}},
		{Name: "Ironmarch Guild", Morale: 6, Territory: 4, RetaliationAt: 12,
			Attitudes: map[string]int{"Kelven": 7, "Threshold": 3}},
		{Name: "Redcloaks", Morale: 5, Territory: 3, RetaliationAt: 6, Hostile: true,
			Attitudes: map[string]int{"Threshold": -6, "Luln": -4}},
		{Name: "Order of the Griffon", Morale: 8, Territory: 2, RetaliationAt: 10,
			Attitudes: map[string]int{"Threshold": 5, "Verge": 4}},
	}
	for _, f := range factions {
		w.Factions[f.Name] = f
	}

	w.Party = &Party{
		Name:     "The Grey Company",
		Members:  []string{"Aldric", "Mor", "Senna"},
		Location: "Threshold",
		Morale:   6,
		Fame:     2,
	}

	specs := []*NPCSpec{
		{Name: "Aldric", Role: "sellsword", Settlement: "Threshold", Alive: true,
			Traits: []string{"loyal", "hot-tempered"}, MaxHP: 18, AC: 15,
			Attributes:    map[string]int{"bravery": 14, "cunning": 9},
			Relationships: []Relationship{{Target: "Mor", Kind: RelationAlly}, {Target: "Senna", Kind: RelationAlly}}},
		{Name: "Mor", Role: "hedge wizard", Settlement: "Threshold", Alive: true,
			Traits: []string{"curious", "cautious"}, MaxHP: 8, AC: 11,
			Attributes:    map[string]int{"bravery": 8, "cunning": 16},
			Relationships: []Relationship{{Target: "Aldric", Kind: RelationAlly}}},
		{Name: "Senna", Role: "scout", Settlement: "Threshold", Alive: true,
			Traits: []string{"wary", "vengeful"}, MaxHP: 12, AC: 14,
			Attributes:    map[string]int{"bravery": 12, "cunning": 13},
			Relationships: []Relationship{{Target: "Aldric", Kind: RelationAlly}, {Target: "Petra", Kind: RelationKin}}},
		{Name: "Reeve Oswin", Role: "reeve", Settlement: "Threshold", Alive: true,
			Traits: []string{"stern", "fair"}, MaxHP: 10, AC: 12,
			Attributes:    map[string]int{"bravery": 11, "cunning": 12},
			Relationships: []Relationship{{Target: "Petra", Kind: RelationMentor}}},
		{Name: "Petra", Role: "innkeeper", Settlement: "Threshold", Alive: true,
			Traits: []string{"gregarious"}, MaxHP: 6, AC: 10,
			Attributes:    map[string]int{"bravery": 9, "cunning": 11},
			Relationships: []Relationship{{Target: "Senna", Kind: RelationKin}, {Target: "Reeve Oswin", Kind: RelationAlly}}},
		{Name: "Captain Hale", Role: "captain", Settlement: "Kelven", Faction: "Duke's Men", Alive: true,
			Traits: []string{"proud", "hot-tempered"}, MaxHP: 22, AC: 16,
			Attributes:    map[string]int{"bravery": 15, "cunning": 10},
			Relationships: []Relationship{{Target: "Guildmaster Vanya", Kind: RelationRival}}},
		{Name: "Guildmaster Vanya", Role: "guildmaster", Settlement: "Kelven", Faction: "Ironmarch Guild", Alive: true,
			Traits: []string{"calculating"}, MaxHP: 7, AC: 10,
			Attributes:    map[string]int{"bravery": 7, "cunning": 17},
			Relationships: []Relationship{{Target: "Captain Hale", Kind: RelationRival}}},
		{Name: "Old Maren", Role: "wise woman", Settlement: "Verge", Alive: true,
			Traits: []string{"secretive"}, MaxHP: 5, AC: 9,
			Attributes: map[string]int{"bravery": 10, "cunning": 15}},
		{Name: "Brother Theol", Role: "priest", Settlement: "Luln", Alive: true,
			Traits: []string{"devout", "stubborn"}, MaxHP: 9, AC: 11,
			Attributes: map[string]int{"bravery": 12, "cunning": 10}},
	}
	for _, spec := range specs {
		w.AddNPC(spec, logger)
	}
}
