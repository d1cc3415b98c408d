package event

// Payload is the type-specific data carried by a WorldEvent.
// Each variant is a concrete struct; dispatch switches on the concrete
// type so the compiler can check coverage.
type Payload interface {
	PayloadKind() string
}

// RaidPayload accompanies TypeRaid and TypeCaravanAmbush.
type RaidPayload struct {
	Damage     int    `json:"damage"`     // structural damage dealt to the settlement
	Casualties int    `json:"casualties"` // defenders lost
	Loot       int    `json:"loot"`       // value carried off
	Raiders    string `json:"raiders"`    // attacking faction name
}

func (RaidPayload) PayloadKind() string { return "raid" }

// BattlePayload accompanies TypeBattle.
type BattlePayload struct {
	Attacker       string `json:"attacker"`
	Defender       string `json:"defender"`
	Victor         string `json:"victor,omitempty"`
	AttackerLosses int    `json:"attacker_losses"`
	DefenderLosses int    `json:"defender_losses"`
	Territory      string `json:"territory,omitempty"` // contested ground, if any
}

func (BattlePayload) PayloadKind() string { return "battle" }

// DeathPayload accompanies TypeDeath and TypeAssassination.
type DeathPayload struct {
	Deceased string `json:"deceased"`
	Cause    string `json:"cause,omitempty"`
	Killer   string `json:"killer,omitempty"`
}

func (DeathPayload) PayloadKind() string { return "death" }

// BetrayalPayload accompanies TypeBetrayal.
type BetrayalPayload struct {
	Traitor  string `json:"traitor"`
	Betrayed string `json:"betrayed"`
	Stakes   string `json:"stakes,omitempty"`
}

func (BetrayalPayload) PayloadKind() string { return "betrayal" }

// DiscoveryPayload accompanies TypeDiscovery.
type DiscoveryPayload struct {
	What     string `json:"what"`
	Value    int    `json:"value"`
	Site     string `json:"site,omitempty"` // where the find lies, if not the event location
	Guardian string `json:"guardian,omitempty"`
}

func (DiscoveryPayload) PayloadKind() string { return "discovery" }

// PlaguePayload accompanies TypePlague.
type PlaguePayload struct {
	Disease  string `json:"disease"`
	Severity int    `json:"severity"` // 1-10
}

func (PlaguePayload) PayloadKind() string { return "plague" }

// FestivalPayload accompanies TypeFestival.
type FestivalPayload struct {
	Occasion string `json:"occasion"`
}

func (FestivalPayload) PayloadKind() string { return "festival" }

// DisappearancePayload accompanies TypeDisappearance.
type DisappearancePayload struct {
	Missing  string `json:"missing"`
	LastSeen string `json:"last_seen,omitempty"`
}

func (DisappearancePayload) PayloadKind() string { return "disappearance" }

// AlliancePayload accompanies TypeAlliance.
type AlliancePayload struct {
	Parties []string `json:"parties"`
	Terms   string   `json:"terms,omitempty"`
}

func (AlliancePayload) PayloadKind() string { return "alliance" }

// MonsterPayload accompanies TypeMonsterSighting.
type MonsterPayload struct {
	Creature string `json:"creature"`
	Threat   int    `json:"threat"` // 1-10
	Lair     string `json:"lair,omitempty"`
}

func (MonsterPayload) PayloadKind() string { return "monster" }

// payloadFor returns a zero value of the payload type for kind,
// or nil for an unknown kind.
func payloadFor(kind string) Payload {
	switch kind {
	case "raid":
		return &RaidPayload{}
	case "battle":
		return &BattlePayload{}
	case "death":
		return &DeathPayload{}
	case "betrayal":
		return &BetrayalPayload{}
	case "discovery":
		return &DiscoveryPayload{}
	case "plague":
		return &PlaguePayload{}
	case "festival":
		return &FestivalPayload{}
	case "disappearance":
		return &DisappearancePayload{}
	case "alliance":
		return &AlliancePayload{}
	case "monster":
		return &MonsterPayload{}
	default:
		return nil
	}
}
