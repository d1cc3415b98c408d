package story

import (
	"math/rand"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mbutler/war-machine/pkg/event"
)

// Category groups archetypes that share a beat pool.
type Category string

const (
	CatVengeance Category = "vengeance"
	CatWar       Category = "war"
	CatTreasure  Category = "treasure"
	CatMystery   Category = "mystery"
	CatIntrigue  Category = "intrigue"
	CatRomance   Category = "romance"
	CatRise      Category = "rise"
	CatCalamity  Category = "calamity"
	CatMonster   Category = "monster"
	CatFolk      Category = "folk"
	CatFall      Category = "fall"
)

// Archetype is one entry in the narrative catalog. Title and Summary are
// templates over {actor} and {place}. An event spawns the archetype when
// it carries at least one of the listed tags, meets the magnitude floor,
// and the spawn roll succeeds.
type Archetype struct {
	ID           string
	Category     Category
	Title        string
	Summary      string
	Tags         []event.Tag
	MinMagnitude int
	SpawnChance  float64
	Outcomes     []string
}

var titleCaser = cases.Title(language.English)

// Instantiate fills the archetype's templates for a concrete event and
// returns a new unresolved thread in the inciting phase.
func (a Archetype) Instantiate(ev *event.WorldEvent, day int) *Thread {
	actor := "a stranger"
	if len(ev.Actors) > 0 {
		actor = ev.Actors[0]
	} else if len(ev.Perpetrators) > 0 {
		actor = ev.Perpetrators[0]
	}
	place := ev.Location
	if place == "" {
		place = "the wild lands"
	}
	fill := func(s string) string {
		s = strings.ReplaceAll(s, "{actor}", actor)
		return strings.ReplaceAll(s, "{place}", place)
	}
	t := &Thread{
		Archetype:  a.ID,
		Title:      titleCaser.String(fill(a.Title)),
		Summary:    fill(a.Summary),
		Phase:      PhaseInciting,
		Location:   ev.Location,
		Tension:    float64(ev.Magnitude) / 2,
		Outcomes:   make([]string, len(a.Outcomes)),
		StartedDay: day,
		UpdatedDay: day,
	}
	for i, o := range a.Outcomes {
		t.Outcomes[i] = fill(o)
	}
	t.Actors = append(t.Actors, ev.Actors...)
	t.Actors = append(t.Actors, ev.Perpetrators...)
	return t
}

// matches reports whether the event satisfies the archetype's tag and
// magnitude requirements.
func (a Archetype) matches(ev *event.WorldEvent) bool {
	if ev.Magnitude < a.MinMagnitude {
		return false
	}
	for _, tag := range a.Tags {
		if ev.HasTag(tag) {
			return true
		}
	}
	return false
}

// beatPools holds per-category progression beats. Each line is a
// template over {place}; deltas are rolled separately.
var beatPools = map[Category][]string{
	CatVengeance: {
		"an oath is sworn over a fresh grave near {place}",
		"old allies are called on to repay debts of blood",
		"a hired blade asks questions in the taverns of {place}",
		"the hunted doubles back, leaving a warning pinned to a door",
		"kin of the slain refuse a weregild offer",
	},
	CatWar: {
		"levies drill on the common outside {place}",
		"scouts clash along the border, neither side admitting losses",
		"grain wagons are requisitioned and the markets grumble",
		"a parley is proposed, then abandoned over an insult",
		"banners are counted at {place}, and the count is grim",
	},
	CatTreasure: {
		"a map changes hands for too much coin in {place}",
		"diggers break ground where the old stories say not to",
		"a rival company arrives with mules and hired guards",
		"something in the dark below {place} does not want visitors",
		"a single gold piece of antique mint turns up in a market stall",
	},
	CatMystery: {
		"another disappearance, and this time there was a witness",
		"the elders of {place} are not telling everything they know",
		"strange marks are found scratched into a shrine post",
		"a traveler claims to have seen lights beyond the treeline",
		"the priest burns something in the night and will not say what",
	},
	CatIntrigue: {
		"letters move between {place} and unfriendly hands",
		"a servant is dismissed abruptly and leaves town by night",
		"coin from no known mint pays for silence in {place}",
		"two men who should not know each other share a table",
		"an ally withdraws support without explanation",
	},
	CatRomance: {
		"a token is passed in secret at the {place} market",
		"families exchange hard words over a possible match",
		"a rival presses their suit with gifts and threats alike",
		"the couple is seen together once too often",
		"an elopement is whispered about, then denied",
	},
	CatRise: {
		"a deed at {place} is retold with growing embellishment",
		"common folk begin bringing their disputes to an unlikely judge",
		"the established powers of {place} take uneasy notice",
		"a small following gathers, armed with little but conviction",
		"an offer of patronage arrives with strings attached",
	},
	CatCalamity: {
		"the sickness reaches another household in {place}",
		"granary stores are counted twice and the tally hidden",
		"folk leave offerings at roadside shrines out of fresh fear",
		"a remedy is sold in {place} that does nothing at all",
		"burials outpace baptisms for the first time in memory",
	},
	CatMonster: {
		"livestock are taken from a steading near {place}",
		"a hunting party returns with fewer men than it left with",
		"tracks too large for any wolf circle the walls of {place}",
		"a reward is posted and attracts the wrong sort of hero",
		"the beast is glimpsed at dusk, bigger than the stories said",
	},
	CatFolk: {
		"preparations in {place} draw craftsmen from three villages",
		"an old grievance is set aside, at least for the season",
		"pilgrims swell the road and the inns of {place} profit",
		"a blessing is pronounced and taken as a good omen",
		"the feast tables grow longer as word spreads",
	},
	CatFall: {
		"debts are called in against the house at {place}",
		"old retainers quietly seek new masters",
		"a scandal is bought out of sight, but not out of memory",
		"the heir is nowhere to be found when needed",
		"creditors and crows both gather at {place}",
	},
}

// Catalog is the full archetype catalog, keyed lookup by ID via
// ArchetypeByID. Spawn chances are tuned low; most events pass through
// without starting an arc.
var Catalog = []Archetype{
	// Vengeance arcs
	{ID: "blood_feud", Category: CatVengeance, Title: "the blood feud of {place}", Summary: "A killing near {place} has set two lines against each other.", Tags: []event.Tag{event.TagLoss, event.TagViolence}, MinMagnitude: 4, SpawnChance: 0.25, Outcomes: []string{"the feud is settled with a weregild and wary peace", "both houses bleed until neither can hold a sword", "{actor} ends it with one last killing and flees {place}"}},
	{ID: "widow_oath", Category: CatVengeance, Title: "the widow's oath", Summary: "{actor} has sworn vengeance for a slain spouse.", Tags: []event.Tag{event.TagLoss}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the oath is fulfilled and the grave lies quiet", "grief cools into a long bitterness that poisons {place}", "the widow finds the guilty already dead by another hand"}},
	{ID: "kinslayer_hunt", Category: CatVengeance, Title: "hunt for the kinslayer", Summary: "A kinslayer is loose, and {place} wants a reckoning.", Tags: []event.Tag{event.TagViolence, event.TagIntrigue}, MinMagnitude: 5, SpawnChance: 0.2, Outcomes: []string{"the kinslayer is dragged back to face judgment", "the hunt kills the wrong man and shames {place}", "the kinslayer buys pardon with a terrible secret"}},
	{ID: "debt_of_blood", Category: CatVengeance, Title: "a debt of blood", Summary: "{actor} owes a life, and the creditor has come to collect.", Tags: []event.Tag{event.TagViolence, event.TagIntrigue}, MinMagnitude: 3, SpawnChance: 0.15, Outcomes: []string{"the debt is paid in service rather than blood", "the collector is slain and the debt doubles", "{actor} flees {place} with the debt unpaid"}},

	// War arcs
	{ID: "border_war", Category: CatWar, Title: "war on the {place} marches", Summary: "Skirmishing near {place} threatens to become open war.", Tags: []event.Tag{event.TagViolence, event.TagUnrest}, MinMagnitude: 6, SpawnChance: 0.3, Outcomes: []string{"a truce holds and the marches prosper again", "{place} burns and its fields lie fallow a generation", "a third power swallows both exhausted sides"}},
	{ID: "siege_gathers", Category: CatWar, Title: "the gathering siege", Summary: "An army is massing with {place} in its path.", Tags: []event.Tag{event.TagViolence, event.TagOmen}, MinMagnitude: 7, SpawnChance: 0.35, Outcomes: []string{"the walls hold and the besiegers starve first", "{place} falls and is given three days to the victors", "relief arrives at the last hour and the siege breaks"}},
	{ID: "mercenary_king", Category: CatWar, Title: "the mercenary's crown", Summary: "A sellsword captain near {place} has begun taking more than pay.", Tags: []event.Tag{event.TagViolence, event.TagIntrigue}, MinMagnitude: 5, SpawnChance: 0.2, Outcomes: []string{"the free company is bought off and marches elsewhere", "{actor} carves out a bandit fiefdom around {place}", "the captain's own officers sell him to the highest bidder"}},
	{ID: "broken_banner", Category: CatWar, Title: "the broken banner", Summary: "A defeated company limps through {place}, dangerous in its despair.", Tags: []event.Tag{event.TagLoss, event.TagUnrest}, MinMagnitude: 4, SpawnChance: 0.2, Outcomes: []string{"the survivors settle and strengthen {place}", "desperation turns the soldiers to banditry", "a new banner gathers them for someone else's war"}},
	{ID: "levy_rising", Category: CatWar, Title: "the levy of {place}", Summary: "Fighting men are being raised in {place}, willing or not.", Tags: []event.Tag{event.TagUnrest}, MinMagnitude: 4, SpawnChance: 0.15, Outcomes: []string{"the levy returns with victory and back pay", "the levy is spent like coin on a foreign field", "the levy mutinies before it ever leaves {place}"}},

	// Treasure arcs
	{ID: "dragon_hoard", Category: CatTreasure, Title: "the hoard under the mountain", Summary: "Talk of a great hoard near {place} draws greedy and desperate alike.", Tags: []event.Tag{event.TagTreasure}, MinMagnitude: 5, SpawnChance: 0.3, Outcomes: []string{"the hoard is won and {place} drowns in new gold", "the hoard's keeper wakes, to the ruin of {place}", "the hoard proves a legend and the diggers turn on each other"}},
	{ID: "sunken_crown", Category: CatTreasure, Title: "the sunken crown", Summary: "A royal treasure lost near {place} may be lost no longer.", Tags: []event.Tag{event.TagTreasure, event.TagMystery}, MinMagnitude: 4, SpawnChance: 0.25, Outcomes: []string{"the crown is raised and claimed with great ceremony", "rival claimants bleed each other over a drowned bauble", "the crown stays lost, taking three more boats with it"}},
	{ID: "miser_vault", Category: CatTreasure, Title: "the miser's vault", Summary: "A dead miser's wealth is hidden somewhere in {place}.", Tags: []event.Tag{event.TagTreasure, event.TagLoss}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the vault is found and the heirs settle fairly", "the search tears {place} apart floorboard by floorboard", "the wealth was spent years ago on a secret shame"}},
	{ID: "prospectors_folly", Category: CatTreasure, Title: "the {place} strike", Summary: "A mineral strike near {place} has started a rush.", Tags: []event.Tag{event.TagTreasure}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the strike holds and {place} grows rich and rowdy", "the seam pinches out, leaving debts and empty camps", "claim-jumping turns the diggings into a small war"}},
	{ID: "tomb_gold", Category: CatTreasure, Title: "gold of the old tombs", Summary: "Grave-goods have surfaced in {place}, and the tombs are being asked where the rest is.", Tags: []event.Tag{event.TagTreasure, event.TagOmen}, MinMagnitude: 4, SpawnChance: 0.25, Outcomes: []string{"the tombs are emptied and nothing follows the gold home", "what guarded the tombs follows the gold to {place}", "the priests seal the tombs and buy off the diggers"}},

	// Mystery arcs
	{ID: "vanishing_folk", Category: CatMystery, Title: "the vanishings at {place}", Summary: "People keep disappearing from {place}, one or two at a time.", Tags: []event.Tag{event.TagMystery}, MinMagnitude: 3, SpawnChance: 0.3, Outcomes: []string{"the cause is found and the missing come home", "the missing are found, and it would have been kinder not to", "{place} empties as fear does what the vanishings could not"}},
	{ID: "whispering_wood", Category: CatMystery, Title: "the whispering wood", Summary: "The forest near {place} has begun to be avoided, for reasons no one states plainly.", Tags: []event.Tag{event.TagMystery, event.TagOmen}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the wood's secret proves harmless and the paths reopen", "the wood keeps its secret and claims a price for asking", "the wood is burned, and {place} regrets it"}},
	{ID: "sealed_tomb", Category: CatMystery, Title: "the sealed door", Summary: "Something old and deliberately sealed has been found near {place}.", Tags: []event.Tag{event.TagMystery, event.TagOmen}, MinMagnitude: 4, SpawnChance: 0.25, Outcomes: []string{"the seal holds, because wiser heads prevail", "the seal is broken and the reason for it walks out", "scholars carry the mystery away to trouble someone else"}},
	{ID: "masked_stranger", Category: CatMystery, Title: "the stranger at {place}", Summary: "A stranger in {place} asks questions and answers none.", Tags: []event.Tag{event.TagMystery, event.TagIntrigue}, MinMagnitude: 2, SpawnChance: 0.15, Outcomes: []string{"the stranger's errand ends well for {place}", "the stranger vanishes the night something is stolen", "the stranger is unmasked as someone thought long dead"}},
	{ID: "cursed_bell", Category: CatMystery, Title: "the bell that rings itself", Summary: "An omen repeats in {place}, and the omens are getting louder.", Tags: []event.Tag{event.TagOmen}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the omen is read rightly and disaster is averted", "the omen is ignored until it is a prophecy fulfilled", "a charlatan is caught making omens to order"}},

	// Intrigue arcs
	{ID: "poisoned_court", Category: CatIntrigue, Title: "poison in the hall of {place}", Summary: "Someone in the hall of {place} is killing by inches.", Tags: []event.Tag{event.TagIntrigue, event.TagLoss}, MinMagnitude: 5, SpawnChance: 0.25, Outcomes: []string{"the poisoner is caught before the cup reaches the heir", "the hall changes masters and no one asks too loudly how", "the taster dies, and the guilty buy an accusation for a rival"}},
	{ID: "traitor_within", Category: CatIntrigue, Title: "the traitor within", Summary: "Plans from {place} keep reaching the wrong ears.", Tags: []event.Tag{event.TagIntrigue}, MinMagnitude: 4, SpawnChance: 0.25, Outcomes: []string{"the traitor is unmasked and {place} breathes again", "the traitor is fed false plans and ruined at a stroke", "the traitor is protected by someone too high to accuse"}},
	{ID: "guild_conspiracy", Category: CatIntrigue, Title: "the guild compact", Summary: "The guilds of {place} are meeting after dark and fixing more than prices.", Tags: []event.Tag{event.TagIntrigue, event.TagUnrest}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the compact is broken and trade in {place} runs free", "the guilds quietly become the true lords of {place}", "a rival town undercuts {place} and the compact collapses"}},
	{ID: "succession_crisis", Category: CatIntrigue, Title: "the empty seat of {place}", Summary: "A seat of power over {place} stands empty, and too many hands reach for it.", Tags: []event.Tag{event.TagIntrigue, event.TagLoss}, MinMagnitude: 5, SpawnChance: 0.3, Outcomes: []string{"a compromise heir is crowned and proves unexpectedly able", "the succession is settled with knives in the dark", "{place} splits, each half with its own pretender"}},
	{ID: "spy_ring", Category: CatIntrigue, Title: "eyes upon {place}", Summary: "Paid eyes are watching {place} for a distant master.", Tags: []event.Tag{event.TagIntrigue, event.TagMystery}, MinMagnitude: 3, SpawnChance: 0.15, Outcomes: []string{"the ring is rolled up and its paymaster named", "the ring finishes its work and war follows its reports", "the ring is turned and feeds its master poison"}},

	// Romance arcs
	{ID: "forbidden_love", Category: CatRomance, Title: "a match forbidden", Summary: "Two in {place} love where their families forbid.", Tags: []event.Tag{event.TagRomance}, MinMagnitude: 2, SpawnChance: 0.25, Outcomes: []string{"the families relent and the match heals an old rift", "an elopement leaves two empty chairs and a feud", "duty wins, and two weddings are celebrated joylessly"}},
	{ID: "rival_suitors", Category: CatRomance, Title: "the rival suitors", Summary: "Two suitors press one claim in {place}, and neither will yield.", Tags: []event.Tag{event.TagRomance, event.TagViolence}, MinMagnitude: 2, SpawnChance: 0.2, Outcomes: []string{"the choice is made freely and accepted with grace", "a duel settles it and the winner is refused anyway", "the intended chooses a third no one had considered"}},
	{ID: "lost_betrothed", Category: CatRomance, Title: "the lost betrothed", Summary: "A betrothed of {place} has gone missing on the road.", Tags: []event.Tag{event.TagRomance, event.TagMystery}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the lost one returns with a story and a scar", "a ransom is paid and honored, to general surprise", "the search finds a grave and a ring"}},

	// Rise arcs
	{ID: "peasant_hero", Category: CatRise, Title: "the hero of {place}", Summary: "A commoner's deed at {place} is growing into a name.", Tags: []event.Tag{event.TagHeroism}, MinMagnitude: 3, SpawnChance: 0.3, Outcomes: []string{"the hero is raised up and serves {place} well", "fame curdles, and the hero is ruined by their own legend", "the hero refuses every honor and walks away"}},
	{ID: "prophets_rise", Category: CatRise, Title: "the voice in {place}", Summary: "A preacher in {place} is drawing crowds that worry the powerful.", Tags: []event.Tag{event.TagOmen, event.TagUnrest}, MinMagnitude: 4, SpawnChance: 0.2, Outcomes: []string{"the movement mellows into an honored order", "the preacher is martyred and the movement hardens", "the preacher is caught in fraud and the crowds turn"}},
	{ID: "outlaw_legend", Category: CatRise, Title: "the outlaw of {place}", Summary: "An outlaw working near {place} is becoming a folk hero.", Tags: []event.Tag{event.TagHeroism, event.TagUnrest}, MinMagnitude: 3, SpawnChance: 0.25, Outcomes: []string{"a pardon turns the outlaw into {place}'s best warden", "betrayed for coin, the outlaw hangs and becomes a song", "the band grows too big to feed and scatters"}},
	{ID: "young_captain", Category: CatRise, Title: "the young captain", Summary: "{actor} is winning a reputation faster than is safe.", Tags: []event.Tag{event.TagHeroism, event.TagViolence}, MinMagnitude: 4, SpawnChance: 0.2, Outcomes: []string{"the captain's star carries {place} to victory", "jealous seniors spend the captain on a hopeless errand", "the captain takes service abroad, to {place}'s loss"}},

	// Calamity arcs
	{ID: "creeping_plague", Category: CatCalamity, Title: "the sickness in {place}", Summary: "A sickness is moving through {place} and will not name itself.", Tags: []event.Tag{event.TagLoss, event.TagOmen}, MinMagnitude: 5, SpawnChance: 0.35, Outcomes: []string{"the sickness burns out and {place} recovers, chastened", "the graveyards of {place} double and the living flee", "a cure is found, and its price causes an uglier sickness"}},
	{ID: "famine_march", Category: CatCalamity, Title: "the hungry season", Summary: "The stores of {place} will not last the season.", Tags: []event.Tag{event.TagUnrest, event.TagLoss}, MinMagnitude: 4, SpawnChance: 0.25, Outcomes: []string{"grain bought dearly arrives in time to save {place}", "hunger does its arithmetic in {place} without mercy", "the granary lords are hanged and their hoards opened"}},
	{ID: "fire_omen", Category: CatCalamity, Title: "the fire at {place}", Summary: "Fire has taken part of {place}, and folk argue over whether it was chance.", Tags: []event.Tag{event.TagLoss, event.TagMystery}, MinMagnitude: 4, SpawnChance: 0.2, Outcomes: []string{"{place} rebuilds better than it burned", "a firestarter is found, and the reason is worse than the fire", "fear of the next fire does more damage than the last"}},
	{ID: "flood_season", Category: CatCalamity, Title: "the rising waters", Summary: "The waters around {place} are higher than any grey-beard remembers.", Tags: []event.Tag{event.TagOmen, event.TagLoss}, MinMagnitude: 4, SpawnChance: 0.2, Outcomes: []string{"the dikes hold and the silt makes next year's bread", "the flood takes the low town and a generation's wealth", "{place} moves uphill, and the old quarrels move with it"}},

	// Monster arcs
	{ID: "beast_of_the_hills", Category: CatMonster, Title: "the beast of {place}", Summary: "Something is hunting the lands around {place}.", Tags: []event.Tag{event.TagMystery, event.TagViolence}, MinMagnitude: 4, SpawnChance: 0.3, Outcomes: []string{"the beast is slain and its head hangs in {place}", "the beast takes the hunters sent against it and grows bold", "the beast moves on as unexplained as it came"}},
	{ID: "wyrm_awakened", Category: CatMonster, Title: "the wyrm of {place}", Summary: "An old terror near {place} is awake again.", Tags: []event.Tag{event.TagOmen, event.TagViolence}, MinMagnitude: 7, SpawnChance: 0.4, Outcomes: []string{"heroes bring the wyrm down at fearful cost", "tribute buys years of peace and a legacy of shame", "the wyrm razes {place} and sleeps on the ashes"}},
	{ID: "night_haunting", Category: CatMonster, Title: "the haunting of {place}", Summary: "The dead, or something wearing them, walk near {place}.", Tags: []event.Tag{event.TagOmen, event.TagMystery}, MinMagnitude: 4, SpawnChance: 0.25, Outcomes: []string{"the restless dead are laid down with rite and spade", "the haunting's cause is a living man, and he is dealt with", "{place} learns to bar its doors at dusk, forever"}},
	{ID: "wolf_winter", Category: CatMonster, Title: "the wolf winter", Summary: "The wolves around {place} have lost their fear of men.", Tags: []event.Tag{event.TagViolence}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the great pack is broken on organized spears", "the wolves thin the herds and the poor of {place} pay for it", "a bounty war empties the woods of wolf and game alike"}},

	// Folk arcs
	{ID: "festival_miracle", Category: CatFolk, Title: "the miracle at {place}", Summary: "Something wondrous is said to have happened at {place}, and pilgrims believe it.", Tags: []event.Tag{event.TagConcord, event.TagOmen}, MinMagnitude: 2, SpawnChance: 0.2, Outcomes: []string{"the shrine prospers and {place} with it", "the miracle is exposed and the pilgrims' coin leaves with them", "rival temples fight over the miracle's meaning"}},
	{ID: "pilgrim_road", Category: CatFolk, Title: "the pilgrim road", Summary: "A new pilgrimage passes through {place}, bringing coin and trouble in equal measure.", Tags: []event.Tag{event.TagConcord}, MinMagnitude: 2, SpawnChance: 0.15, Outcomes: []string{"the road is warded and {place} grows fat on passage tolls", "road agents bleed the pilgrims and the route withers", "the shrine at the road's end burns and the traffic ends"}},
	{ID: "harvest_pact", Category: CatFolk, Title: "the pact of {place}", Summary: "Old rivals around {place} are trying to bind themselves to a common good.", Tags: []event.Tag{event.TagConcord}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the pact holds and the shared harvest feeds all", "the pact dies of its first hard test", "one signer grows strong on the pact and quietly becomes its master"}},

	// Fall arcs
	{ID: "fallen_house", Category: CatFall, Title: "the fall of a house", Summary: "A great name of {place} is coming apart at the seams.", Tags: []event.Tag{event.TagLoss, event.TagIntrigue}, MinMagnitude: 4, SpawnChance: 0.25, Outcomes: []string{"a capable cousin salvages the house, diminished but alive", "the house's lands are carved up by circling neighbors", "the last heir burns the ledgers and rides off to mercenary work"}},
	{ID: "drunken_lord", Category: CatFall, Title: "the failing hand at {place}", Summary: "The lord of {place} is no longer equal to the seat, and everyone knows it.", Tags: []event.Tag{event.TagUnrest, event.TagIntrigue}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"a steward quietly takes up the reins and rules well", "the lord's weakness invites a neighbor's ambition", "the lord rallies late, and the reckoning is ugly"}},
	{ID: "heretic_priest", Category: CatFall, Title: "the heretic of {place}", Summary: "A priest of {place} preaches what the temple has forbidden.", Tags: []event.Tag{event.TagOmen, event.TagUnrest}, MinMagnitude: 3, SpawnChance: 0.2, Outcomes: []string{"the heresy is reconciled and half-adopted by the temple", "the priest recants before the fire and believes nothing after", "the flock follows the heretic out of {place} entirely"}},
}

// ArchetypeByID returns the catalog entry for id.
func ArchetypeByID(id string) (Archetype, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Archetype{}, false
}

// randomBeat draws a progression beat for the archetype's category.
// Caller must have seeded threads only from catalog archetypes, so the
// pool lookup cannot come up empty.
func randomBeat(rng *rand.Rand, cat Category, place string) string {
	pool := beatPools[cat]
	text := pool[rng.Intn(len(pool))]
	if place == "" {
		place = "the borderlands"
	}
	return strings.ReplaceAll(text, "{place}", place)
}
