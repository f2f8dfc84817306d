package carddb

func stat(n int) *int { return &n }

var builtinCards = []Card{
	{OracleID: "builtin-plains", Name: "Plains", TypeLine: "Basic Land — Plains", ColorIdentity: []string{"W"}},
	{OracleID: "builtin-island", Name: "Island", TypeLine: "Basic Land — Island", ColorIdentity: []string{"U"}},
	{OracleID: "builtin-swamp", Name: "Swamp", TypeLine: "Basic Land — Swamp", ColorIdentity: []string{"B"}},
	{OracleID: "builtin-mountain", Name: "Mountain", TypeLine: "Basic Land — Mountain", ColorIdentity: []string{"R"}},
	{OracleID: "builtin-forest", Name: "Forest", TypeLine: "Basic Land — Forest", ColorIdentity: []string{"G"}},
	{
		OracleID: "builtin-grizzly-bears", Name: "Grizzly Bears", ManaCost: "{1}{G}", CMC: 2,
		TypeLine: "Creature — Bear", Power: stat(2), Toughness: stat(2),
		Colors: []string{"G"}, ColorIdentity: []string{"G"},
	},
	{
		OracleID: "builtin-llanowar-elves", Name: "Llanowar Elves", ManaCost: "{G}", CMC: 1,
		TypeLine: "Creature — Elf Druid", OracleText: "{T}: Add {G}.", Power: stat(1), Toughness: stat(1),
		Colors: []string{"G"}, ColorIdentity: []string{"G"},
	},
	{
		OracleID: "builtin-giant-growth", Name: "Giant Growth", ManaCost: "{G}", CMC: 1,
		TypeLine: "Instant", OracleText: "Target creature gets +3/+3 until end of turn.",
		Colors: []string{"G"}, ColorIdentity: []string{"G"},
	},
	{
		OracleID: "builtin-giant-spider", Name: "Giant Spider", ManaCost: "{3}{G}", CMC: 4,
		TypeLine: "Creature — Spider", OracleText: "Reach", Power: stat(2), Toughness: stat(4),
		Colors: []string{"G"}, ColorIdentity: []string{"G"}, Keywords: []string{KeywordReach},
	},
	{
		OracleID: "builtin-craw-wurm", Name: "Craw Wurm", ManaCost: "{4}{G}{G}", CMC: 6,
		TypeLine: "Creature — Wurm", Power: stat(6), Toughness: stat(4),
		Colors: []string{"G"}, ColorIdentity: []string{"G"},
	},
	{
		OracleID: "builtin-serra-angel", Name: "Serra Angel", ManaCost: "{3}{W}{W}", CMC: 5,
		TypeLine: "Creature — Angel", OracleText: "Flying, vigilance", Power: stat(4), Toughness: stat(4),
		Colors: []string{"W"}, ColorIdentity: []string{"W"}, Keywords: []string{KeywordFlying, KeywordVigilance},
	},
	{
		OracleID: "builtin-white-knight", Name: "White Knight", ManaCost: "{W}{W}", CMC: 2,
		TypeLine: "Creature — Human Knight", OracleText: "First strike", Power: stat(2), Toughness: stat(2),
		Colors: []string{"W"}, ColorIdentity: []string{"W"}, Keywords: []string{KeywordFirstStrike},
	},
	{
		OracleID: "builtin-vampire-nighthawk", Name: "Vampire Nighthawk", ManaCost: "{1}{B}{B}", CMC: 3,
		TypeLine: "Creature — Vampire Shaman", OracleText: "Flying, deathtouch, lifelink",
		Power: stat(2), Toughness: stat(3), Colors: []string{"B"}, ColorIdentity: []string{"B"},
		Keywords: []string{KeywordFlying, KeywordDeathtouch, KeywordLifelink},
	},
	{
		OracleID: "builtin-severed-legion", Name: "Severed Legion", ManaCost: "{1}{B}{B}", CMC: 3,
		TypeLine: "Creature — Zombie", OracleText: "Fear", Power: stat(2), Toughness: stat(2),
		Colors: []string{"B"}, ColorIdentity: []string{"B"}, Keywords: []string{KeywordFear},
	},
	{
		OracleID: "builtin-raging-goblin", Name: "Raging Goblin", ManaCost: "{R}", CMC: 1,
		TypeLine: "Creature — Goblin Berserker", OracleText: "Haste", Power: stat(1), Toughness: stat(1),
		Colors: []string{"R"}, ColorIdentity: []string{"R"}, Keywords: []string{KeywordHaste},
	},
	{
		OracleID: "builtin-colossal-dreadmaw", Name: "Colossal Dreadmaw", ManaCost: "{4}{G}{G}", CMC: 6,
		TypeLine: "Creature — Dinosaur", OracleText: "Trample", Power: stat(6), Toughness: stat(6),
		Colors: []string{"G"}, ColorIdentity: []string{"G"}, Keywords: []string{KeywordTrample},
	},
	{
		OracleID: "builtin-ornithopter", Name: "Ornithopter", ManaCost: "{0}", CMC: 0,
		TypeLine: "Artifact Creature — Thopter", OracleText: "Flying", Power: stat(0), Toughness: stat(2),
		Keywords: []string{KeywordFlying},
	},
}

// Builtin returns a small catalog of basic lands and keyword creatures.
func Builtin() *Catalog {
	c, err := NewCatalog(builtinCards)
	if err != nil {
		panic(err)
	}
	return c
}
