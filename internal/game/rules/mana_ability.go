package rules

import (
	"regexp"
	"strings"
)

// ManaAbility is a parsed "{T}: Add {X}" ability.
type ManaAbility struct {
	Symbol string // single color symbol, W/U/B/R/G/C
	Text   string
}

var manaAbilityPattern = regexp.MustCompile(`(?i)\{T\}:\s*Add\s*\{([WUBRGC])\}`)

// ParseManaAbility finds a simple tap-for-one-mana ability in oracle text.
// Choices ("{G} or {W}") and multi-mana abilities use the first symbol only.
func ParseManaAbility(oracleText string) (ManaAbility, bool) {
	m := manaAbilityPattern.FindStringSubmatch(oracleText)
	if m == nil {
		return ManaAbility{}, false
	}
	return ManaAbility{Symbol: strings.ToUpper(m[1]), Text: m[0]}, true
}
