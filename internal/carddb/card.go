// Package carddb holds the static card data the engine reads.
package carddb

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Card is an immutable static card record keyed by oracle id.
type Card struct {
	OracleID      string            `json:"oracle_id"`
	Name          string            `json:"name"`
	ManaCost      string            `json:"mana_cost"`
	CMC           float64           `json:"cmc"`
	TypeLine      string            `json:"type_line"`
	OracleText    string            `json:"oracle_text"`
	Power         *int              `json:"-"`
	Toughness     *int              `json:"-"`
	Colors        []string          `json:"colors"`
	ColorIdentity []string          `json:"color_identity"`
	Keywords      []string          `json:"keywords"`
	Legalities    map[string]string `json:"legalities"`
}

// cardJSON mirrors the importer output where power and toughness are strings.
type cardJSON struct {
	OracleID      string            `json:"oracle_id"`
	Name          string            `json:"name"`
	ManaCost      string            `json:"mana_cost"`
	CMC           float64           `json:"cmc"`
	TypeLine      string            `json:"type_line"`
	OracleText    string            `json:"oracle_text"`
	Power         *string           `json:"power"`
	Toughness     *string           `json:"toughness"`
	Colors        []string          `json:"colors"`
	ColorIdentity []string          `json:"color_identity"`
	Keywords      []string          `json:"keywords"`
	Legalities    map[string]string `json:"legalities"`
}

// UnmarshalJSON decodes a card, parsing power and toughness strings.
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Card{
		OracleID:      raw.OracleID,
		Name:          raw.Name,
		ManaCost:      raw.ManaCost,
		CMC:           raw.CMC,
		TypeLine:      raw.TypeLine,
		OracleText:    raw.OracleText,
		Power:         ParseStat(deref(raw.Power)),
		Toughness:     ParseStat(deref(raw.Toughness)),
		Colors:        raw.Colors,
		ColorIdentity: raw.ColorIdentity,
		Keywords:      raw.Keywords,
		Legalities:    raw.Legalities,
	}
	return nil
}

// MarshalJSON encodes a card in the importer's string shape.
func (c Card) MarshalJSON() ([]byte, error) {
	raw := cardJSON{
		OracleID:      c.OracleID,
		Name:          c.Name,
		ManaCost:      c.ManaCost,
		CMC:           c.CMC,
		TypeLine:      c.TypeLine,
		OracleText:    c.OracleText,
		Power:         FormatStat(c.Power),
		Toughness:     FormatStat(c.Toughness),
		Colors:        c.Colors,
		ColorIdentity: c.ColorIdentity,
		Keywords:      c.Keywords,
		Legalities:    c.Legalities,
	}
	return json.Marshal(raw)
}

// ParseStat parses a printed power or toughness. Values like "*" or "1+*" yield nil.
func ParseStat(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// FormatStat is the inverse of ParseStat.
func FormatStat(v *int) *string {
	if v == nil {
		return nil
	}
	s := strconv.Itoa(*v)
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (c *Card) hasType(typeName string) bool {
	return strings.Contains(strings.ToLower(c.TypeLine), typeName)
}

// IsLand reports whether the type line includes Land.
func (c *Card) IsLand() bool { return c.hasType("land") }

// IsCreature reports whether the type line includes Creature.
func (c *Card) IsCreature() bool { return c.hasType("creature") }

// IsInstant reports whether the type line includes Instant.
func (c *Card) IsInstant() bool { return c.hasType("instant") }

// IsSorcery reports whether the type line includes Sorcery.
func (c *Card) IsSorcery() bool { return c.hasType("sorcery") }

// IsArtifact reports whether the type line includes Artifact.
func (c *Card) IsArtifact() bool { return c.hasType("artifact") }

// IsPermanent reports whether the card stays on the battlefield when it resolves.
func (c *Card) IsPermanent() bool {
	return !c.IsInstant() && !c.IsSorcery()
}

// HasKeyword matches keywords case-insensitively.
func (c *Card) HasKeyword(keyword string) bool {
	for _, k := range c.Keywords {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}

// HasColor checks the color set for a single-letter code.
func (c *Card) HasColor(code string) bool {
	for _, col := range c.Colors {
		if strings.EqualFold(col, code) {
			return true
		}
	}
	return false
}

// BasePower returns the printed power, or 0 when absent.
func (c *Card) BasePower() int {
	if c.Power == nil {
		return 0
	}
	return *c.Power
}

// BaseToughness returns the printed toughness, or 0 when absent.
func (c *Card) BaseToughness() int {
	if c.Toughness == nil {
		return 0
	}
	return *c.Toughness
}

// Keyword names the engine models.
const (
	KeywordFirstStrike  = "First Strike"
	KeywordDoubleStrike = "Double Strike"
	KeywordTrample      = "Trample"
	KeywordDeathtouch   = "Deathtouch"
	KeywordLifelink     = "Lifelink"
	KeywordFlying       = "Flying"
	KeywordReach        = "Reach"
	KeywordFear         = "Fear"
	KeywordVigilance    = "Vigilance"
	KeywordHaste        = "Haste"
	KeywordFlash        = "Flash"
)
