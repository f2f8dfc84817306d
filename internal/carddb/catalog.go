package carddb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Provider is the read-only card data source the engine and deck loader consume.
type Provider interface {
	Lookup(oracleID string) (*Card, bool)
	FindByName(name string) (*Card, bool)
}

// Catalog is an immutable in-memory Provider.
type Catalog struct {
	byID   map[string]*Card
	byName map[string]*Card
}

// NewCatalog builds a catalog from records. Later duplicates of an oracle id are ignored.
func NewCatalog(cards []Card) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[string]*Card, len(cards)),
		byName: make(map[string]*Card, len(cards)),
	}
	for i := range cards {
		card := cards[i]
		if card.OracleID == "" {
			return nil, fmt.Errorf("card %q has no oracle id", card.Name)
		}
		if _, exists := c.byID[card.OracleID]; exists {
			continue
		}
		c.byID[card.OracleID] = &card
		key := strings.ToLower(card.Name)
		if _, exists := c.byName[key]; !exists {
			c.byName[key] = &card
		}
	}
	return c, nil
}

// Lookup finds a card by oracle id.
func (c *Catalog) Lookup(oracleID string) (*Card, bool) {
	card, ok := c.byID[oracleID]
	return card, ok
}

// FindByName finds a card by name, ignoring case.
func (c *Catalog) FindByName(name string) (*Card, bool) {
	card, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return card, ok
}

// Len returns the number of distinct cards.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// Cards returns every card sorted by oracle id.
func (c *Catalog) Cards() []*Card {
	out := make([]*Card, 0, len(c.byID))
	for _, card := range c.byID {
		out = append(out, card)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OracleID < out[j].OracleID })
	return out
}

// ReadJSON decodes a card database object keyed by oracle id.
func ReadJSON(r io.Reader) (*Catalog, error) {
	var raw map[string]Card
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode card db: %w", err)
	}
	cards := make([]Card, 0, len(raw))
	for id, card := range raw {
		if card.OracleID == "" {
			card.OracleID = id
		}
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].OracleID < cards[j].OracleID })
	return NewCatalog(cards)
}

// LoadJSON reads a card database file.
func LoadJSON(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open card db: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}
