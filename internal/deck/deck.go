// Package deck loads YAML deck lists and resolves them against a card provider.
package deck

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Casiics/MagiCore/internal/carddb"
	"gopkg.in/yaml.v3"
)

// Entry is one line of a deck list.
type Entry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// List is a deck list as written on disk.
type List struct {
	Name  string  `yaml:"name"`
	Cards []Entry `yaml:"cards"`
}

// Size returns the total card count.
func (l *List) Size() int {
	n := 0
	for _, e := range l.Cards {
		n += e.Count
	}
	return n
}

// Parse decodes a YAML deck list. Unknown fields are rejected.
func Parse(data []byte) (*List, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var list List
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	for i, e := range list.Cards {
		if e.Name == "" {
			return nil, fmt.Errorf("deck %q: entry %d has no name", list.Name, i)
		}
		if e.Count <= 0 {
			return nil, fmt.Errorf("deck %q: %s has count %d", list.Name, e.Name, e.Count)
		}
	}
	return &list, nil
}

// Load reads and parses a deck file.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal encodes a deck list as YAML.
func Marshal(list *List) ([]byte, error) {
	return yaml.Marshal(list)
}

// Resolve expands the list into an ordered sequence of static card records.
func (l *List) Resolve(provider carddb.Provider) ([]*carddb.Card, error) {
	out := make([]*carddb.Card, 0, l.Size())
	for _, e := range l.Cards {
		card, ok := provider.FindByName(e.Name)
		if !ok {
			return nil, fmt.Errorf("deck %q: unknown card %q", l.Name, e.Name)
		}
		for i := 0; i < e.Count; i++ {
			out = append(out, card)
		}
	}
	return out, nil
}

// Default is the mono-green list the simulator falls back to.
func Default() *List {
	return &List{
		Name: "Mono Green",
		Cards: []Entry{
			{Name: "Forest", Count: 25},
			{Name: "Grizzly Bears", Count: 35},
		},
	}
}
