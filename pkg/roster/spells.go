package roster

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/dice"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// SpellTable holds all spells indexed by name. Spells are shared by pointer:
// every spell book that references "Firebolt" points at the same *domain.Spell.
type SpellTable struct {
	spells map[string]*domain.Spell
}

// Get returns a spell by name, or nil if not found.
func (t *SpellTable) Get(name string) *domain.Spell {
	return t.spells[name]
}

// Count returns total loaded spells.
func (t *SpellTable) Count() int {
	return len(t.spells)
}

// All returns all spells sorted by name.
func (t *SpellTable) All() []*domain.Spell {
	result := make([]*domain.Spell, 0, len(t.spells))
	for _, s := range t.spells {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// --- YAML loading ---

type spellEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Level       int    `yaml:"level"`
	Cost        int    `yaml:"cost"`
	Target      string `yaml:"target"` // single, area, self
	Range       int    `yaml:"range"`
	Radius      int    `yaml:"radius"`
	Magnitude   int    `yaml:"magnitude"`
	Dice        string `yaml:"dice"`
	Effect      string `yaml:"effect"` // damage, heal, status
	Status      string `yaml:"status"`
	Duration    int    `yaml:"duration"`
	Physical    bool   `yaml:"physical"`
}

type spellListFile struct {
	Spells []spellEntry `yaml:"spells"`
}

// LoadSpellTable loads spell definitions from YAML.
func LoadSpellTable(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spells: %w", err)
	}
	return ParseSpellTable(raw)
}

// ParseSpellTable builds the table from raw YAML.
func ParseSpellTable(raw []byte) (*SpellTable, error) {
	var f spellListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spells: %w", err)
	}
	t := &SpellTable{spells: make(map[string]*domain.Spell, len(f.Spells))}
	for i := range f.Spells {
		e := &f.Spells[i]
		s := &domain.Spell{
			Name:        e.Name,
			Description: e.Description,
			Level:       e.Level,
			Cost:        e.Cost,
			Target:      enums.ParseSpellTarget(e.Target),
			Range:       e.Range,
			Radius:      e.Radius,
			Magnitude:   e.Magnitude,
			Dice:        e.Dice,
			Effect:      enums.ParseEffectKind(e.Effect),
			Status:      enums.ParseStatusKind(e.Status),
			Duration:    e.Duration,
			Physical:    e.Physical,
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("spell #%d: %w", i, err)
		}
		if s.Dice != "" {
			if err := dice.Validate(s.Dice); err != nil {
				return nil, fmt.Errorf("spell %q: %w", s.Name, err)
			}
		}
		if _, dup := t.spells[s.Name]; dup {
			return nil, fmt.Errorf("duplicate spell %q", s.Name)
		}
		t.spells[s.Name] = s
	}
	return t, nil
}
