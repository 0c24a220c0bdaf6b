package roster

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Template описывает шаблон для создания участника
type Template struct {
	Key         string
	Name        string
	Kind        enums.EntityKind
	Faction     string
	Description string

	HP         int
	Resource   int
	Attack     int
	Defense    int
	Initiative int
	Save       int
	Spells     []string
	Controller enums.Controller
	XP         int
	Level      int

	// NPC
	Dialogue string
	Behavior enums.Behavior

	// Enemy / NamedEnemy
	Policy       enums.AIPolicy
	FleeBelow    int
	Title        string
	Backstory    string
	AttackBonus  int
	DefenseBonus int
	Loot         []string

	// Trap
	Effect       domain.Effect
	Radius       int
	ResetAfter   int
	SaveDC       int
	Destructible bool
	Hostile      bool
}

// Bestiary - все шаблоны по ключу
type Bestiary struct {
	templates map[string]*Template
}

// Get returns a template by key, or nil if not found.
func (b *Bestiary) Get(key string) *Template {
	return b.templates[key]
}

func (b *Bestiary) Count() int {
	return len(b.templates)
}

// Keys - ключи в алфавитном порядке
func (b *Bestiary) Keys() []string {
	keys := make([]string, 0, len(b.templates))
	for k := range b.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- YAML loading ---

type effectEntry struct {
	Kind      string `yaml:"kind"`
	Magnitude int    `yaml:"magnitude"`
	Status    string `yaml:"status"`
	Duration  int    `yaml:"duration"`
	Physical  bool   `yaml:"physical"`
}

func (e effectEntry) toDomain() domain.Effect {
	return domain.Effect{
		Kind:      enums.ParseEffectKind(e.Kind),
		Magnitude: e.Magnitude,
		Status:    enums.ParseStatusKind(e.Status),
		Duration:  e.Duration,
		Physical:  e.Physical,
	}
}

type creatureEntry struct {
	Key          string      `yaml:"key"`
	Name         string      `yaml:"name"`
	Kind         string      `yaml:"kind"`
	Faction      string      `yaml:"faction"`
	Description  string      `yaml:"description"`
	HP           int         `yaml:"hp"`
	Resource     int         `yaml:"resource"`
	Attack       int         `yaml:"attack"`
	Defense      int         `yaml:"defense"`
	Initiative   int         `yaml:"initiative"`
	Save         int         `yaml:"save"`
	Spells       []string    `yaml:"spells"`
	Controller   string      `yaml:"controller"`
	XP           int         `yaml:"xp"`
	Level        int         `yaml:"level"`
	Dialogue     string      `yaml:"dialogue"`
	Behavior     string      `yaml:"behavior"`
	Policy       string      `yaml:"policy"`
	FleeBelow    int         `yaml:"flee_below"`
	Title        string      `yaml:"title"`
	Backstory    string      `yaml:"backstory"`
	AttackBonus  int         `yaml:"attack_bonus"`
	DefenseBonus int         `yaml:"defense_bonus"`
	Loot         []string    `yaml:"loot"`
	Effect       effectEntry `yaml:"effect"`
	Radius       int         `yaml:"radius"`
	ResetAfter   int         `yaml:"reset_after"`
	SaveDC       int         `yaml:"save_dc"`
	Destructible bool        `yaml:"destructible"`
	Hostile      bool        `yaml:"hostile"`
}

type bestiaryFile struct {
	Creatures []creatureEntry `yaml:"creatures"`
}

// LoadBestiary loads creature templates from YAML.
func LoadBestiary(path string) (*Bestiary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bestiary: %w", err)
	}
	return ParseBestiary(raw)
}

// ParseBestiary builds the bestiary from raw YAML.
func ParseBestiary(raw []byte) (*Bestiary, error) {
	var f bestiaryFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse bestiary: %w", err)
	}
	b := &Bestiary{templates: make(map[string]*Template, len(f.Creatures))}
	for i := range f.Creatures {
		e := &f.Creatures[i]
		if e.Key == "" {
			return nil, fmt.Errorf("creature #%d: key is required", i)
		}
		kind := enums.ParseEntityKind(e.Kind)
		if kind == enums.EntityKindUnknown {
			return nil, fmt.Errorf("creature %q: unknown kind %q", e.Key, e.Kind)
		}
		if _, dup := b.templates[e.Key]; dup {
			return nil, fmt.Errorf("duplicate creature %q", e.Key)
		}
		name := e.Name
		if name == "" {
			name = e.Key
		}
		b.templates[e.Key] = &Template{
			Key:          e.Key,
			Name:         name,
			Kind:         kind,
			Faction:      e.Faction,
			Description:  e.Description,
			HP:           e.HP,
			Resource:     e.Resource,
			Attack:       e.Attack,
			Defense:      e.Defense,
			Initiative:   e.Initiative,
			Save:         e.Save,
			Spells:       e.Spells,
			Controller:   enums.ParseController(e.Controller),
			XP:           e.XP,
			Level:        e.Level,
			Dialogue:     e.Dialogue,
			Behavior:     enums.ParseBehavior(e.Behavior),
			Policy:       enums.ParseAIPolicy(e.Policy),
			FleeBelow:    e.FleeBelow,
			Title:        e.Title,
			Backstory:    e.Backstory,
			AttackBonus:  e.AttackBonus,
			DefenseBonus: e.DefenseBonus,
			Loot:         e.Loot,
			Effect:       e.Effect.toDomain(),
			Radius:       e.Radius,
			ResetAfter:   e.ResetAfter,
			SaveDC:       e.SaveDC,
			Destructible: e.Destructible,
			Hostile:      e.Hostile,
		}
	}
	return b, nil
}
