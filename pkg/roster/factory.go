package roster

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"fmt"
)

// SpawnOptions - переопределения шаблона из сценария
type SpawnOptions struct {
	Name    string
	Faction string
	Pos     *domain.Position
	Human   bool // персонажем управляет человек
}

// Spawner собирает участников из шаблонов. Индексы ID выдаются по порядку
// спавна, поэтому один и тот же сценарий всегда дает одни и те же ID.
type Spawner struct {
	bestiary *Bestiary
	spells   *SpellTable
	region   uint8
	next     uint32
}

func NewSpawner(bestiary *Bestiary, spells *SpellTable, region uint8) *Spawner {
	return &Spawner{bestiary: bestiary, spells: spells, region: region}
}

// Spawn создает сущность из шаблона key
func (s *Spawner) Spawn(key string, opts SpawnOptions) (*domain.Entity, error) {
	t := s.bestiary.Get(key)
	if t == nil {
		return nil, fmt.Errorf("spawn %q: unknown template", key)
	}
	if opts.Human && t.Kind != enums.EntityKindPlayer {
		return nil, fmt.Errorf("spawn %q: only players can be human-controlled", key)
	}
	id := domain.NewEntityID(s.region, t.Kind, s.next+1)
	e, err := t.Build(id, s.spells, opts.Pos)
	if err != nil {
		return nil, err
	}
	s.next++
	if opts.Name != "" {
		e.Name = opts.Name
	}
	if opts.Faction != "" {
		e.Faction = domain.Faction(opts.Faction)
	}
	if opts.Human {
		e.Character.Controller = enums.ControllerHuman
	}
	return e, nil
}

// Build создает сущность из шаблона с заданным ID
func (t *Template) Build(id domain.EntityID, spells *SpellTable, pos *domain.Position) (*domain.Entity, error) {
	entity := &domain.Entity{
		ID:      id,
		Kind:    t.Kind,
		Name:    t.Name,
		Faction: domain.Faction(t.Faction),
	}
	if pos != nil {
		p := *pos
		entity.Pos = &p
	}
	if t.Description != "" {
		entity.Narrative = &domain.NarrativeComponent{Description: t.Description}
	}

	// Живучесть: у ловушек только если они разрушаемы
	if t.HP > 0 && (t.Kind != enums.EntityKindTrap || t.Destructible) {
		entity.Stats = &domain.StatsComponent{
			HP:          t.HP,
			MaxHP:       t.HP,
			Resource:    t.Resource,
			MaxResource: t.Resource,
		}
	}

	if t.Kind != enums.EntityKindTrap {
		entity.Combat = &domain.CombatComponent{
			Attack:     t.Attack,
			Defense:    t.Defense,
			Initiative: t.Initiative,
			Save:       t.Save,
		}
	}

	switch t.Kind {
	case enums.EntityKindPlayer:
		book, err := resolveSpells(t, spells)
		if err != nil {
			return nil, err
		}
		entity.Character = &domain.CharacterComponent{
			XP:         t.XP,
			Level:      t.Level,
			Spells:     book,
			Controller: t.Controller,
		}

	case enums.EntityKindNPC:
		entity.NPC = &domain.NPCComponent{Dialogue: t.Dialogue, Behavior: t.Behavior}

	case enums.EntityKindEnemy, enums.EntityKindNamedEnemy:
		entity.AI = &domain.AIComponent{Policy: t.Policy, FleeBelow: t.FleeBelow}
		if len(t.Spells) > 0 {
			// Кастеры среди врагов тоже держат книгу
			book, err := resolveSpells(t, spells)
			if err != nil {
				return nil, err
			}
			entity.Character = &domain.CharacterComponent{Spells: book, Controller: enums.ControllerScripted}
		}
		if t.Kind == enums.EntityKindNamedEnemy {
			entity.Named = &domain.NamedComponent{
				Title:        t.Title,
				Backstory:    t.Backstory,
				AttackBonus:  t.AttackBonus,
				DefenseBonus: t.DefenseBonus,
				Loot:         append([]string(nil), t.Loot...),
			}
		}

	case enums.EntityKindTrap:
		if t.Effect.IsZero() {
			return nil, fmt.Errorf("trap %q: effect is required", t.Key)
		}
		trap := &domain.TrapComponent{
			Radius:       t.Radius,
			Effect:       t.Effect,
			Armed:        true,
			ResetAfter:   t.ResetAfter,
			SaveDC:       t.SaveDC,
			Destructible: t.Destructible,
			Hostile:      t.Hostile,
		}
		if pos != nil {
			trap.Trigger = *pos
		}
		entity.Trap = trap
		if entity.Faction == "" {
			entity.Faction = domain.FactionHazard
		}
	}

	return entity, nil
}

func resolveSpells(t *Template, spells *SpellTable) ([]*domain.Spell, error) {
	if len(t.Spells) == 0 {
		return nil, nil
	}
	if spells == nil {
		return nil, fmt.Errorf("template %q: spell table not loaded", t.Key)
	}
	book := make([]*domain.Spell, 0, len(t.Spells))
	for _, name := range t.Spells {
		s := spells.Get(name)
		if s == nil {
			return nil, fmt.Errorf("template %q: unknown spell %q", t.Key, name)
		}
		book = append(book, s)
	}
	return book, nil
}
