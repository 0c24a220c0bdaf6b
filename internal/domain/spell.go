package domain

import (
	"cognitive-encounter/internal/core/types/enums"
	"errors"
	"fmt"
)

// Spell - данные заклинания. Неизменяемо после загрузки: книга персонажа
// хранит указатели, каст не копирует заклинание.
type Spell struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Level       int               `json:"level"`
	Cost        int               `json:"cost"`
	Target      enums.SpellTarget `json:"target"`
	Range       int               `json:"range"`  // 0 = касание (соседний тайл или себя)
	Radius      int               `json:"radius"` // для AREA, вокруг первой цели
	Magnitude   int               `json:"magnitude"`
	Dice        string            `json:"dice,omitempty"` // "2d6+1", заменяет Magnitude
	Effect      enums.EffectKind  `json:"effect"`
	Status      enums.StatusKind  `json:"status,omitempty"`
	Duration    int               `json:"duration,omitempty"`
	Physical    bool              `json:"physical,omitempty"`
}

// BaseEffect - эффект без броска кубов
func (s *Spell) BaseEffect() Effect {
	return Effect{
		Kind:      s.Effect,
		Magnitude: s.Magnitude,
		Status:    s.Status,
		Duration:  s.Duration,
		Physical:  s.Physical,
	}
}

// Validate проверяет, что описание заклинания самосогласовано
func (s *Spell) Validate() error {
	if s.Name == "" {
		return errors.New("spell name is required")
	}
	if s.Cost < 0 {
		return fmt.Errorf("spell %q: negative cost", s.Name)
	}
	if s.Range < 0 || s.Radius < 0 {
		return fmt.Errorf("spell %q: negative range or radius", s.Name)
	}
	if s.Effect == enums.EffectNone {
		return fmt.Errorf("spell %q: effect kind is required", s.Name)
	}
	if s.Effect == enums.EffectStatus && s.Status == enums.StatusNone {
		return fmt.Errorf("spell %q: status effect without status kind", s.Name)
	}
	return nil
}
