package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/dice"
	"fmt"
)

// spellReach - дальность 0 означает касание: себя или соседний тайл
func spellReach(s *domain.Spell) int {
	if s.Range < 1 {
		return 1
	}
	return s.Range
}

// SpellTargets возвращает итоговый список целей заклинания.
// SELF всегда бьет по кастеру, даже если цели не переданы.
func SpellTargets(caster *domain.Entity, spell *domain.Spell, targets []*domain.Entity) []*domain.Entity {
	if spell.Target == enums.SpellTargetSelf {
		return []*domain.Entity{caster}
	}
	return targets
}

// ValidateCast проверяет заклинание против ресурса кастера, правила выбора
// целей и мира. Ничего не меняет.
func ValidateCast(caster *domain.Entity, spell *domain.Spell, targets []*domain.Entity, w *domain.World) error {
	if spell == nil {
		return fmt.Errorf("no spell: %w", domain.ErrInvalidAction)
	}
	if !caster.HasResource(spell.Cost) {
		return fmt.Errorf("%s needs %d resource for %s: %w", caster.Name, spell.Cost, spell.Name, domain.ErrInsufficientResource)
	}

	switch spell.Target {
	case enums.SpellTargetSelf:
		if len(targets) > 1 || (len(targets) == 1 && targets[0] != caster) {
			return fmt.Errorf("%s can only target the caster: %w", spell.Name, domain.ErrInvalidTarget)
		}
		return nil

	case enums.SpellTargetSingle:
		if len(targets) != 1 {
			return fmt.Errorf("%s needs exactly one target, got %d: %w", spell.Name, len(targets), domain.ErrInvalidTarget)
		}
		return validateSpellTarget(caster, spell, targets[0], w)

	case enums.SpellTargetArea:
		if len(targets) == 0 {
			return fmt.Errorf("%s needs at least one target: %w", spell.Name, domain.ErrInvalidTarget)
		}
		// Первая цель - центр области, остальные в радиусе от нее
		center := targets[0]
		if err := validateSpellTarget(caster, spell, center, w); err != nil {
			return err
		}
		for _, t := range targets[1:] {
			if err := checkSpellVictim(t); err != nil {
				return err
			}
			if spatial(w, center, t) && w.Distance(*center.Pos, *t.Pos) > spell.Radius {
				return fmt.Errorf("%s outside %s radius: %w", t.Name, spell.Name, domain.ErrInvalidTarget)
			}
		}
		return nil
	}

	return fmt.Errorf("spell %s: unknown targeting: %w", spell.Name, domain.ErrInvalidTarget)
}

func validateSpellTarget(caster *domain.Entity, spell *domain.Spell, target *domain.Entity, w *domain.World) error {
	if err := checkSpellVictim(target); err != nil {
		return err
	}
	if target == caster {
		return nil
	}
	return ValidateInteraction(caster, target, spellReach(spell), true, w)
}

// checkSpellVictim - заклинания действуют только на сущности с живучестью
func checkSpellVictim(t *domain.Entity) error {
	if t == nil || !t.HasVitality() {
		return fmt.Errorf("target has no vitality: %w", domain.ErrInvalidTarget)
	}
	if !t.IsAlive() {
		return fmt.Errorf("%s is dead: %w", t.Name, domain.ErrInvalidTarget)
	}
	return nil
}

// RollSpellEffect вычисляет эффект заклинания. Кубы бросаются один раз на каст.
func RollSpellEffect(spell *domain.Spell, roller *dice.Roller) (domain.Effect, error) {
	eff := spell.BaseEffect()
	if spell.Dice != "" && roller != nil {
		res, err := roller.Roll(spell.Dice)
		if err != nil {
			return domain.Effect{}, fmt.Errorf("roll %s for %s: %w", spell.Dice, spell.Name, err)
		}
		eff.Magnitude = res.Total
	}
	if eff.Magnitude < 0 {
		eff.Magnitude = 0
	}
	return eff, nil
}

// Cast проверяет заклинание, бросает кубы и списывает ресурс.
// Возвращенный эффект вызывающий обязан применить сразу: после успешной
// проверки применение не может упасть, поэтому списание и эффект атомарны.
// При любой ошибке состояние кастера не меняется.
func Cast(caster *domain.Entity, spell *domain.Spell, targets []*domain.Entity, w *domain.World, roller *dice.Roller) (domain.Effect, error) {
	if err := ValidateCast(caster, spell, targets, w); err != nil {
		return domain.Effect{}, err
	}
	eff, err := RollSpellEffect(spell, roller)
	if err != nil {
		return domain.Effect{}, err
	}
	if !caster.SpendResource(spell.Cost) {
		return domain.Effect{}, fmt.Errorf("%s: %w", spell.Name, domain.ErrInsufficientResource)
	}
	return eff, nil
}
