package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/dice"
	"cognitive-encounter/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Rules - настраиваемые правила боя
type Rules struct {
	// MeleeRange - дальность BasicAttack в тайлах
	MeleeRange int
	// DestructibleTraps - можно ли атаковать ловушки с живучестью
	DestructibleTraps bool
}

func DefaultRules() Rules {
	return Rules{MeleeRange: domain.DefaultMeleeRange, DestructibleTraps: true}
}

// CombatSystem применяет действия к состоянию сущностей. Один экземпляр на
// энкаунтер: вызовы сериализует TurnSystem.
type CombatSystem struct {
	rules  Rules
	roller *dice.Roller
	round  int
}

func NewCombatSystem(rules Rules, roller *dice.Roller) *CombatSystem {
	if rules.MeleeRange < 1 {
		rules.MeleeRange = domain.DefaultMeleeRange
	}
	return &CombatSystem{rules: rules, roller: roller}
}

// SetRound - текущий раунд (для записи в исход и перезарядки ловушек)
func (c *CombatSystem) SetRound(round int) {
	c.round = round
}

func (c *CombatSystem) Round() int {
	return c.round
}

func (c *CombatSystem) Rules() Rules {
	return c.rules
}

// ResolveAction проверяет и применяет действие actor против targets.
// Любая ошибка проверки возвращается до первой мутации.
func (c *CombatSystem) ResolveAction(actor *domain.Entity, action domain.Action, targets []*domain.Entity, w *domain.World) (domain.CombatOutcome, error) {
	if actor == nil {
		return domain.CombatOutcome{}, fmt.Errorf("no actor: %w", domain.ErrInvalidAction)
	}

	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":  "combat_system",
		"actor_id":   actor.ID,
		"actor_name": actor.Name,
		"action":     action.Type,
		"round":      c.round,
	})

	// --- 1. Проверка ---

	if err := checkActor(actor); err != nil {
		combatLogger.WithError(err).Info("Action rejected.")
		return domain.CombatOutcome{}, err
	}
	if err := checkDistinct(targets); err != nil {
		combatLogger.WithError(err).Info("Action rejected.")
		return domain.CombatOutcome{}, err
	}

	outcome := domain.CombatOutcome{
		Round:   c.round,
		ActorID: actor.ID,
		Action:  action.Type,
	}

	var (
		effects []domain.Effect
		saves   []*domain.SaveResult
		err     error
	)
	switch action.Type {
	case domain.ActionAttack:
		effects, err = c.prepareAttack(actor, targets, w)
	case domain.ActionCast:
		effects, targets, err = c.prepareCast(actor, action.Spell, targets, w)
		if err == nil {
			outcome.Spell = action.Spell.Name
			outcome.ResourceSpent = action.Spell.Cost
		}
	case domain.ActionTrigger:
		effects, saves, err = c.prepareTrigger(actor, targets, w)
	default:
		err = fmt.Errorf("%s cannot be resolved by combat: %w", action.Type, domain.ErrInvalidAction)
	}
	if err != nil {
		combatLogger.WithError(err).Info("Action rejected.")
		return domain.CombatOutcome{}, err
	}

	// --- 2. Применение в порядке объявления целей ---

	for i, target := range targets {
		res := applyEffect(actor.ID, target, effects[i])
		if saves != nil {
			res.Save = saves[i]
		}
		outcome.Targets = append(outcome.Targets, res)

		combatLogger.WithFields(logrus.Fields{
			"target_id":   target.ID,
			"target_name": target.Name,
			"effect":      res.Effect,
			"delta":       res.Delta,
			"hp_before":   res.HealthBefore,
			"hp_after":    res.HealthAfter,
			"target_died": res.Died,
		}).Info("Effect applied.")
	}

	if action.Type == domain.ActionTrigger {
		actor.Trap.Disarm(c.round)
	}

	return outcome, nil
}

func checkActor(actor *domain.Entity) error {
	if !actor.IsAlive() {
		return fmt.Errorf("%s is dead: %w", actor.Name, domain.ErrActorIncapacitated)
	}
	if actor.HasStatus(enums.StatusStunned) {
		return fmt.Errorf("%s is stunned: %w", actor.Name, domain.ErrActorIncapacitated)
	}
	return nil
}

func checkDistinct(targets []*domain.Entity) error {
	seen := make(map[domain.EntityID]struct{}, len(targets))
	for _, t := range targets {
		if t == nil {
			return fmt.Errorf("nil target: %w", domain.ErrInvalidTarget)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%s listed twice: %w", t.Name, domain.ErrInvalidTarget)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// prepareAttack - BasicAttack: одна живая цель в радиусе ближнего боя,
// урон max(0, атака - защита) по снапшоту на момент начала разрешения.
func (c *CombatSystem) prepareAttack(actor *domain.Entity, targets []*domain.Entity, w *domain.World) ([]domain.Effect, error) {
	if actor.Kind == enums.EntityKindTrap {
		return nil, fmt.Errorf("traps do not attack: %w", domain.ErrInvalidAction)
	}
	if len(targets) != 1 {
		return nil, fmt.Errorf("attack needs exactly one target, got %d: %w", len(targets), domain.ErrInvalidTarget)
	}
	target := targets[0]
	if target.ID == actor.ID {
		return nil, fmt.Errorf("%s cannot attack itself: %w", actor.Name, domain.ErrInvalidTarget)
	}
	if !target.HasVitality() {
		return nil, fmt.Errorf("%s cannot be damaged: %w", target.Name, domain.ErrInvalidTarget)
	}
	if target.Kind == enums.EntityKindTrap && !c.rules.DestructibleTraps {
		return nil, fmt.Errorf("traps are indestructible: %w", domain.ErrInvalidTarget)
	}
	if err := ValidateInteraction(actor, target, c.rules.MeleeRange, false, w); err != nil {
		return nil, err
	}

	damage := actor.AttackPower() - target.DefenseValue()
	if damage < 0 {
		damage = 0
	}
	return []domain.Effect{{Kind: enums.EffectDamage, Magnitude: damage}}, nil
}

// prepareCast возвращает эффекты и итоговый список целей (SELF заменяет цели кастером).
func (c *CombatSystem) prepareCast(actor *domain.Entity, spell *domain.Spell, targets []*domain.Entity, w *domain.World) ([]domain.Effect, []*domain.Entity, error) {
	if actor.Kind == enums.EntityKindTrap {
		return nil, nil, fmt.Errorf("traps do not cast: %w", domain.ErrInvalidAction)
	}
	if spell == nil || actor.FindSpell(spell.Name) != spell {
		return nil, nil, fmt.Errorf("spell not in %s's book: %w", actor.Name, domain.ErrInvalidAction)
	}

	eff, err := Cast(actor, spell, targets, w, c.roller)
	if err != nil {
		return nil, nil, err
	}

	targets = SpellTargets(actor, spell, targets)
	effects := make([]domain.Effect, len(targets))
	for i, t := range targets {
		e := eff
		if e.Physical && e.Kind == enums.EffectDamage {
			e.Magnitude -= t.DefenseValue()
			if e.Magnitude < 0 {
				e.Magnitude = 0
			}
		}
		effects[i] = e
	}
	return effects, targets, nil
}

// prepareTrigger - фиксированный эффект ловушки, защита игнорируется.
// При SaveDC > 0 каждая жертва бросает спасбросок уже после всех проверок.
func (c *CombatSystem) prepareTrigger(actor *domain.Entity, targets []*domain.Entity, w *domain.World) ([]domain.Effect, []*domain.SaveResult, error) {
	if actor.Kind != enums.EntityKindTrap || actor.Trap == nil {
		return nil, nil, fmt.Errorf("%s is not a trap: %w", actor.Name, domain.ErrInvalidAction)
	}
	if !actor.Trap.Armed {
		return nil, nil, fmt.Errorf("%s is not armed: %w", actor.Name, domain.ErrInvalidAction)
	}
	if len(targets) == 0 {
		return nil, nil, fmt.Errorf("trap needs a victim: %w", domain.ErrInvalidTarget)
	}
	for _, t := range targets {
		if !t.HasVitality() || !actor.CanTrigger(t) {
			return nil, nil, fmt.Errorf("%s cannot be hit by %s: %w", t.Name, actor.Name, domain.ErrInvalidTarget)
		}
		if w != nil && t.Pos != nil && !actor.TriggerCondition(t, *t.Pos, w) {
			return nil, nil, fmt.Errorf("%s is outside %s: %w", t.Name, actor.Name, domain.ErrInvalidTarget)
		}
	}

	effects := make([]domain.Effect, len(targets))
	var saves []*domain.SaveResult
	if actor.Trap.SaveDC > 0 && c.roller != nil {
		saves = make([]*domain.SaveResult, len(targets))
	}
	for i, t := range targets {
		eff := actor.TriggerEffect()
		if saves != nil {
			check := c.roller.Check(dice.SkillCheck{Modifier: t.SaveModifier(), Difficulty: actor.Trap.SaveDC})
			saves[i] = &domain.SaveResult{Roll: check.Roll, Total: check.Total, DC: actor.Trap.SaveDC, Success: check.Success}
			if check.Success {
				eff = savedEffect(eff)
			}
		}
		effects[i] = eff
	}
	return effects, saves, nil
}

// savedEffect - эффект после успешного спасброска
func savedEffect(eff domain.Effect) domain.Effect {
	switch eff.Kind {
	case enums.EffectStatus:
		eff.Status = enums.StatusNone
	default:
		eff.Magnitude /= 2
	}
	return eff
}

// applyEffect применяет уже вычисленный эффект к одной цели
func applyEffect(source domain.EntityID, target *domain.Entity, eff domain.Effect) domain.TargetOutcome {
	res := domain.TargetOutcome{
		TargetID:     target.ID,
		Name:         target.Name,
		Effect:       eff.Kind,
		HealthBefore: target.Health(),
	}

	switch eff.Kind {
	case enums.EffectDamage:
		res.Delta = res.HealthBefore - target.ApplyDamage(eff.Magnitude)
	case enums.EffectHeal:
		res.Delta = target.ApplyHealing(eff.Magnitude) - res.HealthBefore
	case enums.EffectStatus:
		if target.IsAlive() && eff.Status != enums.StatusNone {
			duration := eff.Duration
			if duration < 1 {
				duration = 1
			}
			target.AddStatus(domain.Status{
				Kind:      eff.Status,
				Magnitude: eff.Magnitude,
				Remaining: duration,
				Source:    source,
			})
			res.StatusApplied = eff.Status
		}
	}

	res.HealthAfter = target.Health()
	res.Died = res.HealthBefore > 0 && target.HasVitality() && !target.IsAlive()
	return res
}
