package domain

import "cognitive-encounter/internal/core/types/enums"

// IsAlive - у сущности без Stats нет живучести, она "жива", пока существует
func (e *Entity) IsAlive() bool {
	return e.Stats == nil || !e.Stats.IsDead
}

// HasVitality - можно ли вообще нанести урон / вылечить
func (e *Entity) HasVitality() bool {
	return e.Stats != nil
}

// ApplyDamage наносит урон и возвращает итоговое HP.
func (e *Entity) ApplyDamage(amount int) int {
	if e.Stats == nil {
		return 0
	}
	return e.Stats.TakeDamage(amount)
}

// ApplyHealing лечит и возвращает итоговое HP.
func (e *Entity) ApplyHealing(amount int) int {
	if e.Stats == nil {
		return 0
	}
	return e.Stats.Heal(amount)
}

// Health - текущее HP (0 для сущностей без живучести)
func (e *Entity) Health() int {
	if e.Stats == nil {
		return 0
	}
	return e.Stats.HP
}

// AttackPower - сила атаки с учетом варианта и статусов
func (e *Entity) AttackPower() int {
	power := 0
	switch e.Kind {
	case enums.EntityKindTrap:
		if e.Trap != nil {
			return e.Trap.Effect.Magnitude
		}
		return 0
	case enums.EntityKindNamedEnemy:
		if e.Named != nil {
			power += e.Named.AttackBonus
		}
	}
	if e.Combat != nil {
		power += e.Combat.Attack
	}
	power -= e.StatusMagnitude(enums.StatusWeakened)
	if power < 0 {
		power = 0
	}
	return power
}

// DefenseValue - защита с учетом варианта и статусов
func (e *Entity) DefenseValue() int {
	def := 0
	if e.Kind == enums.EntityKindNamedEnemy && e.Named != nil {
		def += e.Named.DefenseBonus
	}
	if e.Combat != nil {
		def += e.Combat.Defense
	}
	def += e.StatusMagnitude(enums.StatusShielded)
	if def < 0 {
		def = 0
	}
	return def
}

// SaveModifier - бонус к спасброску против ловушек
func (e *Entity) SaveModifier() int {
	if e.Combat == nil {
		return 0
	}
	return e.Combat.Save
}

// Initiative - порядок хода
func (e *Entity) Initiative() int {
	if e.Combat == nil {
		return 0
	}
	return e.Combat.Initiative
}

// TakesTurns - держит ли сущность курсор очереди ходов
func (e *Entity) TakesTurns() bool {
	switch e.Kind {
	case enums.EntityKindPlayer, enums.EntityKindEnemy, enums.EntityKindNamedEnemy:
		return true
	case enums.EntityKindNPC:
		return e.NPC != nil && e.NPC.Behavior == enums.BehaviorHostile
	case enums.EntityKindTrap:
		return e.Trap != nil && e.Trap.Hostile
	default:
		return false
	}
}

// CanTrigger - может ли взведенная ловушка задеть actor, без учета места.
// Союзники ловушки ее не активируют.
func (e *Entity) CanTrigger(actor *Entity) bool {
	if e.Kind != enums.EntityKindTrap || e.Trap == nil {
		return false
	}
	if !e.Trap.Armed || !e.IsAlive() {
		return false
	}
	if actor == nil || actor.ID == e.ID || !actor.IsAlive() {
		return false
	}
	return e.Faction == "" || actor.Faction != e.Faction
}

// TriggerCondition - сработает ли ловушка на actor, вошедшего в pos.
// Радиус меряется метрикой мира (гексы на HEX); без мира - по Чебышеву.
func (e *Entity) TriggerCondition(actor *Entity, pos Position, w *World) bool {
	if !e.CanTrigger(actor) {
		return false
	}
	dist := e.Trap.Trigger.ChebyshevTo(pos)
	if w != nil {
		dist = w.Distance(e.Trap.Trigger, pos)
	}
	return dist <= e.Trap.Radius
}

// TriggerEffect - фиксированный эффект ловушки (защита цели игнорируется)
func (e *Entity) TriggerEffect() Effect {
	if e.Trap == nil {
		return Effect{}
	}
	return e.Trap.Effect
}

// Disarm - одноразовая ловушка после срабатывания
func (t *TrapComponent) Disarm(round int) {
	t.Armed = false
	t.Fired = true
	t.FiredRound = round
}

// ReadyToReset - пора ли взвести ловушку снова
func (t *TrapComponent) ReadyToReset(round int) bool {
	return !t.Armed && t.ResetAfter > 0 && round-t.FiredRound >= t.ResetAfter
}

// Rearm взводит ловушку
func (t *TrapComponent) Rearm() {
	t.Armed = true
}

// HasResource проверяет, хватает ли ресурса на cost
func (e *Entity) HasResource(cost int) bool {
	if cost <= 0 {
		return true
	}
	return e.Stats != nil && e.Stats.HasResource(cost)
}

// SpendResource тратит ресурс
func (e *Entity) SpendResource(cost int) bool {
	if cost <= 0 {
		return true
	}
	return e.Stats != nil && e.Stats.SpendResource(cost)
}
