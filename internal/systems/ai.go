package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/api"
	"cognitive-encounter/pkg/logger"
	"encoding/json"
	"sort"

	"github.com/sirupsen/logrus"
)

// ChooseAction решает, что делать участнику под управлением скрипта.
// Результат - обычная команда, она идет через тот же вход, что и команды людей.
// Решение детерминировано: зависит только от состояния ростера и мира.
func ChooseAction(actor *domain.Entity, roster []*domain.Entity, w *domain.World, rules Rules) domain.Command {
	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component":  "ai_system",
		"actor_id":   actor.ID,
		"actor_name": actor.Name,
	})

	if !actor.IsAlive() || actor.HasStatus(enums.StatusStunned) {
		aiLogger.Debug("Incapacitated. Action: WAIT")
		return waitCommand(actor)
	}

	if actor.Kind == enums.EntityKindTrap {
		return chooseTrapAction(actor, roster, w)
	}

	foes := opponents(actor, roster)
	if w != nil && actor.Pos != nil {
		foes = visibleOnly(foes, ComputeVisibleTiles(w, *actor.Pos, domain.VisionRadius))
	}
	if len(foes) == 0 {
		aiLogger.Debug("No visible opponents. Action: WAIT")
		return waitCommand(actor)
	}
	sortByThreat(actor, foes, w)
	target := foes[0]

	policy := enums.AIPolicyAggressive
	if actor.AI != nil {
		policy = actor.AI.Policy
	}

	switch policy {
	case enums.AIPolicyCowardly:
		if isLowHealth(actor) {
			if to, ok := stepAway(actor, target, w); ok {
				aiLogger.WithField("to", to).Debug("Low health, fleeing. Action: MOVE")
				return moveCommand(actor, to)
			}
		}
	case enums.AIPolicyCaster:
		if cmd, ok := chooseSpell(actor, foes, w); ok {
			aiLogger.Debug("Spell selected. Action: CAST")
			return cmd
		}
	}

	// Если в радиусе атаки (включая диагонали)
	if ValidateInteraction(actor, target, rules.MeleeRange, false, w) == nil {
		aiLogger.WithField("target_id", target.ID).Debug("Target in attack range. Action: ATTACK")
		return attackCommand(actor, domain.ActionAttack, target)
	}

	if !spatial(w, actor, target) {
		return waitCommand(actor)
	}

	if w.Distance(*actor.Pos, *target.Pos) > domain.AggroRadius {
		aiLogger.Debug("Target out of aggro range. Action: WAIT")
		return waitCommand(actor)
	}

	if to, ok := stepToward(actor, target, w); ok {
		aiLogger.WithField("to", to).Debug("Target in pursuit range. Action: MOVE")
		return moveCommand(actor, to)
	}

	aiLogger.Debug("Path is blocked. Action: WAIT")
	return waitCommand(actor)
}

// opponents - живые участники других фракций, у которых есть ход и живучесть
func opponents(actor *domain.Entity, roster []*domain.Entity) []*domain.Entity {
	var out []*domain.Entity
	for _, e := range roster {
		if e.ID == actor.ID || !e.IsAlive() || !e.HasVitality() || !e.TakesTurns() {
			continue
		}
		if e.Faction == actor.Faction || e.Faction == domain.FactionHazard {
			continue
		}
		out = append(out, e)
	}
	return out
}

// visibleOnly - участники без позиции видны всегда
func visibleOnly(foes []*domain.Entity, visible map[domain.Position]bool) []*domain.Entity {
	out := foes[:0]
	for _, f := range foes {
		if f.Pos == nil || visible[*f.Pos] {
			out = append(out, f)
		}
	}
	return out
}

// sortByThreat: ближайшие первыми, затем самые раненые, затем по ID
func sortByThreat(actor *domain.Entity, foes []*domain.Entity, w *domain.World) {
	dist := func(e *domain.Entity) int {
		if !spatial(w, actor, e) {
			return 0
		}
		return w.Distance(*actor.Pos, *e.Pos)
	}
	sort.SliceStable(foes, func(i, j int) bool {
		di, dj := dist(foes[i]), dist(foes[j])
		if di != dj {
			return di < dj
		}
		if foes[i].Health() != foes[j].Health() {
			return foes[i].Health() < foes[j].Health()
		}
		return foes[i].ID < foes[j].ID
	})
}

func isLowHealth(e *domain.Entity) bool {
	if e.Stats == nil || e.AI == nil || e.AI.FleeBelow <= 0 {
		return false
	}
	return e.Stats.HP*100 < e.AI.FleeBelow*e.Stats.MaxHP
}

// chooseSpell перебирает книгу по порядку и берет первое применимое заклинание.
// Лечение только при HP ниже половины, статус не накладывается повторно.
func chooseSpell(actor *domain.Entity, foes []*domain.Entity, w *domain.World) (domain.Command, bool) {
	wounded := actor.Stats != nil && actor.Stats.HP*2 < actor.Stats.MaxHP

	for _, spell := range actor.Spells() {
		var targets []*domain.Entity

		switch {
		case spell.Effect == enums.EffectHeal:
			if !wounded {
				continue
			}
			if spell.Target != enums.SpellTargetSelf {
				targets = []*domain.Entity{actor}
			}

		case spell.Target == enums.SpellTargetSelf:
			if spell.Effect == enums.EffectStatus && actor.HasStatus(spell.Status) {
				continue
			}

		case spell.Target == enums.SpellTargetSingle:
			for _, f := range foes {
				if spell.Effect == enums.EffectStatus && f.HasStatus(spell.Status) {
					continue
				}
				if ValidateCast(actor, spell, []*domain.Entity{f}, w) == nil {
					targets = []*domain.Entity{f}
					break
				}
			}
			if targets == nil {
				continue
			}

		case spell.Target == enums.SpellTargetArea:
			targets = areaTargets(actor, spell, foes, w)
			if targets == nil {
				continue
			}
		}

		if ValidateCast(actor, spell, targets, w) != nil {
			continue
		}
		return castCommand(actor, spell, targets), true
	}
	return domain.Command{}, false
}

// areaTargets - первая достижимая цель как центр плюс все враги в радиусе от нее
func areaTargets(actor *domain.Entity, spell *domain.Spell, foes []*domain.Entity, w *domain.World) []*domain.Entity {
	for _, center := range foes {
		if ValidateCast(actor, spell, []*domain.Entity{center}, w) != nil {
			continue
		}
		targets := []*domain.Entity{center}
		for _, f := range foes {
			if f == center {
				continue
			}
			if !spatial(w, center, f) || w.Distance(*center.Pos, *f.Pos) <= spell.Radius {
				targets = append(targets, f)
			}
		}
		return targets
	}
	return nil
}

func chooseTrapAction(trap *domain.Entity, roster []*domain.Entity, w *domain.World) domain.Command {
	var victims []*domain.Entity
	for _, e := range roster {
		if !e.HasVitality() {
			continue
		}
		// Без карты ловушка бьет по всем, кого может задеть
		if e.Pos == nil || w == nil {
			if w == nil && trap.CanTrigger(e) {
				victims = append(victims, e)
			}
			continue
		}
		if trap.TriggerCondition(e, *e.Pos, w) {
			victims = append(victims, e)
		}
	}
	if len(victims) == 0 {
		return waitCommand(trap)
	}
	return attackCommand(trap, domain.ActionTrigger, victims...)
}

// stepToward - соседний свободный тайл, строго сокращающий дистанцию.
// При равной дистанции решает евклидово расстояние: на квадратной сетке
// шаги только по осям, а дистанция по Чебышеву.
func stepToward(actor, target *domain.Entity, w *domain.World) (domain.Position, bool) {
	return bestStep(actor, target, w, func(a, b stepScore) bool { return a.less(b) })
}

// stepAway - соседний свободный тайл, строго увеличивающий дистанцию
func stepAway(actor, target *domain.Entity, w *domain.World) (domain.Position, bool) {
	if !spatial(w, actor, target) {
		return domain.Position{}, false
	}
	return bestStep(actor, target, w, func(a, b stepScore) bool { return b.less(a) })
}

type stepScore struct {
	dist, sq int
}

func (s stepScore) less(o stepScore) bool {
	if s.dist != o.dist {
		return s.dist < o.dist
	}
	return s.sq < o.sq
}

func bestStep(actor, target *domain.Entity, w *domain.World, better func(a, b stepScore) bool) (domain.Position, bool) {
	score := func(p domain.Position) stepScore {
		return stepScore{dist: w.Distance(p, *target.Pos), sq: p.DistanceSquaredTo(*target.Pos)}
	}

	from := *actor.Pos
	best := score(from)
	var (
		to    domain.Position
		found bool
	)
	for _, n := range w.Neighbors(from) {
		if CanStep(w, from, n) != nil {
			continue
		}
		if s := score(n); better(s, best) {
			best, to, found = s, n, true
		}
	}
	return to, found
}

// --- Сборка команд ---

func tokens(targets []*domain.Entity) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.ID.Token()
	}
	return out
}

func encode(v any) json.RawMessage {
	raw, _ := json.Marshal(v)
	return raw
}

func waitCommand(actor *domain.Entity) domain.Command {
	return domain.Command{Action: domain.ActionWait, Token: actor.ID}
}

func moveCommand(actor *domain.Entity, to domain.Position) domain.Command {
	return domain.Command{
		Action:  domain.ActionMove,
		Token:   actor.ID,
		Payload: encode(api.MovePayload{X: to.X, Y: to.Y}),
	}
}

func attackCommand(actor *domain.Entity, action domain.ActionType, targets ...*domain.Entity) domain.Command {
	return domain.Command{
		Action:  action,
		Token:   actor.ID,
		Payload: encode(api.AttackPayload{TargetIDs: tokens(targets)}),
	}
}

func castCommand(actor *domain.Entity, spell *domain.Spell, targets []*domain.Entity) domain.Command {
	return domain.Command{
		Action:  domain.ActionCast,
		Token:   actor.ID,
		Payload: encode(api.CastPayload{Spell: spell.Name, TargetIDs: tokens(targets)}),
	}
}
