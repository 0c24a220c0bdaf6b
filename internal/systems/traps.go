package systems

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TriggerTraps срабатывает все взведенные ловушки, условие которых выполнено
// для actor, вошедшего в pos. Ловушки проверяются в порядке списка; каждая
// срабатывает не больше одного раза и затем разряжается.
func (c *CombatSystem) TriggerTraps(actor *domain.Entity, pos domain.Position, traps []*domain.Entity, w *domain.World) []domain.CombatOutcome {
	var fired []domain.CombatOutcome
	for _, trap := range traps {
		if !actor.IsAlive() {
			break
		}
		if !trap.TriggerCondition(actor, pos, w) {
			continue
		}
		out, err := c.ResolveAction(trap, domain.TriggerTrap(), []*domain.Entity{actor}, w)
		if err != nil {
			// Например, у цели нет живучести: ловушка остается взведенной
			logger.Log.WithFields(logrus.Fields{
				"component": "trap_system",
				"trap_id":   trap.ID,
				"actor_id":  actor.ID,
			}).WithError(err).Debug("Trap did not fire.")
			continue
		}
		fired = append(fired, out)
	}
	return fired
}

// ResetTraps взводит ловушки, у которых истек период перезарядки.
// Возвращает ID перезаряженных ловушек.
func ResetTraps(traps []*domain.Entity, round int) []domain.EntityID {
	var rearmed []domain.EntityID
	for _, trap := range traps {
		if trap.Trap == nil || !trap.IsAlive() {
			continue
		}
		if trap.Trap.ReadyToReset(round) {
			trap.Trap.Rearm()
			rearmed = append(rearmed, trap.ID)
			logger.Log.WithFields(logrus.Fields{
				"component": "trap_system",
				"trap_id":   trap.ID,
				"round":     round,
			}).Debug("Trap re-armed.")
		}
	}
	return rearmed
}
