package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TickStatuses применяет периодические статусы в начале раунда
// (POISONED наносит урон, REGENERATING лечит) и уменьшает длительности.
// Возвращает исход со служебным действием TICK или ok=false, если тикать нечего.
func (c *CombatSystem) TickStatuses(e *domain.Entity) (domain.CombatOutcome, bool) {
	if len(e.Statuses) == 0 || !e.IsAlive() {
		return domain.CombatOutcome{}, false
	}

	outcome := domain.CombatOutcome{Round: c.round, ActorID: e.ID, Action: domain.ActionTick}

	if dmg := e.StatusMagnitude(enums.StatusPoisoned); dmg > 0 {
		outcome.Targets = append(outcome.Targets, applyEffect(e.ID, e, domain.Effect{Kind: enums.EffectDamage, Magnitude: dmg}))
	}
	if heal := e.StatusMagnitude(enums.StatusRegenerating); heal > 0 && e.IsAlive() {
		outcome.Targets = append(outcome.Targets, applyEffect(e.ID, e, domain.Effect{Kind: enums.EffectHeal, Magnitude: heal}))
	}

	expired := e.TickStatuses()
	if len(expired) > 0 {
		kinds := make([]string, 0, len(expired))
		for _, s := range expired {
			kinds = append(kinds, s.Kind.String())
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "status_system",
			"entity_id": e.ID,
			"expired":   kinds,
		}).Debug("Statuses expired.")
	}

	return outcome, true
}
