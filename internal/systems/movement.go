package systems

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CanStep проверяет шаг from -> to без изменения мира.
// Возвращает ту же ошибку, что вернул бы MoveEntity.
func CanStep(w *domain.World, from, to domain.Position) error {
	if !w.InBounds(to) {
		return fmt.Errorf("step to %s: %w", to, domain.ErrOutOfBounds)
	}
	if !isNeighbor(w, from, to) {
		return fmt.Errorf("%s is not adjacent to %s: %w", to, from, domain.ErrInvalidTarget)
	}
	if !w.IsPassable(to) {
		return fmt.Errorf("step to %s: %w", to, domain.ErrTileBlocked)
	}
	if _, taken := w.OccupantAt(to); taken {
		return fmt.Errorf("step to %s: %w", to, domain.ErrTileOccupied)
	}
	return nil
}

func isNeighbor(w *domain.World, from, to domain.Position) bool {
	for _, n := range w.Neighbors(from) {
		if n == to {
			return true
		}
	}
	return false
}

// Move передвигает actor на соседний тайл и проверяет ловушки на новом месте.
// Сработавшие ловушки попадают в outcome.Triggered.
func (c *CombatSystem) Move(actor *domain.Entity, to domain.Position, w *domain.World, traps []*domain.Entity) (domain.CombatOutcome, error) {
	if actor == nil || w == nil || actor.Pos == nil {
		return domain.CombatOutcome{}, fmt.Errorf("move outside of a map: %w", domain.ErrInvalidAction)
	}
	if actor.Kind == enums.EntityKindTrap {
		return domain.CombatOutcome{}, fmt.Errorf("traps do not move: %w", domain.ErrInvalidAction)
	}
	if err := checkActor(actor); err != nil {
		return domain.CombatOutcome{}, err
	}

	from := *actor.Pos
	if err := CanStep(w, from, to); err != nil {
		return domain.CombatOutcome{}, err
	}
	// Финальная проверка занятости под замком мира
	if err := w.MoveEntity(actor.ID, from, to); err != nil {
		return domain.CombatOutcome{}, err
	}
	*actor.Pos = to

	outcome := domain.CombatOutcome{
		Round:   c.round,
		ActorID: actor.ID,
		Action:  domain.ActionMove,
		From:    &from,
		To:      &to,
	}
	outcome.Triggered = c.TriggerTraps(actor, to, traps, w)

	logger.Log.WithFields(logrus.Fields{
		"component":  "movement_system",
		"actor_id":   actor.ID,
		"actor_name": actor.Name,
		"from":       from,
		"to":         to,
		"traps":      len(outcome.Triggered),
	}).Debug("Entity moved.")

	return outcome, nil
}

// Wait - пропуск хода
func (c *CombatSystem) Wait(actor *domain.Entity) (domain.CombatOutcome, error) {
	if actor == nil || !actor.IsAlive() {
		return domain.CombatOutcome{}, fmt.Errorf("wait: %w", domain.ErrActorIncapacitated)
	}
	return domain.CombatOutcome{Round: c.round, ActorID: actor.ID, Action: domain.ActionWait}, nil
}
