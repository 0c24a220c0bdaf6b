package systems

import (
	"cognitive-encounter/internal/domain"
	"fmt"
)

// EntityProvider - интерфейс для поиска сущностей (чтобы не зависеть от TurnSystem напрямую)
type EntityProvider interface {
	GetEntity(id domain.EntityID) *domain.Entity
}

// ResolveTargets превращает список ID в сущности. Неизвестный ID или повтор
// цели дают ErrInvalidTarget / ErrUnknownEntity.
func ResolveTargets(ids []domain.EntityID, finder EntityProvider) ([]*domain.Entity, error) {
	out := make([]*domain.Entity, 0, len(ids))
	seen := make(map[domain.EntityID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("target %s listed twice: %w", id, domain.ErrInvalidTarget)
		}
		seen[id] = struct{}{}
		e := finder.GetEntity(id)
		if e == nil {
			return nil, fmt.Errorf("target %s: %w", id, domain.ErrUnknownEntity)
		}
		out = append(out, e)
	}
	return out, nil
}

// spatial - обе сущности на карте. Энкаунтеры без карты не проверяют дистанцию.
func spatial(w *domain.World, a, b *domain.Entity) bool {
	return w != nil && a.Pos != nil && b.Pos != nil
}

// ValidateInteraction проверяет, может ли actor дотянуться до target.
//
// Параметры:
// - rangeLimit: максимальная дистанция в тайлах (1 для соседней клетки/диагонали).
// - needLOS: нужна ли прямая видимость (true для атак и заклинаний).
func ValidateInteraction(actor, target *domain.Entity, rangeLimit int, needLOS bool, w *domain.World) error {
	// 1. Цель должна существовать и быть живой
	if target == nil {
		return fmt.Errorf("no target: %w", domain.ErrInvalidTarget)
	}
	if !target.IsAlive() {
		return fmt.Errorf("%s is dead: %w", target.Name, domain.ErrInvalidTarget)
	}

	if !spatial(w, actor, target) {
		return nil
	}

	// 2. Проверка дистанции
	dist := w.Distance(*actor.Pos, *target.Pos)
	if dist > rangeLimit {
		return fmt.Errorf("%s out of range (%d > %d): %w", target.Name, dist, rangeLimit, domain.ErrInvalidTarget)
	}

	// 3. Проверка видимости (Line of Sight)
	if needLOS && dist > 0 && !HasLineOfSight(w, *actor.Pos, *target.Pos) {
		return fmt.Errorf("%s not visible: %w", target.Name, domain.ErrInvalidTarget)
	}

	return nil
}
