package domain

import (
	"cognitive-encounter/internal/core/types/enums"
	"fmt"
)

// OccupantAt - кто стоит на тайле
func (w *World) OccupantAt(p Position) (EntityID, bool) {
	if !w.InBounds(p) {
		return NilEntityID, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	id := w.tiles[w.index(p)].Occupant
	return id, !id.IsNil()
}

// Place - первичная расстановка участника
func (w *World) Place(id EntityID, p Position) error {
	if id.IsNil() {
		return fmt.Errorf("place: %w", ErrInvalidTarget)
	}
	if !w.InBounds(p) {
		return fmt.Errorf("place %s at %s: %w", id, p, ErrOutOfBounds)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	t := &w.tiles[w.index(p)]
	if t.Tags.Has(enums.TagBlocksMovement) {
		return fmt.Errorf("place %s at %s: %w", id, p, ErrTileBlocked)
	}
	if !t.Occupant.IsNil() {
		return fmt.Errorf("place %s at %s: %w", id, p, ErrTileOccupied)
	}
	t.Occupant = id
	return nil
}

// MoveEntity - единственный мутатор занятости во время боя.
// Проверка и перенос выполняются под одним замком мира, поэтому два
// участника никогда не окажутся на одном тайле.
func (w *World) MoveEntity(id EntityID, from, to Position) error {
	if !w.InBounds(from) || !w.InBounds(to) {
		return fmt.Errorf("move %s %s->%s: %w", id, from, to, ErrOutOfBounds)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	src := &w.tiles[w.index(from)]
	if src.Occupant != id {
		return fmt.Errorf("move %s: not at %s: %w", id, from, ErrInvalidTarget)
	}
	if from == to {
		return nil
	}

	dst := &w.tiles[w.index(to)]
	if dst.Tags.Has(enums.TagBlocksMovement) {
		return fmt.Errorf("move %s to %s: %w", id, to, ErrTileBlocked)
	}
	if !dst.Occupant.IsNil() {
		return fmt.Errorf("move %s to %s: %w", id, to, ErrTileOccupied)
	}

	dst.Occupant = id
	src.Occupant = NilEntityID
	return nil
}

// Remove освобождает тайл, если на нем стоит id
func (w *World) Remove(id EntityID, p Position) bool {
	if !w.InBounds(p) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	t := &w.tiles[w.index(p)]
	if t.Occupant != id {
		return false
	}
	t.Occupant = NilEntityID
	return true
}

// Occupancy - карта занятых тайлов (для снапшота)
func (w *World) Occupancy() map[Position]EntityID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[Position]EntityID)
	for _, t := range w.tiles {
		if !t.Occupant.IsNil() {
			out[t.Pos] = t.Occupant
		}
	}
	return out
}

// LoreAt - текст лора для тайла. Чистое чтение.
func (w *World) LoreAt(p Position) string {
	if !w.InBounds(p) || w.Lore == nil {
		return ""
	}
	w.mu.RLock()
	ref := w.tiles[w.index(p)].LoreRef
	w.mu.RUnlock()
	return w.Lore.Text(ref)
}
