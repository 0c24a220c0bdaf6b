package domain

import "cognitive-encounter/internal/core/types/enums"

// Status - длительный эффект на сущности
type Status struct {
	Kind      enums.StatusKind `json:"kind"`
	Magnitude int              `json:"magnitude"`
	Remaining int              `json:"remaining"` // раундов осталось
	Source    EntityID         `json:"source,omitempty"`
}

// AddStatus накладывает статус. Тот же вид не стакается: обновляется
// длительность и берется больший magnitude.
func (e *Entity) AddStatus(s Status) {
	for i := range e.Statuses {
		if e.Statuses[i].Kind == s.Kind {
			if s.Magnitude > e.Statuses[i].Magnitude {
				e.Statuses[i].Magnitude = s.Magnitude
			}
			if s.Remaining > e.Statuses[i].Remaining {
				e.Statuses[i].Remaining = s.Remaining
			}
			e.Statuses[i].Source = s.Source
			return
		}
	}
	e.Statuses = append(e.Statuses, s)
}

func (e *Entity) HasStatus(kind enums.StatusKind) bool {
	for _, s := range e.Statuses {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// StatusMagnitude - сила активного статуса (0, если его нет)
func (e *Entity) StatusMagnitude(kind enums.StatusKind) int {
	for _, s := range e.Statuses {
		if s.Kind == kind {
			return s.Magnitude
		}
	}
	return 0
}

// TickStatuses уменьшает длительности на раунд и убирает истекшие.
// Возвращает истекшие статусы.
func (e *Entity) TickStatuses() []Status {
	if len(e.Statuses) == 0 {
		return nil
	}
	var expired []Status
	kept := e.Statuses[:0]
	for _, s := range e.Statuses {
		s.Remaining--
		if s.Remaining <= 0 {
			expired = append(expired, s)
			continue
		}
		kept = append(kept, s)
	}
	e.Statuses = kept
	return expired
}

// CloneStatuses - копия для снапшотов
func (e *Entity) CloneStatuses() []Status {
	if len(e.Statuses) == 0 {
		return nil
	}
	out := make([]Status, len(e.Statuses))
	copy(out, e.Statuses)
	return out
}
