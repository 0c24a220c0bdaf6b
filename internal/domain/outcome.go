package domain

import (
	"cognitive-encounter/internal/core/types/enums"
	"sync"
)

// TargetOutcome - уже примененный результат для одной цели
type TargetOutcome struct {
	TargetID      EntityID         `json:"targetId"`
	Name          string           `json:"name"`
	Effect        enums.EffectKind `json:"effect"`
	Delta         int              `json:"delta"` // фактически нанесенный урон / вылеченное HP
	HealthBefore  int              `json:"healthBefore"`
	HealthAfter   int              `json:"healthAfter"`
	Died          bool             `json:"died"` // умер именно в этом разрешении
	StatusApplied enums.StatusKind `json:"statusApplied,omitempty"`
	Save          *SaveResult      `json:"save,omitempty"` // спасбросок против ловушки
}

// SaveResult - спасбросок жертвы ловушки: d20 + модификатор против DC
type SaveResult struct {
	Roll    int  `json:"roll"`
	Total   int  `json:"total"`
	DC      int  `json:"dc"`
	Success bool `json:"success"`
}

// CombatOutcome - записанный результат одного действия
type CombatOutcome struct {
	Seq     int        `json:"seq"`
	Round   int        `json:"round"`
	ActorID EntityID   `json:"actorId"`
	Action  ActionType `json:"action"`
	Spell   string     `json:"spell,omitempty"`

	// ResourceSpent - списанный с кастера ресурс
	ResourceSpent int `json:"resourceSpent,omitempty"`

	// From / To - для перемещения
	From *Position `json:"from,omitempty"`
	To   *Position `json:"to,omitempty"`

	Targets []TargetOutcome `json:"targets,omitempty"`

	// Triggered - ловушки, сработавшие от этого действия
	Triggered []CombatOutcome `json:"triggered,omitempty"`
}

// TotalDelta - сумма дельт по всем целям
func (o CombatOutcome) TotalDelta() int {
	total := 0
	for _, t := range o.Targets {
		total += t.Delta
	}
	return total
}

// Deaths - кто умер в этом разрешении (включая сработавшие ловушки)
func (o CombatOutcome) Deaths() []EntityID {
	var ids []EntityID
	for _, t := range o.Targets {
		if t.Died {
			ids = append(ids, t.TargetID)
		}
	}
	for _, sub := range o.Triggered {
		ids = append(ids, sub.Deaths()...)
	}
	return ids
}

// OutcomeLog - явный append-only лог исходов энкаунтера.
// Наблюдатели читают его параллельно с боем.
type OutcomeLog struct {
	mu      sync.RWMutex
	entries []CombatOutcome
}

func NewOutcomeLog() *OutcomeLog {
	return &OutcomeLog{entries: make([]CombatOutcome, 0)}
}

// Append присваивает порядковый номер и добавляет запись
func (l *OutcomeLog) Append(o CombatOutcome) CombatOutcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	o.Seq = len(l.entries)
	l.entries = append(l.entries, o)
	return o
}

func (l *OutcomeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// All возвращает копию лога
func (l *OutcomeLog) All() []CombatOutcome {
	return l.Since(0)
}

// Since возвращает записи начиная с номера n
func (l *OutcomeLog) Since(n int) []CombatOutcome {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n >= len(l.entries) {
		return []CombatOutcome{}
	}
	out := make([]CombatOutcome, len(l.entries)-n)
	copy(out, l.entries[n:])
	return out
}
