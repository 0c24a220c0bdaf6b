package handlers

import (
	"cognitive-encounter/internal/domain"
	"encoding/json"
	"fmt"
)

// TurnSubmitter описывает ядро, которому хендлер отдает разобранное действие.
// TurnSystem неявно реализует этот интерфейс.
type TurnSubmitter interface {
	SubmitAction(actorID domain.EntityID, action domain.Action, targets []domain.EntityID) (domain.CombatOutcome, error)
}

// Context передает хендлеру ядро и того, кто выполняет команду.
// Хендлер сам ничего не мутирует: все изменения идут через Turns.
type Context struct {
	Turns TurnSubmitter
	Actor *domain.Entity // Тот, кто выполняет команду (Игрок, NPC или ловушка)
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в лог исходов напрямую, это делает TurnSystem.
type Result struct {
	Outcome domain.CombatOutcome
}

// HandlerFunc - это контракт для любой команды (MOVE, ATTACK, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// ParseTargets переводит строковые ID из payload в EntityID
func ParseTargets(ids []string) ([]domain.EntityID, error) {
	out := make([]domain.EntityID, 0, len(ids))
	for _, raw := range ids {
		id, err := domain.ParseEntityID(raw)
		if err != nil || id.IsNil() {
			return nil, fmt.Errorf("target %q: %w", raw, domain.ErrInvalidTarget)
		}
		out = append(out, id)
	}
	return out, nil
}
