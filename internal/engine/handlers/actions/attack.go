package actions

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/internal/engine/handlers"
	"cognitive-encounter/pkg/api"
)

// HandleAttack - BasicAttack по одной цели. Дистанцию, видимость и
// живость цели проверяет CombatSystem.
func HandleAttack(ctx handlers.Context, p api.AttackPayload) (handlers.Result, error) {
	return submitTargeted(ctx, domain.BasicAttack(), p.TargetIDs)
}

// HandleTrigger - срабатывание ловушки. Актор обязан быть ловушкой.
func HandleTrigger(ctx handlers.Context, p api.AttackPayload) (handlers.Result, error) {
	return submitTargeted(ctx, domain.TriggerTrap(), p.TargetIDs)
}

func submitTargeted(ctx handlers.Context, action domain.Action, rawIDs []string) (handlers.Result, error) {
	targets, err := handlers.ParseTargets(rawIDs)
	if err != nil {
		return handlers.Result{}, err
	}
	outcome, err := ctx.Turns.SubmitAction(ctx.Actor.ID, action, targets)
	if err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{Outcome: outcome}, nil
}
