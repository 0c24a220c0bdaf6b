package actions

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/internal/engine/handlers"
)

func HandleWait(ctx handlers.Context) (handlers.Result, error) {
	outcome, err := ctx.Turns.SubmitAction(ctx.Actor.ID, domain.Wait(), nil)
	if err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{Outcome: outcome}, nil
}
