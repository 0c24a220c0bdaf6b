package actions

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/internal/engine/handlers"
	"cognitive-encounter/pkg/api"
)

func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	outcome, err := ctx.Turns.SubmitAction(ctx.Actor.ID, domain.MoveTo(domain.Position{X: p.X, Y: p.Y}), nil)
	if err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{Outcome: outcome}, nil
}
