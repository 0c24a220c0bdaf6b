package actions

import (
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/internal/engine/handlers"
	"cognitive-encounter/pkg/api"
	"fmt"
)

// HandleCast ищет заклинание в книге актора по имени
func HandleCast(ctx handlers.Context, p api.CastPayload) (handlers.Result, error) {
	spell := ctx.Actor.FindSpell(p.Spell)
	if spell == nil {
		return handlers.Result{}, fmt.Errorf("%s does not know %q: %w", ctx.Actor.Name, p.Spell, domain.ErrInvalidAction)
	}
	return submitTargeted(ctx, domain.CastSpell(spell), p.TargetIDs)
}
