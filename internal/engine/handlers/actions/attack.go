package actions

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
)

func HandleAttack(ctx handlers.Context, p api.AttackPayload) (handlers.Result, error) {
	if res, ok := handlers.RequireTurn(ctx); !ok {
		return res, nil
	}
	if res, ok := handlers.RequireOwnUnit(ctx, p.AttackerID); !ok {
		return res, nil
	}

	out := ctx.Commands.AttackUnit(domain.UnitID(p.AttackerID), domain.UnitID(p.DefenderID), p.WeaponID)
	return handlers.FromOutcome(out), nil
}
