package actions

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
)

// HandlePlanPath - превью пути. Можно в любой момент, но только для своих юнитов.
func HandlePlanPath(ctx handlers.Context, p api.DestinationPayload) (handlers.Result, error) {
	if res, ok := handlers.RequireOwnUnit(ctx, p.UnitID); !ok {
		return res, nil
	}

	plan := ctx.Commands.PlanPath(domain.UnitID(p.UnitID), toCoord(p.Destination))
	out := domain.ActionResult{Success: plan.Success, Error: plan.Reason}
	return handlers.Result{Outcome: out, Path: &plan}, nil
}
