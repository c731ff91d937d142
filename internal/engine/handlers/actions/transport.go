package actions

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
)

func HandleEmbark(ctx handlers.Context, p api.EmbarkPayload) (handlers.Result, error) {
	if res, ok := handlers.RequireTurn(ctx); !ok {
		return res, nil
	}
	if res, ok := handlers.RequireOwnUnit(ctx, p.UnitID); !ok {
		return res, nil
	}
	out := ctx.Commands.EmbarkUnit(domain.UnitID(p.UnitID), domain.UnitID(p.CarrierID))
	return handlers.FromOutcome(out), nil
}

func HandleDisembark(ctx handlers.Context, p api.DestinationPayload) (handlers.Result, error) {
	if res, ok := handlers.RequireTurn(ctx); !ok {
		return res, nil
	}
	if res, ok := handlers.RequireOwnUnit(ctx, p.UnitID); !ok {
		return res, nil
	}
	out := ctx.Commands.DisembarkUnit(domain.UnitID(p.UnitID), toCoord(p.Destination))
	return handlers.FromOutcome(out), nil
}
