package actions

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
)

func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	if res, ok := handlers.RequireTurn(ctx); !ok {
		return res, nil
	}
	if res, ok := handlers.RequireOwnUnit(ctx, p.UnitID); !ok {
		return res, nil
	}

	path := make([]grid.Coord, len(p.Path))
	for i, c := range p.Path {
		path[i] = toCoord(c)
	}
	return handlers.FromOutcome(ctx.Commands.MoveUnit(domain.UnitID(p.UnitID), path)), nil
}

func toCoord(c api.CoordDTO) grid.Coord {
	return grid.Coord{Q: c.Q, R: c.R}
}
