package actions

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
)

// HandleOverwatch - юнит отказывается от оставшихся AP ради ответного огня
func HandleOverwatch(ctx handlers.Context, p api.UnitPayload) (handlers.Result, error) {
	if res, ok := handlers.RequireTurn(ctx); !ok {
		return res, nil
	}
	if res, ok := handlers.RequireOwnUnit(ctx, p.UnitID); !ok {
		return res, nil
	}
	return handlers.FromOutcome(ctx.Commands.SetOverwatch(domain.UnitID(p.UnitID))), nil
}
