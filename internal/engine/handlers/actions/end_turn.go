package actions

import "github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"

func HandleEndTurn(ctx handlers.Context) (handlers.Result, error) {
	if res, ok := handlers.RequireTurn(ctx); !ok {
		return res, nil
	}
	return handlers.FromOutcome(ctx.Commands.EndTurn()), nil
}
