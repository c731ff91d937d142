package actions

import "github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"

// HandleAITurn - отдать текущий ход встроенному ИИ
func HandleAITurn(ctx handlers.Context) (handlers.Result, error) {
	if res, ok := handlers.RequireTurn(ctx); !ok {
		return res, nil
	}
	return handlers.FromOutcome(ctx.Commands.RunAITurn(ctx.Faction)), nil
}
