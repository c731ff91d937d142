package handlers

import (
	"encoding/json"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/internal/systems"
)

// Отказы уровня транспорта (до вызова процессора).
const (
	MsgNotYourTurn = "Not your turn"
	MsgForeignUnit = "Unit belongs to another faction"
	MsgUnknownUnit = "Unit not found"
)

// Commander описывает команды боя. engine.TurnProcessor неявно реализует этот интерфейс.
type Commander interface {
	MoveUnit(unitID domain.UnitID, path []grid.Coord) domain.ActionResult
	AttackUnit(attackerID, defenderID domain.UnitID, weaponID string) domain.ActionResult
	EndTurn() domain.ActionResult
	SetOverwatch(unitID domain.UnitID) domain.ActionResult
	EmbarkUnit(unitID, carrierID domain.UnitID) domain.ActionResult
	DisembarkUnit(unitID domain.UnitID, dest grid.Coord) domain.ActionResult
	PlanPath(unitID domain.UnitID, dest grid.Coord) systems.PathResult
	RunAITurn(faction domain.Faction) domain.ActionResult
}

// Context передает хендлеру состояние боя.
// State только для чтения: все изменения идут через Commands.
type Context struct {
	State    *domain.BattleState
	Commands Commander
	Faction  domain.Faction // От чьего имени пришла команда
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ рассылает снапшоты сам, он возвращает данные.
type Result struct {
	Outcome domain.ActionResult
	Path    *systems.PathResult // Только для PLAN_PATH
}

// HandlerFunc - это контракт для любой команды (MOVE, ATTACK, etc).
// error означает битый payload; игровой отказ приходит в Result.Outcome.
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// FromOutcome оборачивает итог команды процессора.
func FromOutcome(out domain.ActionResult) Result {
	return Result{Outcome: out}
}

// Rejected - отказ без обращения к процессору
func Rejected(msg string) Result {
	return Result{Outcome: domain.Rejected(msg)}
}

// RequireTurn проверяет, что сейчас ход стороны отправителя.
// Законченный бой пропускается: его отклонит процессор с точной причиной.
func RequireTurn(ctx Context) (Result, bool) {
	if !ctx.State.IsOver() && ctx.Faction != ctx.State.ActiveFaction {
		return Rejected(MsgNotYourTurn), false
	}
	return Result{}, true
}

// RequireOwnUnit проверяет, что юнит существует и принадлежит стороне отправителя.
func RequireOwnUnit(ctx Context, id string) (Result, bool) {
	u := ctx.State.Unit(domain.UnitID(id))
	if u == nil {
		return Rejected(MsgUnknownUnit), false
	}
	if u.Faction != ctx.Faction {
		return Rejected(MsgForeignUnit), false
	}
	return Result{}, true
}
