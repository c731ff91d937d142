package domain

import "strings"

// ActionType - Внутренний числовой идентификатор команды
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionMove
	ActionAttack
	ActionEndTurn
	ActionOverwatch
	ActionEmbark
	ActionDisembark
	ActionPlanPath
	ActionAITurn
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"MOVE":      ActionMove,
	"ATTACK":    ActionAttack,
	"END_TURN":  ActionEndTurn,
	"OVERWATCH": ActionOverwatch,
	"EMBARK":    ActionEmbark,
	"DISEMBARK": ActionDisembark,
	"PLAN_PATH": ActionPlanPath,
	"AI_TURN":   ActionAITurn,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionMove:      "MOVE",
	ActionAttack:    "ATTACK",
	ActionEndTurn:   "END_TURN",
	ActionOverwatch: "OVERWATCH",
	ActionEmbark:    "EMBARK",
	ActionDisembark: "DISEMBARK",
	ActionPlanPath:  "PLAN_PATH",
	ActionAITurn:    "AI_TURN",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
