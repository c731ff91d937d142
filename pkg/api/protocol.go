package api

import (
	"encoding/json"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера.
const (
	MsgUpdate = "UPDATE"
	MsgResult = "RESULT"
	MsgError  = "ERROR"
)

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Он представляет собой "снимок" боя глазами одной стороны: туман войны
// уже применён, скрытые враги не попадают в Units.
type ServerResponse struct {
	// Type тип сообщения: UPDATE, RESULT (ответ на команду) или ERROR.
	Type string `json:"type"`

	BattleID string `json:"battleId,omitempty"`
	Round    int    `json:"round"`

	// ActiveFaction сторона, чей ход сейчас.
	// КЛИЕНТ ДОЛЖЕН СРАВНИВАТЬ ЭТО ПОЛЕ С MyFaction, прежде чем принимать ввод.
	ActiveFaction string `json:"activeFaction"`
	MyFaction     string `json:"myFaction,omitempty"`
	Winner        string `json:"winner,omitempty"`
	Weather       string `json:"weather,omitempty"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map срез всех видимых и/или исследованных тайлов.
	Map []TileView `json:"map,omitempty"`

	// Units свои юниты и замеченные враги.
	Units []UnitView `json:"units,omitempty"`

	// Events новые события ленты начиная с курсора клиента.
	Events []domain.BattleEvent `json:"events,omitempty"`
	// Cursor передаётся обратно, чтобы в следующий раз получить только новые события.
	Cursor int `json:"cursor"`

	// Result ответ на последнюю команду клиента (только для RESULT/ERROR).
	Result *CommandResult `json:"result,omitempty"`
}

// GridMeta содержит общие размеры карты.
type GridMeta struct {
	Width  int    `json:"w"`
	Height int    `json:"h"`
	Layout string `json:"layout"`
}

// TileView это DTO для одного тайла карты.
type TileView struct {
	Q int `json:"q"`
	R int `json:"r"`

	Terrain     string `json:"terrain"`
	Elevation   int    `json:"elevation,omitempty"`
	Cover       int    `json:"cover,omitempty"`
	Passable    bool   `json:"passable"`
	VisionBoost bool   `json:"visionBoost,omitempty"`

	// IsVisible true, если тайл находится в текущем поле зрения стороны.
	IsVisible bool `json:"isVisible"`
	// IsExplored true, если тайл когда-либо был увиден (туман войны).
	IsExplored bool `json:"isExplored"`
}

// UnitView это DTO для юнита. Для чужих юнитов часть полей скрыта.
type UnitView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayType string `json:"displayType,omitempty"`
	Faction     string `json:"faction"`
	Type        string `json:"type"`
	Q           int    `json:"q"`
	R           int    `json:"r"`
	Facing      int    `json:"facing"`

	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	Stance    string `json:"stance"`

	// Только для своих юнитов
	Morale       int      `json:"morale,omitempty"`
	AP           float64  `json:"ap,omitempty"`
	MaxAP        float64  `json:"maxAp,omitempty"`
	Entrenchment int      `json:"entrenchment,omitempty"`
	XP           int      `json:"xp,omitempty"`
	Level        int      `json:"level,omitempty"`
	Ammo         int      `json:"ammo,omitempty"`
	Weapons      []string `json:"weapons,omitempty"`
	Status       []string `json:"status,omitempty"`
	EmbarkedOn   string   `json:"embarkedOn,omitempty"`
	Carrying     []string `json:"carrying,omitempty"`
}

// CommandResult - итог выполнения команды.
type CommandResult struct {
	Action  string               `json:"action"`
	Success bool                 `json:"success"`
	Error   string               `json:"error,omitempty"`
	Path    []CoordDTO           `json:"path,omitempty"` // Для PLAN_PATH
	Cost    float64              `json:"cost,omitempty"`
	Reason  string               `json:"reason,omitempty"`
	Events  []domain.BattleEvent `json:"events,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Faction сторона, от имени которой выполняется действие.
	Faction string `json:"faction"`

	// Action название действия: MOVE, ATTACK, END_TURN, OVERWATCH,
	// EMBARK, DISEMBARK, PLAN_PATH, AI_TURN.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// CoordDTO - координата клетки в JSON.
type CoordDTO struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// MovePayload используется для MOVE.
type MovePayload struct {
	UnitID string     `json:"unitId"`
	Path   []CoordDTO `json:"path"`
}

// AttackPayload используется для ATTACK.
type AttackPayload struct {
	AttackerID string `json:"attackerId"`
	DefenderID string `json:"defenderId"`
	WeaponID   string `json:"weaponId"`
}

// UnitPayload используется для команд над одним юнитом (OVERWATCH).
type UnitPayload struct {
	UnitID string `json:"unitId"`
}

// EmbarkPayload используется для EMBARK.
type EmbarkPayload struct {
	UnitID    string `json:"unitId"`
	CarrierID string `json:"carrierId"`
}

// DestinationPayload используется для DISEMBARK и PLAN_PATH.
type DestinationPayload struct {
	UnitID      string   `json:"unitId"`
	Destination CoordDTO `json:"destination"`
}

// --- REST ---

// CreateBattleRequest тело POST /battles. Пустой Scenario - случайная стычка.
type CreateBattleRequest struct {
	Scenario string `json:"scenario,omitempty"`
}

// BattleSummary краткое описание боя для списка.
type BattleSummary struct {
	ID            string `json:"id"`
	Scenario      string `json:"scenario"`
	Round         int    `json:"round"`
	ActiveFaction string `json:"activeFaction"`
	Winner        string `json:"winner,omitempty"`
}

// ReplaySaved ответ на сохранение записи боя.
type ReplaySaved struct {
	Path    string `json:"path"`
	Actions int    `json:"actions"`
}
