package domain

import "encoding/json"

// ReplayAction - это запись одной принятой команды
type ReplayAction struct {
	Seq     int             `json:"seq"`
	Round   int             `json:"round"`
	Faction Faction         `json:"faction"` // Кто сделал
	Action  ActionType      `json:"action"`  // Что сделал
	Payload json.RawMessage `json:"payload"` // С какими параметрами
}

// ReplaySession - полная запись боя. Вместе со сценарием и сидом
// позволяет детерминированно воспроизвести ленту событий.
type ReplaySession struct {
	BattleID      string         `json:"battleId"`
	Scenario      string         `json:"scenario"`
	Seed          int64          `json:"seed"` // Зерно боевого рандома
	Timestamp     int64          `json:"timestamp"`
	RulesRevision uint16         `json:"rulesRevision"`
	Actions       []ReplayAction `json:"actions"`
}
