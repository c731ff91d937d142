package domain

import (
	"fmt"
	"strings"

	"github.com/michaldrozd/spellcross-sub000/internal/grid"
)

// EventType - Внутренний числовой идентификатор события боя
type EventType uint8

const (
	EventUnknown EventType = iota
	EventRoundStarted
	EventUnitMoved
	EventUnitAttacked
	EventUnitDefeated
	EventUnitGainedXP
	EventUnitLeveledUp
	EventBattleEnded
	EventUnitOverwatch
	EventUnitEmbarked
	EventUnitDisembarked
)

// Маппинг для логов и JSON Domain -> String
var eventCmdToString = map[EventType]string{
	EventRoundStarted:  "round:started",
	EventUnitMoved:     "unit:moved",
	EventUnitAttacked:  "unit:attacked",
	EventUnitDefeated:  "unit:defeated",
	EventUnitGainedXP:  "unit:xp",
	EventUnitLeveledUp: "unit:levelup",
	EventBattleEnded:   "battle:ended",

	EventUnitOverwatch:   "unit:overwatch",
	EventUnitEmbarked:    "unit:embarked",
	EventUnitDisembarked: "unit:disembarked",
}

// ParseEvent конвертирует строку в EventType
func ParseEvent(s string) EventType {
	lower := strings.ToLower(s)
	for k, v := range eventCmdToString {
		if v == lower {
			return k
		}
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (e EventType) String() string {
	if val, ok := eventCmdToString[e]; ok {
		return val
	}
	return "unknown"
}

func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EventType) UnmarshalText(data []byte) error {
	parsed := ParseEvent(string(data))
	if parsed == EventUnknown {
		return fmt.Errorf("unknown event type %q", string(data))
	}
	*e = parsed
	return nil
}

// BattleEvent - запись ленты боя. Размеченное объединение: смысл полей
// определяется Type. После добавления в ленту не меняется.
type BattleEvent struct {
	Seq     int       `json:"seq"`
	Type    EventType `json:"type"`
	Round   int       `json:"round"`
	Faction Faction   `json:"faction,omitempty"`

	UnitID   UnitID `json:"unitId,omitempty"`
	TargetID UnitID `json:"targetId,omitempty"`

	// unit:moved, unit:disembarked
	Path []grid.Coord `json:"path,omitempty"`
	Cost float64      `json:"cost,omitempty"`

	// unit:attacked
	WeaponID     string  `json:"weaponId,omitempty"`
	HitChance    float64 `json:"hitChance,omitempty"`
	Roll         float64 `json:"roll,omitempty"`
	Hit          bool    `json:"hit,omitempty"`
	Damage       int     `json:"damage,omitempty"`
	MoraleDamage int     `json:"moraleDamage,omitempty"`
	Reaction     bool    `json:"reaction,omitempty"` // Выстрел с overwatch

	// unit:xp / unit:levelup
	XP    int `json:"xp,omitempty"`
	Level int `json:"level,omitempty"`

	// battle:ended
	Winner Faction `json:"winner,omitempty"`
}

// Timeline - лента событий, только добавление.
type Timeline []BattleEvent

// Append добавляет события, присваивая им монотонный Seq.
// Возвращает добавленные события (с проставленным Seq).
func (t *Timeline) Append(events ...BattleEvent) []BattleEvent {
	start := len(*t)
	for _, ev := range events {
		ev.Seq = len(*t)
		*t = append(*t, ev)
	}
	added := make([]BattleEvent, len(*t)-start)
	copy(added, (*t)[start:])
	return added
}

// Since возвращает события с Seq ≥ cursor.
func (t Timeline) Since(cursor int) []BattleEvent {
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(t) {
		return nil
	}
	return t[cursor:]
}

// Count считает события заданного типа (удобно для тестов и отчётов).
func (t Timeline) Count(eventType EventType) int {
	n := 0
	for _, ev := range t {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}
