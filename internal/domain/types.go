package domain

import (
	"fmt"
	"strings"
)

// UnitID - идентификатор юнита в бою (уникален в рамках обеих сторон).
type UnitID string

// Faction - сторона конфликта. Сторон ровно две.
type Faction uint8

const (
	FactionNone Faction = iota
	FactionPlayer
	FactionEnemy
)

var factionToString = map[Faction]string{
	FactionPlayer: "player",
	FactionEnemy:  "enemy",
}

var factionStringToType = map[string]Faction{
	"player": FactionPlayer,
	"enemy":  FactionEnemy,
}

// Factions - обе стороны в фиксированном порядке.
func Factions() []Faction {
	return []Faction{FactionPlayer, FactionEnemy}
}

// ParseFaction конвертирует строку в Faction (нечувствительно к регистру)
func ParseFaction(s string) Faction {
	if val, ok := factionStringToType[strings.ToLower(strings.TrimSpace(s))]; ok {
		return val
	}
	return FactionNone
}

func (f Faction) String() string {
	if val, ok := factionToString[f]; ok {
		return val
	}
	return "none"
}

// Opponent возвращает противоположную сторону.
func (f Faction) Opponent() Faction {
	switch f {
	case FactionPlayer:
		return FactionEnemy
	case FactionEnemy:
		return FactionPlayer
	default:
		return FactionNone
	}
}

func (f Faction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Faction) UnmarshalText(data []byte) error {
	parsed := ParseFaction(string(data))
	if parsed == FactionNone && len(data) > 0 && strings.ToLower(string(data)) != "none" {
		return fmt.Errorf("unknown faction %q", string(data))
	}
	*f = parsed
	return nil
}

// UnitType - закрытый набор типов юнитов. Правила проходимости и
// ограничения целей оружия записаны через exhaustive switch по этому типу.
type UnitType uint8

const (
	UnitTypeInfantry UnitType = iota
	UnitTypeHero
	UnitTypeVehicle
	UnitTypeAir
)

var unitTypeToString = map[UnitType]string{
	UnitTypeInfantry: "infantry",
	UnitTypeHero:     "hero",
	UnitTypeVehicle:  "vehicle",
	UnitTypeAir:      "air",
}

var unitTypeStringToType = map[string]UnitType{
	"infantry": UnitTypeInfantry,
	"hero":     UnitTypeHero,
	"vehicle":  UnitTypeVehicle,
	"air":      UnitTypeAir,
}

func (t UnitType) String() string {
	if val, ok := unitTypeToString[t]; ok {
		return val
	}
	return "unknown"
}

// ParseUnitType возвращает тип и признак успешного разбора.
func ParseUnitType(s string) (UnitType, bool) {
	val, ok := unitTypeStringToType[strings.ToLower(strings.TrimSpace(s))]
	return val, ok
}

func (t UnitType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *UnitType) UnmarshalText(data []byte) error {
	val, ok := ParseUnitType(string(data))
	if !ok {
		return fmt.Errorf("unknown unit type %q", string(data))
	}
	*t = val
	return nil
}

// Stance - боеготовность юнита. Выводится из морали и здоровья.
type Stance uint8

const (
	StanceReady Stance = iota
	StanceSuppressed
	StanceRouted
	StanceDestroyed
)

var stanceToString = map[Stance]string{
	StanceReady:      "ready",
	StanceSuppressed: "suppressed",
	StanceRouted:     "routed",
	StanceDestroyed:  "destroyed",
}

func (s Stance) String() string {
	if val, ok := stanceToString[s]; ok {
		return val
	}
	return "unknown"
}

func (s Stance) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stance) UnmarshalText(data []byte) error {
	for k, v := range stanceToString {
		if v == strings.ToLower(string(data)) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown stance %q", string(data))
}

// Weather - погода на поле боя, штрафует дальность зрения.
type Weather uint8

const (
	WeatherClear Weather = iota
	WeatherNight
	WeatherFog
)

var weatherToString = map[Weather]string{
	WeatherClear: "clear",
	WeatherNight: "night",
	WeatherFog:   "fog",
}

// ParseWeather конвертирует строку в Weather. Неизвестное значение → clear.
func ParseWeather(s string) Weather {
	for k, v := range weatherToString {
		if v == strings.ToLower(strings.TrimSpace(s)) {
			return k
		}
	}
	return WeatherClear
}

func (w Weather) String() string {
	if val, ok := weatherToString[w]; ok {
		return val
	}
	return "clear"
}

// VisionPenalty - штраф к дальности зрения.
func (w Weather) VisionPenalty() float64 {
	switch w {
	case WeatherFog:
		return 1
	case WeatherNight:
		return 0.5
	default:
		return 0
	}
}

func (w Weather) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Weather) UnmarshalText(data []byte) error {
	*w = ParseWeather(string(data))
	return nil
}

// StatusTag - метка статус-эффекта юнита.
type StatusTag string

const (
	StatusOverwatch StatusTag = "overwatch"
	StatusSpotted   StatusTag = "spotted"
)
