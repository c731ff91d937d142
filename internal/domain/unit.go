package domain

import (
	"sort"

	"github.com/michaldrozd/spellcross-sub000/internal/grid"
)

// --- ШАБЛОНЫ ---

// Weapon - профиль оружия юнита.
type Weapon struct {
	Range    int     `json:"range" yaml:"range"`
	Power    int     `json:"power" yaml:"power"`
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`

	// Targets - белый список типов целей. Пустой список - можно бить всех.
	Targets []UnitType `json:"targets,omitempty" yaml:"targets,omitempty"`
}

// UnitDefinition - статический шаблон юнита (из каталога или сценария).
type UnitDefinition struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	DisplayType string   `json:"displayType" yaml:"display_type"` // Для рендера: "sniper", "ghoul"
	Faction     Faction  `json:"faction" yaml:"faction"`
	Type        UnitType `json:"type" yaml:"type"`

	MaxHealth int     `json:"maxHealth" yaml:"max_health"`
	Mobility  float64 `json:"mobility" yaml:"mobility"` // Максимум AP за ход
	Vision    int     `json:"vision" yaml:"vision"`
	Armor     int     `json:"armor" yaml:"armor"`
	Morale    int     `json:"morale" yaml:"morale"`
	Stealth   int     `json:"stealth,omitempty" yaml:"stealth,omitempty"`

	Weapons map[string]Weapon `json:"weapons" yaml:"weapons"`

	AmmoCapacity      int `json:"ammoCapacity,omitempty" yaml:"ammo_capacity,omitempty"` // 0 - без учёта боезапаса
	TransportCapacity int `json:"transportCapacity,omitempty" yaml:"transport_capacity,omitempty"`
}

// --- ЭКЗЕМПЛЯР ---

// Unit - шаблон, инстанцированный в бой.
type Unit struct {
	// Идентификация
	ID           UnitID   `json:"id"`
	DefinitionID string   `json:"definitionId"`
	Name         string   `json:"name"`
	DisplayType  string   `json:"displayType"`
	Faction      Faction  `json:"faction"`
	Type         UnitType `json:"type"`

	Coord  grid.Coord `json:"coord"`
	Facing int        `json:"facing"` // Индекс в grid.Layout.Directions()

	// Ресурсы
	Health    int     `json:"health"`
	MaxHealth int     `json:"maxHealth"`
	Morale    int     `json:"morale"`
	MaxMorale int     `json:"maxMorale"`
	AP        float64 `json:"ap"`
	MaxAP     float64 `json:"maxAp"`

	Stance       Stance `json:"stance"`
	Entrenchment int    `json:"entrenchment"`
	XP           int    `json:"xp"`
	Level        int    `json:"level"`

	Armor   int               `json:"armor"`
	Vision  int               `json:"vision"`
	Stealth int               `json:"stealth,omitempty"`
	Weapons map[string]Weapon `json:"weapons"`

	Ammo         int `json:"ammo,omitempty"`
	AmmoCapacity int `json:"ammoCapacity,omitempty"`

	Status map[StatusTag]bool `json:"status,omitempty"`

	// Посадка: пассажир хранит ID носителя, носитель - список пассажиров (он авторитетен)
	EmbarkedOn        UnitID   `json:"embarkedOn,omitempty"`
	Carrying          []UnitID `json:"carrying,omitempty"`
	TransportCapacity int      `json:"transportCapacity,omitempty"`

	// MovedThisTurn - юнит двигался с момента последнего конца хода своей стороны.
	MovedThisTurn bool `json:"movedThisTurn"`
}

// NewUnit создаёт экземпляр из шаблона на заданной позиции.
func NewUnit(id UnitID, def UnitDefinition, faction Faction, at grid.Coord) *Unit {
	morale := def.Morale
	if morale <= 0 || morale > MaxMorale {
		morale = MaxMorale
	}

	weapons := make(map[string]Weapon, len(def.Weapons))
	for k, w := range def.Weapons {
		weapons[k] = w
	}

	u := &Unit{
		ID:                id,
		DefinitionID:      def.ID,
		Name:              def.Name,
		DisplayType:       def.DisplayType,
		Faction:           faction,
		Type:              def.Type,
		Coord:             at,
		Health:            def.MaxHealth,
		MaxHealth:         def.MaxHealth,
		Morale:            morale,
		MaxMorale:         morale,
		AP:                def.Mobility,
		MaxAP:             def.Mobility,
		Level:             StartingLevel,
		Armor:             def.Armor,
		Vision:            def.Vision,
		Stealth:           def.Stealth,
		Weapons:           weapons,
		Ammo:              def.AmmoCapacity,
		AmmoCapacity:      def.AmmoCapacity,
		TransportCapacity: def.TransportCapacity,
		Status:            make(map[StatusTag]bool),
	}
	u.RecomputeStance()
	return u
}

// IsDestroyed - терминальное состояние: юнит остаётся на карте, но не занимает клетку.
func (u *Unit) IsDestroyed() bool {
	return u.Stance == StanceDestroyed
}

// IsEmbarked - юнит находится внутри носителя.
func (u *Unit) IsEmbarked() bool {
	return u.EmbarkedOn != ""
}

// IsOnField - живой юнит, который занимает клетку, видит и может быть целью.
func (u *Unit) IsOnField() bool {
	return !u.IsDestroyed() && !u.IsEmbarked()
}

func (u *Unit) HasStatus(tag StatusTag) bool {
	return u.Status[tag]
}

func (u *Unit) SetStatus(tag StatusTag) {
	if u.Status == nil {
		u.Status = make(map[StatusTag]bool)
	}
	u.Status[tag] = true
}

func (u *Unit) ClearStatus(tag StatusTag) {
	delete(u.Status, tag)
}

// StatusList возвращает метки в отсортированном виде (для снапшотов и логов).
func (u *Unit) StatusList() []StatusTag {
	tags := make([]StatusTag, 0, len(u.Status))
	for tag, on := range u.Status {
		if on {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// WeaponIDs - ключи оружия в детерминированном порядке.
func (u *Unit) WeaponIDs() []string {
	ids := make([]string, 0, len(u.Weapons))
	for id := range u.Weapons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FreeCapacity - сколько пассажиров ещё помещается в носитель.
func (u *Unit) FreeCapacity() int {
	return u.TransportCapacity - len(u.Carrying)
}
