package domain

import (
	"sort"

	"github.com/michaldrozd/spellcross-sub000/internal/grid"
)

// Side - состояние одной стороны: юниты по ID (порядок вставки не важен).
type Side struct {
	Faction Faction          `json:"faction"`
	Units   map[UnitID]*Unit `json:"units"`
}

func NewSide(f Faction) *Side {
	return &Side{Faction: f, Units: make(map[UnitID]*Unit)}
}

// VisionGrid - туман войны одной стороны.
type VisionGrid struct {
	Visible  map[int]bool `json:"visible"`
	Explored map[int]bool `json:"explored"` // Только растёт
}

func NewVisionGrid() *VisionGrid {
	return &VisionGrid{
		Visible:  make(map[int]bool),
		Explored: make(map[int]bool),
	}
}

// IsVisible - видна ли клетка с индексом idx.
func (v *VisionGrid) IsVisible(idx int) bool {
	return v != nil && v.Visible[idx]
}

// BattleState - полное состояние тактического боя.
type BattleState struct {
	Map   *BattlefieldMap       `json:"map"`
	Sides map[Faction]*Side     `json:"sides"`
	Round int                   `json:"round"`
	// FirstFaction ходит первой в каждом раунде; раунд растёт, когда заканчивает вторая.
	FirstFaction  Faction                 `json:"firstFaction"`
	ActiveFaction Faction                 `json:"activeFaction"`
	Vision        map[Faction]*VisionGrid `json:"vision"`
	Timeline      Timeline                `json:"timeline"`
	Weather       Weather                 `json:"weather"`
	Winner        Faction                 `json:"winner,omitempty"`
}

// NewBattleState создаёт пустое состояние с двумя сторонами.
func NewBattleState(m *BattlefieldMap, starting Faction) *BattleState {
	s := &BattleState{
		Map:           m,
		Sides:         make(map[Faction]*Side),
		Round:         1,
		FirstFaction:  starting,
		ActiveFaction: starting,
		Vision:        make(map[Faction]*VisionGrid),
	}
	for _, f := range Factions() {
		s.Sides[f] = NewSide(f)
		s.Vision[f] = NewVisionGrid()
	}
	return s
}

// Unit ищет юнита по ID в обеих сторонах.
func (s *BattleState) Unit(id UnitID) *Unit {
	for _, side := range s.Sides {
		if u, ok := side.Units[id]; ok {
			return u
		}
	}
	return nil
}

// FactionUnits возвращает юнитов стороны, отсортированных по ID.
func (s *BattleState) FactionUnits(f Faction) []*Unit {
	side, ok := s.Sides[f]
	if !ok {
		return nil
	}
	units := make([]*Unit, 0, len(side.Units))
	for _, u := range side.Units {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units
}

// AllUnits - все юниты обеих сторон в детерминированном порядке.
func (s *BattleState) AllUnits() []*Unit {
	var units []*Unit
	for _, f := range Factions() {
		units = append(units, s.FactionUnits(f)...)
	}
	return units
}

// OccupantAt возвращает живого не посаженного юнита на клетке (или nil).
func (s *BattleState) OccupantAt(c grid.Coord) *Unit {
	for _, side := range s.Sides {
		for _, u := range side.Units {
			if u.IsOnField() && u.Coord == c {
				return u
			}
		}
	}
	return nil
}

// IsOccupied - занята ли клетка кем-то, кроме except.
func (s *BattleState) IsOccupied(c grid.Coord, except UnitID) bool {
	occ := s.OccupantAt(c)
	return occ != nil && occ.ID != except
}

// LiveUnits - число неуничтоженных юнитов стороны (включая посаженных).
func (s *BattleState) LiveUnits(f Faction) int {
	n := 0
	if side, ok := s.Sides[f]; ok {
		for _, u := range side.Units {
			if !u.IsDestroyed() {
				n++
			}
		}
	}
	return n
}

// AppendEvents добавляет события в ленту, проставляя раунд, если он не задан.
func (s *BattleState) AppendEvents(events ...BattleEvent) []BattleEvent {
	for i := range events {
		if events[i].Round == 0 {
			events[i].Round = s.Round
		}
	}
	return s.Timeline.Append(events...)
}

// IsOver - бой закончен (есть победитель).
func (s *BattleState) IsOver() bool {
	return s.Winner != FactionNone
}
