package systems

import (
	"math"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
)

// Надбавки за переход по склону (только изо-сетка): в гору дороже, чем с горы.
const (
	UphillPenalty   = 1.0
	DownhillPenalty = 0.25
)

// CanEnter - может ли юнит данного типа стоять на тайле.
func CanEnter(t domain.UnitType, tile *domain.MapTile) bool {
	if !tile.Passable || tile.Terrain == domain.TerrainStructure {
		return false
	}

	switch t {
	case domain.UnitTypeInfantry, domain.UnitTypeHero:
		return tile.Terrain != domain.TerrainWater
	case domain.UnitTypeVehicle:
		return tile.Terrain != domain.TerrainWater && tile.Terrain != domain.TerrainForest
	case domain.UnitTypeAir:
		// Лес проходим только для пехоты и героев
		return tile.Terrain != domain.TerrainSwamp && tile.Terrain != domain.TerrainForest
	default:
		return false
	}
}

// StanceMultiplier - множитель стоимости передвижения от стойки.
func StanceMultiplier(s domain.Stance) float64 {
	switch s {
	case domain.StanceReady:
		return 1
	case domain.StanceSuppressed:
		return 1.3
	case domain.StanceRouted:
		return 1.6
	default:
		return math.Inf(1)
	}
}

// StepCost возвращает стоимость одного шага from→to для юнита.
// Второе значение false, если шаг невозможен (не соседи, запрещённая местность, обрыв).
// Занятость клеток здесь не проверяется. Не меняет состояние!
func StepCost(m *domain.BattlefieldMap, u *domain.Unit, from, to grid.Coord) (float64, bool) {
	if !m.InBounds(from) || !m.InBounds(to) || !m.Layout.Adjacent(from, to) {
		return 0, false
	}

	dst := m.Tile(to)
	if !CanEnter(u.Type, dst) {
		return 0, false
	}

	mult := StanceMultiplier(u.Stance)
	if math.IsInf(mult, 1) {
		return 0, false
	}

	cost := dst.MoveCost * mult

	if m.Layout == grid.LayoutIso && u.Type != domain.UnitTypeAir {
		penalty, ok := slopePenalty(m.Tile(from), dst, from, to)
		if !ok {
			return 0, false
		}
		cost += penalty
	}

	return cost, true
}

// slopePenalty проверяет перепад высот между соседними изо-тайлами.
// Перепад проходим только ортогонально и только через ребро, которое
// более высокий тайл помечает как склон.
func slopePenalty(src, dst *domain.MapTile, from, to grid.Coord) (float64, bool) {
	diff := dst.Elevation - src.Elevation
	if diff == 0 {
		return 0, true
	}
	if !grid.IsOrthogonal(from, to) {
		return 0, false
	}

	if diff > 0 {
		// Подъём: ребро высокого тайла (dst), смотрящее на from
		edge, _ := grid.EdgeToward(to, from)
		if !dst.Slopes.Has(edge) {
			return 0, false
		}
		return UphillPenalty * float64(diff), true
	}

	edge, _ := grid.EdgeToward(from, to)
	if !src.Slopes.Has(edge) {
		return 0, false
	}
	return DownhillPenalty * float64(-diff), true
}
