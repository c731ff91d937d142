package systems

import (
	"math"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// VisibleRange - дальность зрения юнита с учётом позиции и погоды.
func VisibleRange(m *domain.BattlefieldMap, u *domain.Unit, weather domain.Weather) float64 {
	r := float64(u.Vision)
	tile := m.Tile(u.Coord)
	if tile.VisionBoost {
		r++
	}
	if tile.Elevation >= 1 {
		r++
	}
	return r - weather.VisionPenalty() - domain.StealthPenalty
}

// ComputeVisibleTiles возвращает мапу индексов {index: true}, которые видит юнит.
// Собственная клетка видна всегда.
func ComputeVisibleTiles(m *domain.BattlefieldMap, u *domain.Unit, weather domain.Weather) map[int]bool {
	visible := map[int]bool{m.Index(u.Coord): true}

	radius := VisibleRange(m, u, weather)
	for _, c := range m.Disc(u.Coord, radius) {
		if HasLineOfSight(m, u.Coord, c) {
			visible[m.Index(c)] = true
		}
	}
	return visible
}

// IsDetected - замечен ли target хотя бы одним из наблюдателей.
// Скрытность цели сокращает дальность обнаружения, но не ниже соседней клетки.
func IsDetected(m *domain.BattlefieldMap, observers []*domain.Unit, target *domain.Unit, weather domain.Weather) bool {
	for _, o := range observers {
		if !o.IsOnField() {
			continue
		}
		reach := math.Max(1, VisibleRange(m, o, weather)-float64(target.Stealth))
		if float64(m.Distance(o.Coord, target.Coord)) > reach+1e-9 {
			continue
		}
		if HasLineOfSight(m, o.Coord, target.Coord) {
			return true
		}
	}
	return false
}

// UpdateFactionVision пересчитывает и перезаписывает туман войны стороны.
// Повторный вызов без изменений состояния даёт тот же результат.
func UpdateFactionVision(state *domain.BattleState, faction domain.Faction) {
	observers := state.FactionUnits(faction)

	visible := make(map[int]bool)
	for _, u := range observers {
		if !u.IsOnField() {
			continue
		}
		for idx := range ComputeVisibleTiles(state.Map, u, state.Weather) {
			visible[idx] = true
		}
	}

	// Фильтр скрытности: незамеченный враг прячет свою клетку
	hidden := 0
	for _, enemy := range state.FactionUnits(faction.Opponent()) {
		if !enemy.IsOnField() {
			enemy.ClearStatus(domain.StatusSpotted)
			continue
		}
		idx := state.Map.Index(enemy.Coord)
		if !visible[idx] {
			enemy.ClearStatus(domain.StatusSpotted)
			continue
		}
		if IsDetected(state.Map, observers, enemy, state.Weather) {
			enemy.SetStatus(domain.StatusSpotted)
			continue
		}
		delete(visible, idx)
		enemy.ClearStatus(domain.StatusSpotted)
		hidden++
	}

	vg, ok := state.Vision[faction]
	if !ok {
		vg = domain.NewVisionGrid()
		state.Vision[faction] = vg
	}
	if vg.Explored == nil {
		vg.Explored = make(map[int]bool)
	}
	vg.Visible = visible
	for idx := range visible {
		vg.Explored[idx] = true
	}

	logger.Log.WithFields(logrus.Fields{
		"component":      "vision_system",
		"faction":        faction,
		"visible_tiles":  len(visible),
		"explored_tiles": len(vg.Explored),
		"hidden_enemies": hidden,
	}).Debug("Faction vision updated.")
}

// UpdateAllFactionsVision пересчитывает туман войны обеих сторон.
func UpdateAllFactionsVision(state *domain.BattleState) {
	for _, f := range domain.Factions() {
		UpdateFactionVision(state, f)
	}
}

// VisibleEnemies - живые враги, видимые стороне сейчас.
func VisibleEnemies(state *domain.BattleState, faction domain.Faction) []*domain.Unit {
	vg := state.Vision[faction]
	var result []*domain.Unit
	for _, enemy := range state.FactionUnits(faction.Opponent()) {
		if enemy.IsOnField() && vg.IsVisible(state.Map.Index(enemy.Coord)) {
			result = append(result, enemy)
		}
	}
	return result
}
