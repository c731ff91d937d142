package systems

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// BlocksSight - тайл перекрывает обзор: непроходим или даёт укрытие ≥ 3.
func BlocksSight(tile *domain.MapTile) bool {
	return !tile.Passable || tile.Cover >= domain.LOSBlockingCover
}

// HasLineOfSight проверяет прямую видимость между двумя клетками.
// Линия строится в геометрии карты (гекс или изо), концы отрезка никогда не блокируют.
func HasLineOfSight(m *domain.BattlefieldMap, from, to grid.Coord) bool {
	if from == to {
		return true
	}

	line := m.Layout.Line(from, to)
	for _, c := range line[1 : len(line)-1] {
		if !m.InBounds(c) {
			logger.Log.WithFields(logrus.Fields{
				"component": "physics_system",
				"from":      from,
				"to":        to,
				"blocking":  c,
			}).Debug("Line of sight leaves the map.")
			return false
		}
		if BlocksSight(m.Tile(c)) {
			logger.Log.WithFields(logrus.Fields{
				"component": "physics_system",
				"from":      from,
				"to":        to,
				"blocking":  c,
			}).Debug("Line of sight is blocked.")
			return false
		}
	}
	return true
}
