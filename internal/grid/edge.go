package grid

import "strings"

// Edge - битовая маска ортогональных рёбер клетки изо-сетки.
// Используется для пометки склонов (slope) на более высоком тайле.
type Edge uint8

const (
	EdgeNorth Edge = 1 << iota
	EdgeEast
	EdgeSouth
	EdgeWest

	EdgeNone Edge = 0
)

var edgeLetters = map[byte]Edge{
	'N': EdgeNorth,
	'E': EdgeEast,
	'S': EdgeSouth,
	'W': EdgeWest,
}

// ParseEdges разбирает строку вида "NE" или "s,w" в маску. Неизвестные символы игнорируются.
func ParseEdges(s string) Edge {
	var e Edge
	upper := strings.ToUpper(s)
	for i := 0; i < len(upper); i++ {
		e |= edgeLetters[upper[i]]
	}
	return e
}

// Has проверяет наличие ребра в маске.
func (e Edge) Has(other Edge) bool {
	return other != EdgeNone && e&other == other
}

// EdgeToward возвращает ребро клетки from, через которое лежит сосед to.
// Второе значение false, если to не является ортогональным соседом.
func EdgeToward(from, to Coord) (Edge, bool) {
	switch to.Sub(from) {
	case Coord{Q: 0, R: -1}:
		return EdgeNorth, true
	case Coord{Q: 1, R: 0}:
		return EdgeEast, true
	case Coord{Q: 0, R: 1}:
		return EdgeSouth, true
	case Coord{Q: -1, R: 0}:
		return EdgeWest, true
	}
	return EdgeNone, false
}

// IsOrthogonal - true для шага по одной оси (без диагонали).
func IsOrthogonal(from, to Coord) bool {
	_, ok := EdgeToward(from, to)
	return ok
}
