package systems

import (
	"container/heap"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Причины неуспеха поиска пути.
const (
	ReasonUnreachable    = "unreachable"
	ReasonBudgetExceeded = "budget-exceeded"
)

// PathResult - результат поиска пути. Path включает стартовую клетку.
type PathResult struct {
	Success bool         `json:"success"`
	Path    []grid.Coord `json:"path,omitempty"`
	Cost    float64      `json:"cost"`
	Reason  string       `json:"reason,omitempty"`
}

// OccupancyFunc сообщает, занята ли клетка кем-то другим.
type OccupancyFunc func(c grid.Coord) bool

type pathNode struct {
	coord  grid.Coord
	g, h   float64
	seq    int // порядок вставки, для детерминированного выбора среди равных
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	if ol[i].h != ol[j].h {
		return ol[i].h < ol[j].h
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int) { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// FindPath ищет самый дешёвый путь A* для юнита u от start до goal.
// Клетки, для которых occupied возвращает true, исключаются (включая goal).
// Путь дороже maxCost отклоняется с причиной budget-exceeded.
// Чистый запрос: состояние боя не меняется.
func FindPath(m *domain.BattlefieldMap, u *domain.Unit, start, goal grid.Coord, maxCost float64, occupied OccupancyFunc) PathResult {
	if !m.InBounds(start) || !m.InBounds(goal) {
		return PathResult{Reason: ReasonUnreachable}
	}
	if start == goal {
		return PathResult{Success: true, Path: []grid.Coord{start}}
	}
	if occupied != nil && occupied(goal) {
		return PathResult{Reason: ReasonUnreachable}
	}

	// Допустимая эвристика: расстояние × самая дешёвая клетка карты
	minCost := cheapestTile(m)
	heuristic := func(c grid.Coord) float64 {
		return float64(m.Distance(c, goal)) * minCost
	}

	ol := &openList{}
	heap.Init(ol)
	seq := 0
	startNode := &pathNode{coord: start, h: heuristic(start)}
	heap.Push(ol, startNode)

	best := map[grid.Coord]float64{start: 0}
	closed := make(map[grid.Coord]bool)

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if closed[cur.coord] {
			continue
		}
		closed[cur.coord] = true

		if cur.coord == goal {
			if cur.g > maxCost+domain.CostEpsilon {
				return PathResult{Cost: cur.g, Reason: ReasonBudgetExceeded}
			}
			return PathResult{Success: true, Path: buildPath(cur), Cost: cur.g}
		}

		for _, next := range m.Neighbors(cur.coord) {
			if closed[next] {
				continue
			}
			if occupied != nil && occupied(next) {
				continue
			}
			step, ok := StepCost(m, u, cur.coord, next)
			if !ok {
				continue
			}
			g := cur.g + step
			if prev, seen := best[next]; seen && g >= prev {
				continue
			}
			best[next] = g
			seq++
			heap.Push(ol, &pathNode{coord: next, g: g, h: heuristic(next), seq: seq, parent: cur})
		}
	}

	return PathResult{Reason: ReasonUnreachable}
}

func buildPath(end *pathNode) []grid.Coord {
	var path []grid.Coord
	for n := end; n != nil; n = n.parent {
		path = append(path, n.coord)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func cheapestTile(m *domain.BattlefieldMap) float64 {
	lowest := 0.0
	for i, t := range m.Tiles {
		if i == 0 || t.MoveCost < lowest {
			lowest = t.MoveCost
		}
	}
	if lowest < 0 {
		return 0
	}
	return lowest
}

// PlanPathForUnit - превью пути юнита до клетки в пределах его текущих AP.
func PlanPathForUnit(state *domain.BattleState, unitID domain.UnitID, dest grid.Coord) PathResult {
	pathLogger := logger.Log.WithFields(logrus.Fields{
		"component": "pathfinding",
		"unit_id":   unitID,
		"dest":      dest,
	})

	u := state.Unit(unitID)
	if u == nil || !u.IsOnField() {
		pathLogger.Debug("Path rejected: unit is missing or not on the field.")
		return PathResult{Reason: ReasonUnreachable}
	}

	res := FindPath(state.Map, u, u.Coord, dest, u.AP, func(c grid.Coord) bool {
		return state.IsOccupied(c, u.ID)
	})

	pathLogger.WithFields(logrus.Fields{
		"success": res.Success,
		"cost":    res.Cost,
		"reason":  res.Reason,
	}).Debug("Path planned.")
	return res
}
