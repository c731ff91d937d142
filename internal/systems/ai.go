package systems

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// AIActionType - вид решения ИИ.
type AIActionType uint8

const (
	AIEndTurn AIActionType = iota
	AIAttack
	AIMove
)

var aiActionToString = map[AIActionType]string{
	AIEndTurn: "endTurn",
	AIAttack:  "attack",
	AIMove:    "move",
}

func (t AIActionType) String() string {
	if val, ok := aiActionToString[t]; ok {
		return val
	}
	return "unknown"
}

func (t AIActionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// AIAction - предложенная команда. ИИ сам ничего не меняет,
// исполнение идёт через процессор ходов.
type AIAction struct {
	Type     AIActionType  `json:"type"`
	UnitID   domain.UnitID `json:"unitId,omitempty"`
	TargetID domain.UnitID `json:"targetId,omitempty"`
	WeaponID string        `json:"weaponId,omitempty"`
	Path     []grid.Coord  `json:"path,omitempty"`
	Score    float64       `json:"score,omitempty"`
}

// AIOptions - настройки эвристики.
type AIOptions struct {
	// Rng и Jitter задают малое случайное возмущение оценок шагов (разбивка ничьих).
	// Jitter = 0 делает ИИ полностью детерминированным.
	Rng    RandomSource
	Jitter float64
}

// Параметры эвристики движения.
const (
	AIStepCap         = 2
	AIScoutStepCap    = 5
	AIScoutRounds     = 2
	AIScoutDistance   = 8
	AIDistanceWeight  = 10.0
	AIVisionBonus     = 2.0
	AICoverWeight     = 1.5
	AIThreatWeight    = 0.1
	AIThreatThreshold = 30.0
)

// DecideNextAIAction выбирает следующую команду для стороны faction.
// Сначала лучший выстрел (hitChance × power), иначе осторожное сближение,
// иначе конец хода.
func DecideNextAIAction(state *domain.BattleState, faction domain.Faction, opts AIOptions) AIAction {
	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"faction":   faction,
		"round":     state.Round,
	})

	if state.IsOver() || state.ActiveFaction != faction {
		aiLogger.Debug("Not our turn or battle over. Action: END_TURN")
		return AIAction{Type: AIEndTurn}
	}

	if attack, ok := bestAttack(state, faction); ok {
		aiLogger.WithFields(logrus.Fields{
			"unit_id":   attack.UnitID,
			"target_id": attack.TargetID,
			"weapon_id": attack.WeaponID,
			"score":     attack.Score,
		}).Debug("Action: ATTACK")
		return attack
	}

	visible := VisibleEnemies(state, faction)
	targets := visible
	if len(targets) == 0 {
		for _, e := range state.FactionUnits(faction.Opponent()) {
			if e.IsOnField() {
				targets = append(targets, e)
			}
		}
	}
	if len(targets) == 0 {
		aiLogger.Debug("No enemies left. Action: END_TURN")
		return AIAction{Type: AIEndTurn}
	}

	for _, u := range state.FactionUnits(faction) {
		if !u.IsOnField() || u.AP <= domain.CostEpsilon {
			continue
		}
		stepCap := AIStepCap
		if scouting(state, u, visible) {
			stepCap = AIScoutStepCap
		}

		path := approachPath(state, u, targets, stepCap, opts)
		if len(path) > 1 {
			aiLogger.WithFields(logrus.Fields{
				"unit_id":  u.ID,
				"steps":    len(path) - 1,
				"step_cap": stepCap,
			}).Debug("Action: MOVE")
			return AIAction{Type: AIMove, UnitID: u.ID, Path: path}
		}
	}

	aiLogger.Debug("Nothing useful to do. Action: END_TURN")
	return AIAction{Type: AIEndTurn}
}

func bestAttack(state *domain.BattleState, faction domain.Faction) (AIAction, bool) {
	var best AIAction
	found := false

	enemies := VisibleEnemies(state, faction)
	for _, u := range state.FactionUnits(faction) {
		if !u.IsOnField() || !CanAffordAttack(u) {
			continue
		}
		for _, weaponID := range u.WeaponIDs() {
			for _, enemy := range enemies {
				if !ValidateAttack(state.Map, u, enemy, weaponID).Valid {
					continue
				}
				score := HitChance(state.Map, u, enemy, weaponID) * float64(u.Weapons[weaponID].Power)
				if score > 0 && (!found || score > best.Score) {
					best = AIAction{Type: AIAttack, UnitID: u.ID, TargetID: enemy.ID, WeaponID: weaponID, Score: score}
					found = true
				}
			}
		}
	}
	return best, found
}

// scouting - расширенный шаг на разведку: первые раунды, враг не виден или далеко.
func scouting(state *domain.BattleState, u *domain.Unit, visible []*domain.Unit) bool {
	if state.Round <= AIScoutRounds || len(visible) == 0 {
		return true
	}
	_, dist := nearest(state.Map, u.Coord, visible)
	return dist > AIScoutDistance
}

func nearest(m *domain.BattlefieldMap, from grid.Coord, units []*domain.Unit) (*domain.Unit, int) {
	var best *domain.Unit
	bestDist := 0
	for _, e := range units {
		d := m.Distance(from, e.Coord)
		if best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, bestDist
}

// approachPath строит многошаговое сближение юнита с ближайшим врагом.
// Возвращает путь, начинающийся с текущей клетки юнита.
func approachPath(state *domain.BattleState, u *domain.Unit, targets []*domain.Unit, stepCap int, opts AIOptions) []grid.Coord {
	m := state.Map
	cur := u.Coord
	ap := u.AP
	path := []grid.Coord{cur}
	visited := map[grid.Coord]bool{cur: true}

	for step := 0; step < stepCap; step++ {
		if canFireFrom(m, u, cur, ap, targets) {
			break
		}

		goal, goalDist := nearest(m, cur, targets)
		if goal == nil {
			break
		}

		var (
			bestCoord  grid.Coord
			bestScore  float64
			bestCost   float64
			bestGain   int
			bestThreat float64
			found      bool
		)
		for _, n := range m.Neighbors(cur) {
			if visited[n] || state.IsOccupied(n, u.ID) {
				continue
			}
			cost, ok := StepCost(m, u, cur, n)
			if !ok || cost > ap+domain.CostEpsilon {
				continue
			}

			tile := m.Tile(n)
			gain := goalDist - m.Distance(n, goal.Coord)
			threat := TileThreat(state, u, n)

			score := float64(gain)*AIDistanceWeight + float64(tile.Cover)*AICoverWeight - threat*AIThreatWeight
			if tile.VisionBoost {
				score += AIVisionBonus
			}
			if opts.Rng != nil && opts.Jitter > 0 {
				score += (opts.Rng() - 0.5) * opts.Jitter
			}

			if !found || score > bestScore {
				bestCoord, bestScore, bestCost, bestGain, bestThreat = n, score, cost, gain, threat
				found = true
			}
		}

		if !found {
			break
		}
		if bestGain <= 0 && bestThreat > AIThreatThreshold {
			break
		}

		path = append(path, bestCoord)
		visited[bestCoord] = true
		ap -= bestCost
		cur = bestCoord
	}

	return path
}

// canFireFrom - с клетки from юнит, имея ap, может сразу выстрелить хоть по кому-то.
func canFireFrom(m *domain.BattlefieldMap, u *domain.Unit, from grid.Coord, ap float64, targets []*domain.Unit) bool {
	if ap+domain.CostEpsilon < domain.AttackCost {
		return false
	}
	hyp := *u
	hyp.Coord = from
	for _, weaponID := range hyp.WeaponIDs() {
		w := hyp.Weapons[weaponID]
		reach := CalculateAttackRange(m, &hyp, weaponID)
		for _, e := range targets {
			if CanTarget(w, e.Type) && m.Distance(from, e.Coord) <= reach && HasLineOfSight(m, from, e.Coord) {
				return true
			}
		}
	}
	return false
}

// TileThreat - сумма по всем живым врагам их лучшего hitChance × power
// против юнита u, гипотетически стоящего на клетке at.
func TileThreat(state *domain.BattleState, u *domain.Unit, at grid.Coord) float64 {
	m := state.Map
	hyp := *u
	hyp.Coord = at

	total := 0.0
	for _, enemy := range state.FactionUnits(u.Faction.Opponent()) {
		if !enemy.IsOnField() || !HasLineOfSight(m, enemy.Coord, at) {
			continue
		}
		dist := m.Distance(enemy.Coord, at)
		best := 0.0
		for _, weaponID := range enemy.WeaponIDs() {
			w := enemy.Weapons[weaponID]
			if !CanTarget(w, u.Type) || dist > CalculateAttackRange(m, enemy, weaponID) {
				continue
			}
			if v := HitChance(m, enemy, &hyp, weaponID) * float64(w.Power); v > best {
				best = v
			}
		}
		total += best
	}
	return total
}
