package systems

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// MoraleRecovery считает прирост морали юнита в конце хода его стороны:
// база + окапывание, минус враг рядом, плюс аура героя (одна, не суммируется).
func MoraleRecovery(state *domain.BattleState, u *domain.Unit) int {
	gain := domain.MoraleRecoveryBase + u.Entrenchment

	m := state.Map
	for _, enemy := range state.FactionUnits(u.Faction.Opponent()) {
		if enemy.IsOnField() && m.Distance(enemy.Coord, u.Coord) <= domain.EnemyNearRadius {
			gain -= domain.EnemyNearPenalty
			break
		}
	}

	for _, ally := range state.FactionUnits(u.Faction) {
		if ally.ID == u.ID || ally.Type != domain.UnitTypeHero || !ally.IsOnField() {
			continue
		}
		if m.Distance(ally.Coord, u.Coord) <= domain.HeroAuraRadius {
			gain += domain.HeroAuraBonus
			break
		}
	}

	return gain
}

// ApplyTurnEndRecovery окапывает стоявших на месте юнитов стороны (+1, без потолка) и
// восстанавливает им мораль. Вызывается для стороны, которая закончила ход.
func ApplyTurnEndRecovery(state *domain.BattleState, faction domain.Faction) {
	entrenched := 0
	for _, u := range state.FactionUnits(faction) {
		if u.IsDestroyed() {
			continue
		}
		if !u.MovedThisTurn {
			u.Entrenchment++
			entrenched++
		}
		u.RestoreMorale(MoraleRecovery(state, u))
		u.RecomputeStance()
	}

	logger.Log.WithFields(logrus.Fields{
		"component":  "morale_system",
		"faction":    faction,
		"entrenched": entrenched,
	}).Debug("Turn-end recovery applied.")
}
