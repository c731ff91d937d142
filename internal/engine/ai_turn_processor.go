package engine

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/systems"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// DefaultAIMaxIterations - предохранитель от зацикливания ИИ внутри одного хода.
const DefaultAIMaxIterations = 50

// AITurnReport - итог хода ИИ.
type AITurnReport struct {
	Commands int                  // Исполненные команды, включая END_TURN
	Rejected int                  // Отклонённые решения (после них ход завершается принудительно)
	Forced   bool                 // END_TURN был вызван не по решению ИИ
	Events   []domain.BattleEvent // Все события хода по порядку
}

// RunAITurn играет за faction, пока ход не перейдёт к противнику или бой не закончится.
// Каждое решение исполняется через те же команды, что и у игрока.
func RunAITurn(p *TurnProcessor, faction domain.Faction, maxIterations int, opts systems.AIOptions) AITurnReport {
	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai_turn",
		"faction":   faction,
		"round":     p.State.Round,
	})
	if maxIterations <= 0 {
		maxIterations = DefaultAIMaxIterations
	}

	var report AITurnReport
	for i := 0; i < maxIterations; i++ {
		if p.State.IsOver() || p.State.ActiveFaction != faction {
			return report
		}

		action := systems.DecideNextAIAction(p.State, faction, opts)

		var res domain.ActionResult
		switch action.Type {
		case systems.AIAttack:
			res = p.AttackUnit(action.UnitID, action.TargetID, action.WeaponID)
		case systems.AIMove:
			res = p.MoveUnit(action.UnitID, action.Path)
		default:
			res = p.EndTurn()
			report.Commands++
			report.Events = append(report.Events, res.Events...)
			return report
		}

		report.Commands++
		report.Events = append(report.Events, res.Events...)

		if !res.Success {
			// Повтор того же решения ничего не даст
			aiLogger.WithFields(logrus.Fields{
				"action":  action.Type,
				"unit_id": action.UnitID,
				"error":   res.Error,
			}).Warn("AI command rejected, forcing end of turn.")
			report.Rejected++
			report.forceEndTurn(p)
			return report
		}
	}

	aiLogger.WithField("iterations", maxIterations).Warn("AI iteration limit reached, forcing end of turn.")
	if !p.State.IsOver() && p.State.ActiveFaction == faction {
		report.forceEndTurn(p)
	}
	return report
}

func (r *AITurnReport) forceEndTurn(p *TurnProcessor) {
	res := p.EndTurn()
	r.Commands++
	r.Forced = true
	r.Events = append(r.Events, res.Events...)
}

// RunAITurn - ход ИИ с настройками процессора. Отклоняется, если сейчас не ход faction.
func (p *TurnProcessor) RunAITurn(faction domain.Faction) domain.ActionResult {
	if p.State.IsOver() {
		return p.reject(domain.ActionAITurn, "", ErrBattleOver)
	}
	if p.State.ActiveFaction != faction {
		return p.reject(domain.ActionAITurn, "", ErrNotYourTurn)
	}

	report := RunAITurn(p, faction, p.AIMaxIterations, p.AIOptions)

	p.logger().WithFields(logrus.Fields{
		"faction":  faction,
		"commands": report.Commands,
		"rejected": report.Rejected,
		"forced":   report.Forced,
		"events":   len(report.Events),
	}).Info("AI turn finished.")

	return domain.Accepted(report.Events)
}
