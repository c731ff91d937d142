package engine

import (
	"fmt"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/michaldrozd/spellcross-sub000/pkg/scenario"
	"github.com/sirupsen/logrus"
)

// Playback заново проигрывает запись боя на сценарии sc.
// Ходы ИИ записаны как обычные команды, поэтому сессия создаётся без ИИ.
// Любой отказ означает, что запись не совпадает со сценарием или правилами.
func Playback(replay *domain.ReplaySession, sc *scenario.Scenario) (*Session, error) {
	session := NewSession(replay.BattleID, sc, SessionOptions{Seed: replay.Seed})

	log := logger.Log.WithFields(logrus.Fields{
		"component": "playback",
		"battle_id": replay.BattleID,
		"actions":   len(replay.Actions),
	})

	for _, rec := range replay.Actions {
		res, err := session.Execute(rec.Faction, rec.Action, rec.Payload)
		if err != nil {
			return session, fmt.Errorf("%w: action %d (%v): %v", ErrPlaybackDiverged, rec.Seq, rec.Action, err)
		}
		if !res.Outcome.Success {
			return session, fmt.Errorf("%w: action %d (%v) rejected: %s", ErrPlaybackDiverged, rec.Seq, rec.Action, res.Outcome.Error)
		}
	}

	log.WithField("round", session.Processor.State.Round).Info("Replay played back.")
	return session, nil
}
