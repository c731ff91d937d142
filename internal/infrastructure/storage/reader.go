package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/version"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay: %w", err)
	}
	defer f.Close()

	session, err := ReadBinary(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read replay %s: %w", path, err)
	}

	if session.RulesRevision != version.RulesRevision {
		logger.Log.WithFields(logrus.Fields{
			"component": "replay_storage",
			"path":      path,
			"recorded":  session.RulesRevision,
			"current":   version.RulesRevision,
		}).Warn("Replay was recorded with other rules, playback may diverge.")
	}
	return session, nil
}

// ReadBinary разбирает реплей формата TBRP.
func ReadBinary(r io.Reader) (*domain.ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic %q", string(header.Magic[:]))
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.ActionCount < 0 {
		return nil, fmt.Errorf("negative action count: %d", header.ActionCount)
	}

	battleID := make([]byte, header.BattleIDLen)
	if _, err := io.ReadFull(r, battleID); err != nil {
		return nil, fmt.Errorf("failed to read battle id: %w", err)
	}
	scenario := make([]byte, header.ScenarioLen)
	if _, err := io.ReadFull(r, scenario); err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	session := &domain.ReplaySession{
		BattleID:      string(battleID),
		Scenario:      string(scenario),
		Seed:          header.Seed,
		Timestamp:     header.Timestamp,
		RulesRevision: header.RulesRevision,
		Actions:       make([]domain.ReplayAction, header.ActionCount),
	}

	// 2. Читаем Actions
	for i := 0; i < int(header.ActionCount); i++ {
		var ah ActionHeader
		if err := binary.Read(r, binary.LittleEndian, &ah); err != nil {
			return nil, fmt.Errorf("failed to read action %d: %w", i, err)
		}

		act := domain.ReplayAction{
			Seq:     int(ah.Seq),
			Round:   int(ah.Round),
			Faction: domain.Faction(ah.Faction),
			Action:  domain.ActionType(ah.ActionType),
		}

		if ah.PayloadLen > 0 {
			act.Payload = make([]byte, ah.PayloadLen)
			if _, err := io.ReadFull(r, act.Payload); err != nil {
				return nil, fmt.Errorf("failed to read payload %d: %w", i, err)
			}
		} else {
			act.Payload = json.RawMessage{}
		}

		session.Actions[i] = act
	}

	return session, nil
}
