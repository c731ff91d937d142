package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `TBRP` // 4 байта
	Version1    uint32 = 1
	FileExt            = ".tbrp"
)

// ReplayFileHeader - это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
// Строки (BattleID, Scenario) идут сразу за заголовком.
type ReplayFileHeader struct {
	Magic         [4]byte // 4 байта
	Version       uint32  // 4 байта
	Seed          int64   // 8 байт
	Timestamp     int64   // 8 байт
	RulesRevision uint16  // 2 байта
	BattleIDLen   uint8   // 1 байт
	ScenarioLen   uint16  // 2 байта
	ActionCount   int32   // 4 байта
}

// ActionHeader - заголовок каждой записи действия.
type ActionHeader struct {
	Seq        int32  // 4
	Round      int32  // 4
	Faction    uint8  // 1
	ActionType uint8  // 1
	PayloadLen uint16 // 2
}

type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) *ReplayService {
	return &ReplayService{SaveDir: dir}
}

// Save пишет реплей в SaveDir и возвращает путь к файлу.
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create replay dir %s: %w", s.SaveDir, err)
	}

	filename := fmt.Sprintf("replay_%s_%d%s", session.BattleID, session.Timestamp, FileExt)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create replay file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteBinary(w, session); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush replay file: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "replay_storage",
		"battle_id": session.BattleID,
		"actions":   len(session.Actions),
		"path":      path,
	}).Info("Replay saved.")
	return path, nil
}

// WriteBinary сериализует реплей в формат TBRP (little-endian).
func WriteBinary(w io.Writer, s *domain.ReplaySession) error {
	battleID := []byte(s.BattleID)
	if len(battleID) > 255 {
		return fmt.Errorf("battle id too long: %d", len(battleID))
	}
	scenario := []byte(s.Scenario)
	if len(scenario) > 65535 {
		return fmt.Errorf("scenario name too long: %d", len(scenario))
	}

	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := ReplayFileHeader{
		Version:       Version1,
		Seed:          s.Seed,
		Timestamp:     s.Timestamp,
		RulesRevision: s.RulesRevision,
		BattleIDLen:   uint8(len(battleID)),
		ScenarioLen:   uint16(len(scenario)),
		ActionCount:   int32(len(s.Actions)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(battleID); err != nil {
		return fmt.Errorf("failed to write battle id: %w", err)
	}
	if _, err := w.Write(scenario); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}

	// 2. Пишем действия
	for _, act := range s.Actions {
		payloadLen := len(act.Payload)
		if payloadLen > 65535 {
			return fmt.Errorf("payload too long: %d", payloadLen)
		}

		actHeader := ActionHeader{
			Seq:        int32(act.Seq),
			Round:      int32(act.Round),
			Faction:    uint8(act.Faction),
			ActionType: uint8(act.Action),
			PayloadLen: uint16(payloadLen),
		}
		if err := binary.Write(w, binary.LittleEndian, &actHeader); err != nil {
			return fmt.Errorf("failed to write action %d: %w", act.Seq, err)
		}
		if payloadLen > 0 {
			if _, err := w.Write(act.Payload); err != nil {
				return fmt.Errorf("failed to write payload %d: %w", act.Seq, err)
			}
		}
	}

	return nil
}
