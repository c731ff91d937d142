package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"
	"github.com/michaldrozd/spellcross-sub000/internal/infrastructure/storage"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/michaldrozd/spellcross-sub000/pkg/scenario"
	"github.com/michaldrozd/spellcross-sub000/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Размер случайной стычки, если сценарий не указан
const (
	DefaultSkirmishWidth  = 14
	DefaultSkirmishHeight = 9
)

// BattleService держит все запущенные бои.
type BattleService struct {
	Config  Config
	Replays *storage.ReplayService

	mu       sync.RWMutex
	sessions map[string]*Session
	created  int64 // Счётчик созданных боёв, сдвигает сид
}

func NewBattleService(cfg Config) *BattleService {
	return &BattleService{
		Config:   cfg,
		Replays:  storage.NewReplayService(cfg.ReplayDir),
		sessions: make(map[string]*Session),
	}
}

// CreateBattle запускает бой по имени сценария. Пустое имя - сценарий
// по умолчанию из конфига, а если и он пуст - случайная стычка.
func (s *BattleService) CreateBattle(name string) (*Session, error) {
	if name == "" {
		name = s.Config.DefaultScenario
	}
	if name == "" {
		name = scenario.GeneratedName(DefaultSkirmishWidth, DefaultSkirmishHeight, s.Config.Weather)
	}

	s.mu.Lock()
	seed := s.Config.Seed + s.created
	s.created++
	s.mu.Unlock()

	sc, err := scenario.Named(s.Config.ScenarioDir, name, seed)
	if err != nil {
		return nil, err
	}

	id := utils.NewBattleID()
	session := NewSession(id, sc, SessionOptions{
		Seed:            seed,
		AIFactions:      s.Config.AIFactions,
		AIMaxIterations: s.Config.AIMaxIterations,
		AIJitter:        s.Config.AIJitter,
	})

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"component": "battle_service",
		"battle_id": id,
		"scenario":  sc.Name,
		"seed":      seed,
	}).Info("Battle created.")

	session.Start()
	return session, nil
}

// Session возвращает бой по ID.
func (s *BattleService) Session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBattleNotFound, id)
	}
	return session, nil
}

// Sessions - ID всех боёв по возрастанию.
func (s *BattleService) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Execute разбирает внешнюю команду и передаёт её в бой.
func (s *BattleService) Execute(battleID string, cmd api.ClientCommand) (handlers.Result, error) {
	session, err := s.Session(battleID)
	if err != nil {
		return handlers.Result{}, err
	}

	action := domain.ParseAction(cmd.Action)
	if action == domain.ActionUnknown {
		return handlers.Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Action)
	}
	faction := domain.ParseFaction(cmd.Faction)
	if faction == domain.FactionNone {
		return handlers.Result{}, fmt.Errorf("%w: %q", ErrUnknownFaction, cmd.Faction)
	}

	return session.Execute(faction, action, cmd.Payload)
}

// SaveReplay пишет запись боя на диск.
func (s *BattleService) SaveReplay(battleID string) (api.ReplaySaved, error) {
	session, err := s.Session(battleID)
	if err != nil {
		return api.ReplaySaved{}, err
	}
	replay := session.ReplayCopy()
	path, err := s.Replays.Save(&replay)
	if err != nil {
		return api.ReplaySaved{}, err
	}
	return api.ReplaySaved{Path: path, Actions: len(replay.Actions)}, nil
}

// Remove завершает бой и отключает его подписчиков.
func (s *BattleService) Remove(battleID string) {
	s.mu.Lock()
	session, ok := s.sessions[battleID]
	delete(s.sessions, battleID)
	s.mu.Unlock()

	if !ok {
		return
	}
	session.Hub.Close()
}
