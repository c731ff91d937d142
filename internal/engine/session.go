package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers/actions"
	"github.com/michaldrozd/spellcross-sub000/internal/network"
	"github.com/michaldrozd/spellcross-sub000/internal/systems"
	"github.com/michaldrozd/spellcross-sub000/internal/version"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/michaldrozd/spellcross-sub000/pkg/scenario"
	"github.com/sirupsen/logrus"
)

// SessionOptions - настройки одного боя.
type SessionOptions struct {
	Seed            int64
	AIFactions      []domain.Faction // Стороны, за которые сессия ходит сама
	AIMaxIterations int
	AIJitter        float64
}

// Session представляет собой один изолированный бой.
// Ядро однопоточное, поэтому все обращения к состоянию идут под mu.
type Session struct {
	ID       string
	Scenario string

	mu        sync.Mutex
	Processor *TurnProcessor
	Replay    *domain.ReplaySession // Лента принятых команд
	Hub       *network.Broadcaster

	handlers map[domain.ActionType]handlers.HandlerFunc
	ai       map[domain.Faction]bool
	cursors  map[domain.Faction]int // Что уже разослано каждой стороне
	log      *logrus.Entry
}

// NewSession создает бой по сценарию. Боевой рандом сидируется Seed,
// рандом ИИ - Seed+1, чтобы решения ИИ не сдвигали броски.
func NewSession(id string, sc *scenario.Scenario, opts SessionOptions) *Session {
	state := CreateBattleState(sc.Map, sc.Sides, sc.StartingFaction, WithWeather(sc.Weather))

	combatRng := rand.New(rand.NewSource(opts.Seed))
	aiRng := rand.New(rand.NewSource(opts.Seed + 1))

	p := NewTurnProcessor(state, combatRng.Float64)
	p.AIOptions = systems.AIOptions{Rng: aiRng.Float64, Jitter: opts.AIJitter}
	if opts.AIMaxIterations > 0 {
		p.AIMaxIterations = opts.AIMaxIterations
	}

	s := &Session{
		ID:        id,
		Scenario:  sc.Name,
		Processor: p,
		Replay: &domain.ReplaySession{
			BattleID:      id,
			Scenario:      sc.Name,
			Seed:          opts.Seed,
			Timestamp:     time.Now().Unix(),
			RulesRevision: version.RulesRevision,
			Actions:       make([]domain.ReplayAction, 0),
		},
		Hub:      network.NewBroadcaster(),
		handlers: make(map[domain.ActionType]handlers.HandlerFunc),
		ai:       make(map[domain.Faction]bool),
		cursors:  make(map[domain.Faction]int),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "session",
			"battle_id": id,
		}),
	}
	for _, f := range opts.AIFactions {
		s.ai[f] = true
	}

	p.OnAccepted = s.recordAction
	s.registerHandlers()
	return s
}

func (s *Session) registerHandlers() {
	s.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[domain.ActionAttack] = handlers.WithPayload(actions.HandleAttack)
	s.handlers[domain.ActionEndTurn] = handlers.WithEmptyPayload(actions.HandleEndTurn)
	s.handlers[domain.ActionOverwatch] = handlers.WithPayload(actions.HandleOverwatch)
	s.handlers[domain.ActionEmbark] = handlers.WithPayload(actions.HandleEmbark)
	s.handlers[domain.ActionDisembark] = handlers.WithPayload(actions.HandleDisembark)
	s.handlers[domain.ActionPlanPath] = handlers.WithPayload(actions.HandlePlanPath)
	s.handlers[domain.ActionAITurn] = handlers.WithEmptyPayload(actions.HandleAITurn)
}

// Start отдаёт первый ход ИИ, если бой начинает его сторона.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runAutoAI()
	s.publish()
}

// Execute выполняет команду стороны faction. Go-ошибка означает битую команду
// (неизвестное действие, неверный payload); игровой отказ приходит в Result.Outcome.
func (s *Session) Execute(faction domain.Faction, action domain.ActionType, payload json.RawMessage) (handlers.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.dispatch(faction, action, payload)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"faction": faction,
			"action":  action,
		}).WithError(err).Warn("Command failed.")
		return res, err
	}

	if res.Outcome.Success && action != domain.ActionPlanPath {
		s.runAutoAI()
		s.publish()
	}
	return res, nil
}

func (s *Session) dispatch(faction domain.Faction, action domain.ActionType, payload json.RawMessage) (handlers.Result, error) {
	handler, ok := s.handlers[action]
	if !ok {
		return handlers.Result{}, fmt.Errorf("%w: %v", ErrUnknownCommand, action)
	}

	ctx := handlers.Context{
		State:    s.Processor.State,
		Commands: s.Processor,
		Faction:  faction,
	}
	return handler(ctx, payload)
}

// runAutoAI играет ход ИИ, если ход перешёл к управляемой сервером стороне.
func (s *Session) runAutoAI() {
	state := s.Processor.State
	if state.IsOver() || !s.ai[state.ActiveFaction] {
		return
	}
	s.Processor.RunAITurn(state.ActiveFaction)
}

// recordAction пишет принятую команду в реплей
func (s *Session) recordAction(action domain.ActionType, faction domain.Faction, payload any) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.log.WithError(err).Error("Failed to encode replay payload.")
			return
		}
		raw = data
	}

	s.Replay.Actions = append(s.Replay.Actions, domain.ReplayAction{
		Seq:     len(s.Replay.Actions),
		Round:   s.Processor.State.Round,
		Faction: faction,
		Action:  action,
		Payload: raw,
	})
}

// publish рассылает каждой наблюдаемой стороне её снимок с новыми событиями.
func (s *Session) publish() {
	for _, f := range domain.Factions() {
		if !s.Hub.Watching(f) {
			continue
		}
		snap := s.snapshot(f, s.cursors[f])
		s.cursors[f] = snap.Cursor
		s.Hub.BroadcastTo(f, *snap)
	}
}

func (s *Session) snapshot(f domain.Faction, cursor int) *api.ServerResponse {
	snap := BuildSnapshot(s.Processor.State, f, cursor)
	snap.BattleID = s.ID
	return snap
}

// Snapshot - снимок боя глазами стороны f с событиями начиная с cursor.
func (s *Session) Snapshot(f domain.Faction, cursor int) *api.ServerResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(f, cursor)
}

// Subscribe регистрирует подписчика и сразу отправляет ему полный снимок.
func (s *Session) Subscribe(subscriberID string, f domain.Faction) chan api.ServerResponse {
	s.mu.Lock()
	ch := s.Hub.Register(subscriberID, f)
	snap := s.snapshot(f, 0)
	s.cursors[f] = snap.Cursor
	s.Hub.SendTo(subscriberID, *snap)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"subscriber_id": subscriberID,
		"faction":       f,
	}).Info("Subscriber joined.")
	return ch
}

// Unsubscribe отключает подписчика.
func (s *Session) Unsubscribe(subscriberID string) {
	s.Hub.Unregister(subscriberID)
	s.log.WithField("subscriber_id", subscriberID).Info("Subscriber left.")
}

// ReplayCopy возвращает копию записи боя (для сохранения вне блокировки).
func (s *Session) ReplayCopy() domain.ReplaySession {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *s.Replay
	cp.Actions = append([]domain.ReplayAction(nil), s.Replay.Actions...)
	return cp
}

// IsOver - закончен ли бой.
func (s *Session) IsOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Processor.State.IsOver()
}

// Summary - краткое описание боя.
func (s *Session) Summary() api.BattleSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.Processor.State
	out := api.BattleSummary{
		ID:            s.ID,
		Scenario:      s.Scenario,
		Round:         state.Round,
		ActiveFaction: state.ActiveFaction.String(),
	}
	if state.IsOver() {
		out.Winner = state.Winner.String()
	}
	return out
}

// DebugUnits - копии всех юнитов без тумана войны (только для отладки).
func (s *Session) DebugUnits() []domain.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()

	units := s.Processor.State.AllUnits()
	out := make([]domain.Unit, 0, len(units))
	for _, u := range units {
		out = append(out, *u)
	}
	return out
}

// PreviewAI показывает, что ИИ сделал бы за сторону f прямо сейчас.
// Без jitter: генератор сессии не трогаем, иначе разойдётся реплей.
func (s *Session) PreviewAI(f domain.Faction) systems.AIAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return systems.DecideNextAIAction(s.Processor.State, f, systems.AIOptions{})
}
