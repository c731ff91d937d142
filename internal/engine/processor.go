package engine

import (
	"math/rand"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/internal/systems"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// AcceptedHook получает каждую принятую команду, меняющую состояние
// (для записи реплея). payload - DTO из pkg/api.
type AcceptedHook func(action domain.ActionType, faction domain.Faction, payload any)

// TurnProcessor - единственная точка изменения состояния боя.
// Однопоточный: параллельный доступ должен сериализовать вызывающий (см. Session).
type TurnProcessor struct {
	State *domain.BattleState
	Rng   systems.RandomSource

	// Настройки встроенного ИИ для RunAITurn
	AIOptions       systems.AIOptions
	AIMaxIterations int

	OnAccepted AcceptedHook
}

// NewTurnProcessor создаёт процессор. nil rng - глобальный генератор (только для отладки).
func NewTurnProcessor(state *domain.BattleState, rng systems.RandomSource) *TurnProcessor {
	if rng == nil {
		rng = rand.Float64
	}
	return &TurnProcessor{
		State:           state,
		Rng:             rng,
		AIMaxIterations: DefaultAIMaxIterations,
	}
}

func (p *TurnProcessor) logger() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"component": "turn_processor",
		"round":     p.State.Round,
		"active":    p.State.ActiveFaction,
	})
}

func (p *TurnProcessor) reject(action domain.ActionType, unitID domain.UnitID, msg string) domain.ActionResult {
	p.logger().WithFields(logrus.Fields{
		"action":  action,
		"unit_id": unitID,
		"reason":  msg,
	}).Debug("Command rejected.")
	return domain.Rejected(msg)
}

func (p *TurnProcessor) accept(action domain.ActionType, faction domain.Faction, payload any, events []domain.BattleEvent) domain.ActionResult {
	if p.OnAccepted != nil {
		p.OnAccepted(action, faction, payload)
	}
	return domain.Accepted(events)
}

// guardActor - общие проверки для юнита, который выполняет команду.
func (p *TurnProcessor) guardActor(id domain.UnitID) (*domain.Unit, string) {
	if p.State.IsOver() {
		return nil, ErrBattleOver
	}
	u := p.State.Unit(id)
	if u == nil {
		return nil, ErrUnitNotFound
	}
	if u.Faction != p.State.ActiveFaction {
		return nil, ErrNotYourTurn
	}
	if u.IsDestroyed() {
		return nil, ErrUnitDestroyed
	}
	return u, ""
}

// --- MOVE ---

// MoveUnit ведёт юнита по пути. Путь может начинаться с текущей клетки юнита.
// Весь путь проверяется до начала движения; на каждом шаге враги на overwatch
// могут открыть огонь. Гибель юнита останавливает движение на последней
// пройденной клетке, unit:moved в этом случае не пишется.
func (p *TurnProcessor) MoveUnit(unitID domain.UnitID, path []grid.Coord) domain.ActionResult {
	u, msg := p.guardActor(unitID)
	if msg != "" {
		return p.reject(domain.ActionMove, unitID, msg)
	}
	if u.IsEmbarked() {
		return p.reject(domain.ActionMove, unitID, ErrUnitEmbarked)
	}

	steps := path
	if len(steps) > 0 && steps[0] == u.Coord {
		steps = steps[1:]
	}
	if len(steps) == 0 {
		return p.reject(domain.ActionMove, unitID, ErrEmptyPath)
	}
	if msg := p.validatePath(u, steps); msg != "" {
		return p.reject(domain.ActionMove, unitID, msg)
	}

	events, walked, spent, killed := p.advance(u, steps)

	if len(walked) > 1 {
		u.MovedThisTurn = true
		u.Entrenchment = 0
		p.syncCargo(u)
		if !killed {
			events = append(events, p.State.AppendEvents(domain.BattleEvent{
				Type:    domain.EventUnitMoved,
				Faction: u.Faction,
				UnitID:  u.ID,
				Path:    walked,
				Cost:    spent,
			})...)
		}
	}

	systems.UpdateAllFactionsVision(p.State)
	events = append(events, p.checkVictory()...)

	p.logger().WithFields(logrus.Fields{
		"unit_id": u.ID,
		"steps":   len(walked) - 1,
		"planned": len(steps),
		"cost":    spent,
		"ap_left": u.AP,
		"killed":  killed,
	}).Info("Unit moved.")

	return p.accept(domain.ActionMove, u.Faction, api.MovePayload{UnitID: string(u.ID), Path: toDTO(steps)}, events)
}

func (p *TurnProcessor) validatePath(u *domain.Unit, steps []grid.Coord) string {
	m := p.State.Map
	prev := u.Coord
	visited := map[grid.Coord]bool{prev: true}
	total := 0.0

	for _, c := range steps {
		if !m.InBounds(c) {
			return ErrPathOutOfBounds
		}
		if !m.Layout.Adjacent(prev, c) {
			return ErrPathNotAdjacent
		}
		if visited[c] {
			return ErrPathRevisit
		}
		if p.State.IsOccupied(c, u.ID) {
			return ErrPathCollision
		}
		cost, ok := systems.StepCost(m, u, prev, c)
		if !ok {
			return ErrPathImpassable
		}
		total += cost
		visited[c] = true
		prev = c
	}

	if total > u.AP+domain.CostEpsilon {
		return ErrNotEnoughAP
	}
	return ""
}

// advance проводит юнита по уже проверенному пути с учётом огня с overwatch.
// Возвращает события реакций, пройденные клетки (включая старт), потраченные AP
// и признак гибели юнита.
func (p *TurnProcessor) advance(u *domain.Unit, steps []grid.Coord) ([]domain.BattleEvent, []grid.Coord, float64, bool) {
	m := p.State.Map
	var events []domain.BattleEvent
	walked := []grid.Coord{u.Coord}
	spent := 0.0

	for _, c := range steps {
		prev := u.Coord
		// Стойка могла ухудшиться от огня: пересчитываем стоимость шага
		cost, ok := systems.StepCost(m, u, prev, c)
		if !ok || !u.HasAP(cost) {
			break
		}

		// Юнит входит на клетку, шаг ещё не зафиксирован
		u.Coord = c
		for _, watcher := range p.State.FactionUnits(u.Faction.Opponent()) {
			weaponID, ok := systems.CanReact(m, watcher, u)
			if !ok {
				continue
			}
			out := systems.ResolveAttack(systems.AttackInput{
				Map:      m,
				Attacker: watcher,
				Defender: u,
				WeaponID: weaponID,
				Rng:      p.Rng,
				Reaction: true,
			})
			watcher.ClearStatus(domain.StatusOverwatch)
			events = append(events, p.State.AppendEvents(out.Events...)...)

			if out.Killed {
				u.Coord = prev
				events = append(events, p.destroyCargo(u, watcher)...)
				return events, walked, spent, true
			}
		}

		u.SpendAP(cost)
		spent += cost
		u.Facing = m.Layout.DirectionIndex(prev, c)
		walked = append(walked, c)
	}

	return events, walked, spent, false
}

// syncCargo переносит пассажиров вместе с носителем. Для пассажира это тоже
// движение: окапывание сбрасывается.
func (p *TurnProcessor) syncCargo(carrier *domain.Unit) {
	for _, id := range carrier.Carrying {
		if passenger := p.State.Unit(id); passenger != nil {
			passenger.Coord = carrier.Coord
			passenger.MovedThisTurn = true
			passenger.Entrenchment = 0
		}
	}
}

// destroyCargo уничтожает пассажиров погибшего носителя.
func (p *TurnProcessor) destroyCargo(carrier, killer *domain.Unit) []domain.BattleEvent {
	var events []domain.BattleEvent
	for _, id := range carrier.Carrying {
		passenger := p.State.Unit(id)
		if passenger == nil || passenger.IsDestroyed() {
			continue
		}
		passenger.Coord = carrier.Coord
		passenger.TakeDamage(passenger.Health, 0)
		events = append(events, p.State.AppendEvents(domain.BattleEvent{
			Type:     domain.EventUnitDefeated,
			Faction:  passenger.Faction,
			UnitID:   passenger.ID,
			TargetID: killer.ID,
		})...)
	}
	return events
}

// --- ATTACK ---

// AttackUnit стреляет attackerID по defenderID из weaponID.
func (p *TurnProcessor) AttackUnit(attackerID, defenderID domain.UnitID, weaponID string) domain.ActionResult {
	attacker, msg := p.guardActor(attackerID)
	if msg != "" {
		return p.reject(domain.ActionAttack, attackerID, msg)
	}
	defender := p.State.Unit(defenderID)
	if defender == nil {
		return p.reject(domain.ActionAttack, attackerID, ErrTargetNotFound)
	}

	m := p.State.Map
	if v := systems.ValidateAttack(m, attacker, defender, weaponID); !v.Valid {
		return p.reject(domain.ActionAttack, attackerID, v.Message)
	}

	attacker.SpendAP(domain.AttackCost)
	out := systems.ResolveAttack(systems.AttackInput{
		Map:      m,
		Attacker: attacker,
		Defender: defender,
		WeaponID: weaponID,
		Rng:      p.Rng,
	})

	events := p.State.AppendEvents(out.Events...)
	if out.Killed {
		events = append(events, p.destroyCargo(defender, attacker)...)
	}

	// Убийство меняет видимость обеих сторон
	systems.UpdateAllFactionsVision(p.State)
	events = append(events, p.checkVictory()...)

	payload := api.AttackPayload{AttackerID: string(attackerID), DefenderID: string(defenderID), WeaponID: weaponID}
	return p.accept(domain.ActionAttack, attacker.Faction, payload, events)
}

// --- END TURN ---

// EndTurn завершает ход активной стороны. Раунд растёт, когда ходила вторая сторона.
func (p *TurnProcessor) EndTurn() domain.ActionResult {
	if p.State.IsOver() {
		return p.reject(domain.ActionEndTurn, "", ErrBattleOver)
	}

	ending := p.State.ActiveFaction
	systems.ApplyTurnEndRecovery(p.State, ending)
	for _, u := range p.State.FactionUnits(ending) {
		u.MovedThisTurn = false
	}

	next := ending.Opponent()
	if ending != p.State.FirstFaction {
		p.State.Round++
	}
	p.State.ActiveFaction = next

	for _, u := range p.State.AllUnits() {
		u.ResetAP()
	}
	// Overwatch держится только до начала следующего хода своей стороны
	for _, u := range p.State.FactionUnits(next) {
		u.ClearStatus(domain.StatusOverwatch)
	}

	events := p.State.AppendEvents(domain.BattleEvent{
		Type:    domain.EventRoundStarted,
		Faction: next,
		Round:   p.State.Round,
	})
	systems.UpdateAllFactionsVision(p.State)

	p.logger().WithField("ended", ending).Info("Turn ended.")
	return p.accept(domain.ActionEndTurn, ending, nil, events)
}

// --- OVERWATCH ---

// SetOverwatch тратит все оставшиеся AP юнита и ставит его в режим ответного огня.
func (p *TurnProcessor) SetOverwatch(unitID domain.UnitID) domain.ActionResult {
	u, msg := p.guardActor(unitID)
	if msg != "" {
		return p.reject(domain.ActionOverwatch, unitID, msg)
	}
	switch {
	case u.IsEmbarked():
		return p.reject(domain.ActionOverwatch, unitID, ErrUnitEmbarked)
	case u.Stance == domain.StanceRouted:
		return p.reject(domain.ActionOverwatch, unitID, ErrUnitRouted)
	case len(u.Weapons) == 0:
		return p.reject(domain.ActionOverwatch, unitID, ErrNoWeapons)
	case !systems.CanAffordAttack(u):
		return p.reject(domain.ActionOverwatch, unitID, ErrNotEnoughAP)
	}

	u.AP = 0
	u.SetStatus(domain.StatusOverwatch)
	events := p.State.AppendEvents(domain.BattleEvent{
		Type:    domain.EventUnitOverwatch,
		Faction: u.Faction,
		UnitID:  u.ID,
	})

	return p.accept(domain.ActionOverwatch, u.Faction, api.UnitPayload{UnitID: string(u.ID)}, events)
}

// --- EMBARK / DISEMBARK ---

// EmbarkUnit сажает пехотинца или героя в соседний транспорт своей стороны.
func (p *TurnProcessor) EmbarkUnit(unitID, carrierID domain.UnitID) domain.ActionResult {
	u, msg := p.guardActor(unitID)
	if msg != "" {
		return p.reject(domain.ActionEmbark, unitID, msg)
	}
	if u.IsEmbarked() {
		return p.reject(domain.ActionEmbark, unitID, ErrUnitEmbarked)
	}

	carrier := p.State.Unit(carrierID)
	switch {
	case carrier == nil:
		return p.reject(domain.ActionEmbark, unitID, ErrTargetNotFound)
	case carrier.Faction != u.Faction || !carrier.IsOnField() || carrier.TransportCapacity <= 0:
		return p.reject(domain.ActionEmbark, unitID, ErrNotTransport)
	case !canEmbark(u.Type):
		return p.reject(domain.ActionEmbark, unitID, ErrCannotEmbark)
	case !p.State.Map.Layout.Adjacent(u.Coord, carrier.Coord):
		return p.reject(domain.ActionEmbark, unitID, ErrNotAdjacent)
	case carrier.FreeCapacity() <= 0:
		return p.reject(domain.ActionEmbark, unitID, ErrTransportFull)
	case !u.HasAP(domain.EmbarkCost):
		return p.reject(domain.ActionEmbark, unitID, ErrNotEnoughAP)
	}

	from := u.Coord
	u.SpendAP(domain.EmbarkCost)
	u.EmbarkedOn = carrier.ID
	u.Coord = carrier.Coord
	u.MovedThisTurn = true
	u.Entrenchment = 0
	u.ClearStatus(domain.StatusOverwatch)
	u.ClearStatus(domain.StatusSpotted)
	carrier.Carrying = append(carrier.Carrying, u.ID)

	events := p.State.AppendEvents(domain.BattleEvent{
		Type:     domain.EventUnitEmbarked,
		Faction:  u.Faction,
		UnitID:   u.ID,
		TargetID: carrier.ID,
		Path:     []grid.Coord{from, carrier.Coord},
		Cost:     domain.EmbarkCost,
	})
	systems.UpdateAllFactionsVision(p.State)

	return p.accept(domain.ActionEmbark, u.Faction, api.EmbarkPayload{UnitID: string(u.ID), CarrierID: string(carrier.ID)}, events)
}

// DisembarkUnit высаживает пассажира на свободную клетку рядом с носителем.
func (p *TurnProcessor) DisembarkUnit(unitID domain.UnitID, dest grid.Coord) domain.ActionResult {
	u, msg := p.guardActor(unitID)
	if msg != "" {
		return p.reject(domain.ActionDisembark, unitID, msg)
	}
	if !u.IsEmbarked() {
		return p.reject(domain.ActionDisembark, unitID, ErrNotEmbarked)
	}
	carrier := p.State.Unit(u.EmbarkedOn)
	if carrier == nil {
		return p.reject(domain.ActionDisembark, unitID, ErrNotEmbarked)
	}

	m := p.State.Map
	switch {
	case !m.InBounds(dest) || !m.Layout.Adjacent(carrier.Coord, dest):
		return p.reject(domain.ActionDisembark, unitID, ErrInvalidDestination)
	case !systems.CanEnter(u.Type, m.Tile(dest)):
		return p.reject(domain.ActionDisembark, unitID, ErrPathImpassable)
	case p.State.IsOccupied(dest, u.ID):
		return p.reject(domain.ActionDisembark, unitID, ErrPathCollision)
	case !u.HasAP(domain.DisembarkCost):
		return p.reject(domain.ActionDisembark, unitID, ErrNotEnoughAP)
	}

	u.SpendAP(domain.DisembarkCost)
	u.EmbarkedOn = ""
	u.Coord = dest
	u.Facing = m.Layout.DirectionIndex(carrier.Coord, dest)
	u.MovedThisTurn = true
	u.Entrenchment = 0
	carrier.Carrying = removeID(carrier.Carrying, u.ID)

	events := p.State.AppendEvents(domain.BattleEvent{
		Type:     domain.EventUnitDisembarked,
		Faction:  u.Faction,
		UnitID:   u.ID,
		TargetID: carrier.ID,
		Path:     []grid.Coord{carrier.Coord, dest},
		Cost:     domain.DisembarkCost,
	})
	systems.UpdateAllFactionsVision(p.State)

	payload := api.DestinationPayload{UnitID: string(u.ID), Destination: api.CoordDTO{Q: dest.Q, R: dest.R}}
	return p.accept(domain.ActionDisembark, u.Faction, payload, events)
}

// --- PLAN PATH ---

// PlanPath - превью пути без изменения состояния.
func (p *TurnProcessor) PlanPath(unitID domain.UnitID, dest grid.Coord) systems.PathResult {
	return systems.PlanPathForUnit(p.State, unitID, dest)
}

// --- ИСХОД БОЯ ---

// checkVictory объявляет победителя, когда у одной из сторон не осталось живых юнитов.
func (p *TurnProcessor) checkVictory() []domain.BattleEvent {
	if p.State.IsOver() {
		return nil
	}
	for _, f := range domain.Factions() {
		if p.State.LiveUnits(f) > 0 {
			continue
		}
		winner := f.Opponent()
		if p.State.LiveUnits(winner) == 0 {
			winner = p.State.ActiveFaction
		}
		p.State.Winner = winner
		p.logger().WithField("winner", winner).Info("Battle ended.")
		return p.State.AppendEvents(domain.BattleEvent{
			Type:   domain.EventBattleEnded,
			Winner: winner,
		})
	}
	return nil
}

func removeID(ids []domain.UnitID, id domain.UnitID) []domain.UnitID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func toDTO(path []grid.Coord) []api.CoordDTO {
	out := make([]api.CoordDTO, len(path))
	for i, c := range path {
		out[i] = api.CoordDTO{Q: c.Q, R: c.R}
	}
	return out
}
