package engine

import (
	"testing"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
)

func TestAttack_KillEndsBattle(t *testing.T) {
	state := newBattle(2, 1, domain.FactionPlayer,
		[]domain.UnitSpec{spec("p_sniper", sniperDef(), 0, 0)},
		[]domain.UnitSpec{spec("e_ghoul", ghoulDef(), 1, 0)},
	)
	p := NewTurnProcessor(state, alwaysHit)

	res := p.AttackUnit("p_sniper", "e_ghoul", "rifle")
	if !res.Success {
		t.Fatalf("attack rejected: %s", res.Error)
	}

	want := []domain.EventType{
		domain.EventUnitAttacked,
		domain.EventUnitDefeated,
		domain.EventUnitGainedXP,
		domain.EventBattleEnded,
	}
	if len(res.Events) != len(want) {
		t.Fatalf("events = %+v", res.Events)
	}
	for i, ev := range res.Events {
		if ev.Type != want[i] {
			t.Errorf("event %d = %v, want %v", i, ev.Type, want[i])
		}
	}

	// Винтовка 50 по пехоте без брони на равнине: 50 урона, в событии до ограничения здоровьем
	if attacked := res.Events[0]; !attacked.Hit || attacked.Damage != 50 {
		t.Errorf("unit:attacked hit=%v damage=%d, want hit 50", attacked.Hit, attacked.Damage)
	}
	ghoul := state.Unit("e_ghoul")
	if ghoul.Health != 0 || ghoul.Stance != domain.StanceDestroyed || !ghoul.IsDestroyed() {
		t.Errorf("ghoul health=%d stance=%v, want 0 destroyed", ghoul.Health, ghoul.Stance)
	}
	if state.Winner != domain.FactionPlayer {
		t.Errorf("Winner = %v, want player", state.Winner)
	}
	sniper := state.Unit("p_sniper")
	if sniper.AP != 4 || sniper.XP != domain.XPPerHit+domain.XPPerKill {
		t.Errorf("sniper AP=%v XP=%d", sniper.AP, sniper.XP)
	}

	// После конца боя любые команды отклоняются
	if res := p.EndTurn(); res.Success || res.Error != ErrBattleOver {
		t.Errorf("EndTurn after battle end = %+v", res)
	}
	if res := p.MoveUnit("p_sniper", []grid.Coord{{Q: 1, R: 0}}); res.Error != ErrBattleOver {
		t.Errorf("MoveUnit after battle end error = %q", res.Error)
	}
	if state.Timeline.Count(domain.EventBattleEnded) != 1 {
		t.Error("battle:ended must be written exactly once")
	}
}

func TestAttack_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		attacker domain.UnitID
		target   domain.UnitID
		weapon   string
		prepare  func(s *domain.BattleState)
		want     string
	}{
		{"unknown attacker", "nobody", "e_far", "rifle", nil, ErrUnitNotFound},
		{"unknown target", "p_sniper", "nobody", "rifle", nil, ErrTargetNotFound},
		{"not your turn", "e_far", "p_sniper", "claws", nil, ErrNotYourTurn},
		{"unknown weapon", "p_sniper", "e_near", "railgun", nil, ErrUnknownWeapon},
		{"friendly", "p_sniper", "p_buddy", "rifle", nil, ErrFriendlyTarget},
		{"out of range", "p_sniper", "e_far", "rifle", nil, ErrTargetOutOfRange},
		{"routed", "p_sniper", "e_near", "rifle", func(s *domain.BattleState) {
			u := s.Unit("p_sniper")
			u.Morale = 10
			u.RecomputeStance()
		}, ErrUnitRouted},
		{"no ap", "p_sniper", "e_near", "rifle", func(s *domain.BattleState) {
			s.Unit("p_sniper").AP = 1
		}, ErrNotEnoughAP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newBattle(9, 2, domain.FactionPlayer,
				[]domain.UnitSpec{
					spec("p_sniper", sniperDef(), 0, 0),
					spec("p_buddy", riflemanDef(), 0, 1),
				},
				[]domain.UnitSpec{
					spec("e_near", ghoulDef(), 2, 0),
					spec("e_far", ghoulDef(), 8, 0),
				},
			)
			if tt.prepare != nil {
				tt.prepare(state)
			}
			p := NewTurnProcessor(state, alwaysHit)
			before := len(state.Timeline)

			res := p.AttackUnit(tt.attacker, tt.target, tt.weapon)
			if res.Success {
				t.Fatal("attack should be rejected")
			}
			if res.Error != tt.want {
				t.Errorf("error = %q, want %q", res.Error, tt.want)
			}
			if len(state.Timeline) != before {
				t.Error("rejected command must not write events")
			}
		})
	}
}

func TestMove_Success(t *testing.T) {
	state := newBattle(6, 3, domain.FactionPlayer,
		[]domain.UnitSpec{spec("p_rifle", riflemanDef(), 0, 1)},
		[]domain.UnitSpec{spec("e_ghoul", ghoulDef(), 5, 2)},
	)
	p := NewTurnProcessor(state, alwaysHit)

	res := p.MoveUnit("p_rifle", []grid.Coord{{Q: 0, R: 1}, {Q: 1, R: 1}, {Q: 2, R: 1}})
	if !res.Success {
		t.Fatalf("move rejected: %s", res.Error)
	}

	u := state.Unit("p_rifle")
	if u.Coord != (grid.Coord{Q: 2, R: 1}) {
		t.Errorf("Coord = %v, want (2,1)", u.Coord)
	}
	if u.AP != 4 || !u.MovedThisTurn {
		t.Errorf("AP=%v moved=%v", u.AP, u.MovedThisTurn)
	}

	if len(res.Events) != 1 || res.Events[0].Type != domain.EventUnitMoved {
		t.Fatalf("events = %+v", res.Events)
	}
	ev := res.Events[0]
	if len(ev.Path) != 3 || ev.Path[0] != (grid.Coord{Q: 0, R: 1}) || ev.Cost != 2 {
		t.Errorf("moved event = %+v", ev)
	}
}

func TestMove_Rejections(t *testing.T) {
	tests := []struct {
		name string
		unit domain.UnitID
		path []grid.Coord
		want string
	}{
		{"unknown unit", "nobody", []grid.Coord{{Q: 1, R: 1}}, ErrUnitNotFound},
		{"not your turn", "e_ghoul", []grid.Coord{{Q: 7, R: 2}}, ErrNotYourTurn},
		{"only start", "p_rifle", []grid.Coord{{Q: 0, R: 1}}, ErrEmptyPath},
		{"empty", "p_rifle", nil, ErrEmptyPath},
		{"not adjacent", "p_rifle", []grid.Coord{{Q: 2, R: 1}}, ErrPathNotAdjacent},
		{"out of bounds", "p_rifle", []grid.Coord{{Q: -1, R: 1}}, ErrPathOutOfBounds},
		{"revisit", "p_rifle", []grid.Coord{{Q: 1, R: 1}, {Q: 0, R: 1}}, ErrPathRevisit},
		{"collision", "p_rifle", []grid.Coord{{Q: 1, R: 0}}, ErrPathCollision},
		{"water", "p_rifle", []grid.Coord{{Q: 0, R: 2}}, ErrPathImpassable},
		{"too long", "p_rifle", []grid.Coord{
			{Q: 1, R: 1}, {Q: 2, R: 1}, {Q: 3, R: 1}, {Q: 4, R: 1},
			{Q: 5, R: 1}, {Q: 6, R: 1}, {Q: 7, R: 1},
		}, ErrNotEnoughAP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newBattle(9, 3, domain.FactionPlayer,
				[]domain.UnitSpec{
					spec("p_rifle", riflemanDef(), 0, 1),
					spec("p_buddy", riflemanDef(), 1, 0),
				},
				[]domain.UnitSpec{spec("e_ghoul", ghoulDef(), 8, 2)},
			)
			state.Map.SetTile(grid.Coord{Q: 0, R: 2}, domain.NewTile(domain.TerrainWater))
			p := NewTurnProcessor(state, alwaysHit)

			res := p.MoveUnit(tt.unit, tt.path)
			if res.Success {
				t.Fatal("move should be rejected")
			}
			if res.Error != tt.want {
				t.Errorf("error = %q, want %q", res.Error, tt.want)
			}

			u := state.Unit("p_rifle")
			if u.Coord != (grid.Coord{Q: 0, R: 1}) || u.AP != u.MaxAP {
				t.Errorf("rejected move changed unit: coord=%v ap=%v", u.Coord, u.AP)
			}
		})
	}
}

func overwatchBattle() *domain.BattleState {
	state := newBattle(5, 2, domain.FactionPlayer,
		[]domain.UnitSpec{
			spec("p_rifle", riflemanDef(), 0, 0),
			spec("p_sniper", sniperDef(), 0, 1),
		},
		[]domain.UnitSpec{spec("e_heavy", heavyDef(), 4, 0)},
	)
	state.Unit("e_heavy").SetStatus(domain.StatusOverwatch)
	return state
}

func TestMove_OverwatchKillsMover(t *testing.T) {
	state := overwatchBattle()
	p := NewTurnProcessor(state, alwaysHit)

	res := p.MoveUnit("p_rifle", []grid.Coord{{Q: 1, R: 0}, {Q: 2, R: 0}})
	if !res.Success {
		t.Fatalf("move rejected: %s", res.Error)
	}

	u := state.Unit("p_rifle")
	if !u.IsDestroyed() {
		t.Fatal("mover should be destroyed by reaction fire")
	}
	if u.Coord != (grid.Coord{Q: 0, R: 0}) {
		t.Errorf("Coord = %v, want last completed tile (0,0)", u.Coord)
	}
	if u.AP != u.MaxAP {
		t.Errorf("AP = %v, the fatal step must not be paid", u.AP)
	}
	if state.Timeline.Count(domain.EventUnitMoved) != 0 {
		t.Error("killed mover must not produce unit:moved")
	}
	if state.Unit("e_heavy").HasStatus(domain.StatusOverwatch) {
		t.Error("watcher should leave overwatch after firing")
	}

	var reaction bool
	for _, ev := range res.Events {
		if ev.Type == domain.EventUnitAttacked && ev.Reaction && ev.UnitID == "e_heavy" {
			reaction = true
		}
	}
	if !reaction {
		t.Errorf("no reaction attack in %+v", res.Events)
	}
	if state.IsOver() {
		t.Error("player still has a sniper, battle must go on")
	}
}

func TestMove_OverwatchFiresOnce(t *testing.T) {
	state := overwatchBattle()
	p := NewTurnProcessor(state, alwaysMiss)

	res := p.MoveUnit("p_rifle", []grid.Coord{{Q: 1, R: 0}, {Q: 2, R: 0}})
	if !res.Success {
		t.Fatalf("move rejected: %s", res.Error)
	}

	u := state.Unit("p_rifle")
	if u.Coord != (grid.Coord{Q: 2, R: 0}) || u.AP != 4 {
		t.Errorf("coord=%v ap=%v", u.Coord, u.AP)
	}
	if n := state.Timeline.Count(domain.EventUnitAttacked); n != 1 {
		t.Errorf("reaction shots = %d, want 1", n)
	}
	if !hasEvent(res.Events, domain.EventUnitMoved) {
		t.Error("unit:moved missing")
	}
}

func TestSetOverwatch(t *testing.T) {
	state := newBattle(6, 2, domain.FactionPlayer,
		[]domain.UnitSpec{spec("p_rifle", riflemanDef(), 0, 0)},
		[]domain.UnitSpec{spec("e_ghoul", ghoulDef(), 5, 1)},
	)
	p := NewTurnProcessor(state, alwaysHit)

	res := p.SetOverwatch("p_rifle")
	if !res.Success {
		t.Fatalf("overwatch rejected: %s", res.Error)
	}
	u := state.Unit("p_rifle")
	if u.AP != 0 || !u.HasStatus(domain.StatusOverwatch) {
		t.Errorf("ap=%v status=%v", u.AP, u.Status)
	}
	if !hasEvent(res.Events, domain.EventUnitOverwatch) {
		t.Error("unit:overwatch missing")
	}

	// Держится в ход противника
	p.EndTurn()
	if !u.HasStatus(domain.StatusOverwatch) {
		t.Error("overwatch must last through the opponent's turn")
	}
	// Снимается в начале своего хода
	p.EndTurn()
	if u.HasStatus(domain.StatusOverwatch) {
		t.Error("overwatch must clear when own turn starts")
	}

	u.Morale = 10
	u.RecomputeStance()
	if res := p.SetOverwatch("p_rifle"); res.Error != ErrUnitRouted {
		t.Errorf("routed overwatch error = %q", res.Error)
	}
}

func TestEndTurn_RoundsAndAP(t *testing.T) {
	state := newBattle(6, 2, domain.FactionEnemy,
		[]domain.UnitSpec{spec("p_rifle", riflemanDef(), 0, 0)},
		[]domain.UnitSpec{spec("e_ghoul", ghoulDef(), 5, 1)},
	)
	p := NewTurnProcessor(state, alwaysHit)
	state.Unit("e_ghoul").AP = 1

	res := p.EndTurn()
	if !res.Success || state.ActiveFaction != domain.FactionPlayer || state.Round != 1 {
		t.Fatalf("after enemy end: active=%v round=%d", state.ActiveFaction, state.Round)
	}
	if state.Unit("e_ghoul").AP != 5 {
		t.Error("AP should be reset for all units")
	}
	ev := res.Events[0]
	if ev.Type != domain.EventRoundStarted || ev.Faction != domain.FactionPlayer || ev.Round != 1 {
		t.Errorf("round event = %+v", ev)
	}

	res = p.EndTurn()
	if state.ActiveFaction != domain.FactionEnemy || state.Round != 2 {
		t.Fatalf("after player end: active=%v round=%d", state.ActiveFaction, state.Round)
	}
	if res.Events[0].Round != 2 {
		t.Errorf("round:started carries round %d, want 2", res.Events[0].Round)
	}
}

func TestEndTurn_Entrenchment(t *testing.T) {
	state := newBattle(8, 2, domain.FactionPlayer,
		[]domain.UnitSpec{
			spec("p_still", riflemanDef(), 0, 0),
			spec("p_mover", riflemanDef(), 0, 1),
		},
		[]domain.UnitSpec{spec("e_ghoul", ghoulDef(), 7, 1)},
	)
	p := NewTurnProcessor(state, alwaysHit)

	if res := p.MoveUnit("p_mover", []grid.Coord{{Q: 1, R: 1}}); !res.Success {
		t.Fatalf("move rejected: %s", res.Error)
	}
	p.EndTurn()

	still, mover := state.Unit("p_still"), state.Unit("p_mover")
	if still.Entrenchment != 1 || mover.Entrenchment != 0 {
		t.Errorf("entrenchment still=%d mover=%d", still.Entrenchment, mover.Entrenchment)
	}
	if mover.MovedThisTurn {
		t.Error("MovedThisTurn should be cleared at turn end")
	}

	// Ещё четыре конца хода игрока: +1 за каждый, потолка нет
	for i := 0; i < 8; i++ {
		p.EndTurn()
	}
	if still.Entrenchment != 5 {
		t.Errorf("entrenchment = %d, want 5", still.Entrenchment)
	}
}

func TestEmbarkDisembark(t *testing.T) {
	state := newBattle(6, 2, domain.FactionPlayer,
		[]domain.UnitSpec{
			spec("p_rifle", riflemanDef(), 0, 0),
			spec("p_apc", apcDef(1), 1, 0),
			spec("p_other", riflemanDef(), 1, 1),
		},
		[]domain.UnitSpec{spec("e_ghoul", ghoulDef(), 5, 1)},
	)
	p := NewTurnProcessor(state, alwaysHit)
	rifle, apc := state.Unit("p_rifle"), state.Unit("p_apc")

	res := p.EmbarkUnit("p_rifle", "p_apc")
	if !res.Success {
		t.Fatalf("embark rejected: %s", res.Error)
	}
	if rifle.EmbarkedOn != "p_apc" || rifle.Coord != apc.Coord || rifle.AP != 5 {
		t.Errorf("rifle after embark: %+v", rifle)
	}
	if len(apc.Carrying) != 1 || apc.Carrying[0] != "p_rifle" {
		t.Errorf("Carrying = %v", apc.Carrying)
	}
	if state.OccupantAt(grid.Coord{Q: 0, R: 0}) != nil {
		t.Error("embarked unit must free its tile")
	}

	if res := p.EmbarkUnit("p_other", "p_apc"); res.Error != ErrTransportFull {
		t.Errorf("second embark error = %q", res.Error)
	}
	if res := p.EmbarkUnit("p_other", "p_rifle"); res.Error != ErrNotTransport {
		t.Errorf("embark on infantry error = %q", res.Error)
	}
	if res := p.MoveUnit("p_rifle", []grid.Coord{{Q: 0, R: 0}}); res.Error != ErrUnitEmbarked {
		t.Errorf("move while embarked error = %q", res.Error)
	}

	if res := p.MoveUnit("p_apc", []grid.Coord{{Q: 2, R: 0}}); !res.Success {
		t.Fatalf("apc move rejected: %s", res.Error)
	}
	if rifle.Coord != (grid.Coord{Q: 2, R: 0}) {
		t.Errorf("passenger did not follow carrier: %v", rifle.Coord)
	}

	if res := p.DisembarkUnit("p_rifle", grid.Coord{Q: 4, R: 0}); res.Error != ErrInvalidDestination {
		t.Errorf("far disembark error = %q", res.Error)
	}

	res = p.DisembarkUnit("p_rifle", grid.Coord{Q: 3, R: 0})
	if !res.Success {
		t.Fatalf("disembark rejected: %s", res.Error)
	}
	if rifle.IsEmbarked() || rifle.Coord != (grid.Coord{Q: 3, R: 0}) || rifle.AP != 4 {
		t.Errorf("rifle after disembark: %+v", rifle)
	}
	if len(apc.Carrying) != 0 {
		t.Errorf("Carrying = %v", apc.Carrying)
	}
	if !hasEvent(res.Events, domain.EventUnitDisembarked) {
		t.Error("unit:disembarked missing")
	}

	if res := p.DisembarkUnit("p_rifle", grid.Coord{Q: 4, R: 0}); res.Error != ErrNotEmbarked {
		t.Errorf("disembark when not embarked error = %q", res.Error)
	}
}

func TestEmbarked_EntrenchmentResetsOnMove(t *testing.T) {
	passenger := spec("p_rifle", riflemanDef(), 1, 0)
	passenger.EmbarkedOn = "p_apc"

	state := newBattle(8, 2, domain.FactionPlayer,
		[]domain.UnitSpec{spec("p_apc", apcDef(1), 1, 0), passenger},
		[]domain.UnitSpec{spec("e_ghoul", ghoulDef(), 7, 1)},
	)
	p := NewTurnProcessor(state, alwaysHit)
	rifle := state.Unit("p_rifle")

	// Носитель стоит: пассажир окапывается вместе с ним
	p.EndTurn()
	p.EndTurn()
	if rifle.Entrenchment != 1 {
		t.Fatalf("passenger in a parked carrier: entrenchment = %d, want 1", rifle.Entrenchment)
	}

	// Два хода носитель едет: окапывание сбрасывается и не копится
	for _, dest := range []grid.Coord{{Q: 2, R: 0}, {Q: 3, R: 0}} {
		if res := p.MoveUnit("p_apc", []grid.Coord{dest}); !res.Success {
			t.Fatalf("apc move rejected: %s", res.Error)
		}
		if rifle.Entrenchment != 0 || !rifle.MovedThisTurn {
			t.Errorf("passenger after carrier move: entrenchment=%d moved=%v", rifle.Entrenchment, rifle.MovedThisTurn)
		}
		p.EndTurn()
		p.EndTurn()
		if rifle.Entrenchment != 0 {
			t.Errorf("passenger of a moving carrier entrenched to %d", rifle.Entrenchment)
		}
	}

	// Носитель снова стоит, пассажир окапывается, высадка сбрасывает
	p.EndTurn()
	p.EndTurn()
	if rifle.Entrenchment != 1 {
		t.Fatalf("entrenchment before disembark = %d, want 1", rifle.Entrenchment)
	}
	if res := p.DisembarkUnit("p_rifle", grid.Coord{Q: 4, R: 0}); !res.Success {
		t.Fatalf("disembark rejected: %s", res.Error)
	}
	if rifle.Entrenchment != 0 {
		t.Errorf("entrenchment after disembark = %d, want 0", rifle.Entrenchment)
	}
}

func TestAttack_KillingCarrierKillsPassengers(t *testing.T) {
	passenger := spec("p_rifle", riflemanDef(), 0, 0)
	passenger.EmbarkedOn = "p_apc"

	state := newBattle(6, 2, domain.FactionEnemy,
		[]domain.UnitSpec{
			spec("p_apc", apcDef(2), 2, 0),
			passenger,
			spec("p_sniper", sniperDef(), 5, 1),
		},
		[]domain.UnitSpec{spec("e_heavy", heavyDef(), 0, 0)},
	)
	p := NewTurnProcessor(state, alwaysHit)

	res := p.AttackUnit("e_heavy", "p_apc", "cannon")
	if !res.Success {
		t.Fatalf("attack rejected: %s", res.Error)
	}
	if !state.Unit("p_apc").IsDestroyed() || !state.Unit("p_rifle").IsDestroyed() {
		t.Fatal("carrier and passenger should both be destroyed")
	}
	if n := state.Timeline.Count(domain.EventUnitDefeated); n != 2 {
		t.Errorf("unit:defeated count = %d, want 2", n)
	}
	if state.IsOver() {
		t.Error("sniper survives, battle must go on")
	}
}

func TestPlanPath_DoesNotMutate(t *testing.T) {
	state := newBattle(6, 2, domain.FactionPlayer,
		[]domain.UnitSpec{spec("p_rifle", riflemanDef(), 0, 0)},
		[]domain.UnitSpec{spec("e_ghoul", ghoulDef(), 5, 1)},
	)
	p := NewTurnProcessor(state, alwaysHit)

	plan := p.PlanPath("p_rifle", grid.Coord{Q: 3, R: 0})
	if !plan.Success {
		t.Fatalf("plan failed: %s", plan.Reason)
	}
	u := state.Unit("p_rifle")
	if u.Coord != (grid.Coord{Q: 0, R: 0}) || u.AP != u.MaxAP || len(state.Timeline) != 0 {
		t.Error("PlanPath must not change state")
	}
}
