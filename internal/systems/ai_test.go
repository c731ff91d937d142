package systems

import (
	"testing"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
)

func TestDecideNextAIAction_PrefersBestAttack(t *testing.T) {
	s := newTestState(10, 1, grid.LayoutHex)
	def := sniperDef()
	def.Weapons["pistol"] = domain.Weapon{Range: 3, Power: 10, Accuracy: 0.95}
	addUnit(s, "sniper", domain.FactionPlayer, def, grid.Coord{Q: 0, R: 0})
	addUnit(s, "ghoul", domain.FactionEnemy, ghoulDef(), grid.Coord{Q: 3, R: 0})
	UpdateAllFactionsVision(s)

	action := DecideNextAIAction(s, domain.FactionPlayer, AIOptions{})
	if action.Type != AIAttack || action.UnitID != "sniper" || action.TargetID != "ghoul" || action.WeaponID != "rifle" {
		t.Errorf("expected rifle attack on ghoul, got %+v", action)
	}
	if action.Score <= 0 {
		t.Errorf("attack score must be positive, got %v", action.Score)
	}
}

func TestDecideNextAIAction_ScoutingApproach(t *testing.T) {
	s := newTestState(12, 1, grid.LayoutHex)
	addUnit(s, "sniper", domain.FactionPlayer, sniperDef(), grid.Coord{Q: 0, R: 0})
	ghoul := addUnit(s, "ghoul", domain.FactionEnemy, ghoulDef(), grid.Coord{Q: 11, R: 0})
	s.ActiveFaction = domain.FactionEnemy
	UpdateAllFactionsVision(s)

	action := DecideNextAIAction(s, domain.FactionEnemy, AIOptions{})
	if action.Type != AIMove || action.UnitID != ghoul.ID {
		t.Fatalf("expected ghoul to move, got %+v", action)
	}
	if action.Path[0] != ghoul.Coord {
		t.Errorf("path must start at the unit, got %v", action.Path)
	}
	if steps := len(action.Path) - 1; steps < 1 || steps > AIScoutStepCap {
		t.Errorf("scouting move took %d steps, want 1..%d", steps, AIScoutStepCap)
	}
	last := action.Path[len(action.Path)-1]
	if s.Map.Distance(last, grid.Coord{Q: 0, R: 0}) >= s.Map.Distance(ghoul.Coord, grid.Coord{Q: 0, R: 0}) {
		t.Errorf("move must close distance, ended at %v", last)
	}

	res := FindPath(s.Map, ghoul, ghoul.Coord, last, ghoul.AP, func(c grid.Coord) bool { return s.IsOccupied(c, ghoul.ID) })
	if !res.Success {
		t.Errorf("AI path must be affordable, got %+v", res)
	}
}

func TestDecideNextAIAction_StepCapOutsideScouting(t *testing.T) {
	s := newTestState(12, 1, grid.LayoutHex)
	addUnit(s, "sniper", domain.FactionPlayer, sniperDef(), grid.Coord{Q: 0, R: 0})
	def := ghoulDef()
	def.Vision = 12
	ghoul := addUnit(s, "ghoul", domain.FactionEnemy, def, grid.Coord{Q: 7, R: 0})
	s.ActiveFaction = domain.FactionEnemy
	s.Round = 3
	UpdateAllFactionsVision(s)

	action := DecideNextAIAction(s, domain.FactionEnemy, AIOptions{})
	if action.Type != AIMove || action.UnitID != ghoul.ID {
		t.Fatalf("expected ghoul to move, got %+v", action)
	}
	if steps := len(action.Path) - 1; steps != AIStepCap {
		t.Errorf("non-scouting move took %d steps, want %d", steps, AIStepCap)
	}
}

func TestDecideNextAIAction_EndTurn(t *testing.T) {
	s := newTestState(6, 1, grid.LayoutHex)
	addUnit(s, "sniper", domain.FactionPlayer, sniperDef(), grid.Coord{Q: 0, R: 0})
	ghoul := addUnit(s, "ghoul", domain.FactionEnemy, ghoulDef(), grid.Coord{Q: 5, R: 0})
	UpdateAllFactionsVision(s)

	if action := DecideNextAIAction(s, domain.FactionEnemy, AIOptions{}); action.Type != AIEndTurn {
		t.Errorf("not the enemy's turn: got %+v", action)
	}

	s.ActiveFaction = domain.FactionEnemy
	ghoul.AP = 0
	if action := DecideNextAIAction(s, domain.FactionEnemy, AIOptions{}); action.Type != AIEndTurn {
		t.Errorf("no AP left: got %+v", action)
	}
}

func TestDecideNextAIAction_JitterIsSeedable(t *testing.T) {
	build := func() *domain.BattleState {
		s := newTestState(8, 8, grid.LayoutIso)
		addUnit(s, "sniper", domain.FactionPlayer, sniperDef(), grid.Coord{Q: 0, R: 0})
		addUnit(s, "ghoul", domain.FactionEnemy, ghoulDef(), grid.Coord{Q: 7, R: 7})
		s.ActiveFaction = domain.FactionEnemy
		UpdateAllFactionsVision(s)
		return s
	}
	seq := func() RandomSource {
		vals := []float64{0.1, 0.9, 0.4, 0.6, 0.3}
		i := 0
		return func() float64 {
			v := vals[i%len(vals)]
			i++
			return v
		}
	}

	a := DecideNextAIAction(build(), domain.FactionEnemy, AIOptions{Rng: seq(), Jitter: 0.5})
	b := DecideNextAIAction(build(), domain.FactionEnemy, AIOptions{Rng: seq(), Jitter: 0.5})
	if a.Type != b.Type || len(a.Path) != len(b.Path) {
		t.Fatalf("same seed gave different actions: %+v vs %+v", a, b)
	}
	for i := range a.Path {
		if a.Path[i] != b.Path[i] {
			t.Errorf("same seed gave different paths: %v vs %v", a.Path, b.Path)
		}
	}
}

func TestTileThreat(t *testing.T) {
	s := newTestState(10, 1, grid.LayoutHex)
	addUnit(s, "sniper", domain.FactionPlayer, sniperDef(), grid.Coord{Q: 0, R: 0})
	ghoul := addUnit(s, "ghoul", domain.FactionEnemy, ghoulDef(), grid.Coord{Q: 9, R: 0})

	if got := TileThreat(s, ghoul, grid.Coord{Q: 9, R: 0}); got != 0 {
		t.Errorf("tile outside sniper range should be safe, got %v", got)
	}
	if got := TileThreat(s, ghoul, grid.Coord{Q: 4, R: 0}); got <= 0 {
		t.Errorf("tile in sniper range should be threatened, got %v", got)
	}
}
