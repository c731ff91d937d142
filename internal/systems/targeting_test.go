package systems

import (
	"testing"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
)

func TestValidateAttack(t *testing.T) {
	tests := []struct {
		name    string
		weapon  string
		prepare func(s *domain.BattleState, a, d *domain.Unit)
		want    string
	}{
		{"valid", "rifle", func(s *domain.BattleState, a, d *domain.Unit) {}, ""},
		{"not enough AP", "rifle", func(s *domain.BattleState, a, d *domain.Unit) { a.AP = 1.5 }, MsgNotEnoughAP},
		{"routed attacker", "rifle", func(s *domain.BattleState, a, d *domain.Unit) {
			a.Morale = 15
			a.RecomputeStance()
		}, MsgUnitRouted},
		{"unknown weapon", "railgun", func(s *domain.BattleState, a, d *domain.Unit) {}, MsgUnknownWeapon},
		{"friendly fire", "rifle", func(s *domain.BattleState, a, d *domain.Unit) { d.Faction = a.Faction }, MsgFriendlyTarget},
		{"destroyed target", "rifle", func(s *domain.BattleState, a, d *domain.Unit) { d.TakeDamage(1000, 0) }, MsgTargetDestroyed},
		{"restricted target", "rifle", func(s *domain.BattleState, a, d *domain.Unit) {
			w := a.Weapons["rifle"]
			w.Targets = []domain.UnitType{domain.UnitTypeAir}
			a.Weapons["rifle"] = w
		}, MsgTargetRestricted},
		{"out of range", "rifle", func(s *domain.BattleState, a, d *domain.Unit) { d.Coord = grid.Coord{Q: 9, R: 0} }, MsgTargetOutOfRange},
		{"no line of sight", "rifle", func(s *domain.BattleState, a, d *domain.Unit) {
			setTerrain(s, grid.Coord{Q: 2, R: 0}, domain.TerrainStructure)
		}, MsgNoLineOfSight},
		{"out of ammo", "rifle", func(s *domain.BattleState, a, d *domain.Unit) {
			a.AmmoCapacity = 4
			a.Ammo = 0
		}, MsgOutOfAmmo},
		{"embarked target", "rifle", func(s *domain.BattleState, a, d *domain.Unit) { d.EmbarkedOn = "apc" }, MsgTargetUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(10, 1, grid.LayoutHex)
			a := addUnit(s, "sniper", domain.FactionPlayer, sniperDef(), grid.Coord{Q: 0, R: 0})
			d := addUnit(s, "ghoul", domain.FactionEnemy, ghoulDef(), grid.Coord{Q: 3, R: 0})
			tt.prepare(s, a, d)

			res := ValidateAttack(s.Map, a, d, tt.weapon)
			if tt.want == "" {
				if !res.Valid {
					t.Errorf("expected valid attack, got %q", res.Message)
				}
				return
			}
			if res.Valid || res.Message != tt.want {
				t.Errorf("got valid=%v message=%q, want %q", res.Valid, res.Message, tt.want)
			}
		})
	}
}

func TestCanReact(t *testing.T) {
	s := newTestState(10, 1, grid.LayoutHex)
	watcher := addUnit(s, "watcher", domain.FactionEnemy, sniperDef(), grid.Coord{Q: 9, R: 0})
	mover := addUnit(s, "mover", domain.FactionPlayer, ghoulDef(), grid.Coord{Q: 0, R: 0})

	if _, ok := CanReact(s.Map, watcher, mover); ok {
		t.Error("a unit without overwatch must not react")
	}

	watcher.SetStatus(domain.StatusOverwatch)
	watcher.AP = 0
	if _, ok := CanReact(s.Map, watcher, mover); ok {
		t.Error("target at distance 9 is out of range 6")
	}

	mover.Coord = grid.Coord{Q: 4, R: 0}
	if weapon, ok := CanReact(s.Map, watcher, mover); !ok || weapon != "rifle" {
		t.Errorf("expected reaction with rifle, got %q %v", weapon, ok)
	}
}
