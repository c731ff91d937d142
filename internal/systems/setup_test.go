package systems

import (
	"os"
	"testing"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	// Exit with the result of the tests
	os.Exit(m.Run())
}

// newTestState создаёт пустой бой на равнине заданного размера.
func newTestState(w, h int, layout grid.Layout) *domain.BattleState {
	return domain.NewBattleState(domain.NewBattlefieldMap(w, h, layout), domain.FactionPlayer)
}

// testDef - простой шаблон пехотинца с одной винтовкой.
func testDef(t domain.UnitType) domain.UnitDefinition {
	return domain.UnitDefinition{
		ID:        "test-" + t.String(),
		Name:      "Test " + t.String(),
		Type:      t,
		MaxHealth: 40,
		Mobility:  6,
		Vision:    5,
		Morale:    80,
		Weapons: map[string]domain.Weapon{
			"rifle": {Range: 4, Power: 20, Accuracy: 0.7},
		},
	}
}

func addUnit(s *domain.BattleState, id string, f domain.Faction, def domain.UnitDefinition, at grid.Coord) *domain.Unit {
	u := domain.NewUnit(domain.UnitID(id), def, f, at)
	s.Sides[f].Units[u.ID] = u
	return u
}

func setTerrain(s *domain.BattleState, c grid.Coord, kind domain.TerrainKind) *domain.MapTile {
	s.Map.SetTile(c, domain.NewTile(kind))
	return s.Map.Tile(c)
}
