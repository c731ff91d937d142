package scenario

import (
	"fmt"
	"math/rand"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/internal/systems"
)

// Ограничения генерации
const (
	MinWidth     = 10
	MinHeight    = 6
	ForestClumps = 4
	HillCount    = 3
	RuinCount    = 2
	DeployCols   = 2 // Ширина зоны высадки у края карты
)

// Rect - Вспомогательная структура для пятна местности
type Rect struct {
	Q, R, W, H int
}

func (r Rect) Contains(c grid.Coord) bool {
	return c.Q >= r.Q && c.Q < r.Q+r.W && c.R >= r.R && c.R < r.R+r.H
}

// Состав сторон случайной стычки
var (
	generatedPlayer = []string{"commander", "rifleman", "rifleman", "sniper"}
	generatedEnemy  = []string{"ghoul", "ghoul", "ghoul", "ghoul", "scout"}
)

// Generate создает случайную стычку на hex-карте width×height.
// Результат полностью определяется rng.
func Generate(rng *rand.Rand, width, height int) *Scenario {
	width = max(width, MinWidth)
	height = max(height, MinHeight)

	m := domain.NewBattlefieldMap(width, height, grid.LayoutHex)
	middle := grid.Coord{Q: width / 2, R: height / 2}

	// 1. Дорога поперёк карты
	roadRow := randRange(rng, 1, height-2)
	for q := 0; q < width; q++ {
		m.SetTile(grid.Coord{Q: q, R: roadRow}, domain.NewTile(domain.TerrainRoad))
	}

	// 2. Пятна леса, холмы и руины только в нейтральной полосе
	neutral := Rect{Q: DeployCols + 1, R: 0, W: width - 2*(DeployCols+1), H: height}
	for i := 0; i < ForestClumps; i++ {
		clump := Rect{
			Q: randRange(rng, neutral.Q, neutral.Q+neutral.W-2),
			R: randRange(rng, 0, height-2),
			W: randRange(rng, 1, 3),
			H: randRange(rng, 1, 2),
		}
		paint(m, clump, neutral, domain.TerrainForest, roadRow)
	}
	for i := 0; i < HillCount; i++ {
		c := grid.Coord{Q: randRange(rng, neutral.Q, neutral.Q+neutral.W-1), R: randRange(rng, 0, height-1)}
		if c.R != roadRow {
			m.SetTile(c, domain.NewTile(domain.TerrainHill))
		}
	}
	for i := 0; i < RuinCount; i++ {
		c := grid.Coord{Q: randRange(rng, neutral.Q, neutral.Q+neutral.W-1), R: randRange(rng, 0, height-1)}
		if c.R == roadRow || c == middle {
			continue
		}
		kind := domain.TerrainRubble
		if rng.Intn(2) == 0 {
			kind = domain.TerrainStructure
		}
		m.SetTile(c, domain.NewTile(kind))
	}

	// 3. Пруд
	pond := grid.Coord{Q: randRange(rng, neutral.Q, neutral.Q+neutral.W-1), R: randRange(rng, 0, height-1)}
	if pond.R != roadRow {
		m.SetTile(pond, domain.NewTile(domain.TerrainWater))
	}

	// 4. Расстановка: игрок слева, враг справа
	left := Rect{Q: 0, R: 0, W: DeployCols, H: height}
	right := Rect{Q: width - DeployCols, R: 0, W: DeployCols, H: height}

	return &Scenario{
		Name:            fmt.Sprintf("skirmish-%dx%d", width, height),
		Map:             m,
		Weather:         domain.WeatherClear,
		StartingFaction: domain.FactionPlayer,
		Sides: []domain.SideSpec{
			deploy(m, domain.FactionPlayer, "p", generatedPlayer, left),
			deploy(m, domain.FactionEnemy, "e", generatedEnemy, right),
		},
	}
}

func paint(m *domain.BattlefieldMap, area, bounds Rect, kind domain.TerrainKind, roadRow int) {
	for r := area.R; r < area.R+area.H; r++ {
		for q := area.Q; q < area.Q+area.W; q++ {
			c := grid.Coord{Q: q, R: r}
			if m.InBounds(c) && bounds.Contains(c) && r != roadRow {
				m.SetTile(c, domain.NewTile(kind))
			}
		}
	}
}

// deploy ставит юнитов сверху вниз по колонкам зоны, пропуская неподходящие клетки.
func deploy(m *domain.BattlefieldMap, faction domain.Faction, prefix string, units []string, zone Rect) domain.SideSpec {
	side := domain.SideSpec{Faction: faction}
	used := make(map[grid.Coord]bool)

	for i, defID := range units {
		def, _ := Definition(defID)
		for q := zone.Q; q < zone.Q+zone.W; q++ {
			placed := false
			for r := zone.R; r < zone.R+zone.H; r++ {
				c := grid.Coord{Q: q, R: r}
				if used[c] || !systems.CanEnter(def.Type, m.Tile(c)) {
					continue
				}
				used[c] = true
				side.Units = append(side.Units, domain.UnitSpec{
					ID:         domain.UnitID(fmt.Sprintf("%s_%s%d", prefix, defID, i+1)),
					Definition: def,
					Coord:      c,
				})
				placed = true
				break
			}
			if placed {
				break
			}
		}
	}
	return side
}

func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
