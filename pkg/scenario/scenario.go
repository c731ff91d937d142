package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/internal/systems"
	"gopkg.in/yaml.v3"
)

// Scenario - готовый к запуску бой: карта, погода, кто ходит первым и расстановка.
type Scenario struct {
	Name            string
	Description     string
	Map             *domain.BattlefieldMap
	Weather         domain.Weather
	StartingFaction domain.Faction
	Sides           []domain.SideSpec
}

// --- ФОРМАТ ФАЙЛА ---

// File - YAML-представление сценария.
type File struct {
	Name            string                           `yaml:"name"`
	Description     string                           `yaml:"description,omitempty"`
	Layout          string                           `yaml:"layout"`
	Weather         string                           `yaml:"weather,omitempty"`
	StartingFaction string                           `yaml:"starting_faction,omitempty"`
	Terrain         []string                         `yaml:"terrain"`
	Elevation       []string                         `yaml:"elevation,omitempty"`
	Slopes          []SlopeSpec                      `yaml:"slopes,omitempty"`
	Definitions     map[string]domain.UnitDefinition `yaml:"definitions,omitempty"`
	Sides           []SideFile                       `yaml:"sides"`
}

// SlopeSpec помечает рёбра тайла как склон ("N", "E", "S", "W" в любой комбинации).
type SlopeSpec struct {
	Q     int    `yaml:"q"`
	R     int    `yaml:"r"`
	Edges string `yaml:"edges"`
}

type SideFile struct {
	Faction string     `yaml:"faction"`
	Units   []UnitFile `yaml:"units"`
}

type UnitFile struct {
	ID         string `yaml:"id"`
	Unit       string `yaml:"unit"` // ID шаблона
	Q          int    `yaml:"q"`
	R          int    `yaml:"r"`
	EmbarkedOn string `yaml:"embarked_on,omitempty"`
}

// terrainLegend - символы строк terrain.
var terrainLegend = map[rune]domain.TerrainKind{
	'.': domain.TerrainPlains,
	'=': domain.TerrainRoad,
	'f': domain.TerrainForest,
	'~': domain.TerrainWater,
	's': domain.TerrainSwamp,
	'#': domain.TerrainStructure,
	'^': domain.TerrainHill,
	'r': domain.TerrainRubble,
}

// Load читает сценарий из YAML-файла. Пустое имя в файле заменяется именем файла.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse разбирает и проверяет YAML сценария.
func Parse(data []byte) (*Scenario, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return f.Build()
}

// Build проверяет файл и собирает Scenario. Все ошибки авторинга
// возвращаются здесь, чтобы CreateBattleState не паниковал.
func (f *File) Build() (*Scenario, error) {
	m, err := f.buildMap()
	if err != nil {
		return nil, err
	}

	starting := domain.FactionPlayer
	if f.StartingFaction != "" {
		starting = domain.ParseFaction(f.StartingFaction)
		if starting == domain.FactionNone {
			return nil, fmt.Errorf("unknown starting faction %q", f.StartingFaction)
		}
	}

	sides, err := f.buildSides(m)
	if err != nil {
		return nil, err
	}

	return &Scenario{
		Name:            f.Name,
		Description:     f.Description,
		Map:             m,
		Weather:         domain.ParseWeather(f.Weather),
		StartingFaction: starting,
		Sides:           sides,
	}, nil
}

func (f *File) buildMap() (*domain.BattlefieldMap, error) {
	height := len(f.Terrain)
	if height == 0 {
		return nil, fmt.Errorf("terrain is empty")
	}
	width := len([]rune(f.Terrain[0]))
	if width == 0 {
		return nil, fmt.Errorf("terrain row 0 is empty")
	}

	m := domain.NewBattlefieldMap(width, height, grid.ParseLayout(f.Layout))
	for r, row := range f.Terrain {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("terrain row %d has width %d, want %d", r, len(runes), width)
		}
		for q, ch := range runes {
			kind, ok := terrainLegend[ch]
			if !ok {
				return nil, fmt.Errorf("terrain row %d: unknown symbol %q", r, ch)
			}
			m.SetTile(grid.Coord{Q: q, R: r}, domain.NewTile(kind))
		}
	}

	if len(f.Elevation) > 0 {
		if len(f.Elevation) != height {
			return nil, fmt.Errorf("elevation has %d rows, want %d", len(f.Elevation), height)
		}
		for r, row := range f.Elevation {
			if len(row) != width {
				return nil, fmt.Errorf("elevation row %d has width %d, want %d", r, len(row), width)
			}
			for q := 0; q < len(row); q++ {
				if row[q] < '0' || row[q] > '9' {
					return nil, fmt.Errorf("elevation row %d: %q is not a digit", r, row[q])
				}
				m.Tile(grid.Coord{Q: q, R: r}).Elevation = int(row[q] - '0')
			}
		}
	}

	for _, s := range f.Slopes {
		c := grid.Coord{Q: s.Q, R: s.R}
		if !m.InBounds(c) {
			return nil, fmt.Errorf("slope at %v is outside of the map", c)
		}
		edges := grid.ParseEdges(s.Edges)
		if edges == grid.EdgeNone {
			return nil, fmt.Errorf("slope at %v has no valid edges in %q", c, s.Edges)
		}
		m.Tile(c).Slopes |= edges
	}

	return m, nil
}

func (f *File) definitions() map[string]domain.UnitDefinition {
	defs := Catalog()
	for id, def := range f.Definitions {
		if def.ID == "" {
			def.ID = id
		}
		defs[id] = def
	}
	return defs
}

func (f *File) buildSides(m *domain.BattlefieldMap) ([]domain.SideSpec, error) {
	defs := f.definitions()
	seen := make(map[string]domain.Faction)
	occupied := make(map[grid.Coord]string)
	var sides []domain.SideSpec

	// Проход 1: юниты на поле
	for _, sf := range f.Sides {
		faction := domain.ParseFaction(sf.Faction)
		if faction == domain.FactionNone {
			return nil, fmt.Errorf("unknown side faction %q", sf.Faction)
		}
		side := domain.SideSpec{Faction: faction}

		for _, uf := range sf.Units {
			if uf.ID == "" {
				return nil, fmt.Errorf("%s: unit without id", faction)
			}
			if _, dup := seen[uf.ID]; dup {
				return nil, fmt.Errorf("duplicate unit id %q", uf.ID)
			}
			seen[uf.ID] = faction

			def, ok := defs[uf.Unit]
			if !ok {
				return nil, fmt.Errorf("unit %q: unknown definition %q", uf.ID, uf.Unit)
			}
			if def.MaxHealth <= 0 {
				return nil, fmt.Errorf("unit %q: definition %q has no health", uf.ID, uf.Unit)
			}

			c := grid.Coord{Q: uf.Q, R: uf.R}
			if uf.EmbarkedOn == "" {
				if !m.InBounds(c) {
					return nil, fmt.Errorf("unit %q placed outside of the map at %v", uf.ID, c)
				}
				if other, taken := occupied[c]; taken {
					return nil, fmt.Errorf("units %q and %q share tile %v", other, uf.ID, c)
				}
				if !systems.CanEnter(def.Type, m.Tile(c)) {
					return nil, fmt.Errorf("unit %q (%v) cannot stand on %v at %v", uf.ID, def.Type, m.Tile(c).Terrain, c)
				}
				occupied[c] = uf.ID
			}

			side.Units = append(side.Units, domain.UnitSpec{
				ID:         domain.UnitID(uf.ID),
				Definition: def,
				Coord:      c,
				EmbarkedOn: domain.UnitID(uf.EmbarkedOn),
			})
		}
		sides = append(sides, side)
	}

	// Проход 2: пассажиры ссылаются на носителей своей стороны
	load := make(map[string]int)
	for _, side := range sides {
		for _, spec := range side.Units {
			if spec.EmbarkedOn == "" {
				continue
			}
			carrierID := string(spec.EmbarkedOn)
			if seen[carrierID] != side.Faction {
				return nil, fmt.Errorf("unit %q embarked on unknown carrier %q", spec.ID, carrierID)
			}
			carrier := findSpec(sides, spec.EmbarkedOn)
			if carrier.EmbarkedOn != "" {
				return nil, fmt.Errorf("unit %q: carrier %q is itself embarked", spec.ID, carrierID)
			}
			if spec.Definition.Type != domain.UnitTypeInfantry && spec.Definition.Type != domain.UnitTypeHero {
				return nil, fmt.Errorf("unit %q (%v) cannot embark", spec.ID, spec.Definition.Type)
			}
			load[carrierID]++
			if load[carrierID] > carrier.Definition.TransportCapacity {
				return nil, fmt.Errorf("carrier %q is over capacity", carrierID)
			}
		}
	}

	return sides, nil
}

func findSpec(sides []domain.SideSpec, id domain.UnitID) domain.UnitSpec {
	for _, side := range sides {
		for _, spec := range side.Units {
			if spec.ID == id {
				return spec
			}
		}
	}
	return domain.UnitSpec{}
}
