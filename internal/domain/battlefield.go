package domain

import (
	"fmt"
	"strings"

	"github.com/michaldrozd/spellcross-sub000/internal/grid"
)

// TerrainKind - вид местности тайла.
type TerrainKind uint8

const (
	TerrainPlains TerrainKind = iota
	TerrainRoad
	TerrainForest
	TerrainWater
	TerrainSwamp
	TerrainStructure
	TerrainHill
	TerrainRubble
)

var terrainToString = map[TerrainKind]string{
	TerrainPlains:    "plains",
	TerrainRoad:      "road",
	TerrainForest:    "forest",
	TerrainWater:     "water",
	TerrainSwamp:     "swamp",
	TerrainStructure: "structure",
	TerrainHill:      "hill",
	TerrainRubble:    "rubble",
}

func (k TerrainKind) String() string {
	if val, ok := terrainToString[k]; ok {
		return val
	}
	return "unknown"
}

func (k TerrainKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TerrainKind) UnmarshalText(data []byte) error {
	for kind, name := range terrainToString {
		if name == strings.ToLower(string(data)) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown terrain %q", string(data))
}

// MapTile - одна клетка поля боя.
type MapTile struct {
	Terrain     TerrainKind `json:"terrain"`
	Elevation   int         `json:"elevation"`
	Cover       int         `json:"cover"`
	MoveCost    float64     `json:"moveCost"` // Множитель стоимости передвижения
	Passable    bool        `json:"passable"`
	VisionBoost bool        `json:"visionBoost"`

	// Slopes - рёбра этого тайла, помеченные как склон (только изо-сетка).
	// Переход на более низкий соседний тайл через непомеченное ребро - обрыв.
	Slopes grid.Edge `json:"slopes,omitempty"`

	// DestructibleHP - прочность разрушаемого тайла (nil - неразрушаемый).
	DestructibleHP *int `json:"destructibleHp,omitempty"`
}

// NewTile создаёт тайл с параметрами по умолчанию для вида местности.
func NewTile(kind TerrainKind) MapTile {
	t := MapTile{Terrain: kind, MoveCost: 1, Passable: true}
	switch kind {
	case TerrainRoad:
		t.MoveCost = 0.5
	case TerrainForest:
		t.MoveCost = 1.5
		t.Cover = 2
	case TerrainWater:
		t.MoveCost = 2
	case TerrainSwamp:
		t.MoveCost = 2
	case TerrainStructure:
		t.Passable = false
		t.Cover = 4
	case TerrainHill:
		t.MoveCost = 1.5
		t.Elevation = 1
		t.VisionBoost = true
		t.Cover = 1
	case TerrainRubble:
		t.MoveCost = 1.5
		t.Cover = 2
	}
	return t
}

// BattlefieldMap - неизменяемая после загрузки сетка тайлов width×height.
type BattlefieldMap struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Layout grid.Layout `json:"layout"`
	Tiles  []MapTile   `json:"tiles"` // Индекс: r*Width + q
}

// NewBattlefieldMap создаёт карту, заполненную равниной.
func NewBattlefieldMap(width, height int, layout grid.Layout) *BattlefieldMap {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("battlefield size must be positive, got %dx%d", width, height))
	}
	tiles := make([]MapTile, width*height)
	for i := range tiles {
		tiles[i] = NewTile(TerrainPlains)
	}
	return &BattlefieldMap{Width: width, Height: height, Layout: layout, Tiles: tiles}
}

func (m *BattlefieldMap) InBounds(c grid.Coord) bool {
	return grid.InBounds(c, m.Width, m.Height)
}

func (m *BattlefieldMap) Index(c grid.Coord) int {
	return grid.Index(c, m.Width)
}

// Tile возвращает указатель на тайл. Обращение за границы - ошибка авторинга (panic).
func (m *BattlefieldMap) Tile(c grid.Coord) *MapTile {
	if !m.InBounds(c) {
		panic(fmt.Sprintf("tile %v is outside of %dx%d battlefield", c, m.Width, m.Height))
	}
	return &m.Tiles[m.Index(c)]
}

// SetTile заменяет тайл целиком (используется загрузчиком сценариев).
func (m *BattlefieldMap) SetTile(c grid.Coord, t MapTile) {
	*m.Tile(c) = t
}

// Distance - расстояние в метрике сетки карты.
func (m *BattlefieldMap) Distance(a, b grid.Coord) int {
	return m.Layout.Distance(a, b)
}

// Neighbors - соседи клетки в пределах карты.
func (m *BattlefieldMap) Neighbors(c grid.Coord) []grid.Coord {
	return m.Layout.Neighbors(c, m.Width, m.Height)
}

// Disc - клетки в радиусе от центра в пределах карты.
func (m *BattlefieldMap) Disc(center grid.Coord, radius float64) []grid.Coord {
	return m.Layout.Disc(center, radius, m.Width, m.Height)
}
