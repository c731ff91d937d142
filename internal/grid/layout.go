package grid

import (
	"math"
	"strings"
)

// Layout - тип сетки поля боя.
type Layout uint8

const (
	// LayoutHex - осевая гекс-сетка, 6 соседей.
	LayoutHex Layout = iota
	// LayoutIso - изометрическая квадратная сетка, 8 соседей.
	LayoutIso
)

var layoutToString = map[Layout]string{
	LayoutHex: "hex",
	LayoutIso: "iso",
}

// ParseLayout конвертирует строку из сценария в Layout. Неизвестное значение → hex.
func ParseLayout(s string) Layout {
	if strings.ToLower(strings.TrimSpace(s)) == "iso" {
		return LayoutIso
	}
	return LayoutHex
}

func (l Layout) String() string {
	if val, ok := layoutToString[l]; ok {
		return val
	}
	return "UNKNOWN"
}

// HexDirections - шесть соседних смещений в осевых координатах.
var HexDirections = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// IsoDirections - восемь направлений изо-сетки. Первые четыре ортогональные.
var IsoDirections = [8]Coord{
	{Q: 0, R: -1}, // N
	{Q: 1, R: 0},  // E
	{Q: 0, R: 1},  // S
	{Q: -1, R: 0}, // W
	{Q: 1, R: -1},
	{Q: 1, R: 1},
	{Q: -1, R: 1},
	{Q: -1, R: -1},
}

// Directions возвращает таблицу смещений для сетки.
func (l Layout) Directions() []Coord {
	if l == LayoutIso {
		return IsoDirections[:]
	}
	return HexDirections[:]
}

// Distance - кубическое расстояние для гексов, расстояние Чебышёва для изо.
func (l Layout) Distance(a, b Coord) int {
	if l == LayoutIso {
		dx, dy := abs(a.Q-b.Q), abs(a.R-b.R)
		if dx > dy {
			return dx
		}
		return dy
	}
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return max(dq, dr, ds)
}

// Adjacent - true, если клетки соседние (совпадение соседством не считается).
func (l Layout) Adjacent(a, b Coord) bool {
	return a != b && l.Distance(a, b) == 1
}

// DirectionIndex возвращает индекс направления from→to в таблице Directions,
// или -1, если клетки не соседние.
func (l Layout) DirectionIndex(from, to Coord) int {
	d := to.Sub(from)
	for i, dir := range l.Directions() {
		if dir == d {
			return i
		}
	}
	return -1
}

// Neighbors перечисляет соседей внутри границ карты в фиксированном порядке.
func (l Layout) Neighbors(c Coord, width, height int) []Coord {
	if !InBounds(c, width, height) {
		return nil
	}
	dirs := l.Directions()
	result := make([]Coord, 0, len(dirs))
	for _, d := range dirs {
		n := c.Add(d)
		if InBounds(n, width, height) {
			result = append(result, n)
		}
	}
	return result
}

// Disc перечисляет все клетки на расстоянии ≤ radius от центра (по возрастанию индекса).
// Используется для оверлеев дальности оружия, AoE и кандидатов зрения.
func (l Layout) Disc(center Coord, radius float64, width, height int) []Coord {
	if radius < 0 || !InBounds(center, width, height) {
		return nil
	}
	reach := int(math.Floor(radius + 1e-9))
	result := make([]Coord, 0, (2*reach+1)*(2*reach+1))
	for r := max(0, center.R-reach); r <= min(height-1, center.R+reach); r++ {
		for q := max(0, center.Q-reach); q <= min(width-1, center.Q+reach); q++ {
			c := Coord{Q: q, R: r}
			if l.Distance(center, c) <= reach {
				result = append(result, c)
			}
		}
	}
	return result
}

// Line возвращает клетки линии от a до b включительно.
// Для гексов - интерполяция в кубических координатах с округлением,
// для изо - целочисленный Брезенхэм.
func (l Layout) Line(a, b Coord) []Coord {
	if l == LayoutIso {
		return bresenham(a, b)
	}
	return hexLine(a, b)
}

func hexLine(a, b Coord) []Coord {
	n := LayoutHex.Distance(a, b)
	if n == 0 {
		return []Coord{a}
	}

	// Небольшой сдвиг, чтобы линия вдоль ребра не попадала ровно на границу двух гексов
	const nudge = 1e-6
	aq, ar, as := float64(a.Q)+nudge, float64(a.R)+nudge, float64(a.S())-2*nudge
	bq, br, bs := float64(b.Q)+nudge, float64(b.R)+nudge, float64(b.S())-2*nudge

	result := make([]Coord, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		result = append(result, cubeRound(
			aq+(bq-aq)*t,
			ar+(br-ar)*t,
			as+(bs-as)*t,
		))
	}
	return result
}

func cubeRound(fq, fr, fs float64) Coord {
	q, r, s := math.Round(fq), math.Round(fr), math.Round(fs)
	dq, dr, ds := math.Abs(q-fq), math.Abs(r-fr), math.Abs(s-fs)

	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	return Coord{Q: int(q), R: int(r)}
}

func bresenham(a, b Coord) []Coord {
	x0, y0 := a.Q, a.R
	dx := abs(b.Q - a.Q)
	dy := abs(b.R - a.R)
	sx, sy := sign(b.Q-a.Q), sign(b.R-a.R)
	err := dx - dy

	result := make([]Coord, 0, max(dx, dy)+1)
	for {
		result = append(result, Coord{Q: x0, R: y0})
		if x0 == b.Q && y0 == b.R {
			break
		}
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
	return result
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
