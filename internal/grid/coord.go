// Package grid содержит чистую геометрию поля боя: осевые гекс-координаты
// и изометрическую квадратную сетку, которую использует слой рендера.
//
// Все функции детерминированы и не имеют побочных эффектов. Выход за
// границы карты не является ошибкой: функции просто возвращают пустые
// коллекции.
package grid

import "fmt"

// Coord - координата клетки.
// Для гекс-сетки это осевые координаты (q, r), для изометрической - (x, y).
type Coord struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
}

// S возвращает третью кубическую координату (s = -q - r).
func (c Coord) S() int {
	return -c.Q - c.R
}

// Add возвращает координату со смещением (не меняя текущую).
func (c Coord) Add(d Coord) Coord {
	return Coord{Q: c.Q + d.Q, R: c.R + d.R}
}

// Sub возвращает вектор разницы между двумя координатами.
func (c Coord) Sub(o Coord) Coord {
	return Coord{Q: c.Q - o.Q, R: c.R - o.R}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Q, c.R)
}

// InBounds проверяет, лежит ли клетка внутри прямоугольника width×height.
func InBounds(c Coord, width, height int) bool {
	return c.Q >= 0 && c.R >= 0 && c.Q < width && c.R < height
}

// Index упаковывает координату в линейный индекс тайла: r*width + q.
func Index(c Coord, width int) int {
	return c.R*width + c.Q
}

// FromIndex - обратная операция к Index.
func FromIndex(idx, width int) Coord {
	return Coord{Q: idx % width, R: idx / width}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
