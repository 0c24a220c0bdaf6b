package domain

import "fmt"

// Position - координата тайла (значение, не указатель на тайл)
type Position struct {
	X int `json:"x" toml:"x"`
	Y int `json:"y" toml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// ChebyshevTo - расстояние "короля": диагональ стоит как шаг
func (p Position) ChebyshevTo(other Position) int {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// HexDistanceTo - расстояние в осевых координатах (q=X, r=Y)
func (p Position) HexDistanceTo(other Position) int {
	dq := p.X - other.X
	dr := p.Y - other.Y
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// Shift возвращает новую позицию со смещением (не меняя текущую)
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DirectionTo возвращает знак шага по осям в сторону other
func (p Position) DirectionTo(other Position) (int, int) {
	return sign(other.X - p.X), sign(other.Y - p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
