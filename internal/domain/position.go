package domain

import "math"

// Position - точка в мировых координатах (Y растет вверх).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo возвращает евклидово расстояние до другой точки
func (p Position) DistanceTo(other Position) float64 {
	return math.Sqrt(p.DistanceSquaredTo(other))
}

// DistanceSquaredTo возвращает квадрат расстояния для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Shift возвращает новую позицию со смещением, не меняя текущую
func (p Position) Shift(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}
