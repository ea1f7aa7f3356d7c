package game

import "math"

// Vec2 is a 2D vector in table space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// MagnitudeSquared is the squared length, cheaper than Magnitude for comparisons.
func (v Vec2) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.MagnitudeSquared())
}

// Normalize returns the unit vector pointing along v.
// Callers must not normalize a zero vector; doing so panics.
func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		panic("game: normalize of zero vector")
	}
	return Vec2{X: v.X / m, Y: v.Y / m}
}

func (v Vec2) LeftNormal() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec2) IsEqualTo(o Vec2) bool {
	return v.X == o.X && v.Y == o.Y
}
