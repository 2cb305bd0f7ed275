// Package math provides math types and functions for game development.
package math

import "math"

// Vec2 is a 2D vector, used for directions on the XZ ground plane.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Perp returns the clockwise perpendicular (y, -x).
func (v Vec2) Perp() Vec2 {
	return Vec2{v.Y, -v.X}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// LengthSq returns the squared magnitude.
func (v Vec2) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Heading returns the unit direction on the plane for a yaw angle in
// radians, with yaw 0 pointing along +Y (world +Z).
func Heading(yaw float32) Vec2 {
	return Vec2{
		float32(math.Sin(float64(yaw))),
		float32(math.Cos(float64(yaw))),
	}
}
