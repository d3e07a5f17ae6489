// Package math provides float32 vector, quaternion and matrix types for world-space geometry.
package math

import "math"

// Vec3 is a 3D vector. Y is up; yaw 0 faces +Z.
type Vec3 struct {
	X, Y, Z float32
}

// Up is the world up axis.
var Up = Vec3{0, 1, 0}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector, or the zero vector for zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Lerp interpolates from v to other by t.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return Vec3{
		v.X + (other.X-v.X)*t,
		v.Y + (other.Y-v.Y)*t,
		v.Z + (other.Z-v.Z)*t,
	}
}

// RotateY rotates v around the Y axis by angle radians.
// RotateY(Vec3{0,0,1}, yaw) equals Forward(yaw).
func (v Vec3) RotateY(angle float32) Vec3 {
	s, c := math.Sincos(float64(angle))
	sin, cos := float32(s), float32(c)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// XZ returns the XZ components as Vec2.
func (v Vec3) XZ() Vec2 {
	return Vec2{v.X, v.Z}
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

// NearlyEqual reports whether v and other differ by at most eps per component.
func (v Vec3) NearlyEqual(other Vec3, eps float32) bool {
	return Abs(v.X-other.X) <= eps && Abs(v.Y-other.Y) <= eps && Abs(v.Z-other.Z) <= eps
}

// Forward returns the horizontal unit direction for a yaw angle.
func Forward(yaw float32) Vec3 {
	s, c := math.Sincos(float64(yaw))
	return Vec3{float32(s), 0, float32(c)}
}

// Right returns the horizontal unit direction to the right of a yaw angle.
func Right(yaw float32) Vec3 {
	s, c := math.Sincos(float64(yaw))
	return Vec3{float32(-c), 0, float32(s)}
}

// YawOf returns the yaw angle of the horizontal part of a direction.
func YawOf(dir Vec3) float32 {
	return float32(math.Atan2(float64(dir.X), float64(dir.Z)))
}
