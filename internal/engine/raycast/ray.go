// Package raycast provides ray intersection against oriented boxes.
package raycast

import (
	gomath "math"

	"github.com/Faultbox/officewalk/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners, ordering each axis.
func NewAABB(a, b math.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// Box is an oriented box rotated around the world up axis.
type Box struct {
	Center math.Vec3
	Half   math.Vec3 // Half extents in the box's local frame
	Yaw    float32   // Rotation around Y, radians
}

// NewBox creates a box from its centre, full size and yaw.
func NewBox(center, size math.Vec3, yaw float32) Box {
	return Box{Center: center, Half: size.Scale(0.5), Yaw: yaw}
}

// AABB returns the world-space axis-aligned bounds of the rotated box.
func (b Box) AABB() AABB {
	s, c := gomath.Sincos(float64(b.Yaw))
	sin, cos := math.Abs(float32(s)), math.Abs(float32(c))
	ex := b.Half.X*cos + b.Half.Z*sin
	ez := b.Half.X*sin + b.Half.Z*cos
	ext := math.Vec3{X: ex, Y: b.Half.Y, Z: ez}
	return AABB{Min: b.Center.Sub(ext), Max: b.Center.Add(ext)}
}

// Contains reports whether a world point lies inside the box.
func (b Box) Contains(p math.Vec3) bool {
	l := p.Sub(b.Center).RotateY(-b.Yaw)
	return math.Abs(l.X) <= b.Half.X && math.Abs(l.Y) <= b.Half.Y && math.Abs(l.Z) <= b.Half.Z
}

// Hit describes a ray intersection.
type Hit struct {
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3 // World-space surface normal at the hit face
}

// IntersectBox tests the ray against an oriented box. The ray is moved into
// the box's local frame, slab-tested, and the face normal rotated back.
// If the ray starts inside the box, the exit face is reported.
func (r Ray) IntersectBox(b Box) (Hit, bool) {
	local := Ray{
		Origin:    r.Origin.Sub(b.Center).RotateY(-b.Yaw),
		Direction: r.Direction.RotateY(-b.Yaw),
	}
	box := AABB{Min: b.Half.Negate(), Max: b.Half}

	t, normal, ok := local.intersectAABB(box)
	if !ok {
		return Hit{}, false
	}
	return Hit{
		Distance: t,
		Point:    r.At(t),
		Normal:   normal.RotateY(b.Yaw),
	}, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
func (r Ray) IntersectAABB(box AABB) (float32, bool) {
	t, _, ok := r.intersectAABB(box)
	return t, ok
}

// intersectAABB is the slab test, tracking which face produced the entry and exit.
func (r Ray) intersectAABB(box AABB) (float32, math.Vec3, bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)
	var nMin, nMax math.Vec3

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, math.Vec3{}, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		// Entering through the min face means the outward normal points to -axis
		n1, n2 := axisNormal(axis, -1), axisNormal(axis, 1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n1, n2 = n2, n1
		}
		if t1 > tmin {
			tmin = t1
			nMin = n1
		}
		if t2 < tmax {
			tmax = t2
			nMax = n2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, math.Vec3{}, false
	}
	// Starting inside: report the exit face
	if tmin < 0 {
		return tmax, nMax, true
	}
	return tmin, nMin, true
}

func axisNormal(axis int, sign float32) math.Vec3 {
	switch axis {
	case 0:
		return math.Vec3{X: sign}
	case 1:
		return math.Vec3{Y: sign}
	default:
		return math.Vec3{Z: sign}
	}
}
