package raycast

import (
	"testing"

	"github.com/Faultbox/officewalk/pkg/math"
)

func TestIntersectBox_AxisAligned(t *testing.T) {
	// Wall slab at x in [1.0, 1.1]
	wall := NewBox(math.Vec3{X: 1.05, Y: 1.5, Z: 0}, math.Vec3{X: 0.1, Y: 3, Z: 4}, 0)
	r := Ray{Origin: math.Vec3{X: 0, Y: 1, Z: 0}, Direction: math.Vec3{X: 1}}

	hit, ok := r.IntersectBox(wall)
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(hit.Distance-1.0) > 1e-5 {
		t.Errorf("distance = %v, want 1.0", hit.Distance)
	}
	if !hit.Normal.NearlyEqual(math.Vec3{X: -1}, 1e-5) {
		t.Errorf("normal = %v, want -X", hit.Normal)
	}
	if hit.Normal.Dot(r.Direction) >= 0 {
		t.Error("entry normal should oppose the ray")
	}
}

func TestIntersectBox_Miss(t *testing.T) {
	wall := NewBox(math.Vec3{X: 1, Y: 1.5}, math.Vec3{X: 0.1, Y: 3, Z: 1}, 0)
	r := Ray{Origin: math.Vec3{Y: 1, Z: 5}, Direction: math.Vec3{X: 1}}
	if _, ok := r.IntersectBox(wall); ok {
		t.Error("expected miss")
	}

	// Behind the origin
	r = Ray{Origin: math.Vec3{X: 3, Y: 1}, Direction: math.Vec3{X: 1}}
	if _, ok := r.IntersectBox(wall); ok {
		t.Error("expected miss for box behind ray")
	}
}

func TestIntersectBox_Rotated(t *testing.T) {
	// A thin wall rotated 90 degrees: its local X thickness now runs along world Z
	wall := NewBox(math.Vec3{Y: 1, Z: 2}, math.Vec3{X: 0.2, Y: 2, Z: 4}, math.Pi/2)
	r := Ray{Origin: math.Vec3{Y: 1}, Direction: math.Vec3{Z: 1}}

	hit, ok := r.IntersectBox(wall)
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(hit.Distance-1.9) > 1e-4 {
		t.Errorf("distance = %v, want 1.9", hit.Distance)
	}
	if !hit.Normal.NearlyEqual(math.Vec3{Z: -1}, 1e-4) {
		t.Errorf("normal = %v, want -Z", hit.Normal)
	}
}

func TestIntersectBox_InsideReportsExit(t *testing.T) {
	box := NewBox(math.Vec3{}, math.Vec3{X: 2, Y: 2, Z: 2}, 0)
	r := Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}

	hit, ok := r.IntersectBox(box)
	if !ok {
		t.Fatal("expected exit hit")
	}
	if math.Abs(hit.Distance-1) > 1e-5 {
		t.Errorf("distance = %v, want 1", hit.Distance)
	}
	// Exit normal points along the ray, so collision code ignores it
	if hit.Normal.Dot(r.Direction) <= 0 {
		t.Errorf("exit normal = %v should face along the ray", hit.Normal)
	}
}

func TestBox_AABB(t *testing.T) {
	b := NewBox(math.Vec3{X: 1}, math.Vec3{X: 4, Y: 2, Z: 0.2}, math.Pi/2)
	bb := b.AABB()
	if math.Abs(bb.Max.Z-2) > 1e-4 || math.Abs(bb.Max.X-1.1) > 1e-4 {
		t.Errorf("AABB = %+v, want z extent 2, x extent 0.1", bb)
	}
}

func TestBox_Contains(t *testing.T) {
	b := NewBox(math.Vec3{}, math.Vec3{X: 2, Y: 2, Z: 2}, 0.3)
	if !b.Contains(math.Vec3{}) {
		t.Error("centre should be inside")
	}
	if b.Contains(math.Vec3{X: 5}) {
		t.Error("far point should be outside")
	}
}

func TestNewAABB_OrdersCorners(t *testing.T) {
	bb := NewAABB(math.Vec3{X: 2, Y: -1, Z: 3}, math.Vec3{X: -2, Y: 1, Z: 0})
	if bb.Min != (math.Vec3{X: -2, Y: -1, Z: 0}) || bb.Max != (math.Vec3{X: 2, Y: 1, Z: 3}) {
		t.Errorf("NewAABB() = %+v", bb)
	}
	r := Ray{Origin: math.Vec3{X: -5}, Direction: math.Vec3{X: 1}}
	if d, ok := r.IntersectAABB(bb); !ok || d != 3 {
		t.Errorf("IntersectAABB() = %v, %v, want 3, true", d, ok)
	}
}
