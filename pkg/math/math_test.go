package math

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return Abs(a-b) < 1e-4
}

func TestVec2DistanceToSegment(t *testing.T) {
	p := Vec2{1, 1}
	got := p.DistanceToSegment(Vec2{0, 0}, Vec2{2, 0})
	if !approx(got, 1) {
		t.Errorf("DistanceToSegment() = %v, want 1", got)
	}

	// Beyond the end clamps to the endpoint
	got = Vec2{5, 0}.DistanceToSegment(Vec2{0, 0}, Vec2{2, 0})
	if !approx(got, 3) {
		t.Errorf("DistanceToSegment() past end = %v, want 3", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestForwardRight(t *testing.T) {
	f := Forward(0)
	if !f.NearlyEqual(Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("Forward(0) = %v, want +Z", f)
	}
	r := Right(0)
	if !r.NearlyEqual(Vec3{-1, 0, 0}, 1e-6) {
		t.Errorf("Right(0) = %v, want -X", r)
	}
	// Right is forward x up
	if c := f.Cross(Up); !c.NearlyEqual(r, 1e-6) {
		t.Errorf("Forward x Up = %v, want %v", c, r)
	}
}

func TestRotateYMatchesForward(t *testing.T) {
	for _, yaw := range []float32{0, 0.5, -1.2, Pi / 2, Pi} {
		got := Vec3{0, 0, 1}.RotateY(yaw)
		if !got.NearlyEqual(Forward(yaw), 1e-5) {
			t.Errorf("RotateY(%v) = %v, want %v", yaw, got, Forward(yaw))
		}
		back := got.RotateY(-yaw)
		if !back.NearlyEqual(Vec3{0, 0, 1}, 1e-5) {
			t.Errorf("RotateY round trip = %v", back)
		}
	}
}

func TestYawOf(t *testing.T) {
	if got := YawOf(Vec3{1, 0, 0}); !approx(got, Pi/2) {
		t.Errorf("YawOf(+X) = %v, want Pi/2", got)
	}
	if got := YawOf(Vec3{0, 0, -1}); !approx(Abs(got), Pi) {
		t.Errorf("YawOf(-Z) = %v, want ±Pi", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("expected finite vector")
	}
	nan := float32(math.NaN())
	if (Vec3{1, nan, 3}).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	inf := float32(math.Inf(1))
	if IsFinite(inf) {
		t.Error("Inf should not be finite")
	}
}

func TestWrapAndLerpAngle(t *testing.T) {
	if got := WrapAngle(3 * Pi); !approx(Abs(got), Pi) {
		t.Errorf("WrapAngle(3Pi) = %v", got)
	}
	// Shorter arc crosses the ±Pi seam
	got := LerpAngle(Pi-0.1, -Pi+0.1, 0.5)
	if !approx(Abs(WrapAngle(got)), Pi) {
		t.Errorf("LerpAngle across seam = %v, want ±Pi", got)
	}
}

func TestSnapAngle(t *testing.T) {
	if got := SnapAngle(1.4, Pi/2); !approx(got, Pi/2) {
		t.Errorf("SnapAngle(1.4) = %v, want Pi/2", got)
	}
	if got := SnapAngle(-0.2, Pi/2); !approx(got, 0) {
		t.Errorf("SnapAngle(-0.2) = %v, want 0", got)
	}
}

func TestDamp(t *testing.T) {
	if d := Damp(10, 0); d != 0 {
		t.Errorf("Damp(dt=0) = %v, want 0", d)
	}
	d := Damp(10, 1)
	if d <= 0.99 || d > 1 {
		t.Errorf("Damp(10, 1) = %v, want ~1", d)
	}
}
