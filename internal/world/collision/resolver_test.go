package collision

import (
	"testing"

	"github.com/Faultbox/officewalk/internal/engine/raycast"
	"github.com/Faultbox/officewalk/pkg/math"
)

const eyeHeight = 1.6

// corridorWalls builds a straight corridor along Z with inner wall faces at x = ±1.
func corridorWalls() []Collidable {
	size := math.Vec3{X: 0.1, Y: 3, Z: 20}
	return []Collidable{
		{ID: "wall-east", Type: SurfaceWall, Box: raycast.NewBox(math.Vec3{X: 1.05, Y: 1.5}, size, 0)},
		{ID: "wall-west", Type: SurfaceWall, Box: raycast.NewBox(math.Vec3{X: -1.05, Y: 1.5}, size, 0)},
		{ID: "floor", Type: SurfaceFloor, Box: raycast.NewBox(math.Vec3{Y: -0.05}, math.Vec3{X: 2, Y: 0.1, Z: 20}, 0)},
		{ID: "ceiling", Type: SurfaceCeiling, Box: raycast.NewBox(math.Vec3{Y: 3.05}, math.Vec3{X: 2, Y: 0.1, Z: 20}, 0)},
	}
}

func TestResolver_NoCollision(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	delta := math.Vec3{Z: 0.2}
	got := r.Resolve(delta, math.Vec3{Y: eyeHeight}, corridorWalls())
	if got != delta {
		t.Errorf("Resolve() = %v, want unchanged %v", got, delta)
	}
}

func TestResolver_BelowMinMotion(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	delta := math.Vec3{X: 1e-5}
	// Even pressed against a wall, tiny input is returned untouched
	got := r.Resolve(delta, math.Vec3{X: 0.99, Y: eyeHeight}, corridorWalls())
	if got != delta {
		t.Errorf("Resolve() = %v, want %v", got, delta)
	}
}

func TestResolver_HeadOnClampsToHitDistance(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	// Wall face 0.5 ahead, move 0.2 toward it: ray reach 0.2+0.45 covers it
	pos := math.Vec3{X: 0.5, Y: eyeHeight}
	got := r.ResolveDetailed(math.Vec3{X: 0.2}, pos, corridorWalls())

	if !got.Blocked {
		t.Fatal("expected a blocking hit")
	}
	want := float32(0.5 - 0.36)
	if math.Abs(got.Delta.X-want) > 1e-4 {
		t.Errorf("allowed X = %v, want %v", got.Delta.X, want)
	}
	if math.Abs(got.Delta.Z) > 1e-5 || math.Abs(got.Delta.Y) > 1e-5 {
		t.Errorf("head-on slide should be zero, got %v", got.Delta)
	}
}

func TestResolver_AllowedNeverNegative(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	// Already inside the 1.2*radius buffer
	pos := math.Vec3{X: 0.75, Y: eyeHeight}
	got := r.Resolve(math.Vec3{X: 0.1}, pos, corridorWalls())
	if got.X < 0 {
		t.Errorf("allowed X = %v, must not push backwards", got.X)
	}
	if got.X > 1e-5 {
		t.Errorf("allowed X = %v, want 0", got.X)
	}
}

func TestResolver_SlidesAlongWall(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	pos := math.Vec3{X: 0.64, Y: eyeHeight}
	delta := math.Vec3{X: 0.2, Z: 0.2}

	got := r.Resolve(delta, pos, corridorWalls())

	if got.X > 0.05 {
		t.Errorf("normal component = %v, want near zero", got.X)
	}
	// Tangential motion survives, damped only by slide friction
	minZ := delta.Z * r.Config().SlideFriction
	if got.Z < minZ-1e-4 || got.Z > delta.Z+1e-4 {
		t.Errorf("tangential component = %v, want in [%v, %v]", got.Z, minZ, delta.Z)
	}
	if got.Y != 0 {
		t.Errorf("vertical slide = %v, want 0 against a vertical wall", got.Y)
	}
	if end := pos.X + got.X; 1.0-end < r.Config().PlayerRadius {
		t.Errorf("ended %v from the wall, closer than the player radius", 1.0-end)
	}
}

func TestResolver_TangentialPassesUnchanged(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	delta := math.Vec3{Z: 0.1}
	got := r.Resolve(delta, math.Vec3{X: 0.64, Y: eyeHeight}, corridorWalls())
	if got != delta {
		t.Errorf("parallel move = %v, want unchanged %v", got, delta)
	}
}

func TestResolver_IgnoresBackFacingSurfaces(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	// Standing inside a wall box: rays only see exit faces, which face along the ray
	inside := []Collidable{{ID: "blob", Box: raycast.NewBox(math.Vec3{Y: 1.5}, math.Vec3{X: 4, Y: 3, Z: 4}, 0)}}
	delta := math.Vec3{X: 0.1}
	if got := r.Resolve(delta, math.Vec3{Y: eyeHeight}, inside); got != delta {
		t.Errorf("Resolve() = %v, want %v", got, delta)
	}
}

func TestResolver_LowObstacleCaughtByFootRay(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	// Knee-high block that an eye-height ray would miss
	low := []Collidable{{ID: "bench", Box: raycast.NewBox(math.Vec3{Z: 1.05, Y: 0.25}, math.Vec3{X: 2, Y: 0.5, Z: 0.1}, 0)}}
	got := r.ResolveDetailed(math.Vec3{Z: 0.3}, math.Vec3{Y: eyeHeight, Z: 0.4}, low)
	if !got.Blocked {
		t.Fatal("expected the foot ray to block")
	}
	// Face at z=1.0 is 0.6 ahead
	if want := float32(0.6 - 0.36); math.Abs(got.Delta.Z-want) > 1e-4 {
		t.Errorf("moved %v, want %v", got.Delta.Z, want)
	}
}

func TestResolver_FarHitDoesNotOvershoot(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	// Face 0.5 away, tiny step: the hit is inside ray reach but beyond the buffer
	delta := math.Vec3{X: 0.1}
	got := r.Resolve(delta, math.Vec3{X: 0.5, Y: eyeHeight}, corridorWalls())
	if got.X > delta.X+1e-6 {
		t.Errorf("allowed %v exceeds intended %v", got.X, delta.X)
	}
}

func TestResolver_Pure(t *testing.T) {
	r := NewResolver(DefaultResolverConfig())
	walls := corridorWalls()
	pos := math.Vec3{X: 0.6, Y: eyeHeight, Z: 3}
	delta := math.Vec3{X: 0.3, Z: -0.1}

	a := r.ResolveDetailed(delta, pos, walls)
	b := r.ResolveDetailed(delta, pos, walls)
	if a != b {
		t.Errorf("repeated Resolve differs: %+v vs %+v", a, b)
	}
}

func TestResolver_ConcaveCornerTerminates(t *testing.T) {
	cfg := DefaultResolverConfig()
	r := NewResolver(cfg)

	// Two walls meeting at an acute V: every slide runs into the other wall
	corner := []Collidable{
		{ID: "v-left", Box: raycast.NewBox(math.Vec3{X: 0.6, Y: 1.5, Z: 1.2}, math.Vec3{X: 0.1, Y: 3, Z: 3}, 0.4)},
		{ID: "v-right", Box: raycast.NewBox(math.Vec3{X: -0.6, Y: 1.5, Z: 1.2}, math.Vec3{X: 0.1, Y: 3, Z: 3}, -0.4)},
		{ID: "cap", Box: raycast.NewBox(math.Vec3{Y: 1.5, Z: 2.4}, math.Vec3{X: 3, Y: 3, Z: 0.1}, 0)},
	}
	for _, delta := range []math.Vec3{{Z: 2}, {X: 0.8, Z: 1.5}, {X: -1.2, Z: 0.9}} {
		got := r.ResolveDetailed(delta, math.Vec3{Y: eyeHeight, Z: 0.5}, corner)
		if got.Depth > cfg.MaxDepth {
			t.Errorf("depth %d exceeds bound %d", got.Depth, cfg.MaxDepth)
		}
		if !got.Delta.IsFinite() {
			t.Errorf("non-finite result %v", got.Delta)
		}
		if got.Delta.Length() > delta.Length()+1e-4 {
			t.Errorf("resolved %v longer than intended %v", got.Delta, delta)
		}
	}
}

func TestNewResolver_Defaults(t *testing.T) {
	r := NewResolver(ResolverConfig{SlideFriction: 1.5})
	cfg := r.Config()
	if cfg.PlayerRadius != 0.3 || cfg.MaxDepth != 3 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.SlideFriction >= 1 {
		t.Errorf("friction %v must damp", cfg.SlideFriction)
	}
	if n := len(cfg.FanAngles) * len(cfg.HeightOffsets); n != 20 {
		t.Errorf("ray count = %d, want 20", n)
	}
}
