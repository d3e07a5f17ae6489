package collision

import (
	"github.com/Faultbox/officewalk/internal/engine/raycast"
	"github.com/Faultbox/officewalk/pkg/math"
)

// ResolverConfig tunes the ray shell and slide response.
type ResolverConfig struct {
	PlayerRadius  float32   `yaml:"player_radius"`
	MinMotion     float32   `yaml:"min_motion"`
	FanAngles     []float32 `yaml:"fan_angles"`     // Lateral offsets from the movement direction, radians
	HeightOffsets []float32 `yaml:"height_offsets"` // Ray origins relative to eye height: eye, chest, knee, foot
	SlideFriction float32   `yaml:"slide_friction"`
	MaxDepth      int       `yaml:"max_depth"`
}

// DefaultResolverConfig returns the 20-ray shell: 5 directions at 4 heights.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		PlayerRadius:  0.3,
		MinMotion:     1e-4,
		FanAngles:     []float32{0, -0.15, 0.15, -0.3, 0.3},
		HeightOffsets: []float32{0, -0.5, -1.1, -1.5},
		SlideFriction: 0.8,
		MaxDepth:      3,
	}
}

// Resolution is the detailed outcome of a resolve call.
type Resolution struct {
	Delta   math.Vec3
	Blocked bool // A blocking surface was hit on the direct path
	Depth   int  // Deepest slide recursion reached
}

// Resolver adjusts movement deltas against collidable surfaces.
// It holds configuration only, so Resolve is a pure function of its inputs.
type Resolver struct {
	cfg ResolverConfig
}

// NewResolver creates a resolver. Zero fields fall back to defaults.
func NewResolver(cfg ResolverConfig) *Resolver {
	def := DefaultResolverConfig()
	if cfg.PlayerRadius <= 0 {
		cfg.PlayerRadius = def.PlayerRadius
	}
	if cfg.MinMotion <= 0 {
		cfg.MinMotion = def.MinMotion
	}
	if len(cfg.FanAngles) == 0 {
		cfg.FanAngles = def.FanAngles
	}
	if len(cfg.HeightOffsets) == 0 {
		cfg.HeightOffsets = def.HeightOffsets
	}
	if cfg.SlideFriction <= 0 || cfg.SlideFriction >= 1 {
		cfg.SlideFriction = def.SlideFriction
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	return &Resolver{cfg: cfg}
}

// Config returns the effective configuration.
func (r *Resolver) Config() ResolverConfig {
	return r.cfg
}

// ProbeRadius is how far from the player collidables can matter for a delta.
func (r *Resolver) ProbeRadius(delta math.Vec3) float32 {
	return delta.Length() + r.cfg.PlayerRadius*2
}

// Resolve returns the part of delta the player may move from position.
func (r *Resolver) Resolve(delta, position math.Vec3, collidables []Collidable) math.Vec3 {
	return r.ResolveDetailed(delta, position, collidables).Delta
}

// ResolveDetailed is Resolve plus hit and recursion bookkeeping.
func (r *Resolver) ResolveDetailed(delta, position math.Vec3, collidables []Collidable) Resolution {
	res := Resolution{}
	res.Delta = r.resolve(delta, position, collidables, 0, &res)
	return res
}

func (r *Resolver) resolve(delta, position math.Vec3, collidables []Collidable, depth int, res *Resolution) math.Vec3 {
	if depth > res.Depth {
		res.Depth = depth
	}
	// Exhausted: stop movement for this frame rather than bounce forever
	if depth >= r.cfg.MaxDepth {
		return math.Vec3{}
	}

	dist := delta.Length()
	if dist < r.cfg.MinMotion {
		return delta
	}
	dir := delta.Scale(1 / dist)

	hit, ok := r.nearestBlockingHit(dir, dist, position, collidables)
	if !ok {
		return delta
	}
	if depth == 0 {
		res.Blocked = true
	}

	allowedDist := hit.Distance - r.cfg.PlayerRadius*1.2
	if allowedDist < 0 {
		allowedDist = 0
	}
	// The ray reaches past the delta; a far hit must not lengthen the move
	if allowedDist > dist {
		allowedDist = dist
	}
	allowed := dir.Scale(allowedDist)

	// Project the leftover onto the collision plane
	remaining := delta.Sub(allowed)
	slide := remaining.Sub(hit.Normal.Scale(remaining.Dot(hit.Normal)))
	if math.Abs(hit.Normal.Y) < 0.5 {
		slide.Y = 0
	}
	slide = slide.Scale(r.cfg.SlideFriction)

	resolved := r.resolve(slide, position.Add(allowed), collidables, depth+1, res)
	return allowed.Add(resolved)
}

// nearestBlockingHit casts the fan of rays at every height and keeps the
// closest hit whose surface faces the ray.
func (r *Resolver) nearestBlockingHit(dir math.Vec3, dist float32, position math.Vec3, collidables []Collidable) (raycast.Hit, bool) {
	rayLength := dist + r.cfg.PlayerRadius*1.5

	var best raycast.Hit
	found := false
	for _, h := range r.cfg.HeightOffsets {
		origin := position.Add(math.Vec3{Y: h})
		for _, angle := range r.cfg.FanAngles {
			rayDir := dir
			if angle != 0 {
				rayDir = dir.RotateY(angle).Normalize()
			}
			ray := raycast.Ray{Origin: origin, Direction: rayDir}

			for _, c := range collidables {
				hit, ok := ray.IntersectBox(c.Box)
				if !ok || hit.Distance > rayLength {
					continue
				}
				if hit.Normal.Dot(rayDir) >= 0 {
					continue
				}
				if !found || hit.Distance < best.Distance {
					best = hit
					found = true
				}
			}
		}
	}
	return best, found
}
