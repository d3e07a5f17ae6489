// Package collision holds the collidable registry and the movement resolver.
package collision

import (
	"fmt"

	"github.com/Faultbox/officewalk/internal/engine/raycast"
	"github.com/Faultbox/officewalk/internal/engine/spatial"
	"github.com/Faultbox/officewalk/pkg/math"
)

// SurfaceType classifies a collidable surface.
type SurfaceType int

const (
	SurfaceWall SurfaceType = iota
	SurfaceFloor
	SurfaceCeiling
)

// String returns the surface name.
func (s SurfaceType) String() string {
	switch s {
	case SurfaceWall:
		return "wall"
	case SurfaceFloor:
		return "floor"
	case SurfaceCeiling:
		return "ceiling"
	default:
		return fmt.Sprintf("surface(%d)", int(s))
	}
}

// Collidable is a generated surface registered for collision queries.
type Collidable struct {
	ID   string
	Box  raycast.Box
	Type SurfaceType
}

// World is the registry of collidables, indexed spatially on the XZ plane.
// It is written only by geometry builds; readers treat it as immutable.
type World struct {
	index      *spatial.Grid
	collidable map[string]Collidable
}

// NewWorld creates an empty world with the given index cell size.
func NewWorld(cellSize float32) *World {
	return &World{
		index:      spatial.NewGrid(cellSize),
		collidable: make(map[string]Collidable),
	}
}

// Add registers a collidable. Re-using an id is an error; ids come from the
// mesh registry and must be unique within one build.
func (w *World) Add(c Collidable) error {
	if _, exists := w.collidable[c.ID]; exists {
		return fmt.Errorf("collidable %q already registered", c.ID)
	}
	w.collidable[c.ID] = c

	bb := c.Box.AABB()
	w.index.Insert(c.ID, spatial.Rect{Min: bb.Min.XZ(), Max: bb.Max.XZ()})
	return nil
}

// Clear drops every collidable. Rebuilds replace the world wholesale.
func (w *World) Clear() {
	w.index.Clear()
	w.collidable = make(map[string]Collidable)
}

// Len returns the number of registered collidables.
func (w *World) Len() int {
	return len(w.collidable)
}

// Get returns a collidable by id.
func (w *World) Get(id string) (Collidable, bool) {
	c, ok := w.collidable[id]
	return c, ok
}

// CollidablesNear returns collidables whose ground footprint lies within radius of pos.
func (w *World) CollidablesNear(pos math.Vec3, radius float32) []Collidable {
	ids := w.index.QueryNear(pos.XZ(), radius)
	out := make([]Collidable, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.collidable[id])
	}
	return out
}

// IDsNear returns the ids of collidables within radius of pos, sorted.
func (w *World) IDsNear(pos math.Vec3, radius float32) []string {
	return w.index.QueryNear(pos.XZ(), radius)
}

// IsCovered reports whether a ceiling lies directly above the ground point.
// Weather effects use it to suppress rain indoors.
func (w *World) IsCovered(x, z float32) bool {
	p := math.Vec2{X: x, Y: z}
	for _, id := range w.index.QueryNear(p, 0) {
		c := w.collidable[id]
		if c.Type != SurfaceCeiling {
			continue
		}
		// Footprint test in the ceiling's own frame
		local := math.Vec3{X: x, Z: z}.Sub(math.Vec3{X: c.Box.Center.X, Z: c.Box.Center.Z}).RotateY(-c.Box.Yaw)
		if math.Abs(local.X) <= c.Box.Half.X && math.Abs(local.Z) <= c.Box.Half.Z {
			return true
		}
	}
	return false
}
