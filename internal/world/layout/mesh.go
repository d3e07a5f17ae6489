package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/engine/raycast"
	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/collision"
	"github.com/Faultbox/officewalk/pkg/math"
)

// Kind classifies a generated mesh.
type Kind int

const (
	KindFloor Kind = iota
	KindCeiling
	KindWall
	KindTrim
	KindLight
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFloor:
		return "floor"
	case KindCeiling:
		return "ceiling"
	case KindWall:
		return "wall"
	case KindTrim:
		return "trim"
	case KindLight:
		return "light"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Solid reports whether meshes of this kind block movement.
func (k Kind) Solid() bool {
	return k == KindFloor || k == KindCeiling || k == KindWall
}

func (k Kind) surface() collision.SurfaceType {
	switch k {
	case KindFloor:
		return collision.SurfaceFloor
	case KindCeiling:
		return collision.SurfaceCeiling
	default:
		return collision.SurfaceWall
	}
}

// Mesh is a generated box: Size is the full extent in the mesh's local
// frame, rotated by Yaw around Y.
type Mesh struct {
	Name   string
	Kind   Kind
	Center math.Vec3
	Size   math.Vec3
	Yaw    float32
}

// Box returns the mesh's oriented collision box.
func (m *Mesh) Box() raycast.Box {
	return raycast.NewBox(m.Center, m.Size, m.Yaw)
}

// Registry is the explicit list of generated mesh handles. Solid meshes are
// registered with the collision world as they are added; Dispose drops both.
type Registry struct {
	world  *collision.World
	meshes []*Mesh
	names  map[string]bool
}

// NewRegistry creates a registry feeding the given collision world.
// A nil world keeps meshes visual only.
func NewRegistry(world *collision.World) *Registry {
	return &Registry{world: world, names: make(map[string]bool)}
}

// Add records a mesh and, for solid kinds, registers its collidable.
// Duplicate names are logged and skipped.
func (r *Registry) Add(m Mesh) *Mesh {
	if r.names[m.Name] {
		logger.Warn("Duplicate mesh name skipped", zap.String("mesh", m.Name))
		return nil
	}
	mesh := &m
	r.meshes = append(r.meshes, mesh)
	r.names[m.Name] = true

	if r.world != nil && m.Kind.Solid() {
		if err := r.world.Add(collision.Collidable{ID: m.Name, Box: mesh.Box(), Type: m.Kind.surface()}); err != nil {
			logger.Warn("Failed to register collidable", zap.String("mesh", m.Name), zap.Error(err))
		}
	}
	return mesh
}

// Meshes returns the registered meshes in creation order.
func (r *Registry) Meshes() []*Mesh {
	return r.meshes
}

// Len returns the number of registered meshes.
func (r *Registry) Len() int {
	return len(r.meshes)
}

// Count returns the number of meshes of one kind.
func (r *Registry) Count(kind Kind) int {
	n := 0
	for _, m := range r.meshes {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// World returns the collision world solid meshes are registered with.
func (r *Registry) World() *collision.World {
	return r.world
}

// Dispose drops every mesh handle and clears the collision world.
func (r *Registry) Dispose() {
	r.meshes = nil
	r.names = make(map[string]bool)
	if r.world != nil {
		r.world.Clear()
	}
}
