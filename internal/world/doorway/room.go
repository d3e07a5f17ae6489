package doorway

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/layout"
	"github.com/Faultbox/officewalk/pkg/math"
)

// RoomWall names one of a room's four walls in its local frame.
type RoomWall int

const (
	WallNorth RoomWall = iota // +Z
	WallSouth                 // -Z
	WallEast                  // +X
	WallWest                  // -X
)

var roomWallNames = [4]string{"north", "south", "east", "west"}

func (w RoomWall) String() string {
	if w < 0 || int(w) >= len(roomWallNames) {
		return fmt.Sprintf("wall(%d)", int(w))
	}
	return roomWallNames[w]
}

// Room is a box-shaped room generated independently of the corridor graph.
type Room struct {
	Name   string
	Anchor math.Vec3 // Floor centre
	Size   math.Vec3 // Width (X), height (Y), depth (Z) in the local frame
	Yaw    float32   // Multiple of a quarter turn

	cutouts [4][]layout.Cutout
	built   bool
	Meshes  []*layout.Mesh
}

// NewRoom creates a room from a spec, snapping rotation to quarter turns.
func NewRoom(spec RoomSpec) (*Room, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("room has no name")
	}
	size := math.Vec3{X: spec.Size[0], Y: spec.Size[1], Z: spec.Size[2]}
	if size.X <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("room %q has non-positive size %v", spec.Name, spec.Size)
	}
	yaw := spec.Rotation * math.Pi / 180
	return &Room{
		Name:   spec.Name,
		Anchor: math.Vec3{X: spec.Anchor[0], Y: spec.Anchor[1], Z: spec.Anchor[2]},
		Size:   size,
		Yaw:    math.SnapAngle(yaw, math.Pi/2),
	}, nil
}

// Cutouts returns the doorway gaps recorded for a wall.
func (r *Room) Cutouts(w RoomWall) []layout.Cutout {
	return r.cutouts[w]
}

func (r *Room) toLocal(p math.Vec3) math.Vec3 {
	return p.Sub(r.Anchor).RotateY(-r.Yaw)
}

func (r *Room) toWorld(p math.Vec3) math.Vec3 {
	return p.RotateY(r.Yaw).Add(r.Anchor)
}

// nearestWall returns the wall whose plane is closest to a local point.
func (r *Room) nearestWall(local math.Vec3) RoomWall {
	hx, hz := r.Size.X/2, r.Size.Z/2
	dists := [4]float32{
		math.Abs(local.Z - hz),
		math.Abs(local.Z + hz),
		math.Abs(local.X - hx),
		math.Abs(local.X + hx),
	}
	best := WallNorth
	for w := WallSouth; w <= WallWest; w++ {
		if dists[w] < dists[best] {
			best = w
		}
	}
	return best
}

// run describes a wall's straight run in the room's local frame.
// Start lies on the wall's centre line; Dir is the running axis.
func (r *Room) run(w RoomWall, thickness float32) (start, dir math.Vec3, length float32) {
	hx, hz := r.Size.X/2, r.Size.Z/2
	t := thickness
	switch w {
	case WallNorth:
		return math.Vec3{X: -hx - t, Z: hz + t/2}, math.Vec3{X: 1}, r.Size.X + 2*t
	case WallSouth:
		return math.Vec3{X: -hx - t, Z: -hz - t/2}, math.Vec3{X: 1}, r.Size.X + 2*t
	case WallEast:
		return math.Vec3{X: hx + t/2, Z: -hz}, math.Vec3{Z: 1}, r.Size.Z
	default:
		return math.Vec3{X: -hx - t/2, Z: -hz}, math.Vec3{Z: 1}, r.Size.Z
	}
}

// cut records a doorway on the wall nearest a world point and returns the
// doorway centre in world space.
func (r *Room) cut(doorPos math.Vec3, width, thickness float32) (RoomWall, math.Vec3) {
	local := r.toLocal(doorPos)
	wall := r.nearestWall(local)
	start, dir, length := r.run(wall, thickness)

	// Keep the whole opening on the wall
	along := local.Sub(start).Dot(dir)
	along = math.Clamp(along, width/2, length-width/2)
	r.cutouts[wall] = append(r.cutouts[wall], layout.Cutout{Center: along, Width: width})

	// Doorway centre on the wall's centre line
	center := start.Add(dir.Scale(along))
	center.Y = 0
	return wall, r.toWorld(center)
}

// build emits the room's floor, ceiling and four walls into the registry.
func (r *Room) build(reg *layout.Registry, cfg layout.Config) {
	t := cfg.WallThickness
	h := r.Size.Y
	if h <= 0 {
		h = cfg.WallHeight
	}
	wallCfg := cfg
	wallCfg.WallHeight = h
	prefix := "room:" + r.Name

	add := func(m layout.Mesh) {
		if mesh := reg.Add(m); mesh != nil {
			r.Meshes = append(r.Meshes, mesh)
		}
	}
	add(layout.Mesh{
		Name:   prefix + ":floor",
		Kind:   layout.KindFloor,
		Center: r.toWorld(math.Vec3{Y: -t / 2}),
		Size:   math.Vec3{X: r.Size.X, Y: t, Z: r.Size.Z},
		Yaw:    r.Yaw,
	})
	add(layout.Mesh{
		Name:   prefix + ":ceiling",
		Kind:   layout.KindCeiling,
		Center: r.toWorld(math.Vec3{Y: h + t/2}),
		Size:   math.Vec3{X: r.Size.X, Y: t, Z: r.Size.Z},
		Yaw:    r.Yaw,
	})
	for w := WallNorth; w <= WallWest; w++ {
		start, dir, length := r.run(w, t)
		name := fmt.Sprintf("%s:wall:%s", prefix, w)
		for _, m := range layout.WallMeshes(name, r.toWorld(start), dir.RotateY(r.Yaw), length, r.cutouts[w], wallCfg) {
			add(m)
		}
	}
	r.built = true
	logger.Debug("Room built", zap.String("room", r.Name), zap.Int("meshes", len(r.Meshes)))
}
