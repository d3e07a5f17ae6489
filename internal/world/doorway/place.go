// Package doorway places doors, bridges rooms to corridors with vestibule
// tunnels and tracks door open state.
package doorway

import (
	"errors"
	"fmt"

	"github.com/Faultbox/officewalk/internal/world/graph"
	"github.com/Faultbox/officewalk/internal/world/layout"
	"github.com/Faultbox/officewalk/pkg/math"
)

// Placement is a door's world position and the yaw it faces.
type Placement struct {
	Position math.Vec3
	Yaw      float32
}

// PlaceDoor puts a door on the edge of a junction's footprint, facing out of
// the given side.
func PlaceDoor(g *graph.Map, junction string, side graph.Direction, cfg layout.Config) (Placement, error) {
	pos, ok := g.WorldPosition(junction, cfg.SegmentLength)
	if !ok {
		return Placement{}, fmt.Errorf("placing door: unknown junction %q", junction)
	}
	return Placement{
		Position: pos.Add(side.Vector().Scale(cfg.JunctionRadius())),
		Yaw:      side.Yaw(),
	}, nil
}

// PlaceWallDoor puts a door in a corridor wall, along metres from the
// segment's start node. Left and right are relative to facing from -> to.
func PlaceWallDoor(g *graph.Map, from, to, wall string, along float32, cfg layout.Config) (Placement, error) {
	start, ok := g.WorldPosition(from, cfg.SegmentLength)
	if !ok {
		return Placement{}, fmt.Errorf("placing door: unknown node %q", from)
	}
	end, ok := g.WorldPosition(to, cfg.SegmentLength)
	if !ok {
		return Placement{}, fmt.Errorf("placing door: unknown node %q", to)
	}
	dir := end.Sub(start).Normalize()
	if dir == (math.Vec3{}) {
		return Placement{}, fmt.Errorf("placing door: segment %s-%s has no length", from, to)
	}
	lateral := math.Vec3{X: dir.Z, Z: -dir.X}

	var sign float32
	switch wall {
	case "left":
		sign = 1
	case "right":
		sign = -1
	default:
		return Placement{}, fmt.Errorf("placing door: unknown wall %q", wall)
	}
	outward := lateral.Scale(sign)
	return Placement{
		Position: start.Add(dir.Scale(along)).Add(outward.Scale(cfg.CorridorWidth / 2)),
		Yaw:      math.YawOf(outward),
	}, nil
}

// RoomSpec declares a room in a blueprint. Anchor is the centre of the
// room's floor; Rotation is in degrees and snaps to quarter turns.
type RoomSpec struct {
	Name     string     `yaml:"name"`
	Anchor   [3]float32 `yaml:"anchor,flow"`
	Size     [3]float32 `yaml:"size,flow"`
	Rotation float32    `yaml:"rotation,omitempty"`
}

// DoorSpec declares a door in a blueprint. A door sits either on a junction
// side or on a segment wall.
type DoorSpec struct {
	Name string `yaml:"name"`
	Room string `yaml:"room,omitempty"`

	Junction string          `yaml:"junction,omitempty"`
	Side     graph.Direction `yaml:"side,omitempty"`

	Segment []string `yaml:"segment,flow,omitempty"` // [from, to]
	Wall    string   `yaml:"wall,omitempty"`         // left or right
	Along   float32  `yaml:"along,omitempty"`

	Width         float32 `yaml:"width,omitempty"`
	OpenDirection int     `yaml:"open_direction,omitempty"`
}

// Place resolves the door's world placement.
func (s DoorSpec) Place(g *graph.Map, cfg layout.Config) (Placement, error) {
	switch {
	case s.Junction != "":
		return PlaceDoor(g, s.Junction, s.Side, cfg)
	case len(s.Segment) == 2:
		return PlaceWallDoor(g, s.Segment[0], s.Segment[1], s.Wall, s.Along, cfg)
	case len(s.Segment) != 0:
		return Placement{}, fmt.Errorf("door %q: segment needs exactly two node ids", s.Name)
	default:
		return Placement{}, errors.New("door " + s.Name + " has neither junction nor segment")
	}
}
