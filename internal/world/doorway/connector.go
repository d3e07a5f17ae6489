package doorway

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/layout"
	"github.com/Faultbox/officewalk/pkg/math"
)

// DefaultOverlapMargin absorbs alignment drift between corridor and room
// geometry at both tunnel ends.
const DefaultOverlapMargin = 0.1

// Vestibule is the tunnel joining a corridor-side door to a room doorway.
type Vestibule struct {
	Room    string
	Door    math.Vec3
	Doorway math.Vec3 // Centre of the room wall opening
	Wall    RoomWall
	Length  float32 // Door to doorway, without margins
	Width   float32
	Yaw     float32
	Meshes  []*layout.Mesh
}

// Connector bridges rooms to the corridor network. Rooms collect doorway
// cutouts as they are connected; BuildRooms emits their walls afterwards.
type Connector struct {
	cfg      layout.Config
	overlap  float32
	registry *layout.Registry

	rooms      map[string]*Room
	order      []string
	vestibules []*Vestibule
}

// NewConnector creates a connector emitting into the builder's registry.
func NewConnector(cfg layout.Config, overlap float32, reg *layout.Registry) *Connector {
	if overlap <= 0 {
		overlap = DefaultOverlapMargin
	}
	return &Connector{
		cfg:      cfg,
		overlap:  overlap,
		registry: reg,
		rooms:    make(map[string]*Room),
	}
}

// AddRoom registers a room from a spec.
func (c *Connector) AddRoom(spec RoomSpec) (*Room, error) {
	if _, dup := c.rooms[spec.Name]; dup {
		return nil, fmt.Errorf("duplicate room %q", spec.Name)
	}
	room, err := NewRoom(spec)
	if err != nil {
		return nil, err
	}
	c.rooms[room.Name] = room
	c.order = append(c.order, room.Name)
	return room, nil
}

// Room returns a registered room by name.
func (c *Connector) Room(name string) (*Room, bool) {
	r, ok := c.rooms[name]
	return r, ok
}

// Rooms returns registered rooms in insertion order.
func (c *Connector) Rooms() []*Room {
	out := make([]*Room, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.rooms[name])
	}
	return out
}

// Vestibules returns every tunnel built so far.
func (c *Connector) Vestibules() []*Vestibule {
	return c.vestibules
}

// TunnelWidth returns the inner width of a vestibule for a door. A
// non-positive doorWidth or overlap uses the default.
func TunnelWidth(doorWidth float32, cfg layout.Config, overlap float32) float32 {
	if doorWidth <= 0 {
		doorWidth = cfg.DoorWidth
	}
	if overlap <= 0 {
		overlap = DefaultOverlapMargin
	}
	return max(doorWidth, cfg.CorridorWidth) + overlap
}

// ConnectRoomToCorridor cuts a doorway of doorWidth into the room wall
// nearest the door and builds a tunnel from the door to it. Tunnel surfaces
// are registered as collidables. A door already on the wall gets no tunnel.
// A non-positive doorWidth uses the configured door width.
func (c *Connector) ConnectRoomToCorridor(doorPos math.Vec3, room *Room, doorYaw, doorWidth float32) (*Vestibule, error) {
	if room == nil {
		return nil, fmt.Errorf("connecting door at %v: no room", doorPos)
	}
	if room.built {
		return nil, fmt.Errorf("connecting door at %v: room %q already built", doorPos, room.Name)
	}

	if doorWidth <= 0 {
		doorWidth = c.cfg.DoorWidth
	}
	t := c.cfg.WallThickness
	wall, doorway := room.cut(doorPos, doorWidth, t)

	door := math.Vec3{X: doorPos.X, Z: doorPos.Z}
	span := doorway.Sub(door)
	span.Y = 0
	length := span.Length()

	v := &Vestibule{
		Room:    room.Name,
		Door:    door,
		Doorway: doorway,
		Wall:    wall,
		Length:  length,
		Width:   TunnelWidth(doorWidth, c.cfg, c.overlap),
		Yaw:     doorYaw,
	}
	c.vestibules = append(c.vestibules, v)

	if length < 1e-3 {
		logger.Debug("Door sits on room wall, no vestibule", zap.String("room", room.Name))
		return v, nil
	}

	dir := span.Scale(1 / length)
	v.Yaw = math.YawOf(dir)
	c.buildTunnel(v, dir, len(c.vestibules)-1)
	return v, nil
}

func (c *Connector) buildTunnel(v *Vestibule, dir math.Vec3, index int) {
	t := c.cfg.WallThickness
	h := c.cfg.WallHeight
	total := v.Length + 2*c.overlap
	center := v.Door.Lerp(v.Doorway, 0.5)
	lateral := math.Vec3{X: dir.Z, Z: -dir.X}
	prefix := fmt.Sprintf("vestibule:%s:%d", v.Room, index)

	meshes := []layout.Mesh{
		{
			Name:   prefix + ":floor",
			Kind:   layout.KindFloor,
			Center: center.Add(math.Vec3{Y: -t / 2}),
			Size:   math.Vec3{X: v.Width, Y: t, Z: total},
			Yaw:    v.Yaw,
		},
		{
			Name:   prefix + ":ceiling",
			Kind:   layout.KindCeiling,
			Center: center.Add(math.Vec3{Y: h + t/2}),
			Size:   math.Vec3{X: v.Width, Y: t, Z: total},
			Yaw:    v.Yaw,
		},
	}
	// Side walls start at the door plane so nothing juts into the corridor;
	// only the room end overlaps.
	wallLen := v.Length + c.overlap
	wallCenter := v.Door.Add(dir.Scale(wallLen / 2))
	for _, side := range []struct {
		name string
		sign float32
	}{{"left", 1}, {"right", -1}} {
		meshes = append(meshes, layout.Mesh{
			Name:   prefix + ":wall:" + side.name,
			Kind:   layout.KindWall,
			Center: wallCenter.Add(lateral.Scale(side.sign * (v.Width/2 + t/2))).Add(math.Vec3{Y: h / 2}),
			Size:   math.Vec3{X: t, Y: h, Z: wallLen},
			Yaw:    v.Yaw,
		})
	}
	for _, m := range meshes {
		if mesh := c.registry.Add(m); mesh != nil {
			v.Meshes = append(v.Meshes, mesh)
		}
	}
}

// BuildRooms emits floor, ceiling and cut walls for every room not yet
// built. It returns the number of rooms built.
func (c *Connector) BuildRooms() int {
	n := 0
	for _, name := range c.order {
		room := c.rooms[name]
		if room.built {
			continue
		}
		room.build(c.registry, c.cfg)
		n++
	}
	return n
}
