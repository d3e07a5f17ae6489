// Package session owns one explorable environment: it builds geometry from a
// blueprint, wires the player controller to it and drives per-frame updates.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/collision"
	"github.com/Faultbox/officewalk/internal/world/doorway"
	"github.com/Faultbox/officewalk/internal/world/graph"
	"github.com/Faultbox/officewalk/internal/world/layout"
	"github.com/Faultbox/officewalk/internal/world/player"
	"github.com/Faultbox/officewalk/pkg/math"
)

// Config gathers the domain configuration a session needs.
type Config struct {
	Layout        layout.Config            `yaml:"layout"`
	Collision     collision.ResolverConfig `yaml:"collision"`
	Player        player.Config            `yaml:"player"`
	Doors         doorway.DoorConfig       `yaml:"doors"`
	CellSize      float32                  `yaml:"cell_size"`
	OverlapMargin float32                  `yaml:"overlap_margin"`
}

// DefaultConfig returns the default tuning for every component.
func DefaultConfig() Config {
	return Config{
		Layout:        layout.DefaultConfig(),
		Collision:     collision.DefaultResolverConfig(),
		Player:        player.DefaultConfig(),
		Doors:         doorway.DefaultDoorConfig(),
		CellSize:      4,
		OverlapMargin: doorway.DefaultOverlapMargin,
	}
}

// FrameListener receives every published frame.
type FrameListener interface {
	OnFrame(f player.Frame)
}

// Session is the top-level owner of an environment and its player.
type Session struct {
	cfg       Config
	blueprint *Blueprint
	graph     *graph.Map

	world      *collision.World
	builder    *layout.Builder
	connector  *doorway.Connector
	doors      *doorway.DoorSet
	layout     *layout.Layout
	controller *player.Controller
	permission *player.MovementPermission

	frameListeners []FrameListener
	frame          player.Frame
}

// New builds the blueprint's environment and places the player at its spawn.
// A blueprint without nodes is the only fatal failure.
func New(cfg Config, bp *Blueprint) (*Session, error) {
	if bp == nil {
		return nil, fmt.Errorf("creating session: %w", graph.ErrEmptyGraph)
	}
	world := collision.NewWorld(cfg.CellSize)
	s := &Session{
		cfg:        cfg,
		blueprint:  bp,
		world:      world,
		builder:    layout.NewBuilder(cfg.Layout, world),
		doors:      doorway.NewDoorSet(cfg.Doors),
		permission: player.NewMovementPermission(),
	}
	g := bp.Graph
	if err := s.build(&g); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	spawn, yaw := s.spawnPoint()
	s.controller = player.NewController(cfg.Player, collision.NewResolver(cfg.Collision), spawn, yaw)
	s.controller.SetCollidableProvider(s.world)
	s.controller.SetInteractableProvider(s.doors)
	s.controller.SetSegmentLocator(s)
	s.frame = s.controller.Frame()

	logger.Info("Session ready",
		zap.String("blueprint", bp.Name),
		zap.Int("collidables", world.Len()),
		zap.Int("doors", s.doors.Len()))
	return s, nil
}

// build runs door placement, the corridor layout and room connection in
// that order. Errors other than an empty graph are logged and skipped.
func (s *Session) build(src *graph.Map) error {
	if src == nil || len(src.Nodes) == 0 {
		return graph.ErrEmptyGraph
	}
	g := *src
	g.RoomSides = append([]graph.SideRef(nil), src.RoomSides...)
	lcfg := s.builder.Config()

	// Junction doors leading to rooms open that junction side as wide as
	// their vestibule
	for _, spec := range s.blueprint.Doors {
		if spec.Junction != "" && spec.Room != "" {
			g.RoomSides = append(g.RoomSides, graph.SideRef{
				Junction: spec.Junction,
				Side:     spec.Side,
				Width:    doorway.TunnelWidth(spec.Width, lcfg, s.cfg.OverlapMargin),
			})
		}
	}

	s.doors.Clear()
	placed := make(map[string]doorway.Placement)
	for _, spec := range s.blueprint.Doors {
		p, err := spec.Place(&g, lcfg)
		if err != nil {
			logger.Warn("Door skipped", zap.String("door", spec.Name), zap.Error(err))
			continue
		}
		door := doorway.Door{
			Name:          spec.Name,
			Position:      p.Position,
			Width:         spec.Width,
			Yaw:           p.Yaw,
			Room:          spec.Room,
			OpenDirection: spec.OpenDirection,
		}
		if err := s.doors.Add(door); err != nil {
			logger.Warn("Door skipped", zap.String("door", spec.Name), zap.Error(err))
			continue
		}
		placed[spec.Name] = p
	}

	l, err := s.builder.Build(&g, s.doors.Positions())
	if err != nil {
		return err
	}

	s.connector = doorway.NewConnector(lcfg, s.cfg.OverlapMargin, s.builder.Registry())
	for _, spec := range s.blueprint.Rooms {
		if _, err := s.connector.AddRoom(spec); err != nil {
			logger.Warn("Room skipped", zap.String("room", spec.Name), zap.Error(err))
		}
	}
	for _, spec := range s.blueprint.Doors {
		p, ok := placed[spec.Name]
		if !ok || spec.Room == "" {
			continue
		}
		room, ok := s.connector.Room(spec.Room)
		if !ok {
			logger.Warn("Door names unknown room", zap.String("door", spec.Name), zap.String("room", spec.Room))
			continue
		}
		if _, err := s.connector.ConnectRoomToCorridor(p.Position, room, p.Yaw, spec.Width); err != nil {
			logger.Warn("Room connection failed", zap.String("door", spec.Name), zap.Error(err))
		}
	}
	s.connector.BuildRooms()

	s.layout = l
	s.graph = &g
	return nil
}

func (s *Session) spawnPoint() (math.Vec3, float32) {
	sp := s.blueprint.Spawn
	pos, ok := s.graph.WorldPosition(sp.Node, s.builder.Config().SegmentLength)
	if !ok {
		first := s.graph.Nodes[0]
		logger.Warn("Spawn node unknown, using first node", zap.String("node", sp.Node), zap.String("fallback", first.ID))
		pos = graph.GridToWorld(first.Pos, s.builder.Config().SegmentLength)
	}
	pos = pos.Add(math.Vec3{X: sp.Offset[0], Y: sp.Offset[1], Z: sp.Offset[2]})
	return pos, sp.Yaw * math.Pi / 180
}

// Rebuild regenerates the environment from a new graph. The player keeps
// its position. On error the previous environment stays in place.
func (s *Session) Rebuild(g *graph.Map) error {
	if g == nil || len(g.Nodes) == 0 {
		return fmt.Errorf("rebuilding: %w", graph.ErrEmptyGraph)
	}
	if err := s.build(g); err != nil {
		return fmt.Errorf("rebuilding: %w", err)
	}
	logger.Info("Session rebuilt", zap.Int("collidables", s.world.Len()))
	return nil
}

// Update runs one frame: the controller (movement and collision), then door
// animation, then publication to frame listeners.
func (s *Session) Update(dt float32, in player.InputState) player.Frame {
	frame := s.controller.Update(dt, in, s.permission)
	s.doors.Update(dt)
	s.frame = frame
	for _, l := range s.frameListeners {
		l.OnFrame(frame)
	}
	return frame
}

// Locate implements player.SegmentLocator against the current layout.
func (s *Session) Locate(pos math.Vec3) (layout.Location, bool) {
	if s.layout == nil {
		return layout.Location{}, false
	}
	return s.layout.Locate(pos)
}

// GetCurrentSegment returns the id of the location the player is in.
func (s *Session) GetCurrentSegment() string {
	return s.frame.SegmentID
}

// Position returns the player's published position.
func (s *Session) Position() math.Vec3 {
	return s.frame.Position
}

// Frame returns the last published frame.
func (s *Session) Frame() player.Frame {
	return s.frame
}

// Permission returns the movement permission owned by this session.
func (s *Session) Permission() *player.MovementPermission {
	return s.permission
}

// Controller returns the player controller.
func (s *Session) Controller() *player.Controller {
	return s.controller
}

// Doors returns the door set.
func (s *Session) Doors() *doorway.DoorSet {
	return s.doors
}

// Layout returns the current corridor layout.
func (s *Session) Layout() *layout.Layout {
	return s.layout
}

// Connector returns the room connector of the current build.
func (s *Session) Connector() *doorway.Connector {
	return s.connector
}

// World returns the collision world.
func (s *Session) World() *collision.World {
	return s.world
}

// Graph returns the graph the current layout was built from.
func (s *Session) Graph() *graph.Map {
	return s.graph
}

// Blueprint returns the session's blueprint.
func (s *Session) Blueprint() *Blueprint {
	return s.blueprint
}

// AddLocationListener attaches a listener for segment changes.
func (s *Session) AddLocationListener(l player.LocationListener) {
	s.controller.AddLocationListener(l)
}

// AddDoorListener attaches a listener for door open state changes.
func (s *Session) AddDoorListener(l doorway.DoorListener) {
	s.doors.AddListener(l)
}

// AddFrameListener attaches a listener called after every frame.
func (s *Session) AddFrameListener(l FrameListener) {
	if l != nil {
		s.frameListeners = append(s.frameListeners, l)
	}
}
