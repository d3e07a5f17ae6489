package layout

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/collision"
	"github.com/Faultbox/officewalk/internal/world/graph"
	"github.com/Faultbox/officewalk/pkg/math"
)

// DoorPlacement is a door position known to wall generation.
type DoorPlacement struct {
	Name     string
	Position math.Vec3
	Width    float32 // Zero means Config.DoorWidth
}

// Builder generates corridor geometry from a graph.
type Builder struct {
	cfg      Config
	registry *Registry
	layout   *Layout
}

// NewBuilder creates a builder that registers solid geometry in world.
func NewBuilder(cfg Config, world *collision.World) *Builder {
	return &Builder{
		cfg:      cfg.withDefaults(),
		registry: NewRegistry(world),
	}
}

// Config returns the effective configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// Registry returns the mesh registry shared with room connectors.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Layout returns the most recent build result, or nil.
func (b *Builder) Layout() *Layout {
	return b.layout
}

// Build disposes any previous geometry and generates a new layout.
// Configuration problems are logged and the offending element skipped;
// only a graph without nodes fails.
func (b *Builder) Build(g *graph.Map, doors []DoorPlacement) (*Layout, error) {
	b.registry.Dispose()
	b.layout = nil

	if g == nil || len(g.Nodes) == 0 {
		return nil, fmt.Errorf("building layout: %w", graph.ErrEmptyGraph)
	}
	for _, err := range g.Validate() {
		if errors.Is(err, graph.ErrEmptyGraph) {
			return nil, fmt.Errorf("building layout: %w", err)
		}
		logger.Warn("Layout configuration problem", zap.Error(err))
	}

	l := newLayout(b.cfg, b.registry)
	for _, id := range g.JunctionIDs() {
		b.buildJunction(l, g, id)
	}
	for _, e := range g.Edges {
		b.buildSegment(l, g, e, doors)
	}

	b.layout = l
	logger.Info("Layout built",
		zap.Int("segments", len(l.Segments)),
		zap.Int("junctions", len(l.Junctions)),
		zap.Int("meshes", b.registry.Len()))
	return l, nil
}

func (b *Builder) buildJunction(l *Layout, g *graph.Map, id string) {
	if _, dup := l.junctions[id]; dup {
		return
	}
	node, _ := g.Node(id)
	pos := graph.GridToWorld(node.Pos, b.cfg.SegmentLength)
	j := &Junction{
		ID:          id,
		Position:    pos,
		Connections: make(map[graph.Direction]bool),
		Secret:      node.Secret,
	}

	// Opening width per open side; the rest of the side stays walled
	openings := make(map[graph.Direction]float32)
	open := func(d graph.Direction, width float32) {
		if width <= 0 {
			width = b.cfg.CorridorWidth
		}
		j.Connections[d] = true
		openings[d] = max(openings[d], width)
	}
	for _, nb := range g.Neighbors(id) {
		if d, ok := g.DirectionBetween(id, nb); ok {
			open(d, 0)
		}
	}
	for _, r := range g.RoomSides {
		if r.Junction == id {
			open(r.Side, r.Width)
		}
	}
	if o := g.OutsideOpening; o != nil && o.Junction == id {
		open(o.Side, o.Width)
	}

	size := b.cfg.JunctionSize
	t := b.cfg.WallThickness
	h := b.cfg.WallHeight
	prefix := "junction:" + id

	j.Floor = b.registry.Add(Mesh{
		Name:   prefix + ":floor",
		Kind:   KindFloor,
		Center: pos.Add(math.Vec3{Y: -t / 2}),
		Size:   math.Vec3{X: size, Y: t, Z: size},
	})
	j.Ceiling = b.registry.Add(Mesh{
		Name:   prefix + ":ceiling",
		Kind:   KindCeiling,
		Center: pos.Add(math.Vec3{Y: h + t/2}),
		Size:   math.Vec3{X: size, Y: t, Z: size},
	})
	j.Light = b.registry.Add(Mesh{
		Name:   prefix + ":light",
		Kind:   KindLight,
		Center: pos.Add(math.Vec3{Y: h - 0.05}),
		Size:   math.Vec3{X: 0.6, Y: 0.05, Z: 0.6},
	})

	for _, d := range graph.Directions {
		if j.Connections[d] {
			j.Jambs = append(j.Jambs, b.junctionJambs(prefix, pos, d, openings[d])...)
			continue
		}
		// Local Z faces out of the side; local X runs along it
		wall := b.registry.Add(Mesh{
			Name:   fmt.Sprintf("%s:wall:%s", prefix, d),
			Kind:   KindWall,
			Center: pos.Add(d.Vector().Scale(size/2 + t/2)).Add(math.Vec3{Y: h / 2}),
			Size:   math.Vec3{X: size + 2*t, Y: h, Z: t},
			Yaw:    d.Yaw(),
		})
		if wall != nil {
			j.Walls = append(j.Walls, wall)
		}
	}

	l.Junctions = append(l.Junctions, j)
	l.junctions[id] = j
}

// junctionJambs walls off an open junction side on both sides of an opening
// of the given width, centred on the side.
func (b *Builder) junctionJambs(prefix string, pos math.Vec3, d graph.Direction, width float32) []*Mesh {
	size := b.cfg.JunctionSize
	t := b.cfg.WallThickness
	out := d.Vector()
	along := math.Vec3{X: out.Z, Z: -out.X}
	run := size + 2*t
	start := pos.Add(out.Scale(size/2 + t/2)).Sub(along.Scale(run / 2))

	var jambs []*Mesh
	cut := []Cutout{{Center: run / 2, Width: width}}
	for _, m := range WallMeshes(fmt.Sprintf("%s:jamb:%s", prefix, d), start, along, run, cut, b.cfg) {
		if mesh := b.registry.Add(m); mesh != nil {
			jambs = append(jambs, mesh)
		}
	}
	return jambs
}

func (b *Builder) buildSegment(l *Layout, g *graph.Map, e graph.Edge, doors []DoorPlacement) {
	from, okFrom := g.Node(e.From)
	to, okTo := g.Node(e.To)
	if !okFrom || !okTo {
		logger.Warn("Edge references unknown node, skipped", zap.String("from", e.From), zap.String("to", e.To))
		return
	}
	if e.From == e.To {
		return
	}
	if !g.IsMainPath(e.From) || !g.IsMainPath(e.To) {
		logger.Debug("Edge off the main path, no segment", zap.String("from", e.From), zap.String("to", e.To))
		return
	}

	id := e.From + "-" + e.To
	if _, dup := l.segments[id]; dup {
		logger.Warn("Duplicate edge skipped", zap.String("segment", id))
		return
	}

	start := graph.GridToWorld(from.Pos, b.cfg.SegmentLength)
	end := graph.GridToWorld(to.Pos, b.cfg.SegmentLength)
	length := end.Distance(start)
	dir := end.Sub(start).Normalize()
	yaw := math.YawOf(dir)

	s := &Segment{
		ID:           id,
		From:         e.From,
		To:           e.To,
		Start:        start,
		End:          end,
		Length:       length,
		Orientation:  math.QuatFromYaw(yaw),
		Yaw:          yaw,
		Disorienting: from.Secret || to.Secret,
	}
	if b.nearJunction(l, start) {
		s.StartOffset = b.cfg.JunctionRadius()
	}
	if b.nearJunction(l, end) {
		s.EndOffset = b.cfg.JunctionRadius()
	}
	s.EffectiveLength = length - s.StartOffset - s.EndOffset

	l.Segments = append(l.Segments, s)
	l.segments[id] = s

	if s.Degenerate() {
		logger.Warn("Segment has no room for geometry after junction offsets",
			zap.String("segment", id),
			zap.Float32("length", length),
			zap.Float32("effective_length", s.EffectiveLength))
		return
	}
	b.segmentGeometry(s, dir, doors)
	if b.deadEnd(l, g, e.From) {
		b.capEnd(s, s.Start.Add(dir.Scale(s.StartOffset)), dir.Negate(), "start")
	}
	if b.deadEnd(l, g, e.To) {
		b.capEnd(s, s.End.Sub(dir.Scale(s.EndOffset)), dir, "end")
	}
}

// deadEnd reports whether a node ends the corridor without a junction.
func (b *Builder) deadEnd(l *Layout, g *graph.Map, id string) bool {
	if _, ok := l.junctions[id]; ok {
		return false
	}
	degree := 0
	for _, nb := range g.Neighbors(id) {
		if g.IsMainPath(nb) {
			degree++
		}
	}
	return degree == 1
}

// capEnd closes a segment end with a wall facing out along outward.
func (b *Builder) capEnd(s *Segment, at, outward math.Vec3, which string) {
	t := b.cfg.WallThickness
	h := b.cfg.WallHeight
	endWall := b.registry.Add(Mesh{
		Name:   fmt.Sprintf("segment:%s:cap:%s", s.ID, which),
		Kind:   KindWall,
		Center: at.Add(outward.Scale(t / 2)).Add(math.Vec3{Y: h / 2}),
		Size:   math.Vec3{X: b.cfg.CorridorWidth + 2*t, Y: h, Z: t},
		Yaw:    math.YawOf(outward),
	})
	if endWall != nil {
		s.Caps = append(s.Caps, endWall)
	}
}

func (b *Builder) nearJunction(l *Layout, p math.Vec3) bool {
	for _, j := range l.Junctions {
		if j.Position.Distance(p) <= b.cfg.JunctionProximity {
			return true
		}
	}
	return false
}

// segmentGeometry emits floor, ceiling, walls and trim. Local Z runs along
// the segment and local X across it.
func (b *Builder) segmentGeometry(s *Segment, dir math.Vec3, doors []DoorPlacement) {
	cfg := b.cfg
	t := cfg.WallThickness
	h := cfg.WallHeight
	w := cfg.CorridorWidth
	length := s.EffectiveLength

	geoStart := s.Start.Add(dir.Scale(s.StartOffset))
	center := geoStart.Add(dir.Scale(length / 2))
	lateral := math.Vec3{X: dir.Z, Z: -dir.X}
	prefix := "segment:" + s.ID

	s.Floor = b.registry.Add(Mesh{
		Name:   prefix + ":floor",
		Kind:   KindFloor,
		Center: center.Add(math.Vec3{Y: -t / 2}),
		Size:   math.Vec3{X: w, Y: t, Z: length},
		Yaw:    s.Yaw,
	})
	s.Ceiling = b.registry.Add(Mesh{
		Name:   prefix + ":ceiling",
		Kind:   KindCeiling,
		Center: center.Add(math.Vec3{Y: h + t/2}),
		Size:   math.Vec3{X: w, Y: t, Z: length},
		Yaw:    s.Yaw,
	})

	for _, side := range []struct {
		name string
		sign float32
	}{{"left", 1}, {"right", -1}} {
		cutouts := b.doorCutouts(center, dir, lateral, side.sign*w/2, length, doors)

		run := wallRun{
			Name:      fmt.Sprintf("%s:wall:%s", prefix, side.name),
			Start:     geoStart.Add(lateral.Scale(side.sign * (w/2 + t/2))),
			Dir:       dir,
			Length:    length,
			Height:    h,
			Thickness: t,
		}
		spans := SplitWall(length, cutouts, cfg.MinWallSegment)
		for _, m := range run.meshes(spans) {
			if wall := b.registry.Add(m); wall != nil {
				s.Walls = append(s.Walls, wall)
			}
		}

		// Baseboards follow the solid spans, visual only
		trim := wallRun{
			Name:      fmt.Sprintf("%s:trim:%s", prefix, side.name),
			Start:     geoStart.Add(lateral.Scale(side.sign * (w/2 - 0.01))),
			Dir:       dir,
			Length:    length,
			Height:    cfg.TrimHeight,
			Thickness: 0.02,
		}
		for _, m := range trim.meshes(spans) {
			m.Kind = KindTrim
			if mesh := b.registry.Add(m); mesh != nil {
				s.Trim = append(s.Trim, mesh)
			}
		}
	}
}

// doorCutouts returns the cutouts doors make in one wall of a segment.
// wallOffset is the wall plane's lateral coordinate in the segment frame.
func (b *Builder) doorCutouts(center, dir, lateral math.Vec3, wallOffset, length float32, doors []DoorPlacement) []Cutout {
	var cutouts []Cutout
	for _, d := range doors {
		rel := d.Position.Sub(center)
		localZ := rel.Dot(dir)
		localX := rel.Dot(lateral)
		if math.Abs(localZ) > length/2 {
			continue
		}
		if math.Abs(localX-wallOffset) > b.cfg.DoorLateralThreshold {
			continue
		}
		width := d.Width
		if width <= 0 {
			width = b.cfg.DoorWidth
		}
		cutouts = append(cutouts, Cutout{Center: localZ + length/2, Width: width})
	}
	return cutouts
}
