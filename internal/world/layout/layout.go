package layout

import (
	"github.com/Faultbox/officewalk/internal/world/graph"
	"github.com/Faultbox/officewalk/pkg/math"
)

// Segment is a straight corridor section between two graph nodes.
type Segment struct {
	ID       string
	From, To string
	Start    math.Vec3
	End      math.Vec3
	Length   float32 // |End - Start|

	// Junction offsets subtracted from each end; geometry spans the rest.
	StartOffset     float32
	EndOffset       float32
	EffectiveLength float32

	Orientation math.Quat
	Yaw         float32

	Floor   *Mesh
	Ceiling *Mesh
	Walls   []*Mesh
	Trim    []*Mesh
	Caps    []*Mesh // End walls at dead ends

	// Disorienting marks segments touching a secret node.
	Disorienting bool
}

// Degenerate reports whether junction offsets consumed the whole segment.
func (s *Segment) Degenerate() bool {
	return s.EffectiveLength <= 0
}

// Center returns the midpoint of the generated geometry.
func (s *Segment) Center() math.Vec3 {
	dir := s.End.Sub(s.Start).Normalize()
	from := s.Start.Add(dir.Scale(s.StartOffset))
	to := s.End.Sub(dir.Scale(s.EndOffset))
	return from.Lerp(to, 0.5)
}

// DistanceTo returns the horizontal distance from pos to the segment line.
func (s *Segment) DistanceTo(pos math.Vec3) float32 {
	return pos.XZ().DistanceToSegment(s.Start.XZ(), s.End.XZ())
}

// Junction is a node-centred open area connecting segments and rooms.
type Junction struct {
	ID          string
	Position    math.Vec3
	Connections map[graph.Direction]bool // Open sides only
	Secret      bool

	Floor   *Mesh
	Ceiling *Mesh
	Light   *Mesh
	Walls   []*Mesh // Closed sides
	Jambs   []*Mesh // Wall either side of each opening
}

// IsOpen reports whether a side has no wall.
func (j *Junction) IsOpen(d graph.Direction) bool {
	return j.Connections[d]
}

// Contains reports whether pos lies over the junction footprint.
func (j *Junction) Contains(pos math.Vec3, radius float32) bool {
	return math.Abs(pos.X-j.Position.X) <= radius && math.Abs(pos.Z-j.Position.Z) <= radius
}

// Location names the part of the layout a point belongs to.
type Location struct {
	ID string
	// Flagged locations (junctions and secret segments) disorient harder.
	Flagged bool
}

// Layout is the result of one build.
type Layout struct {
	Segments  []*Segment
	Junctions []*Junction

	cfg       Config
	registry  *Registry
	segments  map[string]*Segment
	junctions map[string]*Junction
}

func newLayout(cfg Config, reg *Registry) *Layout {
	return &Layout{
		cfg:       cfg,
		registry:  reg,
		segments:  make(map[string]*Segment),
		junctions: make(map[string]*Junction),
	}
}

// Config returns the configuration the layout was built with.
func (l *Layout) Config() Config {
	return l.cfg
}

// Segment returns a segment by id ("FROM-TO").
func (l *Layout) Segment(id string) (*Segment, bool) {
	s, ok := l.segments[id]
	return s, ok
}

// Junction returns a junction by node id.
func (l *Layout) Junction(id string) (*Junction, bool) {
	j, ok := l.junctions[id]
	return j, ok
}

// Meshes returns every mesh generated for this layout, including meshes
// added later by room connectors sharing the registry.
func (l *Layout) Meshes() []*Mesh {
	if l.registry == nil {
		return nil
	}
	return l.registry.Meshes()
}

// NearestSegment returns the segment whose line is closest to pos on the
// ground plane. Degenerate segments take part.
func (l *Layout) NearestSegment(pos math.Vec3) (*Segment, float32, bool) {
	var best *Segment
	var bestDist float32
	for _, s := range l.Segments {
		d := s.DistanceTo(pos)
		if best == nil || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, bestDist, best != nil
}

// Locate reports the junction whose footprint contains pos, else the
// nearest segment.
func (l *Layout) Locate(pos math.Vec3) (Location, bool) {
	for _, j := range l.Junctions {
		if j.Contains(pos, l.cfg.JunctionRadius()) {
			return Location{ID: j.ID, Flagged: true}, true
		}
	}
	s, _, ok := l.NearestSegment(pos)
	if !ok {
		return Location{}, false
	}
	return Location{ID: s.ID, Flagged: s.Disorienting}, true
}

// Bounds returns the ground-plane extent of all segment and junction centres.
func (l *Layout) Bounds() (min, max math.Vec2) {
	first := true
	grow := func(p math.Vec3) {
		if first {
			min, max = p.XZ(), p.XZ()
			first = false
			return
		}
		if p.X < min.X {
			min.X = p.X
		}
		if p.Z < min.Y {
			min.Y = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Z > max.Y {
			max.Y = p.Z
		}
	}
	for _, s := range l.Segments {
		grow(s.Start)
		grow(s.End)
	}
	for _, j := range l.Junctions {
		grow(j.Position)
	}
	return min, max
}
