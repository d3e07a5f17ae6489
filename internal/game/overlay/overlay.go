// Package overlay turns the generated environment into debug line geometry
// for the viewer. It has no GL dependency.
package overlay

import (
	"github.com/Faultbox/officewalk/internal/engine/debug"
	"github.com/Faultbox/officewalk/internal/world/doorway"
	"github.com/Faultbox/officewalk/internal/world/layout"
	"github.com/Faultbox/officewalk/internal/world/player"
	"github.com/Faultbox/officewalk/pkg/math"
)

// DoorHeight is the drawn height of a door leaf.
const DoorHeight = 2.1

// Palette colours each mesh kind plus the dynamic markers.
type Palette struct {
	Kinds      map[layout.Kind]debug.Color
	Current    debug.Color // Segment the player stands in
	DoorOpen   debug.Color
	DoorClosed debug.Color
	Player     debug.Color
	Grid       debug.Color
}

// DefaultPalette returns muted structure colours with bright markers.
func DefaultPalette() Palette {
	return Palette{
		Kinds: map[layout.Kind]debug.Color{
			layout.KindFloor:   {0.35, 0.35, 0.4},
			layout.KindCeiling: {0.2, 0.2, 0.25},
			layout.KindWall:    {0.75, 0.75, 0.7},
			layout.KindTrim:    {0.5, 0.45, 0.3},
			layout.KindLight:   {1, 0.95, 0.6},
		},
		Current:    debug.Color{0.2, 0.9, 0.4},
		DoorOpen:   debug.Color{0.3, 0.8, 1},
		DoorClosed: debug.Color{1, 0.4, 0.3},
		Player:     debug.Color{1, 1, 0},
		Grid:       debug.Color{0.15, 0.15, 0.18},
	}
}

// Scene caches the static lines of one build and appends dynamic markers
// per frame.
type Scene struct {
	palette  Palette
	static   []debug.LineVertex
	frame    []debug.LineVertex
	ceilings bool
}

// NewScene creates an empty scene.
func NewScene(p Palette) *Scene {
	return &Scene{palette: p}
}

// SetCeilings toggles drawing ceilings. Takes effect on the next Rebuild.
func (s *Scene) SetCeilings(on bool) {
	s.ceilings = on
}

// Rebuild regenerates the static lines from a layout.
func (s *Scene) Rebuild(l *layout.Layout) {
	s.static = s.static[:0]
	if l == nil {
		return
	}

	min, max := l.Bounds()
	s.static = debug.GridLines(s.static, min, max, l.Config().SegmentLength, -0.01, s.palette.Grid)

	for _, m := range l.Meshes() {
		if m.Kind == layout.KindCeiling && !s.ceilings {
			continue
		}
		c, ok := s.palette.Kinds[m.Kind]
		if !ok {
			continue
		}
		s.static = debug.BoxWireframe(s.static, m.Box(), c)
	}
}

// StaticLen returns the number of cached static vertices.
func (s *Scene) StaticLen() int {
	return len(s.static)
}

// Lines returns the static lines plus this frame's markers. The returned
// slice is reused by the next call.
func (s *Scene) Lines(l *layout.Layout, doors *doorway.DoorSet, f player.Frame, showPlayer bool) []debug.LineVertex {
	s.frame = append(s.frame[:0], s.static...)

	if l != nil && f.SegmentID != "" {
		if seg, ok := l.Segment(f.SegmentID); ok && seg.Floor != nil {
			s.frame = debug.BoxWireframe(s.frame, seg.Floor.Box(), s.palette.Current)
		}
	}
	if doors != nil {
		for _, name := range doors.Names() {
			d, _ := doors.Get(name)
			s.frame = DoorLeaf(s.frame, d, s.palette)
		}
	}
	if showPlayer {
		s.frame = debug.Arrow(s.frame, f.Position, f.Yaw, 0.8, s.palette.Player)
		s.frame = debug.Marker(s.frame, f.CameraPosition, 0.1, s.palette.Player)
	}
	return s.frame
}

// DoorLeaf draws a door as a rectangle hinged at its left edge and swung
// by its current angle.
func DoorLeaf(dst []debug.LineVertex, d doorway.Door, p Palette) []debug.LineVertex {
	c := p.DoorClosed
	if d.IsOpen {
		c = p.DoorOpen
	}

	across := math.Right(d.Yaw)
	hinge := d.Position.Sub(across.Scale(d.Width / 2))
	leaf := across.RotateY(d.CurrentAngle * float32(d.OpenDirection)).Scale(d.Width)

	up := math.Vec3{Y: DoorHeight}
	corners := [4]math.Vec3{hinge, hinge.Add(leaf), hinge.Add(leaf).Add(up), hinge.Add(up)}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		dst = append(dst,
			debug.LineVertex{X: a.X, Y: a.Y, Z: a.Z, R: c[0], G: c[1], B: c[2]},
			debug.LineVertex{X: b.X, Y: b.Y, Z: b.Z, R: c[0], G: c[1], B: c[2]})
	}
	return dst
}
