package layout

import (
	"fmt"
	"sort"

	"github.com/Faultbox/officewalk/pkg/math"
)

// Cutout is a doorway gap along a wall run. Center is measured from the
// start of the run.
type Cutout struct {
	Center float32
	Width  float32
}

// Span is a solid stretch of wall between two run coordinates.
type Span struct {
	Start float32
	End   float32
}

// Length returns the span length.
func (s Span) Length() float32 {
	return s.End - s.Start
}

// SplitWall splits a wall run of length total into solid spans around the
// cutouts. Gaps are clamped to the run; overlapping cutouts merge. Spans
// shorter than minSegment are dropped.
func SplitWall(total float32, cutouts []Cutout, minSegment float32) []Span {
	if total <= 0 {
		return nil
	}
	sorted := make([]Cutout, len(cutouts))
	copy(sorted, cutouts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Center < sorted[j].Center })

	var spans []Span
	cursor := float32(0)
	for _, c := range sorted {
		if c.Width <= 0 {
			continue
		}
		gapStart := math.Clamp(c.Center-c.Width/2, 0, total)
		gapEnd := math.Clamp(c.Center+c.Width/2, 0, total)
		if gapEnd <= cursor {
			continue
		}
		if gapStart > cursor && gapStart-cursor >= minSegment {
			spans = append(spans, Span{Start: cursor, End: gapStart})
		}
		if gapEnd > cursor {
			cursor = gapEnd
		}
	}
	if total-cursor >= minSegment {
		spans = append(spans, Span{Start: cursor, End: total})
	}
	return spans
}

// wallRun is a straight wall whose run starts at Start and extends Length
// along Dir (a horizontal unit vector). Start sits on the wall's centre line
// at floor level.
type wallRun struct {
	Name      string
	Start     math.Vec3
	Dir       math.Vec3
	Length    float32
	Height    float32
	Thickness float32
}

// meshes emits one wall mesh per solid span.
func (w wallRun) meshes(spans []Span) []Mesh {
	yaw := math.YawOf(w.Dir)
	out := make([]Mesh, 0, len(spans))
	for i, s := range spans {
		mid := (s.Start + s.End) / 2
		center := w.Start.Add(w.Dir.Scale(mid)).Add(math.Vec3{Y: w.Height / 2})
		out = append(out, Mesh{
			Name:   fmt.Sprintf("%s:%d", w.Name, i),
			Kind:   KindWall,
			Center: center,
			Size:   math.Vec3{X: w.Thickness, Y: w.Height, Z: s.Length()},
			Yaw:    yaw,
		})
	}
	return out
}

// WallMeshes emits wall boxes for a run from start along dir, split around
// the cutouts. Room builders outside this package use it for their walls.
func WallMeshes(name string, start, dir math.Vec3, length float32, cutouts []Cutout, cfg Config) []Mesh {
	cfg = cfg.withDefaults()
	run := wallRun{
		Name:      name,
		Start:     start,
		Dir:       dir.Normalize(),
		Length:    length,
		Height:    cfg.WallHeight,
		Thickness: cfg.WallThickness,
	}
	return run.meshes(SplitWall(length, cutouts, cfg.MinWallSegment))
}
