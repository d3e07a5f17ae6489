// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/officewalk/internal/engine/raycast"
	"github.com/Faultbox/officewalk/pkg/math"
)

// BoxVertexCount is the number of vertices in one box wireframe (12 edges × 2).
const BoxVertexCount = 24

// Color is linear RGB.
type Color [3]float32

// LineVertex is one endpoint of a GL_LINES segment.
type LineVertex struct {
	X, Y, Z float32
	R, G, B float32
}

func vertex(p math.Vec3, c Color) LineVertex {
	return LineVertex{p.X, p.Y, p.Z, c[0], c[1], c[2]}
}

// boxEdges indexes corner pairs: bottom face, top face, then verticals.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// BoxCorners returns the eight world-space corners of an oriented box,
// bottom face first, counter-clockwise seen from above.
func BoxCorners(b raycast.Box) [8]math.Vec3 {
	h := b.Half
	local := [8]math.Vec3{
		{X: -h.X, Y: -h.Y, Z: -h.Z}, {X: h.X, Y: -h.Y, Z: -h.Z}, {X: h.X, Y: -h.Y, Z: h.Z}, {X: -h.X, Y: -h.Y, Z: h.Z},
		{X: -h.X, Y: h.Y, Z: -h.Z}, {X: h.X, Y: h.Y, Z: -h.Z}, {X: h.X, Y: h.Y, Z: h.Z}, {X: -h.X, Y: h.Y, Z: h.Z},
	}
	var out [8]math.Vec3
	for i, p := range local {
		out[i] = b.Center.Add(p.RotateY(b.Yaw))
	}
	return out
}

// BoxWireframe appends the 24 line vertices of an oriented box to dst.
func BoxWireframe(dst []LineVertex, b raycast.Box, c Color) []LineVertex {
	corners := BoxCorners(b)
	for _, e := range boxEdges {
		dst = append(dst, vertex(corners[e[0]], c), vertex(corners[e[1]], c))
	}
	return dst
}

// AABBWireframe appends an axis-aligned box, expanded by padding on all sides.
func AABBWireframe(dst []LineVertex, box raycast.AABB, padding float32, c Color) []LineVertex {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	min, max := box.Min.Sub(pad), box.Max.Add(pad)
	center := min.Add(max).Scale(0.5)
	return BoxWireframe(dst, raycast.NewBox(center, max.Sub(min), 0), c)
}
