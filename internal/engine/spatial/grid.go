// Package spatial provides a uniform-grid spatial hash over the XZ ground plane.
package spatial

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/officewalk/pkg/math"
)

// DefaultCellSize suits corridor-scale geometry (segments are a few units long).
const DefaultCellSize = 4.0

// Rect is an axis-aligned rectangle on the XZ plane.
type Rect struct {
	Min, Max math.Vec2
}

// RectAround returns the rectangle centred on c with the given half extents.
func RectAround(c math.Vec2, halfX, halfZ float32) Rect {
	return Rect{
		Min: math.Vec2{X: c.X - halfX, Y: c.Y - halfZ},
		Max: math.Vec2{X: c.X + halfX, Y: c.Y + halfZ},
	}
}

// DistanceTo returns the distance from p to the closest point of r (0 if inside).
func (r Rect) DistanceTo(p math.Vec2) float32 {
	dx := float32(0)
	if p.X < r.Min.X {
		dx = r.Min.X - p.X
	} else if p.X > r.Max.X {
		dx = p.X - r.Max.X
	}
	dz := float32(0)
	if p.Y < r.Min.Y {
		dz = r.Min.Y - p.Y
	} else if p.Y > r.Max.Y {
		dz = p.Y - r.Max.Y
	}
	return math.Vec2{X: dx, Y: dz}.Length()
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p math.Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

type cellKey struct {
	x, z int
}

type entry struct {
	id     string
	bounds Rect
}

// Grid buckets rectangles by square cell. An entry spanning several cells is
// referenced from each of them and deduplicated at query time.
// Entries cannot be removed individually; Clear drops everything.
type Grid struct {
	cellSize float32
	cells    map[cellKey][]int
	entries  []entry
}

// NewGrid creates an empty grid. A non-positive cell size falls back to DefaultCellSize.
func NewGrid(cellSize float32) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// CellSize returns the edge length of a cell.
func (g *Grid) CellSize() float32 {
	return g.cellSize
}

// Len returns the number of inserted entries.
func (g *Grid) Len() int {
	return len(g.entries)
}

// Clear removes every entry.
func (g *Grid) Clear() {
	g.cells = make(map[cellKey][]int)
	g.entries = g.entries[:0]
}

// Insert adds an entry under every cell its bounds overlap.
func (g *Grid) Insert(id string, bounds Rect) {
	idx := len(g.entries)
	g.entries = append(g.entries, entry{id: id, bounds: bounds})

	minX, minZ := g.cellOf(bounds.Min)
	maxX, maxZ := g.cellOf(bounds.Max)
	for cz := minZ; cz <= maxZ; cz++ {
		for cx := minX; cx <= maxX; cx++ {
			key := cellKey{cx, cz}
			g.cells[key] = append(g.cells[key], idx)
		}
	}
}

// QueryNear returns the ids of entries whose bounds lie within radius of point,
// sorted and without duplicates.
func (g *Grid) QueryNear(point math.Vec2, radius float32) []string {
	if radius < 0 {
		radius = 0
	}
	cx, cz := g.cellOf(point)
	rings := int(gomath.Ceil(float64(radius / g.cellSize)))

	seen := make(map[int]struct{})
	var ids []string
	for z := cz - rings; z <= cz+rings; z++ {
		for x := cx - rings; x <= cx+rings; x++ {
			for _, idx := range g.cells[cellKey{x, z}] {
				if _, ok := seen[idx]; ok {
					continue
				}
				seen[idx] = struct{}{}
				// Coarse cell membership over-includes; filter on true distance
				e := g.entries[idx]
				if e.bounds.DistanceTo(point) <= radius {
					ids = append(ids, e.id)
				}
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// QueryRect returns the ids of entries whose bounds overlap r.
func (g *Grid) QueryRect(r Rect) []string {
	minX, minZ := g.cellOf(r.Min)
	maxX, maxZ := g.cellOf(r.Max)

	seen := make(map[int]struct{})
	var ids []string
	for cz := minZ; cz <= maxZ; cz++ {
		for cx := minX; cx <= maxX; cx++ {
			for _, idx := range g.cells[cellKey{cx, cz}] {
				if _, ok := seen[idx]; ok {
					continue
				}
				seen[idx] = struct{}{}
				b := g.entries[idx].bounds
				if b.Min.X <= r.Max.X && b.Max.X >= r.Min.X && b.Min.Y <= r.Max.Y && b.Max.Y >= r.Min.Y {
					ids = append(ids, g.entries[idx].id)
				}
			}
		}
	}
	sort.Strings(ids)
	return ids
}

func (g *Grid) cellOf(p math.Vec2) (int, int) {
	return int(gomath.Floor(float64(p.X / g.cellSize))), int(gomath.Floor(float64(p.Y / g.cellSize)))
}
