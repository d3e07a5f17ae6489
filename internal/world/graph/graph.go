// Package graph holds the declarative corridor topology: nodes on an integer
// grid and undirected edges between them.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/officewalk/pkg/math"
)

// ErrEmptyGraph is returned when a graph has no nodes at all.
var ErrEmptyGraph = errors.New("graph has no nodes")

// Direction is a cardinal side in world space. North is +Z, East is +X.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists the cardinal sides in a stable order.
var Directions = [4]Direction{North, South, East, West}

// String returns the lowercase side name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Vector returns the unit world vector pointing out of this side.
func (d Direction) Vector() math.Vec3 {
	switch d {
	case North:
		return math.Vec3{Z: 1}
	case South:
		return math.Vec3{Z: -1}
	case East:
		return math.Vec3{X: 1}
	default:
		return math.Vec3{X: -1}
	}
}

// Yaw returns the yaw angle facing out of this side.
func (d Direction) Yaw() float32 {
	return math.YawOf(d.Vector())
}

// ParseDirection parses a side name (case-insensitive, n/s/e/w accepted).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n":
		return North, nil
	case "south", "s":
		return South, nil
	case "east", "e":
		return East, nil
	case "west", "w":
		return West, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// UnmarshalYAML decodes a side name.
func (d *Direction) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes a side name.
func (d Direction) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Node is a graph vertex at an integer grid position (x, z).
type Node struct {
	ID     string `yaml:"id"`
	Pos    [2]int `yaml:"pos,flow"`
	Secret bool   `yaml:"secret,omitempty"`
}

// Edge connects two nodes. Edges are undirected.
type Edge struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// SideRef names one side of one junction.
type SideRef struct {
	Junction string    `yaml:"junction"`
	Side     Direction `yaml:"side"`

	// Width of the opening; zero means the corridor width.
	Width float32 `yaml:"width,omitempty"`
}

// Map is the full corridor topology.
type Map struct {
	Nodes     []Node   `yaml:"nodes"`
	Edges     []Edge   `yaml:"edges"`
	MainPath  []string `yaml:"main_path,omitempty"` // Empty means every node
	Junctions []string `yaml:"junctions,omitempty"` // Empty means main-path nodes of degree >= 3

	// OutsideOpening is the single junction side left open to the outside
	// whether or not anything connects there.
	OutsideOpening *SideRef `yaml:"outside_opening,omitempty"`

	// RoomSides lists junction sides that open onto rooms.
	RoomSides []SideRef `yaml:"room_sides,omitempty"`

	nodeIndex map[string]int
	indexed   int // len(Nodes) when nodeIndex was built
}

// Node returns a node by id.
func (m *Map) Node(id string) (Node, bool) {
	m.ensureIndex()
	i, ok := m.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return m.Nodes[i], true
}

// IsMainPath reports whether the node is part of the main corridor path.
func (m *Map) IsMainPath(id string) bool {
	if _, ok := m.Node(id); !ok {
		return false
	}
	if len(m.MainPath) == 0 {
		return true
	}
	for _, p := range m.MainPath {
		if p == id {
			return true
		}
	}
	return false
}

// JunctionIDs returns the main-path nodes that get junction geometry.
func (m *Map) JunctionIDs() []string {
	var ids []string
	if len(m.Junctions) > 0 {
		for _, id := range m.Junctions {
			if m.IsMainPath(id) {
				ids = append(ids, id)
			}
		}
		return ids
	}
	for _, n := range m.Nodes {
		if !m.IsMainPath(n.ID) {
			continue
		}
		degree := 0
		for _, nb := range m.Neighbors(n.ID) {
			if m.IsMainPath(nb) {
				degree++
			}
		}
		if degree >= 3 {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// IsJunction reports whether a node gets junction geometry.
func (m *Map) IsJunction(id string) bool {
	for _, j := range m.JunctionIDs() {
		if j == id {
			return true
		}
	}
	return false
}

// Neighbors returns the ids adjacent to a node, in edge order.
// Edges naming unknown nodes are ignored.
func (m *Map) Neighbors(id string) []string {
	var out []string
	for _, e := range m.Edges {
		if _, ok := m.Node(e.From); !ok {
			continue
		}
		if _, ok := m.Node(e.To); !ok {
			continue
		}
		switch id {
		case e.From:
			out = append(out, e.To)
		case e.To:
			out = append(out, e.From)
		}
	}
	return out
}

// DirectionBetween returns the cardinal side of from that faces to.
// The dominant axis wins; coincident nodes have no direction.
func (m *Map) DirectionBetween(from, to string) (Direction, bool) {
	a, ok := m.Node(from)
	if !ok {
		return 0, false
	}
	b, ok := m.Node(to)
	if !ok {
		return 0, false
	}
	dx := b.Pos[0] - a.Pos[0]
	dz := -(b.Pos[1] - a.Pos[1]) // Grid z grows toward world south
	if dx == 0 && dz == 0 {
		return 0, false
	}
	if abs(dx) >= abs(dz) {
		if dx > 0 {
			return East, true
		}
		return West, true
	}
	if dz > 0 {
		return North, true
	}
	return South, true
}

// WorldPosition converts a node's grid position to world space.
// Z is negated so the layout extends away from the origin along +Z.
func (m *Map) WorldPosition(id string, segmentLength float32) (math.Vec3, bool) {
	n, ok := m.Node(id)
	if !ok {
		return math.Vec3{}, false
	}
	return GridToWorld(n.Pos, segmentLength), true
}

// GridToWorld converts a grid position to world space.
func GridToWorld(pos [2]int, segmentLength float32) math.Vec3 {
	return math.Vec3{X: float32(pos[0]) * segmentLength, Z: -float32(pos[1]) * segmentLength}
}

// Validate reports configuration inconsistencies. Each problem is independent;
// callers log them and skip the offending element.
func (m *Map) Validate() []error {
	var errs []error
	if len(m.Nodes) == 0 {
		return []error{ErrEmptyGraph}
	}

	seen := make(map[string]bool)
	for _, n := range m.Nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("node at %v has empty id", n.Pos))
			continue
		}
		if seen[n.ID] {
			errs = append(errs, fmt.Errorf("duplicate node id %q", n.ID))
		}
		seen[n.ID] = true
	}

	for i, e := range m.Edges {
		if !seen[e.From] {
			errs = append(errs, fmt.Errorf("edge %d references unknown node %q", i, e.From))
		}
		if !seen[e.To] {
			errs = append(errs, fmt.Errorf("edge %d references unknown node %q", i, e.To))
		}
		if e.From == e.To {
			errs = append(errs, fmt.Errorf("edge %d is a self-loop on %q", i, e.From))
		}
	}

	for _, id := range m.MainPath {
		if !seen[id] {
			errs = append(errs, fmt.Errorf("main path references unknown node %q", id))
		}
	}
	for _, id := range m.Junctions {
		if !seen[id] {
			errs = append(errs, fmt.Errorf("junction references unknown node %q", id))
		} else if !m.IsMainPath(id) {
			errs = append(errs, fmt.Errorf("junction %q is not on the main path", id))
		}
	}
	if o := m.OutsideOpening; o != nil && !seen[o.Junction] {
		errs = append(errs, fmt.Errorf("outside opening references unknown node %q", o.Junction))
	}
	for _, r := range m.RoomSides {
		if !seen[r.Junction] {
			errs = append(errs, fmt.Errorf("room side references unknown node %q", r.Junction))
		}
	}
	return errs
}

func (m *Map) ensureIndex() {
	if m.nodeIndex != nil && m.indexed == len(m.Nodes) {
		return
	}
	m.nodeIndex = make(map[string]int, len(m.Nodes))
	m.indexed = len(m.Nodes)
	for i, n := range m.Nodes {
		// First definition wins for duplicate ids
		if _, dup := m.nodeIndex[n.ID]; !dup {
			m.nodeIndex[n.ID] = i
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
