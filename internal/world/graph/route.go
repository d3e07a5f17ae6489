package graph

import (
	"container/heap"
	"errors"
	"fmt"
	gomath "math"
)

// ErrNoRoute is returned when two nodes are not connected.
var ErrNoRoute = errors.New("no route")

// routeNode is one entry of the A* open set.
type routeNode struct {
	id     string
	g      float64 // Cost from start, grid units
	f      float64 // g + straight-line estimate to goal
	parent *routeNode
	index  int
}

type routeHeap []*routeNode

func (h routeHeap) Len() int           { return len(h) }
func (h routeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h routeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *routeHeap) Push(x any) {
	n := x.(*routeNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *routeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*h = old[:len(old)-1]
	return n
}

// Route finds the shortest chain of node IDs from one node to another along
// edges, weighting each edge by its grid length. Secret nodes are only
// entered when they are an endpoint.
func (m *Map) Route(from, to string) ([]string, error) {
	start, ok := m.Node(from)
	if !ok {
		return nil, fmt.Errorf("route start %q: unknown node", from)
	}
	goal, ok := m.Node(to)
	if !ok {
		return nil, fmt.Errorf("route goal %q: unknown node", to)
	}

	open := &routeHeap{}
	heap.Init(open)
	closed := make(map[string]bool)
	nodes := make(map[string]*routeNode)

	first := &routeNode{id: from, f: gridDistance(start.Pos, goal.Pos)}
	heap.Push(open, first)
	nodes[from] = first

	for open.Len() > 0 {
		current := heap.Pop(open).(*routeNode)
		if current.id == to {
			return current.path(), nil
		}
		closed[current.id] = true
		cur, _ := m.Node(current.id)

		for _, next := range m.Neighbors(current.id) {
			if closed[next] {
				continue
			}
			n, _ := m.Node(next)
			if n.Secret && next != to {
				continue
			}

			g := current.g + gridDistance(cur.Pos, n.Pos)
			if rn, seen := nodes[next]; !seen {
				rn = &routeNode{id: next, g: g, f: g + gridDistance(n.Pos, goal.Pos), parent: current}
				nodes[next] = rn
				heap.Push(open, rn)
			} else if g < rn.g {
				rn.f -= rn.g - g
				rn.g = g
				rn.parent = current
				heap.Fix(open, rn.index)
			}
		}
	}

	return nil, fmt.Errorf("%s to %s: %w", from, to, ErrNoRoute)
}

func (n *routeNode) path() []string {
	var out []string
	for ; n != nil; n = n.parent {
		out = append(out, n.id)
	}
	// Built goal first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func gridDistance(a, b [2]int) float64 {
	return gomath.Hypot(float64(b[0]-a[0]), float64(b[1]-a[1]))
}
