package graph

import (
	"sort"
	"time"
)

// Graph is a directed social graph over a fixed node arena. Node ids are
// dense array indices, edge existence is an O(1) map lookup keyed by the
// ordered pair, and per-node follower/following sets back the degree scans.
type Graph struct {
	nodes     []*Node
	edges     map[EdgeKey]*Edge
	following []map[int]struct{}
	followers []map[int]struct{}
}

// NewGraph creates an empty graph sized for capacity nodes
func NewGraph(capacity int) *Graph {
	return &Graph{
		nodes:     make([]*Node, 0, capacity),
		edges:     make(map[EdgeKey]*Edge),
		following: make([]map[int]struct{}, 0, capacity),
		followers: make([]map[int]struct{}, 0, capacity),
	}
}

// AddNode appends a node to the arena. Node ids must be assigned densely in
// insertion order; a node whose id does not match the next slot is rejected.
func (g *Graph) AddNode(n *Node) bool {
	if n == nil || n.ID != len(g.nodes) {
		return false
	}
	g.nodes = append(g.nodes, n)
	g.following = append(g.following, make(map[int]struct{}))
	g.followers = append(g.followers, make(map[int]struct{}))
	return true
}

// Node returns the node with the given id, or nil if out of range
func (g *Graph) Node(id int) *Node {
	if id < 0 || id >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Nodes returns all nodes in id order
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// HasEdge reports whether the directed edge source→target exists
func (g *Graph) HasEdge(source, target int) bool {
	_, ok := g.edges[EdgeKey{Source: source, Target: target}]
	return ok
}

// Edge returns the directed edge source→target, or nil if absent
func (g *Graph) Edge(source, target int) *Edge {
	return g.edges[EdgeKey{Source: source, Target: target}]
}

// AddEdge creates the directed edge source→target with zero message count
// and a nil last-interaction. Adding an existing edge is a no-op; self-loops
// and out-of-range endpoints are rejected. Returns the edge and whether it
// was newly created.
func (g *Graph) AddEdge(source, target int, establishedAt time.Time) (*Edge, bool) {
	if source == target {
		return nil, false
	}
	if g.Node(source) == nil || g.Node(target) == nil {
		return nil, false
	}

	key := EdgeKey{Source: source, Target: target}
	if e, ok := g.edges[key]; ok {
		return e, false
	}

	e := &Edge{
		Source:        source,
		Target:        target,
		EstablishedAt: establishedAt,
		Relationship:  RelationFan, // placeholder until the next recompute
	}
	g.edges[key] = e
	g.following[source][target] = struct{}{}
	g.followers[target][source] = struct{}{}
	return e, true
}

// RemoveEdge deletes the directed edge source→target. Removing a missing
// edge is a no-op; returns whether an edge was removed.
func (g *Graph) RemoveEdge(source, target int) bool {
	key := EdgeKey{Source: source, Target: target}
	if _, ok := g.edges[key]; !ok {
		return false
	}
	delete(g.edges, key)
	delete(g.following[source], target)
	delete(g.followers[target], source)
	return true
}

// Edges returns all edges sorted by (source, target). The fixed order keeps
// seeded runs deterministic when callers draw randomness while iterating.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// Following returns the ids a node follows, sorted ascending
func (g *Graph) Following(id int) []int {
	if id < 0 || id >= len(g.nodes) {
		return nil
	}
	return sortedIDs(g.following[id])
}

// Followers returns the ids following a node, sorted ascending
func (g *Graph) Followers(id int) []int {
	if id < 0 || id >= len(g.nodes) {
		return nil
	}
	return sortedIDs(g.followers[id])
}

// InDegree returns the number of followers of a node
func (g *Graph) InDegree(id int) int {
	if id < 0 || id >= len(g.nodes) {
		return 0
	}
	return len(g.followers[id])
}

// OutDegree returns the number of nodes a node follows
func (g *Graph) OutDegree(id int) int {
	if id < 0 || id >= len(g.nodes) {
		return 0
	}
	return len(g.following[id])
}

// NumNodes returns the node count
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the directed edge count
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// AverageDegree returns the mean total degree (in + out) per node, or 0 for
// an empty graph.
func (g *Graph) AverageDegree() float64 {
	if len(g.nodes) == 0 {
		return 0
	}
	return float64(2*len(g.edges)) / float64(len(g.nodes))
}

func sortedIDs(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
