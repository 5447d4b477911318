package export

import (
	"sort"
	"time"

	"socialgen/internal/graph"
)

const dateLayout = "2006-01-02"

// NodeRecord is the exported shape of a node
type NodeRecord struct {
	UserID    int      `json:"user_id"`
	Name      string   `json:"name"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	RegionID  int      `json:"region_id"`
	Interests []string `json:"interests"`
	CreatedAt string   `json:"created_at"`
}

// EdgeRecord is the exported shape of a directed edge
type EdgeRecord struct {
	Source           int     `json:"source"`
	Target           int     `json:"target"`
	RelationshipType string  `json:"relationship_type"`
	MessageCount     int     `json:"message_count"`
	LastInteraction  *string `json:"last_interaction"`
	Distance         float64 `json:"distance"`
	EstablishedAt    string  `json:"established_at"`
}

// Summary describes one day's graph in aggregate. Friend pairs are counted
// once per unordered pair; fan edges once per directed edge.
type Summary struct {
	Date                string  `json:"date"`
	RunID               string  `json:"run_id"`
	TotalNodes          int     `json:"total_nodes"`
	TotalEdges          int     `json:"total_edges"`
	FriendRelationships int     `json:"friend_relationships"`
	FanRelationships    int     `json:"fan_relationships"`
	AverageDegree       float64 `json:"average_degree"`
}

// DailySnapshot is the full exported state of the graph as of one day
type DailySnapshot struct {
	Date    time.Time
	Nodes   []NodeRecord
	Edges   []EdgeRecord
	Summary Summary
}

// Snapshot shapes the graph's current state into export records. It only
// uses the graph's read-only enumeration and performs no I/O.
func Snapshot(g *graph.Graph, rel *graph.RelationshipEngine, runID string, date time.Time) DailySnapshot {
	nodes := make([]NodeRecord, 0, g.NumNodes())
	for _, n := range g.Nodes() {
		interests := make([]string, 0, len(n.Interests))
		for interest := range n.Interests {
			interests = append(interests, interest)
		}
		sort.Strings(interests)

		nodes = append(nodes, NodeRecord{
			UserID:    n.ID,
			Name:      n.Name,
			Lat:       n.Lat,
			Lon:       n.Lon,
			RegionID:  n.RegionID,
			Interests: interests,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}

	type pair struct{ a, b int }
	friendPairs := make(map[pair]struct{})
	fanCount := 0

	edges := make([]EdgeRecord, 0, g.NumEdges())
	for _, e := range g.Edges() {
		var lastInteraction *string
		if e.LastInteraction != nil {
			s := e.LastInteraction.Format(time.RFC3339)
			lastInteraction = &s
		}

		edges = append(edges, EdgeRecord{
			Source:           e.Source,
			Target:           e.Target,
			RelationshipType: string(e.Relationship),
			MessageCount:     e.MessageCount,
			LastInteraction:  lastInteraction,
			Distance:         e.Distance,
			EstablishedAt:    e.EstablishedAt.Format(time.RFC3339),
		})

		switch rel.RelationshipType(e.Source, e.Target) {
		case graph.RelationFriend:
			a, b := e.Source, e.Target
			if a > b {
				a, b = b, a
			}
			friendPairs[pair{a, b}] = struct{}{}
		case graph.RelationFan:
			fanCount++
		}
	}

	return DailySnapshot{
		Date:  date,
		Nodes: nodes,
		Edges: edges,
		Summary: Summary{
			Date:                date.Format(dateLayout),
			RunID:               runID,
			TotalNodes:          g.NumNodes(),
			TotalEdges:          g.NumEdges(),
			FriendRelationships: len(friendPairs),
			FanRelationships:    fanCount,
			AverageDegree:       g.AverageDegree(),
		},
	}
}
