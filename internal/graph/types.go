package graph

import "time"

// RelationshipType classifies an unordered node pair by directed-edge
// existence: friend when both directions exist, fan when exactly one does.
type RelationshipType string

const (
	RelationNone   RelationshipType = ""
	RelationFan    RelationshipType = "fan"
	RelationFriend RelationshipType = "friend"
)

// Node represents a user in the network. Nodes are created once during
// initial graph construction and never destroyed.
type Node struct {
	ID        int
	Name      string
	Lat       float64
	Lon       float64
	RegionID  int
	Interests map[string]struct{}
	CreatedAt time.Time
}

// Edge is a directed follow relation. Relationship and Distance are caches
// derived from edge existence; the relationship engine recomputes them after
// every mutating step.
type Edge struct {
	Source          int
	Target          int
	MessageCount    int
	LastInteraction *time.Time
	EstablishedAt   time.Time
	Relationship    RelationshipType
	Distance        float64
}

// EdgeKey identifies a directed edge by its ordered endpoint pair
type EdgeKey struct {
	Source int
	Target int
}
