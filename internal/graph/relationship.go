package graph

import "math"

// minDistance is the floor for any computed distance; a relation is never
// scored closer than this.
const minDistance = 0.1

// maxMessagesForNorm normalizes message volume; counts at or above this
// saturate the message term.
const maxMessagesForNorm = 1000.0

// RelationshipConfig holds the distance-formula constants
type RelationshipConfig struct {
	FriendBaseDistance float64
	FanBaseDistance    float64
	MutualFriendWeight float64
	MessageFreqWeight  float64
}

// RelationshipEngine classifies node pairs and scores their closeness. It
// operates on a borrowed graph and holds no state beyond configuration.
type RelationshipEngine struct {
	g   *Graph
	cfg RelationshipConfig
}

// NewRelationshipEngine creates a relationship engine over the given graph
func NewRelationshipEngine(g *Graph, cfg RelationshipConfig) *RelationshipEngine {
	return &RelationshipEngine{g: g, cfg: cfg}
}

// RelationshipType classifies the pair {a, b} from live edge existence:
// friend when both directed edges exist, fan when exactly one does.
func (r *RelationshipEngine) RelationshipType(a, b int) RelationshipType {
	aToB := r.g.HasEdge(a, b)
	bToA := r.g.HasEdge(b, a)

	switch {
	case aToB && bToA:
		return RelationFriend
	case aToB || bToA:
		return RelationFan
	default:
		return RelationNone
	}
}

// MutualFriends returns the nodes that both a and b follow and that follow
// both a and b back. Being merely followed by both does not qualify.
func (r *RelationshipEngine) MutualFriends(a, b int) []int {
	var mutual []int
	for _, m := range r.g.Following(a) {
		if !r.g.HasEdge(b, m) {
			continue
		}
		if r.g.HasEdge(m, a) && r.g.HasEdge(m, b) {
			mutual = append(mutual, m)
		}
	}
	return mutual
}

// Distance scores the closeness of the pair {a, b}: the relationship base
// distance minus the mutual-friend and message-volume terms, floored at
// minDistance. Pairs with no relation are infinitely far apart.
func (r *RelationshipEngine) Distance(a, b int, rel RelationshipType) float64 {
	var base float64
	switch rel {
	case RelationFriend:
		base = r.cfg.FriendBaseDistance
	case RelationFan:
		base = r.cfg.FanBaseDistance
	default:
		return math.Inf(1)
	}

	mutualCount := len(r.MutualFriends(a, b))

	messageCount := 0
	if e := r.g.Edge(a, b); e != nil {
		messageCount = e.MessageCount
	} else if e := r.g.Edge(b, a); e != nil {
		messageCount = e.MessageCount
	}
	messageFreq := math.Min(float64(messageCount)/maxMessagesForNorm, 1.0)

	distance := base -
		float64(mutualCount)*r.cfg.MutualFriendWeight -
		messageFreq*r.cfg.MessageFreqWeight*10

	return math.Max(minDistance, distance)
}

// UpdateRelationshipTypes rewrites the cached relationship type on every
// existing edge from current bidirectional existence.
func (r *RelationshipEngine) UpdateRelationshipTypes() {
	for _, e := range r.g.Edges() {
		e.Relationship = r.RelationshipType(e.Source, e.Target)
	}
}

// UpdateAllDistances recomputes the distance for every related pair and
// writes it onto both directed edges when both exist. Must run after
// UpdateRelationshipTypes.
func (r *RelationshipEngine) UpdateAllDistances() {
	for _, e := range r.g.Edges() {
		rel := r.RelationshipType(e.Source, e.Target)
		if rel == RelationNone {
			continue
		}

		distance := r.Distance(e.Source, e.Target, rel)
		e.Distance = distance
		if reverse := r.g.Edge(e.Target, e.Source); reverse != nil {
			reverse.Distance = distance
		}
	}
}

// Refresh recomputes relationship types, then distances, over the whole
// graph. Types first: the distance formula keys off the classification.
func (r *RelationshipEngine) Refresh() {
	r.UpdateRelationshipTypes()
	r.UpdateAllDistances()
}
