package cluster

import (
	"fmt"
	"math/rand"
)

// locationSpread is the Gaussian noise (in degrees) applied around a region
// center when placing a node.
const locationSpread = 10.0

// Params are the knobs of the composite connection probability.
type Params struct {
	BaseProb         float64 // floor probability for any pair
	GeoBoost         float64 // added when both nodes share a region
	InterestBoost    float64 // boost rate per unit of interest similarity
	MaxInterestBoost float64 // cap on the total interest contribution
}

// Model assigns locations and interests and scores pairwise similarity.
// Region centers are generated once per Model and reused for every node, so
// the same region id always maps to the same center within a run.
type Model struct {
	rng        *rand.Rand
	numRegions int
	centers    [][2]float64 // lat, lon per region
	interests  []string
}

// NewModel creates a clustering model with numRegions region centers drawn
// uniformly over the valid lat/lon ranges and an interest vocabulary of
// totalInterests labels.
func NewModel(rng *rand.Rand, numRegions, totalInterests int) *Model {
	centers := make([][2]float64, numRegions)
	for i := range centers {
		centers[i] = [2]float64{
			rng.Float64()*180 - 90,
			rng.Float64()*360 - 180,
		}
	}

	interests := make([]string, totalInterests)
	for i := range interests {
		interests[i] = fmt.Sprintf("interest_%d", i)
	}

	return &Model{
		rng:        rng,
		numRegions: numRegions,
		centers:    centers,
		interests:  interests,
	}
}

// AssignLocation picks a uniform random region and returns a coordinate near
// its center, clamped to valid lat/lon ranges.
func (m *Model) AssignLocation() (lat, lon float64, regionID int) {
	regionID = m.rng.Intn(m.numRegions)
	center := m.centers[regionID]

	lat = clamp(center[0]+m.rng.NormFloat64()*locationSpread, -90, 90)
	lon = clamp(center[1]+m.rng.NormFloat64()*locationSpread, -180, 180)

	return lat, lon, regionID
}

// AssignInterests samples a uniform size in [min, max] and draws that many
// distinct labels from the vocabulary without replacement.
func (m *Model) AssignInterests(min, max int) map[string]struct{} {
	n := min + m.rng.Intn(max-min+1)

	interests := make(map[string]struct{}, n)
	for _, idx := range m.rng.Perm(len(m.interests))[:n] {
		interests[m.interests[idx]] = struct{}{}
	}
	return interests
}

// GeographicSimilarity is 1.0 when both nodes share a region, else 0.0.
func (m *Model) GeographicSimilarity(region1, region2 int) float64 {
	if region1 == region2 {
		return 1.0
	}
	return 0.0
}

// InterestSimilarity is the Jaccard index of the two interest sets, defined
// as 0.0 when either set is empty.
func (m *Model) InterestSimilarity(interests1, interests2 map[string]struct{}) float64 {
	if len(interests1) == 0 || len(interests2) == 0 {
		return 0.0
	}

	intersection := 0
	for interest := range interests1 {
		if _, ok := interests2[interest]; ok {
			intersection++
		}
	}
	union := len(interests1) + len(interests2) - intersection

	return float64(intersection) / float64(union)
}

// ConnectionProbability composes the base probability with the geographic
// and interest boosts and clamps the result to [0, 1]. The x10 scaling on
// the interest term and the boost rate are independent knobs.
func (m *Model) ConnectionProbability(region1, region2 int, interests1, interests2 map[string]struct{}, p Params) float64 {
	prob := p.BaseProb

	if m.GeographicSimilarity(region1, region2) > 0 {
		prob += p.GeoBoost
	}

	interestSim := m.InterestSimilarity(interests1, interests2)
	boost := interestSim * p.InterestBoost * 10
	if boost > p.MaxInterestBoost {
		boost = p.MaxInterestBoost
	}
	prob += boost

	return clamp(prob, 0.0, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
