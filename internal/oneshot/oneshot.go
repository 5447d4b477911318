package oneshot

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"socialgen/internal/namegen"
	apperrors "socialgen/pkg/errors"
)

// Generator produces a simple non-evolving social-network dataset:
// undirected connections at a flat probability, with randomized activity
// attributes. It shares no logic with the evolution engine.
type Generator struct {
	numUsers       int
	connectionProb float64
	rng            *rand.Rand
	names          *namegen.Generator
}

// User is a one-shot dataset user row
type User struct {
	SrNo      int    `json:"sr_no"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

// Connection is an undirected one-shot dataset edge row
type Connection struct {
	Source               string `json:"source"`
	Target               string `json:"target"`
	NumMessages          int    `json:"num_messages"`
	NumMutuals           int    `json:"num_mutuals"`
	InteractionFrequency string `json:"interaction_frequency"`
	RelationshipType     string `json:"relationship_type"`
}

// Stats summarizes a generated one-shot dataset
type Stats struct {
	TotalUsers       int
	TotalConnections int
	AvgConnections   float64
	AvgMessages      float64
	AvgMutuals       float64
	Density          float64
}

var interactionFrequencies = []string{"daily", "weekly", "monthly", "rarely"}

var relationshipTypes = []string{"friend", "colleague", "family", "acquaintance"}

// NewGenerator creates a one-shot generator
func NewGenerator(rng *rand.Rand, numUsers int, connectionProb float64) *Generator {
	return &Generator{
		numUsers:       numUsers,
		connectionProb: connectionProb,
		rng:            rng,
		names:          namegen.NewGenerator(rng),
	}
}

// Generate builds the users and their undirected connections, including
// mutual-neighbor counts per connection.
func (g *Generator) Generate() ([]User, []Connection) {
	users := make([]User, g.numUsers)
	for i := range users {
		users[i] = User{
			SrNo:      i + 1,
			UserID:    fmt.Sprintf("USER_%05d", i+1),
			Name:      g.names.Name(),
			Followers: g.rng.Intn(10001),
			Following: g.rng.Intn(5001),
		}
	}

	neighbors := make(map[string]map[string]struct{}, g.numUsers)
	var connections []Connection
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			if g.rng.Float64() >= g.connectionProb {
				continue
			}
			src, dst := users[i].UserID, users[j].UserID
			connections = append(connections, Connection{
				Source:               src,
				Target:               dst,
				NumMessages:          1 + g.rng.Intn(1000),
				InteractionFrequency: interactionFrequencies[g.rng.Intn(len(interactionFrequencies))],
				RelationshipType:     relationshipTypes[g.rng.Intn(len(relationshipTypes))],
			})
			addNeighbor(neighbors, src, dst)
			addNeighbor(neighbors, dst, src)
		}
	}

	// Mutual counts need the full neighbor sets, so fill them in afterwards
	for i := range connections {
		connections[i].NumMutuals = countMutuals(neighbors, connections[i].Source, connections[i].Target)
	}

	return users, connections
}

// Summarize computes aggregate statistics for a generated dataset
func Summarize(users []User, connections []Connection) Stats {
	stats := Stats{
		TotalUsers:       len(users),
		TotalConnections: len(connections),
	}
	if len(users) == 0 {
		return stats
	}

	stats.AvgConnections = float64(len(connections)*2) / float64(len(users))

	if len(connections) > 0 {
		var messages, mutuals int
		for _, c := range connections {
			messages += c.NumMessages
			mutuals += c.NumMutuals
		}
		stats.AvgMessages = float64(messages) / float64(len(connections))
		stats.AvgMutuals = float64(mutuals) / float64(len(connections))
	}

	if len(users) > 1 {
		possible := len(users) * (len(users) - 1) / 2
		stats.Density = float64(len(connections)) / float64(possible)
	}
	return stats
}

// WriteFiles writes users and connections as both CSV and JSON under dir
func WriteFiles(dir string, users []User, connections []Connection) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewExportFailed(dir, err)
	}

	userRows := make([][]string, 0, len(users))
	for _, u := range users {
		userRows = append(userRows, []string{
			strconv.Itoa(u.SrNo), u.UserID, u.Name,
			strconv.Itoa(u.Followers), strconv.Itoa(u.Following),
		})
	}
	userHeader := []string{"sr_no", "user_id", "name", "followers", "following"}
	if err := writeCSV(filepath.Join(dir, "users.csv"), userHeader, userRows); err != nil {
		return err
	}

	connRows := make([][]string, 0, len(connections))
	for _, c := range connections {
		connRows = append(connRows, []string{
			c.Source, c.Target,
			strconv.Itoa(c.NumMessages), strconv.Itoa(c.NumMutuals),
			c.InteractionFrequency, c.RelationshipType,
		})
	}
	connHeader := []string{"source", "target", "num_messages", "num_mutuals", "interaction_frequency", "relationship_type"}
	if err := writeCSV(filepath.Join(dir, "edges.csv"), connHeader, connRows); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(dir, "users.json"), users); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "edges.json"), connections)
}

func addNeighbor(neighbors map[string]map[string]struct{}, a, b string) {
	if neighbors[a] == nil {
		neighbors[a] = make(map[string]struct{})
	}
	neighbors[a][b] = struct{}{}
}

func countMutuals(neighbors map[string]map[string]struct{}, a, b string) int {
	count := 0
	for n := range neighbors[a] {
		if _, ok := neighbors[b][n]; ok {
			count++
		}
	}
	return count
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	return nil
}
