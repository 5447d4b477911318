package namegen

import "math/rand"

var firstNames = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Avery", "Quinn",
	"Sam", "Cameron", "Dakota", "Skylar", "Blake", "Sage", "River", "Phoenix",
	"Emma", "Liam", "Olivia", "Noah", "Ava", "Ethan", "Sophia", "Mason",
	"Isabella", "James", "Mia", "Benjamin", "Charlotte", "Lucas", "Amelia", "Henry",
	"Harper", "Alexander", "Evelyn", "Michael", "Abigail", "Daniel", "Emily", "Matthew",
	"Elizabeth", "Aiden", "Sofia", "Joseph", "David", "Ella", "Jackson",
	"Madison", "Logan", "Scarlett", "John", "Victoria", "Luke", "Aria", "Jack",
	"Grace", "Owen", "Chloe", "Wyatt", "Penelope", "Carter", "Layla", "Julian",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Thomas", "Taylor",
	"Moore", "Jackson", "Martin", "Lee", "Thompson", "White", "Harris", "Sanchez",
	"Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young", "Allen", "King",
	"Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores", "Green", "Adams",
	"Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell", "Carter", "Roberts",
	"Gomez", "Phillips", "Evans", "Turner", "Diaz", "Parker", "Cruz", "Edwards",
}

// Generator produces human-readable display names
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a name generator backed by the given random source
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Name returns a random "First Last" display name
func (g *Generator) Name() string {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	return first + " " + last
}
