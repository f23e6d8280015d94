package agent

import (
	"pacman/experiments/metrics"
	"pacman/game"
	"sync"

	"golang.org/x/exp/rand"
)

// Probability that a directional ghost takes one of its best actions.
const (
	AttackProb = 0.8
	FleeProb   = 0.8
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent returns an agent that picks uniformly among its legal actions.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: newRand(seed)}
}

func (a *randomAgent) FindMove(state game.State, agentIndex int) (game.Action, metrics.SearchMetric, error) {
	legal, err := legalActions(state, agentIndex)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return legal[a.rng.Intn(len(legal))], metrics.SearchMetric{}, nil
}

type directionalGhost struct {
	attackProb float64
	fleeProb   float64
	mu         sync.Mutex
	rng        *rand.Rand
}

// NewDirectionalGhost returns a ghost that usually moves toward Pacman, or
// away from Pacman while scared. Its other moves are uniform over its legal
// actions.
func NewDirectionalGhost(seed uint64) Agent {
	return &directionalGhost{attackProb: AttackProb, fleeProb: FleeProb, rng: newRand(seed)}
}

func (a *directionalGhost) FindMove(state game.State, agentIndex int) (game.Action, metrics.SearchMetric, error) {
	if agentIndex == game.PacmanIndex {
		return "", metrics.SearchMetric{}, game.ErrInvalidAgent
	}
	legal, err := legalActions(state, agentIndex)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	policy := a.policy(state, agentIndex, legal)
	return sample(a.rng, legal, policy), metrics.SearchMetric{}, nil
}

// policy returns the probability of each legal action, in order.
func (a *directionalGhost) policy(state game.State, agentIndex int, legal []game.Action) []float64 {
	ghost := state.Ghosts()[agentIndex-1]
	pacman := state.PacmanPosition()
	scared := ghost.ScaredTimer > 0

	distances := make([]int, len(legal))
	bestDistance := -1
	for i, action := range legal {
		distances[i] = game.ManhattanDistance(ghost.Position.Move(action), pacman)
		if bestDistance < 0 || (scared && distances[i] > bestDistance) || (!scared && distances[i] < bestDistance) {
			bestDistance = distances[i]
		}
	}

	bestProb := a.attackProb
	if scared {
		bestProb = a.fleeProb
	}
	numBest := 0
	for _, d := range distances {
		if d == bestDistance {
			numBest++
		}
	}

	policy := make([]float64, len(legal))
	for i, d := range distances {
		policy[i] = (1 - bestProb) / float64(len(legal))
		if d == bestDistance {
			policy[i] += bestProb / float64(numBest)
		}
	}
	return policy
}

func sample(rng *rand.Rand, actions []game.Action, policy []float64) game.Action {
	sampled := rng.Float64()
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return actions[i]
		}
	}
	return actions[len(actions)-1] // Fallback in case of rounding errors
}
