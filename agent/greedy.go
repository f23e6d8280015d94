package agent

import (
	"math"
	"pacman/experiments/metrics"
	"pacman/game"
	"pacman/utils"
	"sync"

	"golang.org/x/exp/rand"
)

type greedyAgent struct {
	evaluate  game.Evaluate
	evaluator string
	mu        sync.Mutex
	rng       *rand.Rand
}

// NewGreedyAgent returns an agent that looks one move ahead. It never stops
// unless stopping is its only action, and breaks ties at random.
func NewGreedyAgent(evaluate game.Evaluate, evaluator string, seed uint64) Agent {
	return &greedyAgent{evaluate: evaluate, evaluator: evaluator, rng: newRand(seed)}
}

func (a *greedyAgent) FindMove(state game.State, agentIndex int) (game.Action, metrics.SearchMetric, error) {
	legal, err := legalActions(state, agentIndex)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}
	if moving := utils.Remove(legal, game.Stop); len(moving) > 0 {
		legal = moving
	}

	bestScore := math.Inf(-1)
	best := []game.Action{}
	for _, action := range legal {
		successor, err := state.Successor(agentIndex, action)
		if err != nil {
			return "", metrics.SearchMetric{}, err
		}
		score := a.evaluate(successor)
		if score > bestScore || len(best) == 0 {
			bestScore = score
			best = []game.Action{action}
		} else if score == bestScore {
			best = append(best, action)
		}
	}

	metric := metrics.SearchMetric{
		Depth:       1,
		Evaluator:   a.evaluator,
		Expansions:  len(legal),
		Evaluations: len(legal),
		Score:       bestScore,
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return best[a.rng.Intn(len(best))], metric, nil
}
