package agent

import (
	"pacman/experiments/metrics"
	"pacman/game"
	"pacman/searcher"
)

type minimaxAgent struct {
	minimax *searcher.Minimax
}

// NewMinimaxAgent returns an agent that moves by a depth-limited minimax search
// in which it maximizes and every other agent minimizes.
func NewMinimaxAgent(minimax *searcher.Minimax) Agent {
	return minimaxAgent{minimax: minimax}
}

func (a minimaxAgent) FindMove(state game.State, agentIndex int) (game.Action, metrics.SearchMetric, error) {
	result, err := a.minimax.Search(state, agentIndex)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}
	if result.Action == "" {
		return "", result.Metric, searcher.ErrNoAction
	}
	return result.Action, result.Metric, nil
}
