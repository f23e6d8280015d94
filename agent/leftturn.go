package agent

import (
	"pacman/experiments/metrics"
	"pacman/game"
	"pacman/utils"
)

type leftTurnAgent struct{}

// NewLeftTurnAgent returns an agent that turns left whenever it can. Otherwise
// it keeps its direction, then turns right, then reverses, and stops only when
// boxed in.
func NewLeftTurnAgent() Agent {
	return leftTurnAgent{}
}

func (a leftTurnAgent) FindMove(state game.State, agentIndex int) (game.Action, metrics.SearchMetric, error) {
	legal, err := legalActions(state, agentIndex)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}

	current := direction(state, agentIndex)
	if current == game.Stop {
		current = game.North
	}
	left := game.Left[current]
	for _, action := range []game.Action{left, current, game.Right[current], game.Left[left]} {
		if utils.Contains(legal, action) {
			return action, metrics.SearchMetric{}, nil
		}
	}
	return game.Stop, metrics.SearchMetric{}, nil
}

// direction returns the last direction Pacman moved in when the state tracks it.
func direction(state game.State, agentIndex int) game.Action {
	if s, ok := state.(interface{ PacmanDirection() game.Action }); ok && agentIndex == game.PacmanIndex {
		return s.PacmanDirection()
	}
	return game.Stop
}
