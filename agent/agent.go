package agent

import (
	"errors"
	"fmt"
	"pacman/experiments/metrics"
	"pacman/game"
	"pacman/searcher"

	"golang.org/x/exp/rand"
)

var ErrNoLegalActions = errors.New("agent has no legal actions")

type Agent interface {
	// FindMove returns the action of agentIndex in state and performance metrics (if collected) from the search
	FindMove(state game.State, agentIndex int) (game.Action, metrics.SearchMetric, error)
}

// Kind names an agent so that it can be picked from configuration.
type Kind string

const (
	Minimax     Kind = "minimax"
	Greedy      Kind = "greedy"
	LeftTurn    Kind = "leftturn"
	Random      Kind = "random"
	Directional Kind = "directional"
	QLearning   Kind = "qlearning"
)

func Kinds() []Kind {
	return []Kind{Minimax, Greedy, LeftTurn, Random, Directional, QLearning}
}

type Config struct {
	Kind      Kind               `yaml:"kind"`
	Depth     int                `yaml:"depth"`
	Evaluator game.EvaluatorKind `yaml:"evaluator"`
}

func (c Config) String() string {
	switch c.Kind {
	case Minimax:
		return fmt.Sprintf("%s(depth=%d,evaluator=%s)", c.Kind, c.Depth, c.Evaluator)
	case Greedy:
		return fmt.Sprintf("%s(evaluator=%s)", c.Kind, c.Evaluator)
	default:
		return string(c.Kind)
	}
}

// New returns the agent described by config. Agents that break ties or
// explore at random draw from a source seeded with seed.
func New(config Config, seed uint64) (Agent, error) {
	if config.Evaluator == "" {
		config.Evaluator = game.CompositeEvaluator
	}
	evaluate, err := config.Evaluator.Func()
	if err != nil {
		return nil, err
	}

	switch config.Kind {
	case Minimax:
		if config.Depth < 1 {
			return nil, fmt.Errorf("minimax depth must be at least 1, got %d", config.Depth)
		}
		return NewMinimaxAgent(searcher.NewMinimax(
			searcher.WithDepth(config.Depth),
			searcher.WithEvaluator(config.Evaluator),
			searcher.WithMetrics(),
		)), nil
	case Greedy:
		return NewGreedyAgent(evaluate, string(config.Evaluator), seed), nil
	case LeftTurn:
		return NewLeftTurnAgent(), nil
	case Random:
		return NewRandomAgent(seed), nil
	case Directional:
		return NewDirectionalGhost(seed), nil
	case QLearning:
		return NewQLearningAgent(WithSeed(seed)), nil
	default:
		return nil, fmt.Errorf("unknown agent %q", string(config.Kind))
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func legalActions(state game.State, agentIndex int) ([]game.Action, error) {
	actions, err := state.LegalActions(agentIndex)
	if err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, ErrNoLegalActions
	}
	return actions, nil
}
