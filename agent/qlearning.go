package agent

import (
	"math"
	"pacman/experiments/metrics"
	"pacman/game"
	"sync"

	"golang.org/x/exp/rand"
)

type QOption func(a *QLearningAgent)

type qKey struct {
	state  game.StateHash
	action game.Action
}

// QLearningAgent learns the value of Pacman's actions from the rewards it is
// given. States are told apart by their hash.
type QLearningAgent struct {
	epsilon  float64 // Exploration rate
	alpha    float64 // Learning rate
	discount float64
	mu       sync.RWMutex
	values   map[qKey]float64
	rng      *rand.Rand
}

func WithEpsilon(epsilon float64) QOption {
	return func(a *QLearningAgent) {
		if epsilon >= 0 && epsilon <= 1 {
			a.epsilon = epsilon
		}
	}
}

func WithAlpha(alpha float64) QOption {
	return func(a *QLearningAgent) {
		if alpha > 0 && alpha <= 1 {
			a.alpha = alpha
		}
	}
}

func WithDiscount(discount float64) QOption {
	return func(a *QLearningAgent) {
		if discount >= 0 && discount <= 1 {
			a.discount = discount
		}
	}
}

func WithSeed(seed uint64) QOption {
	return func(a *QLearningAgent) {
		a.rng = newRand(seed)
	}
}

func NewQLearningAgent(options ...QOption) *QLearningAgent {
	a := &QLearningAgent{ // Default values
		epsilon:  0.1,
		alpha:    0.5,
		discount: 0.9,
		values:   map[qKey]float64{},
		rng:      newRand(0),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// SetEpsilon changes the exploration rate, e.g. to 0 once training is over.
func (a *QLearningAgent) SetEpsilon(epsilon float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	WithEpsilon(epsilon)(a)
}

// QValue returns the learned value of action in state, 0 if never updated.
func (a *QLearningAgent) QValue(state game.State, action game.Action) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.values[qKey{state.Hash(), action}]
}

// Size returns the number of learned state-action values.
func (a *QLearningAgent) Size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.values)
}

// Update moves Q(state, action) toward reward plus the discounted best value
// of next.
func (a *QLearningAgent) Update(state game.State, action game.Action, next game.State, reward float64) error {
	nextActions, err := next.LegalActions(game.PacmanIndex)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	bestNext := 0.0
	if len(nextActions) > 0 {
		bestNext = math.Inf(-1)
		for _, nextAction := range nextActions {
			bestNext = max(bestNext, a.values[qKey{next.Hash(), nextAction}])
		}
	}
	key := qKey{state.Hash(), action}
	a.values[key] = (1-a.alpha)*a.values[key] + a.alpha*(reward+a.discount*bestNext)
	return nil
}

func (a *QLearningAgent) FindMove(state game.State, agentIndex int) (game.Action, metrics.SearchMetric, error) {
	legal, err := legalActions(state, agentIndex)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rng.Float64() < a.epsilon {
		return legal[a.rng.Intn(len(legal))], metrics.SearchMetric{}, nil
	}

	hash := state.Hash()
	bestValue := math.Inf(-1)
	best := []game.Action{}
	for _, action := range legal {
		value := a.values[qKey{hash, action}]
		if value > bestValue {
			bestValue = value
			best = []game.Action{action}
		} else if value == bestValue {
			best = append(best, action)
		}
	}
	return best[a.rng.Intn(len(best))], metrics.SearchMetric{Score: bestValue}, nil
}
