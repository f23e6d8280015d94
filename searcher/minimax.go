package searcher

import (
	"errors"
	"math"
	"pacman/experiments/metrics"
	"pacman/game"
	"pacman/meta"

	"github.com/rs/zerolog/log"
)

var (
	ErrTerminalState  = errors.New("cannot search a terminal state")
	ErrNoLegalActions = errors.New("no legal actions to search")
	ErrNoAction       = errors.New("search at depth 0 selects no action")
)

type Option func(m *Minimax)

// Result is the outcome of a search from the root.
type Result struct {
	Action game.Action
	Score  float64
	Metric metrics.SearchMetric
}

// Minimax is a depth-limited search for one maximizing agent against every
// other agent minimizing. One ply is a full round in which every agent moves
// once. Minimax holds no state between searches, so it can search
// independent states concurrently.
type Minimax struct {
	depth        int
	evaluate     game.Evaluate
	evaluator    string
	newCollector func() metrics.Collector
}

func WithDepth(depth int) Option {
	return func(m *Minimax) {
		if depth >= 0 {
			m.depth = depth
		}
	}
}

// WithEvaluator selects one of the named evaluation functions.
func WithEvaluator(kind game.EvaluatorKind) Option {
	return func(m *Minimax) {
		if kind == "" {
			kind = game.CompositeEvaluator
		}
		if evaluate, err := kind.Func(); err == nil {
			m.evaluate = evaluate
			m.evaluator = string(kind)
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
			m.evaluator = "custom"
		}
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.newCollector = metrics.NewCollector
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		depth:        meta.DEPTH,
		evaluate:     game.EvaluateComposite,
		evaluator:    string(game.CompositeEvaluator),
		newCollector: metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *Minimax) Depth() int {
	return m.depth
}

func (m *Minimax) Evaluator() string {
	return m.evaluator
}

// SelectAction returns Pacman's best action.
func (m *Minimax) SelectAction(state game.State) (game.Action, error) {
	result, err := m.Search(state, game.PacmanIndex)
	if err != nil {
		return "", err
	}
	if result.Action == "" {
		return "", ErrNoAction
	}
	return result.Action, nil
}

// Search explores every legal action of agentIndex, which maximizes, and
// returns the first action with the highest minimax value. Errors from state
// are returned unchanged.
func (m *Minimax) Search(state game.State, agentIndex int) (Result, error) {
	if game.IsTerminal(state) {
		return Result{}, ErrTerminalState
	}

	collector := m.newCollector()
	collector.Start(m.depth, m.evaluator)

	if m.depth == 0 {
		score := m.score(state, collector)
		return Result{Score: score, Metric: collector.Complete(score)}, nil
	}

	actions, err := state.LegalActions(agentIndex)
	if err != nil {
		return Result{}, err
	}
	if len(actions) == 0 {
		return Result{}, ErrNoLegalActions
	}

	nextAgent, nextPly := advance(state, agentIndex, 0)
	best := Result{Score: math.Inf(-1)}
	for _, action := range actions {
		successor, err := state.Successor(agentIndex, action)
		if err != nil {
			return Result{}, err
		}
		collector.AddExpansion()

		score, err := m.value(successor, agentIndex, nextAgent, nextPly, collector)
		if err != nil {
			return Result{}, err
		}
		// The first action is kept even when every action scores -Inf
		if best.Action == "" || score > best.Score {
			best.Action = action
			best.Score = score
		}
	}
	best.Metric = collector.Complete(best.Score)

	log.Debug().
		Str("action", string(best.Action)).
		Float64("score", best.Score).
		Int("depth", m.depth).
		Int("expansions", best.Metric.Expansions).
		Msg("minimax-selected")

	return best, nil
}

// value returns the minimax value of state with agentIndex to move at ply.
func (m *Minimax) value(state game.State, maxAgent, agentIndex, ply int, collector metrics.Collector) (float64, error) {
	if game.IsTerminal(state) || ply == m.depth {
		return m.score(state, collector), nil
	}

	actions, err := state.LegalActions(agentIndex)
	if err != nil {
		return 0, err
	}
	if len(actions) == 0 { // Trapped, treat as a cutoff
		return m.score(state, collector), nil
	}

	nextAgent, nextPly := advance(state, agentIndex, ply)
	maximizing := agentIndex == maxAgent
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, action := range actions {
		successor, err := state.Successor(agentIndex, action)
		if err != nil {
			return 0, err
		}
		collector.AddExpansion()

		score, err := m.value(successor, maxAgent, nextAgent, nextPly, collector)
		if err != nil {
			return 0, err
		}
		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
		}
	}
	return best, nil
}

func (m *Minimax) score(state game.State, collector metrics.Collector) float64 {
	collector.AddEvaluation()
	return m.evaluate(state)
}

// advance returns the next agent to move and its ply. The ply only grows once
// the last agent has moved.
func advance(state game.State, agentIndex, ply int) (int, int) {
	numAgents := state.NumAgents()
	if agentIndex == numAgents-1 {
		ply++
	}
	return (agentIndex + 1) % numAgents, ply
}
