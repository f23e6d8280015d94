package agent

import (
	"pacman/game"
	"testing"

	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, text string) *game.GameState {
	t.Helper()
	layout, err := game.ParseLayout("test", text)
	require.NoError(t, err)
	return game.NewGameState(layout, game.NewStandardRules())
}

func tinyState(t *testing.T) *game.GameState {
	t.Helper()
	layout, err := game.GetLayout("tiny")
	require.NoError(t, err)
	return game.NewGameState(layout, game.NewStandardRules())
}

// scaredState reports every ghost as scared.
type scaredState struct {
	*game.GameState
}

func (s scaredState) Ghosts() []game.GhostState {
	ghosts := s.GameState.Ghosts()
	for i := range ghosts {
		ghosts[i].ScaredTimer = 5
	}
	return ghosts
}

func TestNew(t *testing.T) {
	t.Run("every kind", func(t *testing.T) {
		for _, kind := range Kinds() {
			a, err := New(Config{Kind: kind, Depth: 1}, 1)
			require.NoError(t, err, "kind %s", kind)
			require.NotNil(t, a)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New(Config{Kind: "expectimax"}, 1)
		require.Error(t, err)
	})

	t.Run("unknown evaluator", func(t *testing.T) {
		_, err := New(Config{Kind: Greedy, Evaluator: "better"}, 1)
		require.Error(t, err)
	})

	t.Run("minimax needs a positive depth", func(t *testing.T) {
		_, err := New(Config{Kind: Minimax}, 1)
		require.Error(t, err)
	})

	t.Run("config names", func(t *testing.T) {
		require.Equal(t, "minimax(depth=3,evaluator=score)", Config{Kind: Minimax, Depth: 3, Evaluator: game.ScoreEvaluator}.String())
		require.Equal(t, "leftturn", Config{Kind: LeftTurn}.String())
	})
}

func TestMinimaxAgent(t *testing.T) {
	a, err := New(Config{Kind: Minimax, Depth: 2, Evaluator: game.CompositeEvaluator}, 1)
	require.NoError(t, err)
	state := tinyState(t)

	action, metric, err := a.FindMove(state, game.PacmanIndex)

	require.NoError(t, err)
	require.Contains(t, []game.Action{game.South, game.East, game.Stop}, action, "Action should be legal")
	require.Greater(t, metric.Expansions, 0, "Metrics should be collected")
	require.Equal(t, 2, metric.Depth)
}

func TestGreedyAgent(t *testing.T) {
	t.Run("moves to the best successor", func(t *testing.T) {
		state := newState(t, `
%%%%%%
%.P  %
%%%%%%
`)
		a := NewGreedyAgent(game.EvaluateScore, "score", 1)

		action, metric, err := a.FindMove(state, game.PacmanIndex)

		require.NoError(t, err)
		require.Equal(t, game.West, action, "Eating the last food should win")
		require.Equal(t, 2, metric.Evaluations, "Stop should not be evaluated")
	})

	t.Run("breaks ties at random", func(t *testing.T) {
		state := newState(t, `
%%%%%
% P %
%%%%%
`)
		a := NewGreedyAgent(game.EvaluateScore, "score", 7)

		seen := map[game.Action]bool{}
		for i := 0; i < 50; i++ {
			action, _, err := a.FindMove(state, game.PacmanIndex)
			require.NoError(t, err)
			seen[action] = true
		}

		require.Equal(t, map[game.Action]bool{game.East: true, game.West: true}, seen, "Both equal moves should be picked and Stop never")
	})

	t.Run("stops when boxed in", func(t *testing.T) {
		state := newState(t, `
%%%
%P%
%%%
`)
		a := NewGreedyAgent(game.EvaluateScore, "score", 1)

		action, _, err := a.FindMove(state, game.PacmanIndex)

		require.NoError(t, err)
		require.Equal(t, game.Stop, action)
	})

	t.Run("terminal state has no move", func(t *testing.T) {
		state := newState(t, `
%%%%
%P.%
%%%%
`)
		next, err := state.Successor(game.PacmanIndex, game.East)
		require.NoError(t, err)
		require.True(t, next.IsWin())

		_, _, err = NewGreedyAgent(game.EvaluateScore, "score", 1).FindMove(next, game.PacmanIndex)

		require.ErrorIs(t, err, ErrNoLegalActions)
	})
}

func TestLeftTurnAgent(t *testing.T) {
	t.Run("turns left, else reverses", func(t *testing.T) {
		state := newState(t, `
%%%%%
%.P.%
%%%%%
`)
		a := NewLeftTurnAgent()

		action, _, err := a.FindMove(state, game.PacmanIndex)
		require.NoError(t, err)
		require.Equal(t, game.West, action, "A stopped agent faces north, so left is west")

		next, err := state.Successor(game.PacmanIndex, action)
		require.NoError(t, err)
		action, _, err = a.FindMove(next, game.PacmanIndex)
		require.NoError(t, err)
		require.Equal(t, game.East, action, "Only reversing is left at the end of the corridor")
	})

	t.Run("keeps going when it cannot turn left", func(t *testing.T) {
		state := newState(t, `
%%%%%%
%P  .%
%%%%%%
`)
		a := NewLeftTurnAgent()
		next, err := state.Successor(game.PacmanIndex, game.East)
		require.NoError(t, err)

		action, _, err := a.FindMove(next, game.PacmanIndex)

		require.NoError(t, err)
		require.Equal(t, game.East, action)
	})

	t.Run("stops when boxed in", func(t *testing.T) {
		state := newState(t, `
%%%
%P%
%%%
`)
		action, _, err := NewLeftTurnAgent().FindMove(state, game.PacmanIndex)

		require.NoError(t, err)
		require.Equal(t, game.Stop, action)
	})
}

func TestRandomAgent(t *testing.T) {
	state := tinyState(t)
	a := NewRandomAgent(3)
	b := NewRandomAgent(3)

	for i := 0; i < 20; i++ {
		actionA, _, err := a.FindMove(state, 1)
		require.NoError(t, err)
		actionB, _, err := b.FindMove(state, 1)
		require.NoError(t, err)

		require.Contains(t, []game.Action{game.East, game.West}, actionA, "Ghost action should be legal")
		require.Equal(t, actionA, actionB, "Agents with the same seed should agree")
	}
}

func TestDirectionalGhost(t *testing.T) {
	legal := []game.Action{game.East, game.West}

	t.Run("attacks", func(t *testing.T) {
		a := NewDirectionalGhost(1).(*directionalGhost)

		policy := a.policy(tinyState(t), 1, legal)

		require.InDeltaSlice(t, []float64{0.1, 0.9}, policy, 1e-9, "West gets closer to Pacman")
	})

	t.Run("flees while scared", func(t *testing.T) {
		a := NewDirectionalGhost(1).(*directionalGhost)

		policy := a.policy(scaredState{tinyState(t)}, 1, legal)

		require.InDeltaSlice(t, []float64{0.9, 0.1}, policy, 1e-9, "East gets away from Pacman")
	})

	t.Run("moves legally", func(t *testing.T) {
		a := NewDirectionalGhost(1)

		action, _, err := a.FindMove(tinyState(t), 1)

		require.NoError(t, err)
		require.Contains(t, legal, action)
	})

	t.Run("cannot control Pacman", func(t *testing.T) {
		_, _, err := NewDirectionalGhost(1).FindMove(tinyState(t), game.PacmanIndex)

		require.ErrorIs(t, err, game.ErrInvalidAgent)
	})
}

func TestQLearningAgent(t *testing.T) {
	t.Run("update blends reward into the value", func(t *testing.T) {
		a := NewQLearningAgent(WithEpsilon(0))
		state := tinyState(t)
		next, err := state.Successor(game.PacmanIndex, game.East)
		require.NoError(t, err)

		require.NoError(t, a.Update(state, game.East, next, 10))
		require.Equal(t, 5.0, a.QValue(state, game.East), "0.5*0 + 0.5*(10 + 0.9*0)")

		require.NoError(t, a.Update(state, game.East, next, 10))
		require.Equal(t, 7.5, a.QValue(state, game.East), "0.5*5 + 0.5*(10 + 0.9*0)")
		require.Equal(t, 1, a.Size())
	})

	t.Run("update discounts the best next value", func(t *testing.T) {
		a := NewQLearningAgent()
		state := tinyState(t)
		next, err := state.Successor(game.PacmanIndex, game.East)
		require.NoError(t, err)
		after, err := next.Successor(game.PacmanIndex, game.East)
		require.NoError(t, err)

		require.NoError(t, a.Update(next, game.East, after, 4))
		require.NoError(t, a.Update(state, game.East, next, 0))

		require.InDelta(t, 0.5*0.9*2, a.QValue(state, game.East), 1e-9)
	})

	t.Run("exploits the best action", func(t *testing.T) {
		a := NewQLearningAgent(WithEpsilon(0))
		state := tinyState(t)
		next, err := state.Successor(game.PacmanIndex, game.South)
		require.NoError(t, err)
		require.NoError(t, a.Update(state, game.South, next, 1))

		action, _, err := a.FindMove(state, game.PacmanIndex)

		require.NoError(t, err)
		require.Equal(t, game.South, action)
	})

	t.Run("explores with probability epsilon", func(t *testing.T) {
		a := NewQLearningAgent(WithEpsilon(1), WithSeed(5))
		state := tinyState(t)
		next, err := state.Successor(game.PacmanIndex, game.South)
		require.NoError(t, err)
		require.NoError(t, a.Update(state, game.South, next, 100))

		seen := map[game.Action]bool{}
		for i := 0; i < 60; i++ {
			action, _, err := a.FindMove(state, game.PacmanIndex)
			require.NoError(t, err)
			seen[action] = true
		}

		require.Len(t, seen, 3, "Every legal action should be explored")
	})

	t.Run("invalid options are ignored", func(t *testing.T) {
		a := NewQLearningAgent(WithEpsilon(2), WithAlpha(0), WithDiscount(-1))

		require.Equal(t, 0.1, a.epsilon)
		require.Equal(t, 0.5, a.alpha)
		require.Equal(t, 0.9, a.discount)

		a.SetEpsilon(0)
		require.Equal(t, 0.0, a.epsilon)
	})
}
