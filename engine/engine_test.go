package engine

import (
	"errors"
	"pacman/agent"
	"pacman/experiments/metrics"
	"pacman/game"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockAgent struct {
	action game.Action
	err    error
}

func (a mockAgent) FindMove(state game.State, agentIndex int) (game.Action, metrics.SearchMetric, error) {
	return a.action, metrics.SearchMetric{Depth: 7}, a.err
}

func parseLayout(t *testing.T, text string) *game.Layout {
	t.Helper()
	layout, err := game.ParseLayout("test", text)
	require.NoError(t, err)
	return layout
}

func tinyLayout(t *testing.T) *game.Layout {
	t.Helper()
	layout, err := game.GetLayout("tiny")
	require.NoError(t, err)
	return layout
}

const oneStepLayout = `
%%%%
%P.%
%%%%
`

func TestLocalEngine(t *testing.T) {
	t.Run("plays until the game is over", func(t *testing.T) {
		layout := tinyLayout(t)
		pacman, err := agent.New(agent.Config{Kind: agent.Minimax, Depth: 2}, 1)
		require.NoError(t, err)
		agents := []agent.Agent{pacman, agent.NewDirectionalGhost(1)}
		e := LocalEngine(layout, agents, game.NewStandardRules(), WithMaxMoves(200))

		gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, "tiny", gameMetric.Layout)
		require.Equal(t, gameMetric.TotalMoves, len(moveMetrics), "Every move should be recorded")
		require.LessOrEqual(t, gameMetric.TotalMoves, 200)
		for i, m := range moveMetrics {
			require.Equal(t, i+1, m.Step)
			require.Equal(t, i%2, m.Agent, "Agents should move in index order")
		}
		require.Equal(t, 2, moveMetrics[0].Depth, "Pacman's search metrics should be kept")
	})

	t.Run("stops after max moves", func(t *testing.T) {
		layout := tinyLayout(t)
		agents := []agent.Agent{agent.NewRandomAgent(1), agent.NewRandomAgent(2)}
		e := LocalEngine(layout, agents, game.NewStandardRules(), WithMaxMoves(5))

		gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, 5, gameMetric.TotalMoves, "The tiny layout cannot end within 5 moves")
		require.Len(t, moveMetrics, 5)
		require.False(t, gameMetric.Win)
	})

	t.Run("reports the result and every state to the observer", func(t *testing.T) {
		layout := parseLayout(t, oneStepLayout)
		steps := []int{}
		observer := func(step int, agentIndex int, action game.Action, state game.State) {
			steps = append(steps, step)
		}
		e := LocalEngine(layout, []agent.Agent{mockAgent{action: game.East}}, game.NewStandardRules(), WithObserver(observer))

		gameMetric, _, err := e.Run()

		require.NoError(t, err)
		require.True(t, gameMetric.Win)
		require.Equal(t, 509.0, gameMetric.Score)
		require.Equal(t, []int{0, 1}, steps)
	})

	t.Run("agent errors end the game", func(t *testing.T) {
		layout := parseLayout(t, oneStepLayout)
		errAgent := errors.New("agent crashed")
		e := LocalEngine(layout, []agent.Agent{mockAgent{err: errAgent}}, game.NewStandardRules())

		_, _, err := e.Run()

		require.ErrorIs(t, err, errAgent)
	})

	t.Run("illegal actions end the game", func(t *testing.T) {
		layout := parseLayout(t, oneStepLayout)
		e := LocalEngine(layout, []agent.Agent{mockAgent{action: game.North}}, game.NewStandardRules())

		_, _, err := e.Run()

		require.ErrorIs(t, err, game.ErrIllegalAction)
	})

	t.Run("needs one agent per character", func(t *testing.T) {
		require.Panics(t, func() {
			LocalEngine(tinyLayout(t), []agent.Agent{mockAgent{}}, game.NewStandardRules())
		})
	})
}

func TestTrainer(t *testing.T) {
	t.Run("learns a one step win", func(t *testing.T) {
		layout := parseLayout(t, oneStepLayout)
		learner := agent.NewQLearningAgent(agent.WithSeed(1))
		trainer := NewTrainer(layout, game.NewStandardRules(), learner, []agent.Agent{})

		results, err := trainer.Train(5)

		require.NoError(t, err)
		require.Len(t, results, 5)
		for _, r := range results {
			require.True(t, r.Win, "Pacman should reach the only food in every episode")
		}
		start := game.NewGameState(layout, game.NewStandardRules())
		require.Greater(t, learner.QValue(start, game.East), learner.QValue(start, game.Stop))
	})

	t.Run("ghosts move between Pacman's moves", func(t *testing.T) {
		learner := agent.NewQLearningAgent(agent.WithSeed(2))
		trainer := NewTrainer(tinyLayout(t), game.NewStandardRules(), learner, []agent.Agent{agent.NewRandomAgent(3)})

		results, err := trainer.Train(3)

		require.NoError(t, err)
		require.Len(t, results, 3)
		require.Greater(t, learner.Size(), 0)
	})

	t.Run("needs one agent per ghost", func(t *testing.T) {
		require.Panics(t, func() {
			NewTrainer(tinyLayout(t), game.NewStandardRules(), agent.NewQLearningAgent(), []agent.Agent{})
		})
	})
}
