package engine

import (
	"fmt"
	"pacman/agent"
	"pacman/experiments/metrics"
	"pacman/game"
	"pacman/meta"
	"time"

	"github.com/rs/zerolog/log"
)

// Trainer plays Pacman episodes in which a Q-learning agent learns from the
// score it gains over each full round.
type Trainer struct {
	layout   *game.Layout
	rules    game.Rules
	learner  *agent.QLearningAgent
	ghosts   []agent.Agent
	maxMoves int
}

// NewTrainer returns a trainer for learner. ghosts[i] controls ghost i+1.
func NewTrainer(layout *game.Layout, rules game.Rules, learner *agent.QLearningAgent, ghosts []agent.Agent) *Trainer {
	if len(ghosts) != layout.NumGhosts() {
		panic(fmt.Sprintf("layout %s needs %d ghost agents, got %d", layout.Name, layout.NumGhosts(), len(ghosts)))
	}
	return &Trainer{
		layout:   layout,
		rules:    rules,
		learner:  learner,
		ghosts:   ghosts,
		maxMoves: meta.MAX_MOVES,
	}
}

// Train plays episodes games and returns their results.
func (t *Trainer) Train(episodes int) ([]metrics.GameMetric, error) {
	results := make([]metrics.GameMetric, 0, episodes)
	wins := 0
	for i := 0; i < episodes; i++ {
		result, err := t.episode()
		if err != nil {
			return results, fmt.Errorf("episode %d: %w", i+1, err)
		}
		results = append(results, result)
		if result.Win {
			wins++
		}

		if (i+1)%10 == 0 || i+1 == episodes {
			log.Info().
				Int("episode", i+1).
				Float64("score", result.Score).
				Int("wins", wins).
				Int("q_values", t.learner.Size()).
				Msg("training progress")
		}
	}
	return results, nil
}

func (t *Trainer) episode() (metrics.GameMetric, error) {
	startTime := time.Now()
	var state game.State = game.NewGameState(t.layout, t.rules)
	moves := 0

	for !game.IsTerminal(state) && moves < t.maxMoves {
		action, _, err := t.learner.FindMove(state, game.PacmanIndex)
		if err != nil {
			return metrics.GameMetric{}, err
		}
		next, err := state.Successor(game.PacmanIndex, action)
		if err != nil {
			return metrics.GameMetric{}, err
		}
		moves++

		for i, ghost := range t.ghosts {
			if game.IsTerminal(next) {
				break
			}
			ghostAction, _, err := ghost.FindMove(next, i+1)
			if err != nil {
				return metrics.GameMetric{}, err
			}
			if next, err = next.Successor(i+1, ghostAction); err != nil {
				return metrics.GameMetric{}, err
			}
			moves++
		}

		if err := t.learner.Update(state, action, next, next.Score()-state.Score()); err != nil {
			return metrics.GameMetric{}, err
		}
		state = next
	}

	endTime := time.Now()
	return metrics.GameMetric{
		Layout:     t.layout.Name,
		Score:      state.Score(),
		Win:        state.IsWin(),
		StartTime:  startTime,
		EndTime:    endTime,
		Duration:   endTime.Sub(startTime),
		TotalMoves: moves,
	}, nil
}
