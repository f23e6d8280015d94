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

type Option func(e *localEngine)

// Observer is called with every state the game goes through, starting with
// the initial one.
type Observer func(step int, agentIndex int, action game.Action, state game.State)

type localEngine struct {
	layout   *game.Layout
	state    game.State
	agents   []agent.Agent
	maxMoves int
	observer Observer
}

func WithMaxMoves(maxMoves int) Option {
	return func(e *localEngine) {
		if maxMoves > 0 {
			e.maxMoves = maxMoves
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(e *localEngine) {
		e.observer = observer
	}
}

// LocalEngine plays a game on layout in-process. agents[0] is Pacman and
// agents[i] controls ghost i.
func LocalEngine(layout *game.Layout, agents []agent.Agent, rules game.Rules, options ...Option) Engine {
	if len(agents) != layout.NumGhosts()+1 {
		panic(fmt.Sprintf("layout %s needs %d agents, got %d", layout.Name, layout.NumGhosts()+1, len(agents)))
	}

	e := &localEngine{
		layout:   layout,
		state:    game.NewGameState(layout, rules),
		agents:   agents,
		maxMoves: meta.MAX_MOVES,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop. Agents move in index order until the game is
// over or maxMoves moves have been made.
func (e *localEngine) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	startTime := time.Now()
	moveMetrics := []metrics.MoveMetric{}
	if e.observer != nil {
		e.observer(0, -1, "", e.state)
	}

	step := 0
	agentIndex := game.PacmanIndex
	for !game.IsTerminal(e.state) && step < e.maxMoves {
		action, searchMetric, err := e.agents[agentIndex].FindMove(e.state, agentIndex)
		if err != nil {
			return metrics.GameMetric{}, moveMetrics, fmt.Errorf("agent %d failed to find a move at step %d: %w", agentIndex, step+1, err)
		}

		next, err := e.state.Successor(agentIndex, action)
		if err != nil {
			return metrics.GameMetric{}, moveMetrics, fmt.Errorf("agent %d played %s at step %d: %w", agentIndex, action, step+1, err)
		}
		step++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Agent:        agentIndex,
			Action:       string(action),
			SearchMetric: searchMetric,
		})

		e.state = next
		if e.observer != nil {
			e.observer(step, agentIndex, action, e.state)
		}
		agentIndex = (agentIndex + 1) % e.state.NumAgents()
	}

	endTime := time.Now()
	gameMetric := metrics.GameMetric{
		Layout:     e.layout.Name,
		Score:      e.state.Score(),
		Win:        e.state.IsWin(),
		StartTime:  startTime,
		EndTime:    endTime,
		Duration:   endTime.Sub(startTime),
		TotalMoves: step,
	}

	if game.IsTerminal(e.state) {
		log.Debug().Msgf("game on %s ended after %d moves with score %.0f (win=%t)", e.layout.Name, step, gameMetric.Score, gameMetric.Win)
	} else {
		log.Debug().Msgf("game on %s stopped after %d moves (no result yet)", e.layout.Name, step)
	}

	return gameMetric, moveMetrics, nil
}
