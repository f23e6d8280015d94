package main

import (
	"fmt"
	"pacman/agent"
	"pacman/engine"
	"pacman/game"
	"pacman/meta"

	"github.com/spf13/cobra"
)

type playOptions struct {
	layout    string
	agent     string
	depth     int
	evaluator string
	ghosts    string
	seed      uint64
	maxMoves  int
	display   bool
}

func newPlayCmd() *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a single game",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "small", "Built-in layout name or layout file")
	cmd.Flags().StringVarP(&opts.agent, "agent", "a", string(agent.Minimax), "Pacman agent (minimax, greedy, leftturn, random, qlearning)")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", meta.DEPTH, "Search depth of the minimax agent")
	cmd.Flags().StringVarP(&opts.evaluator, "evaluator", "e", string(game.CompositeEvaluator), "Evaluation function (score, composite)")
	cmd.Flags().StringVarP(&opts.ghosts, "ghosts", "g", string(agent.Random), "Ghost agent (random, directional)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Seed of the random agents")
	cmd.Flags().IntVar(&opts.maxMoves, "max-moves", meta.MAX_MOVES, "Moves after which the game is stopped")
	cmd.Flags().BoolVar(&opts.display, "display", true, "Print the board after every round")

	return cmd
}

func runPlay(cmd *cobra.Command, opts *playOptions) error {
	layout, err := game.GetLayout(opts.layout)
	if err != nil {
		return err
	}

	pacman, err := agent.New(agent.Config{
		Kind:      agent.Kind(opts.agent),
		Depth:     opts.depth,
		Evaluator: game.EvaluatorKind(opts.evaluator),
	}, opts.seed)
	if err != nil {
		return err
	}
	agents, err := withGhosts(pacman, layout, agent.Kind(opts.ghosts), opts.seed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var last game.State
	observer := func(step int, agentIndex int, action game.Action, state game.State) {
		last = state
		if opts.display && (step == 0 || agentIndex == state.NumAgents()-1 || game.IsTerminal(state)) {
			fmt.Fprintf(out, "%v\n\n", state)
		}
	}

	e := engine.LocalEngine(layout, agents, game.NewStandardRules(), engine.WithMaxMoves(opts.maxMoves), engine.WithObserver(observer))
	gameMetric, _, err := e.Run()
	if err != nil {
		return err
	}

	result := "stopped"
	if last.IsWin() {
		result = "won"
	} else if last.IsLose() {
		result = "lost"
	}
	fmt.Fprintf(out, "Pacman %s on %s with score %.0f after %d moves (%v)\n", result, layout.Name, gameMetric.Score, gameMetric.TotalMoves, gameMetric.Duration)
	return nil
}

// withGhosts returns pacman followed by one agent of kind per ghost.
func withGhosts(pacman agent.Agent, layout *game.Layout, kind agent.Kind, seed uint64) ([]agent.Agent, error) {
	if kind != agent.Random && kind != agent.Directional {
		return nil, fmt.Errorf("ghosts must be %s or %s, got %q", agent.Random, agent.Directional, kind)
	}
	agents := []agent.Agent{pacman}
	for i := 0; i < layout.NumGhosts(); i++ {
		ghost, err := agent.New(agent.Config{Kind: kind}, seed+uint64(i+1))
		if err != nil {
			return nil, err
		}
		agents = append(agents, ghost)
	}
	return agents, nil
}
