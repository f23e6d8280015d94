package main

import (
	"fmt"
	"pacman/agent"
	"pacman/engine"
	"pacman/experiments/metrics"
	"pacman/game"
	"pacman/meta"

	"github.com/spf13/cobra"
)

type trainOptions struct {
	layout    string
	episodes  int
	evalGames int
	ghosts    string
	seed      uint64
	epsilon   float64
	alpha     float64
	discount  float64
}

func newTrainCmd() *cobra.Command {
	opts := &trainOptions{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a Q-learning Pacman and evaluate it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "tiny", "Built-in layout name or layout file")
	cmd.Flags().IntVarP(&opts.episodes, "episodes", "n", meta.TRAINING_EPISODES, "Number of training games")
	cmd.Flags().IntVar(&opts.evalGames, "eval-games", meta.NUM_GAMES, "Number of games played after training without exploration")
	cmd.Flags().StringVarP(&opts.ghosts, "ghosts", "g", string(agent.Random), "Ghost agent (random, directional)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Seed of the random agents")
	cmd.Flags().Float64Var(&opts.epsilon, "epsilon", 0.1, "Exploration rate")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", 0.5, "Learning rate")
	cmd.Flags().Float64Var(&opts.discount, "discount", 0.9, "Discount factor")

	return cmd
}

func runTrain(cmd *cobra.Command, opts *trainOptions) error {
	layout, err := game.GetLayout(opts.layout)
	if err != nil {
		return err
	}
	rules := game.NewStandardRules()

	learner := agent.NewQLearningAgent(
		agent.WithEpsilon(opts.epsilon),
		agent.WithAlpha(opts.alpha),
		agent.WithDiscount(opts.discount),
		agent.WithSeed(opts.seed),
	)
	agents, err := withGhosts(learner, layout, agent.Kind(opts.ghosts), opts.seed)
	if err != nil {
		return err
	}

	results, err := engine.NewTrainer(layout, rules, learner, agents[1:]).Train(opts.episodes)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Trained for %d episodes: %d wins, %d learned values\n", len(results), countWins(results), learner.Size())

	learner.SetEpsilon(0)
	wins := 0
	total := 0.0
	for i := 0; i < opts.evalGames; i++ {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		agents, err := withGhosts(learner, layout, agent.Kind(opts.ghosts), opts.seed+uint64(i+1)*1000)
		if err != nil {
			return err
		}
		gameMetric, _, err := engine.LocalEngine(layout, agents, rules).Run()
		if err != nil {
			return err
		}
		if gameMetric.Win {
			wins++
		}
		total += gameMetric.Score
	}
	if opts.evalGames > 0 {
		fmt.Fprintf(out, "Evaluated %d games: %d wins, average score %.1f\n", opts.evalGames, wins, total/float64(opts.evalGames))
	}
	return nil
}

func countWins(results []metrics.GameMetric) int {
	wins := 0
	for _, r := range results {
		if r.Win {
			wins++
		}
	}
	return wins
}
