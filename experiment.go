package main

import (
	"fmt"
	"io"
	"pacman/experiments"
	"pacman/experiments/metrics"

	"github.com/spf13/cobra"
)

type experimentOptions struct {
	planPath string
	quiet    bool
}

func newExperimentCmd() *cobra.Command {
	opts := &experimentOptions{}

	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Run the games of an experiment plan",
		Long: `Run every game of a YAML experiment plan and store the records as CSV
files and optionally in SQLite.

Example plan:
  name: depth
  layout: small
  games: 20
  ghosts: directional
  sqlite: experiments/records.sqlite
  agents:
    - {id: 1, kind: minimax, depth: 1}
    - {id: 2, kind: minimax, depth: 2}
    - {id: 3, kind: greedy, evaluator: score}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.planPath, "file", "f", "", "Path to the experiment plan")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Hide the progress bar")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runExperiment(cmd *cobra.Command, opts *experimentOptions) error {
	plan, err := experiments.LoadPlan(opts.planPath)
	if err != nil {
		return err
	}

	options := []experiments.Option{experiments.WithProgress(cmd.ErrOrStderr())}
	if opts.quiet {
		options = []experiments.Option{experiments.WithProgress(io.Discard)}
	}
	result, err := experiments.Run(cmd.Context(), plan, options...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Records written to %s\n", result.Dir)
	printSummaries(out, result.Summaries)
	return nil
}

func printSummaries(w io.Writer, summaries []metrics.AgentSummary) {
	fmt.Fprintf(w, "%-6s %6s %6s %10s %10s\n", "agent", "games", "wins", "avg score", "avg moves")
	for _, s := range summaries {
		fmt.Fprintf(w, "%-6d %6d %6d %10.1f %10.1f\n", s.Agent, s.Games, s.Wins, s.AvgScore, s.AvgMoves)
	}
}
