package main

import (
	"pacman/experiments/metrics"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var dbPath, experiment string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize an experiment stored in SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := metrics.OpenStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.Summaries(cmd.Context(), experiment)
			if err != nil {
				return err
			}
			printSummaries(cmd.OutOrStdout(), summaries)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the SQLite database")
	cmd.Flags().StringVarP(&experiment, "experiment", "x", "", "Name of the experiment")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("experiment")

	return cmd
}
