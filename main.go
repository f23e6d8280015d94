package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "pacman",
		Short: "Play Pacman with search and learning agents",
		Long: `pacman plays games of Pacman on grid layouts. Pacman is controlled by a
minimax, greedy, left-turn, random or Q-learning agent and every ghost by a
random or directional agent.

Examples:
  pacman play --layout small --agent minimax --depth 2 --ghosts directional
  pacman train --layout tiny --episodes 200
  pacman experiment -f plan.yaml
  pacman report --db records.sqlite --experiment depth`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.TimeOnly})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newPlayCmd(),
		newTrainCmd(),
		newExperimentCmd(),
		newReportCmd(),
	)
	return root
}
