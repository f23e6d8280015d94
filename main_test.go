package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--log-level", "warn"))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestPlayCmd(t *testing.T) {
	t.Run("plays a game and prints the result", func(t *testing.T) {
		out, err := execute(t, "play", "--layout", "tiny", "--agent", "minimax", "--depth", "1", "--ghosts", "directional", "--max-moves", "100")

		require.NoError(t, err)
		require.Contains(t, out, "%%%%%%%%", "Board should be displayed")
		require.Contains(t, out, "on tiny with score")
	})

	t.Run("rejects unknown agents", func(t *testing.T) {
		_, err := execute(t, "play", "--layout", "tiny", "--agent", "expectimax")

		require.Error(t, err)
	})

	t.Run("rejects unknown ghosts", func(t *testing.T) {
		_, err := execute(t, "play", "--layout", "tiny", "--ghosts", "minimax")

		require.Error(t, err)
	})

	t.Run("rejects invalid log levels", func(t *testing.T) {
		root := newRootCmd()
		root.SetArgs([]string{"play", "--log-level", "loud"})
		root.SetOut(&bytes.Buffer{})

		require.Error(t, root.Execute())
	})
}

func TestTrainCmd(t *testing.T) {
	out, err := execute(t, "train", "--layout", "tiny", "--episodes", "3", "--eval-games", "2")

	require.NoError(t, err)
	require.Contains(t, out, "Trained for 3 episodes")
	require.Contains(t, out, "Evaluated 2 games")
}

func TestExperimentAndReportCmd(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "records.sqlite")
	plan := fmt.Sprintf(`
name: cli
layout: tiny
games: 2
maxMoves: 40
parallel: 2
output: %s
sqlite: %s
agents:
  - {id: 1, kind: greedy}
  - {id: 2, kind: random}
`, filepath.Join(dir, "out"), db)
	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte(plan), 0644))

	out, err := execute(t, "experiment", "-f", planPath, "--quiet")
	require.NoError(t, err)
	require.Contains(t, out, "Records written to")

	out, err = execute(t, "report", "--db", db, "--experiment", "cli")
	require.NoError(t, err)
	require.Contains(t, out, "avg score")
	require.Regexp(t, `(?m)^1\s+2\s`, out, "Agent 1 should have played 2 games")
	require.Regexp(t, `(?m)^2\s+2\s`, out, "Agent 2 should have played 2 games")
}
