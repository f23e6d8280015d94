package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	t.Run("parsing the tiny layout", func(t *testing.T) {
		l, err := GetLayout("tiny")

		require.NoError(t, err)
		require.Equal(t, 8, l.Width)
		require.Equal(t, 5, l.Height)
		require.Equal(t, Position{X: 1, Y: 3}, l.PacmanStart, "First text row should be the top row")
		require.Equal(t, []Position{{X: 5, Y: 1}}, l.GhostStarts)
		require.Equal(t, []Position{{X: 5, Y: 3}, {X: 1, Y: 1}}, l.Food)
		require.Equal(t, []Position{{X: 6, Y: 3}}, l.Capsules)
		require.True(t, l.IsWall(Position{X: 0, Y: 0}))
		require.False(t, l.IsWall(Position{X: 1, Y: 2}))
		require.True(t, l.IsWall(Position{X: -1, Y: 2}), "Cells outside the grid should be walls")
	})

	t.Run("parsing every built-in layout", func(t *testing.T) {
		for _, name := range LayoutNames() {
			l, err := GetLayout(name)
			require.NoError(t, err, name)
			require.NotEmpty(t, l.GhostStarts, name)
			require.NotEmpty(t, l.Food, name)
		}
	})

	t.Run("rejecting invalid layouts", func(t *testing.T) {
		for name, text := range map[string]string{
			"empty":        "\n\n",
			"ragged":       "%%%%\n%P.%%\n%%%%",
			"no pacman":    "%%%%\n%..%\n%%%%",
			"two pacmen":   "%%%%\n%PP%\n%%%%",
			"unknown rune": "%%%%\n%Px%\n%%%%",
		} {
			_, err := ParseLayout(name, text)
			require.ErrorIs(t, err, ErrInvalidLayout, name)
		}
	})

	t.Run("loading a layout file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corridor.lay")
		require.NoError(t, os.WriteFile(path, []byte("%%%%%\n%P.G%\n%%%%%\n"), 0644))

		l, err := GetLayout(path)

		require.NoError(t, err)
		require.Equal(t, "corridor", l.Name)
		require.Equal(t, 1, l.NumGhosts())
	})

	t.Run("unknown layout name", func(t *testing.T) {
		_, err := GetLayout("does-not-exist")
		require.ErrorIs(t, err, ErrInvalidLayout)
	})
}
