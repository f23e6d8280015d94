package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Layout is the static part of a game: walls and the starting positions of
// agents, food and capsules.
type Layout struct {
	Name        string
	Width       int
	Height      int
	walls       []bool // Indexed by x*Height+y
	Food        []Position
	Capsules    []Position
	PacmanStart Position
	GhostStarts []Position
}

// ParseLayout reads a layout drawn with '%' walls, '.' food, 'o' capsules,
// 'P' for Pacman and 'G' for each ghost. The first line is the top row.
func ParseLayout(name, text string) (*Layout, error) {
	rows := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: layout %q is empty", ErrInvalidLayout, name)
	}

	width := len(rows[0])
	height := len(rows)
	l := &Layout{
		Name:   name,
		Width:  width,
		Height: height,
		walls:  make([]bool, width*height),
	}

	foundPacman := false
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d of layout %q has width %d, expected %d", ErrInvalidLayout, i, name, len(row), width)
		}
		y := height - 1 - i
		for x, c := range row {
			p := Position{X: x, Y: y}
			switch c {
			case '%':
				l.walls[l.index(p)] = true
			case '.':
				l.Food = append(l.Food, p)
			case 'o':
				l.Capsules = append(l.Capsules, p)
			case 'P':
				if foundPacman {
					return nil, fmt.Errorf("%w: layout %q has more than one Pacman", ErrInvalidLayout, name)
				}
				foundPacman = true
				l.PacmanStart = p
			case 'G':
				l.GhostStarts = append(l.GhostStarts, p)
			case ' ':
			default:
				return nil, fmt.Errorf("%w: unknown character %q at %v in layout %q", ErrInvalidLayout, c, p, name)
			}
		}
	}
	if !foundPacman {
		return nil, fmt.Errorf("%w: layout %q has no Pacman", ErrInvalidLayout, name)
	}

	return l, nil
}

// LoadLayout reads a layout file. The layout is named after the file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseLayout(name, string(data))
}

// GetLayout returns a built-in layout by name, or loads it from disk when name
// is a path to a layout file.
func GetLayout(name string) (*Layout, error) {
	if text, ok := builtinLayouts[name]; ok {
		return ParseLayout(name, text)
	}
	if _, err := os.Stat(name); err == nil {
		return LoadLayout(name)
	}
	return nil, fmt.Errorf("%w: unknown layout %q", ErrInvalidLayout, name)
}

// IsWall reports whether p is a wall. Positions outside the grid are walls.
func (l *Layout) IsWall(p Position) bool {
	if p.X < 0 || p.Y < 0 || p.X >= l.Width || p.Y >= l.Height {
		return true
	}
	return l.walls[l.index(p)]
}

// NumGhosts returns the number of ghost starting positions.
func (l *Layout) NumGhosts() int {
	return len(l.GhostStarts)
}

func (l *Layout) index(p Position) int {
	return p.X*l.Height + p.Y
}

var builtinLayouts = map[string]string{
	"tiny": `
%%%%%%%%
%P   .o%
% %%%% %
%.   G %
%%%%%%%%
`,
	"small": `
%%%%%%%%%%%%%%%%%%%%
%......%G  G%......%
%.%%...%%  %%...%%.%
%.%o.%........%.o%.%
%.%%.%.%%%%%%.%.%%.%
%........P.........%
%%%%%%%%%%%%%%%%%%%%
`,
	"medium": `
%%%%%%%%%%%%%%%%%%%%%%%%%%%%
%o...%........%...........o%
%.%%.%.%%%%%%.%.%%%%%%.%%%.%
%.%...........G...........%%
%.%.%%.%%%%    %%%%.%%.%%.%%
%......%G   G   G%.........%
%.%.%%.%%%%%%%%%%%.%%.%%.%.%
%.%.......... P..........%.%
%.%%%.%%%%.%%%%%%.%%%%.%%%.%
%o........................o%
%%%%%%%%%%%%%%%%%%%%%%%%%%%%
`,
}

// LayoutNames returns the names of the built-in layouts.
func LayoutNames() []string {
	return []string{"tiny", "small", "medium"}
}
