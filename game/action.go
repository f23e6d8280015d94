package game

import "fmt"

// Action is a move in the grid world.
type Action string

const (
	North Action = "North"
	South Action = "South"
	East  Action = "East"
	West  Action = "West"
	Stop  Action = "Stop" // No-op
)

// Directions lists the moving actions in the order legal actions are enumerated.
var Directions = []Action{North, South, East, West}

var (
	Left = map[Action]Action{
		North: West,
		South: East,
		East:  North,
		West:  South,
		Stop:  Stop,
	}
	Right = map[Action]Action{
		West:  North,
		East:  South,
		North: East,
		South: West,
		Stop:  Stop,
	}
	Reverse = map[Action]Action{
		North: South,
		South: North,
		East:  West,
		West:  East,
		Stop:  Stop,
	}
)

var vectors = map[Action]Position{
	North: {X: 0, Y: 1},
	South: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	West:  {X: -1, Y: 0},
	Stop:  {X: 0, Y: 0},
}

// Position is a cell of the grid, x to the east and y to the north.
type Position struct {
	X int
	Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Move returns the position reached by taking action from p.
func (p Position) Move(action Action) Position {
	v := vectors[action]
	return Position{X: p.X + v.X, Y: p.Y + v.Y}
}

// ManhattanDistance returns |x1-x2| + |y1-y2|.
func ManhattanDistance(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ParseAction parses the name of an action.
func ParseAction(name string) (Action, error) {
	action := Action(name)
	if _, ok := vectors[action]; !ok {
		return "", fmt.Errorf("%w: %q", ErrIllegalAction, name)
	}
	return action, nil
}
