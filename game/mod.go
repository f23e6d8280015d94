package game

import "errors"

// PacmanIndex is the agent index of the maximizing agent. Ghosts use 1..NumAgents()-1.
const PacmanIndex = 0

var (
	ErrInvalidAgent  = errors.New("invalid agent index")
	ErrIllegalAction = errors.New("illegal action")
	ErrGameOver      = errors.New("game is over - no moves allowed")
	ErrInvalidLayout = errors.New("invalid layout")
)

type StateHash uint64

// GhostState is the part of a ghost visible to evaluators. A zero ScaredTimer
// means the ghost is dangerous.
type GhostState struct {
	Position    Position
	ScaredTimer int
}

// State should be immutable - Successor always returns a new copy and leaves
// the receiver valid for sibling branches.
type State interface {
	IsWin() bool
	IsLose() bool
	NumAgents() int
	// LegalActions is ordered and stable so that searches are reproducible.
	LegalActions(agentIndex int) ([]Action, error)
	Successor(agentIndex int, action Action) (State, error)
	Score() float64
	PacmanPosition() Position
	Food() []Position
	Capsules() []Position
	Ghosts() []GhostState
	Hash() StateHash
}

// IsTerminal reports whether the state is won or lost.
func IsTerminal(s State) bool {
	return s.IsWin() || s.IsLose()
}

// Evaluate scores a state from Pacman's perspective. Higher is better and
// math.Inf(-1) marks a catastrophic state.
type Evaluate func(State) float64
