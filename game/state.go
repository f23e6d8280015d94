package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"pacman/utils"
	"strings"
)

type ghost struct {
	start     Position
	position  Position
	direction Action
	scared    int
}

// GameState is the grid world: one Pacman, any number of ghosts, food and
// capsules on a static Layout.
type GameState struct {
	Layout    *Layout // Static, shared between copies
	Rules     Rules   // Static, shared between copies
	pacman    Position
	direction Action
	ghosts    []ghost
	food      []bool // Indexed like Layout walls
	foodLeft  int
	capsules  []Position
	score     float64
	win       bool
	lose      bool
}

// NewGameState returns the starting state of a layout.
func NewGameState(l *Layout, rules Rules) *GameState {
	gs := &GameState{
		Layout:    l,
		Rules:     rules,
		pacman:    l.PacmanStart,
		direction: Stop,
		ghosts:    make([]ghost, len(l.GhostStarts)),
		food:      make([]bool, l.Width*l.Height),
		capsules:  append([]Position{}, l.Capsules...),
	}
	for i, start := range l.GhostStarts {
		gs.ghosts[i] = ghost{start: start, position: start, direction: Stop}
	}
	for _, p := range l.Food {
		gs.food[l.index(p)] = true
		gs.foodLeft++
	}
	return gs
}

// Copy returns a deep copy of the dynamic part of the state.
func (gs *GameState) Copy() *GameState {
	ghostsCopy := make([]ghost, len(gs.ghosts))
	copy(ghostsCopy, gs.ghosts)

	foodCopy := make([]bool, len(gs.food))
	copy(foodCopy, gs.food)

	capsulesCopy := make([]Position, len(gs.capsules))
	copy(capsulesCopy, gs.capsules)

	return &GameState{
		Layout:    gs.Layout,
		Rules:     gs.Rules,
		pacman:    gs.pacman,
		direction: gs.direction,
		ghosts:    ghostsCopy,
		food:      foodCopy,
		foodLeft:  gs.foodLeft,
		capsules:  capsulesCopy,
		score:     gs.score,
		win:       gs.win,
		lose:      gs.lose,
	}
}

func (gs *GameState) IsWin() bool {
	return gs.win
}

func (gs *GameState) IsLose() bool {
	return gs.lose
}

func (gs *GameState) NumAgents() int {
	return len(gs.ghosts) + 1
}

func (gs *GameState) Score() float64 {
	return gs.score
}

func (gs *GameState) PacmanPosition() Position {
	return gs.pacman
}

// PacmanDirection returns the last direction Pacman moved in, Stop before
// its first move.
func (gs *GameState) PacmanDirection() Action {
	return gs.direction
}

// Food returns the remaining food ordered by column then row.
func (gs *GameState) Food() []Position {
	food := make([]Position, 0, gs.foodLeft)
	for x := 0; x < gs.Layout.Width; x++ {
		for y := 0; y < gs.Layout.Height; y++ {
			if gs.food[x*gs.Layout.Height+y] {
				food = append(food, Position{X: x, Y: y})
			}
		}
	}
	return food
}

// NumFood returns the number of remaining food pellets.
func (gs *GameState) NumFood() int {
	return gs.foodLeft
}

func (gs *GameState) Capsules() []Position {
	return append([]Position{}, gs.capsules...)
}

func (gs *GameState) Ghosts() []GhostState {
	states := make([]GhostState, len(gs.ghosts))
	for i, g := range gs.ghosts {
		states[i] = GhostState{Position: g.position, ScaredTimer: g.scared}
	}
	return states
}

// LegalActions returns the legal actions of an agent. Pacman may move in any
// open direction or stop; a ghost may not stop and only reverses when it has
// no other choice. Terminal states have no legal actions.
func (gs *GameState) LegalActions(agentIndex int) ([]Action, error) {
	if err := gs.checkAgent(agentIndex); err != nil {
		return nil, err
	}
	if gs.win || gs.lose {
		return []Action{}, nil
	}

	if agentIndex == PacmanIndex {
		actions := make([]Action, 0, len(Directions)+1)
		for _, d := range Directions {
			if !gs.Layout.IsWall(gs.pacman.Move(d)) {
				actions = append(actions, d)
			}
		}
		return append(actions, Stop), nil
	}

	g := gs.ghosts[agentIndex-1]
	open := make([]Action, 0, len(Directions))
	for _, d := range Directions {
		if !gs.Layout.IsWall(g.position.Move(d)) {
			open = append(open, d)
		}
	}
	if len(open) == 0 { // Boxed in
		return []Action{Stop}, nil
	}
	if len(open) == 1 || g.direction == Stop {
		return open, nil
	}
	reverse := Reverse[g.direction]
	actions := make([]Action, 0, len(open))
	for _, d := range open {
		if d != reverse {
			actions = append(actions, d)
		}
	}
	return actions, nil
}

// Successor returns the state after agentIndex takes action. The receiver is
// left unchanged.
func (gs *GameState) Successor(agentIndex int, action Action) (State, error) {
	if err := gs.checkAgent(agentIndex); err != nil {
		return nil, err
	}
	if gs.win || gs.lose {
		return nil, ErrGameOver
	}
	legal, err := gs.LegalActions(agentIndex)
	if err != nil {
		return nil, err
	}
	if !utils.Contains(legal, action) {
		return nil, fmt.Errorf("%w: agent %d cannot play %s", ErrIllegalAction, agentIndex, action)
	}

	next := gs.Copy()
	if agentIndex == PacmanIndex {
		next.movePacman(action)
	} else {
		next.moveGhost(agentIndex-1, action)
	}
	next.checkCollisions()
	return next, nil
}

func (gs *GameState) movePacman(action Action) {
	gs.score -= gs.Rules.TimePenalty()
	gs.pacman = gs.pacman.Move(action)
	if action != Stop {
		gs.direction = action
	}

	i := gs.Layout.index(gs.pacman)
	if gs.food[i] {
		gs.food[i] = false
		gs.foodLeft--
		gs.score += gs.Rules.FoodReward()
		if gs.foodLeft == 0 && !gs.lose {
			gs.score += gs.Rules.WinReward()
			gs.win = true
		}
	}

	for ci, c := range gs.capsules {
		if c == gs.pacman {
			gs.capsules = append(gs.capsules[:ci], gs.capsules[ci+1:]...)
			for gi := range gs.ghosts {
				gs.ghosts[gi].scared = gs.Rules.ScaredTime()
			}
			break
		}
	}
}

func (gs *GameState) moveGhost(i int, action Action) {
	g := &gs.ghosts[i]
	g.position = g.position.Move(action)
	if action != Stop {
		g.direction = action
	}
	if g.scared > 0 {
		g.scared--
	}
}

// checkCollisions resolves every ghost sharing Pacman's cell: scared ghosts
// are eaten and sent home, a dangerous one ends the game.
func (gs *GameState) checkCollisions() {
	for i := range gs.ghosts {
		g := &gs.ghosts[i]
		if g.position != gs.pacman {
			continue
		}
		if g.scared > 0 {
			gs.score += gs.Rules.GhostReward()
			g.position = g.start
			g.direction = Stop
			g.scared = 0
		} else if !gs.win {
			gs.score -= gs.Rules.LosePenalty()
			gs.lose = true
		}
	}
}

func (gs *GameState) checkAgent(agentIndex int) error {
	if agentIndex < 0 || agentIndex >= gs.NumAgents() {
		return fmt.Errorf("%w: %d (game has %d agents)", ErrInvalidAgent, agentIndex, gs.NumAgents())
	}
	return nil
}

func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(gs.pacman.X))
	binary.Write(hasher, binary.LittleEndian, int64(gs.pacman.Y))

	for _, g := range gs.ghosts {
		binary.Write(hasher, binary.LittleEndian, int64(g.position.X))
		binary.Write(hasher, binary.LittleEndian, int64(g.position.Y))
		binary.Write(hasher, binary.LittleEndian, int64(g.scared))
	}

	for _, f := range gs.food {
		binary.Write(hasher, binary.LittleEndian, f)
	}

	for _, c := range gs.capsules {
		binary.Write(hasher, binary.LittleEndian, int64(c.X))
		binary.Write(hasher, binary.LittleEndian, int64(c.Y))
	}

	binary.Write(hasher, binary.LittleEndian, gs.win)
	binary.Write(hasher, binary.LittleEndian, gs.lose)

	return StateHash(hasher.Sum64())
}

// String draws the board with the characters used by layouts, followed by
// the score.
func (gs *GameState) String() string {
	var b strings.Builder
	for y := gs.Layout.Height - 1; y >= 0; y-- {
		for x := 0; x < gs.Layout.Width; x++ {
			b.WriteByte(gs.cell(Position{X: x, Y: y}))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Score: %.0f", gs.score)
	return b.String()
}

func (gs *GameState) cell(p Position) byte {
	if p == gs.pacman {
		return 'P'
	}
	for _, g := range gs.ghosts {
		if g.position == p {
			if g.scared > 0 {
				return 'S'
			}
			return 'G'
		}
	}
	switch {
	case gs.Layout.IsWall(p):
		return '%'
	case gs.food[gs.Layout.index(p)]:
		return '.'
	case utils.Contains(gs.capsules, p):
		return 'o'
	}
	return ' '
}
