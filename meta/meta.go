// meta/meta.go
package meta

// DEPTH defines the number of plies minimax searches by default.
const DEPTH = 2

// MAX_MOVES defines the number of agent moves after which a game is stopped.
const MAX_MOVES = 1000

// NUM_GAMES defines the number of games an experiment plays by default.
const NUM_GAMES = 10

// GO_ROUTINES defines the number of games played in parallel.
const GO_ROUTINES = 8

// TRAINING_EPISODES defines the number of training games for learning agents.
const TRAINING_EPISODES = 100
