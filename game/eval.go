package game

import (
	"fmt"
	"math"
)

// Weights of the composite evaluation.
const (
	FoodWeight          = 10.0 // Scales 1/(d+1) to the nearest food
	FoodCountWeight     = 4.0  // Penalty per remaining food
	DangerRadius        = 5    // Dangerous ghosts further than this are ignored
	GhostDangerWeight   = 20.0 // Scales -1/g for a nearby dangerous ghost
	ScaredGhostWeight   = 50.0 // Scales 1/g for a scared ghost
	ScaredUrgencyTime   = 10   // Scared timers below this earn the urgency bonus
	ScaredUrgencyWeight = 25.0 // Scales 1/g for a scared ghost about to recover
	CapsuleWeight       = 20.0 // Scales 1/(c+1) to the nearest capsule
)

// EvaluatorKind names an evaluation function so that it can be picked from
// configuration.
type EvaluatorKind string

const (
	ScoreEvaluator     EvaluatorKind = "score"
	CompositeEvaluator EvaluatorKind = "composite"
)

// Func returns the evaluation function of the kind.
func (k EvaluatorKind) Func() (Evaluate, error) {
	switch k {
	case ScoreEvaluator:
		return EvaluateScore, nil
	case CompositeEvaluator, "":
		return EvaluateComposite, nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q", string(k))
	}
}

// EvaluateScore returns the game score only. It is the baseline the composite
// evaluation is compared against.
func EvaluateScore(s State) float64 {
	return s.Score()
}

// EvaluateComposite adds to the game score terms for the nearest food, the
// remaining food, every ghost and the nearest capsule. A dangerous ghost on
// Pacman's cell yields math.Inf(-1), which no other term can offset.
func EvaluateComposite(s State) float64 {
	pacman := s.PacmanPosition()
	return s.Score() + foodScore(pacman, s.Food()) + ghostScore(pacman, s.Ghosts()) + capsuleScore(pacman, s.Capsules())
}

func foodScore(pacman Position, food []Position) float64 {
	if len(food) == 0 {
		return 0
	}
	d := nearest(pacman, food)
	return FoodWeight/float64(d+1) - FoodCountWeight*float64(len(food))
}

func ghostScore(pacman Position, ghosts []GhostState) float64 {
	score := 0.0
	for _, g := range ghosts {
		d := ManhattanDistance(pacman, g.Position)
		if g.ScaredTimer == 0 {
			if d == 0 {
				return math.Inf(-1)
			}
			if d <= DangerRadius {
				score -= GhostDangerWeight / float64(d)
			}
			continue
		}

		// A scared ghost on Pacman's cell is about to be eaten; count it as adjacent
		d = max(d, 1)
		score += ScaredGhostWeight / float64(d)
		if g.ScaredTimer < ScaredUrgencyTime {
			score += ScaredUrgencyWeight / float64(d)
		}
	}
	return score
}

func capsuleScore(pacman Position, capsules []Position) float64 {
	if len(capsules) == 0 {
		return 0
	}
	return CapsuleWeight / float64(nearest(pacman, capsules)+1)
}

// nearest returns the Manhattan distance from p to the closest target.
func nearest(p Position, targets []Position) int {
	minDistance := math.MaxInt
	for _, t := range targets {
		if d := ManhattanDistance(p, t); d < minDistance {
			minDistance = d
		}
	}
	return minDistance
}
