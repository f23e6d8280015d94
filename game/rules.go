package game

// Rules holds the scoring and timing constants of a game.
type Rules interface {
	TimePenalty() float64
	FoodReward() float64
	WinReward() float64
	GhostReward() float64
	LosePenalty() float64
	ScaredTime() int
}
