package game

type StandardRules struct {
	FoodScore     float64
	WinScore      float64
	GhostScore    float64
	LoseScore     float64
	TimeCost      float64
	ScaredTimeout int
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		FoodScore:     10,
		WinScore:      500,
		GhostScore:    200,
		LoseScore:     500,
		TimeCost:      1,
		ScaredTimeout: 40,
	}
}

func (sr *StandardRules) TimePenalty() float64 {
	return sr.TimeCost
}

func (sr *StandardRules) FoodReward() float64 {
	return sr.FoodScore
}

func (sr *StandardRules) WinReward() float64 {
	return sr.WinScore
}

func (sr *StandardRules) GhostReward() float64 {
	return sr.GhostScore
}

func (sr *StandardRules) LosePenalty() float64 {
	return sr.LoseScore
}

func (sr *StandardRules) ScaredTime() int {
	return sr.ScaredTimeout
}
