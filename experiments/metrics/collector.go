package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth       int
	Evaluator   string
	Duration    time.Duration
	Expansions  int // Successor states generated
	Evaluations int // Calls to the evaluation function
	Score       float64
}

type MoveMetric struct {
	Step   int
	Agent  int // Agent index
	Action string
	SearchMetric
}

type GameMetric struct {
	Layout     string
	Score      float64
	Win        bool
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

// Collector records the work done by a single search. A new collector is used
// for every search so that searches stay independent.
type Collector interface {
	Start(depth int, evaluator string)
	AddExpansion()
	AddEvaluation()
	Complete(score float64) SearchMetric
}

type collector struct {
	depth       int
	evaluator   string
	startTime   time.Time
	expansions  atomic.Int64
	evaluations atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(depth int, evaluator string) {
	m.startTime = time.Now()
	m.depth = depth
	m.evaluator = evaluator
}

func (m *collector) AddExpansion() {
	m.expansions.Add(1)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) Complete(score float64) SearchMetric {
	return SearchMetric{
		Depth:       m.depth,
		Evaluator:   m.evaluator,
		Duration:    time.Since(m.startTime),
		Expansions:  int(m.expansions.Load()),
		Evaluations: int(m.evaluations.Load()),
		Score:       score,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth int, evaluator string)   {}
func (m *dummyCollector) AddExpansion()                       {}
func (m *dummyCollector) AddEvaluation()                      {}
func (m *dummyCollector) Complete(score float64) SearchMetric { return SearchMetric{} }
