package experiments

import (
	"errors"
	"fmt"
	"os"
	"pacman/agent"
	"pacman/experiments/metrics"
	"pacman/game"
	"pacman/meta"

	"gopkg.in/yaml.v3"
)

var ErrInvalidPlan = errors.New("invalid experiment plan")

// Plan describes an experiment: every agent plays Games games on Layout
// against ghosts of kind Ghosts.
type Plan struct {
	Name     string                `yaml:"name"`
	Layout   string                `yaml:"layout"`
	Games    int                   `yaml:"games"` // Per agent
	MaxMoves int                   `yaml:"maxMoves"`
	Parallel int                   `yaml:"parallel"`
	Seed     uint64                `yaml:"seed"`
	Ghosts   agent.Kind            `yaml:"ghosts"`
	Agents   []metrics.AgentConfig `yaml:"agents"`
	Output   string                `yaml:"output"` // Directory of the CSV files
	SQLite   string                `yaml:"sqlite"` // Optional database path
}

func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan reads a YAML plan, fills in defaults and validates it.
func ParsePlan(data []byte) (*Plan, error) {
	plan := &Plan{}
	if err := yaml.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	plan.setDefaults()
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *Plan) setDefaults() {
	if p.Layout == "" {
		p.Layout = "small"
	}
	if p.Games == 0 {
		p.Games = meta.NUM_GAMES
	}
	if p.MaxMoves == 0 {
		p.MaxMoves = meta.MAX_MOVES
	}
	if p.Parallel == 0 {
		p.Parallel = meta.GO_ROUTINES
	}
	if p.Ghosts == "" {
		p.Ghosts = agent.Random
	}
	if p.Output == "" {
		p.Output = "experiments"
	}
	for i := range p.Agents {
		if p.Agents[i].Evaluator == "" {
			p.Agents[i].Evaluator = string(game.CompositeEvaluator)
		}
		if p.Agents[i].Kind == string(agent.QLearning) && p.Agents[i].Episodes == 0 {
			p.Agents[i].Episodes = meta.TRAINING_EPISODES
		}
	}
}

func (p *Plan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPlan)
	}
	if _, err := game.GetLayout(p.Layout); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if p.Games < 1 || p.MaxMoves < 1 || p.Parallel < 1 {
		return fmt.Errorf("%w: games, maxMoves and parallel must be positive", ErrInvalidPlan)
	}
	if p.Ghosts != agent.Random && p.Ghosts != agent.Directional {
		return fmt.Errorf("%w: ghosts must be %s or %s, got %q", ErrInvalidPlan, agent.Random, agent.Directional, p.Ghosts)
	}
	if len(p.Agents) == 0 {
		return fmt.Errorf("%w: no agents", ErrInvalidPlan)
	}

	ids := map[int]bool{}
	for _, config := range p.Agents {
		if ids[config.ID] {
			return fmt.Errorf("%w: duplicate agent id %d", ErrInvalidPlan, config.ID)
		}
		ids[config.ID] = true
		if config.Kind == string(agent.Directional) {
			return fmt.Errorf("%w: agent %d: %s can only control ghosts", ErrInvalidPlan, config.ID, config.Kind)
		}
		if _, err := agent.New(agentConfig(config), 0); err != nil {
			return fmt.Errorf("%w: agent %d: %v", ErrInvalidPlan, config.ID, err)
		}
	}
	return nil
}

func agentConfig(config metrics.AgentConfig) agent.Config {
	return agent.Config{
		Kind:      agent.Kind(config.Kind),
		Depth:     config.Depth,
		Evaluator: game.EvaluatorKind(config.Evaluator),
	}
}
