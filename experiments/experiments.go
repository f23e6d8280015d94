package experiments

import (
	"context"
	"fmt"
	"io"
	"os"
	"pacman/agent"
	"pacman/engine"
	"pacman/experiments/metrics"
	"pacman/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Option func(r *runner)

// WithProgress sets where the progress bar is drawn.
func WithProgress(w io.Writer) Option {
	return func(r *runner) {
		r.progress = w
	}
}

type Result struct {
	Dir       string // Directory of the CSV files
	Games     []metrics.GameRecord
	Moves     []metrics.MoveRecord
	Summaries []metrics.AgentSummary
}

type runner struct {
	plan     *Plan
	layout   *game.Layout
	rules    game.Rules
	learners map[int]*agent.QLearningAgent // Trained agents by AgentConfig.ID
	progress io.Writer
}

type job struct {
	config metrics.AgentConfig
	seed   uint64
}

// Run plays every game of plan, writes the records and returns them.
func Run(ctx context.Context, plan *Plan, options ...Option) (*Result, error) {
	layout, err := game.GetLayout(plan.Layout)
	if err != nil {
		return nil, err
	}
	r := &runner{
		plan:     plan,
		layout:   layout,
		rules:    game.NewStandardRules(),
		learners: map[int]*agent.QLearningAgent{},
		progress: os.Stderr,
	}
	for _, option := range options {
		option(r)
	}

	log.Info().Msgf("starting %s experiment on %s with %d agents...", plan.Name, plan.Layout, len(plan.Agents))

	if err := r.train(); err != nil {
		return nil, err
	}

	jobs := []job{}
	for _, config := range plan.Agents {
		for i := 0; i < plan.Games; i++ {
			jobs = append(jobs, job{config: config, seed: plan.Seed + uint64(len(jobs))})
		}
	}

	games := make([]metrics.GameRecord, len(jobs))
	moves := make([][]metrics.MoveRecord, len(jobs))
	bar := newBar(r.progress, len(jobs), plan.Name)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(plan.Parallel)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			record, moveRecords, err := r.runGame(j)
			if err != nil {
				return fmt.Errorf("game %d of agent %d: %w", i+1, j.config.ID, err)
			}
			games[i] = record
			moves[i] = moveRecords
			bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	bar.Finish()

	result := &Result{Games: games, Summaries: metrics.Summarize(games)}
	for _, m := range moves {
		result.Moves = append(result.Moves, m...)
	}

	log.Info().Msgf("completed %s experiment", plan.Name)
	for _, s := range result.Summaries {
		log.Info().
			Int("agent", s.Agent).
			Int("games", s.Games).
			Int("wins", s.Wins).
			Float64("avg_score", s.AvgScore).
			Float64("avg_moves", s.AvgMoves).
			Msg("agent summary")
	}

	if err := r.store(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// train prepares every learning agent before any game is played.
func (r *runner) train() error {
	for _, config := range r.plan.Agents {
		if config.Kind != string(agent.QLearning) {
			continue
		}
		log.Info().Msgf("training agent %d for %d episodes...", config.ID, config.Episodes)

		learner := agent.NewQLearningAgent(agent.WithSeed(r.plan.Seed + uint64(config.ID)))
		ghosts, err := r.createGhosts(r.plan.Seed + uint64(config.ID))
		if err != nil {
			return err
		}
		trainer := engine.NewTrainer(r.layout, r.rules, learner, ghosts)
		if _, err := trainer.Train(config.Episodes); err != nil {
			return fmt.Errorf("failed to train agent %d: %w", config.ID, err)
		}
		learner.SetEpsilon(0)
		r.learners[config.ID] = learner
	}
	return nil
}

// runGame plays a single game of the agent in j against the plan's ghosts.
func (r *runner) runGame(j job) (metrics.GameRecord, []metrics.MoveRecord, error) {
	pacman, err := r.createPacman(j)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	ghosts, err := r.createGhosts(j.seed)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	e := engine.LocalEngine(r.layout, append([]agent.Agent{pacman}, ghosts...), r.rules, engine.WithMaxMoves(r.plan.MaxMoves))
	gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	record := metrics.GameRecord{
		ID:         uuid.NewString(),
		Agent:      j.config.ID,
		Ghosts:     string(r.plan.Ghosts),
		Seed:       j.seed,
		GameMetric: gameMetric,
	}
	moveRecords := make([]metrics.MoveRecord, len(moveMetrics))
	for i, mm := range moveMetrics {
		moveRecords[i] = metrics.MoveRecord{Game: record.ID, MoveMetric: mm}
	}
	log.Debug().Msgf("completed game %s of agent %d with score %.0f", record.ID, j.config.ID, record.Score)

	return record, moveRecords, nil
}

func (r *runner) createPacman(j job) (agent.Agent, error) {
	if learner, ok := r.learners[j.config.ID]; ok {
		return learner, nil
	}
	return agent.New(agentConfig(j.config), j.seed)
}

func (r *runner) createGhosts(seed uint64) ([]agent.Agent, error) {
	ghosts := make([]agent.Agent, r.layout.NumGhosts())
	for i := range ghosts {
		ghost, err := agent.New(agent.Config{Kind: r.plan.Ghosts}, seed*31+uint64(i+1))
		if err != nil {
			return nil, err
		}
		ghosts[i] = ghost
	}
	return ghosts, nil
}

// store writes the records as CSV files and, if configured, into SQLite.
func (r *runner) store(ctx context.Context, result *Result) error {
	writer, err := metrics.NewWriter(r.plan.Output, r.plan.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	result.Dir = writer.Dir()

	err = writer.WriteAgentConfigs(r.plan.Agents)
	if err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	err = writer.WriteGameRecords(result.Games)
	if err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(result.Moves)
	if err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	if r.plan.SQLite == "" {
		return nil
	}
	store, err := metrics.OpenStore(r.plan.SQLite)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveRecords(ctx, r.plan.Name, result.Games, result.Moves); err != nil {
		return err
	}
	log.Info().Msgf("stored records in %s", r.plan.SQLite)
	return nil
}
