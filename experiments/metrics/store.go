package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	experiment TEXT,
	agent INTEGER,
	ghosts TEXT,
	seed INTEGER,
	layout TEXT,
	score REAL,
	win INTEGER,
	moves INTEGER,
	started_at DATETIME,
	ended_at DATETIME,
	duration_ns INTEGER
);
CREATE TABLE IF NOT EXISTS moves (
	game TEXT REFERENCES games(id),
	step INTEGER,
	agent INTEGER,
	action TEXT,
	depth INTEGER,
	evaluator TEXT,
	expansions INTEGER,
	evaluations INTEGER,
	score REAL,
	duration_ns INTEGER,
	PRIMARY KEY (game, step)
);
`

// Store keeps experiment records in a SQLite database.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRecords inserts the games and moves of an experiment in one transaction.
func (s *Store) SaveRecords(ctx context.Context, experiment string, games []GameRecord, moves []MoveRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, g := range games {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO games (id, experiment, agent, ghosts, seed, layout, score, win, moves, started_at, ended_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, experiment, g.Agent, g.Ghosts, int64(g.Seed), g.Layout, finite(g.Score), g.Win, g.TotalMoves,
			g.StartTime, g.EndTime, g.Duration.Nanoseconds(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert game %s: %w", g.ID, err)
		}
	}

	for _, m := range moves {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO moves (game, step, agent, action, depth, evaluator, expansions, evaluations, score, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.Game, m.Step, m.Agent, m.Action, m.Depth, m.Evaluator, m.Expansions, m.Evaluations, finite(m.Score),
			m.Duration.Nanoseconds(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert move %d of game %s: %w", m.Step, m.Game, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// Summaries returns per agent results of an experiment, ordered by agent ID.
func (s *Store) Summaries(ctx context.Context, experiment string) ([]AgentSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT agent, COUNT(*), SUM(win), AVG(score), AVG(moves)
	FROM games
	WHERE experiment = ?
	GROUP BY agent
	ORDER BY agent`, experiment)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	summaries := []AgentSummary{}
	for rows.Next() {
		var s AgentSummary
		var avgScore sql.NullFloat64
		if err := rows.Scan(&s.Agent, &s.Games, &s.Wins, &avgScore, &s.AvgMoves); err != nil {
			return nil, fmt.Errorf("failed to read summary: %w", err)
		}
		s.AvgScore = avgScore.Float64
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// finite stores infinite scores as NULL.
func finite(f float64) sql.NullFloat64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
