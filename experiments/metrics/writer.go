package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

type AgentConfig struct {
	ID        int    `yaml:"id"`
	Kind      string `yaml:"kind"`
	Depth     int    `yaml:"depth"`
	Evaluator string `yaml:"evaluator"`
	Episodes  int    `yaml:"episodes"` // Training games of learning agents
}

type GameRecord struct {
	ID     string // Unique across experiments
	Agent  int    // AgentConfig.ID of Pacman
	Ghosts string // Kind of the ghost agents
	Seed   uint64
	GameMetric
}

type MoveRecord struct {
	Game string // GameRecord.ID
	MoveMetric
}

type AgentSummary struct {
	Agent    int
	Games    int
	Wins     int
	AvgScore float64
	AvgMoves float64
}

type Writer struct {
	baseDir string
}

func NewWriter(outputDir, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(outputDir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Depth),
			config.Evaluator,
			strconv.Itoa(config.Episodes),
		})
	}
	return w.write("agent_configs.csv", []string{"id", "kind", "depth", "evaluator", "episodes"}, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.ID,
			strconv.Itoa(record.Agent),
			record.Ghosts,
			strconv.FormatUint(record.Seed, 10),
			record.Layout,
			formatFloat(record.Score),
			strconv.FormatBool(record.Win),
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	header := []string{"id", "agent", "ghosts", "seed", "layout", "score", "win", "moves", "start_time", "end_time", "duration"}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Game,
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Agent),
			record.Action,
			strconv.Itoa(record.Depth),
			record.Evaluator,
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.Evaluations),
			formatFloat(record.Score),
			record.Duration.String(),
		})
	}
	header := []string{"game", "step", "agent", "action", "depth", "evaluator", "expansions", "evaluations", "score", "duration"}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(filename string, header []string, rows [][]string) error {
	// Create a file
	path := filepath.Join(w.baseDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", filename, err)
	}

	// Write each row
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", filename, err)
	}

	return nil
}

// Summarize groups game records by agent, ordered by agent ID.
func Summarize(records []GameRecord) []AgentSummary {
	byAgent := map[int]*AgentSummary{}
	for _, record := range records {
		s, ok := byAgent[record.Agent]
		if !ok {
			s = &AgentSummary{Agent: record.Agent}
			byAgent[record.Agent] = s
		}
		s.Games++
		if record.Win {
			s.Wins++
		}
		s.AvgScore += record.Score
		s.AvgMoves += float64(record.TotalMoves)
	}

	summaries := make([]AgentSummary, 0, len(byAgent))
	for _, s := range byAgent {
		s.AvgScore /= float64(s.Games)
		s.AvgMoves /= float64(s.Games)
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Agent < summaries[j].Agent
	})
	return summaries
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
