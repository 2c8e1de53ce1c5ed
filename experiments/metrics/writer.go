package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type PlayerConfig struct {
	ID   int
	Kind string
	Seed uint64
}

type GameRecord struct {
	ID    int
	White int // PlayerConfig.ID
	Black int // PlayerConfig.ID
	Err   string
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named after the experiment and the
// current timestamp.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string { return w.baseDir }

// writeCSV creates a file in the writer's folder holding header and rows.
func (w *Writer) writeCSV(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}

func (w *Writer) WritePlayerConfigs(configs []PlayerConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return w.writeCSV("player_configs.csv", []string{"id", "kind", "seed"}, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "white", "black", "game_type", "result", "turns", "start_time", "end_time", "duration", "hash", "game_string", "error"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.White),
			strconv.Itoa(record.Black),
			record.GameType.String(),
			record.Result.String(),
			strconv.Itoa(record.TotalTurns),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			fmt.Sprintf("%016x", uint64(record.Hash)),
			record.GameString,
			record.Err,
		})
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "action", "legal", "pinned", "duration", "evaluation"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			record.Action,
			strconv.Itoa(record.Legal),
			strconv.Itoa(record.Pinned),
			record.Duration.String(),
			strconv.FormatFloat(record.Evaluation, 'f', 4, 64),
		})
	}
	return w.writeCSV("move_records.csv", header, rows)
}

type ThroughputRecord struct {
	Goroutines int
	Games      int
	Turns      int
	Duration   time.Duration
}

func (r ThroughputRecord) GamesPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Games) / r.Duration.Seconds()
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	header := []string{"goroutines", "games", "turns", "duration", "games_per_second"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Goroutines),
			strconv.Itoa(record.Games),
			strconv.Itoa(record.Turns),
			record.Duration.String(),
			strconv.FormatFloat(record.GamesPerSecond(), 'f', 2, 64),
		})
	}
	return w.writeCSV("throughput.csv", header, rows)
}
