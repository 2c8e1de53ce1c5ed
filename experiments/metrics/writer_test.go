package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hive/game"

	"github.com/stretchr/testify/require"
)

/*
Test cases:
- game records are written with a header row
- move records carry the action and evaluation
- the collector measures one move
*/

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "selfplay")
	require.NoError(t, err)

	t.Run("game records", func(t *testing.T) {
		start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		err := w.WriteGameRecords([]GameRecord{{
			ID:    1,
			White: 1,
			Black: 2,
			GameMetric: GameMetric{
				GameType:   game.BaseMLP,
				Result:     game.Draw,
				StartTime:  start,
				EndTime:    start.Add(time.Second),
				Duration:   time.Second,
				TotalTurns: 2,
				GameString: "wQ .;bQ wQ-",
				Hash:       0xbeef,
			},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, "id", rows[0][0])
		require.Equal(t, []string{"1", "1", "2", "Base+MLP", "Draw", "2"}, rows[1][:6])
		require.Equal(t, "000000000000beef", rows[1][9])
		require.Equal(t, "wQ .;bQ wQ-", rows[1][10])
	})

	t.Run("move records", func(t *testing.T) {
		err := w.WriteMoveRecords([]MoveRecord{{
			Game: 1,
			MoveMetric: MoveMetric{
				Step:       0,
				Player:     game.White,
				Action:     game.PlaceOf(game.MustParsePiece("wQ"), game.Origin).String(),
				Legal:      5,
				Evaluation: 0.5,
			},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"1", "0", "White", "place wQ at (0,0)", "5", "0"}, rows[1][:6])
		require.Equal(t, "0.5000", rows[1][7])
	})

	t.Run("player configs", func(t *testing.T) {
		require.NoError(t, w.WritePlayerConfigs([]PlayerConfig{{ID: 1, Kind: "random", Seed: 42}}))
		rows := readCSV(t, filepath.Join(w.Dir(), "player_configs.csv"))
		require.Equal(t, [][]string{{"id", "kind", "seed"}, {"1", "random", "42"}}, rows)
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(3, game.Black)
	c.SetLegal(12, 2)
	m := c.Complete(game.PassOf(), -0.25)

	require.Equal(t, 3, m.Step)
	require.Equal(t, game.Black, m.Player)
	require.Equal(t, "pass", m.Action)
	require.Equal(t, 12, m.Legal)
	require.Equal(t, 2, m.Pinned)
	require.GreaterOrEqual(t, m.Duration, time.Duration(0))

	require.Equal(t, MoveMetric{}, NewDummyCollector().Complete(game.PassOf(), 1))
}
