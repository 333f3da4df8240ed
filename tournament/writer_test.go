package tournament

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sonder-art/rtorneo-wordle-p26/config"
)

func TestWriterGamesCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "20260115_120000")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "runs", "20260115_120000"), w.RunDir())

	games := []GameResult{
		{Strategy: "MaxProb", Secret: "abcd", NumGuesses: 2, Solved: true},
		{Strategy: "MaxProb", Secret: "aabb", NumGuesses: 7, TimedOut: true},
	}
	require.NoError(t, w.WriteGames(games))

	f, err := os.Open(filepath.Join(w.RunDir(), "games.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"strategy", "secret", "num_guesses", "solved", "timed_out"},
		{"MaxProb", "abcd", "2", "true", "false"},
		{"MaxProb", "aabb", "7", "false", "true"},
	}, rows)
}

func TestWriterReportAndLatest(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "run1")
	require.NoError(t, err)

	report := &Report{
		TournamentID: "t-1",
		RunID:        "run1",
		Timestamp:    time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Config:       config.Default(),
		Rounds: []Round{{
			RoundID:    "4_uniform",
			WordLength: 4,
			Mode:       "uniform",
		}},
		Games: []GameResult{{Strategy: "MaxProb", Secret: "abcd"}},
	}
	require.NoError(t, w.WriteReport(report))

	for _, path := range []string{
		filepath.Join(w.RunDir(), "tournament.json"),
		filepath.Join(dir, "latest.json"),
	} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got Report
		require.NoError(t, json.Unmarshal(data, &got))
		require.Equal(t, "t-1", got.TournamentID)
		require.Len(t, got.Rounds, 1)
		require.Empty(t, got.Games, "raw games belong to the CSV, not the JSON document")
	}
}
