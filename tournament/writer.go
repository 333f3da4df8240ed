package tournament

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Writer persists one run's artifacts under a per-run directory:
// results/<out>/runs/<run_id>/{games.csv,tournament.json}, plus a
// latest.json copy at the results root for the reporting layer.
type Writer struct {
	resultsDir string
	runDir     string
}

func NewWriter(resultsDir, runID string) (*Writer, error) {
	runDir := filepath.Join(resultsDir, "runs", runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &Writer{resultsDir: resultsDir, runDir: runDir}, nil
}

func (w *Writer) RunDir() string {
	return w.runDir
}

// WriteGames writes the raw per-game rows as CSV.
func (w *Writer) WriteGames(games []GameResult) error {
	path := filepath.Join(w.runDir, "games.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create games file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"strategy", "secret", "num_guesses", "solved", "timed_out"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write games header: %w", err)
	}
	for _, g := range games {
		row := []string{
			g.Strategy,
			g.Secret,
			strconv.Itoa(g.NumGuesses),
			strconv.FormatBool(g.Solved),
			strconv.FormatBool(g.TimedOut),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write game row: %w", err)
		}
	}
	return nil
}

// WriteReport writes the tournament JSON document and refreshes
// latest.json at the results root.
func (w *Writer) WriteReport(report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	path := filepath.Join(w.runDir, "tournament.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	latest := filepath.Join(w.resultsDir, "latest.json")
	if err := os.WriteFile(latest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write latest report: %w", err)
	}
	return nil
}
