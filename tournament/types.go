// Package tournament runs every registered strategy against shared
// secret samples inside resource-isolated worker processes and produces
// a points-based leaderboard.
package tournament

import (
	"time"

	"github.com/sonder-art/rtorneo-wordle-p26/config"
)

// GameResult is the outcome of one game for one strategy.
type GameResult struct {
	Strategy   string `json:"strategy"`
	Secret     string `json:"secret"`
	NumGuesses int    `json:"num_guesses"`
	Solved     bool   `json:"solved"`
	TimedOut   bool   `json:"timed_out"`
}

// StrategySummary aggregates one strategy's games within a round.
type StrategySummary struct {
	Name              string         `json:"name"`
	GamesPlayed       int            `json:"games_played"`
	GamesSolved       int            `json:"games_solved"`
	SolveRate         float64        `json:"solve_rate"`
	MeanGuesses       float64        `json:"mean_guesses"`
	MedianGuesses     float64        `json:"median_guesses"`
	MaxGuesses        int            `json:"max_guesses"`
	TimedOut          int            `json:"timed_out"`
	GuessDistribution map[string]int `json:"guess_distribution"`
}

// Round is the per-round slice of the tournament artifact.
type Round struct {
	RoundID    string            `json:"round_id"`
	WordLength int               `json:"word_length"`
	Mode       string            `json:"mode"`
	Repetition int               `json:"repetition"`
	Seed       int64             `json:"seed"`
	NumGames   int               `json:"num_games"`
	Strategies []StrategySummary `json:"strategies"`
}

// LeaderboardEntry is one strategy's final standing.
type LeaderboardEntry struct {
	Rank               int                `json:"rank"`
	Strategy           string             `json:"strategy"`
	TotalPoints        float64            `json:"total_points"`
	RoundPoints        map[string]float64 `json:"round_points"`
	OverallSolveRate   float64            `json:"overall_solve_rate"`
	OverallMeanGuesses float64            `json:"overall_mean_guesses"`
}

// Report is the complete tournament artifact consumed by the reporting
// layer.
type Report struct {
	TournamentID string             `json:"tournament_id"`
	RunID        string             `json:"run_id"`
	Timestamp    time.Time          `json:"timestamp"`
	Config       config.Run         `json:"config"`
	Rounds       []Round            `json:"rounds"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`

	// Games carries the raw per-game rows for the CSV artifact; the
	// JSON document ships aggregates only.
	Games []GameResult `json:"-"`
}
