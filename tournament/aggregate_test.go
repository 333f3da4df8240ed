package tournament

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	games := []GameResult{
		{Strategy: "Alpha", Secret: "abcd", NumGuesses: 2, Solved: true},
		{Strategy: "Alpha", Secret: "dcba", NumGuesses: 4, Solved: true},
		{Strategy: "Alpha", Secret: "aabb", NumGuesses: 7, Solved: false, TimedOut: true},
		{Strategy: "Beta", Secret: "abcd", NumGuesses: 3, Solved: true},
	}

	summaries := Summarize(games, 6)
	require.Len(t, summaries, 2)
	require.Equal(t, "Alpha", summaries[0].Name, "summaries must come out in name order")
	require.Equal(t, "Beta", summaries[1].Name)

	alpha := summaries[0]
	require.Equal(t, 3, alpha.GamesPlayed)
	require.Equal(t, 2, alpha.GamesSolved)
	require.InDelta(t, 2.0/3.0, alpha.SolveRate, 1e-12)
	require.InDelta(t, 13.0/3.0, alpha.MeanGuesses, 1e-12)
	require.InDelta(t, 4.0, alpha.MedianGuesses, 1e-12)
	require.Equal(t, 7, alpha.MaxGuesses)
	require.Equal(t, 1, alpha.TimedOut)
	require.Equal(t, map[string]int{"2": 1, "4": 1, "failed": 1}, alpha.GuessDistribution)

	beta := summaries[1]
	require.Equal(t, 1, beta.GamesPlayed)
	require.InDelta(t, 1.0, beta.SolveRate, 1e-12)
	require.Equal(t, map[string]int{"3": 1}, beta.GuessDistribution)
}

func summaryWithMean(name string, mean float64) StrategySummary {
	return StrategySummary{Name: name, MeanGuesses: mean, SolveRate: 1.0}
}

func TestLeaderboardPointsByRank(t *testing.T) {
	round := Round{
		RoundID: "5_uniform",
		Strategies: []StrategySummary{
			summaryWithMean("Slow", 5.0),
			summaryWithMean("Fast", 3.0),
			summaryWithMean("Mid", 4.0),
		},
	}

	entries := Leaderboard([]Round{round})
	require.Len(t, entries, 3)

	require.Equal(t, "Fast", entries[0].Strategy)
	require.Equal(t, 1, entries[0].Rank)
	require.InDelta(t, 3.0, entries[0].TotalPoints, 1e-12)
	require.Equal(t, "Mid", entries[1].Strategy)
	require.InDelta(t, 2.0, entries[1].TotalPoints, 1e-12)
	require.Equal(t, "Slow", entries[2].Strategy)
	require.InDelta(t, 1.0, entries[2].TotalPoints, 1e-12)
}

func TestLeaderboardTiedBlockSharesPoints(t *testing.T) {
	// Two strategies tied for first in a field of five: the 5 and 4
	// point slots are averaged to 4.5 each.
	round := Round{
		RoundID: "5_frequency",
		Strategies: []StrategySummary{
			summaryWithMean("TiedA", 3.0),
			summaryWithMean("TiedB", 3.0),
			summaryWithMean("Third", 3.5),
			summaryWithMean("Fourth", 4.0),
			summaryWithMean("Fifth", 5.0),
		},
	}

	entries := Leaderboard([]Round{round})
	require.Len(t, entries, 5)

	byName := make(map[string]LeaderboardEntry)
	total := 0.0
	for _, e := range entries {
		byName[e.Strategy] = e
		total += e.TotalPoints
	}
	require.InDelta(t, 4.5, byName["TiedA"].TotalPoints, 1e-12)
	require.InDelta(t, 4.5, byName["TiedB"].TotalPoints, 1e-12)
	require.InDelta(t, 3.0, byName["Third"].TotalPoints, 1e-12)
	require.InDelta(t, 2.0, byName["Fourth"].TotalPoints, 1e-12)
	require.InDelta(t, 1.0, byName["Fifth"].TotalPoints, 1e-12)
	// The round payout is invariant under ties.
	require.InDelta(t, 15.0, total, 1e-12)

	// Total-points ties break alphabetically, then ranks are positional.
	require.Equal(t, "TiedA", entries[0].Strategy)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "TiedB", entries[1].Strategy)
	require.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardSumsAcrossRounds(t *testing.T) {
	rounds := []Round{
		{
			RoundID: "4_uniform",
			Strategies: []StrategySummary{
				summaryWithMean("A", 3.0),
				summaryWithMean("B", 4.0),
			},
		},
		{
			RoundID: "5_uniform",
			Strategies: []StrategySummary{
				summaryWithMean("A", 4.5),
				summaryWithMean("B", 3.5),
			},
		},
	}

	entries := Leaderboard(rounds)
	require.Len(t, entries, 2)

	byName := make(map[string]LeaderboardEntry)
	for _, e := range entries {
		byName[e.Strategy] = e
	}
	require.InDelta(t, 3.0, byName["A"].TotalPoints, 1e-12)
	require.InDelta(t, 3.0, byName["B"].TotalPoints, 1e-12)
	require.InDelta(t, 2.0, byName["A"].RoundPoints["4_uniform"], 1e-12)
	require.InDelta(t, 1.0, byName["A"].RoundPoints["5_uniform"], 1e-12)
	require.InDelta(t, 3.75, byName["A"].OverallMeanGuesses, 1e-12)
}
