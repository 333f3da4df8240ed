package tournament

import (
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"
	"golang.org/x/exp/maps"
)

// Summarize aggregates a round's games per strategy: solve rate,
// mean/median/max guesses, timeout count, and the guess-count histogram
// (buckets "1".."maxGuesses" plus "failed").
func Summarize(games []GameResult, maxGuesses int) []StrategySummary {
	byStrategy := make(map[string][]GameResult)
	for _, g := range games {
		byStrategy[g.Strategy] = append(byStrategy[g.Strategy], g)
	}

	names := maps.Keys(byStrategy)
	sort.Strings(names)

	summaries := make([]StrategySummary, 0, len(names))
	for _, name := range names {
		results := byStrategy[name]
		n := len(results)

		solved, timeouts := 0, 0
		guesses := make([]float64, n)
		dist := make(map[string]int)
		for i, r := range results {
			guesses[i] = float64(r.NumGuesses)
			if r.Solved {
				solved++
				dist[strconv.Itoa(r.NumGuesses)]++
			} else {
				dist["failed"]++
			}
			if r.TimedOut {
				timeouts++
			}
		}

		mean, _ := stats.Mean(guesses)
		median, _ := stats.Median(guesses)
		max, _ := stats.Max(guesses)

		summaries = append(summaries, StrategySummary{
			Name:              name,
			GamesPlayed:       n,
			GamesSolved:       solved,
			SolveRate:         float64(solved) / float64(n),
			MeanGuesses:       mean,
			MedianGuesses:     median,
			MaxGuesses:        int(max),
			TimedOut:          timeouts,
			GuessDistribution: dist,
		})
	}
	return summaries
}

// Leaderboard scores every round by rank-on-mean-guesses and sums points
// across rounds and repetitions. Within a round of N strategies, 1st
// place earns N points down to 1 for last; a tied block shares the
// arithmetic mean of the point values it spans, so every round always
// pays out N*(N+1)/2 points in total.
func Leaderboard(rounds []Round) []LeaderboardEntry {
	totalPoints := make(map[string]float64)
	roundPoints := make(map[string]map[string]float64)
	solveRates := make(map[string][]float64)
	meanGuesses := make(map[string][]float64)

	for _, round := range rounds {
		n := len(round.Strategies)
		ranked := make([]StrategySummary, n)
		copy(ranked, round.Strategies)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].MeanGuesses < ranked[j].MeanGuesses
		})

		i := 0
		for i < n {
			j := i
			for j < n && ranked[j].MeanGuesses == ranked[i].MeanGuesses {
				j++
			}
			// Positions i..j-1 are tied and split their block's points.
			blockSum := 0.0
			for k := i; k < j; k++ {
				blockSum += float64(n - k)
			}
			avg := blockSum / float64(j-i)
			for k := i; k < j; k++ {
				name := ranked[k].Name
				totalPoints[name] += avg
				if roundPoints[name] == nil {
					roundPoints[name] = make(map[string]float64)
				}
				roundPoints[name][round.RoundID] = avg
			}
			i = j
		}

		for _, s := range round.Strategies {
			solveRates[s.Name] = append(solveRates[s.Name], s.SolveRate)
			meanGuesses[s.Name] = append(meanGuesses[s.Name], s.MeanGuesses)
		}
	}

	entries := make([]LeaderboardEntry, 0, len(totalPoints))
	for _, name := range sortedKeys(totalPoints) {
		overallRate, _ := stats.Mean(solveRates[name])
		overallMean, _ := stats.Mean(meanGuesses[name])
		entries = append(entries, LeaderboardEntry{
			Strategy:           name,
			TotalPoints:        totalPoints[name],
			RoundPoints:        roundPoints[name],
			OverallSolveRate:   overallRate,
			OverallMeanGuesses: overallMean,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].Strategy < entries[j].Strategy
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func sortedKeys(m map[string]float64) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
