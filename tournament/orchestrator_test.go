package tournament

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sonder-art/rtorneo-wordle-p26/config"
	"github.com/sonder-art/rtorneo-wordle-p26/lexicon"
)

func testLoader(t *testing.T) LexiconLoader {
	t.Helper()
	counts := map[string]int{"aabb": 1000, "abab": 120, "abcd": 40, "dcba": 7}
	return func(wordLength int, mode string) (*lexicon.Lexicon, error) {
		require.Equal(t, 4, wordLength)
		return lexicon.New(testVocab, counts, mode)
	}
}

func testRun() config.Run {
	run := config.Default()
	run.WordLength = 4
	run.Strategies = []string{"MaxProb", "Random"}
	run.Workers = 2
	return run
}

func TestOrchestratorRunSingleRound(t *testing.T) {
	o := New(testRun(), testLoader(t), WithRunner(InProcessRunner{}))

	report, err := o.Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, report.TournamentID)
	require.NotEmpty(t, report.RunID)
	require.Len(t, report.Rounds, 1)

	round := report.Rounds[0]
	require.Equal(t, "4_uniform", round.RoundID)
	require.Equal(t, len(testVocab), round.NumGames, "num_games 0 plays the whole vocabulary")
	require.Len(t, round.Strategies, 2)
	for _, s := range round.Strategies {
		require.Equal(t, len(testVocab), s.GamesPlayed)
		require.InDelta(t, 1.0, s.SolveRate, 1e-12,
			"%s must solve every game over a four-word vocabulary", s.Name)
	}

	require.Len(t, report.Leaderboard, 2)
	total := 0.0
	for _, e := range report.Leaderboard {
		total += e.TotalPoints
	}
	require.InDelta(t, 3.0, total, 1e-12)
	require.Len(t, report.Games, 2*len(testVocab))
}

func TestOrchestratorModeBothPlaysTwoRounds(t *testing.T) {
	run := testRun()
	run.Mode = "both"

	o := New(run, testLoader(t), WithRunner(InProcessRunner{}))
	report, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Rounds, 2)
	require.Equal(t, "4_uniform", report.Rounds[0].RoundID)
	require.Equal(t, "4_frequency", report.Rounds[1].RoundID)
}

func TestOrchestratorRepetitionsTagRoundIDs(t *testing.T) {
	run := testRun()
	run.Repetitions = 2

	o := New(run, testLoader(t), WithRunner(InProcessRunner{}))
	report, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Rounds, 2)
	require.Equal(t, "4_uniform_r1", report.Rounds[0].RoundID)
	require.Equal(t, "4_uniform_r2", report.Rounds[1].RoundID)
	require.NotEqual(t, report.Rounds[0].Seed, report.Rounds[1].Seed)
}

func TestOrchestratorSharedSecretsAcrossStrategies(t *testing.T) {
	run := testRun()
	run.NumGames = 2

	o := New(run, testLoader(t), WithRunner(InProcessRunner{}))
	report, err := o.Run(context.Background())
	require.NoError(t, err)

	secrets := make(map[string]map[string]bool)
	for _, g := range report.Games {
		if secrets[g.Strategy] == nil {
			secrets[g.Strategy] = make(map[string]bool)
		}
		secrets[g.Strategy][g.Secret] = true
	}
	require.Equal(t, secrets["MaxProb"], secrets["Random"],
		"every strategy must face the identical secret sample")
	require.Len(t, secrets["MaxProb"], 2)
}

func TestOrchestratorFailedStrategySkipped(t *testing.T) {
	run := testRun()
	run.Strategies = []string{"MaxProb", "no-such-strategy"}

	o := New(run, testLoader(t), WithRunner(InProcessRunner{}))
	report, err := o.Run(context.Background())
	require.NoError(t, err, "one broken strategy must not sink the tournament")

	require.Len(t, report.Rounds[0].Strategies, 1)
	require.Equal(t, "MaxProb", report.Rounds[0].Strategies[0].Name)
}

func TestOrchestratorHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(testRun(), testLoader(t), WithRunner(InProcessRunner{}))
	_, err := o.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSampleSecrets(t *testing.T) {
	words := []string{"aaaa", "bbbb", "cccc", "dddd", "eeee"}

	all := sampleSecrets(words, 0, 1)
	require.Equal(t, words, all)
	all[0] = "mutated"
	require.Equal(t, "aaaa", words[0], "sampling must not alias the lexicon")

	sampled := sampleSecrets(words, 3, 7)
	require.Len(t, sampled, 3)
	require.Subset(t, words, sampled)
	require.Equal(t, sampled, sampleSecrets(words, 3, 7), "the same seed draws the same sample")
}
