package tournament

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
	"github.com/sonder-art/rtorneo-wordle-p26/strategy"
)

var testVocab = []string{"aabb", "abab", "abcd", "dcba"}

// stallStrategy plays like a deterministic first-candidate picker but
// stalls for a full second at the start of its second game. State shared
// with an abandoned game goroutine is atomic only.
type stallStrategy struct {
	games atomic.Int32
}

func (s *stallStrategy) Name() string { return "test-stall" }

func (s *stallStrategy) BeginGame(game.Config) { s.games.Add(1) }

func (s *stallStrategy) Guess(history []game.Turn) string {
	if s.games.Load() == 2 && len(history) == 0 {
		time.Sleep(time.Second)
	}
	candidates := testVocab
	for _, turn := range history {
		candidates = game.FilterCandidates(candidates, turn.Word, turn.Pattern)
	}
	if len(candidates) == 0 {
		return testVocab[0]
	}
	return candidates[0]
}

func (s *stallStrategy) EndGame(string, bool, int) {}

// cheatStrategy guesses a word outside the vocabulary.
type cheatStrategy struct{}

func (cheatStrategy) Name() string              { return "test-cheat" }
func (cheatStrategy) BeginGame(game.Config)     {}
func (cheatStrategy) Guess([]game.Turn) string  { return "zzzz" }
func (cheatStrategy) EndGame(string, bool, int) {}

func init() {
	strategy.Register("test-stall", func() strategy.Strategy { return &stallStrategy{} })
	strategy.Register("test-cheat", func() strategy.Strategy { return cheatStrategy{} })
}

func testJob(strategyName string, secrets []string) Job {
	return Job{
		Strategy:      strategyName,
		Vocabulary:    testVocab,
		Secrets:       secrets,
		WordLength:    4,
		MaxGuesses:    6,
		Mode:          game.ModeUniform,
		Probabilities: game.UniformProbabilities(testVocab),
		GameTimeoutMS: 5000,
	}
}

func TestExecuteJobPlaysEverySecret(t *testing.T) {
	job := testJob("MaxProb", []string{"abcd", "dcba"})

	results, err := ExecuteJob(job)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Uniform probabilities make MaxProb alphabetical: "aabb" first,
	// whose feedback against "abcd" leaves exactly one candidate.
	first := results[0]
	require.Equal(t, "MaxProb", first.Strategy)
	require.Equal(t, "abcd", first.Secret)
	require.True(t, first.Solved)
	require.False(t, first.TimedOut)
	require.Equal(t, 2, first.NumGuesses)

	require.Equal(t, "dcba", results[1].Secret)
	require.True(t, results[1].Solved)
}

func TestExecuteJobUnknownStrategy(t *testing.T) {
	_, err := ExecuteJob(testJob("no-such-strategy", []string{"abcd"}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not registered")
}

func TestExecuteJobTimeoutScoresGameAndContinues(t *testing.T) {
	job := testJob("test-stall", []string{"abcd", "aabb", "dcba"})
	job.GameTimeoutMS = 50

	start := time.Now()
	results, err := ExecuteJob(job)
	require.NoError(t, err)
	require.Less(t, time.Since(start), time.Second,
		"the stalled game must be abandoned at the deadline, not waited out")
	require.Len(t, results, 3)

	require.True(t, results[0].Solved, "the game before the stall is unaffected")
	require.False(t, results[0].TimedOut)

	stalled := results[1]
	require.Equal(t, "aabb", stalled.Secret)
	require.True(t, stalled.TimedOut)
	require.False(t, stalled.Solved)
	require.Equal(t, job.MaxGuesses+1, stalled.NumGuesses,
		"a timed-out game scores one worse than exhausting every guess")

	require.True(t, results[2].Solved, "the game after the stall is unaffected")
	require.False(t, results[2].TimedOut)
}

func TestExecuteJobIllegalGuessFailsRound(t *testing.T) {
	job := testJob("test-cheat", []string{"abcd"})
	job.AllowNonWords = false

	_, err := ExecuteJob(job)
	require.Error(t, err)
	require.Contains(t, err.Error(), `game against "abcd" failed`)
}

func TestRunWorkerRoundtrip(t *testing.T) {
	payload, err := json.Marshal(testJob("MaxProb", []string{"abcd"}))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, RunWorker(bytes.NewReader(payload), &out))

	var results []GameResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	require.True(t, results[0].Solved)
}

func TestRunWorkerRejectsMalformedJob(t *testing.T) {
	var out bytes.Buffer
	err := RunWorker(strings.NewReader("{not json"), &out)
	require.Error(t, err)
	require.Zero(t, out.Len())
}
