package tournament

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
	"github.com/sonder-art/rtorneo-wordle-p26/strategy"
)

// Job is the unit of work handed to one worker process: one strategy,
// one round's full secret sample. Passed by value over stdin as JSON so
// workers share no memory with the coordinator.
type Job struct {
	Strategy      string             `json:"strategy"`
	Vocabulary    []string           `json:"vocabulary"`
	Secrets       []string           `json:"secrets"`
	WordLength    int                `json:"word_length"`
	MaxGuesses    int                `json:"max_guesses"`
	AllowNonWords bool               `json:"allow_non_words"`
	Mode          string             `json:"mode"`
	Probabilities map[string]float64 `json:"probabilities"`
	GameTimeoutMS int                `json:"game_timeout_ms"`
	MemoryLimitMB int                `json:"memory_limit_mb"`
	TreeDir       string             `json:"tree_dir,omitempty"`
}

// RunWorker is the worker-process entry point: decode the job, apply
// OS resource limits, play the games, encode the results. A returned
// error becomes a non-zero exit, which the coordinator treats as a
// failed round for this strategy only.
func RunWorker(in io.Reader, out io.Writer) error {
	var job Job
	if err := json.NewDecoder(in).Decode(&job); err != nil {
		return fmt.Errorf("failed to decode job: %w", err)
	}
	applyResourceLimits(job.MemoryLimitMB)

	results, err := ExecuteJob(job)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(out).Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// ExecuteJob plays every secret in the job strictly sequentially, each
// game under the wall-clock deadline. Exported so tests can exercise the
// exact worker code path in-process.
func ExecuteJob(job Job) ([]GameResult, error) {
	strat, err := strategy.New(job.Strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to load strategy: %w", err)
	}
	if tc, ok := strat.(strategy.TreeConsumer); ok && job.TreeDir != "" {
		tc.SetTreeDir(job.TreeDir)
	}

	cfg := game.Config{
		WordLength:    job.WordLength,
		Vocabulary:    job.Vocabulary,
		Mode:          job.Mode,
		Probabilities: job.Probabilities,
		MaxGuesses:    job.MaxGuesses,
		AllowNonWords: job.AllowNonWords,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := time.Duration(job.GameTimeoutMS) * time.Millisecond

	results := make([]GameResult, 0, len(job.Secrets))
	for _, secret := range job.Secrets {
		res, err := playGame(strat, cfg, secret, timeout)
		if err != nil {
			// Anything beyond a timeout (illegal guess, state misuse)
			// fails the whole round for this strategy.
			return nil, fmt.Errorf("game against %q failed: %w", secret, err)
		}
		results = append(results, res)
	}
	return results, nil
}

type gameOutcome struct {
	numGuesses int
	solved     bool
	err        error
}

// playGame runs one game's turn loop in its own goroutine under a
// watchdog. Go has no preemptive abort of running code, so on deadline
// the in-flight goroutine is abandoned with all its partial state (its
// session is game-local, nothing shared leaks) and the game is scored
// as a timeout. The abandoned goroutine dies with the worker process.
func playGame(strat strategy.Strategy, cfg game.Config, secret string, timeout time.Duration) (GameResult, error) {
	done := make(chan gameOutcome, 1)
	go func() {
		sess, err := game.NewSession(cfg, time.Now().UnixNano())
		if err != nil {
			done <- gameOutcome{err: err}
			return
		}
		if err := sess.Reset(secret); err != nil {
			done <- gameOutcome{err: err}
			return
		}
		strat.BeginGame(cfg)
		for !sess.Over() {
			word := strat.Guess(sess.History())
			if _, err := sess.Guess(word); err != nil {
				done <- gameOutcome{err: err}
				return
			}
		}
		done <- gameOutcome{numGuesses: sess.NumGuesses(), solved: sess.Solved()}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return GameResult{}, out.err
		}
		strat.EndGame(secret, out.solved, out.numGuesses)
		return GameResult{
			Strategy:   strat.Name(),
			Secret:     secret,
			NumGuesses: out.numGuesses,
			Solved:     out.solved,
		}, nil
	case <-time.After(timeout):
		log.Warn().
			Str("strategy", strat.Name()).
			Str("secret", secret).
			Dur("timeout", timeout).
			Msg("game timed out, abandoning in-flight computation")
		// EndGame is deliberately skipped on timeout.
		return GameResult{
			Strategy:   strat.Name(),
			Secret:     secret,
			NumGuesses: cfg.MaxGuesses + 1,
			Solved:     false,
			TimedOut:   true,
		}, nil
	}
}
