package tournament

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/sonder-art/rtorneo-wordle-p26/config"
	"github.com/sonder-art/rtorneo-wordle-p26/game"
	"github.com/sonder-art/rtorneo-wordle-p26/lexicon"
	"github.com/sonder-art/rtorneo-wordle-p26/strategy"
)

// maxDefaultWorkers keeps the default process fan-out from overloading
// shared machines.
const maxDefaultWorkers = 4

// LexiconLoader supplies the vocabulary and probabilities for one round
// configuration. Word-list acquisition itself lives outside the core.
type LexiconLoader func(wordLength int, mode string) (*lexicon.Lexicon, error)

type Option func(*Orchestrator)

// WithRunner substitutes the worker execution mechanism.
func WithRunner(r WorkerRunner) Option {
	return func(o *Orchestrator) {
		o.runner = r
	}
}

// WithStrategies restricts the tournament to the named strategies
// instead of everything registered.
func WithStrategies(names []string) Option {
	return func(o *Orchestrator) {
		if len(names) > 0 {
			o.strategies = names
		}
	}
}

// Orchestrator drives the full tournament: for every repetition and
// every round of the matrix, the identical secret sample is played by
// every strategy in its own worker process.
type Orchestrator struct {
	run         config.Run
	loadLexicon LexiconLoader
	runner      WorkerRunner
	strategies  []string
	workers     int
}

func New(run config.Run, loader LexiconLoader, options ...Option) *Orchestrator {
	o := &Orchestrator{
		run:         run,
		loadLexicon: loader,
		runner:      NewProcessRunner(),
		strategies:  strategy.Names(),
	}
	if len(run.Strategies) > 0 {
		o.strategies = run.Strategies
	}
	for _, option := range options {
		option(o)
	}
	o.workers = run.Workers
	if o.workers <= 0 {
		o.workers = min(len(o.strategies), runtime.NumCPU(), maxDefaultWorkers)
		if o.workers < 1 {
			o.workers = 1
		}
	}
	return o
}

// Run plays the whole matrix and returns the tournament report.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if len(o.strategies) == 0 {
		return nil, fmt.Errorf("no strategies to run")
	}

	masterSeed := o.run.Seed
	if masterSeed == 0 {
		masterSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(masterSeed))
	matrix := o.run.Matrix()

	log.Info().
		Int("rounds", len(matrix)).
		Int("repetitions", o.run.Repetitions).
		Int("workers", o.workers).
		Strs("strategies", o.strategies).
		Int64("master_seed", masterSeed).
		Msg("starting tournament")

	var rounds []Round
	var games []GameResult

	for rep := 1; rep <= o.run.Repetitions; rep++ {
		for _, spec := range matrix {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			roundSeed := rng.Int63()

			round, roundGames, err := o.playRound(ctx, spec, rep, roundSeed)
			if err != nil {
				return nil, err
			}
			rounds = append(rounds, round)
			games = append(games, roundGames...)
		}
	}

	report := &Report{
		TournamentID: uuid.NewString(),
		RunID:        time.Now().UTC().Format("20060102_150405"),
		Timestamp:    time.Now().UTC(),
		Config:       o.run,
		Rounds:       rounds,
		Leaderboard:  Leaderboard(rounds),
		Games:        games,
	}
	return report, nil
}

func (o *Orchestrator) playRound(ctx context.Context, spec config.RoundSpec, rep int, seed int64) (Round, []GameResult, error) {
	lex, err := o.loadLexicon(spec.WordLength, spec.Mode)
	if err != nil {
		return Round{}, nil, fmt.Errorf("failed to load lexicon for %d-letter %s round: %w",
			spec.WordLength, spec.Mode, err)
	}

	probs := lex.Probs
	if o.run.Shock > 0 && spec.Mode == game.ModeFrequency {
		probs = lexicon.Perturb(probs, o.run.Shock, seed)
	}
	secrets := sampleSecrets(lex.Words, o.run.NumGames, seed)

	log.Info().
		Int("word_length", spec.WordLength).
		Str("mode", spec.Mode).
		Int("repetition", rep).
		Int("vocabulary", len(lex.Words)).
		Int("secrets", len(secrets)).
		Msg("starting round")

	games := o.dispatch(ctx, spec, lex.Words, probs, secrets)

	roundID := fmt.Sprintf("%d_%s", spec.WordLength, spec.Mode)
	if o.run.Repetitions > 1 {
		roundID = fmt.Sprintf("%s_r%d", roundID, rep)
	}
	round := Round{
		RoundID:    roundID,
		WordLength: spec.WordLength,
		Mode:       spec.Mode,
		Repetition: rep,
		Seed:       seed,
		NumGames:   len(secrets),
		Strategies: Summarize(games, o.run.MaxGuesses),
	}
	return round, games, nil
}

// dispatch fans one round out to the workers, at most o.workers in
// flight, and collects results in completion order. A failed worker
// costs only its own strategy's results.
func (o *Orchestrator) dispatch(ctx context.Context, spec config.RoundSpec, vocab []string, probs map[string]float64, secrets []string) []GameResult {
	type strategyDone struct {
		name  string
		games []GameResult
		err   error
	}
	sem := semaphore.NewWeighted(int64(o.workers))
	resCh := make(chan strategyDone)

	for _, name := range o.strategies {
		name := name
		go func() {
			if err := sem.Acquire(ctx, 1); err != nil {
				resCh <- strategyDone{name: name, err: err}
				return
			}
			defer sem.Release(1)

			job := Job{
				Strategy:      name,
				Vocabulary:    vocab,
				Secrets:       secrets,
				WordLength:    spec.WordLength,
				MaxGuesses:    o.run.MaxGuesses,
				AllowNonWords: !o.run.VocabOnly,
				Mode:          spec.Mode,
				Probabilities: probs,
				GameTimeoutMS: o.run.GameTimeoutMS,
				MemoryLimitMB: o.run.MemoryLimitMB,
				TreeDir:       o.run.TreeDir,
			}
			games, err := o.runner.Run(ctx, job)
			resCh <- strategyDone{name: name, games: games, err: err}
		}()
	}

	var games []GameResult
	for range o.strategies {
		done := <-resCh
		if done.err != nil {
			log.Error().Err(done.err).Str("strategy", done.name).Msg("strategy failed for round")
			continue
		}
		solved, timeouts, total := 0, 0, 0
		for _, g := range done.games {
			if g.Solved {
				solved++
			}
			if g.TimedOut {
				timeouts++
			}
			total += g.NumGuesses
		}
		mean := 0.0
		if len(done.games) > 0 {
			mean = float64(total) / float64(len(done.games))
		}
		log.Info().
			Str("strategy", done.name).
			Int("solved", solved).
			Int("games", len(done.games)).
			Int("timeouts", timeouts).
			Float64("mean_guesses", mean).
			Msg("strategy round complete")
		games = append(games, done.games...)
	}
	return games
}

// sampleSecrets draws the round's secrets: everything when numGames is
// unset or covers the vocabulary, else a seeded sample without
// replacement so every strategy sees the identical set.
func sampleSecrets(words []string, numGames int, seed int64) []string {
	if numGames <= 0 || numGames >= len(words) {
		out := make([]string, len(words))
		copy(out, words)
		return out
	}
	rng := rand.New(rand.NewSource(seed))
	picked := make([]string, numGames)
	for i, idx := range rng.Perm(len(words))[:numGames] {
		picked[i] = words[idx]
	}
	return picked
}
