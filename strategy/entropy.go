package strategy

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/sonder-art/rtorneo-wordle-p26/entropy"
	"github.com/sonder-art/rtorneo-wordle-p26/game"
	"github.com/sonder-art/rtorneo-wordle-p26/tree"
)

func init() {
	Register("Entropy", func() Strategy { return NewEntropy(DefaultTreeDir) })
}

// DefaultTreeDir is where finished decision trees are looked up unless
// the runner overrides it.
const DefaultTreeDir = "data/trees"

const (
	// maxGuessPool caps how many guesses the live fallback evaluates.
	maxGuessPool = 200
	// maxEvalCandidates caps the set entropy is measured against.
	maxEvalCandidates = 500
	// sampleSeed fixes the subsampling RNG per game so a given history
	// always yields the same guess.
	sampleSeed = 42
)

// Entropy selects the guess maximizing the Shannon entropy of its
// feedback partition. Precomputed decision trees (when present for the
// configuration) answer the expensive early turns in O(1); the live
// fallback is capped so a turn's work is bounded regardless of
// vocabulary size — a greedy one-step lookahead, not globally optimal.
type Entropy struct {
	treeDir string
	trees   map[string]*tree.Tree

	config game.Config
	tree   *tree.Tree
	rng    *rand.Rand
}

func NewEntropy(treeDir string) *Entropy {
	return &Entropy{treeDir: treeDir, trees: make(map[string]*tree.Tree)}
}

func (e *Entropy) Name() string { return "Entropy" }

// SetTreeDir points the strategy at a different tree directory and
// drops any cached trees.
func (e *Entropy) SetTreeDir(dir string) {
	e.treeDir = dir
	e.trees = make(map[string]*tree.Tree)
}

func (e *Entropy) BeginGame(config game.Config) {
	e.config = config
	e.rng = rand.New(rand.NewSource(sampleSeed))
	e.tree = e.loadTree(config.WordLength, config.Mode)
}

func (e *Entropy) loadTree(wordLength int, mode string) *tree.Tree {
	key := fmt.Sprintf("%d_%s", wordLength, mode)
	if t, ok := e.trees[key]; ok {
		return t
	}
	path := filepath.Join(e.treeDir, tree.ArtifactName(wordLength, mode))
	t, err := tree.LoadOrEmpty(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ignoring unreadable decision tree")
		t = tree.New()
	}
	e.trees[key] = t
	return t
}

func (e *Entropy) Guess(history []game.Turn) string {
	// Tree fast path: exact pattern sequence lookup.
	path := make(tree.Path, len(history))
	for i, turn := range history {
		path[i] = turn.Pattern
	}
	if guess, ok := e.tree.Lookup(path); ok {
		return guess
	}

	candidates := e.config.Vocabulary
	for _, turn := range history {
		candidates = game.FilterCandidates(candidates, turn.Word, turn.Pattern)
	}
	if len(candidates) == 0 {
		return e.config.Vocabulary[0]
	}
	if len(candidates) <= 2 {
		// Fully determined or a coin toss; not worth searching.
		return candidates[0]
	}

	pool := e.sample(candidates, maxGuessPool)
	evalSet := e.sample(candidates, maxEvalCandidates)
	best := entropy.Best(pool, candidates, evalSet, e.config.Probabilities)
	return best.Guess
}

func (e *Entropy) EndGame(secret string, solved bool, numGuesses int) {}

// sample returns words unchanged when within the cap, else a uniform
// random subset of cap size.
func (e *Entropy) sample(words []string, cap int) []string {
	if len(words) <= cap {
		return words
	}
	picked := make([]string, cap)
	for i, idx := range e.rng.Perm(len(words))[:cap] {
		picked[i] = words[idx]
	}
	return picked
}
