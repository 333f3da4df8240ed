package tree

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sonder-art/rtorneo-wordle-p26/entropy"
	"github.com/sonder-art/rtorneo-wordle-p26/game"
)

const (
	// DefaultMaxDepth bounds the tree to the turns where live entropy
	// computation is still slow.
	DefaultMaxDepth = 4
	// DefaultMinCandidates stops expansion once a node is small enough
	// for the live fallback to handle instantly.
	DefaultMinCandidates = 15
	// defaultCheckpointEvery throttles mid-depth checkpoint writes.
	defaultCheckpointEvery = 10
	// minChunkSize keeps root chunks large enough to amortize dispatch.
	minChunkSize = 50
)

type Option func(*Builder)

func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

func WithMinCandidates(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.minCandidates = n
		}
	}
}

func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

func WithCheckpointEvery(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.checkpointEvery = n
		}
	}
}

// WithLevelHook installs a callback invoked after each completed depth,
// with the depth and number of nodes computed at it. Used for progress
// reporting and for interruption in tests.
func WithLevelHook(hook func(depth, nodes int)) Option {
	return func(b *Builder) {
		b.levelHook = hook
	}
}

// Builder constructs the path -> guess map for one configuration,
// breadth-first by path length, parallel within each depth, and
// checkpointed so a hard kill loses at most part of one depth.
type Builder struct {
	vocab          []string
	weights        map[string]float64
	checkpointPath string

	maxDepth        int
	minCandidates   int
	workers         int
	checkpointEvery int
	levelHook       func(depth, nodes int)
}

func NewBuilder(vocab []string, weights map[string]float64, checkpointPath string, options ...Option) *Builder {
	b := &Builder{
		vocab:           vocab,
		weights:         weights,
		checkpointPath:  checkpointPath,
		maxDepth:        DefaultMaxDepth,
		minCandidates:   DefaultMinCandidates,
		workers:         runtime.NumCPU(),
		checkpointEvery: defaultCheckpointEvery,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

type pendingNode struct {
	path       Path
	candidates []string
}

// Build runs until no pending nodes remain or ctx is canceled. It starts
// from the existing checkpoint when one is present, so an interrupted
// build resumes without recomputing finished nodes.
func (b *Builder) Build(ctx context.Context) (*Tree, error) {
	if len(b.vocab) == 0 {
		return nil, fmt.Errorf("cannot build tree over empty vocabulary")
	}

	t, err := LoadOrEmpty(b.checkpointPath)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("vocabulary", len(b.vocab)).
		Int("checkpointed", t.Len()).
		Int("max_depth", b.maxDepth).
		Int("min_candidates", b.minCandidates).
		Int("workers", b.workers).
		Msg("starting tree build")

	for {
		if err := ctx.Err(); err != nil {
			return t, err
		}

		pending := b.pending(t)
		if len(pending) == 0 {
			break
		}

		depth := len(pending[0].path)
		var level []pendingNode
		for _, n := range pending {
			if len(n.path) == depth {
				level = append(level, n)
			}
		}
		log.Info().Int("depth", depth).Int("nodes", len(level)).Msg("computing depth")

		if depth == 0 {
			err = b.computeRoot(ctx, t)
		} else {
			err = b.computeLevel(ctx, t, level)
		}
		if err != nil {
			return t, err
		}
		if b.levelHook != nil {
			b.levelHook(depth, len(level))
		}
	}

	log.Info().Int("nodes", t.Len()).Msg("tree complete")
	return t, nil
}

// Finalize writes the finished tree to its artifact path and removes the
// checkpoint, signaling the configuration is permanently done.
func (b *Builder) Finalize(t *Tree, artifactPath string) error {
	if err := Save(t, artifactPath); err != nil {
		return err
	}
	if b.checkpointPath != "" {
		if err := os.Remove(b.checkpointPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove checkpoint: %w", err)
		}
	}
	return nil
}

// pending rebuilds the work set by walking from the root through the
// checkpoint: a node already present is expanded into its children, a
// reachable node that is absent still needs computing. Nothing finished
// is redone and nothing reachable is skipped.
func (b *Builder) pending(t *Tree) []pendingNode {
	var pending []pendingNode

	var visit func(p Path, candidates []string)
	visit = func(p Path, candidates []string) {
		if len(candidates) <= 1 {
			return
		}
		guess, ok := t.Nodes[p.Key()]
		if !ok {
			pending = append(pending, pendingNode{path: p, candidates: candidates})
			return // children are unknowable until this node's guess exists
		}
		if len(p) >= b.maxDepth {
			return
		}
		for _, child := range partition(candidates, guess) {
			if len(child.candidates) > b.minCandidates {
				visit(p.Child(child.pattern), child.candidates)
			}
		}
	}
	visit(nil, b.vocab)

	sort.Slice(pending, func(i, j int) bool {
		if len(pending[i].path) != len(pending[j].path) {
			return len(pending[i].path) < len(pending[j].path)
		}
		return pending[i].path.Key() < pending[j].path.Key()
	})
	return pending
}

type child struct {
	pattern    game.Pattern
	candidates []string
}

// partition splits candidates by the feedback each would give against
// guess, in deterministic pattern order.
func partition(candidates []string, guess string) []child {
	byPattern := make(map[string]*child)
	var keys []string
	for _, c := range candidates {
		pat, err := game.Feedback(c, guess)
		if err != nil {
			continue
		}
		key := pat.String()
		entry, ok := byPattern[key]
		if !ok {
			entry = &child{pattern: pat}
			byPattern[key] = entry
			keys = append(keys, key)
		}
		entry.candidates = append(entry.candidates, c)
	}
	sort.Strings(keys)
	children := make([]child, len(keys))
	for i, key := range keys {
		children[i] = *byPattern[key]
	}
	return children
}

// computeRoot handles depth 0: one node, the whole vocabulary as both
// candidates and guess pool, evaluated exactly. The guess pool is split
// into contiguous chunks, one in flight per worker, and the chunk
// winners are reduced to a single global winner.
func (b *Builder) computeRoot(ctx context.Context, t *Tree) error {
	pool := b.vocab
	chunkSize := len(pool) / (b.workers * 4)
	if chunkSize < minChunkSize {
		chunkSize = minChunkSize
	}
	var chunks [][]string
	for i := 0; i < len(pool); i += chunkSize {
		end := i + chunkSize
		if end > len(pool) {
			end = len(pool)
		}
		chunks = append(chunks, pool[i:end])
	}
	log.Info().
		Int("guesses", len(pool)).
		Int("candidates", len(b.vocab)).
		Int("chunks", len(chunks)).
		Msg("evaluating root")

	results := make([]entropy.Result, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = entropy.Best(chunk, b.vocab, b.vocab, b.weights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fallback := entropy.Result{Guess: b.vocab[0], Entropy: -1.0, IsCandidate: true}
	best := entropy.Reduce(results, fallback)
	t.Nodes[Path(nil).Key()] = best.Guess
	log.Info().Str("guess", best.Guess).Float64("entropy", best.Entropy).Msg("root computed")

	return b.save(t)
}

// computeLevel handles depth 1+: every pending node of the depth is an
// independent work item; each node's guess pool is restricted to its own
// candidates. Workers only compute and report; this goroutine is the
// single checkpoint writer.
func (b *Builder) computeLevel(ctx context.Context, t *Tree, level []pendingNode) error {
	type nodeResult struct {
		key   string
		guess string
	}
	results := make(chan nodeResult)

	// Canceling on early return unblocks any worker still sending.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	done := make(chan error, 1)
	go func() {
		for _, n := range level {
			n := n
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := entropy.Best(n.candidates, n.candidates, n.candidates, b.weights)
				select {
				case results <- nodeResult{key: n.path.Key(), guess: res.Guess}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		done <- g.Wait()
		close(results)
	}()

	completed := 0
	for r := range results {
		t.Nodes[r.key] = r.guess
		completed++
		if completed%b.checkpointEvery == 0 {
			if err := b.save(t); err != nil {
				return err
			}
		}
	}
	if err := <-done; err != nil {
		return err
	}
	// The final write for a depth is never skipped.
	return b.save(t)
}

func (b *Builder) save(t *Tree) error {
	if b.checkpointPath == "" {
		return nil
	}
	return Save(t, b.checkpointPath)
}
