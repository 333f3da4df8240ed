// Package entropy scores guesses by the expected information gain of
// their feedback partition. Both the live strategy fallback and the
// offline tree builder go through this package so their tie-break
// precedence is identical and tree lookups agree with live selection.
package entropy

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
)

// Result is one evaluated guess.
type Result struct {
	Guess       string
	Entropy     float64
	IsCandidate bool
}

// Better reports whether a beats b: strictly higher entropy wins, and on
// an exact tie a surviving candidate beats a non-candidate (it can win
// the game outright this turn with the same information gain).
func Better(a, b Result) bool {
	if a.Entropy > b.Entropy {
		return true
	}
	return a.Entropy == b.Entropy && a.IsCandidate && !b.IsCandidate
}

// Score computes the Shannon entropy, in bits, of the feedback partition
// guess induces on evalSet, with each word weighted by weights (missing
// words count as weight 1). The partition masses are normalized before
// the entropy is taken.
func Score(guess string, evalSet []string, weights map[string]float64) float64 {
	partition := make(map[string]float64)
	var keys []string
	total := 0.0
	for _, c := range evalSet {
		pat, err := game.Feedback(c, guess)
		if err != nil {
			continue
		}
		w, ok := weights[c]
		if !ok {
			w = 1.0
		}
		key := pat.String()
		if _, seen := partition[key]; !seen {
			keys = append(keys, key)
		}
		partition[key] += w
		total += w
	}
	if total == 0 {
		return 0
	}

	// Fixed summation order keeps scores bit-for-bit reproducible, so
	// resumed tree builds break ties exactly like uninterrupted ones.
	sort.Strings(keys)
	masses := make([]float64, len(keys))
	for i, key := range keys {
		masses[i] = partition[key] / total
	}
	// gonum's entropy is in nats.
	return stat.Entropy(masses) / math.Ln2
}

// Best evaluates every guess in pool against evalSet and returns the
// winner under Better. candidates is the surviving-candidate set used
// for the tie-break; its first element seeds the search so an empty or
// uninformative pool still yields a playable guess.
func Best(pool, candidates, evalSet []string, weights map[string]float64) Result {
	candidateSet := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		candidateSet[c] = struct{}{}
	}

	best := Result{Entropy: -1.0, IsCandidate: true}
	if len(candidates) > 0 {
		best.Guess = candidates[0]
	}

	for _, g := range pool {
		_, isCand := candidateSet[g]
		r := Result{
			Guess:       g,
			Entropy:     Score(g, evalSet, weights),
			IsCandidate: isCand,
		}
		if Better(r, best) {
			best = r
		}
	}
	return best
}

// Reduce folds several partial results (e.g. per-chunk winners) into one
// using the same comparator as Best.
func Reduce(results []Result, fallback Result) Result {
	best := fallback
	for _, r := range results {
		if r.Guess == "" {
			continue
		}
		if Better(r, best) {
			best = r
		}
	}
	return best
}
