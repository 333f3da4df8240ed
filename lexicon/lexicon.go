// Package lexicon loads word lists and builds the probability
// distributions the game core consumes.
//
// Two input formats are supported: plain text with one word per line
// (all counts 1) and CSV with a word,count header (corpus frequencies).
// Two probability modes: uniform (p = 1/N) and frequency
// (sigmoid-smoothed log-frequency weights).
package lexicon

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
)

// sigmoidSteepness controls how sharply frequency weights separate
// common words from rare ones.
const sigmoidSteepness = 1.5

// Lexicon is a word list with associated probabilities.
type Lexicon struct {
	Words []string
	Probs map[string]float64
	Mode  string
}

// Load reads the word list at path, keeps well-formed words of exactly
// wordLength letters, and builds probabilities for mode.
func Load(path string, wordLength int, mode string) (*Lexicon, error) {
	if mode != game.ModeUniform && mode != game.ModeFrequency {
		return nil, fmt.Errorf("mode must be %q or %q, got %q", game.ModeUniform, game.ModeFrequency, mode)
	}

	var (
		words  []string
		counts map[string]int
		err    error
	)
	if filepath.Ext(path) == ".csv" {
		words, counts, err = loadCSV(path, wordLength)
	} else {
		words, counts, err = loadTXT(path, wordLength)
	}
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no %d-letter words found in %s", wordLength, path)
	}

	return New(words, counts, mode)
}

// New builds a lexicon from an already-loaded word list. Words must be
// deduplicated; they are sorted here so ordering is deterministic.
func New(words []string, counts map[string]int, mode string) (*Lexicon, error) {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Strings(sorted)

	var probs map[string]float64
	switch mode {
	case game.ModeUniform:
		probs = game.UniformProbabilities(sorted)
	case game.ModeFrequency:
		probs = sigmoidWeights(counts)
	default:
		return nil, fmt.Errorf("mode must be %q or %q, got %q", game.ModeUniform, game.ModeFrequency, mode)
	}
	return &Lexicon{Words: sorted, Probs: probs, Mode: mode}, nil
}

// Perturb applies independent multiplicative noise to a distribution:
// each p is scaled by (1 + e) with e ~ Uniform(-noiseScale, +noiseScale),
// floored, then the whole map is renormalized. The shape survives but
// exact values become unpredictable, which keeps strategies from
// overfitting to corpus frequencies.
func Perturb(probs map[string]float64, noiseScale float64, seed int64) map[string]float64 {
	rng := rand.New(rand.NewSource(seed))

	// Deterministic iteration order so the same seed gives the same noise.
	words := make([]string, 0, len(probs))
	for w := range probs {
		words = append(words, w)
	}
	sort.Strings(words)

	perturbed := make(map[string]float64, len(probs))
	total := 0.0
	for _, w := range words {
		factor := 1.0 + (rng.Float64()*2-1)*noiseScale
		p := math.Max(probs[w]*factor, 1e-12)
		perturbed[w] = p
		total += p
	}
	for w := range perturbed {
		perturbed[w] /= total
	}
	return perturbed
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	ex := math.Exp(x)
	return ex / (1.0 + ex)
}

// sigmoidWeights maps raw counts to probabilities via a sigmoid on
// centered log-counts, then normalizes.
func sigmoidWeights(counts map[string]int) map[string]float64 {
	if len(counts) == 0 {
		return map[string]float64{}
	}
	logCounts := make(map[string]float64, len(counts))
	mu := 0.0
	for w, c := range counts {
		lc := math.Log(float64(c) + 1)
		logCounts[w] = lc
		mu += lc
	}
	mu /= float64(len(logCounts))

	weights := make(map[string]float64, len(logCounts))
	total := 0.0
	for w, lc := range logCounts {
		v := sigmoid(sigmoidSteepness * (lc - mu))
		weights[w] = v
		total += v
	}
	for w := range weights {
		weights[w] /= total
	}
	return weights
}

// stripAccents removes combining marks so accented corpus entries fold
// onto their plain-letter forms.
func stripAccents(s string) string {
	decomposed := norm.NFKD.String(s)
	var sb strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func wordPattern(wordLength int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^[a-z]{%d}$", wordLength))
}

func loadTXT(path string, wordLength int) ([]string, map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read word list: %w", err)
	}
	pattern := wordPattern(wordLength)
	seen := make(map[string]struct{})
	var words []string
	for _, raw := range strings.Split(string(data), "\n") {
		w := stripAccents(strings.ToLower(strings.TrimSpace(raw)))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		if pattern.MatchString(w) {
			seen[w] = struct{}{}
			words = append(words, w)
		}
	}
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w] = 1
	}
	return words, counts, nil
}

func loadCSV(path string, wordLength int) ([]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	wordCol, countCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "word":
			wordCol = i
		case "count":
			countCol = i
		}
	}
	if wordCol < 0 || countCol < 0 {
		return nil, nil, fmt.Errorf("CSV %s must have word,count header, got %v", path, header)
	}

	pattern := wordPattern(wordLength)
	seen := make(map[string]struct{})
	var words []string
	counts := make(map[string]int)
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		w := stripAccents(strings.ToLower(strings.TrimSpace(row[wordCol])))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		if !pattern.MatchString(w) {
			continue
		}
		c, err := strconv.Atoi(strings.TrimSpace(row[countCol]))
		if err != nil || c <= 0 {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
		counts[w] = c
	}
	return words, counts, nil
}
