package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
)

func requireSumsToOne(t *testing.T, probs map[string]float64) {
	t.Helper()
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	require.InDelta(t, 1.0, sum, 1e-9, "probabilities should sum to 1")
}

func TestUniformProbabilitiesSumToOne(t *testing.T) {
	words := []string{"abcd", "bcda", "cdab"}
	lex, err := New(words, map[string]int{"abcd": 1, "bcda": 1, "cdab": 1}, game.ModeUniform)
	require.NoError(t, err)
	requireSumsToOne(t, lex.Probs)
	require.InDelta(t, 1.0/3.0, lex.Probs["abcd"], 1e-12)
}

func TestFrequencyProbabilitiesSumToOne(t *testing.T) {
	words := []string{"abcd", "bcda", "cdab"}
	counts := map[string]int{"abcd": 100000, "bcda": 500, "cdab": 1}
	lex, err := New(words, counts, game.ModeFrequency)
	require.NoError(t, err)
	requireSumsToOne(t, lex.Probs)
	require.Greater(t, lex.Probs["abcd"], lex.Probs["cdab"],
		"more frequent words should be more probable")
}

func TestPerturbPreservesNormalization(t *testing.T) {
	words := []string{"abcd", "bcda", "cdab", "dabc"}
	lex, err := New(words, map[string]int{"abcd": 10, "bcda": 20, "cdab": 30, "dabc": 40}, game.ModeFrequency)
	require.NoError(t, err)

	shocked := Perturb(lex.Probs, 0.05, 7)
	requireSumsToOne(t, shocked)

	for w, p := range shocked {
		require.InDelta(t, lex.Probs[w], p, lex.Probs[w]*0.15,
			"perturbation should only nudge probabilities")
	}

	again := Perturb(lex.Probs, 0.05, 7)
	require.Equal(t, shocked, again, "same seed should give the same perturbation")
}

func TestLoadTXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "abcd\nABCD\ncafé\nxyzw\ntoolong\nab\n\nxyzw\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := Load(path, 4, game.ModeUniform)
	require.NoError(t, err)
	// "café" folds to "cafe"; duplicates and wrong lengths are dropped.
	require.Equal(t, []string{"abcd", "cafe", "xyzw"}, lex.Words)
	requireSumsToOne(t, lex.Probs)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "word,count\nabcd,100\nxyzw,5\nbad,3\nzero,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := Load(path, 4, game.ModeFrequency)
	require.NoError(t, err)
	require.Equal(t, []string{"abcd", "xyzw"}, lex.Words, "wrong lengths and non-positive counts are dropped")
	requireSumsToOne(t, lex.Probs)
	require.Greater(t, lex.Probs["abcd"], lex.Probs["xyzw"])
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	_, err := Load("irrelevant.txt", 4, "sometimes")
	require.Error(t, err)
}

func TestLoadEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("toolong\n"), 0o644))

	_, err := Load(path, 4, game.ModeUniform)
	require.Error(t, err, "a list with no usable words should fail loudly")
}
