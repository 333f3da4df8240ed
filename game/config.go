package game

import (
	"fmt"
	"math"
)

const (
	ModeUniform   = "uniform"
	ModeFrequency = "frequency"
)

// probSumTolerance bounds the drift allowed in a probability distribution.
const probSumTolerance = 1e-6

// Config is everything a strategy receives at the start of a game. It is
// handed out once per game and must not be mutated by the receiver.
type Config struct {
	WordLength    int
	Vocabulary    []string
	Mode          string
	Probabilities map[string]float64
	MaxGuesses    int
	AllowNonWords bool
}

// Validate checks length consistency and that probabilities sum to 1.
func (c Config) Validate() error {
	if c.WordLength <= 0 {
		return fmt.Errorf("%w: word length must be positive, got %d", ErrValidation, c.WordLength)
	}
	if c.MaxGuesses <= 0 {
		return fmt.Errorf("%w: max guesses must be positive, got %d", ErrValidation, c.MaxGuesses)
	}
	if len(c.Vocabulary) == 0 {
		return fmt.Errorf("%w: empty vocabulary", ErrValidation)
	}
	if c.Mode != ModeUniform && c.Mode != ModeFrequency {
		return fmt.Errorf("%w: mode must be %q or %q, got %q", ErrValidation, ModeUniform, ModeFrequency, c.Mode)
	}
	for _, w := range c.Vocabulary {
		if len(w) != c.WordLength {
			return fmt.Errorf("%w: word %q has length %d, expected %d", ErrValidation, w, len(w), c.WordLength)
		}
	}
	if len(c.Probabilities) > 0 {
		sum := 0.0
		for _, p := range c.Probabilities {
			sum += p
		}
		if math.Abs(sum-1.0) > probSumTolerance {
			return fmt.Errorf("%w: probabilities sum to %g, expected 1", ErrValidation, sum)
		}
	}
	return nil
}

// UniformProbabilities assigns every word probability 1/N.
func UniformProbabilities(words []string) map[string]float64 {
	probs := make(map[string]float64, len(words))
	if len(words) == 0 {
		return probs
	}
	p := 1.0 / float64(len(words))
	for _, w := range words {
		probs[w] = p
	}
	return probs
}
