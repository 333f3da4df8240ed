package game

import (
	"fmt"
	"math/rand"
	"strings"
)

// Turn is one played guess and the feedback it produced.
type Turn struct {
	Word    string
	Pattern Pattern
}

// Session is the mutable state of a single game. It is owned by the
// caller that created it and is not safe for concurrent use.
type Session struct {
	config   Config
	vocabSet map[string]struct{}
	rng      *rand.Rand

	secret  string
	history []Turn
	solved  bool
}

// NewSession validates the vocabulary and returns a session in the
// not-started state; call Reset before guessing.
func NewSession(config Config, seed int64) (*Session, error) {
	for _, w := range config.Vocabulary {
		if len(w) != config.WordLength {
			return nil, fmt.Errorf("%w: word %q has length %d, expected %d",
				ErrValidation, w, len(w), config.WordLength)
		}
	}
	vocabSet := make(map[string]struct{}, len(config.Vocabulary))
	for _, w := range config.Vocabulary {
		vocabSet[w] = struct{}{}
	}
	return &Session{
		config:   config,
		vocabSet: vocabSet,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Reset starts a new game. An empty secret draws one uniformly at random
// from the vocabulary.
func (s *Session) Reset(secret string) error {
	if secret != "" {
		if _, ok := s.vocabSet[secret]; !ok {
			return fmt.Errorf("%w: secret %q is not in vocabulary", ErrValidation, secret)
		}
		s.secret = secret
	} else {
		s.secret = s.config.Vocabulary[s.rng.Intn(len(s.config.Vocabulary))]
	}
	s.history = s.history[:0]
	s.solved = false
	return nil
}

// Guess submits a word and returns the feedback pattern.
func (s *Session) Guess(word string) (Pattern, error) {
	if s.secret == "" {
		return nil, fmt.Errorf("%w: call Reset before guessing", ErrState)
	}
	if s.Over() {
		return nil, fmt.Errorf("%w: game is already over", ErrState)
	}
	word = strings.ToLower(word)
	if len(word) != s.config.WordLength {
		return nil, fmt.Errorf("%w: guess length (%d) != word length (%d)",
			ErrValidation, len(word), s.config.WordLength)
	}
	if !s.config.AllowNonWords {
		if _, ok := s.vocabSet[word]; !ok {
			return nil, fmt.Errorf("%w: %q is not in the vocabulary", ErrValidation, word)
		}
	}

	pat, err := Feedback(s.secret, word)
	if err != nil {
		return nil, err
	}
	s.history = append(s.history, Turn{Word: word, Pattern: pat})
	if word == s.secret {
		s.solved = true
	}
	return pat, nil
}

func (s *Session) Solved() bool {
	return s.solved
}

func (s *Session) Over() bool {
	return s.solved || len(s.history) >= s.config.MaxGuesses
}

func (s *Session) RemainingGuesses() int {
	return s.config.MaxGuesses - len(s.history)
}

// History returns a copy of the (guess, pattern) pairs played so far.
func (s *Session) History() []Turn {
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// NumGuesses is the number of guesses played so far.
func (s *Session) NumGuesses() int {
	return len(s.history)
}

// Secret reveals the secret word. Only valid once the game is over so a
// strategy can never read it mid-game.
func (s *Session) Secret() (string, error) {
	if s.secret == "" {
		return "", fmt.Errorf("%w: no game in progress", ErrState)
	}
	if !s.Over() {
		return "", fmt.Errorf("%w: game is still in progress", ErrState)
	}
	return s.secret, nil
}
