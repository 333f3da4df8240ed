package game

import (
	"errors"
	"fmt"
	"strings"
)

// Feedback encoding per position: 2 = green (right letter, right spot),
// 1 = yellow (right letter, wrong spot), 0 = gray.
type Cell uint8

const (
	Gray Cell = iota
	Yellow
	Green
)

// Pattern is the per-position verdict for one guess.
type Pattern []Cell

// Error kinds. Callers match with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrState      = errors.New("invalid game state")
)

// String renders the pattern as digits, e.g. "2010" for green-gray-yellow-gray.
func (p Pattern) String() string {
	var sb strings.Builder
	for _, c := range p {
		sb.WriteByte('0' + byte(c))
	}
	return sb.String()
}

func (p Pattern) Equal(q Pattern) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

func (p Pattern) AllGreen() bool {
	for _, c := range p {
		if c != Green {
			return false
		}
	}
	return true
}

// ParsePattern is the inverse of Pattern.String.
func ParsePattern(s string) (Pattern, error) {
	p := make(Pattern, len(s))
	for i := 0; i < len(s); i++ {
		d := s[i] - '0'
		if d > 2 {
			return nil, fmt.Errorf("%w: bad pattern digit %q in %q", ErrValidation, s[i], s)
		}
		p[i] = Cell(d)
	}
	return p, nil
}

// Feedback computes the pattern for guess against secret. The two-pass
// multiset walk is what makes duplicate letters come out right: greens
// claim their letter first, then yellows are only granted while that
// letter still has uncredited occurrences in the secret.
func Feedback(secret, guess string) (Pattern, error) {
	n := len(secret)
	if len(guess) != n {
		return nil, fmt.Errorf("%w: guess length (%d) != secret length (%d)",
			ErrValidation, len(guess), n)
	}

	secret = strings.ToLower(secret)
	guess = strings.ToLower(guess)

	pat := make(Pattern, n)
	var remaining [256]int
	for i := 0; i < n; i++ {
		remaining[secret[i]]++
	}

	// Pass 1: greens
	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			pat[i] = Green
			remaining[guess[i]]--
		}
	}

	// Pass 2: yellows
	for i := 0; i < n; i++ {
		if pat[i] == Green {
			continue
		}
		if remaining[guess[i]] > 0 {
			pat[i] = Yellow
			remaining[guess[i]]--
		}
	}

	return pat, nil
}

// FilterCandidates keeps the words that would have produced pattern had
// they been the secret. Call sites re-filter from the full vocabulary on
// every turn instead of tracking incremental state: simpler and always
// correct at the vocabulary sizes in play.
func FilterCandidates(candidates []string, guess string, pattern Pattern) []string {
	kept := make([]string, 0, len(candidates))
	for _, w := range candidates {
		pat, err := Feedback(w, guess)
		if err != nil {
			continue
		}
		if pat.Equal(pattern) {
			kept = append(kept, w)
		}
	}
	return kept
}
