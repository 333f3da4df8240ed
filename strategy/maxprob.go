package strategy

import (
	"sort"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
)

func init() {
	Register("MaxProb", func() Strategy { return NewMaxProb() })
}

// MaxProb always guesses the most probable remaining candidate. Under
// uniform probabilities this degenerates to alphabetically-first.
type MaxProb struct {
	sorted []string
}

func NewMaxProb() *MaxProb {
	return &MaxProb{}
}

func (m *MaxProb) Name() string { return "MaxProb" }

func (m *MaxProb) BeginGame(config game.Config) {
	// Descending probability, alphabetical on ties. FilterCandidates
	// preserves order, so the head of the filtered list is always the
	// most probable survivor.
	m.sorted = make([]string, len(config.Vocabulary))
	copy(m.sorted, config.Vocabulary)
	probs := config.Probabilities
	sort.SliceStable(m.sorted, func(i, j int) bool {
		pi, pj := probs[m.sorted[i]], probs[m.sorted[j]]
		if pi != pj {
			return pi > pj
		}
		return m.sorted[i] < m.sorted[j]
	})
}

func (m *MaxProb) Guess(history []game.Turn) string {
	candidates := m.sorted
	for _, turn := range history {
		candidates = game.FilterCandidates(candidates, turn.Word, turn.Pattern)
	}
	if len(candidates) == 0 {
		return m.sorted[0]
	}
	return candidates[0]
}

func (m *MaxProb) EndGame(secret string, solved bool, numGuesses int) {}
