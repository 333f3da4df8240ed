package strategy

import (
	"math/rand"
	"time"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
)

func init() {
	Register("Random", func() Strategy { return NewRandom() })
}

// Random guesses uniformly at random among the remaining candidates.
// A baseline every serious strategy should beat.
type Random struct {
	vocab []string
	rng   *rand.Rand
}

func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *Random) Name() string { return "Random" }

func (r *Random) BeginGame(config game.Config) {
	r.vocab = config.Vocabulary
}

func (r *Random) Guess(history []game.Turn) string {
	candidates := r.vocab
	for _, turn := range history {
		candidates = game.FilterCandidates(candidates, turn.Word, turn.Pattern)
	}
	if len(candidates) == 0 {
		return r.vocab[0]
	}
	return candidates[r.rng.Intn(len(candidates))]
}

func (r *Random) EndGame(secret string, solved bool, numGuesses int) {}
