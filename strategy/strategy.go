// Package strategy defines the contract guessing algorithms implement
// and a static registry the tournament draws them from. Implementations
// are registered at compile time from init functions; there is no
// runtime code loading.
package strategy

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
)

// Strategy is the interface every guessing algorithm implements.
// BeginGame is called exactly once before the first Guess of each game;
// EndGame exactly once after the game reaches a terminal state (skipped
// when the game timed out).
type Strategy interface {
	Name() string
	BeginGame(config game.Config)
	Guess(history []game.Turn) string
	EndGame(secret string, solved bool, numGuesses int)
}

// TreeConsumer is implemented by strategies that can exploit precomputed
// decision trees. The runner points them at the tree directory before
// the first game.
type TreeConsumer interface {
	SetTreeDir(dir string)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Strategy)
)

// Register adds a strategy factory under name. Panics on duplicates:
// two strategies with the same name would make leaderboards ambiguous.
func Register(name string, factory func() Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("strategy %q registered twice", name))
	}
	registry[name] = factory
}

// New instantiates the registered strategy called name.
func New(name string) (Strategy, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("strategy %q is not registered (available: %v)", name, Names())
	}
	return factory(), nil
}

// Names lists the registered strategies in stable order.
func Names() []string {
	registryMu.RLock()
	names := maps.Keys(registry)
	registryMu.RUnlock()
	sort.Strings(names)
	return names
}
