// Package tree builds and serves precomputed decision trees: a mapping
// from the sequence of feedback patterns observed so far to the guess an
// entropy-maximizing strategy plays next.
package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
)

// ErrCheckpointCorrupt marks a checkpoint file that exists but cannot be
// decoded. This is fatal to a precomputation run: the operator removes
// the file to restart from scratch.
var ErrCheckpointCorrupt = errors.New("checkpoint corrupt")

// Path identifies a node: the ordered feedback patterns observed so far.
// The empty path is the root.
type Path []game.Pattern

// Key renders the path as a stable string, e.g. "2010.1102". The root
// key is the empty string.
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, pat := range p {
		parts[i] = pat.String()
	}
	return strings.Join(parts, ".")
}

// Child returns a new path extended by pat without aliasing p's backing
// array.
func (p Path) Child(pat game.Pattern) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, pat)
}

// Tree is the path -> guess map for one (word length, mode) config.
type Tree struct {
	Nodes map[string]string
}

func New() *Tree {
	return &Tree{Nodes: make(map[string]string)}
}

// Lookup returns the precomputed guess for the node at path, if any.
func (t *Tree) Lookup(p Path) (string, bool) {
	if t == nil {
		return "", false
	}
	g, ok := t.Nodes[p.Key()]
	return g, ok
}

func (t *Tree) Len() int {
	return len(t.Nodes)
}

// LoadOrEmpty reads the tree at path, returning an empty tree when the
// file does not exist. A file that exists but fails to decode is
// reported as ErrCheckpointCorrupt, never silently replaced.
func LoadOrEmpty(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tree %s: %w", path, err)
	}
	var nodes map[string]string
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCheckpointCorrupt, path, err)
	}
	if nodes == nil {
		nodes = make(map[string]string)
	}
	return &Tree{Nodes: nodes}, nil
}

// Save writes the tree atomically: the content goes to a temporary file
// in the same directory which then replaces path in one rename, so a
// reader (or a crash) only ever observes the old complete file or the
// new complete file.
func Save(t *Tree, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create tree directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	data, err := json.Marshal(t.Nodes)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write tree: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace tree file: %w", err)
	}
	return nil
}

// ArtifactName returns the conventional file name for a finished tree.
func ArtifactName(wordLength int, mode string) string {
	return fmt.Sprintf("tree_%d_%s.json", wordLength, mode)
}

// CheckpointName returns the conventional file name for an in-progress
// build.
func CheckpointName(wordLength int, mode string) string {
	return fmt.Sprintf("checkpoint_%d_%s.json", wordLength, mode)
}
