// Package config binds the resource and run knobs exposed to the
// driving layer: YAML file first, command-line flags override.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
)

// RoundSpec is one (word length, mode) cell of the tournament matrix.
type RoundSpec struct {
	WordLength int    `yaml:"word_length" json:"word_length"`
	Mode       string `yaml:"mode" json:"mode"`
}

// CanonicalRounds is the official matrix: {4,5,6} x {uniform,frequency}.
var CanonicalRounds = []RoundSpec{
	{WordLength: 4, Mode: game.ModeUniform},
	{WordLength: 4, Mode: game.ModeFrequency},
	{WordLength: 5, Mode: game.ModeUniform},
	{WordLength: 5, Mode: game.ModeFrequency},
	{WordLength: 6, Mode: game.ModeUniform},
	{WordLength: 6, Mode: game.ModeFrequency},
}

// Run is a full tournament configuration.
type Run struct {
	Name          string      `yaml:"name" json:"name,omitempty"`
	WordsPath     string      `yaml:"words" json:"words,omitempty"`
	WordLength    int         `yaml:"word_length" json:"word_length"`
	MaxGuesses    int         `yaml:"max_guesses" json:"max_guesses"`
	NumGames      int         `yaml:"num_games" json:"num_games"` // 0 = all secrets
	Seed          int64       `yaml:"seed" json:"seed"`
	VocabOnly     bool        `yaml:"vocab_only" json:"vocab_only"`
	Mode          string      `yaml:"mode" json:"mode"`
	Workers       int         `yaml:"workers" json:"workers"` // 0 = NumCPU-bounded default
	Official      bool        `yaml:"official" json:"official"`
	Repetitions   int         `yaml:"repetitions" json:"repetitions"`
	GameTimeoutMS int         `yaml:"game_timeout_ms" json:"game_timeout_ms"`
	MemoryLimitMB int         `yaml:"memory_limit_mb" json:"memory_limit_mb"`
	Shock         float64     `yaml:"shock" json:"shock"`
	TreeDir       string      `yaml:"tree_dir" json:"tree_dir"`
	OutDir        string      `yaml:"out" json:"out,omitempty"`
	Rounds        []RoundSpec `yaml:"rounds" json:"rounds,omitempty"`
	Strategies    []string    `yaml:"strategies" json:"strategies,omitempty"` // empty = all registered
}

// Default mirrors the historical CLI defaults.
func Default() Run {
	return Run{
		WordLength:    5,
		MaxGuesses:    6,
		Seed:          42,
		Mode:          game.ModeUniform,
		Repetitions:   1,
		GameTimeoutMS: 5000,
		MemoryLimitMB: 2048,
		TreeDir:       "data/trees",
		OutDir:        "results",
	}
}

// Load reads a YAML run config layered over the defaults.
func Load(path string) (Run, error) {
	run := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return run, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &run); err != nil {
		return run, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := run.Validate(); err != nil {
		return run, err
	}
	return run, nil
}

// Validate rejects configurations the orchestrator cannot honor.
func (r Run) Validate() error {
	if r.MaxGuesses <= 0 {
		return fmt.Errorf("max_guesses must be positive, got %d", r.MaxGuesses)
	}
	if r.Mode != game.ModeUniform && r.Mode != game.ModeFrequency && r.Mode != "both" {
		return fmt.Errorf("mode must be uniform, frequency or both, got %q", r.Mode)
	}
	if r.Repetitions <= 0 {
		return fmt.Errorf("repetitions must be positive, got %d", r.Repetitions)
	}
	if r.GameTimeoutMS <= 0 {
		return fmt.Errorf("game_timeout_ms must be positive, got %d", r.GameTimeoutMS)
	}
	if r.Shock < 0 {
		return fmt.Errorf("shock must be non-negative, got %g", r.Shock)
	}
	for _, rd := range r.Rounds {
		if rd.WordLength <= 0 {
			return fmt.Errorf("round word_length must be positive, got %d", rd.WordLength)
		}
		if rd.Mode != game.ModeUniform && rd.Mode != game.ModeFrequency {
			return fmt.Errorf("round mode must be uniform or frequency, got %q", rd.Mode)
		}
	}
	return nil
}

// Matrix resolves the rounds this run plays: explicit rounds win, the
// official flag selects the canonical matrix, otherwise a single round
// (or two, for mode "both") from the scalar settings.
func (r Run) Matrix() []RoundSpec {
	if len(r.Rounds) > 0 {
		return r.Rounds
	}
	if r.Official {
		return CanonicalRounds
	}
	if r.Mode == "both" {
		return []RoundSpec{
			{WordLength: r.WordLength, Mode: game.ModeUniform},
			{WordLength: r.WordLength, Mode: game.ModeFrequency},
		}
	}
	return []RoundSpec{{WordLength: r.WordLength, Mode: r.Mode}}
}
