package cmd

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sonder-art/rtorneo-wordle-p26/game"
	"github.com/sonder-art/rtorneo-wordle-p26/lexicon"
	"github.com/sonder-art/rtorneo-wordle-p26/tree"
)

var treeFlags struct {
	words         string
	dataDir       string
	lengths       []int
	modes         []string
	maxDepth      int
	minCandidates int
	workers       int
	out           string
}

var treesCmd = &cobra.Command{
	Use:   "trees",
	Short: "Precompute entropy decision trees",
	Long: `Builds one decision tree per (word length, mode) configuration.
Fully resumable: progress is checkpointed and a hard kill picks up
where it left off on the next invocation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, wordLength := range treeFlags.lengths {
			for _, mode := range treeFlags.modes {
				if err := buildOne(cmd, wordLength, mode); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func buildOne(cmd *cobra.Command, wordLength int, mode string) error {
	wordsPath := treeFlags.words
	if wordsPath == "" {
		var err error
		wordsPath, err = defaultWordsPath(treeFlags.dataDir, wordLength)
		if err != nil {
			return err
		}
	}
	lex, err := lexicon.Load(wordsPath, wordLength, mode)
	if err != nil {
		return err
	}

	checkpointPath := filepath.Join(treeFlags.out, tree.CheckpointName(wordLength, mode))
	artifactPath := filepath.Join(treeFlags.out, tree.ArtifactName(wordLength, mode))

	log.Info().Int("word_length", wordLength).Str("mode", mode).
		Str("artifact", artifactPath).Msg("building decision tree")

	builder := tree.NewBuilder(lex.Words, lex.Probs, checkpointPath,
		tree.WithMaxDepth(treeFlags.maxDepth),
		tree.WithMinCandidates(treeFlags.minCandidates),
		tree.WithWorkers(treeFlags.workers),
	)
	t, err := builder.Build(cmd.Context())
	if err != nil {
		return err
	}
	return builder.Finalize(t, artifactPath)
}

func init() {
	f := treesCmd.Flags()
	f.StringVar(&treeFlags.words, "words", "", "path to word list (.txt or .csv)")
	f.StringVar(&treeFlags.dataDir, "data-dir", "data", "directory with default word lists")
	f.IntSliceVar(&treeFlags.lengths, "length", []int{4, 5, 6}, "word lengths")
	f.StringSliceVar(&treeFlags.modes, "mode", []string{game.ModeUniform, game.ModeFrequency}, "probability modes")
	f.IntVar(&treeFlags.maxDepth, "max-depth", tree.DefaultMaxDepth, "max tree depth")
	f.IntVar(&treeFlags.minCandidates, "min-candidates", tree.DefaultMinCandidates, "stop expanding at or below this candidate count")
	f.IntVar(&treeFlags.workers, "workers", 0, "parallel workers (0 = all CPU cores)")
	f.StringVar(&treeFlags.out, "out", "data/trees", "tree output directory")
	rootCmd.AddCommand(treesCmd)
}
