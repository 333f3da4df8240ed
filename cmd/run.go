package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sonder-art/rtorneo-wordle-p26/config"
	"github.com/sonder-art/rtorneo-wordle-p26/lexicon"
	"github.com/sonder-art/rtorneo-wordle-p26/tournament"
)

var runFlags struct {
	configPath string
	words      string
	dataDir    string
	length     int
	maxGuesses int
	numGames   int
	seed       int64
	vocabOnly  bool
	mode       string
	workers    int
	official   bool
	reps       int
	timeoutMS  int
	memoryMB   int
	shock      float64
	treeDir    string
	out        string
	strategies []string
	inProcess  bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a strategy tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := buildRunConfig(cmd)
		if err != nil {
			return err
		}

		loader := func(wordLength int, mode string) (*lexicon.Lexicon, error) {
			path := run.WordsPath
			if path == "" {
				path, err = defaultWordsPath(runFlags.dataDir, wordLength)
				if err != nil {
					return nil, err
				}
			}
			return lexicon.Load(path, wordLength, mode)
		}

		options := []tournament.Option{}
		if runFlags.inProcess {
			options = append(options, tournament.WithRunner(tournament.InProcessRunner{}))
		}
		if len(runFlags.strategies) > 0 {
			options = append(options, tournament.WithStrategies(runFlags.strategies))
		}

		orch := tournament.New(run, loader, options...)
		report, err := orch.Run(cmd.Context())
		if err != nil {
			return err
		}

		writer, err := tournament.NewWriter(run.OutDir, report.RunID)
		if err != nil {
			return err
		}
		if err := writer.WriteGames(report.Games); err != nil {
			return err
		}
		if err := writer.WriteReport(report); err != nil {
			return err
		}

		printLeaderboard(report)
		log.Info().Str("dir", writer.RunDir()).Msg("artifacts written")
		return nil
	},
}

func buildRunConfig(cmd *cobra.Command) (config.Run, error) {
	run := config.Default()
	if runFlags.configPath != "" {
		loaded, err := config.Load(runFlags.configPath)
		if err != nil {
			return run, err
		}
		run = loaded
	}

	// Flags set on the command line override the file.
	set := cmd.Flags().Changed
	if set("words") {
		run.WordsPath = runFlags.words
	}
	if set("length") {
		run.WordLength = runFlags.length
	}
	if set("max-guesses") {
		run.MaxGuesses = runFlags.maxGuesses
	}
	if set("num-games") {
		run.NumGames = runFlags.numGames
	}
	if set("seed") {
		run.Seed = runFlags.seed
	}
	if set("vocab-only") {
		run.VocabOnly = runFlags.vocabOnly
	}
	if set("mode") {
		run.Mode = runFlags.mode
	}
	if set("workers") {
		run.Workers = runFlags.workers
	}
	if set("official") {
		run.Official = runFlags.official
	}
	if set("repetitions") {
		run.Repetitions = runFlags.reps
	}
	if set("game-timeout-ms") {
		run.GameTimeoutMS = runFlags.timeoutMS
	}
	if set("memory-limit-mb") {
		run.MemoryLimitMB = runFlags.memoryMB
	}
	if set("shock") {
		run.Shock = runFlags.shock
	}
	if set("tree-dir") {
		run.TreeDir = runFlags.treeDir
	}
	if set("out") {
		run.OutDir = runFlags.out
	}
	return run, run.Validate()
}

// defaultWordsPath mirrors the historical lookup order: the downloaded
// frequency CSV first, the bundled mini list as fallback.
func defaultWordsPath(dataDir string, wordLength int) (string, error) {
	csvPath := fmt.Sprintf("%s/spanish_%dletter.csv", dataDir, wordLength)
	if _, err := os.Stat(csvPath); err == nil {
		return csvPath, nil
	}
	miniPath := fmt.Sprintf("%s/mini_spanish_%d.txt", dataDir, wordLength)
	if _, err := os.Stat(miniPath); err == nil {
		return miniPath, nil
	}
	return "", fmt.Errorf("no word list found for %d-letter words (looked for %s and %s)",
		wordLength, csvPath, miniPath)
}

func printLeaderboard(report *tournament.Report) {
	fmt.Printf("\n%-6s%-25s%10s%10s%10s\n", "Rank", "Strategy", "Points", "Solve%", "MeanG")
	for _, e := range report.Leaderboard {
		fmt.Printf("%-6d%-25s%10.1f%9.1f%%%10.2f\n",
			e.Rank, e.Strategy, e.TotalPoints, e.OverallSolveRate*100, e.OverallMeanGuesses)
	}
	fmt.Println()
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.configPath, "config", "", "YAML run configuration")
	f.StringVar(&runFlags.words, "words", "", "path to word list (.txt or .csv)")
	f.StringVar(&runFlags.dataDir, "data-dir", "data", "directory with default word lists")
	f.IntVar(&runFlags.length, "length", 5, "word length")
	f.IntVar(&runFlags.maxGuesses, "max-guesses", 6, "max guesses per game")
	f.IntVar(&runFlags.numGames, "num-games", 0, "subsample this many secrets (0 = all)")
	f.Int64Var(&runFlags.seed, "seed", 42, "master random seed (0 = random)")
	f.BoolVar(&runFlags.vocabOnly, "vocab-only", false, "restrict guesses to vocabulary words")
	f.StringVar(&runFlags.mode, "mode", "uniform", "probability mode: uniform, frequency or both")
	f.IntVar(&runFlags.workers, "workers", 0, "max parallel worker processes (0 = auto)")
	f.BoolVar(&runFlags.official, "official", false, "run the canonical {4,5,6}x{uniform,frequency} matrix")
	f.IntVar(&runFlags.reps, "repetitions", 1, "repetitions of the round matrix")
	f.IntVar(&runFlags.timeoutMS, "game-timeout-ms", 5000, "per-game wall-clock deadline")
	f.IntVar(&runFlags.memoryMB, "memory-limit-mb", 2048, "per-worker virtual memory cap")
	f.Float64Var(&runFlags.shock, "shock", 0, "perturbation noise scale for frequency mode")
	f.StringVar(&runFlags.treeDir, "tree-dir", "data/trees", "directory with precomputed decision trees")
	f.StringVar(&runFlags.out, "out", "results", "output directory")
	f.StringSliceVar(&runFlags.strategies, "strategy", nil, "restrict to these strategies (repeatable)")
	f.BoolVar(&runFlags.inProcess, "in-process", false, "run workers in-process (no OS isolation; debugging)")
	rootCmd.AddCommand(runCmd)
}
