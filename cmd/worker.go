package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sonder-art/rtorneo-wordle-p26/tournament"
)

// workerCmd is the entry point the orchestrator execs into: one job as
// JSON on stdin, game results as JSON on stdout. Hidden because it is
// an implementation detail of process isolation, not a user command.
var workerCmd = &cobra.Command{
	Use:    "worker",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tournament.RunWorker(os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
