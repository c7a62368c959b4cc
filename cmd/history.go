package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"scma-sync/core/config"
	"scma-sync/core/history"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recorded sync runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.History.Enabled {
			return fmt.Errorf("history is disabled (HISTORY_ENABLED=false)")
		}

		store, err := history.Open(cfg.History)
		if err != nil {
			return err
		}

		runs, err := store.List(context.Background(), historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tKIND\tDRY RUN\tINSERTS\tUPDATES\tDELETES\tFAILED\tERROR")
		for _, run := range runs {
			errText := run.Error
			if len(errText) > 60 {
				errText = errText[:57] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%d\t%d\t%d\t%s\n",
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.Kind, run.DryRun,
				run.Inserts, run.Updates, run.Deletes, run.Failed,
				errText,
			)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	RootCmd.AddCommand(historyCmd)
}
