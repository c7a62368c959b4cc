package cmd

import (
	"context"
	"fmt"
	"os"

	"scma-sync/feature/club"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	fetchOutput string
	fetchUsers  bool
)

// fetchCmd prints the source records as a YAML snapshot. The snapshot can
// be fed back to the sync commands with --input, which makes dry runs and
// repeated syncs reproducible without refetching.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch club records and print them as a YAML snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = rt.log.Sync() }()

		events, err := rt.fetchEvents(ctx)
		if err != nil {
			return err
		}

		doc := club.Document{Events: events}
		if fetchUsers {
			users, err := rt.fetchUsers(ctx)
			if err != nil {
				return err
			}
			doc.Users = users
		}

		out := os.Stdout
		if fetchOutput != "" {
			f, err := os.Create(fetchOutput)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(doc)
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "", "Write the snapshot to a file instead of stdout")
	fetchCmd.Flags().BoolVar(&fetchUsers, "users", false, "Include the member roster in the snapshot")
	fetchCmd.Flags().StringVar(&syncInput, "input", "", "Read from a YAML snapshot instead of the club site")
	fetchCmd.Flags().StringVar(&syncDates, "dates", "", "Which events to fetch: all or upcoming (default from config)")
	RootCmd.AddCommand(fetchCmd)
}
