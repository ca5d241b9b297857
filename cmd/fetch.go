package cmd

import (
	"context"
	"fmt"

	"newsdesk/internal/feed"

	"github.com/spf13/cobra"
)

// fetchCmd fetches a single configured source and prints what it returned,
// for debugging feed problems without touching storage.
var fetchCmd = &cobra.Command{
	Use:   "fetch <source-name>",
	Short: "Fetch one configured source and print its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		for _, s := range cfg.Sources {
			if s.Name != args[0] {
				continue
			}
			src := feed.NewRSS(s.Name, s.URL, s.Category)

			ctx, cancel := context.WithTimeout(context.Background(), cfg.SourceTimeout())
			defer cancel()

			items, err := src.Fetch(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, it := range items {
				fmt.Fprintf(out, "- %s\n  %s\n  author=%q published=%s\n",
					it.Title, it.Link, it.Author, it.PublishedAt.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(out, "%d items\n", len(items))
			return nil
		}
		return fmt.Errorf("source %q is not configured", args[0])
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
