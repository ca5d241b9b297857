package cmd

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/report"

	"github.com/spf13/cobra"
)

var (
	hlCategory string
	hlBreaking bool
	hlLimit    int
)

// highlightsCmd prints the current highlight set as a markdown digest.
var highlightsCmd = &cobra.Command{
	Use:   "highlights",
	Short: "Show current news highlights, ranked by priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		limit := hlLimit
		if limit <= 0 {
			limit = cfg.Highlights.Limit
		}
		highlights, err := store.TopHighlights(ctx, hlCategory, hlBreaking, limit)
		if err != nil {
			return err
		}
		if len(highlights) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no highlights yet; run `newsdesk ingest` first")
			return nil
		}

		md, err := report.Render("News Highlights", highlights, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	highlightsCmd.Flags().StringVar(&hlCategory, "category", "", "filter by category")
	highlightsCmd.Flags().BoolVar(&hlBreaking, "breaking", false, "only breaking highlights")
	highlightsCmd.Flags().IntVar(&hlLimit, "limit", 0, "max highlights (default from config)")
	rootCmd.AddCommand(highlightsCmd)
}
