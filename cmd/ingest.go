package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// ingestCmd runs one ingestion cycle and prints the run report.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch all sources once, rebuild highlights, and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout()+10*time.Second)
		defer cancel()

		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}

		pipeline, err := newPipeline(cfg, store)
		if err != nil {
			return err
		}

		report, err := pipeline.Run(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "fetched:    %d\n", report.Fetched)
		fmt.Fprintf(out, "items:      %d\n", report.Items)
		fmt.Fprintf(out, "duplicates: %d\n", report.Duplicates)
		fmt.Fprintf(out, "clusters:   %d\n", report.Clusters)
		fmt.Fprintf(out, "highlights: %d\n", report.Highlights)
		if report.LexicalFellBack {
			fmt.Fprintln(out, "note: embeddings unavailable, clustered lexically")
		}
		if len(report.FailedSources) > 0 {
			fmt.Fprintf(out, "failed sources: %s\n", strings.Join(report.FailedSources, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
