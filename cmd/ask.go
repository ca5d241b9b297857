package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/answer"
	"newsdesk/internal/retrieval"

	"github.com/spf13/cobra"
)

// askCmd answers one question against the ingested items.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about recent news",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		cfg := GetConfig()

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		retriever, err := newRetriever(cfg)
		if err != nil {
			return err
		}

		orch := &answer.Orchestrator{
			Items:           store,
			Retriever:       retriever,
			Fallback:        retrieval.NewKeyword(),
			Generator:       newGenerator(cfg),
			Log:             store,
			Timeout:         cfg.AnswerTimeout(),
			MaxTokens:       cfg.Answer.MaxTokens,
			MaxContextItems: cfg.Answer.MaxContextItems,
			RecentLimit:     cfg.Answer.RecentLimit,
			TopK:            cfg.Retrieval.TopK,
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.AnswerTimeout()+30*time.Second)
		defer cancel()

		resp, err := orch.Ask(ctx, question)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, resp.Answer)
		if len(resp.Sources) > 0 {
			fmt.Fprintf(out, "\nSources: %s\n", strings.Join(resp.Sources, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
