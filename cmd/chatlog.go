package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var chatlogLimit int

// chatlogCmd prints recent question/answer exchanges.
var chatlogCmd = &cobra.Command{
	Use:   "chatlog",
	Short: "Show recent question/answer history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		entries, err := store.RecentChatLog(ctx, chatlogLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(out, "[%s]\nQ: %s\nA: %s\n\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Question, e.Answer)
		}
		return nil
	},
}

func init() {
	chatlogCmd.Flags().IntVar(&chatlogLimit, "limit", 20, "max entries")
	rootCmd.AddCommand(chatlogCmd)
}
