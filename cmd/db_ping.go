package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// dbPingCmd pings the configured Postgres server.
var dbPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbPingCmd)
}
