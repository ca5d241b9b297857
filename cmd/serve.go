package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ingestion worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		schemaCtx, schemaCancel := context.WithTimeout(ctx, 10*time.Second)
		err = store.EnsureSchema(schemaCtx)
		schemaCancel()
		if err != nil {
			return err
		}

		pipeline, err := newPipeline(cfg, store)
		if err != nil {
			return err
		}

		ws := []worker.Worker{
			&worker.IngestWorker{Pipeline: pipeline, Interval: cfg.IngestInterval()},
		}
		mgr := worker.NewManager(ws...)

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
