package worker

import (
	"context"
	"log/slog"
	"time"

	"newsdesk/internal/ingest"
)

// IngestWorker runs the ingestion pipeline on an interval. Runs never
// overlap: the next tick waits for the previous run to finish, which is the
// serialization the pipeline requires.
type IngestWorker struct {
	Pipeline *ingest.Pipeline
	Interval time.Duration
}

func (w *IngestWorker) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 30 * time.Minute
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *IngestWorker) runOnce(ctx context.Context) {
	report, err := w.Pipeline.Run(ctx)
	if err != nil {
		slog.Error("ingest worker: run failed", "error", err)
		return
	}
	slog.Info("ingest worker: run finished",
		"items", report.Items,
		"duplicates", report.Duplicates,
		"highlights", report.Highlights)
}
