// Package ingest runs the ingestion pipeline: fetch all configured sources
// concurrently, collapse duplicates into clusters, synthesize highlights, and
// commit the whole run in one transaction.
//
// Runs are not safe to interleave; callers serialize them (the ingest worker
// and the one-shot CLI command both do).
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsdesk/internal/cluster"
	"newsdesk/internal/embedding"
	"newsdesk/internal/feed"
	"newsdesk/internal/highlight"
	"newsdesk/internal/model"
)

// Store is the slice of the persistence collaborator the pipeline needs.
type Store interface {
	CommitRun(ctx context.Context, items []model.Annotated, highlights []model.Highlight) error
}

// Pipeline wires sources, clustering, highlight synthesis, and storage.
type Pipeline struct {
	Sources     []feed.Source
	Store       Store
	Clusterer   cluster.Clusterer
	Fallback    cluster.Clusterer // lexical mode, used when embeddings are unavailable
	Synthesizer *highlight.Synthesizer

	SourceTimeout time.Duration
	RunTimeout    time.Duration

	now func() time.Time
}

// Report summarizes one pipeline run.
type Report struct {
	Fetched         int
	Items           int // after in-batch URL dedupe
	Duplicates      int // items flagged as duplicate coverage
	Clusters        int
	Highlights      int
	FailedSources   []string
	LexicalFellBack bool
}

// Run executes one ingestion cycle. Fetch failures are isolated per source;
// the only fatal error is a storage failure.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	if p.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.RunTimeout)
		defer cancel()
	}

	raw, failed := p.fetchAll(ctx)

	report := Report{Fetched: len(raw), FailedSources: failed}
	items := p.prepare(raw)
	report.Items = len(items)
	if len(items) == 0 {
		slog.Info("ingest: nothing to do", "failed_sources", failed)
		return report, nil
	}

	annotated, fellBack, err := p.clusterItems(ctx, items)
	if err != nil {
		return report, fmt.Errorf("cluster items: %w", err)
	}
	report.LexicalFellBack = fellBack

	clusterIDs := map[int]struct{}{}
	for _, a := range annotated {
		clusterIDs[a.ClusterID] = struct{}{}
		if a.Duplicate {
			report.Duplicates++
		}
	}
	report.Clusters = len(clusterIDs)

	highlights := p.Synthesizer.Synthesize(annotated)
	report.Highlights = len(highlights)

	if err := p.Store.CommitRun(ctx, annotated, highlights); err != nil {
		return report, fmt.Errorf("commit run: %w", err)
	}

	slog.Info("ingest: run complete",
		"fetched", report.Fetched,
		"items", report.Items,
		"duplicates", report.Duplicates,
		"clusters", report.Clusters,
		"highlights", report.Highlights,
		"failed_sources", failed)
	return report, nil
}

// fetchAll fans one goroutine out per source with an individual timeout, so a
// slow or dead source cannot stall the rest. Results keep source config order
// to make downstream clustering deterministic.
func (p *Pipeline) fetchAll(ctx context.Context) ([]model.RawItem, []string) {
	results := make([][]model.RawItem, len(p.Sources))
	errs := make([]error, len(p.Sources))

	var wg sync.WaitGroup
	for i, src := range p.Sources {
		wg.Add(1)
		go func(i int, src feed.Source) {
			defer wg.Done()
			fetchCtx := ctx
			if p.SourceTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, p.SourceTimeout)
				defer cancel()
			}
			items, err := src.Fetch(fetchCtx)
			results[i], errs[i] = items, err
		}(i, src)
	}
	wg.Wait()

	var raw []model.RawItem
	var failed []string
	for i, src := range p.Sources {
		if errs[i] != nil {
			slog.Error("ingest: source fetch failed", "source", src.Name(), "err", errs[i])
			failed = append(failed, src.Name())
			continue
		}
		raw = append(raw, results[i]...)
	}
	return raw, failed
}

// prepare dedupes the batch by link and converts raw items into storable
// items with category and summary filled in.
func (p *Pipeline) prepare(raw []model.RawItem) []model.Item {
	now := p.timeNow().UTC()
	seen := make(map[string]struct{}, len(raw))
	items := make([]model.Item, 0, len(raw))
	for _, r := range raw {
		if r.Link == "" {
			continue
		}
		if _, ok := seen[r.Link]; ok {
			continue
		}
		seen[r.Link] = struct{}{}

		category := r.Category
		if category == "" {
			category = categorize(r.Title, r.Content)
		}
		text := r.Content
		if text == "" {
			text = r.Summary
		}
		items = append(items, model.Item{
			Title:       r.Title,
			Text:        truncate(text, 1000),
			Summary:     ensureSummary(r.Title, r.Summary, r.Content, r.Source),
			Author:      r.Author,
			Source:      r.Source,
			SourceURL:   r.Link,
			Category:    category,
			PublishedAt: r.PublishedAt,
			IngestedAt:  now,
			ClusterID:   model.ClusterUnassigned,
		})
	}
	return items
}

// clusterItems tries the configured clusterer first and drops to the lexical
// fallback when the embedding provider is unavailable. The fallback is a
// coarser approximation, not an error condition.
func (p *Pipeline) clusterItems(ctx context.Context, items []model.Item) ([]model.Annotated, bool, error) {
	annotated, err := p.Clusterer.Cluster(ctx, items)
	if err == nil {
		return annotated, false, nil
	}
	if errors.Is(err, embedding.ErrUnavailable) && p.Fallback != nil {
		slog.Warn("ingest: embedding unavailable, clustering lexically", "err", err)
		annotated, err = p.Fallback.Cluster(ctx, items)
		if err != nil {
			return nil, true, err
		}
		return annotated, true, nil
	}
	return nil, false, err
}

func (p *Pipeline) timeNow() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}
