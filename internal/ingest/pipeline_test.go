package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsdesk/internal/cluster"
	"newsdesk/internal/embedding"
	"newsdesk/internal/highlight"
	"newsdesk/internal/model"
)

type fakeSource struct {
	name  string
	items []model.RawItem
	err   error
	delay time.Duration
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) ([]model.RawItem, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.items, f.err
}

type fakeStore struct {
	items      []model.Annotated
	highlights []model.Highlight
	commits    int
	err        error
}

func (f *fakeStore) CommitRun(_ context.Context, items []model.Annotated, highlights []model.Highlight) error {
	f.commits++
	f.items = items
	f.highlights = highlights
	return f.err
}

type unavailableClusterer struct{}

func (unavailableClusterer) Cluster(context.Context, []model.Item) ([]model.Annotated, error) {
	return nil, embedding.ErrUnavailable
}

func raw(title, link, source string) model.RawItem {
	return model.RawItem{Title: title, Link: link, Source: source, Category: "sports"}
}

func pipeline(store Store, sources ...*fakeSource) *Pipeline {
	p := &Pipeline{
		Store:       store,
		Clusterer:   cluster.NewLexical(),
		Fallback:    cluster.NewLexical(),
		Synthesizer: highlight.NewSynthesizer(highlight.DefaultVocabulary()),
		now:         func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
	for _, s := range sources {
		p.Sources = append(p.Sources, s)
	}
	return p
}

func TestRunSourceFailureIsolated(t *testing.T) {
	store := &fakeStore{}
	p := pipeline(store,
		&fakeSource{name: "good", items: []model.RawItem{raw("Team wins", "u1", "good")}},
		&fakeSource{name: "bad", err: errors.New("connection reset")},
	)

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("a failing source must not fail the run: %v", err)
	}
	if len(report.FailedSources) != 1 || report.FailedSources[0] != "bad" {
		t.Errorf("failed sources = %v, want [bad]", report.FailedSources)
	}
	if report.Items != 1 || store.commits != 1 {
		t.Errorf("healthy source output must be committed: items=%d commits=%d",
			report.Items, store.commits)
	}
}

func TestRunDedupesByLink(t *testing.T) {
	store := &fakeStore{}
	p := pipeline(store, &fakeSource{name: "s", items: []model.RawItem{
		raw("Story one", "same-link", "s"),
		raw("Story one again", "same-link", "s"),
		raw("Story two", "other-link", "s"),
	}})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Fetched != 3 || report.Items != 2 {
		t.Errorf("fetched=%d items=%d, want 3 fetched collapsing to 2", report.Fetched, report.Items)
	}
}

func TestRunReportCounts(t *testing.T) {
	store := &fakeStore{}
	p := pipeline(store, &fakeSource{name: "s", items: []model.RawItem{
		{Title: "Team wins championship", Link: "u1", Source: "ABC", Category: "sports"},
		{Title: "Team wins championship", Link: "u2", Source: "SBS", Category: "sports"},
		{Title: "Quiet gardening feature", Link: "u3", Source: "ABC", Category: "lifestyle"},
	}})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Clusters != 2 {
		t.Errorf("clusters = %d, want 2", report.Clusters)
	}
	if report.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", report.Duplicates)
	}
	if report.Highlights != 2 {
		t.Errorf("highlights = %d, want one per cluster", report.Highlights)
	}
	if len(store.items) != 3 {
		t.Errorf("all items persist, duplicates included: got %d", len(store.items))
	}
}

func TestRunLexicalFallback(t *testing.T) {
	store := &fakeStore{}
	p := pipeline(store, &fakeSource{name: "s", items: []model.RawItem{
		raw("Team wins", "u1", "ABC"),
		raw("Team wins", "u2", "SBS"),
	}})
	p.Clusterer = unavailableClusterer{}

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("fallback must absorb an unavailable provider: %v", err)
	}
	if !report.LexicalFellBack {
		t.Errorf("report must record the lexical fallback")
	}
	if report.Clusters != 1 || report.Duplicates != 1 {
		t.Errorf("lexical clustering still groups identical titles: %+v", report)
	}
}

func TestRunStoreFailureIsFatal(t *testing.T) {
	store := &fakeStore{err: errors.New("deadlock detected")}
	p := pipeline(store, &fakeSource{name: "s", items: []model.RawItem{raw("x", "u1", "s")}})

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatalf("storage failure must propagate")
	}
}

func TestRunEmptyBatchSkipsCommit(t *testing.T) {
	store := &fakeStore{}
	p := pipeline(store, &fakeSource{name: "down", err: errors.New("unreachable")})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if store.commits != 0 {
		t.Errorf("nothing fetched means nothing committed, got %d commits", store.commits)
	}
	if report.Items != 0 {
		t.Errorf("items = %d, want 0", report.Items)
	}
}

func TestRunSlowSourceTimesOut(t *testing.T) {
	store := &fakeStore{}
	p := pipeline(store,
		&fakeSource{name: "slow", delay: 2 * time.Second,
			items: []model.RawItem{raw("late", "u1", "slow")}},
		&fakeSource{name: "fast", items: []model.RawItem{raw("on time", "u2", "fast")}},
	)
	p.SourceTimeout = 50 * time.Millisecond

	start := time.Now()
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("slow source must not stall the run")
	}
	if len(report.FailedSources) != 1 || report.FailedSources[0] != "slow" {
		t.Errorf("failed sources = %v, want [slow]", report.FailedSources)
	}
	if report.Items != 1 {
		t.Errorf("items = %d, want the fast source's item", report.Items)
	}
}
