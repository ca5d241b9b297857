package retrieval

import (
	"context"
	"testing"

	"newsdesk/internal/model"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func TestKeywordFallbackScenario(t *testing.T) {
	// Query tokens longer than 3 chars: "sports", "finance", "results".
	// Both items match exactly one token, so corpus order decides.
	corpus := []model.Item{
		{ID: 1, Title: "Finance markets today"},
		{ID: 2, Title: "Sports scores tonight"},
	}

	got, err := NewKeyword().Rank(context.Background(), "sports finance results", corpus, 5)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both items, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("tie must preserve corpus order, got %d then %d", got[0].ID, got[1].ID)
	}
}

func TestKeywordExcludesNonMatching(t *testing.T) {
	corpus := []model.Item{
		{ID: 1, Title: "Gardening tips"},
		{ID: 2, Title: "Championship final tonight"},
	}

	got, err := NewKeyword().Rank(context.Background(), "who won the championship", corpus, 5)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("expected only the matching item, got %+v", got)
	}
}

func TestKeywordShortTokensIgnored(t *testing.T) {
	corpus := []model.Item{{ID: 1, Title: "The cat sat"}}

	// Every query word is <= 3 chars, so nothing can match.
	got, err := NewKeyword().Rank(context.Background(), "the cat sat", corpus, 5)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches for short tokens, got %d", len(got))
	}
}

func TestRankEmptyCorpusAndZeroK(t *testing.T) {
	for _, r := range []Retriever{NewKeyword(), NewEmbedding(&fakeEmbedder{})} {
		got, err := r.Rank(context.Background(), "anything", nil, 5)
		if err != nil || len(got) != 0 {
			t.Errorf("empty corpus: got %v, %v; want empty, nil", got, err)
		}
		got, err = r.Rank(context.Background(), "anything", []model.Item{{Title: "x"}}, 0)
		if err != nil || len(got) != 0 {
			t.Errorf("k=0: got %v, %v; want empty, nil", got, err)
		}
	}
}

func TestSemanticRankOrdersByCosine(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"query":      {1, 0, 0},
		"near match": {0.9, 0.1, 0},
		"far match":  {0.1, 0.9, 0},
		"mid match":  {0.6, 0.4, 0},
	}}
	corpus := []model.Item{
		{ID: 1, Title: "far match"},
		{ID: 2, Title: "near match"},
		{ID: 3, Title: "mid match"},
	}

	got, err := NewEmbedding(emb).Rank(context.Background(), "query", corpus, 2)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("k=2 must cap results, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("expected ids [2 3], got [%d %d]", got[0].ID, got[1].ID)
	}
}

func TestSemanticRankSingletonCorpus(t *testing.T) {
	got, err := NewEmbedding(&fakeEmbedder{}).Rank(context.Background(), "q",
		[]model.Item{{ID: 7, Title: "only"}}, 3)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7 {
		t.Errorf("singleton corpus must always return its item, got %+v", got)
	}
}

func TestSemanticRankReusesStoredEmbeddings(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	corpus := []model.Item{
		{ID: 1, Title: "a", Embedding: []float32{1, 0}},
		{ID: 2, Title: "b", Embedding: []float32{0, 1}},
	}

	got, err := NewEmbedding(emb).Rank(context.Background(), "query", corpus, 2)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if emb.calls != 1 {
		t.Errorf("expected only the query embed call, got %d", emb.calls)
	}
	if got[0].ID != 1 {
		t.Errorf("stored embeddings must drive ranking, got id %d first", got[0].ID)
	}
}
