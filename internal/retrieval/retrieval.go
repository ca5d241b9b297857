// Package retrieval ranks a corpus of news items against a free-text query.
//
// The semantic retriever scores by embedding cosine similarity; the keyword
// retriever is a cheaper fallback used when embedding cost must be avoided.
// The caller selects which one to use; retrievers never decide that
// themselves.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"newsdesk/internal/embedding"
	"newsdesk/internal/model"
)

// Retriever returns up to k corpus items, most relevant to the query first.
// An empty corpus or k <= 0 yields an empty result, not an error. Ties keep
// corpus input order.
type Retriever interface {
	Rank(ctx context.Context, query string, corpus []model.Item, k int) ([]model.Item, error)
}

// EmbeddingRetriever ranks by cosine similarity between the query embedding
// and each item's title+summary embedding. Stored item embeddings are reused
// when present.
type EmbeddingRetriever struct {
	Embedder embedding.Embedder
}

func NewEmbedding(e embedding.Embedder) *EmbeddingRetriever {
	return &EmbeddingRetriever{Embedder: e}
}

func (r *EmbeddingRetriever) Rank(ctx context.Context, query string, corpus []model.Item, k int) ([]model.Item, error) {
	if len(corpus) == 0 || k <= 0 {
		return nil, nil
	}

	queryVec, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		item  model.Item
		score float64
	}
	results := make([]scored, 0, len(corpus))
	for _, it := range corpus {
		vec := it.Embedding
		if len(vec) == 0 {
			vec, err = r.Embedder.Embed(ctx, it.EmbedText())
			if err != nil {
				return nil, fmt.Errorf("embed item %q: %w", it.SourceURL, err)
			}
		}
		results = append(results, scored{item: it, score: embedding.Cosine(queryVec, vec)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	out := make([]model.Item, k)
	for i := 0; i < k; i++ {
		out[i] = results[i].item
	}
	return out, nil
}

// KeywordRetriever ranks by counting query tokens (length > 3) that appear as
// case-insensitive substrings of an item's title or summary. Items matching
// no token are dropped.
type KeywordRetriever struct{}

func NewKeyword() *KeywordRetriever {
	return &KeywordRetriever{}
}

func (r *KeywordRetriever) Rank(_ context.Context, query string, corpus []model.Item, k int) ([]model.Item, error) {
	if len(corpus) == 0 || k <= 0 {
		return nil, nil
	}

	tokens := queryTokens(query)

	type scored struct {
		item  model.Item
		score int
	}
	results := make([]scored, 0, len(corpus))
	for _, it := range corpus {
		text := strings.ToLower(it.Title + " " + it.Summary)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				score++
			}
		}
		if score > 0 {
			results = append(results, scored{item: it, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	out := make([]model.Item, k)
	for i := 0; i < k; i++ {
		out[i] = results[i].item
	}
	return out, nil
}

func queryTokens(query string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(query)) {
		if len(f) > 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
