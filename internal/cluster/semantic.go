package cluster

import (
	"context"
	"fmt"

	"newsdesk/internal/embedding"
	"newsdesk/internal/model"
)

// SemanticClusterer groups items whose title+summary embeddings are close in
// cosine space. Any two items with similarity at or above the threshold land
// in the same cluster, transitively (single-link chaining); a cluster of one
// is valid.
type SemanticClusterer struct {
	Embedder  Embedder
	Threshold float64 // cosine similarity cutoff, default 0.7
}

// Embedder is the slice of the embedding gateway the clusterer needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

func NewSemantic(e Embedder, threshold float64) *SemanticClusterer {
	if threshold <= 0 {
		threshold = 0.7
	}
	return &SemanticClusterer{Embedder: e, Threshold: threshold}
}

// Cluster embeds every item (reusing stored vectors when present), links
// pairs above the similarity threshold through a union-find, and annotates.
// An embedding.ErrUnavailable from the provider is returned as-is so the
// caller can retry in lexical mode.
func (c *SemanticClusterer) Cluster(ctx context.Context, items []model.Item) ([]model.Annotated, error) {
	if len(items) < 2 {
		return singletons(items), nil
	}

	vecs := make([][]float32, len(items))
	for i, it := range items {
		if len(it.Embedding) > 0 {
			vecs[i] = it.Embedding
			continue
		}
		v, err := c.Embedder.Embed(ctx, it.EmbedText())
		if err != nil {
			return nil, fmt.Errorf("embed item %q: %w", it.SourceURL, err)
		}
		vecs[i] = v
	}

	uf := newUnionFind(len(items))
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if embedding.Cosine(vecs[i], vecs[j]) >= c.Threshold {
				uf.union(i, j)
			}
		}
	}

	// The union-find roots by smallest index, so the root of each set is its
	// earliest-arriving member.
	leader := make([]int, len(items))
	for i := range items {
		leader[i] = uf.find(i)
	}

	annotated := annotate(items, leader)
	for i := range annotated {
		annotated[i].Item.Embedding = vecs[i]
	}
	return annotated, nil
}

func singletons(items []model.Item) []model.Annotated {
	out := make([]model.Annotated, len(items))
	for i, it := range items {
		out[i] = model.Annotated{Item: it, ClusterID: i, Duplicate: false}
	}
	return out
}

// unionFind is a plain disjoint-set with union by index order: the smaller
// index always wins as root, which keeps cluster leadership deterministic.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(i, j int) {
	ri, rj := u.find(i), u.find(j)
	if ri == rj {
		return
	}
	if ri < rj {
		u.parent[rj] = ri
	} else {
		u.parent[ri] = rj
	}
}
