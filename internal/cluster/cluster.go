// Package cluster groups a batch of news items into duplicate clusters.
//
// Two interchangeable strategies exist: SemanticClusterer (embedding cosine
// similarity with single-link chaining) and LexicalClusterer (title-prefix
// matching). The lexical mode is a deliberately coarse, cheap approximation
// used when the embedding provider is disabled or unavailable.
package cluster

import (
	"context"

	"newsdesk/internal/model"
)

// Clusterer annotates a batch of items with cluster ids and duplicate flags.
// For a fixed input order the output is deterministic: cluster ids are
// assigned in order of each cluster's earliest item, and that earliest item
// is the cluster representative (Duplicate=false).
type Clusterer interface {
	Cluster(ctx context.Context, items []model.Item) ([]model.Annotated, error)
}

// annotate converts a per-item leader assignment into the Annotated output.
// leader[i] is the index of the item that leads item i's group (its earliest
// member). Cluster ids are renumbered 0..n-1 by first appearance.
func annotate(items []model.Item, leader []int) []model.Annotated {
	out := make([]model.Annotated, len(items))
	clusterOf := make(map[int]int, len(items))
	next := 0
	for i, it := range items {
		lead := leader[i]
		id, ok := clusterOf[lead]
		if !ok {
			id = next
			next++
			clusterOf[lead] = id
		}
		out[i] = model.Annotated{
			Item:      it,
			ClusterID: id,
			Duplicate: i != lead,
		}
	}
	return out
}
