package cluster

import (
	"context"
	"strings"

	"newsdesk/internal/model"
)

const lexicalKeyLen = 50

// LexicalClusterer is the degraded fallback: two items are duplicates iff the
// first 50 characters of their lowercased, trimmed titles match. Items with
// empty titles all share the empty key and therefore collapse into a single
// cluster; that is accepted behavior for this mode, not a bug.
type LexicalClusterer struct{}

func NewLexical() *LexicalClusterer {
	return &LexicalClusterer{}
}

func lexicalKey(title string) string {
	key := strings.ToLower(strings.TrimSpace(title))
	if r := []rune(key); len(r) > lexicalKeyLen {
		key = string(r[:lexicalKeyLen])
	}
	return key
}

func (c *LexicalClusterer) Cluster(_ context.Context, items []model.Item) ([]model.Annotated, error) {
	if len(items) < 2 {
		return singletons(items), nil
	}

	leader := make([]int, len(items))
	seen := make(map[string]int, len(items)) // key -> earliest index
	for i, it := range items {
		key := lexicalKey(it.Title)
		if lead, ok := seen[key]; ok {
			leader[i] = lead
		} else {
			seen[key] = i
			leader[i] = i
		}
	}
	return annotate(items, leader), nil
}
