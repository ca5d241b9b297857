// Package highlight collapses clustered news items into one ranked highlight
// per cluster.
package highlight

import (
	"sort"
	"strings"
	"time"

	"newsdesk/internal/model"
)

// Score weights. Frequency counts distinct sources; keyword hits are counted
// over the representative item's title+summary, case-insensitive. The 10/50/20
// calibration is the designed behavior, not a tunable statistical model.
const (
	frequencyWeight  = 10
	breakingWeight   = 50
	importanceWeight = 20
)

// Synthesizer builds highlights from annotated items.
type Synthesizer struct {
	vocab Vocabulary
	now   func() time.Time
}

func NewSynthesizer(vocab Vocabulary) *Synthesizer {
	return &Synthesizer{vocab: vocab, now: time.Now}
}

type ranked struct {
	highlight model.Highlight
	clusterID int
}

// Synthesize produces one highlight per distinct cluster id, sorted by
// descending priority score; ties break by ascending cluster id so output is
// reproducible.
func (s *Synthesizer) Synthesize(items []model.Annotated) []model.Highlight {
	if len(items) == 0 {
		return nil
	}

	// Group by cluster id preserving arrival order within each cluster. The
	// first member of each cluster is its representative by construction.
	order := make([]int, 0)
	clusters := make(map[int][]model.Annotated)
	for _, it := range items {
		if _, ok := clusters[it.ClusterID]; !ok {
			order = append(order, it.ClusterID)
		}
		clusters[it.ClusterID] = append(clusters[it.ClusterID], it)
	}

	now := s.now().UTC()
	out := make([]ranked, 0, len(order))
	for _, id := range order {
		members := clusters[id]
		rep := members[0].Item

		sources := distinctSources(members)
		authors := distinctAuthors(members)

		frequency := len(sources)
		breakingHits := s.countHits(rep, s.vocab.Breaking)
		importanceHits := s.countHits(rep, s.vocab.Importance)

		out = append(out, ranked{
			clusterID: id,
			highlight: model.Highlight{
				ItemID:        rep.ID,
				ItemURL:       rep.SourceURL,
				Title:         rep.Title,
				Summary:       rep.Summary,
				Category:      rep.Category,
				Frequency:     frequency,
				PriorityScore: float64(frequency*frequencyWeight + breakingHits*breakingWeight + importanceHits*importanceWeight),
				Sources:       sources,
				Authors:       authors,
				IsBreaking:    breakingHits > 0,
				CreatedAt:     now,
			},
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].highlight.PriorityScore != out[j].highlight.PriorityScore {
			return out[i].highlight.PriorityScore > out[j].highlight.PriorityScore
		}
		return out[i].clusterID < out[j].clusterID
	})

	highlights := make([]model.Highlight, len(out))
	for i, r := range out {
		highlights[i] = r.highlight
	}
	return highlights
}

func (s *Synthesizer) countHits(rep model.Item, keywords []string) int {
	text := strings.ToLower(rep.Title + " " + rep.Summary)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	return hits
}

// distinctSources keeps every distinct source value, including unnamed ones;
// frequency must always equal the number of distinct sources in the cluster.
func distinctSources(members []model.Annotated) []string {
	seen := make(map[string]struct{}, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		v := m.Item.Source
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// distinctAuthors keeps distinct non-empty author names.
func distinctAuthors(members []model.Annotated) []string {
	seen := make(map[string]struct{}, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		v := strings.TrimSpace(m.Item.Author)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
