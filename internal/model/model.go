package model

import "time"

// RawItem is a news item as delivered by a feed source, before persistence.
type RawItem struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Source      string    `json:"source"`
	Link        string    `json:"link"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"published_at"`
}

// Item is a persisted news item. SourceURL is the natural key: ingesting an
// item whose SourceURL already exists updates the stored row instead of
// creating a new one.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Summary     string    `json:"summary"`
	Author      string    `json:"author"`
	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"published_at"`
	IngestedAt  time.Time `json:"ingested_at"`
	Embedding   []float32 `json:"embedding,omitempty"`
	ClusterID   int       `json:"cluster_id"`
	IsDuplicate bool      `json:"is_duplicate"`
}

// ClusterUnassigned marks an item that has not been through clustering yet.
const ClusterUnassigned = -1

// Annotated pairs an item with its clustering verdict. Clusterers return new
// Annotated values rather than mutating their input items.
type Annotated struct {
	Item      Item
	ClusterID int
	Duplicate bool
}

// Highlight is the synthesized, ranked aggregate of one cluster. The full
// highlight set is recomputed wholesale on every ingestion run; it is a
// cache, never edited in place.
type Highlight struct {
	ID            int64     `json:"id"`
	ItemID        int64     `json:"item_id"` // representative item
	ItemURL       string    `json:"-"`       // representative source_url; resolves ItemID for items not yet persisted
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Category      string    `json:"category"`
	Frequency     int       `json:"frequency"` // distinct sources in the cluster
	PriorityScore float64   `json:"priority_score"`
	Sources       []string  `json:"sources"`
	Authors       []string  `json:"authors"`
	IsBreaking    bool      `json:"is_breaking"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatLogEntry records one question/answer exchange. Append-only.
type ChatLogEntry struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	ItemIDs   []int64   `json:"item_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// EmbedText returns the text an item is embedded from: title plus summary.
func (it Item) EmbedText() string {
	if it.Summary == "" {
		return it.Title
	}
	return it.Title + " " + it.Summary
}
