// Package storage persists items, highlights, and the chat log in Postgres.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"newsdesk/internal/model"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("storage: not found")

// Store wraps a Postgres connection. All ingestion writes for one pipeline
// run go through CommitRun in a single transaction.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// Open connects to Postgres using the lib/pq driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func New(db *sql.DB) *Store {
	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMPTZ,
			ingested_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			embedding TEXT NOT NULL DEFAULT '[]',
			cluster_id INT NOT NULL DEFAULT -1,
			is_duplicate BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS highlights (
			id BIGSERIAL PRIMARY KEY,
			item_id BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			frequency INT NOT NULL DEFAULT 1,
			priority_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			sources TEXT[] NOT NULL DEFAULT '{}',
			authors TEXT[] NOT NULL DEFAULT '{}',
			is_breaking BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS chat_log (
			id BIGSERIAL PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			item_ids BIGINT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// CommitRun writes one ingestion run atomically: upsert every annotated item
// by its source_url, then replace the entire highlight set. Highlight item
// references are resolved against the ids the upserts returned.
func (s *Store) CommitRun(ctx context.Context, items []model.Annotated, highlights []model.Highlight) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	idByURL := make(map[string]int64, len(items))
	for _, a := range items {
		id, err := s.upsertItem(ctx, tx, a)
		if err != nil {
			return fmt.Errorf("upsert item %q: %w", a.Item.SourceURL, err)
		}
		idByURL[a.Item.SourceURL] = id
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM highlights`); err != nil {
		return fmt.Errorf("clear highlights: %w", err)
	}
	for _, h := range highlights {
		if id, ok := idByURL[h.ItemURL]; ok {
			h.ItemID = id
		}
		if err := s.insertHighlight(ctx, tx, h); err != nil {
			return fmt.Errorf("insert highlight %q: %w", h.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func (s *Store) upsertItem(ctx context.Context, tx *sql.Tx, a model.Annotated) (int64, error) {
	emb, err := json.Marshal(a.Item.Embedding)
	if err != nil {
		return 0, fmt.Errorf("marshal embedding: %w", err)
	}

	query, args, err := s.sb.Insert("items").
		Columns("title", "text", "summary", "author", "source", "source_url",
			"category", "published_at", "ingested_at", "embedding", "cluster_id", "is_duplicate").
		Values(a.Item.Title, a.Item.Text, a.Item.Summary, a.Item.Author, a.Item.Source,
			a.Item.SourceURL, a.Item.Category, a.Item.PublishedAt, a.Item.IngestedAt,
			string(emb), a.ClusterID, a.Duplicate).
		Suffix(`ON CONFLICT (source_url) DO UPDATE SET
			title = EXCLUDED.title,
			text = EXCLUDED.text,
			summary = EXCLUDED.summary,
			author = EXCLUDED.author,
			source = EXCLUDED.source,
			category = EXCLUDED.category,
			published_at = EXCLUDED.published_at,
			ingested_at = EXCLUDED.ingested_at,
			embedding = EXCLUDED.embedding,
			cluster_id = EXCLUDED.cluster_id,
			is_duplicate = EXCLUDED.is_duplicate
			RETURNING id`).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) insertHighlight(ctx context.Context, tx *sql.Tx, h model.Highlight) error {
	query, args, err := s.sb.Insert("highlights").
		Columns("item_id", "title", "summary", "category", "frequency",
			"priority_score", "sources", "authors", "is_breaking", "created_at").
		Values(h.ItemID, h.Title, h.Summary, h.Category, h.Frequency,
			h.PriorityScore, pq.StringArray(h.Sources), pq.StringArray(h.Authors),
			h.IsBreaking, h.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// FindBySourceURL looks up one item by its natural key (exact match).
func (s *Store) FindBySourceURL(ctx context.Context, sourceURL string) (model.Item, error) {
	query, args, err := s.itemSelect().
		Where(sq.Eq{"source_url": sourceURL}).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, ErrNotFound
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("find item: %w", err)
	}
	return it, nil
}

// RecentItems returns the newest items by ingestion time, optionally filtered
// by category. It feeds the answer orchestrator's retrieval corpus.
func (s *Store) RecentItems(ctx context.Context, category string, limit int) ([]model.Item, error) {
	b := s.itemSelect().
		OrderBy("ingested_at DESC", "id DESC").
		Limit(uint64(limit))
	if category != "" {
		b = b.Where(sq.Eq{"category": category})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// TopHighlights returns the current highlight set ordered by priority score.
func (s *Store) TopHighlights(ctx context.Context, category string, breakingOnly bool, limit int) ([]model.Highlight, error) {
	b := s.sb.Select("id", "item_id", "title", "summary", "category", "frequency",
		"priority_score", "sources", "authors", "is_breaking", "created_at").
		From("highlights").
		OrderBy("priority_score DESC", "id ASC").
		Limit(uint64(limit))
	if category != "" {
		b = b.Where(sq.Eq{"category": category})
	}
	if breakingOnly {
		b = b.Where(sq.Eq{"is_breaking": true})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query highlights: %w", err)
	}
	defer rows.Close()

	var out []model.Highlight
	for rows.Next() {
		var h model.Highlight
		var sources, authors pq.StringArray
		if err := rows.Scan(&h.ID, &h.ItemID, &h.Title, &h.Summary, &h.Category,
			&h.Frequency, &h.PriorityScore, &sources, &authors, &h.IsBreaking, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan highlight: %w", err)
		}
		h.Sources = sources
		h.Authors = authors
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate highlights: %w", err)
	}
	return out, nil
}

// AppendChatLog inserts one chat exchange. The log is append-only.
func (s *Store) AppendChatLog(ctx context.Context, entry model.ChatLogEntry) error {
	query, args, err := s.sb.Insert("chat_log").
		Columns("question", "answer", "item_ids", "created_at").
		Values(entry.Question, entry.Answer, pq.Int64Array(entry.ItemIDs), entry.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append chat log: %w", err)
	}
	return nil
}

// RecentChatLog returns the newest chat entries for display.
func (s *Store) RecentChatLog(ctx context.Context, limit int) ([]model.ChatLogEntry, error) {
	query, args, err := s.sb.Select("id", "question", "answer", "item_ids", "created_at").
		From("chat_log").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat log: %w", err)
	}
	defer rows.Close()

	var out []model.ChatLogEntry
	for rows.Next() {
		var e model.ChatLogEntry
		var ids pq.Int64Array
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &ids, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat entry: %w", err)
		}
		e.ItemIDs = ids
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat log: %w", err)
	}
	return out, nil
}

func (s *Store) itemSelect() sq.SelectBuilder {
	return s.sb.Select("id", "title", "text", "summary", "author", "source",
		"source_url", "category", "published_at", "ingested_at", "embedding",
		"cluster_id", "is_duplicate").
		From("items")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.Item, error) {
	var it model.Item
	var published sql.NullTime
	var emb string
	if err := row.Scan(&it.ID, &it.Title, &it.Text, &it.Summary, &it.Author,
		&it.Source, &it.SourceURL, &it.Category, &published, &it.IngestedAt,
		&emb, &it.ClusterID, &it.IsDuplicate); err != nil {
		return model.Item{}, err
	}
	if published.Valid {
		it.PublishedAt = published.Time
	}
	if emb != "" && emb != "[]" {
		if err := json.Unmarshal([]byte(emb), &it.Embedding); err != nil {
			it.Embedding = nil
		}
	}
	return it, nil
}
