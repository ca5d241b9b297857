package cmd

import (
	"fmt"
	"log/slog"

	"newsdesk/internal/ai"
	"newsdesk/internal/cluster"
	"newsdesk/internal/config"
	"newsdesk/internal/embedding"
	"newsdesk/internal/feed"
	"newsdesk/internal/highlight"
	"newsdesk/internal/ingest"
	"newsdesk/internal/redisclient"
	"newsdesk/internal/retrieval"
	"newsdesk/internal/storage"
)

// newStore opens Postgres and makes sure the schema exists.
func newStore(cfg config.Config) (*storage.Store, error) {
	db, err := storage.Open(cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	return storage.New(db), nil
}

// newEmbedder builds the embedding gateway: lazy OpenAI behind a redis
// vector cache. The gateway is cheap to construct even when never used.
func newEmbedder(cfg config.Config) embedding.Embedder {
	base := embedding.NewOpenAI(embedding.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.EmbeddingModel,
		BaseURL: cfg.OpenAI.BaseURL,
	})
	if cfg.Redis.Addr == "" {
		return base
	}
	return embedding.NewCached(base, redisclient.New(cfg.Redis))
}

// newPipeline assembles the full ingestion pipeline from configuration.
func newPipeline(cfg config.Config, store *storage.Store) (*ingest.Pipeline, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}
	sources := make([]feed.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, feed.NewRSS(s.Name, s.URL, s.Category))
	}

	vocab, err := highlight.LoadVocabulary(cfg.Highlights.KeywordsFile)
	if err != nil {
		slog.Warn("using default keyword vocabulary", "err", err)
	}

	var clusterer cluster.Clusterer
	lexical := cluster.NewLexical()
	switch cfg.Clustering.Mode {
	case "lexical":
		clusterer = lexical
	case "semantic":
		clusterer = cluster.NewSemantic(newEmbedder(cfg), cfg.Clustering.SimilarityThreshold)
	default:
		return nil, fmt.Errorf("unknown clustering mode %q", cfg.Clustering.Mode)
	}

	return &ingest.Pipeline{
		Sources:       sources,
		Store:         store,
		Clusterer:     clusterer,
		Fallback:      lexical,
		Synthesizer:   highlight.NewSynthesizer(vocab),
		SourceTimeout: cfg.SourceTimeout(),
		RunTimeout:    cfg.RunTimeout(),
	}, nil
}

// newRetriever picks the question-answering retrieval strategy.
func newRetriever(cfg config.Config) (retrieval.Retriever, error) {
	switch cfg.Retrieval.Mode {
	case "keyword":
		return retrieval.NewKeyword(), nil
	case "semantic":
		return retrieval.NewEmbedding(newEmbedder(cfg)), nil
	default:
		return nil, fmt.Errorf("unknown retrieval mode %q", cfg.Retrieval.Mode)
	}
}

// newGenerator returns nil when no API key is configured; the orchestrator
// degrades to templated answers in that case.
func newGenerator(cfg config.Config) ai.Generator {
	if cfg.OpenAI.APIKey == "" {
		return nil
	}
	return ai.NewOpenAI(ai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.ChatModel,
		BaseURL: cfg.OpenAI.BaseURL,
	})
}
