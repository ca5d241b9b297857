package config

import (
	"testing"
	"time"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()

	if c.Clustering.Mode != "semantic" || c.Clustering.SimilarityThreshold != 0.7 {
		t.Errorf("clustering defaults = %q/%v", c.Clustering.Mode, c.Clustering.SimilarityThreshold)
	}
	if c.Retrieval.Mode != "semantic" || c.Retrieval.TopK != 5 {
		t.Errorf("retrieval defaults = %q/%d", c.Retrieval.Mode, c.Retrieval.TopK)
	}
	if c.OpenAI.ChatModel != "gpt-4o-mini" || c.OpenAI.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("model defaults = %q/%q", c.OpenAI.ChatModel, c.OpenAI.EmbeddingModel)
	}
	if c.Answer.Timeout != "20s" || c.Ingest.Interval != "30m" {
		t.Errorf("timing defaults = %q/%q", c.Answer.Timeout, c.Ingest.Interval)
	}
}

func TestFillDefaultsKeepsExplicitValues(t *testing.T) {
	c := Config{
		Clustering: ClusteringConfig{Mode: "lexical", SimilarityThreshold: 0.9},
		Retrieval:  RetrievalConfig{Mode: "keyword", TopK: 3},
	}
	c.FillDefaults()

	if c.Clustering.Mode != "lexical" || c.Clustering.SimilarityThreshold != 0.9 {
		t.Errorf("explicit clustering config overwritten: %+v", c.Clustering)
	}
	if c.Retrieval.Mode != "keyword" || c.Retrieval.TopK != 3 {
		t.Errorf("explicit retrieval config overwritten: %+v", c.Retrieval)
	}
}

func TestDurationAccessors(t *testing.T) {
	c := Config{
		Answer: AnswerConfig{Timeout: "5s"},
		Ingest: IngestConfig{Interval: "1h", SourceTimeout: "garbage"},
	}

	if got := c.AnswerTimeout(); got != 5*time.Second {
		t.Errorf("AnswerTimeout = %v", got)
	}
	if got := c.IngestInterval(); got != time.Hour {
		t.Errorf("IngestInterval = %v", got)
	}
	if got := c.SourceTimeout(); got != 15*time.Second {
		t.Errorf("unparseable duration must fall back, got %v", got)
	}
	if got := c.RunTimeout(); got != 5*time.Minute {
		t.Errorf("empty duration must fall back, got %v", got)
	}
}
