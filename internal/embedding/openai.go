package embedding

import (
	"context"
	"log/slog"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// Config wires the OpenAI embedding endpoint.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

// OpenAIEmbedder implements Embedder using the OpenAI embeddings API. The
// underlying client is built lazily on the first Embed call, so constructing
// the embedder (e.g. for a process that only ever uses lexical fallbacks)
// costs nothing.
type OpenAIEmbedder struct {
	cfg    Config
	once   sync.Once
	client *openai.Client
}

func NewOpenAI(cfg Config) *OpenAIEmbedder {
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{cfg: cfg}
}

func (e *OpenAIEmbedder) init() {
	if e.cfg.BaseURL != "" {
		cc := openai.DefaultConfig(e.cfg.APIKey)
		cc.BaseURL = e.cfg.BaseURL
		e.client = openai.NewClientWithConfig(cc)
	} else {
		e.client = openai.NewClient(e.cfg.APIKey)
	}
}

// Embed returns the embedding vector for text. Without an API key it returns
// ErrUnavailable without ever initializing the client.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.cfg.APIKey == "" {
		return nil, ErrUnavailable
	}
	e.once.Do(e.init)

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.cfg.Model),
		Input: []string{text},
	})
	if err != nil {
		slog.Error("embedding: provider error", "err", err)
		return nil, ErrUnavailable
	}
	if len(resp.Data) == 0 {
		return nil, ErrUnavailable
	}
	return resp.Data[0].Embedding, nil
}
