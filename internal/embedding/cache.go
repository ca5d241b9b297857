package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 7 * 24 * time.Hour // vectors expire after a week

// CachedEmbedder wraps another Embedder with a redis vector cache keyed by a
// hash of the input text. Cache failures are logged and degrade to a direct
// provider call; they never fail the embed.
type CachedEmbedder struct {
	inner Embedder
	rdb   *redis.Client
}

func NewCached(inner Embedder, rdb *redis.Client) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, rdb: rdb}
}

func vectorKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embed:vector:%s", hex.EncodeToString(sum[:]))
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := vectorKey(text)
	if c.rdb != nil {
		b, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var vec []float32
			if jsonErr := json.Unmarshal(b, &vec); jsonErr == nil && len(vec) > 0 {
				return vec, nil
			}
		} else if err != redis.Nil {
			slog.Warn("embedding: cache read error", "err", err)
		}
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if b, jsonErr := json.Marshal(vec); jsonErr == nil {
			if err := c.rdb.Set(ctx, key, b, cacheTTL).Err(); err != nil {
				slog.Warn("embedding: cache write error", "err", err)
			}
		}
	}
	return vec, nil
}
