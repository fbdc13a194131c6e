package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-pipeline/internal/domain"
)

const cacheKeyPrefix = "classify:"

// labelCache memoizes classification labels in Redis. Failures are treated
// as misses; the classifier proceeds with the remote/heuristic path.
type labelCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newLabelCache(client *redis.Client, ttl time.Duration) *labelCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &labelCache{client: client, ttl: ttl}
}

func cacheKey(message string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(message)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *labelCache) Get(ctx context.Context, message string) (domain.Classification, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, cacheKey(message)).Result()
	if err != nil {
		return "", false
	}
	label := domain.Classification(val)
	if !label.Valid() {
		return "", false
	}
	return label, true
}

func (c *labelCache) Set(ctx context.Context, message string, label domain.Classification) {
	if c == nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(message), string(label), c.ttl).Err()
}
