package classifier

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-pipeline/internal/config"
	"github.com/spec-kit/support-pipeline/internal/domain"
	"github.com/spec-kit/support-pipeline/internal/observability"
)

const backoffStep = 500 * time.Millisecond

// Classifier maps message text to one of the three classification labels.
// The remote path is advisory: any failure, timeout or unparseable output
// degrades silently to the deterministic heuristic. Classify never fails.
type Classifier struct {
	provider labelProvider
	cache    *labelCache
	logger   *zap.Logger
	metrics  *observability.Metrics
	timeout  time.Duration
	attempts int
}

// New builds a classifier from configuration. The Redis client may be nil;
// the remote path is skipped entirely unless enabled with an API key.
func New(cfg config.ClassifierConfig, redisClient *redis.Client, logger *zap.Logger, metrics *observability.Metrics) *Classifier {
	c := &Classifier{
		cache:    newLabelCache(redisClient, cfg.CacheTTL()),
		logger:   logger,
		metrics:  metrics,
		timeout:  cfg.Timeout(),
		attempts: cfg.MaxAttempts,
	}
	if c.attempts <= 0 {
		c.attempts = 2
	}
	if cfg.RemoteEnabled {
		if cfg.APIKey == "" {
			logger.Warn("remote classification enabled but OPENAI_API_KEY missing; running heuristic-only")
		} else {
			c.provider = newOpenAIProvider(cfg.APIKey, cfg.Model)
		}
	}
	return c
}

// Classify returns exactly one of the three labels for any input, along
// with the source that produced it (remote, cache or heuristic) so callers
// can trace fallbacks.
func (c *Classifier) Classify(ctx context.Context, message string) (domain.Classification, string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		c.logger.Info("empty message; classifying as QUERY by default")
		return domain.ClassificationQuery, observability.SourceHeuristic
	}

	if label, ok := c.cache.Get(ctx, trimmed); ok {
		c.metrics.RecordClassification(string(label), observability.SourceCache)
		return label, observability.SourceCache
	}

	if c.provider != nil {
		if label, ok := c.classifyRemote(ctx, trimmed); ok {
			c.logger.Info("remote classification succeeded",
				zap.String("classification", string(label)))
			c.metrics.RecordClassification(string(label), observability.SourceRemote)
			c.cache.Set(ctx, trimmed, label)
			return label, observability.SourceRemote
		}
	}

	label := Heuristic(trimmed)
	c.logger.Info("heuristic classification",
		zap.String("classification", string(label)))
	c.metrics.RecordClassification(string(label), observability.SourceHeuristic)
	c.cache.Set(ctx, trimmed, label)
	return label, observability.SourceHeuristic
}

// classifyRemote attempts the remote path with a bounded per-attempt timeout
// and linear backoff between attempts. Transport errors and empty content
// are retried; output that cannot be normalized is not.
func (c *Classifier) classifyRemote(ctx context.Context, message string) (domain.Classification, bool) {
	for attempt := 1; attempt <= c.attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		raw, err := c.provider.CompleteLabel(callCtx, message)
		cancel()

		if err == nil && raw != "" {
			if label, ok := NormalizeLabel(raw); ok {
				return label, true
			}
			c.logger.Warn("remote classifier returned unmappable label; falling back to heuristic",
				zap.String("raw", raw))
			return "", false
		}

		if err != nil {
			c.logger.Warn("remote classification attempt failed",
				zap.Int("attempt", attempt), zap.Error(err))
		} else {
			c.logger.Warn("remote classifier returned empty content",
				zap.Int("attempt", attempt))
		}

		// The caller's deadline owns the overall budget; once it expires we
		// abandon the remote path immediately.
		if ctx.Err() != nil {
			return "", false
		}
		if attempt < c.attempts && !sleepContext(ctx, backoffStep*time.Duration(attempt)) {
			return "", false
		}
	}
	return "", false
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
