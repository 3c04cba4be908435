package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// CachedClient wraps a Client with a TTL response cache so repeated requests
// for the same subject within the window do not re-hit the model.
type CachedClient struct {
	client Client
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewCachedClient creates a caching wrapper with the given TTL.
func NewCachedClient(client Client, ttl time.Duration, logger *logrus.Logger) *CachedClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedClient{
		client: client,
		cache:  cache.New(ttl, ttl*2),
		logger: logger,
	}
}

// Query returns a cached response when one exists for the same subject,
// instructions and temperature, and delegates otherwise.
func (c *CachedClient) Query(ctx context.Context, subject, instructions string, temperature float64) (string, error) {
	key := cacheKey(subject, instructions, temperature)

	if cached, found := c.cache.Get(key); found {
		if text, ok := cached.(string); ok {
			ModelQueriesTotal.WithLabelValues("live", "true").Inc()
			c.logger.WithField("subject", subject).Debug("Cache hit for model query")
			return text, nil
		}
	}

	text, err := c.client.Query(ctx, subject, instructions, temperature)
	if err != nil {
		return "", err
	}

	c.cache.Set(key, text, cache.DefaultExpiration)
	return text, nil
}

func cacheKey(subject, instructions string, temperature float64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%.3f", subject, instructions, temperature)))
	return hex.EncodeToString(sum[:])
}
