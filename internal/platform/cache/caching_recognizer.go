// Package cache provides Redis caching decorators for the detection and
// recognition backends.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"plate_backend/internal/feature/platescan/domain/entity"
	"plate_backend/internal/feature/platescan/usecase"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 15 * time.Minute

// CachingRecognizer decorates a TextRecognizer with Redis caching keyed by
// the crop's content hash. It implements the decorator pattern, transparently
// adding caching without modifying the underlying recognizer.
type CachingRecognizer struct {
	inner     usecase.TextRecognizer
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingRecognizer decorates a TextRecognizer with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses "ocr".
func NewCachingRecognizer(rdb *redis.Client, ttl time.Duration, inner usecase.TextRecognizer, namespace string) *CachingRecognizer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "ocr"
	}
	return &CachingRecognizer{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// RecognizeText returns cached lines for the crop when available, falling
// back to the underlying recognizer otherwise.
func (c *CachingRecognizer) RecognizeText(ctx context.Context, cropData []byte) ([]entity.OCRLine, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.RecognizeText(ctx, cropData)
	}

	key := contentKey(c.namespace, cropData)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.OCRLine
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the recognizer
	out, err := c.inner.RecognizeText(ctx, cropData)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// contentKey builds a namespaced cache key from the image bytes.
func contentKey(namespace string, data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", namespace, hex.EncodeToString(sum[:]))
}
