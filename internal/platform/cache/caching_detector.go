package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"plate_backend/internal/feature/platescan/domain/entity"
	"plate_backend/internal/feature/platescan/usecase"
)

// CachingDetector decorates a PlateDetector with Redis caching keyed by the
// image's content hash. Same decorator shape as CachingRecognizer.
type CachingDetector struct {
	inner     usecase.PlateDetector
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingDetector decorates a PlateDetector with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses "detect".
func NewCachingDetector(rdb *redis.Client, ttl time.Duration, inner usecase.PlateDetector, namespace string) *CachingDetector {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "detect"
	}
	return &CachingDetector{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// DetectPlates returns cached regions for the image when available, falling
// back to the underlying detector otherwise.
func (c *CachingDetector) DetectPlates(ctx context.Context, imageData []byte) ([]entity.DetectedPlate, error) {
	if c.rdb == nil {
		return c.inner.DetectPlates(ctx, imageData)
	}

	key := contentKey(c.namespace, imageData)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.DetectedPlate
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.DetectPlates(ctx, imageData)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}
