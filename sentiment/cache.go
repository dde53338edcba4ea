package sentiment

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/vozlytics/vozlytics/utils"
	Logger "github.com/vozlytics/vozlytics/utils/log"
)

const (
	cacheKeyPrefix = "sentiment__"
	cacheTTL       = 24 * time.Hour
)

// CachedClassifier fronts another classifier with a redis label cache keyed
// by the md5 of the input text. Identical texts (re-crawled replies, repeated
// ad-hoc queries) skip the model call. Redis outages degrade silently to the
// inner classifier; the cache never affects correctness.
type CachedClassifier struct {
	inner  Classifier
	client *redis.Client
}

func NewCachedClassifier(inner Classifier) (*CachedClassifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &CachedClassifier{inner: inner, client: client}, nil
}

func cacheKey(text string) string {
	return cacheKeyPrefix + utils.TextToMd5Hash(text)
}

func (c *CachedClassifier) Classify(ctx context.Context, text string) (string, error) {
	key := cacheKey(text)
	if label, err := c.client.Get(ctx, key).Result(); err == nil && IsKnownLabel(label) {
		return label, nil
	}

	label, err := c.inner.Classify(ctx, text)
	if err != nil {
		return "", err
	}
	if IsKnownLabel(label) {
		if err := c.client.Set(ctx, key, label, cacheTTL).Err(); err != nil {
			Logger.Log.Warnf("fail to cache sentiment label: %v", err)
		}
	}
	return label, nil
}
