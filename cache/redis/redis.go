package redis

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skumar93/folio/cache"
)

type RedisFolioCache struct {
	client redis.UniversalClient
}

func NewRedisFolioCache(ctx context.Context, devMode bool, redisEndpoint string) (*RedisFolioCache, error) {
	var client redis.UniversalClient
	if devMode {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
			// AWS elasticache endpoints require TLS
			TLSConfig: &tls.Config{},
		})
	}

	err := client.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return &RedisFolioCache{client: client}, nil
}

func (redisCache *RedisFolioCache) Publish(ctx context.Context, channel string, message []byte) error {
	if err := redisCache.client.Publish(ctx, channel, message).Err(); err != nil {
		return err
	}
	return nil
}

func (redisCache *RedisFolioCache) Subscribe(ctx context.Context, channel string, handler func(message []byte)) error {
	pubsub := redisCache.client.Subscribe(ctx, channel)
	// Ensure subscription is established
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		log.Printf("Pubsub channel closed: %s", channel)
		return err
	}

	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(msg.Payload))
			}
		}
	}()

	return nil
}

// Hash tag around the slug keeps related keys on one cluster node.
func buildPublishedKey(slug string) string {
	return "published:{" + slug + "}"
}

// Published documents change rarely (only on an explicit publish, which also
// invalidates), so a longer TTL than a hot-data cache would use is fine.
const publishedTTL = 30 * time.Minute

func (redisCache *RedisFolioCache) GetPublished(ctx context.Context, slug string) ([]byte, error) {
	val, err := redisCache.client.Get(ctx, buildPublishedKey(slug)).Bytes()
	if err == redis.Nil {
		return nil, cache.ErrNotCached
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (redisCache *RedisFolioCache) SetPublished(ctx context.Context, slug string, doc []byte) error {
	return redisCache.client.Set(ctx, buildPublishedKey(slug), doc, publishedTTL).Err()
}

func (redisCache *RedisFolioCache) InvalidatePublished(ctx context.Context, slug string) error {
	return redisCache.client.Del(ctx, buildPublishedKey(slug)).Err()
}
