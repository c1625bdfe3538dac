package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// RedisGeocodeStore keeps one JSON value per address under "geocode:<address>".
// Entries carry no TTL.
type RedisGeocodeStore struct {
	client *redis.Client
}

func NewRedisGeocodeStore(client *redis.Client) *RedisGeocodeStore {
	return &RedisGeocodeStore{client: client}
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("open redis: ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

func (s *RedisGeocodeStore) Get(ctx context.Context, key string) (_ domain.GeocodeCacheEntry, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	b, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.GeocodeCacheEntry{}, false, nil
	}
	if err != nil {
		return domain.GeocodeCacheEntry{}, false, fmt.Errorf("get geocode cache: redis get: %w", err)
	}

	var entry domain.GeocodeCacheEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		return domain.GeocodeCacheEntry{}, false, fmt.Errorf("get geocode cache: decode %q: %w", key, err)
	}
	return entry, true, nil
}

func (s *RedisGeocodeStore) Put(ctx context.Context, key string, entry domain.GeocodeCacheEntry) (err error) {
	defer obs.Time(ctx, "geocode.cache.Put")(&err)

	if key == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, b, 0).Err(); err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", key, err)
	}
	return nil
}

// Flush is a no-op; Redis persistence is configured on the server.
func (s *RedisGeocodeStore) Flush(context.Context) error { return nil }
