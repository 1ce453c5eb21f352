package cache

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/shazam/internal/store"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func settingKey(projectID uuid.UUID, key string) string {
	return "shazam:setting:" + projectID.String() + ":" + key
}

var _ SettingCache = (*RedisSettingCache)(nil)

type RedisSettingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSettingCache(client *redis.Client, ttl time.Duration) *RedisSettingCache {
	return &RedisSettingCache{client: client, ttl: ttl}
}

func (r *RedisSettingCache) GetSetting(ctx context.Context, projectID uuid.UUID, key string) (string, bool, error) {
	res := r.client.Get(ctx, settingKey(projectID, key))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return "", false, nil
		}
		return "", false, res.Err()
	}

	return res.Val(), true, nil
}

func (r *RedisSettingCache) SetSetting(ctx context.Context, projectID uuid.UUID, key, value string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		return p.Set(ctx, settingKey(projectID, key), value, r.ttl).Err()
	})

	return err
}

func (r *RedisSettingCache) DeleteSetting(ctx context.Context, projectID uuid.UUID, key string) error {
	return r.client.Del(ctx, settingKey(projectID, key)).Err()
}

var _ store.SettingStore = (*CachedSettingStore)(nil)

// CachedSettingStore reads through the cache and writes to the store first,
// evicting the cached value so a failed cache write never serves stale data.
type CachedSettingStore struct {
	cache SettingCache
	next  store.SettingStore
}

func NewCachedSettingStore(cache SettingCache, next store.SettingStore) *CachedSettingStore {
	return &CachedSettingStore{cache: cache, next: next}
}

func (c *CachedSettingStore) GetSetting(ctx context.Context, projectID uuid.UUID, key string) (string, bool, error) {
	value, hit, err := c.cache.GetSetting(ctx, projectID, key)
	if err != nil {
		logrus.Warnf("setting cache read failed for %s/%s: %v", projectID, key, err)
	} else if hit {
		return value, true, nil
	}

	value, ok, err := c.next.GetSetting(ctx, projectID, key)
	if err != nil || !ok {
		return value, ok, err
	}

	if err := c.cache.SetSetting(ctx, projectID, key, value); err != nil {
		logrus.Warnf("setting cache fill failed for %s/%s: %v", projectID, key, err)
	}

	return value, true, nil
}

func (c *CachedSettingStore) SetSetting(ctx context.Context, projectID uuid.UUID, key, value string) error {
	if err := c.next.SetSetting(ctx, projectID, key, value); err != nil {
		return err
	}

	if err := c.cache.DeleteSetting(ctx, projectID, key); err != nil {
		logrus.Errorf("setting cache eviction failed for %s/%s: %v", projectID, key, err)
	}

	return nil
}

func (c *CachedSettingStore) ListProjects(ctx context.Context) ([]uuid.UUID, error) {
	return c.next.ListProjects(ctx)
}
