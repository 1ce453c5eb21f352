package config

import (
	"github.com/emrgen/shazam/internal/cache"
	"github.com/emrgen/shazam/internal/compress"
	"github.com/emrgen/shazam/internal/queue"
	"github.com/emrgen/shazam/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewSettingStore builds the settings store over db: values are compressed
// with the configured codec and, when redis is configured, reads go through
// the redis cache.
func NewSettingStore(cfg *Config, db *gorm.DB) (store.SettingStore, error) {
	codec, err := compress.ByName(cfg.Compression)
	if err != nil {
		return nil, err
	}

	var settings store.SettingStore = store.NewGormStore(db, codec)
	if cfg.RedisAddr != "" {
		logrus.Infof("caching settings in redis at %s", cfg.RedisAddr)
		rc := cache.NewRedisSettingCache(cache.NewRedis(cfg.RedisAddr), cfg.RedisTTL)
		settings = cache.NewCachedSettingStore(rc, settings)
	}

	return settings, nil
}

// NewPublisher returns the kafka publisher, or the log publisher when no
// brokers are configured.
func NewPublisher(cfg *Config) (queue.Publisher, error) {
	if cfg.KafkaBrokers == "" {
		return queue.NewLogPublisher(), nil
	}
	return queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}
