// Package pubsub publishes JSON events on Redis channels with per-key deduplication.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/clubdesk/pkg/config"
)

const dedupeKeyPrefix = "clubdesk:dedupe:"

// NewClient connects to cfg.Redis.URL. It returns a nil client when Redis is not configured.
func NewClient(lc fx.Lifecycle, l *zap.SugaredLogger, cfg *cfgpkg.Config) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		l.Infow("redis not configured, events stay in process")
		return nil, nil
	}
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	l.Infow("redis connection established", "addr", opt.Addr)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			l.Infow("closing redis client")
			return client.Close()
		},
	})
	return client, nil
}

// Bus publishes events on Redis Pub/Sub.
type Bus struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

// NewBus returns nil when client is nil so callers can fall back to another publisher.
func NewBus(client *redis.Client, l *zap.SugaredLogger) *Bus {
	if client == nil {
		return nil
	}
	return &Bus{client: client, log: l}
}

// Publish marshals event to JSON and publishes it on channel.
func (b *Bus) Publish(ctx context.Context, channel string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		b.log.Errorw("failed to publish event", "channel", channel, "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// PublishOnce publishes event unless key was already published within ttl.
// It reports whether the event went out. The key is released when publishing fails.
func (b *Bus) PublishOnce(ctx context.Context, channel, key string, ttl time.Duration, event any) (bool, error) {
	acquired, err := b.client.SetNX(ctx, dedupeKeyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire dedupe key: %w", err)
	}
	if !acquired {
		b.log.Debugw("event already published", "channel", channel, "key", key)
		return false, nil
	}
	if err := b.Publish(ctx, channel, event); err != nil {
		if delErr := b.client.Del(ctx, dedupeKeyPrefix+key).Err(); delErr != nil {
			b.log.Warnw("failed to release dedupe key", "key", key, "error", delErr)
		}
		return false, err
	}
	return true, nil
}

var Module = fx.Options(
	fx.Provide(NewClient, NewBus),
)
