package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/world"
)

// RedisStore implements Store on Redis: the snapshot under one
// versioned key, the chronicle as a pair of lists (structured and
// human-readable).
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	name   string // world name, namespaces all keys
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis at redisURL.
func NewRedisStore(redisURL, worldName string, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisStore{
		client: redis.NewClient(opt),
		logger: logger,
		name:   worldName,
	}, nil
}

func (r *RedisStore) snapshotKey() string  { return "world:" + r.name + ":snapshot" }
func (r *RedisStore) chronicleKey() string { return "world:" + r.name + ":chronicle" }
func (r *RedisStore) readableKey() string  { return "world:" + r.name + ":chronicle:text" }

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// WaitForConnection blocks until Redis answers (used during startup).
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}
		r.logger.Info("Redis connection established")
		return nil
	}
	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStore) SaveSnapshot(ctx context.Context, s *world.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.snapshotKey(), data, 0).Err(); err != nil {
		r.logger.Error("Failed to save snapshot", "world", r.name, "error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadSnapshot(ctx context.Context) (*world.Snapshot, error) {
	data, err := r.client.Get(ctx, r.snapshotKey()).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Info("No snapshot found, starting fresh", "world", r.name)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	var s world.Snapshot
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) AppendChronicle(ctx context.Context, e event.ChronicleEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal chronicle entry: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, r.chronicleKey(), data)
	pipe.RPush(ctx, r.readableKey(), e.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append chronicle entry: %w", err)
	}
	return nil
}

func (r *RedisStore) TailChronicle(ctx context.Context, limit int) ([]event.ChronicleEntry, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	raw, err := r.client.LRange(ctx, r.chronicleKey(), start, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read chronicle: %w", err)
	}
	entries := make([]event.ChronicleEntry, 0, len(raw))
	for _, item := range raw {
		var e event.ChronicleEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			r.logger.Warn("Skipping unreadable chronicle entry", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}
