package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/suderio/dragondice/internal/engine"
)

const gameKeyPrefix = "dragondice:game:"

// RedisStore keeps snapshots in Redis, one key per game, no expiry. It is
// the backing for shared setups where several frontends follow one game.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore connects and pings before returning the store.
func NewRedisStore(redisURL string, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("connected to redis", "addr", opt.Addr)
	return &RedisStore{client: client, logger: logger}, nil
}

// Save marshals the snapshot under its game key.
func (s *RedisStore) Save(ctx context.Context, snap *engine.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %w", snap.ID, err)
	}
	if err := s.client.Set(ctx, gameKeyPrefix+snap.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.ID, err)
	}
	s.logger.Debug("snapshot saved", "game", snap.ID)
	return nil
}

// Load reads a snapshot back. A missing key is ErrNotFound.
func (s *RedisStore) Load(ctx context.Context, id string) (*engine.Snapshot, error) {
	data, err := s.client.Get(ctx, gameKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// List scans the game keys.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, gameKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(gameKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan games: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close releases the client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
