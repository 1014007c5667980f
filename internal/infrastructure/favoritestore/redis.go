package favoritestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/infrastructure/configloader"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const pingTimeout = 5 * time.Second

// RedisStore keeps the favorites of each owner as a JSON array under
// KeyPrefix+owner.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	logger    port.Logger
}

var _ port.FavoritesStore = (*RedisStore)(nil)

// NewRedisStore connects to Redis and checks the connection with PING.
func NewRedisStore(cfg configloader.RedisConfig, logger port.Logger) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	opts := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
	if cfg.DialTimeoutSeconds > 0 {
		opts.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	if cfg.ReadTimeoutSeconds > 0 {
		opts.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		opts.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Favorites store connected to Redis", "addr", cfg.Addr, "db", cfg.DB, "prefix", cfg.KeyPrefix)
	return &RedisStore{client: client, keyPrefix: cfg.KeyPrefix, logger: logger}, nil
}

func (s *RedisStore) key(owner string) string {
	return s.keyPrefix + owner
}

// Load implements port.FavoritesStore. A missing key is an empty list.
func (s *RedisStore) Load(ctx context.Context, owner string) ([]string, error) {
	raw, err := s.client.Get(ctx, s.key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", s.key(owner), err)
	}

	ids := []string{}
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.logger.Warn("Discarding malformed favorites entry", "key", s.key(owner), "error", err)
		return []string{}, nil
	}
	return ids, nil
}

// Save implements port.FavoritesStore. An empty list deletes the key.
func (s *RedisStore) Save(ctx context.Context, owner string, objectIDs []string) error {
	if len(objectIDs) == 0 {
		if err := s.client.Del(ctx, s.key(owner)).Err(); err != nil {
			return fmt.Errorf("redis DEL %s: %w", s.key(owner), err)
		}
		return nil
	}
	raw, err := json.Marshal(objectIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}
	if err := s.client.Set(ctx, s.key(owner), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", s.key(owner), err)
	}
	return nil
}

// Close closes the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
