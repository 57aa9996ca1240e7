package drafts

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dotcommander/listingscore/pkg/errors"
)

// DefaultKeyPrefix namespaces draft keys in Redis.
const DefaultKeyPrefix = "listingscore:draft:"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// RedisStore keeps drafts in Redis as JSON values with a TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewStoreError("failed to connect to Redis", "ping", err)
	}

	logger.Debug("Redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return &RedisStore{client: client, prefix: cfg.KeyPrefix, ttl: cfg.TTL, logger: logger}, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Save(ctx context.Context, id string, d Draft) error {
	if err := checkID("save", id); err != nil {
		return err
	}
	if d.SavedAt.IsZero() {
		d.SavedAt = time.Now().UTC()
	}
	data, err := json.Marshal(d)
	if err != nil {
		return errors.NewStoreError("marshal failed", "save", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		s.logger.Error("Draft save failed", zap.String("id", id), zap.Error(err))
		return errors.NewStoreError("save failed", "save", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Draft, error) {
	value, err := s.client.Get(ctx, s.key(id)).Result()
	if stderrors.Is(err, redis.Nil) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Draft get failed", zap.String("id", id), zap.Error(err))
		return Draft{}, errors.NewStoreError("get failed", "get", err)
	}

	var d Draft
	if err := json.Unmarshal([]byte(value), &d); err != nil {
		return Draft{}, errors.NewStoreError("unmarshal failed", "get", err)
	}
	return d, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		s.logger.Error("Draft delete failed", zap.String("id", id), zap.Error(err))
		return errors.NewStoreError("delete failed", "delete", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the stored ids, sorted. It walks the key space with SCAN.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.NewStoreError("scan failed", "list", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
