package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tablesorter:config:"

func redisKey(widgetID string) string {
	return redisKeyPrefix + widgetID
}

// RedisStore keeps configurations as plain Redis string values.
type RedisStore struct {
	client               redis.UniversalClient
	compressionThreshold int
}

func ConnectRedis(ctx context.Context, addr, password string, database int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	slog.Info("Database connection established", "db", "Redis", "addr", addr)
	return client, nil
}

func NewRedisStore(client redis.UniversalClient, compressionThreshold int) *RedisStore {
	return &RedisStore{client: client, compressionThreshold: compressionThreshold}
}

func (s *RedisStore) Load(ctx context.Context, widgetID string) (string, bool, error) {
	data, err := s.client.Get(ctx, redisKey(widgetID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get configuration for widget %s: %w", widgetID, err)
	}

	payload, err := decodePayload(data)
	if err != nil {
		return "", false, fmt.Errorf("failed to decode configuration for widget %s: %w", widgetID, err)
	}
	return payload, true, nil
}

func (s *RedisStore) Save(ctx context.Context, widgetID string, payload string) error {
	if err := s.client.Set(ctx, redisKey(widgetID), encodePayload(payload, s.compressionThreshold), 0).Err(); err != nil {
		return fmt.Errorf("failed to set configuration for widget %s: %w", widgetID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, widgetID string) error {
	n, err := s.client.Del(ctx, redisKey(widgetID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete configuration for widget %s: %w", widgetID, err)
	}
	if n == 0 {
		return fmt.Errorf("widget %s: %w", widgetID, ErrNotFound)
	}
	slog.Info("Configuration deleted", "widget", widgetID, "db", "Redis")
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
