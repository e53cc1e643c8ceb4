// Package redis is a translation cache shared across processes.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"docsum/internal/domain"
)

// Config configures the redis cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Storage is a domain.Cache on top of a redis server.
type Storage struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewStorage connects to redis and verifies the connection with PING.
func NewStorage(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Addr == "" {
		return nil, eris.New("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, eris.Wrapf(err, "ping redis at %s", cfg.Addr)
	}
	return &Storage{client: client, ttl: cfg.TTL}, nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", eris.Wrapf(domain.ErrCacheMiss, "key %s", key)
	}
	if err != nil {
		return "", eris.Wrapf(err, "redis get %s", key)
	}
	return v, nil
}

// Set stores value. A zero TTL keeps the key forever.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return eris.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func (s *Storage) Close() error { return s.client.Close() }
