package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Options struct {
	Driver        string
	Path          string // directory for the file and sqlite drivers
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the configured store. The returned close func is never nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), noop, nil

	case DriverFile, "":
		s, err := NewFileStore(opts.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case DriverSQLite:
		if _, err := NewFileStore(opts.Path); err != nil {
			return nil, noop, err
		}
		s, err := NewSQLiteStore(filepath.Join(opts.Path, "storefront.db"))
		if err != nil {
			return nil, noop, err
		}
		if err := s.RunMigrations(); err != nil {
			s.Close()
			return nil, noop, err
		}
		return s, s.Close, nil

	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("redis connection failed: %w", err)
		}
		return NewRedisStore(client, opts.RedisPrefix), client.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
