package main

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/devpureza/liga-expo/internal/config"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/repository/postgres"
	"github.com/devpureza/liga-expo/internal/storage/file"
	"github.com/devpureza/liga-expo/internal/storage/memory"
	minioStorage "github.com/devpureza/liga-expo/internal/storage/minio"
	redisStorage "github.com/devpureza/liga-expo/internal/storage/redis"
)

// openSlots builds the slot store selected by cfg.Store.Driver. The returned
// closer releases any connection the backend holds.
func openSlots(ctx context.Context, cfg *config.Config) (model.SlotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.DriverFile:
		s, err := file.New(cfg.Store.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return s, noop, nil

	case config.DriverMemory:
		return memory.New(), noop, nil

	case config.DriverPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSlotRepository(db, cfg.Store.Namespace), db.Close, nil

	case config.DriverMinio:
		minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		s, err := minioStorage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Store.Namespace)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage client: %w", err)
		}
		return s, noop, nil

	case config.DriverRedis:
		s, client, err := redisStorage.NewFromURL(cfg.Redis.URL, cfg.Store.Namespace, cfg.Redis.TTL)
		if err != nil {
			return nil, nil, err
		}
		return s, client.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
