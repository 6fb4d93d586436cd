package storage

import (
	"context"
	"fmt"
	"talentpay/internal/providers"
	"talentpay/internal/storage/interfaces"
	"talentpay/internal/structures"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is the configured persistence driver: a repository plus the
// scheduler that keeps it durable.
type Backend struct {
	Repository interfaces.RepositoryInterface
	Scheduler  interfaces.SchedulerInterface
}

// NewBackend opens the driver selected by storage.driver. The returned
// cleanup releases the pool or the compressor.
func NewBackend(ctx context.Context, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*Backend, func(), error) {
	switch conf.Storage.Driver {
	case "postgres":
		return newPostgresBackend(ctx, conf, logger)
	case "file", "":
		return newFileBackend(conf, logger, metrics)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

func newPostgresBackend(ctx context.Context, conf *structures.Config, logger providers.Logger) (*Backend, func(), error) {
	poolConf, err := pgxpool.ParseConfig(conf.Database.Url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database url: %w", err)
	}
	if conf.Database.MaxConns > 0 {
		poolConf.MaxConns = conf.Database.MaxConns
	}
	if conf.Database.MinConns > 0 {
		poolConf.MinConns = conf.Database.MinConns
	}
	if conf.Database.MaxConnLifetime > 0 {
		poolConf.MaxConnLifetime = conf.Database.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConf)
	if err != nil {
		return nil, nil, fmt.Errorf("open database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	store := NewPostgresStore(pool)
	if conf.Database.Migrate {
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Infof(providers.TypeStorage, "Database schema applied")
	}

	logger.Infof(providers.TypeStorage, "Using postgres storage (max %d connections)", poolConf.MaxConns)
	return &Backend{Repository: store, Scheduler: &noopScheduler{}}, pool.Close, nil
}

func newFileBackend(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*Backend, func(), error) {
	compressor, err := NewZstdCompressor()
	if err != nil {
		return nil, nil, err
	}

	store := NewMemoryStore()
	fileManager := NewFileManager(compressor, store, logger)
	scheduler := NewScheduler(conf, logger, fileManager, metrics)

	logger.Infof(providers.TypeStorage, "Using file storage at %s", conf.Storage.FilePath)
	return &Backend{Repository: store, Scheduler: scheduler}, fileManager.Close, nil
}

func ProvideRepository(b *Backend) interfaces.RepositoryInterface {
	return b.Repository
}

func ProvideScheduler(b *Backend) interfaces.SchedulerInterface {
	return b.Scheduler
}
