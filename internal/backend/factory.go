package backend

import (
	"context"
	"fmt"

	"findash/internal/cache"
	"findash/internal/log"
	"findash/internal/storage"
	"findash/internal/storage/file"
	"findash/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(config)
	case FileBackend:
		res, err = f.createFileBackend(config)
	case MemoryBackend:
		res, err = f.createMemoryBackend(config)
	case NoneBackend:
		f.logger.WarnContext(ctx, "No storage backend configured, snapshots will not persist")
		res = &BackendResult{Medium: storage.Unavailable}
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}
	res.Type = config.Type

	if config.CacheSize > 0 && config.Type != NoneBackend {
		res.Cache = cache.NewLRUCache[string](config.CacheSize, config.CacheTTL)
		res.Medium = storage.NewCachedMedium(res.Medium, res.Cache)
		fields := log.NewFields().WithBackend(config.Type.String())
		fields["cache_size"] = config.CacheSize
		fields["cache_ttl"] = config.CacheTTL.String()
		f.logger.InfoContext(ctx, "Enabled read-through cache", fields.ToSlice()...)
		if config.Type.Shared() {
			f.logger.WarnContext(ctx, "Read-through cache hides writes made by other processes sharing this medium",
				log.FieldBackend, config.Type.String())
		}
	}
	return res, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Medium:  repo,
		Cleanup: repo.Close,
		Ready:   repo.Ping,
	}, nil
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	store, err := file.New(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file backend: %w", err)
	}

	f.logger.Info("Initialized file backend", "data_directory", store.Dir())

	return &BackendResult{Medium: store}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	var (
		store *memory.Store
		err   error
	)
	if config.DataDirectory != "" {
		store, err = memory.NewFromDir(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to seed memory backend: %w", err)
		}
	} else {
		store = memory.New(nil)
	}

	f.logger.Info("Initialized memory backend",
		"data_directory", config.DataDirectory,
		"seeded_keys", len(store.Keys()))

	return &BackendResult{Medium: store}, nil
}
