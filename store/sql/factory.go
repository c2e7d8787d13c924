package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-appaccount/core"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

type RepositoryFactory struct {
	db *bun.DB

	secrets        core.SecretProvider
	directoryCache repositorycache.CacheService

	accountStore     *AccountStore
	appRegistryStore *AppRegistryStore
	appDirectory     *CachedAppDirectory
}

type FactoryOption func(*RepositoryFactory)

// WithSecretProvider seals credential and token values at rest.
func WithSecretProvider(provider core.SecretProvider) FactoryOption {
	return func(f *RepositoryFactory) {
		f.secrets = provider
	}
}

// WithDirectoryCache fronts the app directory with a read-through cache.
func WithDirectoryCache(cacheService repositorycache.CacheService) FactoryOption {
	return func(f *RepositoryFactory) {
		f.directoryCache = cacheService
	}
}

func NewRepositoryFactory(opts ...FactoryOption) *RepositoryFactory {
	factory := &RepositoryFactory{}
	for _, opt := range opts {
		if opt != nil {
			opt(factory)
		}
	}
	return factory
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, opts ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB, opts ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.accountStore != nil && f.appRegistryStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) AccountStore() core.AccountStore {
	if f == nil || f.accountStore == nil {
		return nil
	}
	return f.accountStore
}

// AppDirectory returns the cached directory when a cache was configured and
// the registry store otherwise. Both satisfy core.AppRegistrar.
func (f *RepositoryFactory) AppDirectory() core.AppDirectory {
	if f == nil {
		return nil
	}
	if f.appDirectory != nil {
		return f.appDirectory
	}
	if f.appRegistryStore == nil {
		return nil
	}
	return f.appRegistryStore
}

func (f *RepositoryFactory) AppRegistryStore() *AppRegistryStore {
	if f == nil {
		return nil
	}
	return f.appRegistryStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	accountStore, err := NewAccountStore(f.db, f.secrets)
	if err != nil {
		return err
	}
	registryStore, err := NewAppRegistryStore(f.db)
	if err != nil {
		return err
	}
	f.accountStore = accountStore
	f.appRegistryStore = registryStore
	if f.directoryCache != nil {
		directory, cacheErr := NewCachedAppDirectory(registryStore, f.directoryCache)
		if cacheErr != nil {
			return cacheErr
		}
		f.appDirectory = directory
	}
	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
