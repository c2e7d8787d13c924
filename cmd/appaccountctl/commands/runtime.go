package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"

	appaccount "github.com/goliatone/go-appaccount"
	"github.com/goliatone/go-appaccount/adapters/gocommand"
	"github.com/goliatone/go-appaccount/core"
	appmigrations "github.com/goliatone/go-appaccount/migrations"
	"github.com/goliatone/go-appaccount/security"
	sqlstore "github.com/goliatone/go-appaccount/store/sql"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// runtime is one CLI invocation's wiring: database, stores, service and the
// dispatcher binding every command and query.
type runtime struct {
	cfg     *Config
	logger  *glog.BaseLogger
	client  *persistence.Client
	service *appaccount.Service
	binding *gocommand.FacadeBinding
}

func openRuntime(ctx context.Context, cfg *Config, logOut io.Writer) (*runtime, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	logger := newLogger(logOut, cfg.LogLevel, cfg.LogFormat)

	client, err := openPersistence(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger, client: client}

	if cfg.Database.AutoMigrate {
		if err := client.Migrate(ctx); err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	factoryOpts, err := storeOptions(cfg)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	permissions := core.NewStaticPermissionChecker()
	for _, appID := range cfg.Privileged {
		permissions.Grant(appID, appaccount.PermissionGetAllAccounts, appaccount.PermissionDistributedSync)
	}

	service, err := appaccount.NewService(cfg.Service,
		appaccount.WithLogger(logger),
		appaccount.WithPersistenceClient(client),
		appaccount.WithRepositoryFactory(sqlstore.NewRepositoryFactory(factoryOpts...)),
		appaccount.WithPermissionChecker(permissions),
	)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("create service: %w", err)
	}
	rt.service = service

	facade, err := appaccount.NewFacade(service)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	binding, err := gocommand.BindFacade(gocommand.NewRegistryAdapter(nil), facade)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("bind commands: %w", err)
	}
	rt.binding = binding
	return rt, nil
}

func (r *runtime) Close() error {
	if r == nil {
		return nil
	}
	if r.binding != nil {
		r.binding.Unbind()
	}
	var errs []error
	if r.service != nil {
		if err := r.service.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openPersistence(ctx context.Context, cfg DatabaseConfig) (*persistence.Client, error) {
	var dialect schema.Dialect
	target := appmigrations.NormalizeDialect(cfg.Driver)
	switch target {
	case appmigrations.DialectSQLite:
		dialect = sqlitedialect.New()
	case appmigrations.DialectPostgres:
		dialect = pgdialect.New()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if target == appmigrations.DialectSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(cfg, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("new persistence client: %w", err)
	}

	_, err = appmigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != target {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, appmigrations.WithValidationTargets(target), appmigrations.WithSourceLabel("appaccountctl"))
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("register migrations: %w", err)
	}
	return client, nil
}

func storeOptions(cfg *Config) ([]sqlstore.FactoryOption, error) {
	opts := make([]sqlstore.FactoryOption, 0, 2)

	provider, err := secretProvider(cfg.Secrets)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		opts = append(opts, sqlstore.WithSecretProvider(provider))
	}

	if cfg.Cache.TTL > 0 {
		cacheConfig := repositorycache.DefaultConfig()
		cacheConfig.TTL = cfg.Cache.TTL
		cacheService, err := repositorycache.NewCacheService(cacheConfig)
		if err != nil {
			return nil, fmt.Errorf("create directory cache: %w", err)
		}
		opts = append(opts, sqlstore.WithDirectoryCache(cacheService))
	}
	return opts, nil
}

func secretProvider(cfg SecretsConfig) (core.SecretProvider, error) {
	var keyOpts []security.Option
	if cfg.KeyID != "" {
		keyOpts = append(keyOpts, security.WithKeyID(cfg.KeyID))
	}
	var active *security.AppKeySecretProvider
	var err error
	switch cfg.Source {
	case SecretSourceKey:
		active, err = security.NewAppKeySecretProviderFromString(cfg.Key, keyOpts...)
		if err != nil {
			return nil, fmt.Errorf("create secret provider: %w", err)
		}
	case SecretSourceKeyring:
		active, err = security.NewKeyringKeySource(cfg.KeyringService, cfg.KeyringUser).SecretProvider(keyOpts...)
		if err != nil {
			return nil, fmt.Errorf("load keyring secret: %w", err)
		}
	default:
		return nil, nil
	}
	if len(cfg.RetiredKeys) == 0 {
		return active, nil
	}

	window := security.KeyRotationWindow{NotAfter: cfg.RetiredUntil}
	rotating := make([]security.RotatingOption, 0, len(cfg.RetiredKeys))
	for _, retired := range cfg.RetiredKeys {
		opts := []security.Option{security.WithKeyID(retired.KeyID)}
		if retired.Version > 0 {
			opts = append(opts, security.WithVersion(retired.Version))
		}
		provider, err := security.NewAppKeySecretProviderFromString(retired.Key, opts...)
		if err != nil {
			return nil, fmt.Errorf("create retired key %q: %w", retired.KeyID, err)
		}
		rotating = append(rotating, security.WithRetiredKey(provider, window))
	}
	provider, err := security.NewRotatingSecretProvider(active, rotating...)
	if err != nil {
		return nil, fmt.Errorf("create rotating secret provider: %w", err)
	}
	return provider, nil
}
