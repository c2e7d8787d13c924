package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// errUnchanged lets an accepted mutation skip the write. It is still
// published like any other mutation.
var errUnchanged = errors.New("core: account unchanged")

type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	accountStore      AccountStore
	appDirectory      AppDirectory
	permissionChecker PermissionChecker
	callerResolver    CallerResolver
	accountLocker     AccountLocker
	hub               *changeHub
	nowFn             func() time.Time
}

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	PersistenceClient any
	RepositoryFactory any
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	AccountStore      AccountStore
	AppDirectory      AppDirectory
	PermissionChecker PermissionChecker
	CallerResolver    CallerResolver
	AccountLocker     AccountLocker
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("appaccount", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("appaccount"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.callerResolver == nil {
		builder.callerResolver = ContextCallerResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if (builder.accountStore == nil || builder.appDirectory == nil) && builder.repositoryFactory != nil {
		storeProvider, buildErr := resolveStoreProvider(builder.repositoryFactory, builder.persistenceClient)
		if buildErr != nil {
			return nil, mapBuildError(builder.errorMapper, buildErr)
		}
		if storeProvider != nil {
			if builder.accountStore == nil {
				builder.accountStore = storeProvider.AccountStore()
			}
			if builder.appDirectory == nil {
				builder.appDirectory = storeProvider.AppDirectory()
			}
		}
	}
	if builder.accountStore == nil {
		builder.accountStore = NewMemoryAccountStore()
	}
	if builder.appDirectory == nil {
		builder.appDirectory = NewMemoryAppDirectory()
	}
	if builder.permissionChecker == nil {
		builder.permissionChecker = NewStaticPermissionChecker()
	}
	if builder.accountLocker == nil {
		builder.accountLocker = NewMemoryAccountLocker(finalConfig.lockWaitTimeout())
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		accountStore:      builder.accountStore,
		appDirectory:      builder.appDirectory,
		permissionChecker: builder.permissionChecker,
		callerResolver:    builder.callerResolver,
		accountLocker:     builder.accountLocker,
		hub:               newChangeHub(finalConfig.Notifications.MaxBatchSize, logger),
		nowFn:             func() time.Time { return time.Now().UTC() },
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func resolveStoreProvider(factory any, persistenceClient any) (StoreProvider, error) {
	switch typed := factory.(type) {
	case RepositoryStoreFactory:
		return typed.BuildStores(persistenceClient)
	case StoreProvider:
		return typed, nil
	default:
		return nil, nil
	}
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            s.logger,
		LoggerProvider:    s.loggerProvider,
		MetricsRecorder:   s.metricsRecorder,
		ErrorFactory:      s.errorFactory,
		ErrorMapper:       s.errorMapper,
		PersistenceClient: s.persistenceClient,
		RepositoryFactory: s.repositoryFactory,
		ConfigProvider:    s.configProvider,
		OptionsResolver:   s.optionsResolver,
		AccountStore:      s.accountStore,
		AppDirectory:      s.appDirectory,
		PermissionChecker: s.permissionChecker,
		CallerResolver:    s.callerResolver,
		AccountLocker:     s.accountLocker,
	}
}

// Close stops change delivery and waits for in-flight listener calls.
func (s *Service) Close() error {
	if s == nil || s.hub == nil {
		return nil
	}
	s.hub.close()
	return nil
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) ready() error {
	if s == nil || s.accountStore == nil {
		return fmt.Errorf("core: account store is not configured")
	}
	return nil
}

func (s *Service) lockAccount(ctx context.Context, ref AccountRef) (func(), error) {
	if s.accountLocker == nil {
		return func() {}, nil
	}
	handle, err := s.accountLocker.Acquire(ctx, ref.key())
	if err != nil {
		return nil, err
	}
	return func() {
		_ = handle.Unlock(ctx)
	}, nil
}

// mutateAccount runs mutate against a fresh copy of the account inside the
// account's critical section, persists the result, then publishes a change.
func (s *Service) mutateAccount(
	ctx context.Context,
	operation string,
	ref AccountRef,
	mutate func(account *Account) error,
) error {
	unlock, err := s.lockAccount(ctx, ref)
	if err != nil {
		return err
	}
	current, err := s.accountStore.Get(ctx, ref)
	if err != nil {
		unlock()
		return err
	}
	if err := mutate(&current); err != nil {
		unlock()
		if errors.Is(err, errUnchanged) {
			s.publishChange(operation, current)
			return nil
		}
		return err
	}
	saved, err := s.accountStore.Save(ctx, current)
	unlock()
	if err != nil {
		return err
	}
	s.publishChange(operation, saved)
	return nil
}

// publishChange routes the change to every subscription whose owners include
// the account owner.
func (s *Service) publishChange(operation string, account Account) {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.publish(ChangeEvent{
		Operation:  operation,
		Account:    account.Info(),
		OccurredAt: s.nowFn(),
	})
}

func (s *Service) requirePermission(ctx context.Context, appID string, permission string) error {
	if s.permissionChecker == nil {
		return permissionDeniedError(fmt.Sprintf("core: %s is not granted to %q", permission, appID))
	}
	granted, err := s.permissionChecker.HasPermission(ctx, appID, permission)
	if err != nil {
		return err
	}
	if !granted {
		return permissionDeniedError(fmt.Sprintf("core: %s is not granted to %q", permission, appID))
	}
	return nil
}

func (s *Service) requireRegisteredApp(ctx context.Context, appID string) error {
	if s.appDirectory == nil {
		return notFoundError(fmt.Sprintf("core: application %q is not installed", appID))
	}
	registered, err := s.appDirectory.IsRegistered(ctx, appID)
	if err != nil {
		return err
	}
	if !registered {
		return notFoundError(fmt.Sprintf("core: application %q is not installed", appID))
	}
	return nil
}
