package appaccount

import "github.com/goliatone/go-appaccount/core"

type Config = core.Config

type NotificationsConfig = core.NotificationsConfig

type LockingConfig = core.LockingConfig

type Option = core.Option

type Service = core.Service

type Manager = core.Manager

type CallbackManager = core.CallbackManager

type Subscription = core.Subscription

type ServiceDependencies = core.ServiceDependencies
type AccountStore = core.AccountStore
type AppDirectory = core.AppDirectory
type AppRegistrar = core.AppRegistrar
type PermissionChecker = core.PermissionChecker
type CallerResolver = core.CallerResolver
type AccountLocker = core.AccountLocker
type MetricsRecorder = core.MetricsRecorder
type SecretProvider = core.SecretProvider
type Logger = core.Logger
type LoggerProvider = core.LoggerProvider
type FieldsLogger = core.FieldsLogger

type AccountRef = core.AccountRef
type AppAccountInfo = core.AppAccountInfo
type OAuthTokenInfo = core.OAuthTokenInfo
type AuthenticatorInfo = core.AuthenticatorInfo
type AppRegistration = core.AppRegistration
type ChangeListener = core.ChangeListener

const (
	PermissionGetAllAccounts  = core.PermissionGetAllAccounts
	PermissionDistributedSync = core.PermissionDistributedSync
)

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithAccountStore      = core.WithAccountStore
	WithAppDirectory      = core.WithAppDirectory
	WithPermissionChecker = core.WithPermissionChecker
	WithCallerResolver    = core.WithCallerResolver
	WithAccountLocker     = core.WithAccountLocker
	WithCallerApp         = core.WithCallerApp
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
