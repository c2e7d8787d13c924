package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

const (
	PermissionGetAllAccounts  = "app_account.get_all_accounts"
	PermissionDistributedSync = "app_account.distributed_sync"
)

// AccountStore persists whole account aggregates. Get and Save exchange
// clones, so a reader never observes a partially applied mutation.
type AccountStore interface {
	Create(ctx context.Context, account Account) (Account, error)
	Get(ctx context.Context, ref AccountRef) (Account, error)
	Save(ctx context.Context, account Account) (Account, error)
	Delete(ctx context.Context, ref AccountRef) error
	ListByOwner(ctx context.Context, owner string) ([]Account, error)
	ListGrantedTo(ctx context.Context, appID string) ([]Account, error)
}

// AppDirectory answers which applications are known on the device.
type AppDirectory interface {
	IsRegistered(ctx context.Context, appID string) (bool, error)
	GetAuthenticator(ctx context.Context, owner string) (AuthenticatorInfo, error)
}

type AppRegistrar interface {
	Register(ctx context.Context, registration AppRegistration) (AppRegistration, error)
}

type PermissionChecker interface {
	HasPermission(ctx context.Context, appID string, permission string) (bool, error)
}

type CallerResolver interface {
	ResolveCaller(ctx context.Context) (string, error)
}

type LockHandle interface {
	Unlock(ctx context.Context) error
}

// AccountLocker serialises mutations per account key. Acquire blocks until
// the key is free or ctx is done.
type AccountLocker interface {
	Acquire(ctx context.Context, key string) (LockHandle, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type SecretProvider interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type AddAccountRequest struct {
	Owner     string
	Name      string
	ExtraInfo string
}

type SetExtraInfoRequest struct {
	Account   AccountRef
	ExtraInfo string
}

type SetCredentialRequest struct {
	Account        AccountRef
	CredentialType string
	Credential     string
}

type GetCredentialRequest struct {
	Account        AccountRef
	CredentialType string
}

type SetAssociatedDataRequest struct {
	Account AccountRef
	Key     string
	Value   string
}

type GetAssociatedDataRequest struct {
	Account AccountRef
	Key     string
}

type AppAccessRequest struct {
	Account    AccountRef
	BundleName string
}

type SetSyncEnabledRequest struct {
	Account AccountRef
	Enabled bool
}

type ListAccountsRequest struct {
	Caller string
	Owner  string
}

type SetOAuthTokenRequest struct {
	Account  AccountRef
	AuthType string
	Token    string
}

// GetOAuthTokenRequest reads a token on Account as Caller.
type GetOAuthTokenRequest struct {
	Account  AccountRef
	Caller   string
	AuthType string
}

type DeleteOAuthTokenRequest struct {
	Account  AccountRef
	Caller   string
	AuthType string
	Token    string
}

type OAuthVisibilityRequest struct {
	Account    AccountRef
	AuthType   string
	BundleName string
	Visible    bool
}

type OAuthListRequest struct {
	Account  AccountRef
	AuthType string
}

type AllOAuthTokensRequest struct {
	Account AccountRef
	Caller  string
}

// ChangeListener receives batches of changed accounts. It runs on the
// subscription's delivery goroutine, never on the mutating caller.
type ChangeListener func(ctx context.Context, batch []AppAccountInfo)

type SubscribeRequest struct {
	Subscriber string
	Owners     []string
	Listener   ChangeListener
}
