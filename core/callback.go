package core

import "context"

// Callback receives the outcome of an asynchronous call.
type Callback[T any] func(result T, err error)

// Completion receives the outcome of an asynchronous call with no result.
type Completion func(err error)

// CallbackManager runs Manager operations on their own goroutine and reports
// through a callback. Results and errors match the direct form exactly.
type CallbackManager struct {
	manager *Manager
}

func runAsync[T any](call func() (T, error), done Callback[T]) {
	go func() {
		result, err := call()
		if done != nil {
			done(result, err)
		}
	}()
}

func runAsyncCompletion(call func() error, done Completion) {
	go func() {
		err := call()
		if done != nil {
			done(err)
		}
	}()
}

func (c *CallbackManager) AddAccount(ctx context.Context, name string, done Completion) {
	runAsyncCompletion(func() error { return c.manager.AddAccount(ctx, name) }, done)
}

func (c *CallbackManager) AddAccountWithExtraInfo(ctx context.Context, name string, extraInfo string, done Completion) {
	runAsyncCompletion(func() error { return c.manager.AddAccountWithExtraInfo(ctx, name, extraInfo) }, done)
}

func (c *CallbackManager) DeleteAccount(ctx context.Context, name string, done Completion) {
	runAsyncCompletion(func() error { return c.manager.DeleteAccount(ctx, name) }, done)
}

func (c *CallbackManager) GetAccountExtraInfo(ctx context.Context, name string, done Callback[string]) {
	runAsync(func() (string, error) { return c.manager.GetAccountExtraInfo(ctx, name) }, done)
}

func (c *CallbackManager) SetAccountExtraInfo(ctx context.Context, name string, extraInfo string, done Completion) {
	runAsyncCompletion(func() error { return c.manager.SetAccountExtraInfo(ctx, name, extraInfo) }, done)
}

func (c *CallbackManager) GetAccountCredential(ctx context.Context, name string, credentialType string, done Callback[string]) {
	runAsync(func() (string, error) { return c.manager.GetAccountCredential(ctx, name, credentialType) }, done)
}

func (c *CallbackManager) SetAccountCredential(ctx context.Context, name string, credentialType string, credential string, done Completion) {
	runAsyncCompletion(func() error {
		return c.manager.SetAccountCredential(ctx, name, credentialType, credential)
	}, done)
}

func (c *CallbackManager) GetAssociatedData(ctx context.Context, name string, key string, done Callback[string]) {
	runAsync(func() (string, error) { return c.manager.GetAssociatedData(ctx, name, key) }, done)
}

func (c *CallbackManager) SetAssociatedData(ctx context.Context, name string, key string, value string, done Completion) {
	runAsyncCompletion(func() error { return c.manager.SetAssociatedData(ctx, name, key, value) }, done)
}

func (c *CallbackManager) EnableAppAccess(ctx context.Context, name string, bundleName string, done Completion) {
	runAsyncCompletion(func() error { return c.manager.EnableAppAccess(ctx, name, bundleName) }, done)
}

func (c *CallbackManager) DisableAppAccess(ctx context.Context, name string, bundleName string, done Completion) {
	runAsyncCompletion(func() error { return c.manager.DisableAppAccess(ctx, name, bundleName) }, done)
}

func (c *CallbackManager) SetAppAccountSyncEnable(ctx context.Context, name string, enabled bool, done Completion) {
	runAsyncCompletion(func() error { return c.manager.SetAppAccountSyncEnable(ctx, name, enabled) }, done)
}

func (c *CallbackManager) CheckAppAccountSyncEnable(ctx context.Context, name string, done Callback[bool]) {
	runAsync(func() (bool, error) { return c.manager.CheckAppAccountSyncEnable(ctx, name) }, done)
}

func (c *CallbackManager) GetAllAccounts(ctx context.Context, owner string, done Callback[[]AppAccountInfo]) {
	runAsync(func() ([]AppAccountInfo, error) { return c.manager.GetAllAccounts(ctx, owner) }, done)
}

func (c *CallbackManager) GetAllAccessibleAccounts(ctx context.Context, done Callback[[]AppAccountInfo]) {
	runAsync(func() ([]AppAccountInfo, error) { return c.manager.GetAllAccessibleAccounts(ctx) }, done)
}

func (c *CallbackManager) SetOAuthToken(ctx context.Context, name string, authType string, token string, done Completion) {
	runAsyncCompletion(func() error { return c.manager.SetOAuthToken(ctx, name, authType, token) }, done)
}

func (c *CallbackManager) GetOAuthToken(ctx context.Context, name string, owner string, authType string, done Callback[string]) {
	runAsync(func() (string, error) { return c.manager.GetOAuthToken(ctx, name, owner, authType) }, done)
}

func (c *CallbackManager) DeleteOAuthToken(ctx context.Context, name string, owner string, authType string, token string, done Completion) {
	runAsyncCompletion(func() error {
		return c.manager.DeleteOAuthToken(ctx, name, owner, authType, token)
	}, done)
}

func (c *CallbackManager) SetOAuthTokenVisibility(ctx context.Context, name string, authType string, bundleName string, visible bool, done Completion) {
	runAsyncCompletion(func() error {
		return c.manager.SetOAuthTokenVisibility(ctx, name, authType, bundleName, visible)
	}, done)
}

func (c *CallbackManager) CheckOAuthTokenVisibility(ctx context.Context, name string, authType string, bundleName string, done Callback[bool]) {
	runAsync(func() (bool, error) {
		return c.manager.CheckOAuthTokenVisibility(ctx, name, authType, bundleName)
	}, done)
}

func (c *CallbackManager) GetOAuthList(ctx context.Context, name string, authType string, done Callback[[]string]) {
	runAsync(func() ([]string, error) { return c.manager.GetOAuthList(ctx, name, authType) }, done)
}

func (c *CallbackManager) GetAllOAuthTokens(ctx context.Context, name string, owner string, done Callback[[]OAuthTokenInfo]) {
	runAsync(func() ([]OAuthTokenInfo, error) { return c.manager.GetAllOAuthTokens(ctx, name, owner) }, done)
}

func (c *CallbackManager) GetAuthenticatorInfo(ctx context.Context, owner string, done Callback[AuthenticatorInfo]) {
	runAsync(func() (AuthenticatorInfo, error) { return c.manager.GetAuthenticatorInfo(ctx, owner) }, done)
}

func (c *CallbackManager) On(ctx context.Context, owners []string, listener ChangeListener, done Callback[*Subscription]) {
	runAsync(func() (*Subscription, error) { return c.manager.On(ctx, owners, listener) }, done)
}

func (c *CallbackManager) Off(ctx context.Context, done Completion, subs ...*Subscription) {
	runAsyncCompletion(func() error { return c.manager.Off(ctx, subs...) }, done)
}
