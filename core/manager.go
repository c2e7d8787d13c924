package core

import (
	"context"
)

// Manager is the per-application view of the service: the calling app is the
// implicit owner for mutations and the implicit caller for reads that check
// visibility.
type Manager struct {
	service *Service
	appID   string
}

func (s *Service) Manager(appID string) (*Manager, error) {
	if err := validateAppID("app id", appID); err != nil {
		return nil, err
	}
	return &Manager{service: s, appID: appID}, nil
}

// ManagerFromContext resolves the calling app with the configured
// CallerResolver.
func (s *Service) ManagerFromContext(ctx context.Context) (*Manager, error) {
	if s == nil || s.callerResolver == nil {
		return nil, permissionDeniedError("core: caller application is unknown")
	}
	appID, err := s.callerResolver.ResolveCaller(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.Manager(appID)
}

func (m *Manager) AppID() string {
	return m.appID
}

func (m *Manager) ref(name string) AccountRef {
	return AccountRef{Owner: m.appID, Name: name}
}

func (m *Manager) AddAccount(ctx context.Context, name string) error {
	return m.service.AddAccount(ctx, AddAccountRequest{Owner: m.appID, Name: name})
}

func (m *Manager) AddAccountWithExtraInfo(ctx context.Context, name string, extraInfo string) error {
	return m.service.AddAccount(ctx, AddAccountRequest{Owner: m.appID, Name: name, ExtraInfo: extraInfo})
}

func (m *Manager) DeleteAccount(ctx context.Context, name string) error {
	return m.service.DeleteAccount(ctx, m.ref(name))
}

func (m *Manager) GetAccountExtraInfo(ctx context.Context, name string) (string, error) {
	return m.service.GetAccountExtraInfo(ctx, m.ref(name))
}

func (m *Manager) SetAccountExtraInfo(ctx context.Context, name string, extraInfo string) error {
	return m.service.SetAccountExtraInfo(ctx, SetExtraInfoRequest{Account: m.ref(name), ExtraInfo: extraInfo})
}

func (m *Manager) GetAccountCredential(ctx context.Context, name string, credentialType string) (string, error) {
	return m.service.GetAccountCredential(ctx, GetCredentialRequest{Account: m.ref(name), CredentialType: credentialType})
}

func (m *Manager) SetAccountCredential(ctx context.Context, name string, credentialType string, credential string) error {
	return m.service.SetAccountCredential(ctx, SetCredentialRequest{
		Account:        m.ref(name),
		CredentialType: credentialType,
		Credential:     credential,
	})
}

func (m *Manager) GetAssociatedData(ctx context.Context, name string, key string) (string, error) {
	return m.service.GetAssociatedData(ctx, GetAssociatedDataRequest{Account: m.ref(name), Key: key})
}

func (m *Manager) SetAssociatedData(ctx context.Context, name string, key string, value string) error {
	return m.service.SetAssociatedData(ctx, SetAssociatedDataRequest{Account: m.ref(name), Key: key, Value: value})
}

func (m *Manager) EnableAppAccess(ctx context.Context, name string, bundleName string) error {
	return m.service.EnableAppAccess(ctx, AppAccessRequest{Account: m.ref(name), BundleName: bundleName})
}

func (m *Manager) DisableAppAccess(ctx context.Context, name string, bundleName string) error {
	return m.service.DisableAppAccess(ctx, AppAccessRequest{Account: m.ref(name), BundleName: bundleName})
}

func (m *Manager) SetAppAccountSyncEnable(ctx context.Context, name string, enabled bool) error {
	return m.service.SetAppAccountSyncEnable(ctx, SetSyncEnabledRequest{Account: m.ref(name), Enabled: enabled})
}

func (m *Manager) CheckAppAccountSyncEnable(ctx context.Context, name string) (bool, error) {
	return m.service.CheckAppAccountSyncEnable(ctx, m.ref(name))
}

func (m *Manager) GetAllAccounts(ctx context.Context, owner string) ([]AppAccountInfo, error) {
	return m.service.GetAllAccounts(ctx, ListAccountsRequest{Caller: m.appID, Owner: owner})
}

func (m *Manager) GetAllAccessibleAccounts(ctx context.Context) ([]AppAccountInfo, error) {
	return m.service.GetAllAccessibleAccounts(ctx, m.appID)
}

func (m *Manager) SetOAuthToken(ctx context.Context, name string, authType string, token string) error {
	return m.service.SetOAuthToken(ctx, SetOAuthTokenRequest{Account: m.ref(name), AuthType: authType, Token: token})
}

// GetOAuthToken reads a token from owner's account as this app.
func (m *Manager) GetOAuthToken(ctx context.Context, name string, owner string, authType string) (string, error) {
	return m.service.GetOAuthToken(ctx, GetOAuthTokenRequest{
		Account:  AccountRef{Owner: owner, Name: name},
		Caller:   m.appID,
		AuthType: authType,
	})
}

func (m *Manager) DeleteOAuthToken(ctx context.Context, name string, owner string, authType string, token string) error {
	return m.service.DeleteOAuthToken(ctx, DeleteOAuthTokenRequest{
		Account:  AccountRef{Owner: owner, Name: name},
		Caller:   m.appID,
		AuthType: authType,
		Token:    token,
	})
}

func (m *Manager) SetOAuthTokenVisibility(ctx context.Context, name string, authType string, bundleName string, visible bool) error {
	return m.service.SetOAuthTokenVisibility(ctx, OAuthVisibilityRequest{
		Account:    m.ref(name),
		AuthType:   authType,
		BundleName: bundleName,
		Visible:    visible,
	})
}

func (m *Manager) CheckOAuthTokenVisibility(ctx context.Context, name string, authType string, bundleName string) (bool, error) {
	return m.service.CheckOAuthTokenVisibility(ctx, OAuthVisibilityRequest{
		Account:    m.ref(name),
		AuthType:   authType,
		BundleName: bundleName,
	})
}

func (m *Manager) GetOAuthList(ctx context.Context, name string, authType string) ([]string, error) {
	return m.service.GetOAuthList(ctx, OAuthListRequest{Account: m.ref(name), AuthType: authType})
}

func (m *Manager) GetAllOAuthTokens(ctx context.Context, name string, owner string) ([]OAuthTokenInfo, error) {
	return m.service.GetAllOAuthTokens(ctx, AllOAuthTokensRequest{
		Account: AccountRef{Owner: owner, Name: name},
		Caller:  m.appID,
	})
}

func (m *Manager) GetAuthenticatorInfo(ctx context.Context, owner string) (AuthenticatorInfo, error) {
	return m.service.GetAuthenticatorInfo(ctx, owner)
}

// On subscribes to changes of accounts owned by owners.
func (m *Manager) On(ctx context.Context, owners []string, listener ChangeListener) (*Subscription, error) {
	return m.service.Subscribe(ctx, SubscribeRequest{
		Subscriber: m.appID,
		Owners:     owners,
		Listener:   listener,
	})
}

// Off removes the given subscriptions. With no handles it removes every
// subscription this app holds.
func (m *Manager) Off(ctx context.Context, subs ...*Subscription) error {
	if len(subs) == 0 {
		_, err := m.service.UnsubscribeAll(ctx, m.appID)
		return err
	}
	for _, sub := range subs {
		if sub == nil || sub.subscriber != m.appID {
			continue
		}
		if err := m.service.Unsubscribe(ctx, sub.id); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) Callbacks() *CallbackManager {
	return &CallbackManager{manager: m}
}
