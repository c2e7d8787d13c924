package core

import (
	"context"
	"fmt"
	"time"
)

func (s *Service) EnableAppAccess(ctx context.Context, req AppAccessRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["bundle_name"] = req.BundleName
	defer func() {
		s.observeOperation(ctx, startedAt, "enable_app_access", err, fields)
	}()

	if err = s.validateAccessRequest(ctx, req); err != nil {
		return err
	}
	err = s.mutateAccount(ctx, "enable_app_access", req.Account, func(account *Account) error {
		if account.HasAccessGrant(req.BundleName) {
			return alreadyGrantedError(fmt.Sprintf("core: %q already has access to %q", req.BundleName, account.Name))
		}
		account.AccessGrants = normalizeAppIDs(append(account.AccessGrants, req.BundleName))
		return nil
	})
	err = s.mapError(err)
	return err
}

// DisableAppAccess revokes an existing grant. Revoking a grant that does not
// exist is an error, so enable/disable pairs never silently drift.
func (s *Service) DisableAppAccess(ctx context.Context, req AppAccessRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["bundle_name"] = req.BundleName
	defer func() {
		s.observeOperation(ctx, startedAt, "disable_app_access", err, fields)
	}()

	if err = s.validateAccessRequest(ctx, req); err != nil {
		return err
	}
	err = s.mutateAccount(ctx, "disable_app_access", req.Account, func(account *Account) error {
		if !account.HasAccessGrant(req.BundleName) {
			return notGrantedError(fmt.Sprintf("core: %q has no access to %q", req.BundleName, account.Name))
		}
		account.AccessGrants = removeAppID(account.AccessGrants, req.BundleName)
		return nil
	})
	err = s.mapError(err)
	return err
}

func (s *Service) validateAccessRequest(ctx context.Context, req AppAccessRequest) error {
	if err := s.ready(); err != nil {
		return s.mapError(err)
	}
	if err := req.Account.Validate(); err != nil {
		return err
	}
	if err := validateAppID("bundle name", req.BundleName); err != nil {
		return err
	}
	if req.BundleName == req.Account.Owner {
		return invalidArgumentError("core: an application cannot grant access to itself")
	}
	if err := s.requireRegisteredApp(ctx, req.BundleName); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *Service) SetAppAccountSyncEnable(ctx context.Context, req SetSyncEnabledRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["enabled"] = req.Enabled
	defer func() {
		s.observeOperation(ctx, startedAt, "set_app_account_sync_enable", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = s.requirePermission(ctx, req.Account.Owner, PermissionDistributedSync); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = req.Account.Validate(); err != nil {
		return err
	}
	err = s.mutateAccount(ctx, "set_app_account_sync_enable", req.Account, func(account *Account) error {
		if account.SyncEnabled == req.Enabled {
			return errUnchanged
		}
		account.SyncEnabled = req.Enabled
		return nil
	})
	err = s.mapError(err)
	return err
}

func (s *Service) CheckAppAccountSyncEnable(ctx context.Context, ref AccountRef) (enabled bool, err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(ref)
	defer func() {
		s.observeOperation(ctx, startedAt, "check_app_account_sync_enable", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return false, err
	}
	if err = s.requirePermission(ctx, ref.Owner, PermissionDistributedSync); err != nil {
		err = s.mapError(err)
		return false, err
	}
	account, err := s.loadAccount(ctx, ref)
	if err != nil {
		return false, err
	}
	return account.SyncEnabled, nil
}

// GetAllAccounts lists one owner's accounts. Listing another application's
// accounts requires PermissionGetAllAccounts.
func (s *Service) GetAllAccounts(ctx context.Context, req ListAccountsRequest) (accounts []AppAccountInfo, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"owner": req.Owner, "caller": req.Caller}
	defer func() {
		s.observeOperation(ctx, startedAt, "get_all_accounts", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return nil, err
	}
	if err = validateAppID("caller", req.Caller); err != nil {
		return nil, err
	}
	if req.Caller != req.Owner {
		if err = s.requirePermission(ctx, req.Caller, PermissionGetAllAccounts); err != nil {
			err = s.mapError(err)
			return nil, err
		}
	}
	if err = validateAppID("owner", req.Owner); err != nil {
		return nil, err
	}
	owned, err := s.accountStore.ListByOwner(ctx, req.Owner)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	accounts = make([]AppAccountInfo, 0, len(owned))
	for _, account := range owned {
		accounts = append(accounts, account.Info())
	}
	sortAccountInfos(accounts)
	return accounts, nil
}

// GetAllAccessibleAccounts returns the caller's own accounts plus every account
// that granted the caller access. It always requires PermissionGetAllAccounts.
func (s *Service) GetAllAccessibleAccounts(ctx context.Context, caller string) (accounts []AppAccountInfo, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"caller": caller}
	defer func() {
		s.observeOperation(ctx, startedAt, "get_all_accessible_accounts", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return nil, err
	}
	if err = validateAppID("caller", caller); err != nil {
		return nil, err
	}
	if err = s.requirePermission(ctx, caller, PermissionGetAllAccounts); err != nil {
		err = s.mapError(err)
		return nil, err
	}
	owned, err := s.accountStore.ListByOwner(ctx, caller)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	granted, err := s.accountStore.ListGrantedTo(ctx, caller)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	seen := make(map[string]struct{}, len(owned)+len(granted))
	accounts = make([]AppAccountInfo, 0, len(owned)+len(granted))
	for _, account := range append(owned, granted...) {
		key := account.Ref().key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		accounts = append(accounts, account.Info())
	}
	sortAccountInfos(accounts)
	return accounts, nil
}

func (s *Service) GetAuthenticatorInfo(ctx context.Context, owner string) (info AuthenticatorInfo, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"owner": owner}
	defer func() {
		s.observeOperation(ctx, startedAt, "get_authenticator_info", err, fields)
	}()

	if err = validateAppID("owner", owner); err != nil {
		return AuthenticatorInfo{}, err
	}
	if s == nil || s.appDirectory == nil {
		err = notFoundError(fmt.Sprintf("core: authenticator not found for %q", owner))
		return AuthenticatorInfo{}, err
	}
	info, err = s.appDirectory.GetAuthenticator(ctx, owner)
	if err != nil {
		err = s.mapError(err)
		return AuthenticatorInfo{}, err
	}
	return info, nil
}

// RegisterApp records an application as installed. It requires an
// AppDirectory that also implements AppRegistrar.
func (s *Service) RegisterApp(ctx context.Context, registration AppRegistration) (registered AppRegistration, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"owner": registration.AppID}
	defer func() {
		s.observeOperation(ctx, startedAt, "register_app", err, fields)
	}()

	if err = validateAppID("app id", registration.AppID); err != nil {
		return AppRegistration{}, err
	}
	registrar, ok := s.appDirectory.(AppRegistrar)
	if !ok {
		err = s.mapError(fmt.Errorf("core: app directory %T does not accept registrations", s.appDirectory))
		return AppRegistration{}, err
	}
	registered, err = registrar.Register(ctx, registration)
	if err != nil {
		err = s.mapError(err)
		return AppRegistration{}, err
	}
	return registered, nil
}
