package core

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// SetOAuthToken overwrites the token stored under authType. Visibility grants
// for the authType are left untouched.
func (s *Service) SetOAuthToken(ctx context.Context, req SetOAuthTokenRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["auth_type"] = req.AuthType
	defer func() {
		s.observeOperation(ctx, startedAt, "set_oauth_token", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = req.Account.Validate(); err != nil {
		return err
	}
	if err = validateLength("auth type", req.AuthType); err != nil {
		return err
	}
	if err = validateLength("token", req.Token); err != nil {
		return err
	}
	err = s.mutateAccount(ctx, "set_oauth_token", req.Account, func(account *Account) error {
		entry := account.OAuthTokens[req.AuthType]
		if entry.Token == req.Token {
			return errUnchanged
		}
		entry.Token = req.Token
		account.setTokenEntry(req.AuthType, entry)
		return nil
	})
	err = s.mapError(err)
	return err
}

// GetOAuthToken reads a token as req.Caller. A caller without visibility is
// denied before the token is looked at, so absence is never leaked.
func (s *Service) GetOAuthToken(ctx context.Context, req GetOAuthTokenRequest) (token string, err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["caller"] = req.Caller
	fields["auth_type"] = req.AuthType
	defer func() {
		s.observeOperation(ctx, startedAt, "get_oauth_token", err, fields)
	}()

	if err = validateAppID("caller", req.Caller); err != nil {
		return "", err
	}
	if err = validateLength("auth type", req.AuthType); err != nil {
		return "", err
	}
	account, err := s.loadAccount(ctx, req.Account)
	if err != nil {
		return "", err
	}
	if !account.tokenVisibleTo(req.AuthType, req.Caller) {
		err = permissionDeniedError(fmt.Sprintf("core: %q cannot read %q tokens of %q", req.Caller, req.AuthType, account.Name))
		return "", err
	}
	entry, ok := account.OAuthTokens[req.AuthType]
	if !ok || entry.Token == "" {
		err = notFoundError(fmt.Sprintf("core: no %q token on %q", req.AuthType, account.Name))
		return "", err
	}
	return entry.Token, nil
}

// DeleteOAuthToken clears the token for authType. The token argument is not
// matched against the stored value and deleting an unset token succeeds.
func (s *Service) DeleteOAuthToken(ctx context.Context, req DeleteOAuthTokenRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["caller"] = req.Caller
	fields["auth_type"] = req.AuthType
	defer func() {
		s.observeOperation(ctx, startedAt, "delete_oauth_token", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = req.Account.Validate(); err != nil {
		return err
	}
	if err = validateAppID("caller", req.Caller); err != nil {
		return err
	}
	if err = validateLength("auth type", req.AuthType); err != nil {
		return err
	}
	if err = validateLength("token", req.Token); err != nil {
		return err
	}
	err = s.mutateAccount(ctx, "delete_oauth_token", req.Account, func(account *Account) error {
		if !account.tokenVisibleTo(req.AuthType, req.Caller) {
			return permissionDeniedError(fmt.Sprintf("core: %q cannot delete %q tokens of %q", req.Caller, req.AuthType, account.Name))
		}
		entry, ok := account.OAuthTokens[req.AuthType]
		if !ok || entry.Token == "" {
			return errUnchanged
		}
		entry.Token = ""
		account.setTokenEntry(req.AuthType, entry)
		return nil
	})
	err = s.mapError(err)
	return err
}

func (s *Service) SetOAuthTokenVisibility(ctx context.Context, req OAuthVisibilityRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["auth_type"] = req.AuthType
	fields["bundle_name"] = req.BundleName
	fields["visible"] = req.Visible
	defer func() {
		s.observeOperation(ctx, startedAt, "set_oauth_token_visibility", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = req.Account.Validate(); err != nil {
		return err
	}
	if err = validateLength("auth type", req.AuthType); err != nil {
		return err
	}
	if err = validateAppID("bundle name", req.BundleName); err != nil {
		return err
	}
	err = s.mutateAccount(ctx, "set_oauth_token_visibility", req.Account, func(account *Account) error {
		// The owner always sees its own tokens.
		if req.BundleName == account.Owner {
			return errUnchanged
		}
		entry := account.OAuthTokens[req.AuthType]
		granted := containsAppID(entry.Visibility, req.BundleName)
		switch {
		case req.Visible && granted, !req.Visible && !granted:
			return errUnchanged
		case req.Visible:
			entry.Visibility = append(append([]string{}, entry.Visibility...), req.BundleName)
		default:
			entry.Visibility = removeAppID(entry.Visibility, req.BundleName)
		}
		account.setTokenEntry(req.AuthType, entry)
		return nil
	})
	err = s.mapError(err)
	return err
}

// CheckOAuthTokenVisibility does not require a token to exist for authType.
func (s *Service) CheckOAuthTokenVisibility(ctx context.Context, req OAuthVisibilityRequest) (visible bool, err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["auth_type"] = req.AuthType
	fields["bundle_name"] = req.BundleName
	defer func() {
		s.observeOperation(ctx, startedAt, "check_oauth_token_visibility", err, fields)
	}()

	if err = validateLength("auth type", req.AuthType); err != nil {
		return false, err
	}
	if err = validateAppID("bundle name", req.BundleName); err != nil {
		return false, err
	}
	account, err := s.loadAccount(ctx, req.Account)
	if err != nil {
		return false, err
	}
	return account.tokenVisibleTo(req.AuthType, req.BundleName), nil
}

func (s *Service) GetOAuthList(ctx context.Context, req OAuthListRequest) (grantees []string, err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["auth_type"] = req.AuthType
	defer func() {
		s.observeOperation(ctx, startedAt, "get_oauth_list", err, fields)
	}()

	if err = validateLength("auth type", req.AuthType); err != nil {
		return nil, err
	}
	account, err := s.loadAccount(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	return normalizeAppIDs(account.OAuthTokens[req.AuthType].Visibility), nil
}

// GetAllOAuthTokens lists every authType on the account ordered by name.
// Tokens the caller may not read are returned as "".
func (s *Service) GetAllOAuthTokens(ctx context.Context, req AllOAuthTokensRequest) (tokens []OAuthTokenInfo, err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["caller"] = req.Caller
	defer func() {
		s.observeOperation(ctx, startedAt, "get_all_oauth_tokens", err, fields)
	}()

	if err = validateAppID("caller", req.Caller); err != nil {
		return nil, err
	}
	account, err := s.loadAccount(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	authTypes := make([]string, 0, len(account.OAuthTokens))
	for authType := range account.OAuthTokens {
		authTypes = append(authTypes, authType)
	}
	sort.Strings(authTypes)

	tokens = make([]OAuthTokenInfo, 0, len(authTypes))
	for _, authType := range authTypes {
		info := OAuthTokenInfo{AuthType: authType}
		if account.tokenVisibleTo(authType, req.Caller) {
			info.Token = account.OAuthTokens[authType].Token
		}
		tokens = append(tokens, info)
	}
	return tokens, nil
}
