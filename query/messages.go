package query

import (
	"github.com/goliatone/go-appaccount/core"
)

const (
	TypeGetAccountExtraInfo       = "appaccount.query.account.extra_info.get"
	TypeGetAccountCredential      = "appaccount.query.account.credential.get"
	TypeGetAssociatedData         = "appaccount.query.account.associated_data.get"
	TypeCheckAppAccountSyncEnable = "appaccount.query.sync.check"
	TypeGetAllAccounts            = "appaccount.query.accounts.list"
	TypeGetAllAccessibleAccounts  = "appaccount.query.accounts.accessible"
	TypeGetOAuthToken             = "appaccount.query.oauth_token.get"
	TypeCheckOAuthTokenVisibility = "appaccount.query.oauth_token.visibility.check"
	TypeGetOAuthList              = "appaccount.query.oauth_token.visibility.list"
	TypeGetAllOAuthTokens         = "appaccount.query.oauth_token.list"
	TypeGetAuthenticatorInfo      = "appaccount.query.authenticator.get"
)

type GetAccountExtraInfoMessage struct {
	Account core.AccountRef
}

func (GetAccountExtraInfoMessage) Type() string { return TypeGetAccountExtraInfo }

func (m GetAccountExtraInfoMessage) Validate() error {
	return validateAccount(m.Account)
}

type GetAccountCredentialMessage struct {
	Request core.GetCredentialRequest
}

func (GetAccountCredentialMessage) Type() string { return TypeGetAccountCredential }

func (m GetAccountCredentialMessage) Validate() error {
	if err := validateAccount(m.Request.Account); err != nil {
		return err
	}
	if m.Request.CredentialType == "" {
		return queryValidationError("credential_type", "credential type is required")
	}
	return nil
}

type GetAssociatedDataMessage struct {
	Request core.GetAssociatedDataRequest
}

func (GetAssociatedDataMessage) Type() string { return TypeGetAssociatedData }

func (m GetAssociatedDataMessage) Validate() error {
	if err := validateAccount(m.Request.Account); err != nil {
		return err
	}
	if m.Request.Key == "" {
		return queryValidationError("key", "associated data key is required")
	}
	return nil
}

type CheckAppAccountSyncEnableMessage struct {
	Account core.AccountRef
}

func (CheckAppAccountSyncEnableMessage) Type() string { return TypeCheckAppAccountSyncEnable }

func (m CheckAppAccountSyncEnableMessage) Validate() error {
	return validateAccount(m.Account)
}

type GetAllAccountsMessage struct {
	Request core.ListAccountsRequest
}

func (GetAllAccountsMessage) Type() string { return TypeGetAllAccounts }

func (m GetAllAccountsMessage) Validate() error {
	if m.Request.Caller == "" {
		return queryValidationError("caller", "caller is required")
	}
	if m.Request.Owner == "" {
		return queryValidationError("owner", "owner is required")
	}
	return nil
}

type GetAllAccessibleAccountsMessage struct {
	Caller string
}

func (GetAllAccessibleAccountsMessage) Type() string { return TypeGetAllAccessibleAccounts }

func (m GetAllAccessibleAccountsMessage) Validate() error {
	if m.Caller == "" {
		return queryValidationError("caller", "caller is required")
	}
	return nil
}

type GetOAuthTokenMessage struct {
	Request core.GetOAuthTokenRequest
}

func (GetOAuthTokenMessage) Type() string { return TypeGetOAuthToken }

func (m GetOAuthTokenMessage) Validate() error {
	if err := validateAccount(m.Request.Account); err != nil {
		return err
	}
	if m.Request.Caller == "" {
		return queryValidationError("caller", "caller is required")
	}
	return nil
}

type CheckOAuthTokenVisibilityMessage struct {
	Request core.OAuthVisibilityRequest
}

func (CheckOAuthTokenVisibilityMessage) Type() string { return TypeCheckOAuthTokenVisibility }

func (m CheckOAuthTokenVisibilityMessage) Validate() error {
	if err := validateAccount(m.Request.Account); err != nil {
		return err
	}
	if m.Request.BundleName == "" {
		return queryValidationError("bundle_name", "bundle name is required")
	}
	return nil
}

type GetOAuthListMessage struct {
	Request core.OAuthListRequest
}

func (GetOAuthListMessage) Type() string { return TypeGetOAuthList }

func (m GetOAuthListMessage) Validate() error {
	return validateAccount(m.Request.Account)
}

type GetAllOAuthTokensMessage struct {
	Request core.AllOAuthTokensRequest
}

func (GetAllOAuthTokensMessage) Type() string { return TypeGetAllOAuthTokens }

func (m GetAllOAuthTokensMessage) Validate() error {
	if err := validateAccount(m.Request.Account); err != nil {
		return err
	}
	if m.Request.Caller == "" {
		return queryValidationError("caller", "caller is required")
	}
	return nil
}

type GetAuthenticatorInfoMessage struct {
	Owner string
}

func (GetAuthenticatorInfoMessage) Type() string { return TypeGetAuthenticatorInfo }

func (m GetAuthenticatorInfoMessage) Validate() error {
	if m.Owner == "" {
		return queryValidationError("owner", "owner is required")
	}
	return nil
}

func validateAccount(ref core.AccountRef) error {
	if ref.Owner == "" {
		return queryValidationError("owner", "owner is required")
	}
	if ref.Name == "" {
		return queryValidationError("name", "account name is required")
	}
	if err := ref.Validate(); err != nil {
		return queryWrapValidation(err, "query: invalid account reference")
	}
	return nil
}
