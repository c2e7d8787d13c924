package command

import (
	"github.com/goliatone/go-appaccount/core"
)

const (
	TypeAddAccount              = "appaccount.command.account.add"
	TypeDeleteAccount           = "appaccount.command.account.delete"
	TypeSetAccountExtraInfo     = "appaccount.command.account.extra_info.set"
	TypeSetAccountCredential    = "appaccount.command.account.credential.set"
	TypeSetAssociatedData       = "appaccount.command.account.associated_data.set"
	TypeEnableAppAccess         = "appaccount.command.access.enable"
	TypeDisableAppAccess        = "appaccount.command.access.disable"
	TypeSetAppAccountSyncEnable = "appaccount.command.sync.set"
	TypeSetOAuthToken           = "appaccount.command.oauth_token.set"
	TypeDeleteOAuthToken        = "appaccount.command.oauth_token.delete"
	TypeSetOAuthTokenVisibility = "appaccount.command.oauth_token.visibility.set"
	TypeRegisterApp             = "appaccount.command.app.register"
	TypeSubscribe               = "appaccount.command.subscription.subscribe"
	TypeUnsubscribe             = "appaccount.command.subscription.unsubscribe"
)

type AddAccountMessage struct {
	Request core.AddAccountRequest
}

func (AddAccountMessage) Type() string { return TypeAddAccount }

func (m AddAccountMessage) Validate() error {
	return validateAccount(core.AccountRef{Owner: m.Request.Owner, Name: m.Request.Name})
}

type DeleteAccountMessage struct {
	Account core.AccountRef
}

func (DeleteAccountMessage) Type() string { return TypeDeleteAccount }

func (m DeleteAccountMessage) Validate() error {
	return validateAccount(m.Account)
}

type SetAccountExtraInfoMessage struct {
	Request core.SetExtraInfoRequest
}

func (SetAccountExtraInfoMessage) Type() string { return TypeSetAccountExtraInfo }

func (m SetAccountExtraInfoMessage) Validate() error {
	return validateAccount(m.Request.Account)
}

type SetAccountCredentialMessage struct {
	Request core.SetCredentialRequest
}

func (SetAccountCredentialMessage) Type() string { return TypeSetAccountCredential }

func (m SetAccountCredentialMessage) Validate() error {
	if err := validateAccount(m.Request.Account); err != nil {
		return err
	}
	if m.Request.CredentialType == "" {
		return commandValidationError("credential_type", "credential type is required")
	}
	return nil
}

type SetAssociatedDataMessage struct {
	Request core.SetAssociatedDataRequest
}

func (SetAssociatedDataMessage) Type() string { return TypeSetAssociatedData }

func (m SetAssociatedDataMessage) Validate() error {
	if err := validateAccount(m.Request.Account); err != nil {
		return err
	}
	if m.Request.Key == "" {
		return commandValidationError("key", "associated data key is required")
	}
	return nil
}

type EnableAppAccessMessage struct {
	Request core.AppAccessRequest
}

func (EnableAppAccessMessage) Type() string { return TypeEnableAppAccess }

func (m EnableAppAccessMessage) Validate() error {
	return validateAccessRequest(m.Request)
}

type DisableAppAccessMessage struct {
	Request core.AppAccessRequest
}

func (DisableAppAccessMessage) Type() string { return TypeDisableAppAccess }

func (m DisableAppAccessMessage) Validate() error {
	return validateAccessRequest(m.Request)
}

type SetAppAccountSyncEnableMessage struct {
	Request core.SetSyncEnabledRequest
}

func (SetAppAccountSyncEnableMessage) Type() string { return TypeSetAppAccountSyncEnable }

func (m SetAppAccountSyncEnableMessage) Validate() error {
	return validateAccount(m.Request.Account)
}

type SetOAuthTokenMessage struct {
	Request core.SetOAuthTokenRequest
}

func (SetOAuthTokenMessage) Type() string { return TypeSetOAuthToken }

func (m SetOAuthTokenMessage) Validate() error {
	return validateAccount(m.Request.Account)
}

type DeleteOAuthTokenMessage struct {
	Request core.DeleteOAuthTokenRequest
}

func (DeleteOAuthTokenMessage) Type() string { return TypeDeleteOAuthToken }

func (m DeleteOAuthTokenMessage) Validate() error {
	if err := validateAccount(m.Request.Account); err != nil {
		return err
	}
	if m.Request.Caller == "" {
		return commandValidationError("caller", "caller is required")
	}
	return nil
}

type SetOAuthTokenVisibilityMessage struct {
	Request core.OAuthVisibilityRequest
}

func (SetOAuthTokenVisibilityMessage) Type() string { return TypeSetOAuthTokenVisibility }

func (m SetOAuthTokenVisibilityMessage) Validate() error {
	if err := validateAccount(m.Request.Account); err != nil {
		return err
	}
	if m.Request.BundleName == "" {
		return commandValidationError("bundle_name", "bundle name is required")
	}
	return nil
}

type RegisterAppMessage struct {
	Registration core.AppRegistration
}

func (RegisterAppMessage) Type() string { return TypeRegisterApp }

func (m RegisterAppMessage) Validate() error {
	if m.Registration.AppID == "" {
		return commandValidationError("app_id", "app id is required")
	}
	return nil
}

type SubscribeMessage struct {
	Request core.SubscribeRequest
}

func (SubscribeMessage) Type() string { return TypeSubscribe }

func (m SubscribeMessage) Validate() error {
	if m.Request.Subscriber == "" {
		return commandValidationError("subscriber", "subscriber is required")
	}
	if len(m.Request.Owners) == 0 {
		return commandValidationError("owners", "at least one owner is required")
	}
	if m.Request.Listener == nil {
		return commandValidationError("listener", "listener is required")
	}
	return nil
}

type UnsubscribeMessage struct {
	SubscriptionID string
}

func (UnsubscribeMessage) Type() string { return TypeUnsubscribe }

func (m UnsubscribeMessage) Validate() error {
	if m.SubscriptionID == "" {
		return commandValidationError("subscription_id", "subscription id is required")
	}
	return nil
}

func validateAccount(ref core.AccountRef) error {
	if ref.Owner == "" {
		return commandValidationError("owner", "owner is required")
	}
	if ref.Name == "" {
		return commandValidationError("name", "account name is required")
	}
	if err := ref.Validate(); err != nil {
		return commandWrapValidation(err, "command: invalid account reference")
	}
	return nil
}

func validateAccessRequest(req core.AppAccessRequest) error {
	if err := validateAccount(req.Account); err != nil {
		return err
	}
	if req.BundleName == "" {
		return commandValidationError("bundle_name", "bundle name is required")
	}
	return nil
}
