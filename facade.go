package appaccount

import (
	"fmt"

	appcommand "github.com/goliatone/go-appaccount/command"
	appquery "github.com/goliatone/go-appaccount/query"
)

type CommandQueryService interface {
	appcommand.MutatingService
	appquery.AccountDataReader
	appquery.AccountListReader
	appquery.OAuthTokenReader
}

type Commands struct {
	AddAccount              *appcommand.AddAccountCommand
	DeleteAccount           *appcommand.DeleteAccountCommand
	SetAccountExtraInfo     *appcommand.SetAccountExtraInfoCommand
	SetAccountCredential    *appcommand.SetAccountCredentialCommand
	SetAssociatedData       *appcommand.SetAssociatedDataCommand
	EnableAppAccess         *appcommand.EnableAppAccessCommand
	DisableAppAccess        *appcommand.DisableAppAccessCommand
	SetAppAccountSyncEnable *appcommand.SetAppAccountSyncEnableCommand
	SetOAuthToken           *appcommand.SetOAuthTokenCommand
	DeleteOAuthToken        *appcommand.DeleteOAuthTokenCommand
	SetOAuthTokenVisibility *appcommand.SetOAuthTokenVisibilityCommand
	RegisterApp             *appcommand.RegisterAppCommand
	Subscribe               *appcommand.SubscribeCommand
	Unsubscribe             *appcommand.UnsubscribeCommand
}

type Queries struct {
	GetAccountExtraInfo       *appquery.GetAccountExtraInfoQuery
	GetAccountCredential      *appquery.GetAccountCredentialQuery
	GetAssociatedData         *appquery.GetAssociatedDataQuery
	CheckAppAccountSyncEnable *appquery.CheckAppAccountSyncEnableQuery
	GetAllAccounts            *appquery.GetAllAccountsQuery
	GetAllAccessibleAccounts  *appquery.GetAllAccessibleAccountsQuery
	GetOAuthToken             *appquery.GetOAuthTokenQuery
	CheckOAuthTokenVisibility *appquery.CheckOAuthTokenVisibilityQuery
	GetOAuthList              *appquery.GetOAuthListQuery
	GetAllOAuthTokens         *appquery.GetAllOAuthTokensQuery
	GetAuthenticatorInfo      *appquery.GetAuthenticatorInfoQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	authenticatorReader appquery.AuthenticatorReader
}

// WithAuthenticatorReader overrides where authenticator lookups are served
// from. By default the service itself answers them when it can.
func WithAuthenticatorReader(reader appquery.AuthenticatorReader) FacadeOption {
	return func(options *facadeOptions) {
		options.authenticatorReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("appaccount: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.authenticatorReader
	if reader == nil {
		reader = resolveAuthenticatorReader(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		AddAccount:              appcommand.NewAddAccountCommand(service),
		DeleteAccount:           appcommand.NewDeleteAccountCommand(service),
		SetAccountExtraInfo:     appcommand.NewSetAccountExtraInfoCommand(service),
		SetAccountCredential:    appcommand.NewSetAccountCredentialCommand(service),
		SetAssociatedData:       appcommand.NewSetAssociatedDataCommand(service),
		EnableAppAccess:         appcommand.NewEnableAppAccessCommand(service),
		DisableAppAccess:        appcommand.NewDisableAppAccessCommand(service),
		SetAppAccountSyncEnable: appcommand.NewSetAppAccountSyncEnableCommand(service),
		SetOAuthToken:           appcommand.NewSetOAuthTokenCommand(service),
		DeleteOAuthToken:        appcommand.NewDeleteOAuthTokenCommand(service),
		SetOAuthTokenVisibility: appcommand.NewSetOAuthTokenVisibilityCommand(service),
		RegisterApp:             appcommand.NewRegisterAppCommand(service),
		Subscribe:               appcommand.NewSubscribeCommand(service),
		Unsubscribe:             appcommand.NewUnsubscribeCommand(service),
	}
	facade.queries = Queries{
		GetAccountExtraInfo:       appquery.NewGetAccountExtraInfoQuery(service),
		GetAccountCredential:      appquery.NewGetAccountCredentialQuery(service),
		GetAssociatedData:         appquery.NewGetAssociatedDataQuery(service),
		CheckAppAccountSyncEnable: appquery.NewCheckAppAccountSyncEnableQuery(service),
		GetAllAccounts:            appquery.NewGetAllAccountsQuery(service),
		GetAllAccessibleAccounts:  appquery.NewGetAllAccessibleAccountsQuery(service),
		GetOAuthToken:             appquery.NewGetOAuthTokenQuery(service),
		CheckOAuthTokenVisibility: appquery.NewCheckOAuthTokenVisibilityQuery(service),
		GetOAuthList:              appquery.NewGetOAuthListQuery(service),
		GetAllOAuthTokens:         appquery.NewGetAllOAuthTokensQuery(service),
		GetAuthenticatorInfo:      appquery.NewGetAuthenticatorInfoQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func resolveAuthenticatorReader(service CommandQueryService) appquery.AuthenticatorReader {
	if service == nil {
		return nil
	}
	if reader, ok := service.(appquery.AuthenticatorReader); ok {
		return reader
	}
	return nil
}
