package gocommand

import (
	"fmt"

	appaccount "github.com/goliatone/go-appaccount"
	appcommand "github.com/goliatone/go-appaccount/command"
	"github.com/goliatone/go-appaccount/core"
	appquery "github.com/goliatone/go-appaccount/query"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// FacadeBinding holds the dispatcher subscriptions created for one facade.
type FacadeBinding struct {
	subscriptions []commanddispatcher.Subscription
}

func (b *FacadeBinding) Len() int {
	if b == nil {
		return 0
	}
	return len(b.subscriptions)
}

// Unbind removes every dispatcher subscription. It is safe to call twice.
func (b *FacadeBinding) Unbind() {
	if b == nil {
		return
	}
	for _, subscription := range b.subscriptions {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
	b.subscriptions = nil
}

func (b *FacadeBinding) add(subscription commanddispatcher.Subscription, err error) error {
	if err != nil {
		return err
	}
	b.subscriptions = append(b.subscriptions, subscription)
	return nil
}

// BindFacade registers every command and query of facade with adapter and
// subscribes them on the dispatcher, so callers can Dispatch and Query by
// message. On failure nothing stays subscribed.
func BindFacade(adapter *RegistryAdapter, facade *appaccount.Facade, runnerOpts ...runner.Option) (*FacadeBinding, error) {
	if facade == nil {
		return nil, fmt.Errorf("gocommand: facade is required")
	}
	commands := facade.Commands()
	queries := facade.Queries()
	binding := &FacadeBinding{}

	steps := []func() error{
		func() error { return binding.add(RegisterCommand[appcommand.AddAccountMessage](adapter, commands.AddAccount, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.DeleteAccountMessage](adapter, commands.DeleteAccount, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.SetAccountExtraInfoMessage](adapter, commands.SetAccountExtraInfo, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.SetAccountCredentialMessage](adapter, commands.SetAccountCredential, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.SetAssociatedDataMessage](adapter, commands.SetAssociatedData, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.EnableAppAccessMessage](adapter, commands.EnableAppAccess, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.DisableAppAccessMessage](adapter, commands.DisableAppAccess, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.SetAppAccountSyncEnableMessage](adapter, commands.SetAppAccountSyncEnable, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.SetOAuthTokenMessage](adapter, commands.SetOAuthToken, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.DeleteOAuthTokenMessage](adapter, commands.DeleteOAuthToken, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.SetOAuthTokenVisibilityMessage](adapter, commands.SetOAuthTokenVisibility, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.RegisterAppMessage](adapter, commands.RegisterApp, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.SubscribeMessage](adapter, commands.Subscribe, runnerOpts...)) },
		func() error { return binding.add(RegisterCommand[appcommand.UnsubscribeMessage](adapter, commands.Unsubscribe, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.GetAccountExtraInfoMessage, string](adapter, queries.GetAccountExtraInfo, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.GetAccountCredentialMessage, string](adapter, queries.GetAccountCredential, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.GetAssociatedDataMessage, string](adapter, queries.GetAssociatedData, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.CheckAppAccountSyncEnableMessage, bool](adapter, queries.CheckAppAccountSyncEnable, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.GetAllAccountsMessage, []core.AppAccountInfo](adapter, queries.GetAllAccounts, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.GetAllAccessibleAccountsMessage, []core.AppAccountInfo](adapter, queries.GetAllAccessibleAccounts, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.GetOAuthTokenMessage, string](adapter, queries.GetOAuthToken, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.CheckOAuthTokenVisibilityMessage, bool](adapter, queries.CheckOAuthTokenVisibility, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.GetOAuthListMessage, []string](adapter, queries.GetOAuthList, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.GetAllOAuthTokensMessage, []core.OAuthTokenInfo](adapter, queries.GetAllOAuthTokens, runnerOpts...)) },
		func() error { return binding.add(RegisterQuery[appquery.GetAuthenticatorInfoMessage, core.AuthenticatorInfo](adapter, queries.GetAuthenticatorInfo, runnerOpts...)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			binding.Unbind()
			return nil, err
		}
	}
	return binding, nil
}
