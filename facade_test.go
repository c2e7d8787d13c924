package appaccount

import (
	"context"
	"testing"

	appcommand "github.com/goliatone/go-appaccount/command"
	"github.com/goliatone/go-appaccount/core"
	appquery "github.com/goliatone/go-appaccount/query"
)

const (
	facadeOwner   = "com.example.owner"
	facadeGrantee = "com.example.grantee"
)

func newFacadeService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(DefaultConfig(), WithAppDirectory(core.NewMemoryAppDirectory(facadeOwner, facadeGrantee)))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestNewFacade_WiresCommandsAndQueries(t *testing.T) {
	facade, err := NewFacade(newFacadeService(t))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	commands := facade.Commands()
	if commands.AddAccount == nil || commands.SetOAuthToken == nil || commands.Unsubscribe == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	queries := facade.Queries()
	if queries.GetOAuthToken == nil || queries.GetAllAccounts == nil || queries.GetAuthenticatorInfo == nil {
		t.Fatalf("expected query handlers to be wired")
	}
	if facade.Service() == nil {
		t.Fatalf("expected facade to expose its service")
	}
}

func TestFacade_CommandAndQueryDelegation(t *testing.T) {
	facade, err := NewFacade(newFacadeService(t))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	ctx := context.Background()
	ref := core.AccountRef{Owner: facadeOwner, Name: "acct1"}

	if err := facade.Commands().AddAccount.Execute(ctx, appcommand.AddAccountMessage{
		Request: core.AddAccountRequest{Owner: ref.Owner, Name: ref.Name, ExtraInfo: "info"},
	}); err != nil {
		t.Fatalf("execute add account: %v", err)
	}
	if err := facade.Commands().SetOAuthToken.Execute(ctx, appcommand.SetOAuthTokenMessage{
		Request: core.SetOAuthTokenRequest{Account: ref, AuthType: "t1", Token: "tok"},
	}); err != nil {
		t.Fatalf("execute set oauth token: %v", err)
	}
	if err := facade.Commands().SetOAuthTokenVisibility.Execute(ctx, appcommand.SetOAuthTokenVisibilityMessage{
		Request: core.OAuthVisibilityRequest{Account: ref, AuthType: "t1", BundleName: facadeGrantee, Visible: true},
	}); err != nil {
		t.Fatalf("execute set visibility: %v", err)
	}

	token, err := facade.Queries().GetOAuthToken.Query(ctx, appquery.GetOAuthTokenMessage{
		Request: core.GetOAuthTokenRequest{Account: ref, Caller: facadeGrantee, AuthType: "t1"},
	})
	if err != nil {
		t.Fatalf("query oauth token: %v", err)
	}
	if token != "tok" {
		t.Fatalf("expected token tok, got %q", token)
	}

	extra, err := facade.Queries().GetAccountExtraInfo.Query(ctx, appquery.GetAccountExtraInfoMessage{Account: ref})
	if err != nil {
		t.Fatalf("query extra info: %v", err)
	}
	if extra != "info" {
		t.Fatalf("expected extra info, got %q", extra)
	}

	accounts, err := facade.Queries().GetAllAccounts.Query(ctx, appquery.GetAllAccountsMessage{
		Request: core.ListAccountsRequest{Caller: facadeOwner, Owner: facadeOwner},
	})
	if err != nil {
		t.Fatalf("query all accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "acct1" {
		t.Fatalf("unexpected accounts %#v", accounts)
	}
}

func TestFacade_RegisterAppFeedsAuthenticatorQuery(t *testing.T) {
	facade, err := NewFacade(newFacadeService(t))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	ctx := context.Background()

	if err := facade.Commands().RegisterApp.Execute(ctx, appcommand.RegisterAppMessage{
		Registration: core.AppRegistration{
			AppID:         "com.example.auth",
			Authenticator: &core.AuthenticatorInfo{IconID: 3, LabelID: 4},
		},
	}); err != nil {
		t.Fatalf("execute register app: %v", err)
	}

	info, err := facade.Queries().GetAuthenticatorInfo.Query(ctx, appquery.GetAuthenticatorInfoMessage{Owner: "com.example.auth"})
	if err != nil {
		t.Fatalf("query authenticator info: %v", err)
	}
	if info.Owner != "com.example.auth" || info.IconID != 3 || info.LabelID != 4 {
		t.Fatalf("unexpected authenticator info %#v", info)
	}
}

func TestNewFacade_AuthenticatorReaderOverride(t *testing.T) {
	reader := stubAuthenticatorReader{info: core.AuthenticatorInfo{Owner: "com.example.cached", IconID: 11}}
	facade, err := NewFacade(newFacadeService(t), WithAuthenticatorReader(reader))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	info, err := facade.Queries().GetAuthenticatorInfo.Query(context.Background(), appquery.GetAuthenticatorInfoMessage{
		Owner: "com.example.cached",
	})
	if err != nil {
		t.Fatalf("query authenticator info: %v", err)
	}
	if info.IconID != 11 {
		t.Fatalf("expected override reader to answer, got %#v", info)
	}
}

func TestNewFacade_RequiresService(t *testing.T) {
	facade, err := NewFacade(nil)
	if err == nil {
		t.Fatalf("expected nil service error")
	}
	if facade != nil {
		t.Fatalf("expected nil facade on error")
	}
}

func TestFacade_NilReceiverReturnsZeroValues(t *testing.T) {
	var facade *Facade
	if facade.Commands().AddAccount != nil {
		t.Fatalf("expected empty commands")
	}
	if facade.Queries().GetOAuthToken != nil {
		t.Fatalf("expected empty queries")
	}
	if facade.Service() != nil {
		t.Fatalf("expected nil service")
	}
}

type stubAuthenticatorReader struct {
	info core.AuthenticatorInfo
}

func (s stubAuthenticatorReader) GetAuthenticatorInfo(context.Context, string) (core.AuthenticatorInfo, error) {
	return s.info, nil
}

var _ CommandQueryService = (*Service)(nil)
