package query

import (
	"context"

	"github.com/goliatone/go-appaccount/core"
)

type AccountDataReader interface {
	GetAccountExtraInfo(ctx context.Context, ref core.AccountRef) (string, error)
	GetAccountCredential(ctx context.Context, req core.GetCredentialRequest) (string, error)
	GetAssociatedData(ctx context.Context, req core.GetAssociatedDataRequest) (string, error)
	CheckAppAccountSyncEnable(ctx context.Context, ref core.AccountRef) (bool, error)
}

type AccountListReader interface {
	GetAllAccounts(ctx context.Context, req core.ListAccountsRequest) ([]core.AppAccountInfo, error)
	GetAllAccessibleAccounts(ctx context.Context, caller string) ([]core.AppAccountInfo, error)
}

type OAuthTokenReader interface {
	GetOAuthToken(ctx context.Context, req core.GetOAuthTokenRequest) (string, error)
	CheckOAuthTokenVisibility(ctx context.Context, req core.OAuthVisibilityRequest) (bool, error)
	GetOAuthList(ctx context.Context, req core.OAuthListRequest) ([]string, error)
	GetAllOAuthTokens(ctx context.Context, req core.AllOAuthTokensRequest) ([]core.OAuthTokenInfo, error)
}

type AuthenticatorReader interface {
	GetAuthenticatorInfo(ctx context.Context, owner string) (core.AuthenticatorInfo, error)
}

type GetAccountExtraInfoQuery struct {
	reader AccountDataReader
}

func NewGetAccountExtraInfoQuery(reader AccountDataReader) *GetAccountExtraInfoQuery {
	return &GetAccountExtraInfoQuery{reader: reader}
}

func (q *GetAccountExtraInfoQuery) Query(ctx context.Context, msg GetAccountExtraInfoMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: account data reader is required")
	}
	return q.reader.GetAccountExtraInfo(ctx, msg.Account)
}

type GetAccountCredentialQuery struct {
	reader AccountDataReader
}

func NewGetAccountCredentialQuery(reader AccountDataReader) *GetAccountCredentialQuery {
	return &GetAccountCredentialQuery{reader: reader}
}

func (q *GetAccountCredentialQuery) Query(ctx context.Context, msg GetAccountCredentialMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: account data reader is required")
	}
	return q.reader.GetAccountCredential(ctx, msg.Request)
}

type GetAssociatedDataQuery struct {
	reader AccountDataReader
}

func NewGetAssociatedDataQuery(reader AccountDataReader) *GetAssociatedDataQuery {
	return &GetAssociatedDataQuery{reader: reader}
}

func (q *GetAssociatedDataQuery) Query(ctx context.Context, msg GetAssociatedDataMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: account data reader is required")
	}
	return q.reader.GetAssociatedData(ctx, msg.Request)
}

type CheckAppAccountSyncEnableQuery struct {
	reader AccountDataReader
}

func NewCheckAppAccountSyncEnableQuery(reader AccountDataReader) *CheckAppAccountSyncEnableQuery {
	return &CheckAppAccountSyncEnableQuery{reader: reader}
}

func (q *CheckAppAccountSyncEnableQuery) Query(ctx context.Context, msg CheckAppAccountSyncEnableMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: account data reader is required")
	}
	return q.reader.CheckAppAccountSyncEnable(ctx, msg.Account)
}

type GetAllAccountsQuery struct {
	reader AccountListReader
}

func NewGetAllAccountsQuery(reader AccountListReader) *GetAllAccountsQuery {
	return &GetAllAccountsQuery{reader: reader}
}

func (q *GetAllAccountsQuery) Query(ctx context.Context, msg GetAllAccountsMessage) ([]core.AppAccountInfo, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: account list reader is required")
	}
	return q.reader.GetAllAccounts(ctx, msg.Request)
}

type GetAllAccessibleAccountsQuery struct {
	reader AccountListReader
}

func NewGetAllAccessibleAccountsQuery(reader AccountListReader) *GetAllAccessibleAccountsQuery {
	return &GetAllAccessibleAccountsQuery{reader: reader}
}

func (q *GetAllAccessibleAccountsQuery) Query(
	ctx context.Context,
	msg GetAllAccessibleAccountsMessage,
) ([]core.AppAccountInfo, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: account list reader is required")
	}
	return q.reader.GetAllAccessibleAccounts(ctx, msg.Caller)
}

type GetOAuthTokenQuery struct {
	reader OAuthTokenReader
}

func NewGetOAuthTokenQuery(reader OAuthTokenReader) *GetOAuthTokenQuery {
	return &GetOAuthTokenQuery{reader: reader}
}

func (q *GetOAuthTokenQuery) Query(ctx context.Context, msg GetOAuthTokenMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: oauth token reader is required")
	}
	return q.reader.GetOAuthToken(ctx, msg.Request)
}

type CheckOAuthTokenVisibilityQuery struct {
	reader OAuthTokenReader
}

func NewCheckOAuthTokenVisibilityQuery(reader OAuthTokenReader) *CheckOAuthTokenVisibilityQuery {
	return &CheckOAuthTokenVisibilityQuery{reader: reader}
}

func (q *CheckOAuthTokenVisibilityQuery) Query(ctx context.Context, msg CheckOAuthTokenVisibilityMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: oauth token reader is required")
	}
	return q.reader.CheckOAuthTokenVisibility(ctx, msg.Request)
}

type GetOAuthListQuery struct {
	reader OAuthTokenReader
}

func NewGetOAuthListQuery(reader OAuthTokenReader) *GetOAuthListQuery {
	return &GetOAuthListQuery{reader: reader}
}

func (q *GetOAuthListQuery) Query(ctx context.Context, msg GetOAuthListMessage) ([]string, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: oauth token reader is required")
	}
	return q.reader.GetOAuthList(ctx, msg.Request)
}

type GetAllOAuthTokensQuery struct {
	reader OAuthTokenReader
}

func NewGetAllOAuthTokensQuery(reader OAuthTokenReader) *GetAllOAuthTokensQuery {
	return &GetAllOAuthTokensQuery{reader: reader}
}

func (q *GetAllOAuthTokensQuery) Query(ctx context.Context, msg GetAllOAuthTokensMessage) ([]core.OAuthTokenInfo, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: oauth token reader is required")
	}
	return q.reader.GetAllOAuthTokens(ctx, msg.Request)
}

type GetAuthenticatorInfoQuery struct {
	reader AuthenticatorReader
}

func NewGetAuthenticatorInfoQuery(reader AuthenticatorReader) *GetAuthenticatorInfoQuery {
	return &GetAuthenticatorInfoQuery{reader: reader}
}

func (q *GetAuthenticatorInfoQuery) Query(ctx context.Context, msg GetAuthenticatorInfoMessage) (core.AuthenticatorInfo, error) {
	if q == nil || q.reader == nil {
		return core.AuthenticatorInfo{}, queryDependencyError("query: authenticator reader is required")
	}
	return q.reader.GetAuthenticatorInfo(ctx, msg.Owner)
}
