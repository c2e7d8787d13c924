package query

import (
	"github.com/goliatone/go-appaccount/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[GetAccountExtraInfoMessage, string]                     = (*GetAccountExtraInfoQuery)(nil)
	_ gocmd.Querier[GetAccountCredentialMessage, string]                    = (*GetAccountCredentialQuery)(nil)
	_ gocmd.Querier[GetAssociatedDataMessage, string]                       = (*GetAssociatedDataQuery)(nil)
	_ gocmd.Querier[CheckAppAccountSyncEnableMessage, bool]                 = (*CheckAppAccountSyncEnableQuery)(nil)
	_ gocmd.Querier[GetAllAccountsMessage, []core.AppAccountInfo]           = (*GetAllAccountsQuery)(nil)
	_ gocmd.Querier[GetAllAccessibleAccountsMessage, []core.AppAccountInfo] = (*GetAllAccessibleAccountsQuery)(nil)
	_ gocmd.Querier[GetOAuthTokenMessage, string]                           = (*GetOAuthTokenQuery)(nil)
	_ gocmd.Querier[CheckOAuthTokenVisibilityMessage, bool]                 = (*CheckOAuthTokenVisibilityQuery)(nil)
	_ gocmd.Querier[GetOAuthListMessage, []string]                          = (*GetOAuthListQuery)(nil)
	_ gocmd.Querier[GetAllOAuthTokensMessage, []core.OAuthTokenInfo]        = (*GetAllOAuthTokensQuery)(nil)
	_ gocmd.Querier[GetAuthenticatorInfoMessage, core.AuthenticatorInfo]    = (*GetAuthenticatorInfoQuery)(nil)
)
