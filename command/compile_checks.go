package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[AddAccountMessage]              = (*AddAccountCommand)(nil)
	_ gocmd.Commander[DeleteAccountMessage]           = (*DeleteAccountCommand)(nil)
	_ gocmd.Commander[SetAccountExtraInfoMessage]     = (*SetAccountExtraInfoCommand)(nil)
	_ gocmd.Commander[SetAccountCredentialMessage]    = (*SetAccountCredentialCommand)(nil)
	_ gocmd.Commander[SetAssociatedDataMessage]       = (*SetAssociatedDataCommand)(nil)
	_ gocmd.Commander[EnableAppAccessMessage]         = (*EnableAppAccessCommand)(nil)
	_ gocmd.Commander[DisableAppAccessMessage]        = (*DisableAppAccessCommand)(nil)
	_ gocmd.Commander[SetAppAccountSyncEnableMessage] = (*SetAppAccountSyncEnableCommand)(nil)
	_ gocmd.Commander[SetOAuthTokenMessage]           = (*SetOAuthTokenCommand)(nil)
	_ gocmd.Commander[DeleteOAuthTokenMessage]        = (*DeleteOAuthTokenCommand)(nil)
	_ gocmd.Commander[SetOAuthTokenVisibilityMessage] = (*SetOAuthTokenVisibilityCommand)(nil)
	_ gocmd.Commander[RegisterAppMessage]             = (*RegisterAppCommand)(nil)
	_ gocmd.Commander[SubscribeMessage]               = (*SubscribeCommand)(nil)
	_ gocmd.Commander[UnsubscribeMessage]             = (*UnsubscribeCommand)(nil)
)
