package command

import (
	"context"

	"github.com/goliatone/go-appaccount/core"
	gocmd "github.com/goliatone/go-command"
)

type MutatingService interface {
	AddAccount(ctx context.Context, req core.AddAccountRequest) error
	DeleteAccount(ctx context.Context, ref core.AccountRef) error
	SetAccountExtraInfo(ctx context.Context, req core.SetExtraInfoRequest) error
	SetAccountCredential(ctx context.Context, req core.SetCredentialRequest) error
	SetAssociatedData(ctx context.Context, req core.SetAssociatedDataRequest) error
	EnableAppAccess(ctx context.Context, req core.AppAccessRequest) error
	DisableAppAccess(ctx context.Context, req core.AppAccessRequest) error
	SetAppAccountSyncEnable(ctx context.Context, req core.SetSyncEnabledRequest) error
	SetOAuthToken(ctx context.Context, req core.SetOAuthTokenRequest) error
	DeleteOAuthToken(ctx context.Context, req core.DeleteOAuthTokenRequest) error
	SetOAuthTokenVisibility(ctx context.Context, req core.OAuthVisibilityRequest) error
	RegisterApp(ctx context.Context, registration core.AppRegistration) (core.AppRegistration, error)
	Subscribe(ctx context.Context, req core.SubscribeRequest) (*core.Subscription, error)
	Unsubscribe(ctx context.Context, id string) error
}

type AddAccountCommand struct {
	service MutatingService
}

func NewAddAccountCommand(service MutatingService) *AddAccountCommand {
	return &AddAccountCommand{service: service}
}

func (c *AddAccountCommand) Execute(ctx context.Context, msg AddAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: account service is required")
	}
	return c.service.AddAccount(ctx, msg.Request)
}

type DeleteAccountCommand struct {
	service MutatingService
}

func NewDeleteAccountCommand(service MutatingService) *DeleteAccountCommand {
	return &DeleteAccountCommand{service: service}
}

func (c *DeleteAccountCommand) Execute(ctx context.Context, msg DeleteAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: account service is required")
	}
	return c.service.DeleteAccount(ctx, msg.Account)
}

type SetAccountExtraInfoCommand struct {
	service MutatingService
}

func NewSetAccountExtraInfoCommand(service MutatingService) *SetAccountExtraInfoCommand {
	return &SetAccountExtraInfoCommand{service: service}
}

func (c *SetAccountExtraInfoCommand) Execute(ctx context.Context, msg SetAccountExtraInfoMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: extra info service is required")
	}
	return c.service.SetAccountExtraInfo(ctx, msg.Request)
}

type SetAccountCredentialCommand struct {
	service MutatingService
}

func NewSetAccountCredentialCommand(service MutatingService) *SetAccountCredentialCommand {
	return &SetAccountCredentialCommand{service: service}
}

func (c *SetAccountCredentialCommand) Execute(ctx context.Context, msg SetAccountCredentialMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: credential service is required")
	}
	return c.service.SetAccountCredential(ctx, msg.Request)
}

type SetAssociatedDataCommand struct {
	service MutatingService
}

func NewSetAssociatedDataCommand(service MutatingService) *SetAssociatedDataCommand {
	return &SetAssociatedDataCommand{service: service}
}

func (c *SetAssociatedDataCommand) Execute(ctx context.Context, msg SetAssociatedDataMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: associated data service is required")
	}
	return c.service.SetAssociatedData(ctx, msg.Request)
}

type EnableAppAccessCommand struct {
	service MutatingService
}

func NewEnableAppAccessCommand(service MutatingService) *EnableAppAccessCommand {
	return &EnableAppAccessCommand{service: service}
}

func (c *EnableAppAccessCommand) Execute(ctx context.Context, msg EnableAppAccessMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: app access service is required")
	}
	return c.service.EnableAppAccess(ctx, msg.Request)
}

type DisableAppAccessCommand struct {
	service MutatingService
}

func NewDisableAppAccessCommand(service MutatingService) *DisableAppAccessCommand {
	return &DisableAppAccessCommand{service: service}
}

func (c *DisableAppAccessCommand) Execute(ctx context.Context, msg DisableAppAccessMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: app access service is required")
	}
	return c.service.DisableAppAccess(ctx, msg.Request)
}

type SetAppAccountSyncEnableCommand struct {
	service MutatingService
}

func NewSetAppAccountSyncEnableCommand(service MutatingService) *SetAppAccountSyncEnableCommand {
	return &SetAppAccountSyncEnableCommand{service: service}
}

func (c *SetAppAccountSyncEnableCommand) Execute(ctx context.Context, msg SetAppAccountSyncEnableMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: sync service is required")
	}
	return c.service.SetAppAccountSyncEnable(ctx, msg.Request)
}

type SetOAuthTokenCommand struct {
	service MutatingService
}

func NewSetOAuthTokenCommand(service MutatingService) *SetOAuthTokenCommand {
	return &SetOAuthTokenCommand{service: service}
}

func (c *SetOAuthTokenCommand) Execute(ctx context.Context, msg SetOAuthTokenMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: oauth token service is required")
	}
	return c.service.SetOAuthToken(ctx, msg.Request)
}

type DeleteOAuthTokenCommand struct {
	service MutatingService
}

func NewDeleteOAuthTokenCommand(service MutatingService) *DeleteOAuthTokenCommand {
	return &DeleteOAuthTokenCommand{service: service}
}

func (c *DeleteOAuthTokenCommand) Execute(ctx context.Context, msg DeleteOAuthTokenMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: oauth token service is required")
	}
	return c.service.DeleteOAuthToken(ctx, msg.Request)
}

type SetOAuthTokenVisibilityCommand struct {
	service MutatingService
}

func NewSetOAuthTokenVisibilityCommand(service MutatingService) *SetOAuthTokenVisibilityCommand {
	return &SetOAuthTokenVisibilityCommand{service: service}
}

func (c *SetOAuthTokenVisibilityCommand) Execute(ctx context.Context, msg SetOAuthTokenVisibilityMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: oauth visibility service is required")
	}
	return c.service.SetOAuthTokenVisibility(ctx, msg.Request)
}

type RegisterAppCommand struct {
	service MutatingService
}

func NewRegisterAppCommand(service MutatingService) *RegisterAppCommand {
	return &RegisterAppCommand{service: service}
}

func (c *RegisterAppCommand) Execute(ctx context.Context, msg RegisterAppMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: app registry service is required")
	}
	out, err := c.service.RegisterApp(ctx, msg.Registration)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SubscribeCommand struct {
	service MutatingService
}

func NewSubscribeCommand(service MutatingService) *SubscribeCommand {
	return &SubscribeCommand{service: service}
}

func (c *SubscribeCommand) Execute(ctx context.Context, msg SubscribeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: subscription service is required")
	}
	out, err := c.service.Subscribe(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UnsubscribeCommand struct {
	service MutatingService
}

func NewUnsubscribeCommand(service MutatingService) *UnsubscribeCommand {
	return &UnsubscribeCommand{service: service}
}

func (c *UnsubscribeCommand) Execute(ctx context.Context, msg UnsubscribeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: subscription service is required")
	}
	return c.service.Unsubscribe(ctx, msg.SubscriptionID)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
