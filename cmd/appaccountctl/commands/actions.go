package commands

import (
	"context"
	"fmt"
	"strings"

	appaccount "github.com/goliatone/go-appaccount"
	"github.com/goliatone/go-appaccount/adapters/gocommand"
	appcommand "github.com/goliatone/go-appaccount/command"
	"github.com/goliatone/go-appaccount/core"
	appquery "github.com/goliatone/go-appaccount/query"
	"github.com/urfave/cli/v3"
)

func ownerFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "owner",
		Usage: "owning application id (defaults to the caller)",
	}
}

func ownerOrCaller(cmd *cli.Command, rt *runtime) string {
	if owner := strings.TrimSpace(cmd.String("owner")); owner != "" {
		return owner
	}
	return rt.cfg.Caller
}

func (a *cliApp) migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending schema migrations",
		Action: a.withRuntime(func(ctx context.Context, _ *cli.Command, rt *runtime) error {
			if err := rt.client.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.printf("migrations applied\n")
			return nil
		}),
	}
}

func (a *cliApp) appCommand() *cli.Command {
	return &cli.Command{
		Name:  "app",
		Usage: "manage the app directory",
		Commands: []*cli.Command{
			{
				Name:      "register",
				Usage:     "register an installed application",
				ArgsUsage: "<app-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "authenticator", Usage: "the app provides an authenticator"},
					&cli.IntFlag{Name: "icon-id", Usage: "authenticator icon resource id"},
					&cli.IntFlag{Name: "label-id", Usage: "authenticator label resource id"},
				},
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, _ *runtime) error {
					args, err := requireArgs(cmd, "app-id")
					if err != nil {
						return err
					}
					registration := appaccount.AppRegistration{AppID: args[0]}
					if cmd.Bool("authenticator") {
						registration.Authenticator = &appaccount.AuthenticatorInfo{
							Owner:   args[0],
							IconID:  int(cmd.Int("icon-id")),
							LabelID: int(cmd.Int("label-id")),
						}
					}
					if err := gocommand.Dispatch(ctx, appcommand.RegisterAppMessage{Registration: registration}); err != nil {
						return err
					}
					a.printf("registered %s\n", args[0])
					return nil
				}),
			},
			{
				Name:      "authenticator",
				Usage:     "show the authenticator an application registered",
				ArgsUsage: "<app-id>",
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, _ *runtime) error {
					args, err := requireArgs(cmd, "app-id")
					if err != nil {
						return err
					}
					info, err := gocommand.Query[appquery.GetAuthenticatorInfoMessage, core.AuthenticatorInfo](ctx,
						appquery.GetAuthenticatorInfoMessage{Owner: args[0]})
					if err != nil {
						return err
					}
					a.printf("owner=%s icon_id=%d label_id=%d\n", info.Owner, info.IconID, info.LabelID)
					return nil
				}),
			},
		},
	}
}

func (a *cliApp) accountCommand() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "manage accounts owned by the caller",
		Commands: []*cli.Command{
			{
				Name:      "add",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "extra-info", Usage: "free-form account info"},
				},
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
					args, err := requireArgs(cmd, "name")
					if err != nil {
						return err
					}
					if err := gocommand.Dispatch(ctx, appcommand.AddAccountMessage{Request: core.AddAccountRequest{
						Owner:     rt.cfg.Caller,
						Name:      args[0],
						ExtraInfo: cmd.String("extra-info"),
					}}); err != nil {
						return err
					}
					a.printf("added %s/%s\n", rt.cfg.Caller, args[0])
					return nil
				}),
			},
			{
				Name:      "delete",
				ArgsUsage: "<name>",
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
					args, err := requireArgs(cmd, "name")
					if err != nil {
						return err
					}
					ref := core.AccountRef{Owner: rt.cfg.Caller, Name: args[0]}
					if err := gocommand.Dispatch(ctx, appcommand.DeleteAccountMessage{Account: ref}); err != nil {
						return err
					}
					a.printf("deleted %s/%s\n", ref.Owner, ref.Name)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list accounts of an owner, or every account the caller can access",
				Flags: []cli.Flag{
					ownerFlag(),
					&cli.BoolFlag{Name: "accessible", Usage: "include accounts granted to the caller"},
				},
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
					accounts, err := listAccounts(ctx, rt, ownerOrCaller(cmd, rt), cmd.Bool("accessible"))
					if err != nil {
						return err
					}
					for _, account := range accounts {
						a.printf("%s/%s\n", account.Owner, account.Name)
					}
					return nil
				}),
			},
			{
				Name:      "info",
				ArgsUsage: "<name>",
				Flags:     []cli.Flag{ownerFlag()},
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
					args, err := requireArgs(cmd, "name")
					if err != nil {
						return err
					}
					ref := core.AccountRef{Owner: ownerOrCaller(cmd, rt), Name: args[0]}
					extraInfo, err := gocommand.Query[appquery.GetAccountExtraInfoMessage, string](ctx,
						appquery.GetAccountExtraInfoMessage{Account: ref})
					if err != nil {
						return err
					}
					tokens, err := gocommand.Query[appquery.GetAllOAuthTokensMessage, []core.OAuthTokenInfo](ctx,
						appquery.GetAllOAuthTokensMessage{Request: core.AllOAuthTokensRequest{Account: ref, Caller: rt.cfg.Caller}})
					if err != nil {
						return err
					}
					a.printf("account: %s/%s\n", ref.Owner, ref.Name)
					a.printf("extra_info: %s\n", extraInfo)
					for _, token := range tokens {
						a.printf("token: %s\n", token.AuthType)
					}
					return nil
				}),
			},
		},
	}
}

func (a *cliApp) grantCommand() *cli.Command {
	grant := func(enable bool) cli.ActionFunc {
		return a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
			args, err := requireArgs(cmd, "name", "bundle")
			if err != nil {
				return err
			}
			req := core.AppAccessRequest{
				Account:    core.AccountRef{Owner: rt.cfg.Caller, Name: args[0]},
				BundleName: args[1],
			}
			if enable {
				err = gocommand.Dispatch(ctx, appcommand.EnableAppAccessMessage{Request: req})
			} else {
				err = gocommand.Dispatch(ctx, appcommand.DisableAppAccessMessage{Request: req})
			}
			if err != nil {
				return err
			}
			verb := "revoked"
			if enable {
				verb = "granted"
			}
			a.printf("%s %s access to %s/%s\n", verb, req.BundleName, req.Account.Owner, req.Account.Name)
			return nil
		})
	}
	return &cli.Command{
		Name:  "grant",
		Usage: "grant or revoke another application's access to an account",
		Commands: []*cli.Command{
			{Name: "enable", ArgsUsage: "<name> <bundle>", Action: grant(true)},
			{Name: "disable", ArgsUsage: "<name> <bundle>", Action: grant(false)},
		},
	}
}

func (a *cliApp) tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "manage OAuth tokens on an account",
		Commands: []*cli.Command{
			{
				Name:      "set",
				ArgsUsage: "<name> <auth-type> <token>",
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
					args, err := requireArgs(cmd, "name", "auth-type", "token")
					if err != nil {
						return err
					}
					if err := gocommand.Dispatch(ctx, appcommand.SetOAuthTokenMessage{Request: core.SetOAuthTokenRequest{
						Account:  core.AccountRef{Owner: rt.cfg.Caller, Name: args[0]},
						AuthType: args[1],
						Token:    args[2],
					}}); err != nil {
						return err
					}
					a.printf("token %s set on %s/%s\n", args[1], rt.cfg.Caller, args[0])
					return nil
				}),
			},
			{
				Name:      "get",
				ArgsUsage: "<name> <auth-type>",
				Flags:     []cli.Flag{ownerFlag()},
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
					args, err := requireArgs(cmd, "name", "auth-type")
					if err != nil {
						return err
					}
					token, err := gocommand.Query[appquery.GetOAuthTokenMessage, string](ctx, appquery.GetOAuthTokenMessage{
						Request: core.GetOAuthTokenRequest{
							Account:  core.AccountRef{Owner: ownerOrCaller(cmd, rt), Name: args[0]},
							Caller:   rt.cfg.Caller,
							AuthType: args[1],
						},
					})
					if err != nil {
						return err
					}
					a.printf("%s\n", token)
					return nil
				}),
			},
			{
				Name:      "delete",
				ArgsUsage: "<name> <auth-type>",
				Flags:     []cli.Flag{ownerFlag()},
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
					args, err := requireArgs(cmd, "name", "auth-type")
					if err != nil {
						return err
					}
					if err := gocommand.Dispatch(ctx, appcommand.DeleteOAuthTokenMessage{Request: core.DeleteOAuthTokenRequest{
						Account:  core.AccountRef{Owner: ownerOrCaller(cmd, rt), Name: args[0]},
						Caller:   rt.cfg.Caller,
						AuthType: args[1],
					}}); err != nil {
						return err
					}
					a.printf("token %s deleted\n", args[1])
					return nil
				}),
			},
			{
				Name:      "visibility",
				Usage:     "show or hide a token type from another application",
				ArgsUsage: "<name> <auth-type> <bundle>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "hide", Usage: "revoke visibility instead of granting it"},
				},
				Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
					args, err := requireArgs(cmd, "name", "auth-type", "bundle")
					if err != nil {
						return err
					}
					visible := !cmd.Bool("hide")
					if err := gocommand.Dispatch(ctx, appcommand.SetOAuthTokenVisibilityMessage{Request: core.OAuthVisibilityRequest{
						Account:    core.AccountRef{Owner: rt.cfg.Caller, Name: args[0]},
						AuthType:   args[1],
						BundleName: args[2],
						Visible:    visible,
					}}); err != nil {
						return err
					}
					a.printf("visibility of %s for %s set to %t\n", args[1], args[2], visible)
					return nil
				}),
			},
		},
	}
}

func listAccounts(ctx context.Context, rt *runtime, owner string, accessible bool) ([]core.AppAccountInfo, error) {
	if accessible {
		return gocommand.Query[appquery.GetAllAccessibleAccountsMessage, []core.AppAccountInfo](ctx,
			appquery.GetAllAccessibleAccountsMessage{Caller: rt.cfg.Caller})
	}
	return gocommand.Query[appquery.GetAllAccountsMessage, []core.AppAccountInfo](ctx,
		appquery.GetAllAccountsMessage{Request: core.ListAccountsRequest{Caller: rt.cfg.Caller, Owner: owner}})
}
