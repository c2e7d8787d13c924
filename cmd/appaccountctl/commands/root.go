package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	appaccount "github.com/goliatone/go-appaccount"
	"github.com/urfave/cli/v3"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	return newRootCommand(os.Stdout, os.Stderr, os.Environ).Run(ctx, args)
}

func newRootCommand(out io.Writer, logOut io.Writer, environFunc func() []string) *cli.Command {
	app := &cliApp{out: out, logOut: logOut, environ: environFunc}
	return &cli.Command{
		Name:  "appaccountctl",
		Usage: "manage app accounts, access grants and OAuth tokens",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "caller",
				Usage: "application id the command acts as",
			},
			&cli.StringSliceFlag{
				Name:  "privileged",
				Usage: "application ids holding the enumeration and sync permissions",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (trace|debug|info|warn|error)",
				Value: DefaultConfigLogLevel,
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: DefaultConfigLogFormat,
			},
			&cli.StringFlag{
				Name:  "database--driver",
				Usage: "database driver (sqlite3|postgres)",
				Value: DefaultConfigDriver,
			},
			&cli.StringFlag{
				Name:  "database--dsn",
				Usage: "database connection string",
			},
			&cli.BoolFlag{
				Name:  "database--debug",
				Usage: "log SQL queries",
			},
			&cli.BoolFlag{
				Name:  "auto-migrate",
				Usage: "apply migrations before running the command",
			},
			&cli.StringFlag{
				Name:  "secrets--source",
				Usage: "where the sealing key comes from (none|key|keyring)",
				Value: DefaultConfigSecretSource,
			},
			&cli.DurationFlag{
				Name:  "cache--ttl",
				Usage: "app directory cache TTL",
				Value: DefaultConfigCacheTTL,
			},
		},
		Commands: []*cli.Command{
			app.migrateCommand(),
			app.appCommand(),
			app.accountCommand(),
			app.grantCommand(),
			app.tokenCommand(),
			app.watchCommand(),
		},
	}
}

type cliApp struct {
	out     io.Writer
	logOut  io.Writer
	environ func() []string
}

// withRuntime loads config, opens the runtime for one action and closes it
// afterwards.
func (a *cliApp) withRuntime(run func(ctx context.Context, cmd *cli.Command, rt *runtime) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd.String("config"), cmd, a.environ)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		rt, err := openRuntime(ctx, cfg, a.logOut)
		if err != nil {
			return err
		}
		defer func() {
			_ = rt.Close()
		}()
		return run(appaccount.WithCallerApp(ctx, cfg.Caller), cmd, rt)
	}
}

func (a *cliApp) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func requireArgs(cmd *cli.Command, names ...string) ([]string, error) {
	values := cmd.Args().Slice()
	if len(values) != len(names) {
		return nil, fmt.Errorf("%s expects arguments: %v", cmd.Name, names)
	}
	return values, nil
}
