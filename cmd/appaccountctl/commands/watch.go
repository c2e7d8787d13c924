package commands

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-appaccount/core"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func (a *cliApp) watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "poll accounts and print additions and removals",
		Flags: []cli.Flag{
			ownerFlag(),
			&cli.BoolFlag{Name: "accessible", Usage: "watch every account the caller can access"},
			&cli.DurationFlag{Name: "watch-interval", Usage: "polling interval", Value: DefaultConfigWatchInterval},
			&cli.IntFlag{Name: "iterations", Usage: "stop after this many polls (0 runs until interrupted)"},
		},
		Action: a.withRuntime(func(ctx context.Context, cmd *cli.Command, rt *runtime) error {
			w := &accountWatcher{
				interval:   rt.cfg.WatchInterval,
				iterations: int(cmd.Int("iterations")),
				list: func(ctx context.Context) ([]core.AppAccountInfo, error) {
					return listAccounts(ctx, rt, ownerOrCaller(cmd, rt), cmd.Bool("accessible"))
				},
				emit: func(sign string, info core.AppAccountInfo) {
					a.printf("%s %s/%s\n", sign, info.Owner, info.Name)
				},
			}
			rt.logger.Info("watching accounts", "caller", rt.cfg.Caller, "interval", w.interval.String())
			return w.Run(ctx)
		}),
	}
}

// accountWatcher polls a listing and reports the difference between
// consecutive snapshots. The first snapshot is reported as all additions.
type accountWatcher struct {
	interval   time.Duration
	iterations int
	list       func(ctx context.Context) ([]core.AppAccountInfo, error)
	emit       func(sign string, info core.AppAccountInfo)
}

func (w *accountWatcher) Run(ctx context.Context) error {
	snapshots := make(chan []core.AppAccountInfo)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(snapshots)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for polled := 0; w.iterations == 0 || polled < w.iterations; polled++ {
			if polled > 0 {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
				}
			}
			accounts, err := w.list(gctx)
			if err != nil {
				return err
			}
			select {
			case snapshots <- accounts:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	g.Go(func() error {
		previous := map[core.AppAccountInfo]struct{}{}
		for accounts := range snapshots {
			current := make(map[core.AppAccountInfo]struct{}, len(accounts))
			for _, info := range accounts {
				current[info] = struct{}{}
				if _, ok := previous[info]; !ok {
					w.emit("+", info)
				}
			}
			for _, info := range accounts {
				delete(previous, info)
			}
			for info := range previous {
				w.emit("-", info)
			}
			previous = current
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
