package command

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/krisalay/waitcache/internal/config"
	"github.com/krisalay/waitcache/journal"
)

func getCommand(cfg config.Type) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "look up (or create) the handle for each duration",
		UsageText: "waitcache get [options] SECONDS...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seconds, err := parseSeconds(cmd.Args().Slice())
			if err != nil {
				return err
			}

			s, err := openSession(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			for _, d := range seconds {
				ent, hit, err := s.cache.Lookup(ctx, d)
				if err != nil {
					return err
				}

				state := "miss"
				if hit {
					state = "hit"
				}
				fmt.Fprintf(s.out, "%-10s key=%s handle=h%d wait=%s %s\n",
					strconv.FormatFloat(d, 'g', -1, 64), ent.Key, s.id(ent.Handle), ent.Handle.Duration(), state)
			}
			return nil
		},
	}
}

func waitCommand(cfg config.Type) *cli.Command {
	return &cli.Command{
		Name:      "wait",
		Usage:     "block on the handle for a duration (Ctrl-C cancels)",
		UsageText: "waitcache wait [options] SECONDS",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seconds, err := parseSeconds(cmd.Args().Slice())
			if err != nil {
				return err
			}
			if len(seconds) != 1 {
				return errors.Errorf("wait takes exactly one duration, got %d", len(seconds))
			}

			s, err := openSession(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			h, err := s.cache.Get(ctx, seconds[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(s.out, "waiting %s\n", h.Duration())
			if err := h.Wait(ctx); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "done")
			return nil
		},
	}
}

func warmCommand(cfg config.Type) *cli.Command {
	return &cli.Command{
		Name:      "warm",
		Usage:     "preload the durations recorded in a journal file",
		UsageText: "waitcache warm [options] FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("warm takes exactly one journal file")
			}
			path := cmd.Args().First()

			durations, err := journal.ReadFile(path)
			if err != nil {
				return err
			}
			log.WithField("path", path).WithField("count", len(durations)).Debug("read journal")

			s, err := openSession(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.cache.Preload(ctx, durations...); err != nil {
				return err
			}

			fmt.Fprintf(s.out, "warmed %d handles from %d records\n", s.cache.Len(), len(durations))
			for _, k := range s.cache.Keys() {
				fmt.Fprintln(s.out, strconv.FormatFloat(k, 'g', -1, 64))
			}
			return nil
		},
	}
}
