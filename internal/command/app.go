package command

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/apex/log"
	"github.com/pkg/errors"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	waitcache "github.com/krisalay/waitcache"
	"github.com/krisalay/waitcache/internal/config"
	"github.com/krisalay/waitcache/journal"
	"github.com/krisalay/waitcache/metrics"
)

// InitApp builds the waitcache command tree. Flag defaults come from cfg,
// then the config file and environment through value sources.
func InitApp(cfg config.Type, out io.Writer) *cli.Command {
	src := altsrc.StringSourcer(cfg.Source)

	app := &cli.Command{
		Name:   "waitcache",
		Usage:  "shared wait handles keyed by duration",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "keying",
				Usage: "key quantization: exact, decimal or ticks",
				Value: cfg.Keying,
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("WAITCACHE_KEYING"),
					yaml.YAML("keying", src),
				),
			},
			&cli.IntFlag{
				Name:  "precision",
				Usage: "decimal places kept by decimal keying",
				Value: cfg.Precision,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("precision", src),
				),
			},
			&cli.DurationFlag{
				Name:  "tick",
				Usage: "tick resolution used by ticks keying",
				Value: cfg.Tick,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("tick", src),
				),
			},
			&cli.IntFlag{
				Name:  "shards",
				Usage: "number of shards",
				Value: cfg.Shards,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("shards", src),
				),
			},
			&cli.IntFlag{
				Name:  "capacity",
				Usage: "handle limit, split across shards and rounded up per shard; 0 for unbounded",
				Value: cfg.Capacity,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("capacity", src),
				),
			},
			&cli.StringFlag{
				Name:  "eviction",
				Usage: "eviction policy for a bounded cache: LRU, LFU or FIFO",
				Value: cfg.Eviction,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("eviction", src),
				),
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "reject negative and non-finite durations (--strict=false to forward them)",
				Value: cfg.Strict,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("strict", src),
				),
			},
			&cli.StringFlag{
				Name:    "journal",
				Aliases: []string{"j"},
				Usage:   "append created durations to this file",
				Value:   cfg.Journal,
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("WAITCACHE_JOURNAL"),
					yaml.YAML("journal", src),
				),
			},
			&cli.BoolFlag{
				Name:        "stats",
				Usage:       "print cache counters before exiting",
				HideDefault: true,
			},
		},
	}

	app.Commands = []*cli.Command{
		getCommand(cfg),
		waitCommand(cfg),
		warmCommand(cfg),
	}
	return app
}

// session is one opened cache plus the bits needed to report on it.
type session struct {
	cache    *waitcache.ShardedCache
	counters *metrics.Counters
	out      io.Writer
	stats    bool

	// ids numbers handles in first-seen order so output shows identity.
	ids map[any]int
}

func openSession(cmd *cli.Command, cfg config.Type) (*session, error) {
	cfg.Keying = cmd.String("keying")
	cfg.Precision = cmd.Int("precision")
	cfg.Tick = cmd.Duration("tick")
	cfg.Shards = cmd.Int("shards")
	cfg.Capacity = cmd.Int("capacity")
	cfg.Eviction = cmd.String("eviction")
	cfg.Strict = cmd.Bool("strict")
	cfg.Journal = cmd.String("journal")

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	counters := &metrics.Counters{}
	opts.Metrics = counters

	if cfg.Journal != "" {
		sink, err := journal.OpenFileSink(cfg.Journal)
		if err != nil {
			return nil, err
		}
		opts.Journal = journal.NewWriteBack(sink, cfg.JournalBuffer)
		log.WithField("path", cfg.Journal).Debug("journal enabled")
	}

	c, err := waitcache.New(opts)
	if err != nil {
		if opts.Journal != nil {
			opts.Journal.Close()
		}
		return nil, err
	}

	return &session{
		cache:    c,
		counters: counters,
		out:      cmd.Root().Writer,
		stats:    cmd.Bool("stats"),
		ids:      make(map[any]int),
	}, nil
}

func (s *session) close() {
	s.cache.Close()
	if s.stats {
		fmt.Fprintf(s.out, "\n%s\n", s.counters.Snapshot())
	}
}

func (s *session) id(h any) int {
	if n, ok := s.ids[h]; ok {
		return n
	}
	n := len(s.ids) + 1
	s.ids[h] = n
	return n
}

func parseSeconds(args []string) ([]float64, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one duration in seconds is required")
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i+1)
		}
		out[i] = v
	}
	return out, nil
}

// Run is the entry point used by main.
func Run(ctx context.Context, cfg config.Type, out io.Writer, args []string) error {
	return InitApp(cfg, out).Run(ctx, args)
}
