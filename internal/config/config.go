package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	waitcache "github.com/krisalay/waitcache"
	"github.com/krisalay/waitcache/eviction"
	"github.com/krisalay/waitcache/keying"
)

// EnvPath names the environment variable pointing at the config file.
const EnvPath = "WAITCACHE_CFG"

// DefaultFile is looked up in the home directory when WAITCACHE_CFG is unset.
const DefaultFile = ".waitcache.yaml"

// Type is the on-disk configuration. Source is the file it came from, empty for defaults.
type Type struct {
	Source string `yaml:"-"`

	Shards   int    `yaml:"shards"`
	Capacity int    `yaml:"capacity"`
	Eviction string `yaml:"eviction"`

	Keying    string        `yaml:"keying"`
	Precision int           `yaml:"precision"`
	Tick      time.Duration `yaml:"tick"`

	Strict bool `yaml:"strict"`

	Journal       string `yaml:"journal"`
	JournalBuffer int    `yaml:"journal_buffer"`
}

// Default mirrors waitcache.DefaultOptions.
func Default() Type {
	o := waitcache.DefaultOptions()
	return Type{
		Shards:        o.Shards,
		Capacity:      o.Capacity,
		Eviction:      string(o.Eviction),
		Keying:        string(o.Keying),
		Precision:     o.Places,
		Tick:          o.Tick,
		Strict:        o.Strict,
		JournalBuffer: 1024,
	}
}

/*
Load reads the config file over the defaults.

Lookup order:
1. the explicit path, when given
2. WAITCACHE_CFG
3. ~/.waitcache.yaml

A missing file in steps 2 or 3 is not an error; the defaults are returned.
A missing explicit path is.
*/
func Load(path ...string) (Type, error) {
	cfg := Default()

	p, explicit := resolvePath(path...)
	if p == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(p)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			log.WithField("path", p).Debug("no config file, using defaults")
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read config %s", p)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Default(), errors.Wrapf(err, "parse config %s", p)
	}
	cfg.Source = p

	if err := cfg.Validate(); err != nil {
		return Default(), errors.Wrapf(err, "config %s", p)
	}
	return cfg, nil
}

// Path returns the file Load would read, or "" when none can be determined.
func Path() string {
	p, _ := resolvePath()
	return p
}

func resolvePath(path ...string) (string, bool) {
	if len(path) > 0 && path[0] != "" {
		return path[0], true
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, false
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, DefaultFile), false
}

// Validate checks the enumerated and numeric fields.
func (c Type) Validate() error {
	if c.Shards <= 0 {
		return errors.Errorf("shards must be positive, got %d", c.Shards)
	}
	if c.Capacity < 0 {
		return errors.Errorf("capacity must not be negative, got %d", c.Capacity)
	}
	if c.JournalBuffer < 0 {
		return errors.Errorf("journal_buffer must not be negative, got %d", c.JournalBuffer)
	}
	if _, err := eviction.ParsePolicyType(c.Eviction); err != nil {
		return err
	}
	if _, err := keying.NewQuantizer(keying.Mode(c.Keying), c.Precision, c.Tick); err != nil {
		return err
	}
	return nil
}

// Options converts the config into cache options. Journal, clock and metrics are left to the caller.
func (c Type) Options() (waitcache.Options, error) {
	if err := c.Validate(); err != nil {
		return waitcache.Options{}, err
	}
	policy, _ := eviction.ParsePolicyType(c.Eviction)

	o := waitcache.DefaultOptions()
	o.Shards = c.Shards
	o.Capacity = c.Capacity
	o.Eviction = policy
	o.Keying = keying.Mode(c.Keying)
	o.Places = c.Precision
	o.Tick = c.Tick
	o.Strict = c.Strict
	return o, nil
}
