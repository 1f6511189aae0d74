package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/waitcache/eviction"
	"github.com/krisalay/waitcache/keying"
)

func testdata(t *testing.T, name string) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return p
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "every field",
			testFile: "full.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, 8, cfg.Shards)
				assert.Equal(t, 512, cfg.Capacity)
				assert.Equal(t, "lfu", cfg.Eviction)
				assert.Equal(t, "ticks", cfg.Keying)
				assert.Equal(t, 5*time.Millisecond, cfg.Tick)
				assert.False(t, cfg.Strict)
				assert.Equal(t, "/tmp/waitcache-journal.yaml", cfg.Journal)
				assert.Equal(t, 64, cfg.JournalBuffer)
			},
		},
		{
			name:     "partial file keeps defaults",
			testFile: "partial.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "exact", cfg.Keying)
				assert.Equal(t, 4, cfg.Shards)
				assert.True(t, cfg.Strict)
				assert.Equal(t, keying.DefaultPlaces, cfg.Precision)
			},
		},
		{
			name:     "unknown keying mode",
			testFile: "bad_keying.yaml",
			wantErr:  true,
		},
		{
			name:     "malformed yaml",
			testFile: "malformed.yaml",
			wantErr:  true,
		},
		{
			name:     "missing explicit file",
			testFile: "nope.yaml",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(testdata(t, tt.testFile))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, Default(), cfg)
				return
			}
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvPath, testdata(t, "partial.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "exact", cfg.Keying)
	assert.Equal(t, testdata(t, "partial.yaml"), Path())
}

func TestLoadMissingImplicitFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvPath, filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestOptions(t *testing.T) {
	cfg, err := Load(testdata(t, "full.yaml"))
	require.NoError(t, err)

	o, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, 8, o.Shards)
	assert.Equal(t, 512, o.Capacity)
	assert.Equal(t, eviction.LFU, o.Eviction)
	assert.Equal(t, keying.Ticks, o.Keying)
	assert.Equal(t, 5*time.Millisecond, o.Tick)
	assert.False(t, o.Strict)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	c := Default()
	c.Shards = 0
	assert.Error(t, c.Validate())

	c = Default()
	c.Capacity = -1
	assert.Error(t, c.Validate())

	c = Default()
	c.Eviction = "random"
	assert.ErrorIs(t, c.Validate(), eviction.ErrUnknownPolicy)

	c = Default()
	c.Precision = 99
	assert.Error(t, c.Validate())

	_, err := c.Options()
	assert.Error(t, err)
}
