package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/waitcache/internal/config"
	"github.com/krisalay/waitcache/journal"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Run(context.Background(), config.Default(), &out, append([]string{"waitcache"}, args...))
	return out.String(), err
}

func TestGetShowsSharedHandles(t *testing.T) {
	out, err := run(t, "get", "1", "1.0", "2", "0.30000000000000004", "0.3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "handle=h1")
	assert.Contains(t, lines[0], "miss")
	assert.Contains(t, lines[1], "handle=h1")
	assert.Contains(t, lines[1], "hit")
	assert.Contains(t, lines[2], "handle=h2")
	assert.Contains(t, lines[3], "handle=h3")
	assert.Contains(t, lines[4], "handle=h3")
	assert.Contains(t, lines[4], "wait=300ms")
}

func TestGetExactKeyingSplitsFloats(t *testing.T) {
	out, err := run(t, "--keying", "exact", "get", "0.30000000000000004", "0.3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "handle=h1")
	assert.Contains(t, lines[1], "handle=h2")
}

func TestGetRejectsInvalid(t *testing.T) {
	_, err := run(t, "get", "-1")
	assert.Error(t, err)

	_, err = run(t, "get", "soon")
	assert.Error(t, err)

	_, err = run(t, "get")
	assert.Error(t, err)

	out, err := run(t, "--strict=false", "get", "--", "-1")
	require.NoError(t, err)
	assert.Contains(t, out, "wait=-1s")
}

func TestStatsFlag(t *testing.T) {
	out, err := run(t, "--stats", "get", "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "HITS      : 1")
	assert.Contains(t, out, "CREATES   : 1")
}

func TestWaitZero(t *testing.T) {
	out, err := run(t, "wait", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "waiting 0s")
	assert.Contains(t, out, "done")

	_, err = run(t, "wait", "1", "2")
	assert.Error(t, err)
}

func TestJournalAndWarm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.yaml")

	_, err := run(t, "--journal", path, "get", "0.5", "2", "0.5")
	require.NoError(t, err)

	recorded, err := journal.ReadFile(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{0.5, 2}, recorded)

	out, err := run(t, "warm", path)
	require.NoError(t, err)
	assert.Contains(t, out, "warmed 2 handles from 2 records")
	assert.Contains(t, out, "0.5\n2\n")

	_, err = run(t, "warm")
	assert.Error(t, err)

	_, err = run(t, "warm", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBadFlagValues(t *testing.T) {
	_, err := run(t, "--keying", "fuzzy", "get", "1")
	assert.Error(t, err)

	_, err = run(t, "--capacity", "4", "--eviction", "random", "get", "1")
	assert.Error(t, err)
}
