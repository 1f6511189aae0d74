package journal

import (
	"bytes"
	"context"
	"math"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

/*
FileSink appends records to a file as a YAML sequence:

	- 0.5
	- 1
	- 2.25

Every line is a complete sequence item, so the file stays valid YAML
after each append and after a crash mid-run.
*/
type FileSink struct {
	mu   sync.Mutex
	path string
	f    *os.File
	seen map[uint64]struct{}
}

// OpenFileSink opens (or creates) path for appending.
// Durations already in the file are not written again.
func OpenFileSink(path string) (*FileSink, error) {
	existing, err := ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open journal %s", path)
	}

	s := &FileSink{path: path, f: f, seen: make(map[uint64]struct{}, len(existing))}
	for _, d := range existing {
		s.seen[math.Float64bits(d)] = struct{}{}
	}
	return s, nil
}

// Path returns the file the sink writes to.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Record(_ context.Context, seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return errors.Errorf("journal %s is closed", s.path)
	}

	bits := math.Float64bits(seconds)
	if _, ok := s.seen[bits]; ok {
		return nil
	}

	if _, err := s.f.WriteString("- " + formatFloat(seconds) + "\n"); err != nil {
		return errors.Wrapf(err, "write journal %s", s.path)
	}
	s.seen[bits] = struct{}{}
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return errors.Wrapf(err, "close journal %s", s.path)
}

// ReadFile parses a journal file back into durations, in file order.
// An empty file yields no durations.
func ReadFile(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var out []float64
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "parse journal %s", path)
	}
	return out, nil
}

// formatFloat writes the shortest exact form, using YAML spellings for non-finite values.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ".nan"
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
