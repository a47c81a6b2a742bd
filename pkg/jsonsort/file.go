package jsonsort

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/NerdyHomeReOpen/Details/pkg/metrics"
)

// Sorter rewrites translation files in place.
type Sorter struct {
	Log *zap.SugaredLogger
}

func NewSorter(log *zap.SugaredLogger) *Sorter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Sorter{Log: log}
}

// SortFile validates path, sorts the object it contains and overwrites the
// file with a single write. Nothing is written when any step before the
// write fails.
func (s *Sorter) SortFile(path string) (*Summary, error) {
	summary, err := s.sortFile(path)
	if err != nil {
		metrics.SortRuns.WithLabelValues("failure").Inc()
		s.Log.Warnw("Sorting failed", "path", path, "error", err)
		return nil, err
	}
	metrics.SortRuns.WithLabelValues("success").Inc()
	metrics.SortedKeys.Set(float64(summary.KeyCount))
	return summary, nil
}

func (s *Sorter) sortFile(path string) (*Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	if !strings.HasSuffix(path, ".json") {
		return nil, fmt.Errorf("%w: %s", ErrNotJSONFile, path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	s.Log.Infow("Sorting file", "path", path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	sorted, entries, err := Sort(content)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, sorted, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.Log.Infow("File sorted", "path", path, "keys", len(entries), "bytes", len(sorted))

	summary := NewSummary(entries)
	summary.File = filepath.Base(path)
	summary.Path = path
	return summary, nil
}
