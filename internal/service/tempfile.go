package service

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/galerie/internal/infrastructure/logger"
)

// withTempFiles reserves the named paths under dir for the duration of fn and
// removes whatever exists at them once fn returns, whatever the outcome.
func withTempFiles(dir string, names []string, fn func(paths []string) error) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	defer func() {
		for _, p := range paths {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				logger.Warn().Err(err).Str("path", p).Msg("failed to remove temp file")
			}
		}
	}()
	return fn(paths)
}

// removeFilesOlderThan deletes regular files directly under dir whose mtime
// is before cutoff. A zero cutoff removes everything. Per-file errors are
// skipped; a missing dir counts as empty.
func removeFilesOlderThan(dir string, cutoff time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Err(err).Str("dir", dir).Msg("failed to read temp dir")
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !cutoff.IsZero() && !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			continue
		}
		removed++
	}
	return removed
}
