// Package scan enumerates the regular files under a source root.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned when the source root does not exist.
	ErrNotFound = errors.New("source folder does not exist")
	// ErrNotDir is returned when the source root exists but is not a directory.
	ErrNotDir = errors.New("source path is not a directory")
)

// Entry is a regular file discovered under the source root.
type Entry struct {
	Path string
	Size int64
}

// Options filters the enumeration. Patterns are doublestar globs matched
// against the path relative to the root; Exclude wins over Include, and an
// empty Include list means "everything".
type Options struct {
	Include []string
	Exclude []string
}

// ValidatePatterns rejects malformed glob patterns up front, so a typo fails
// the run instead of silently matching nothing.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid glob pattern: %q", p)
		}
	}
	return nil
}

// Scan validates root and returns every regular file under it, recursively.
//
// Symlinks are not followed: WalkDir does not descend into symlinked
// directories, and symlinks to regular files fail the file-type check.
// Traversal faults (permission denied, I/O errors) are logged and skipped,
// degrading the result to whatever was collected; only root validation
// errors reach the caller.
func Scan(ctx context.Context, root string, opts Options) ([]Entry, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, errors.Errorf("%w: %s", ErrNotFound, root)
	}
	if err != nil {
		return nil, errors.Errorf("checking source folder %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%w: %s", ErrNotDir, root)
	}

	var entries []Entry
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("error while scanning, skipping subtree")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("relativizing path, skipping file")
			return nil
		}
		if !opts.matches(rel) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("reading file info, skipping file")
			return nil
		}
		entries = append(entries, Entry{Path: path, Size: fi.Size()})
		logger.Debug().Str("file", path).Msg("found file")
		return nil
	}
	if err := filepath.WalkDir(root, walkFn); err != nil {
		// walkFn swallows per-entry faults, so this only fires on a fault
		// at the root itself.
		logger.Error().Err(err).Str("source", root).Msg("scan aborted early")
	}

	logger.Info().Int("count", len(entries)).Str("source", root).Msg("scan complete")
	return entries, nil
}

func (o Options) matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range o.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	if len(o.Include) == 0 {
		return true
	}
	for _, p := range o.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
