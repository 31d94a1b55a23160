package filesystem

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
)

// Ensure Walker implements the interface.
var _ driven.Walker = (*Walker)(nil)

// irregular are the file types that are skipped without being yielded.
const irregular = fs.ModeNamedPipe | fs.ModeSocket | fs.ModeDevice | fs.ModeCharDevice | fs.ModeIrregular

// Walker enumerates local directory trees.
type Walker struct{}

// NewWalker creates a local filesystem walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields root and every entry beneath it. Paths are absolute and clean.
// A symlinked root is followed; entries are still reported under root.
func (w *Walker) Walk(ctx context.Context, root string, exclude []string) iter.Seq2[domain.WalkEntry, error] {
	return func(yield func(domain.WalkEntry, error) bool) {
		abs, err := filepath.Abs(root)
		if err != nil {
			yield(domain.WalkEntry{}, &domain.TraversalError{Path: root, Err: err})
			return
		}
		target, err := resolveRoot(abs)
		if err != nil {
			yield(domain.WalkEntry{}, &domain.TraversalError{Path: abs, Err: err})
			return
		}

		stopped := false
		walkErr := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if target != abs {
				if rel, relErr := filepath.Rel(target, path); relErr == nil {
					path = filepath.Join(abs, rel)
				}
			}
			if err != nil {
				return &domain.TraversalError{Path: path, Err: err}
			}
			if err := ctx.Err(); err != nil {
				return &domain.TraversalError{Path: path, Err: err}
			}

			if d.Type()&irregular != 0 {
				return nil
			}
			if d.Type()&fs.ModeSymlink != 0 {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					return nil
				}
			}

			entry := domain.WalkEntry{
				Path:     path,
				IsDir:    d.IsDir(),
				Excluded: path != abs && Excluded(path, exclude),
			}
			if !yield(entry, nil) {
				stopped = true
				return fs.SkipAll
			}
			if entry.IsDir && entry.Excluded {
				return fs.SkipDir
			}
			return nil
		})
		if walkErr != nil && !stopped {
			yield(domain.WalkEntry{}, walkErr)
		}
	}
}

// resolveRoot returns the directory to walk for abs. Only a symlink at abs
// itself is resolved.
func resolveRoot(abs string) (string, error) {
	info, err := os.Lstat(abs)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return abs, nil
	}
	return filepath.EvalSymlinks(abs)
}

// Excluded reports whether path matches any pattern. A pattern containing a
// separator is matched against the full path, or taken as a path prefix when
// it has no glob characters; any other pattern is matched against the base
// name. Malformed patterns never match.
func Excluded(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if !strings.ContainsRune(p, filepath.Separator) {
			if ok, _ := filepath.Match(p, base); ok {
				return true
			}
			continue
		}
		if ok, _ := filepath.Match(p, path); ok {
			return true
		}
		if !strings.ContainsAny(p, "*?[") {
			clean := filepath.Clean(p)
			if path == clean || strings.HasPrefix(path, clean+string(filepath.Separator)) {
				return true
			}
		}
	}
	return false
}
