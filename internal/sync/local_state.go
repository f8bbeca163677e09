package sync

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/driveops/sharesync/internal/workspace"
)

// ScanLocal walks the root depth first and returns the set of root-relative
// file paths that survive the ignore rules. Ignored directories are pruned
// before descent so nothing under them is visited. Unreadable entries are
// logged and skipped, only context cancellation aborts the scan.
func ScanLocal(ctx context.Context, rootDir string, ignore *IgnoreList) (map[string]struct{}, error) {
	files := make(map[string]struct{})

	err := filepath.WalkDir(rootDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			slog.Warn("scan skip", "path", p, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p == rootDir {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, p)
		if err != nil {
			slog.Warn("scan skip", "path", p, "error", err)
			return nil
		}
		relPath = workspace.NormPath(relPath)

		if d.IsDir() {
			if ignore.MatchDir(relPath) {
				return fs.SkipDir
			}
			return nil
		}

		// symlinks, sockets and the like never sync
		if !d.Type().IsRegular() {
			return nil
		}

		if ignore.Match(relPath) {
			return nil
		}

		files[relPath] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
