package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// deleteStale mirrors local deletions to the drive: list the remote tree,
// diff it against the local set, delete whatever only exists remotely.
// A listing failure aborts the pass, individual delete failures do not.
func (e *Engine) deleteStale(ctx context.Context, localFiles map[string]struct{}, report *SyncReport) error {
	remote, err := e.lister.BuildIndex(ctx, e.baseFolder)
	if err != nil {
		return fmt.Errorf("build remote index: %w", err)
	}
	slog.Info("remote index complete", "folder", e.baseFolder, "files", len(remote))

	stale := StalePaths(remote, localFiles)
	if len(stale) == 0 {
		slog.Info("no stale remote files")
		return nil
	}

	for _, relPath := range stale {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		itemID := remote[relPath]

		if e.dryRun {
			report.Deleted++
			slog.Info("sync", "op", OpDelete, "path", relPath, "itemId", itemID, "dryRun", true)
			continue
		}

		if err := e.drive.DeleteItem(ctx, itemID); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			report.DeleteErrors++
			slog.Error("sync", "op", OpDelete, "path", relPath, "itemId", itemID, "error", err)
			continue
		}

		report.Deleted++
		slog.Info("sync", "op", OpDelete, "path", relPath, "itemId", itemID)
	}

	return nil
}
