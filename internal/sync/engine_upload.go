package sync

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/driveops/sharesync/internal/graph"
)

// uploadAll pushes every scanned file to the drive in lexical order, whole
// file each time. Failures are logged per file and the loop carries on.
func (e *Engine) uploadAll(ctx context.Context, localFiles map[string]struct{}, report *SyncReport) error {
	for _, relPath := range sortedPaths(localFiles) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		localPath := e.workspace.AbsPath(relPath)
		remotePath := e.baseFolder + "/" + relPath

		if e.dryRun {
			var size int64
			if info, err := os.Stat(localPath); err == nil {
				size = info.Size()
			}
			report.Uploaded++
			report.BytesUploaded += size
			slog.Info("sync", "op", OpUpload, "path", relPath, "size", humanize.IBytes(uint64(size)), "dryRun", true)
			continue
		}

		item, err := e.drive.Upload(ctx, &graph.UploadParams{
			LocalPath:  localPath,
			RemotePath: remotePath,
			ChunkSize:  e.chunkSize,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			report.UploadErrors++
			slog.Error("sync", "op", OpUpload, "path", relPath, "error", err)
			continue
		}

		report.Uploaded++
		report.BytesUploaded += item.Size
		slog.Info("sync", "op", OpUpload, "path", relPath, "size", humanize.IBytes(uint64(item.Size)), "itemId", item.ID)
	}

	return nil
}
