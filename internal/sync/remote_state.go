package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/driveops/sharesync/internal/graph"
)

// listPause is the courtesy wait before descending into each subfolder,
// keeping recursive listings gentle on the API.
const listPause = 100 * time.Millisecond

// DriveClient is the slice of the Graph drive surface the engine consumes.
// Satisfied by *graph.DriveAPI.
type DriveClient interface {
	ListChildren(ctx context.Context, folderPath string) ([]*graph.DriveItem, error)
	DeleteItem(ctx context.Context, itemID string) error
	Upload(ctx context.Context, params *graph.UploadParams) (*graph.DriveItem, error)
}

// RemoteLister builds the remote file index under a base folder.
type RemoteLister struct {
	drive DriveClient
	pause time.Duration
}

func NewRemoteLister(drive DriveClient) *RemoteLister {
	return &RemoteLister{
		drive: drive,
		pause: listPause,
	}
}

// BuildIndex lists the base folder recursively and returns every remote file
// keyed by its base-relative path, mapped to the drive item ID. A missing
// base folder yields an empty index. Any other failure, at any depth, aborts
// the listing with the partial results discarded.
func (l *RemoteLister) BuildIndex(ctx context.Context, baseFolder string) (map[string]string, error) {
	index := make(map[string]string)
	if err := l.listInto(ctx, index, baseFolder, ""); err != nil {
		return nil, err
	}
	return index, nil
}

func (l *RemoteLister) listInto(ctx context.Context, index map[string]string, baseFolder, subPath string) error {
	folderPath := baseFolder
	if subPath != "" {
		folderPath = baseFolder + "/" + subPath
	}

	children, err := l.drive.ListChildren(ctx, folderPath)
	if err != nil {
		// only the base folder itself may be absent
		if subPath == "" && errors.Is(err, graph.ErrItemNotFound) {
			slog.Info("remote base folder missing, treating as empty", "folder", folderPath)
			return nil
		}
		return fmt.Errorf("list %q: %w", folderPath, err)
	}

	for _, item := range children {
		childPath := item.Name
		if subPath != "" {
			childPath = subPath + "/" + item.Name
		}

		if item.IsFolder() {
			if err := l.wait(ctx); err != nil {
				return err
			}
			if err := l.listInto(ctx, index, baseFolder, childPath); err != nil {
				return err
			}
		} else {
			index[childPath] = item.ID
		}
	}

	return nil
}

func (l *RemoteLister) wait(ctx context.Context) error {
	if l.pause <= 0 {
		return nil
	}

	timer := time.NewTimer(l.pause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
