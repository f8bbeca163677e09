package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/driveops/sharesync/internal/workspace"
)

const (
	OpUpload = "upload"
	OpDelete = "delete"
)

// EngineConfig holds the collaborators and options for one sync pass.
type EngineConfig struct {
	Workspace *workspace.Workspace
	Drive     DriveClient
	Ignore    *IgnoreList

	// Login acquires credentials after the local scan and before the first
	// remote call. nil skips the step.
	Login func(ctx context.Context) error

	BaseFolder    string
	SyncDeletions bool
	DryRun        bool
	ChunkSize     int64
}

// SyncReport summarizes the result of a single sync pass.
type SyncReport struct {
	DryRun   bool
	Duration time.Duration

	Scanned       int
	Uploaded      int
	UploadErrors  int
	BytesUploaded int64
	Deleted       int
	DeleteErrors  int
}

// HasFailures reports whether any per-item operation failed.
func (r *SyncReport) HasFailures() bool {
	return r.UploadErrors > 0 || r.DeleteErrors > 0
}

// Engine runs one-way mirror passes: scan the local tree, optionally delete
// remote files that vanished locally, then upload everything that remains.
// Strictly sequential. Per-item failures are logged and counted, the pass
// carries on; scan, login and remote listing failures abort it.
type Engine struct {
	workspace *workspace.Workspace
	drive     DriveClient
	ignore    *IgnoreList
	lister    *RemoteLister
	login     func(ctx context.Context) error

	baseFolder    string
	syncDeletions bool
	dryRun        bool
	chunkSize     int64
}

func NewEngine(cfg *EngineConfig) *Engine {
	return &Engine{
		workspace:     cfg.Workspace,
		drive:         cfg.Drive,
		ignore:        cfg.Ignore,
		lister:        NewRemoteLister(cfg.Drive),
		login:         cfg.Login,
		baseFolder:    cfg.BaseFolder,
		syncDeletions: cfg.SyncDeletions,
		dryRun:        cfg.DryRun,
		chunkSize:     cfg.ChunkSize,
	}
}

// Run executes a single pass and returns its report. The returned error is
// nil unless the pass aborted, individual file failures only show up in the
// report and the logs.
func (e *Engine) Run(ctx context.Context) (*SyncReport, error) {
	tstart := time.Now()
	report := &SyncReport{DryRun: e.dryRun}

	slog.Info("sync pass starting",
		"root", e.workspace.Root,
		"baseFolder", e.baseFolder,
		"syncDeletions", e.syncDeletions,
		"dryRun", e.dryRun,
	)

	localFiles, err := ScanLocal(ctx, e.workspace.Root, e.ignore)
	if err != nil {
		return nil, fmt.Errorf("scan local: %w", err)
	}
	report.Scanned = len(localFiles)
	slog.Info("local scan complete", "files", len(localFiles))

	if e.login != nil {
		if err := e.login(ctx); err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
	}

	if e.syncDeletions {
		if err := e.deleteStale(ctx, localFiles, report); err != nil {
			return nil, err
		}
	}

	if err := e.uploadAll(ctx, localFiles, report); err != nil {
		return nil, err
	}

	report.Duration = time.Since(tstart)
	slog.Info("sync pass complete",
		"took", report.Duration.Round(time.Millisecond),
		"scanned", report.Scanned,
		"uploaded", report.Uploaded,
		"uploadErrors", report.UploadErrors,
		"bytes", humanize.IBytes(uint64(report.BytesUploaded)),
		"deleted", report.Deleted,
		"deleteErrors", report.DeleteErrors,
		"dryRun", report.DryRun,
	)

	return report, nil
}
