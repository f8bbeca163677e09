package graph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Upload transfers a local file to a drive path, replacing any previous item
// there. Files go through a resumable upload session in fixed-size chunks.
// Empty files are a single content PUT instead, the session loop would never
// send a byte for them.
func (d *DriveAPI) Upload(ctx context.Context, params *UploadParams) (*DriveItem, error) {
	info, err := os.Stat(params.LocalPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("stat file: %w", err)
	}

	if info.Size() == 0 {
		return d.uploadEmpty(ctx, params.RemotePath)
	}

	uploader := newSessionUploader(d, params, info.Size())
	return uploader.Upload(ctx)
}

// sessionUploader drives one resumable upload: a POST opens the session, then
// sequential chunk PUTs walk the file front to back. Each range is sent
// exactly once and never re-sent, a rejected chunk fails the whole upload.
// Session state lives and dies with the call.
type sessionUploader struct {
	drive     *DriveAPI
	params    *UploadParams
	size      int64
	chunkSize int64
	uploadURL string
	offset    int64
}

func newSessionUploader(drive *DriveAPI, params *UploadParams, size int64) *sessionUploader {
	chunkSize := params.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	return &sessionUploader{
		drive:     drive,
		params:    params,
		size:      size,
		chunkSize: chunkSize,
	}
}

func (u *sessionUploader) Upload(ctx context.Context) (*DriveItem, error) {
	if err := u.openSession(ctx); err != nil {
		return nil, err
	}

	file, err := os.Open(u.params.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, u.chunkSize)
	var item *DriveItem

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, err := io.ReadFull(file, buf)
		if err == io.EOF {
			break
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("read chunk: %w", err)
		}

		item, err = u.putChunk(ctx, buf[:n])
		if err != nil {
			return nil, err
		}
	}

	// the final chunk response carries the created item
	if item == nil {
		return nil, fmt.Errorf("upload session finished without a drive item")
	}

	return item, nil
}

func (u *sessionUploader) openSession(ctx context.Context) error {
	var session uploadSession
	resp, err := u.drive.client.api.R().
		SetContext(ctx).
		SetBody(&createUploadSessionRequest{
			Item: uploadSessionItem{ConflictBehavior: conflictReplace},
		}).
		SetSuccessResult(&session).
		Post(u.drive.itemURL(u.params.RemotePath, "createUploadSession"))

	if err := handleAPIError(resp, err, "create upload session"); err != nil {
		return err
	}

	if session.UploadURL == "" {
		return ErrNoUploadURL
	}

	u.uploadURL = session.UploadURL
	return nil
}

// putChunk sends the next byte range to the session URL. Intermediate chunks
// return (nil, nil), the final one returns the created item.
func (u *sessionUploader) putChunk(ctx context.Context, chunk []byte) (*DriveItem, error) {
	start := u.offset
	end := start + int64(len(chunk)) - 1

	var item *DriveItem
	resp, err := u.drive.client.transfer.R().
		SetContext(ctx).
		SetHeader(HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", start, end, u.size)).
		SetContentType("application/octet-stream").
		SetBodyBytes(chunk).
		SetSuccessResult(&item).
		Put(u.uploadURL)
	if err != nil {
		return nil, fmt.Errorf("http request error: upload chunk %w", err)
	}

	status := resp.GetStatusCode()
	if status < http.StatusOK || status > http.StatusNoContent {
		return nil, fmt.Errorf("chunk %d-%d/%d rejected with status %d: %s", start, end, u.size, status, resp.String())
	}

	u.offset += int64(len(chunk))

	if item != nil && item.ID != "" {
		return item, nil
	}
	return nil, nil
}

// uploadEmpty creates or replaces a zero-byte file with a plain content PUT.
func (d *DriveAPI) uploadEmpty(ctx context.Context, remotePath string) (*DriveItem, error) {
	var item *DriveItem
	resp, err := d.client.api.R().
		SetContext(ctx).
		SetQueryParam("@microsoft.graph.conflictBehavior", conflictReplace).
		SetContentType("application/octet-stream").
		SetBodyBytes([]byte{}).
		SetSuccessResult(&item).
		Put(d.itemURL(remotePath, "content"))

	if err := handleAPIError(resp, err, "upload empty file"); err != nil {
		return nil, err
	}

	if item == nil || item.ID == "" {
		return nil, fmt.Errorf("upload empty file: no drive item in response")
	}

	return item, nil
}
