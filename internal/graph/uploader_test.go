package graph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestUpload_ChunkedRanges(t *testing.T) {
	content := []byte("0123456789")
	path := writeTempFile(t, "f.txt", content)

	var (
		srvURL    string
		assembled []byte
		nextStart int64
		puts      int
	)

	drive, srv := newTestDrive(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/sites/site1/drives/drive1/root:/docs/f.txt:/createUploadSession", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"item":{"@microsoft.graph.conflictBehavior":"replace"}}`, string(body))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"uploadUrl":"` + srvURL + `/upload/abc123"}`))

		case http.MethodPut:
			puts++
			assert.Equal(t, "/upload/abc123", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"), "session URL is pre-authenticated")

			var start, end, total int64
			_, err := fmt.Sscanf(r.Header.Get(HeaderContentRange), "bytes %d-%d/%d", &start, &end, &total)
			require.NoError(t, err)
			assert.Equal(t, nextStart, start, "ranges must be contiguous and strictly increasing")
			assert.EqualValues(t, len(content), total)

			body, _ := io.ReadAll(r.Body)
			assert.EqualValues(t, end-start+1, len(body))
			assembled = append(assembled, body...)
			nextStart = end + 1

			w.Header().Set("Content-Type", "application/json")
			if end == total-1 {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"id":"item1","name":"f.txt","size":10,"file":{}}`))
			} else {
				w.WriteHeader(http.StatusAccepted)
				fmt.Fprintf(w, `{"nextExpectedRanges":["%d-"]}`, end+1)
			}
		}
	}))
	srvURL = srv.URL

	item, err := drive.Upload(context.Background(), &UploadParams{
		LocalPath:  path,
		RemotePath: "docs/f.txt",
		ChunkSize:  4,
	})
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, "item1", item.ID)
	assert.Equal(t, 3, puts)
	assert.Equal(t, content, assembled)
	assert.EqualValues(t, len(content), nextStart, "ranges must cover the whole file")
}

func TestUpload_SingleChunk(t *testing.T) {
	content := []byte("hello")
	path := writeTempFile(t, "f.txt", content)

	var srvURL string
	puts := 0

	drive, srv := newTestDrive(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			w.Write([]byte(`{"uploadUrl":"` + srvURL + `/upload/s1"}`))
		case http.MethodPut:
			puts++
			assert.Equal(t, "bytes 0-4/5", r.Header.Get(HeaderContentRange))
			w.Write([]byte(`{"id":"item9","name":"f.txt","size":5,"file":{}}`))
		}
	}))
	srvURL = srv.URL

	item, err := drive.Upload(context.Background(), &UploadParams{
		LocalPath:  path,
		RemotePath: "f.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "item9", item.ID)
	assert.Equal(t, 1, puts)
}

func TestUpload_ChunkRejected(t *testing.T) {
	path := writeTempFile(t, "f.txt", []byte("0123456789"))

	var srvURL string
	puts := 0

	drive, srv := newTestDrive(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"uploadUrl":"` + srvURL + `/upload/s2"}`))
		case http.MethodPut:
			puts++
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		}
	}))
	srvURL = srv.URL

	_, err := drive.Upload(context.Background(), &UploadParams{
		LocalPath:  path,
		RemotePath: "f.txt",
		ChunkSize:  4,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected with status 416")
	assert.Equal(t, 1, puts, "a rejected chunk must not be retried")
}

func TestUpload_SessionRejected(t *testing.T) {
	path := writeTempFile(t, "f.txt", []byte("data"))

	puts := 0
	drive, _ := newTestDrive(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":"accessDenied","message":"nope"}}`))
		case http.MethodPut:
			puts++
		}
	}))

	_, err := drive.Upload(context.Background(), &UploadParams{
		LocalPath:  path,
		RemotePath: "f.txt",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeAccessDenied, apiErr.ErrorCode())
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Zero(t, puts, "no chunks may be sent without a session")
}

func TestUpload_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.txt", nil)

	posts := 0
	drive, _ := newTestDrive(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			posts++
		case http.MethodPut:
			assert.Equal(t, "/sites/site1/drives/drive1/root:/docs/empty.txt:/content", r.URL.Path)
			assert.Equal(t, conflictReplace, r.URL.Query().Get("@microsoft.graph.conflictBehavior"))

			body, _ := io.ReadAll(r.Body)
			assert.Empty(t, body)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"item0","name":"empty.txt","size":0,"file":{}}`))
		}
	}))

	item, err := drive.Upload(context.Background(), &UploadParams{
		LocalPath:  path,
		RemotePath: "docs/empty.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "item0", item.ID)
	assert.Zero(t, posts, "empty files bypass the session protocol")
}

func TestUpload_MissingLocalFile(t *testing.T) {
	drive, _ := newTestDrive(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a missing local file")
	}))

	_, err := drive.Upload(context.Background(), &UploadParams{
		LocalPath:  filepath.Join(t.TempDir(), "nope.txt"),
		RemotePath: "nope.txt",
	})
	assert.ErrorIs(t, err, ErrFileNotFound)
}
