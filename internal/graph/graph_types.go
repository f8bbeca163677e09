package graph

import (
	"fmt"
	"runtime"

	"github.com/driveops/sharesync/internal/version"
)

const (
	HeaderUserAgent       = "User-Agent"
	HeaderContentRange    = "Content-Range"
	HeaderClientRequestID = "client-request-id"
)

const (
	// DefaultBaseURL is the Graph v1.0 endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// conflictReplace overwrites the remote item when the path already exists.
	conflictReplace = "replace"

	// defaultChunkSize is the fallback upload chunk size.
	defaultChunkSize = int64(4 * 1024 * 1024)
)

var ShareSyncUserAgent = fmt.Sprintf("ShareSync/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

// DriveItem is the subset of the Graph driveItem resource the engine needs.
type DriveItem struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Size   int64        `json:"size,omitempty"`
	WebURL string       `json:"webUrl,omitempty"`
	File   *FileFacet   `json:"file,omitempty"`
	Folder *FolderFacet `json:"folder,omitempty"`
}

// FileFacet marks an item as a file.
type FileFacet struct {
	MimeType string `json:"mimeType,omitempty"`
}

// FolderFacet marks an item as a folder.
type FolderFacet struct {
	ChildCount int `json:"childCount,omitempty"`
}

func (d *DriveItem) IsFile() bool {
	return d.File != nil
}

func (d *DriveItem) IsFolder() bool {
	return d.Folder != nil
}

// childrenPage is one page of a children listing. NextLink carries the
// absolute URL of the following page, empty on the last one.
type childrenPage struct {
	Value    []*DriveItem `json:"value"`
	NextLink string       `json:"@odata.nextLink,omitempty"`
}

// uploadSession is the server-side handle of a resumable upload.
type uploadSession struct {
	UploadURL          string   `json:"uploadUrl"`
	ExpirationDateTime string   `json:"expirationDateTime,omitempty"`
	NextExpectedRanges []string `json:"nextExpectedRanges,omitempty"`
}

type createUploadSessionRequest struct {
	Item uploadSessionItem `json:"item"`
}

type uploadSessionItem struct {
	ConflictBehavior string `json:"@microsoft.graph.conflictBehavior"`
}

// UploadParams identifies one local file to place at one drive path.
type UploadParams struct {
	LocalPath  string // absolute path of the local file
	RemotePath string // drive path relative to the drive root
	ChunkSize  int64  // optional, defaults to defaultChunkSize
}
