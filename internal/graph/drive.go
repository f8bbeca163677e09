package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DriveAPI addresses one drive within one site.
type DriveAPI struct {
	client  *Client
	siteID  string
	driveID string
}

func newDriveAPI(client *Client, siteID, driveID string) *DriveAPI {
	return &DriveAPI{
		client:  client,
		siteID:  siteID,
		driveID: driveID,
	}
}

// ListChildren returns every child of a folder, following result pages until
// the listing is complete. The folder path is relative to the drive root.
func (d *DriveAPI) ListChildren(ctx context.Context, folderPath string) ([]*DriveItem, error) {
	var items []*DriveItem

	nextURL := d.itemURL(folderPath, "children")
	for nextURL != "" {
		var page childrenPage
		resp, err := d.client.api.R().
			SetContext(ctx).
			SetSuccessResult(&page).
			Get(nextURL)

		if err := handleAPIError(resp, err, "list children"); err != nil {
			return nil, err
		}

		items = append(items, page.Value...)
		nextURL = page.NextLink
	}

	return items, nil
}

// DeleteItem permanently removes a drive item. Graph answers no-content on
// success, anything else is a failure.
func (d *DriveAPI) DeleteItem(ctx context.Context, itemID string) error {
	resp, err := d.client.api.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/sites/%s/drives/%s/items/%s", url.PathEscape(d.siteID), url.PathEscape(d.driveID), url.PathEscape(itemID)))

	if err := handleAPIError(resp, err, "delete item"); err != nil {
		return err
	}

	if resp.GetStatusCode() != http.StatusNoContent {
		return fmt.Errorf("delete item: unexpected status %d", resp.GetStatusCode())
	}

	return nil
}

// itemURL builds the root-relative address of a drive path with a trailing
// Graph action such as "children", "content" or "createUploadSession".
// Segments are escaped one by one so spaces and specials survive while the
// separators stay intact.
func (d *DriveAPI) itemURL(path, action string) string {
	base := fmt.Sprintf("/sites/%s/drives/%s/root", url.PathEscape(d.siteID), url.PathEscape(d.driveID))

	path = strings.Trim(path, "/")
	if path == "" {
		return fmt.Sprintf("%s/%s", base, action)
	}

	return fmt.Sprintf("%s:/%s:/%s", base, escapePath(path), action)
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
