package graph

import (
	"github.com/google/uuid"
	"github.com/imroc/req/v3"
)

// ClientConfig selects the Graph endpoint and the drive to operate on.
type ClientConfig struct {
	BaseURL string // defaults to DefaultBaseURL
	SiteID  string
	DriveID string
}

func (c *ClientConfig) Validate() error {
	if c.SiteID == "" {
		return ErrNoSiteID
	}
	if c.DriveID == "" {
		return ErrNoDriveID
	}
	return nil
}

// Client talks to the Microsoft Graph API. The api client carries the bearer
// token, JSON codec and error decoding for metadata calls. The transfer
// client is bare because upload session URLs are pre-authenticated and an
// Authorization header on them is rejected. Neither client retries.
type Client struct {
	api      *req.Client
	transfer *req.Client
	baseURL  string

	Drive *DriveAPI
}

// New creates a new Graph client scoped to one site and drive.
func New(cfg *ClientConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	api := req.C().
		SetBaseURL(baseURL).
		SetUserAgent(ShareSyncUserAgent).
		SetCommonErrorResult(&APIError{}).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal).
		OnBeforeRequest(func(client *req.Client, r *req.Request) error {
			r.SetHeader(HeaderClientRequestID, uuid.NewString())
			return nil
		})

	transfer := req.C().
		SetUserAgent(ShareSyncUserAgent)

	c := &Client{
		api:      api,
		transfer: transfer,
		baseURL:  baseURL,
	}
	c.Drive = newDriveAPI(c, cfg.SiteID, cfg.DriveID)

	return c, nil
}

// Login sets the bearer token for all subsequent API calls.
func (c *Client) Login(token string) {
	c.api.SetCommonBearerAuthToken(token)
}

// Close terminates idle connections on both clients.
func (c *Client) Close() {
	c.api.GetClient().CloseIdleConnections()
	c.transfer.GetClient().CloseIdleConnections()
}
