package graph

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

var (
	// client config
	ErrNoSiteID  = errors.New("graph: site id missing")
	ErrNoDriveID = errors.New("graph: drive id missing")

	// auth
	ErrNoAccessToken = errors.New("graph: token response missing access token")

	// drive
	ErrItemNotFound = errors.New("graph: item not found")
	ErrFileNotFound = errors.New("graph: local file not found")
	ErrNoUploadURL  = errors.New("graph: upload session missing upload url")
)

const (
	CodeItemNotFound      = "itemNotFound"         // the addressed resource does not exist
	CodeAccessDenied      = "accessDenied"         // the app lacks permission on the drive
	CodeUnauthenticated   = "unauthenticated"      // token missing, expired or malformed
	CodeInvalidRequest    = "invalidRequest"       // bad or malformed request
	CodeInvalidRange      = "invalidRange"         // upload byte range outside the expected window
	CodeQuotaLimitReached = "quotaLimitReached"    // drive quota exhausted
	CodeActivityLimit     = "activityLimitReached" // throttled, retry later
	CodeNameAlreadyExists = "nameAlreadyExists"    // conflicting item at the target path
)

// APIError is the OData error envelope Graph returns on failed calls, plus
// the originating HTTP status.
type APIError struct {
	Status int        `json:"-"`
	Detail odataError `json:"error"`
}

type odataError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) ErrorCode() string    { return e.Detail.Code }
func (e *APIError) ErrorMessage() string { return e.Detail.Message }

func (e *APIError) Error() string {
	return fmt.Sprintf("graph error: %d %s - %s", e.Status, e.Detail.Code, e.Detail.Message)
}

// Is maps the Graph not-found answer onto ErrItemNotFound so callers can
// branch with errors.Is.
func (e *APIError) Is(target error) bool {
	if target == ErrItemNotFound {
		return e.Status == http.StatusNotFound || e.Detail.Code == CodeItemNotFound
	}
	return false
}

// handleAPIError is a helper function that handles the common error pattern
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s %w", operation, requestErr)
	}

	// got a response, but the api returned an error
	if resp.IsErrorState() {
		if apiErr, ok := resp.ErrorResult().(*APIError); ok {
			apiErr.Status = resp.GetStatusCode()
			return fmt.Errorf("%s %w", operation, apiErr)
		}

		return fmt.Errorf("graph error: %s status %d %s", operation, resp.GetStatusCode(), resp.String())
	}

	return nil
}
