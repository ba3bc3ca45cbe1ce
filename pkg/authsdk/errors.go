package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes carried in the "error" field of failed responses.
const (
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidRefresh     = "invalid_refresh_token"
	ErrorCodeInvalidRequest     = "invalid_request"
)

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Result
}

func (e *APIError) Error() string {
	if e.Result.Error != "" {
		return fmt.Sprintf("authsdk: %d %s: %s", e.StatusCode, e.Result.Error, e.Message)
	}
	return fmt.Sprintf("authsdk: %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the server refused the request for lack
// of a valid access token.
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// IsForbidden reports whether the caller was authenticated but lacks a role.
func (e *APIError) IsForbidden() bool { return e.StatusCode == http.StatusForbidden }

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &apiErr.Result); err != nil || apiErr.Message == "" {
		apiErr.Status = StatusFailure
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
