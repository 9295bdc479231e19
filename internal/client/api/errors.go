package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the Daily Spanish API. The backend is not fully
// consistent about these, so the client normalises what it can and falls
// back to ErrorCodeServerError for anything unrecognisable.
const (
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeValidation         = "validation_error"
	ErrorCodePayment            = "payment_error"
	ErrorCodeVerification       = "verification_error"
	ErrorCodeServerError        = "server_error"
)

// APIError represents an error response from the Daily Spanish API.
// Details carries per-field validation messages when the server returns
// them (e.g. {"reason_other": ["This field is required."]}).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Message is a human-readable description of the error
	Message string `json:"message"`

	// Details maps field names to validation messages, when present
	Details map[string][]string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError returns the first validation message recorded for the given
// field, or "" when the server reported nothing for it.
func (e *APIError) FieldError(field string) string {
	msgs := e.Details[field]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

// IsAuthError reports whether err is an API error caused by missing or
// rejected credentials. Callers use this to distinguish "log in again"
// from transport failures that should fall back to cached state.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// IsAPIError reports whether the server answered at all. Anything else is
// a transport-level failure (DNS, refused connection, timeout).
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// parseErrorResponse attempts to parse an HTTP error response into a typed
// *APIError. The Daily Spanish backend uses a few shapes: OAuth-style
// {"error", "error_description"}, DRF-style {"detail"} and validation maps
// under "details". Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp struct {
		Error            string              `json:"error"`
		ErrorDescription string              `json:"error_description"`
		Detail           string              `json:"detail"`
		Message          string              `json:"message"`
		Details          map[string][]string `json:"details"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		code := errResp.Error
		msg := firstNonEmpty(errResp.ErrorDescription, errResp.Message, errResp.Detail)

		if code == "" && len(errResp.Details) > 0 {
			code = ErrorCodeValidation
		}
		if code != "" || msg != "" || len(errResp.Details) > 0 {
			if code == "" {
				code = codeForStatus(resp.StatusCode)
			}
			if msg == "" {
				msg = http.StatusText(resp.StatusCode)
			}
			return &APIError{
				StatusCode: resp.StatusCode,
				Code:       code,
				Message:    msg,
				Details:    errResp.Details,
			}
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       codeForStatus(resp.StatusCode),
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorCodeInvalidToken
	case http.StatusBadRequest:
		return ErrorCodeValidation
	case http.StatusPaymentRequired:
		return ErrorCodePayment
	default:
		return ErrorCodeServerError
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
