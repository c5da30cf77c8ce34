package amadeus

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// AuthError reports a failed client-credentials exchange.
type AuthError struct {
	Status int
	Detail string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed to get access token: %s", e.Detail)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamError reports a failed search call. Detail is the provider's first
// error detail when it sent one, otherwise the transport or status message.
type UpstreamError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s search failed: %s", e.Op, e.Detail)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// apiErrorResponse is the Amadeus error envelope
type apiErrorResponse struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// oauthErrorResponse is the shape returned by the token endpoint
type oauthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// errorDetail extracts errors[0].detail from an Amadeus error body, falling
// back to a status message.
func errorDetail(body []byte, status int) string {
	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		if envelope.Errors[0].Detail != "" {
			return envelope.Errors[0].Detail
		}
	}
	return statusMessage(status)
}

// oauthErrorDetail extracts error_description (or error) from a token
// endpoint failure.
func oauthErrorDetail(body []byte, status int) string {
	var resp oauthErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.ErrorDescription != "" {
			return resp.ErrorDescription
		}
		if resp.Error != "" {
			return resp.Error
		}
	}
	return statusMessage(status)
}

func statusMessage(status int) string {
	return fmt.Sprintf("request failed with status code %d (%s)", status, http.StatusText(status))
}
