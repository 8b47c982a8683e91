package httpclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IsSuccessStatus returns true if the status code indicates success
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsSuccess reports whether the response carries a 2xx status.
func (r *Response) IsSuccess() bool {
	return IsSuccessStatus(r.StatusCode)
}

// DecodeJSON unmarshals the response body into v. A 204 (empty-body) response
// leaves v untouched.
func (r *Response) DecodeJSON(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// VendorMessage extracts a human-readable failure message from a vendor error
// payload. Both vendors report errors as JSON with an `error` field (or an
// `errors` list); when the body is not parseable the HTTP reason phrase is
// returned instead.
func (r *Response) VendorMessage() string {
	if len(r.Body) > 0 {
		var payload struct {
			Error  string `json:"error"`
			Errors []struct {
				Title string `json:"title"`
			} `json:"errors"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(r.Body, &payload); err == nil {
			switch {
			case payload.Error != "":
				return payload.Error
			case len(payload.Errors) > 0 && payload.Errors[0].Title != "":
				titles := make([]string, 0, len(payload.Errors))
				for _, e := range payload.Errors {
					titles = append(titles, e.Title)
				}
				return strings.Join(titles, "; ")
			case payload.Message != "":
				return payload.Message
			}
		}
	}
	return r.Reason
}
