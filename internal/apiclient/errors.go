package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusTransport is the StatusCode of failures that never produced an HTTP
// response: connection refused, timeouts, DNS errors, cancelled contexts.
const StatusTransport = 0

// Error is returned by every Client method that fails.
type Error struct {
	Method     string
	Path       string
	StatusCode int    // HTTP status, or StatusTransport
	Detail     string // server supplied detail, "" when absent
	Err        error  // underlying transport or decode error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode == StatusTransport && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status of err. It returns StatusTransport for
// transport failures and for errors that did not come from a Client.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return StatusTransport
}

// Detail extracts the server supplied detail of err, if any.
func Detail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// IsUnauthorized reports whether the API rejected the bearer token itself.
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }

// parseDetail understands the FastAPI error shapes: {"detail": "..."} and
// {"detail": [{"msg": "..."}, ...]}, plus the {"message"|"error": "..."}
// bodies proxies tend to emit.
func parseDetail(raw []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if m := strings.TrimSpace(it.Msg); m != "" {
					msgs = append(msgs, m)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	if body.Message != "" {
		return strings.TrimSpace(body.Message)
	}
	return strings.TrimSpace(body.Error)
}
