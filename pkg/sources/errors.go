package sources

import (
	"errors"
	"strings"
)

// ErrResponseNotOK is the cause recorded for a non-2xx response.
var ErrResponseNotOK = errors.New("Network response was not ok")

// NetworkError is the single failure kind of an image fetch. It is raised for a
// non-2xx response and for any failure while requesting or decoding the body.
type NetworkError struct {
	SourceURL  string
	StatusCode int
	// Snippet holds the start of the response body for non-2xx responses.
	Snippet string
	Err     error
}

func (e *NetworkError) Error() string {
	cause := "unknown error"
	if e.Err != nil {
		cause = e.Err.Error()
	}
	return "Error fetching image: " + cause
}

func (e *NetworkError) Unwrap() error { return e.Err }

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
