package client

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/aezell/codescore/internal/selector"
)

// NoFileError is returned when Submit is called without a selected file.
type NoFileError struct{}

func (e *NoFileError) Error() string {
	return "Please select a file first"
}

// HTTPError is returned for any non-2xx response, regardless of its body.
type HTTPError struct {
	StatusCode int
	StatusText string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Error: %d %s", e.StatusCode, e.StatusText)
}

// newHTTPError splits a status line such as "500 Internal Server Error" into
// its code and reason phrase.
func newHTTPError(code int, status string) *HTTPError {
	text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if text == "" {
		text = http.StatusText(code)
	}
	return &HTTPError{StatusCode: code, StatusText: text}
}

// TransportError covers network failures and undecodable response bodies.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Describe converts a workflow error into the single message shown to the
// user. Selection problems, including unreadable files, are shown as-is;
// request failures are prefixed.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var verr *selector.ValidationError
	var nferr *NoFileError
	var perr *fs.PathError
	if errors.As(err, &verr) || errors.As(err, &nferr) || errors.As(err, &perr) {
		return err.Error()
	}
	return "Failed to analyze code: " + err.Error()
}
