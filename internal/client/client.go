// Package client uploads source files to the remote analysis service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/aezell/codescore/internal/model"
	"github.com/aezell/codescore/internal/selector"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

// DefaultEndpoint is the analysis service's upload URL.
const DefaultEndpoint = "http://localhost:8000/analyze-code"

// FileField is the multipart field the service reads the upload from.
const FileField = "file"

// Client posts files to an analysis endpoint. It makes exactly one attempt
// per Submit: no retries, no timeout, no de-duplication.
type Client struct {
	endpoint string
	rc       *resty.Client
}

// New creates a Client for endpoint. An empty endpoint means DefaultEndpoint.
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return NewWithHTTPClient(endpoint, &http.Client{})
}

// NewWithHTTPClient creates a Client that sends requests through hc.
func NewWithHTTPClient(endpoint string, hc *http.Client) *Client {
	rc := resty.NewWithClient(hc)
	rc.SetRetryCount(0)
	return &Client{endpoint: endpoint, rc: rc}
}

// Endpoint returns the URL files are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit uploads f and decodes the analysis result. A nil f fails with
// *NoFileError before any network activity.
func (c *Client) Submit(ctx context.Context, f *selector.SelectedFile) (*model.AnalysisResult, error) {
	if f == nil {
		return nil, &NoFileError{}
	}

	log.Debugf("Submitting %s (%d bytes) to %s", f.Name, f.Size(), c.endpoint)

	resp, err := c.rc.R().
		SetContext(ctx).
		SetFileReader(FileField, f.Name, bytes.NewReader(f.Content)).
		Post(c.endpoint)
	if err != nil {
		log.Debugf("Analysis request for %s failed: %v", f.Name, err)
		return nil, &TransportError{Err: err}
	}

	log.Debugf("Analysis service answered %s for %s", resp.Status(), f.Name)

	if !resp.IsSuccess() {
		return nil, newHTTPError(resp.StatusCode(), resp.Status())
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &TransportError{Err: err}
	}
	return &result, nil
}
