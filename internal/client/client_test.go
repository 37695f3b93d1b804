package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aezell/codescore/internal/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{"overall_score":87,"breakdown":{"naming":8,"modularity":18,"comments":15,"formatting":12,"reusability":13,"best_practices":19},"recommendations":["Use more descriptive names"]}`

func sampleFile() *selector.SelectedFile {
	return &selector.SelectedFile{Name: "app.jsx", Extension: ".jsx", Content: []byte("const a = 1;\n")}
}

func TestSubmitSuccess(t *testing.T) {
	var gotName, gotContent, gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		f, hdr, err := r.FormFile(FileField)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName = hdr.Filename
		gotContent = string(data)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, sampleBody)
	}))
	defer srv.Close()

	c := New(srv.URL + "/analyze-code")
	res, err := c.Submit(context.Background(), sampleFile())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/analyze-code", gotPath)
	assert.Equal(t, "app.jsx", gotName)
	assert.Equal(t, "const a = 1;\n", gotContent)

	assert.Equal(t, 87, res.OverallScore)
	assert.Equal(t, 18, res.Breakdown.Modularity)
	assert.Equal(t, 19, res.Breakdown.BestPractices)
	assert.Equal(t, []string{"Use more descriptive names"}, res.Recommendations)
}

func TestSubmitWithoutFileMakesNoRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Submit(context.Background(), nil)

	var nferr *NoFileError
	require.True(t, errors.As(err, &nferr))
	assert.Equal(t, "Please select a file first", Describe(err))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSubmitHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"detail":"ignored"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Submit(context.Background(), sampleFile())

	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 500, herr.StatusCode)
	assert.Equal(t, "Internal Server Error", herr.StatusText)
	assert.Equal(t, "Failed to analyze code: Error: 500 Internal Server Error", Describe(err))
}

func TestDescribeReadError(t *testing.T) {
	_, err := selector.New().SelectPath(filepath.Join(t.TempDir(), "gone.py"))
	require.Error(t, err)

	msg := Describe(err)
	assert.NotContains(t, msg, "Failed to analyze code")
	assert.True(t, strings.HasPrefix(msg, "reading "), msg)
}

func TestSubmitBadRequestIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Only .js, .jsx or .py files are supported"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Submit(context.Background(), sampleFile())
	assert.Equal(t, "Failed to analyze code: Error: 400 Bad Request", Describe(err))
}

func TestSubmitInvalidJSONIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))
	defer srv.Close()

	_, err := New(srv.URL).Submit(context.Background(), sampleFile())

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Contains(t, Describe(err), "Failed to analyze code: ")
}

func TestSubmitConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Submit(context.Background(), sampleFile())

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestSubmitIsSingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Submit(context.Background(), sampleFile())
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&selector.ValidationError{Name: "a.go"}, "Please upload a .js, .jsx, or .py file"},
		{&NoFileError{}, "Please select a file first"},
		{&HTTPError{StatusCode: 502, StatusText: "Bad Gateway"}, "Failed to analyze code: Error: 502 Bad Gateway"},
		{&TransportError{Err: errors.New("Failed to fetch")}, "Failed to analyze code: Failed to fetch"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.err))
	}
}

func TestNewHTTPErrorFallsBackToStatusText(t *testing.T) {
	assert.Equal(t, "Not Found", newHTTPError(404, "").StatusText)
	assert.Equal(t, "Teapot Time", newHTTPError(418, "418 Teapot Time").StatusText)
}

func TestNewDefaultsEndpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, New("").Endpoint())
}
