package fusion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds one backend upload attempt.
const DefaultTimeout = 60 * time.Second

// BackendError reports an unreachable or non-conforming backend. The
// orchestrator swallows it into a nil branch; it is exported so direct
// client users can still distinguish the failure mode.
type BackendError struct {
	URL string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("document backend %s: %v", e.URL, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Client uploads receipt files to the external document-analysis
// backend. Safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a backend client. A zero timeout selects
// DefaultTimeout. Trailing slashes on baseURL are tolerated.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Upload posts the file as multipart form-data to /api/ai/upload and
// decodes the {success, data} envelope. Network failures, timeouts,
// non-2xx statuses and non-conforming bodies all come back as a
// BackendError; there is exactly one attempt per call.
func (c *Client) Upload(ctx context.Context, path string) (*BackendResult, error) {
	url := c.baseURL + "/api/ai/upload"

	body, contentType, err := multipartFileBody(path)
	if err != nil {
		return nil, &BackendError{URL: url, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, &BackendError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &BackendError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &BackendError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var envelope struct {
		Success bool           `json:"success"`
		Data    *BackendResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &BackendError{URL: url, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if !envelope.Success || envelope.Data == nil {
		return nil, &BackendError{URL: url, Err: fmt.Errorf("backend reported failure")}
	}
	return envelope.Data, nil
}

// multipartFileBody buffers the file into a multipart body. Receipt
// uploads are bounded at a few megabytes, so buffering is fine.
func multipartFileBody(path string) (io.Reader, string, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path is our own temp file
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
