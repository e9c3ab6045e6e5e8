// Package gateway is the typed HTTP client for the Tably backend API.
// Every operation takes the caller's bearer token explicitly (except login
// and register); the client holds no session or other global state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// UploadFile is one file in an upload bundle.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// Client executes backend operations against a single base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs a gateway client. apiBase is the server root; the
// /api/v1 prefix is appended here so callers configure only the host.
func NewClient(apiBase string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(apiBase, "/") + "/api/v1",
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger.Named("gateway"),
	}
}

// doJSON issues a request with an optional JSON body and decodes the
// success body into out. A non-2xx response is normalized via decodeError.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

// doMultipart uploads a file bundle as multipart form data under the
// repeated "files" field. The Content-Type header is left to the multipart
// writer so the boundary is computed automatically.
func (c *Client) doMultipart(ctx context.Context, path, token string, files []UploadFile, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return fmt.Errorf("create form file %q: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("read file %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// decodeError maps a non-2xx response into a GatewayError. The server is
// contractually required to send {"error": code, "message": text}; a body
// that is not JSON is a fatal client error, not part of the taxonomy.
func decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error body (status %d): %w", resp.StatusCode, err)
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("server returned non-JSON error body (status %d): %w", resp.StatusCode, err)
	}

	code := body.Error
	if code == "" {
		code = CodeUnknownError
	}
	message := body.Message
	if message == "" {
		message = "the server reported an error without details"
	}
	return &GatewayError{Status: resp.StatusCode, Code: code, Message: message}
}
