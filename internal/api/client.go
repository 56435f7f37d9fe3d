package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrSessionInvalid is the single sentinel for every condition that forces
	// a sign-out: HTTP 401, an expired JWT, a request timeout, or the network
	// being down. Callers match it with errors.Is and redirect to login.
	ErrSessionInvalid = errors.New("session invalidated")

	// ErrNotFound maps HTTP 404. Journal date lookups treat it as "no entry".
	ErrNotFound = errors.New("not found")
)

// jwtExpiredMarker is the backend's error text for an expired token. The
// backend has no structured error code contract, so this is string-matched.
const jwtExpiredMarker = "JWT expired"

const defaultTimeout = 5 * time.Second

// Client talks to the ilog backend. All requests share one *http.Client with
// a fixed timeout; the bearer token is read through TokenFunc on every call.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// TokenFunc returns the current bearer token, or "" when signed out.
	TokenFunc func() string

	// OnSessionInvalid is called once per invalidating response, before the
	// error is returned. Typically wired to clear the stored session.
	OnSessionInvalid func()

	// DeviceID is sent on every request for installation attribution.
	DeviceID string
}

// NewClient creates a new API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) invalidate() {
	if c.OnSessionInvalid != nil {
		c.OnSessionInvalid()
	}
}

// makeRequest makes a JSON HTTP request and returns the response body.
func (c *Client) makeRequest(method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

// makeMultipartRequest sends a multipart/form-data request. The metadata is
// serialized as a JSON part named metaField; each upload becomes a file part.
func (c *Client) makeMultipartRequest(method, endpoint, metaField string, meta interface{}, uploads []Upload) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s part: %w", metaField, err)
	}

	metaHeader := make(map[string][]string)
	metaHeader["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q`, metaField)}
	metaHeader["Content-Type"] = []string{"application/json"}
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s part: %w", metaField, err)
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return nil, fmt.Errorf("failed to write %s part: %w", metaField, err)
	}

	for _, up := range uploads {
		filePart, err := writer.CreateFormFile("images", up.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := filePart.Write(up.Data); err != nil {
			return nil, fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequest(method, c.BaseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

// do executes a prepared request, attaching auth headers and normalizing
// transport and auth failures into the sentinel errors.
func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.TokenFunc != nil {
		if token := c.TokenFunc(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if c.DeviceID != "" {
		req.Header.Set("X-Device-ID", c.DeviceID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// Timeouts and network-down count as session-invalidating, matching
		// the uniform treatment in the response interceptor they replace.
		c.invalidate()
		return nil, fmt.Errorf("request failed (%v): %w", err, ErrSessionInvalid)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized || strings.Contains(string(respBody), jwtExpiredMarker) {
			c.invalidate()
			return nil, fmt.Errorf("authentication rejected (status %d): %w", resp.StatusCode, ErrSessionInvalid)
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// Upload is a file attached to a multipart request.
type Upload struct {
	FileName string
	Data     []byte
}
