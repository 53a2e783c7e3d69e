package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pixora-dev/pixora/shared/errors"
	"github.com/pixora-dev/pixora/shared/middleware/metrics"
)

// maxErrorBody caps how much of a failed response is read looking for a message.
const maxErrorBody = 64 << 10

// APIClient struct handles all communication with the backend API.
type APIClient struct {
	BaseURL    string
	MediaBase  string
	HttpClient *http.Client
}

// New creates a client for the backend at baseURL. An empty baseURL means the
// backend is served from the same origin as the frontend.
func New(baseURL, mediaBase string, timeout time.Duration) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		MediaBase:  mediaBase,
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// Session binds the client to one browser's cookies. Every backend call made
// on behalf of a request goes through a Session.
type Session struct {
	client  *APIClient
	cookies []*http.Cookie
}

func (c *APIClient) WithCookies(cookies []*http.Cookie) *Session {
	return &Session{client: c, cookies: cookies}
}

// MediaBase is the prefix joined with server-relative image paths.
func (s *Session) MediaBase() string {
	return s.client.MediaBase
}

// do is the single, unified helper for making API requests. endpoint is the
// route template used as a metrics label; path is the concrete URL path.
func (c *APIClient) do(ctx context.Context, method, endpoint, path string, body io.Reader, contentType string, cookies []*http.Cookie) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(method, endpoint, 0, time.Since(start))
		return nil, &errors.NetworkError{Op: method + " " + endpoint, Err: err}
	}
	metrics.ObserveUpstream(method, endpoint, resp.StatusCode, time.Since(start))
	return resp, nil
}

// doJSON sends payload (if any) as JSON and returns the response only when it
// is 2xx. Anything else is turned into a ServerError and the body is closed.
func (s *Session) doJSON(ctx context.Context, method, endpoint, path string, payload any) (*http.Response, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonBody)
		contentType = "application/json"
	}

	resp, err := s.client.do(ctx, method, endpoint, path, body, contentType, s.cookies)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, readError(resp)
	}
	return resp, nil
}

// getJSON performs a request and decodes the 2xx body into out.
func (s *Session) getJSON(ctx context.Context, method, endpoint, path string, payload, out any) error {
	resp, err := s.doJSON(ctx, method, endpoint, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, endpoint, out)
}

// exec performs a request whose body is not needed.
func (s *Session) exec(ctx context.Context, method, endpoint, path string, payload any) error {
	resp, err := s.doJSON(ctx, method, endpoint, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func decode(resp *http.Response, endpoint string, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		var netErr interface{ Timeout() bool }
		if stderrors.As(err, &netErr) && netErr.Timeout() {
			return &errors.NetworkError{Op: "read " + endpoint, Err: err}
		}
		return fmt.Errorf("cannot decode %s response: %w", endpoint, err)
	}
	return nil
}

// readError builds a ServerError from a non-2xx response. The message is the
// first of "error", "message", "detail" found in a JSON object, then the first
// field error in key order, then the status text.
func readError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &errors.ServerError{StatusCode: resp.StatusCode, Message: errorMessage(bodyBytes, resp.StatusCode)}
}

func errorMessage(body []byte, statusCode int) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			if msg, ok := payload[key].(string); ok && msg != "" {
				return msg
			}
		}
		keys := make([]string, 0, len(payload))
		for k := range payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := firstString(payload[k]); msg != "" {
				return msg
			}
		}
	}
	return http.StatusText(statusCode)
}

func firstString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		for _, item := range t {
			if s := firstString(item); s != "" {
				return s
			}
		}
	}
	return ""
}

// forwardable strips backend-specific attributes so a cookie set by the
// backend can be re-issued on the frontend's origin.
func forwardable(cookies []*http.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		cp := *c
		cp.Domain = ""
		cp.Raw = ""
		cp.Unparsed = nil
		if cp.Path == "" {
			cp.Path = "/"
		}
		out = append(out, &cp)
	}
	return out
}
