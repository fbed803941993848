package librarian

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Getter fetches a server-rendered fragment. It is implemented by *Client and
// faked in tests of the paging and poll packages.
type Getter interface {
	Get(ctx context.Context, ref string) (string, error)
}

// Poster submits a form and returns the re-rendered markup.
type Poster interface {
	PostForm(ctx context.Context, action string, values url.Values) (string, error)
}

// Ensure Client implements Getter and Poster at compile time.
var (
	_ Getter = (*Client)(nil)
	_ Poster = (*Client)(nil)
)

// Client talks to a Librarian server and returns raw HTML fragments.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultServer    = "127.0.0.1:8080"
	defaultUserAgent = "lectern/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 8 << 20
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("librarian %s returned status %d", e.URL, e.Code)
}

// NewClient builds a Client for the given host:port or URL.
func NewClient(server string) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns a copy of the server root.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Resolve turns a path-relative reference into an absolute server URL.
func (c *Client) Resolve(ref string) (*url.URL, error) {
	rel, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, fmt.Errorf("parse reference %q: %w", ref, err)
	}
	return c.baseURL.ResolveReference(rel), nil
}

// Get fetches ref and returns the response body.
func (c *Client) Get(ctx context.Context, ref string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, ref, nil)
}

// PostForm submits values url-encoded to action and returns the response body.
func (c *Client) PostForm(ctx context.Context, action string, values url.Values) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, action, values)
}

func (c *Client) do(ctx context.Context, method, ref string, form url.Values) (string, error) {
	reqURL, err := c.Resolve(ref)
	if err != nil {
		return "", err
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", c.userAgent)
	// Librarian renders the partial template only for XHR requests.
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: reqURL.RequestURI(), Code: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		trimmed = defaultServer
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
