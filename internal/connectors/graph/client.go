package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/sharepoint-mcp/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.GraphClient = (*Client)(nil)

// uploadChunkSize is the upload session fragment size. Graph requires a
// multiple of 320 KiB.
const uploadChunkSize = 10 * 320 << 10

// Client is a Microsoft Graph client. It is safe for concurrent use.
type Client struct {
	baseURL string

	// http carries the bearer token; upload session URLs are pre-authorised
	// and go through plain instead.
	http  *http.Client
	plain *http.Client

	limiter           *RateLimiter
	maxDownloadBytes  int64
	simpleUploadLimit int64
	chunkSize         int64
}

// NewClient creates a Graph client. Zero settings fall back to defaults.
func NewClient(settings domain.GraphSettings, tokens driven.TokenProvider) *Client {
	if settings.BaseURL == "" {
		settings.BaseURL = domain.DefaultGraphBaseURL
	}
	if settings.Timeout <= 0 {
		settings.Timeout = domain.DefaultGraphTimeout
	}
	if settings.MaxDownloadBytes <= 0 {
		settings.MaxDownloadBytes = domain.DefaultMaxDownloadBytes
	}
	if settings.SimpleUploadLimit <= 0 {
		settings.SimpleUploadLimit = domain.DefaultSimpleUploadLimit
	}

	transport := &oauth2.Transport{
		Source: NewTokenSource(context.Background(), tokens),
		Base:   http.DefaultTransport,
	}

	return &Client{
		baseURL:           strings.TrimSuffix(settings.BaseURL, "/"),
		http:              &http.Client{Transport: transport, Timeout: settings.Timeout, CheckRedirect: noRedirect},
		plain:             &http.Client{Timeout: settings.Timeout},
		limiter:           NewRateLimiter(settings.RequestsPerSecond, settings.Burst),
		maxDownloadBytes:  settings.MaxDownloadBytes,
		simpleUploadLimit: settings.SimpleUploadLimit,
		chunkSize:         uploadChunkSize,
	}
}

// RateLimiter returns the client's limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// request describes one Graph call.
type request struct {
	method string

	// path is relative to the base URL, or an absolute @odata.nextLink.
	path  string
	query url.Values

	// json is encoded as the body; raw is sent as-is with contentType.
	json        any
	raw         []byte
	contentType string
	headers     map[string]string

	// client overrides the authorised client.
	client *http.Client
}

func (c *Client) url(r request) string {
	u := r.path
	if !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		u = c.baseURL + u
	}
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	return u
}

// send performs a request and returns the response when the status is 2xx.
// The caller closes the body.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	var body io.Reader
	contentType := r.contentType
	switch {
	case r.json != nil:
		data, err := json.Marshal(r.json)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	case r.raw != nil:
		body = bytes.NewReader(r.raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.url(r), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	client := r.client
	if client == nil {
		client = c.http
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, req.URL.Path, err)
	}
	logger.Debug("graph %s %s -> %d (%s)", r.method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if isRedirect(resp.StatusCode) && r.method == http.MethodGet {
		if resp, err = c.followRedirect(ctx, req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := parseRetryAfter(resp.Header)
		c.limiter.RecordRateLimitError(wait)
		logger.Warn("graph throttled %s %s, backing off %s", r.method, req.URL.Path, wait)
	}
	return nil, parseAPIError(resp)
}

// noRedirect stops the authorised client at a redirect. oauth2.Transport
// signs every hop, so following it would hand the token to the target host.
func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

// followRedirect fetches the Location of resp without the bearer token.
// File content redirects to a pre-authorised download URL on another host.
func (c *Client) followRedirect(ctx context.Context, req *http.Request, resp *http.Response) (*http.Response, error) {
	loc, err := resp.Location()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%s %s: redirect: %w", req.Method, req.URL.Path, err)
	}

	next, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	next.Header.Set("Accept", req.Header.Get("Accept"))
	next.Header.Set("client-request-id", req.Header.Get("client-request-id"))

	start := time.Now()
	out, err := c.plain.Do(next)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", loc.Host, err)
	}
	logger.Debug("graph redirect GET %s -> %d (%s)", loc.Host, out.StatusCode, time.Since(start).Round(time.Millisecond))
	return out, nil
}

// do performs a request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.path, err)
	}
	return nil
}

// page is one page of a Graph collection.
type page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// listAll follows @odata.nextLink until the collection is exhausted.
func listAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	all := []T{}
	r := request{method: http.MethodGet, path: path, query: query}
	for {
		var p page[T]
		if err := c.do(ctx, r, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Value...)
		if p.NextLink == "" {
			return all, nil
		}
		// The next link already carries the query.
		r = request{method: http.MethodGet, path: p.NextLink}
	}
}

// escapePath escapes each segment of a drive-relative path.
func escapePath(p string) string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, url.PathEscape(s))
		}
	}
	return strings.Join(segs, "/")
}

func sitePath(siteID string) string {
	return "/sites/" + url.PathEscape(siteID)
}

func drivePath(siteID, driveID string) string {
	return sitePath(siteID) + "/drives/" + url.PathEscape(driveID)
}

func itemPath(siteID, driveID, itemID string) string {
	return drivePath(siteID, driveID) + "/items/" + url.PathEscape(itemID)
}

// pathItem addresses a drive item by path; "" is the drive root.
func pathItem(siteID, driveID, p string) string {
	escaped := escapePath(p)
	if escaped == "" {
		return drivePath(siteID, driveID) + "/root"
	}
	return drivePath(siteID, driveID) + "/root:/" + escaped + ":"
}
