// Package upstream performs the read-only HTTP calls shared by every source
// client and turns transport and decoding failures into core.UpstreamError
// and core.ParseError.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/va6996/ainews/core"
	"github.com/va6996/ainews/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps how much of a response is read into memory
const maxBodyBytes = 16 << 20

// Client issues GET requests on behalf of one source
type Client struct {
	Source     core.Source
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient builds a client with the given timeout. A non-empty proxy URL
// routes every request of this source through that proxy.
func NewClient(source core.Source, timeout time.Duration, proxy, userAgent string) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid %s proxy %q: %w", source, proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		Source:     source,
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

// Get fetches rawURL and returns the body of a 2xx response
func (c *Client) Get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &core.UpstreamError{Source: c.Source, URL: rawURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Errorf(ctx, "[%s] GET %s failed: %v", c.Source, rawURL, err)
		return nil, &core.UpstreamError{Source: c.Source, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	log.Debugf(ctx, "[%s] GET %s -> %d in %s", c.Source, rawURL, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &core.UpstreamError{
			Source:     c.Source,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", resp.Status, string(snippet)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &core.UpstreamError{Source: c.Source, URL: rawURL, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	return body, nil
}

// GetJSON fetches rawURL and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.Get(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		log.Errorf(ctx, "[%s] decoding %s failed: %v", c.Source, rawURL, err)
		return &core.ParseError{Source: c.Source, Err: err}
	}
	return nil
}
