// Package fetch retrieves the raw catalog payload from the remote endpoint.
//
// The client performs exactly one round trip per call and never retries;
// retry and refresh policy belong to the caller.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/colonyops/catalog/internal/core/item"
)

// Defaults for the public hiring endpoint.
const (
	DefaultBaseURL   = "https://fetch-hiring.s3.amazonaws.com/"
	DefaultPath      = "hiring.json"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "catalog"

	maxBodyBytes = 32 << 20
)

// Client fetches the raw item list.
type Client interface {
	FetchItems(ctx context.Context) ([]item.RawItem, error)
}

// Options configures an HTTPClient. Zero values fall back to the defaults above.
type Options struct {
	BaseURL   string
	Path      string
	Timeout   time.Duration
	UserAgent string
	// MinInterval spaces consecutive requests at least this far apart.
	// Zero disables client side rate limiting.
	MinInterval time.Duration
	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	endpoint  string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	log       zerolog.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient resolves the endpoint URL and builds the client.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	endpoint, err := ResolveEndpoint(opts.BaseURL, opts.Path)
	if err != nil {
		return nil, err
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	c := &HTTPClient{
		endpoint:  endpoint,
		userAgent: ua,
		client:    hc,
		log:       opts.Logger,
	}
	if opts.MinInterval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}

	return c, nil
}

// ResolveEndpoint joins base and path the way a browser would resolve a
// relative reference. Empty values fall back to the defaults.
func ResolveEndpoint(base, path string) (string, error) {
	if base == "" {
		base = DefaultBaseURL
	}
	if path == "" {
		path = DefaultPath
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return "", fmt.Errorf("parse base url: unsupported scheme %q", baseURL.Scheme)
	}
	if baseURL.Host == "" {
		return "", fmt.Errorf("parse base url: missing host")
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path: %w", err)
	}

	return baseURL.ResolveReference(ref).String(), nil
}

// Endpoint returns the fully resolved URL requested by FetchItems.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// FetchItems performs one GET against the endpoint. Non-2xx answers yield a
// *ProtocolError; everything that prevents a decoded payload yields a
// *TransportError.
func (c *HTTPClient) FetchItems(ctx context.Context) ([]item.RawItem, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close items response body")
		}
	}()

	c.log.Debug().
		Ctx(ctx).
		Str("url", c.endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("items response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &ProtocolError{
			StatusCode: resp.StatusCode,
			StatusText: reasonPhrase(resp),
		}
	}

	var items []item.RawItem
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	if err := dec.Decode(&items); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode items: %w", err)}
	}

	return items, nil
}

// reasonPhrase extracts the reason phrase from resp.Status ("404 Not Found").
func reasonPhrase(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	return strings.TrimSpace(text)
}
