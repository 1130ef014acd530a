// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fetch retrieves URLs for the wget verb.
//
// Requests are rate limited, bounded in time and size, and limited to
// http and https. Non-200 responses are returned, not treated as errors,
// so callers can report the status line.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnsupportedScheme is returned for anything but http and https.
	ErrUnsupportedScheme = errors.New("only http and https URLs are supported")

	// ErrTooManyRedirects is returned when the redirect chain is too long.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// =============================================================================
// CLIENT
// =============================================================================

// Options configures a Client.
type Options struct {
	// Timeout is the maximum time for the entire request (default: 30s)
	Timeout time.Duration

	// MaxBytes caps the body kept in memory (default: 1 MiB)
	MaxBytes int64

	// RequestsPerSecond limits request starts (default: 2, burst 4)
	RequestsPerSecond float64
	Burst             int

	// MaxRedirects is the longest redirect chain followed (default: 5)
	MaxRedirects int

	UserAgent string
}

// DefaultOptions returns the default client options.
func DefaultOptions() Options {
	return Options{
		Timeout:           30 * time.Second,
		MaxBytes:          1 << 20,
		RequestsPerSecond: 2,
		Burst:             4,
		MaxRedirects:      5,
		UserAgent:         "webterm-wget/1.0",
	}
}

// Response is the outcome of a completed request.
type Response struct {
	URL        string
	Status     int
	StatusText string
	Body       string

	// Truncated is set when the body exceeded MaxBytes.
	Truncated bool
}

// Client fetches URLs.
type Client struct {
	http     *http.Client
	limiter  *rate.Limiter
	maxBytes int64
	ua       string
}

// New creates a client. Zero option fields take their defaults.
func New(opts Options) *Client {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = def.MaxBytes
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = def.RequestsPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = def.Burst
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = def.MaxRedirects
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}

	maxRedirects := opts.MaxRedirects
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return ErrTooManyRedirects
				}
				return checkScheme(req.URL)
			},
		},
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		maxBytes: opts.MaxBytes,
		ua:       opts.UserAgent,
	}
}

// Fetch performs a GET request for rawURL.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if err := checkScheme(u); err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: missing host", rawURL)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.ua)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	truncated := int64(len(body)) > c.maxBytes
	if truncated {
		body = body[:c.maxBytes]
	}

	return &Response{
		URL:        resp.Request.URL.String(),
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       string(body),
		Truncated:  truncated,
	}, nil
}

// NormalizeURL prefixes "http://" when raw has no http or https scheme.
func NormalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "http://" + raw
}

func checkScheme(u *url.URL) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	default:
		return ErrUnsupportedScheme
	}
}
