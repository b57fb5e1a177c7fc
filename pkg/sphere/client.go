// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sphere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/skillsphere/sphere-cli/pkg/logging"
)

// TokenSource supplies the current bearer token, or "" when signed out.
//
// The session manager installs one of these on the shared client. The update
// is applied under the client's lock before any session operation returns,
// so a request issued after login always carries the new token.
type TokenSource func() string

// Client is the HTTP client for the SkillSphere REST API.
//
// A single Client is shared by the session manager and every synchronizer.
// It is safe for concurrent use. Requests are JSON in, JSON out; failures
// are always a *Error with a Kind the caller can branch on.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *logging.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client (tests use
// httptest-backed clients).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the structured logger. Default is the package default.
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithRateLimit caps outgoing requests per second. The CLI uses a modest
// limit so rapid repeated commands stay polite to shared dev servers.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates a Client for the given base URL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		logger:  logging.Default(),
		tokens:  func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource installs the bearer token supplier. Passing nil clears it.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts == nil {
		ts = func() string { return "" }
	}
	c.tokens = ts
}

// Token returns the current bearer token, or "" when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens()
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// do executes one JSON round-trip.
//
// in is marshaled as the request body when non-nil; out is unmarshaled from
// the response body when non-nil and the response succeeded. Non-2xx
// statuses are mapped through errFromStatus; transport failures through
// errTransport. The bearer token is attached when present.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errTransport(err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "could not encode request", Wrapped: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errTransport(err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			"method", method,
			"path", path,
			"error", err.Error(),
		)
		return errTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return errTransport(err)
	}

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errFromStatus(resp.StatusCode, string(raw))
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{
				Kind:    KindNetwork,
				Message: fmt.Sprintf("malformed response from %s", path),
				Wrapped: err,
			}
		}
	}
	return nil
}

// decodeResponse maps a raw *http.Response through the error taxonomy and
// unmarshals a successful body into out. Used by the few call sites that
// build their own request (token validation runs outside the installed
// token source).
func decodeResponse(resp *http.Response, out any) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return errTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errFromStatus(resp.StatusCode, string(raw))
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{Kind: KindNetwork, Message: "malformed response", Wrapped: err}
		}
	}
	return nil
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
