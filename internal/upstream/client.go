// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

// Package upstream is the HTTP client for the remote recommendation API:
// POST /recommend, GET /analytics and GET /health.
package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/atelier/internal/config"
	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/metrics"
	"github.com/tomtom215/atelier/internal/models"
)

// maxErrorBodySize caps how much of a failed response is kept for logs.
const maxErrorBodySize = 64 * 1024

// API is implemented by Client and CircuitBreakerClient.
type API interface {
	Recommend(ctx context.Context, prompt string) ([]models.Product, error)
	Analytics(ctx context.Context) (*models.AnalyticsAggregate, error)
	Ping(ctx context.Context) error
}

// Client talks to the recommendation API directly. Calls are never retried;
// each is bounded by the configured timeout and, when configured, paced by
// an outbound rate limiter.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client from cfg. BaseURL must already be validated.
func NewClient(cfg *config.APIConfig) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	return c
}

type recommendBody struct {
	Prompt string `json:"prompt"`
}

// Recommend posts prompt to /recommend and returns the products in the
// order the API ranked them.
func (c *Client) Recommend(ctx context.Context, prompt string) ([]models.Product, error) {
	payload, err := json.Marshal(recommendBody{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("encode recommend request: %w", err)
	}

	var products []models.Product
	if err := c.do(ctx, http.MethodPost, "/recommend", payload, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Analytics fetches the brand and material aggregates.
func (c *Client) Analytics(ctx context.Context) (*models.AnalyticsAggregate, error) {
	var agg models.AnalyticsAggregate
	if err := c.do(ctx, http.MethodGet, "/analytics", nil, &agg); err != nil {
		return nil, err
	}
	if err := agg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &agg, nil
}

// Ping checks GET /health.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// do performs one request and decodes a 2xx body into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) (err error) {
	endpoint := strings.TrimPrefix(path, "/")
	start := time.Now()
	defer func() { metrics.RecordUpstreamCall(endpoint, time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", ErrTransport, err)
		}
	}

	var reqBody io.Reader = http.NoBody
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(readBodyForError(resp.Body))),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s: %v", ErrTransport, endpoint, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}
	return nil
}

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
