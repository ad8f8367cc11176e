// Package remote implements the Supabase PostgREST client used as the
// remote side of sync. All access goes through the REST endpoint; rows
// are scoped per user and protected by row-level security.
package remote

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the client has no base URL or key.
var ErrNotConfigured = errors.New("remote backend not configured")

// TokenSource supplies the access token attached to requests. When the
// user is signed in this is their session token; otherwise requests
// fall back to the anon key.
type TokenSource interface {
	AccessToken() string
}

// Client talks to the Supabase REST API.
type Client struct {
	baseURL     string
	anonKey     string
	tokenSource TokenSource
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a PostgREST client. An empty url or key yields a
// client whose every call returns ErrNotConfigured, so callers don't
// need to special-case the local-only setup.
func NewClient(baseURL, anonKey string, tokenSource TokenSource, logger *slog.Logger) *Client {
	if baseURL != "" && !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		anonKey:     anonKey,
		tokenSource: tokenSource,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Configured reports whether the client can reach a backend.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// AnonKey returns the project anon key.
func (c *Client) AnonKey() string { return c.anonKey }

// do sends a request to the REST endpoint and returns the raw body.
// Extra headers override the defaults (used for Prefer variants).
func (c *Client) do(ctx context.Context, method, endpoint string, body any, headers map[string]string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/rest/v1"+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	token := c.anonKey
	if c.tokenSource != nil {
		if t := c.tokenSource.AccessToken(); t != "" {
			token = t
		}
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// upsert POSTs rows with merge-duplicates resolution so existing
// primary keys are updated instead of violating the constraint.
func (c *Client) upsert(ctx context.Context, endpoint string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, endpoint, body, map[string]string{
		"Prefer": "resolution=merge-duplicates,return=representation",
	})
}

// eq builds a PostgREST equality filter with the value escaped.
func eq(column, value string) string {
	return column + "=eq." + url.QueryEscape(value)
}
