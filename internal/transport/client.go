// Package transport sends authenticated JSON requests to the ledger API.
//
// Every request carries the current bearer token. A 401 response clears the
// stored token and publishes one LogoutEvent per session, however many
// requests fail concurrently with the same token.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "http://localhost:8888/api"
	DefaultTimeout = 8 * time.Second
)

// Credentials supplies the bearer token and forgets it on logout.
type Credentials interface {
	Current() (string, error)
	Clear() error
}

// Config holds the connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	logout     *LogoutBroadcaster
	log        zerolog.Logger

	// authMu serializes 401 handling so one expired session logs out once.
	authMu sync.Mutex
}

// NewClient creates a client. creds and logout may be nil.
func NewClient(cfg Config, creds Credentials, logout *LogoutBroadcaster, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		creds:  creds,
		logout: logout,
		log:    log.With().Str("component", "transport").Logger(),
	}
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPatch, path, nil, body)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends one request and returns the raw response body of a 2xx reply.
// Failures are ErrRequestFailed (no response), or an *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token()
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().
			Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("Request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s response: %w", ErrRequestFailed, method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("Request completed")

	if resp.StatusCode == http.StatusUnauthorized {
		c.unauthorized(token, method, path, requestID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, data, requestID)
	}
	return data, nil
}

func (c *Client) token() (string, error) {
	if c.creds == nil {
		return "", nil
	}
	return c.creds.Current()
}

// unauthorized ends the session the rejected token belonged to. Requests
// that raced with it and fail with the same token find it already cleared
// and stay silent.
func (c *Client) unauthorized(used, method, path, requestID string) {
	if c.creds == nil || used == "" {
		return
	}

	c.authMu.Lock()
	defer c.authMu.Unlock()

	current, err := c.creds.Current()
	if err != nil || current != used {
		return
	}
	if err := c.creds.Clear(); err != nil {
		c.log.Error().Err(err).Msg("Failed to clear credentials after 401")
	}

	c.log.Warn().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Msg("Session rejected by server, logging out")

	if c.logout != nil {
		c.logout.Publish(LogoutEvent{Method: method, Path: path, RequestID: requestID})
	}
}
