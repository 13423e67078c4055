package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

const defaultRequestTimeout = 15 * time.Second

// HTTPClient talks JSON to the SongBook API.
type HTTPClient struct {
	baseURL     string
	accessToken string
	http        *http.Client
	probe       Prober
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithProber makes Ping consult p before the HTTP health endpoint.
func WithProber(p Prober) Option {
	return func(h *HTTPClient) { h.probe = p }
}

func NewHTTPClient(baseURL, accessToken string, opts ...Option) (*HTTPClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid remote url %q: %w", baseURL, err)
	}

	c := &HTTPClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	if cl, ok := c.probe.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Ping succeeds when either the gRPC health probe or GET /health does.
func (c *HTTPClient) Ping(ctx context.Context) error {
	if c.probe != nil {
		err := c.probe.Probe(ctx)
		if err == nil || errors.Is(err, ErrUnauthorized) {
			return err
		}
	}
	return c.do(ctx, http.MethodGet, "health", nil, nil)
}

func (c *HTTPClient) FetchSongs(ctx context.Context) ([]models.Song, error) {
	songs := make([]models.Song, 0)
	if err := c.do(ctx, http.MethodGet, "songs", nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

func (c *HTTPClient) FetchFavorites(ctx context.Context, userID string) ([]string, error) {
	var resp struct {
		SongIDs []string `json:"songIds"`
	}
	if err := c.do(ctx, http.MethodGet, "users/"+url.PathEscape(userID)+"/favorites", nil, &resp); err != nil {
		return nil, err
	}
	if resp.SongIDs == nil {
		return []string{}, nil
	}
	return resp.SongIDs, nil
}

func (c *HTTPClient) PushChange(ctx context.Context, change models.Change) error {
	return c.do(ctx, http.MethodPost, "changes", change, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	target, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
