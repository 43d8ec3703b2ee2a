package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/techwave/datastation/internal/entities"
)

const (
	favoritesPath  = "/api/user/favorites"
	defaultTimeout = 10 * time.Second
)

// Envelope is the request/response body of the favorites endpoint.
type Envelope struct {
	Success   bool                     `json:"success"`
	Favorites []entities.FavoriteEntry `json:"favorites"`
}

// Client talks to the remote favorites endpoint. Calls are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL ("" means same origin paths
// are not reachable, so callers should only build a client when one is configured).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchFavorites returns the remote favorites list.
func (c *Client) FetchFavorites(ctx context.Context, token string) ([]entities.FavoriteEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+favoritesPath, nil)
	if err != nil {
		return nil, &SyncError{Op: "fetch", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	envelope, err := c.do(req, "fetch")
	if err != nil {
		return nil, err
	}
	if !envelope.Success || envelope.Favorites == nil {
		return nil, &SyncError{Op: "fetch", Err: ErrUnsuccessful}
	}
	return envelope.Favorites, nil
}

// ReplaceFavorites overwrites the remote list with entries.
func (c *Client) ReplaceFavorites(ctx context.Context, token string, entries []entities.FavoriteEntry) error {
	if entries == nil {
		entries = []entities.FavoriteEntry{}
	}
	body, err := json.Marshal(map[string]any{"favorites": entries})
	if err != nil {
		return &SyncError{Op: "replace", Err: fmt.Errorf("failed to encode favorites: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+favoritesPath, bytes.NewReader(body))
	if err != nil {
		return &SyncError{Op: "replace", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = c.do(req, "replace")
	return err
}

func (c *Client) do(req *http.Request, op string) (*Envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SyncError{Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &SyncError{Op: op, StatusCode: resp.StatusCode, Err: ErrUnauthorized}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &SyncError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body)))}
	}

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &SyncError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &envelope, nil
}
