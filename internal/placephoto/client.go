// Package placephoto is the HTTP client for the place-photo lookup
// endpoint: GET with a free-text place query, receive a photo URL when one
// exists. The caller decides what a missing photo means; here every
// non-success outcome is just an error.
package placephoto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// photoResponse is the endpoint reply. PhotoURL may be empty when the
// service knows the place but has no photo for it.
type photoResponse struct {
	Place    string `json:"place"`
	PlaceID  string `json:"placeId"`
	PhotoURL string `json:"photoURL"`
}

// Client calls the photo lookup endpoint.
type Client struct {
	// Endpoint is the full lookup URL, e.g.
	// "https://toolkit.example.com/api/places/photo".
	Endpoint string
	// HTTPClient is the underlying client. http.DefaultClient when nil;
	// callers are expected to bound each lookup with a context deadline.
	HTTPClient *http.Client
}

// New constructs a Client for the given lookup URL.
func New(endpoint string) *Client {
	return &Client{Endpoint: endpoint}
}

// Lookup resolves a free-text place query to a photo URL. The returned URL
// may be "" when the endpoint has no photo. Non-2xx statuses and malformed
// bodies are errors.
func (c *Client) Lookup(ctx context.Context, query string) (string, error) {
	u := c.Endpoint + "?place=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("photo endpoint returned %s", resp.Status)
	}

	var pr photoResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("decode photo response: %w", err)
	}
	return strings.TrimSpace(pr.PhotoURL), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
