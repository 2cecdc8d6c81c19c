// Package genai is the HTTP client for the hosted generative-text endpoint.
// The endpoint speaks a small chat protocol: POST a message list, receive a
// single text reply. This package knows nothing about trips; it moves
// prompts and raw text.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// defaultTimeout bounds a generation call when the caller supplies no
// client. Generation is slow by nature; this is deliberately generous.
const defaultTimeout = 60 * time.Second

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

// chatResponse covers the reply shapes the endpoint has been observed to
// use. The first non-empty of text, message, content wins.
type chatResponse struct {
	Text    string `json:"text"`
	Message string `json:"message"`
	Content string `json:"content"`
}

// Client calls the generation endpoint.
type Client struct {
	// BaseURL is the endpoint root, e.g. "https://toolkit.example.com/api".
	BaseURL string
	// HTTPClient is the underlying client. A default with a 60s timeout is
	// used when nil.
	HTTPClient *http.Client
}

// New constructs a Client for the given endpoint root.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Complete sends prompt as a single user message and returns the generated
// text. Non-2xx statuses and empty replies are errors.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ai/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body so the error carries context without
		// logging megabytes.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generation endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}

	for _, text := range []string{cr.Text, cr.Message, cr.Content} {
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("generation endpoint returned an empty reply")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}
