// Package narrative produces the written interpretation of a natal chart
// through the Anthropic Messages API.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"AstroChart/internal/domain/service"
	xhttp "AstroChart/pkg/http"
)

const anthropicVersion = "2023-06-01"

// ErrEmptyCompletion is returned when the model answers without any text block.
var ErrEmptyCompletion = errors.New("narrative: empty completion")

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// Client implements service.Narrator.
type Client struct {
	baseURL string
	model   string
	http    *xhttp.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithHeader("x-api-key", apiKey),
			xhttp.WithHeader("anthropic-version", anthropicVersion),
			xhttp.WithRetries(2, time.Second),
		),
	}
}

// Complete sends req as a single user turn and returns the first text block.
func (c *Client) Complete(ctx context.Context, req service.CompletionRequest) (string, error) {
	var resp messagesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/v1/messages",
		Body: messagesRequest{
			Model:       c.model,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
			Messages:    []message{{Role: "user", Content: req.Prompt}},
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	if len(resp.Content) == 0 || resp.Content[0].Type != "text" {
		return "", ErrEmptyCompletion
	}
	return resp.Content[0].Text, nil
}
