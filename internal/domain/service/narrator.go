package service

import "context"

// CompletionRequest is a single-turn prompt for a text model.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Narrator turns a prompt into free text. Implemented by the Anthropic client.
type Narrator interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
