package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// APIError is a structured provider error. Type and Code are filled when the
// provider returns a machine-readable error body; Message always is.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("provider api error (status=%d, type=%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("provider api error (status=%d): %s", e.StatusCode, e.Message)
}

// IsSchemaError reports whether err is the provider rejecting the request
// payload's field types. The structured error type is consulted first; the
// message probe only decides when the provider sent no type at all.
func IsSchemaError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Type != "" && apiErr.Type != "invalid_request_error" {
		return false
	}
	return strings.Contains(apiErr.Message, "must be a string")
}
