package assistant

import (
	"context"

	"github.com/invopop/jsonschema"
)

// Rules control model behavior per request.
type Rules struct {
	SystemPrompt string
	Temperature  *float32
	MaxTokens    int
	// OutputSchema requests a JSON response matching the schema when set.
	OutputSchema *jsonschema.Schema
}

// Provider defines the contract for generative model backends.
type Provider interface {
	Send(ctx context.Context, rules Rules, prompt string) (*Result, error)
	// Model returns the model identifier requests are sent to.
	Model() string
	// Configured reports whether the provider has credentials to reach its backend.
	Configured() bool
}
