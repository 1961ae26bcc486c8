// Package gemini implements assistant.Provider on top of the Gemini API.
package gemini

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/meikuraledutech/assistant"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Provider implements assistant.Provider using the genai SDK.
// The client is created on first use so an unconfigured provider can still report its status.
type Provider struct {
	apiKey  string
	modelID string
	baseURL string

	mu     sync.Mutex
	client *genai.Client
}

// New creates a new Provider.
func New(apiKey, modelID string) *Provider {
	return &Provider{
		apiKey:  apiKey,
		modelID: modelID,
	}
}

// WithBaseURL points the provider at a different API endpoint.
func (g *Provider) WithBaseURL(baseURL string) *Provider {
	g.baseURL = baseURL
	return g
}

// Model returns the model identifier.
func (g *Provider) Model() string { return g.modelID }

// Configured reports whether an API key is set.
func (g *Provider) Configured() bool { return g.apiKey != "" }

// Send calls generateContent once. Failures wrap assistant.ErrModel.
func (g *Provider) Send(ctx context.Context, rules assistant.Rules, prompt string) (*assistant.Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &assistant.ValidationError{Field: "prompt", Reason: "must not be empty"}
	}
	if !g.Configured() {
		return nil, &assistant.ModelError{Provider: "gemini", Op: "no api key configured"}
	}

	client, err := g.getClient(ctx)
	if err != nil {
		return nil, &assistant.ModelError{Provider: "gemini", Op: "create client", Err: err}
	}

	cfg := buildConfig(rules)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, g.modelID, contents, cfg)
	if err != nil {
		return nil, &assistant.ModelError{Provider: "gemini", Op: "generate content", Err: err}
	}
	log.Debug().
		Str("model", g.modelID).
		Dur("duration", time.Since(start)).
		Msg("gemini request completed")

	return toResult(resp), nil
}

func (g *Provider) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return nil, errors.Wrap(err, "new genai client")
	}
	g.client = client
	return client, nil
}

func buildConfig(rules assistant.Rules) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: rules.Temperature,
	}
	if rules.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(rules.MaxTokens)
	}
	if rules.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(rules.SystemPrompt, genai.RoleUser)
	}
	if rules.OutputSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = convertSchema(rules.OutputSchema)
	}
	return cfg
}

func toResult(resp *genai.GenerateContentResponse) *assistant.Result {
	result := &assistant.Result{Content: resp.Text()}
	if u := resp.UsageMetadata; u != nil {
		result.Usage = assistant.Usage{
			PromptTokens:   int(u.PromptTokenCount),
			ResponseTokens: int(u.CandidatesTokenCount),
			TotalTokens:    int(u.TotalTokenCount),
			ThoughtTokens:  int(u.ThoughtsTokenCount),
		}
	}
	return result
}

var _ assistant.Provider = (*Provider)(nil)
