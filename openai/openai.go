// Package openai implements assistant.Provider for OpenAI-compatible chat completion APIs.
package openai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/meikuraledutech/assistant"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

// Provider implements assistant.Provider using the chat completions endpoint.
type Provider struct {
	apiKey  string
	modelID string
	client  *go_openai.Client
}

// New creates a new Provider. An empty baseURL keeps the library default.
func New(apiKey, modelID, baseURL string) *Provider {
	config := go_openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Provider{
		apiKey:  apiKey,
		modelID: modelID,
		client:  go_openai.NewClientWithConfig(config),
	}
}

// Model returns the model identifier.
func (p *Provider) Model() string { return p.modelID }

// Configured reports whether an API key is set.
func (p *Provider) Configured() bool { return p.apiKey != "" }

// Send issues a single chat completion request.
func (p *Provider) Send(ctx context.Context, rules assistant.Rules, prompt string) (*assistant.Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &assistant.ValidationError{Field: "prompt", Reason: "must not be empty"}
	}
	if !p.Configured() {
		return nil, &assistant.ModelError{Provider: "openai", Op: "no api key configured"}
	}

	req, err := buildRequest(p.modelID, rules, prompt)
	if err != nil {
		return nil, &assistant.ModelError{Provider: "openai", Op: "build request", Err: err}
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &assistant.ModelError{Provider: "openai", Op: "chat completion", Err: err}
	}
	log.Debug().
		Str("model", p.modelID).
		Dur("duration", time.Since(start)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("openai request completed")

	result := &assistant.Result{
		Usage: assistant.Usage{
			PromptTokens:   resp.Usage.PromptTokens,
			ResponseTokens: resp.Usage.CompletionTokens,
			TotalTokens:    resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 {
		result.Content = resp.Choices[0].Message.Content
	}
	return result, nil
}

// buildRequest maps rules onto a chat completion request. JSON mode requires the
// word JSON to appear in the messages, so the schema is spelled out in the system message.
func buildRequest(model string, rules assistant.Rules, prompt string) (go_openai.ChatCompletionRequest, error) {
	req := go_openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: rules.MaxTokens,
	}
	if rules.Temperature != nil {
		req.Temperature = *rules.Temperature
	}

	system := rules.SystemPrompt
	if rules.OutputSchema != nil {
		schema, err := json.Marshal(rules.OutputSchema)
		if err != nil {
			return req, errors.Wrap(err, "marshal output schema")
		}
		if system != "" {
			system += "\n\n"
		}
		system += "Respond only with a JSON object matching this JSON schema:\n" + string(schema)
		req.ResponseFormat = &go_openai.ChatCompletionResponseFormat{
			Type: go_openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	if system != "" {
		req.Messages = append(req.Messages, go_openai.ChatCompletionMessage{
			Role:    go_openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	req.Messages = append(req.Messages, go_openai.ChatCompletionMessage{
		Role:    go_openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return req, nil
}

var _ assistant.Provider = (*Provider)(nil)
