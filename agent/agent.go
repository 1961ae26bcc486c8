// Package agent puts the assistant persona in front of a model provider.
package agent

import (
	"context"
	"time"

	"github.com/meikuraledutech/assistant"
	"github.com/rs/zerolog/log"
)

// Settings tune the model calls the agent makes.
type Settings struct {
	Temperature      float32
	MaxTokens        int
	TitleTemperature float32
	TitleMaxTokens   int
	HistoryWindow    int
	RequestTimeout   time.Duration
}

// SettingsFromConfig extracts the agent settings from the service config.
func SettingsFromConfig(cfg assistant.Config) Settings {
	return Settings{
		Temperature:      cfg.Temperature,
		MaxTokens:        cfg.MaxTokens,
		TitleTemperature: cfg.TitleTemperature,
		TitleMaxTokens:   cfg.TitleMaxTokens,
		HistoryWindow:    cfg.HistoryWindow,
		RequestTimeout:   cfg.RequestTimeout,
	}
}

// Agent is the gateway between the conversation flow and a model provider.
type Agent struct {
	provider assistant.Provider
	persona  Persona
	system   string
	settings Settings
	now      func() time.Time
}

// Option configures an Agent.
type Option func(*Agent)

// WithPersona replaces the built-in persona.
func WithPersona(p Persona) Option {
	return func(a *Agent) {
		a.persona = p
	}
}

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(a *Agent) {
		a.settings = s
	}
}

// WithClock replaces time.Now for reply timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) {
		a.now = now
	}
}

// New creates an Agent backed by provider.
func New(provider assistant.Provider, options ...Option) (*Agent, error) {
	a := &Agent{
		provider: provider,
		persona:  DefaultPersona(),
		settings: SettingsFromConfig(assistant.DefaultConfig()),
		now:      time.Now,
	}
	for _, option := range options {
		option(a)
	}

	system, err := a.persona.renderSystemPrompt()
	if err != nil {
		return nil, err
	}
	a.system = system
	return a, nil
}

// Persona returns the persona the agent speaks as.
func (a *Agent) Persona() Persona { return a.persona }

// send runs a single model call under the configured request timeout.
func (a *Agent) send(ctx context.Context, rules assistant.Rules, prompt string) (*assistant.Result, error) {
	if a.settings.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.settings.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := a.provider.Send(ctx, rules, prompt)
	logger := log.With().
		Str("model", a.provider.Model()).
		Dur("duration", time.Since(start)).
		Logger()
	if id, ok := assistant.ConversationIDFrom(ctx); ok {
		logger = logger.With().Int64("conversation_id", id).Logger()
	}
	if err != nil {
		logger.Debug().Err(err).Msg("model call failed")
		return nil, err
	}
	logger.Debug().Int("total_tokens", result.Usage.TotalTokens).Msg("model call completed")
	return result, nil
}
