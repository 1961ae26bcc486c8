package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/meikuraledutech/assistant"
	"github.com/meikuraledutech/assistant/agent"
	"github.com/meikuraledutech/assistant/gemini"
	"github.com/meikuraledutech/assistant/memory"
	"github.com/meikuraledutech/assistant/openai"
	"github.com/meikuraledutech/assistant/service"
)

func loadConfig() (assistant.Config, error) {
	return assistant.LoadConfig(viper.GetViper())
}

func newProvider(cfg assistant.Config) assistant.Provider {
	switch cfg.Provider {
	case assistant.ProviderOpenAI:
		return openai.New(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL)
	default:
		return gemini.New(cfg.GeminiAPIKey, cfg.Model)
	}
}

// buildService wires the store, provider, agent and service for cfg.
func buildService(cfg assistant.Config) (*service.Service, *memory.Store, error) {
	store := memory.New()

	provider := newProvider(cfg)
	if cfg.RequestLog {
		provider = assistant.WithRequestLog(provider, store)
	}

	options := []agent.Option{agent.WithSettings(agent.SettingsFromConfig(cfg))}
	if cfg.PersonaFile != "" {
		persona, err := agent.LoadPersona(cfg.PersonaFile)
		if err != nil {
			return nil, nil, err
		}
		options = append(options, agent.WithPersona(persona))
	}

	a, err := agent.New(provider, options...)
	if err != nil {
		return nil, nil, err
	}

	if !provider.Configured() {
		log.Warn().Str("provider", cfg.Provider).Msg("no API key configured, replies will fail until one is set")
	}
	log.Debug().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Str("persona", a.Persona().Name).
		Msg("assistant ready")

	return service.New(store, a), store, nil
}
