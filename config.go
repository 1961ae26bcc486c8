package assistant

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Provider names accepted by Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultModel returns the model used when none is configured for provider.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "gemini-2.5-flash"
	}
}

// Config holds configuration for the assistant loaded from flags, environment and config file.
type Config struct {
	Provider      string `mapstructure:"provider"`
	GeminiAPIKey  string `mapstructure:"gemini-api-key"`
	OpenAIAPIKey  string `mapstructure:"openai-api-key"`
	OpenAIBaseURL string `mapstructure:"openai-base-url"`
	Model         string `mapstructure:"model"`

	MaxTokens        int     `mapstructure:"max-tokens"`
	TitleMaxTokens   int     `mapstructure:"title-max-tokens"`
	Temperature      float32 `mapstructure:"temperature"`
	TitleTemperature float32 `mapstructure:"title-temperature"`
	HistoryWindow    int     `mapstructure:"history-window"`

	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	PersonaFile    string        `mapstructure:"persona-file"`
	RequestLog     bool          `mapstructure:"request-log"`

	Addr string `mapstructure:"addr"`
}

// DefaultConfig returns a Config with the defaults of the hosted assistant.
func DefaultConfig() Config {
	return Config{
		Provider:         ProviderGemini,
		Model:            DefaultModel(ProviderGemini),
		MaxTokens:        2048,
		TitleMaxTokens:   50,
		Temperature:      0.7,
		TitleTemperature: 0.3,
		HistoryWindow:    10,
		RequestTimeout:   60 * time.Second,
		RequestLog:       true,
		Addr:             "0.0.0.0:5000",
	}
}

// SetDefaults registers the DefaultConfig values and the environment bindings on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("provider", d.Provider)
	v.SetDefault("max-tokens", d.MaxTokens)
	v.SetDefault("title-max-tokens", d.TitleMaxTokens)
	v.SetDefault("temperature", d.Temperature)
	v.SetDefault("title-temperature", d.TitleTemperature)
	v.SetDefault("history-window", d.HistoryWindow)
	v.SetDefault("request-timeout", d.RequestTimeout)
	v.SetDefault("request-log", d.RequestLog)
	v.SetDefault("addr", d.Addr)
	v.SetDefault("openai-base-url", "")
	v.SetDefault("persona-file", "")

	v.SetEnvPrefix("assistant")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Unprefixed names used by existing deployments.
	_ = v.BindEnv("gemini-api-key", "ASSISTANT_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_API")
	_ = v.BindEnv("model", "ASSISTANT_MODEL", "MODEL_ID")
	_ = v.BindEnv("max-tokens", "ASSISTANT_MAX_TOKENS", "MAX_TOKENS")
	_ = v.BindEnv("openai-api-key", "ASSISTANT_OPENAI_API_KEY", "OPENAI_API_KEY")
}

// LoadConfig decodes v into a Config and validates it.
func LoadConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	// The model default depends on the provider, so it is not a viper default.
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail at request time.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return &ValidationError{Field: "provider", Reason: "must be gemini or openai, got " + c.Provider}
	}
	if strings.TrimSpace(c.Model) == "" {
		return &ValidationError{Field: "model", Reason: "must not be empty"}
	}
	if c.MaxTokens <= 0 {
		return &ValidationError{Field: "max-tokens", Reason: "must be positive"}
	}
	if c.TitleMaxTokens <= 0 {
		return &ValidationError{Field: "title-max-tokens", Reason: "must be positive"}
	}
	if c.HistoryWindow < 0 {
		return &ValidationError{Field: "history-window", Reason: "must not be negative"}
	}
	if c.RequestTimeout <= 0 {
		return &ValidationError{Field: "request-timeout", Reason: "must be positive"}
	}
	return nil
}
