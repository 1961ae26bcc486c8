package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meikuraledutech/assistant"
	"github.com/meikuraledutech/assistant/agent"
	"github.com/meikuraledutech/assistant/gemini"
	"github.com/meikuraledutech/assistant/memory"
	"github.com/meikuraledutech/assistant/openai"
	"github.com/meikuraledutech/assistant/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoProvider struct{}

func (echoProvider) Send(_ context.Context, _ assistant.Rules, prompt string) (*assistant.Result, error) {
	if strings.HasPrefix(prompt, "Generate a concise") {
		return &assistant.Result{Content: "Echo Chat"}, nil
	}
	return &assistant.Result{Content: "echo"}, nil
}

func (echoProvider) Model() string    { return "echo-model" }
func (echoProvider) Configured() bool { return true }

func TestNewProvider(t *testing.T) {
	cfg := assistant.DefaultConfig()
	cfg.GeminiAPIKey = "g-key"
	p := newProvider(cfg)
	require.IsType(t, &gemini.Provider{}, p)
	assert.True(t, p.Configured())
	assert.Equal(t, "gemini-2.5-flash", p.Model())

	cfg.Provider = assistant.ProviderOpenAI
	cfg.Model = "gpt-4o-mini"
	p = newProvider(cfg)
	require.IsType(t, &openai.Provider{}, p)
	assert.False(t, p.Configured())
	assert.Equal(t, "gpt-4o-mini", p.Model())
}

func TestBuildServiceWithPersonaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ada\ncapabilities: [math]\nsystem_prompt: You are {{ .Name }}.\n"), 0o600))

	cfg := assistant.DefaultConfig()
	cfg.PersonaFile = path
	svc, store, err := buildService(cfg)
	require.NoError(t, err)
	defer store.Close()

	status := svc.AgentStatus()
	assert.Equal(t, "Ada", status.Agent)
	assert.Equal(t, agent.StatusDisconnected, status.Status)
	assert.Equal(t, []string{"math"}, status.Capabilities)
}

func TestBuildServiceRejectsBadPersona(t *testing.T) {
	cfg := assistant.DefaultConfig()
	cfg.PersonaFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err := buildService(cfg)
	assert.Error(t, err)
}

func TestRunChat(t *testing.T) {
	a, err := agent.New(echoProvider{})
	require.NoError(t, err)
	store := memory.New()
	defer store.Close()
	svc := service.New(store, a)

	var out bytes.Buffer
	in := strings.NewReader("hello\n\n   \nagain\n/quit\nignored\n")
	require.NoError(t, runChat(context.Background(), svc, "New Chat", in, &out, false))

	msgs, err := svc.ListMessages(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "again", msgs[2].Content)

	text := out.String()
	assert.Contains(t, text, "conversation 1 with KOOMENJUE")
	assert.Contains(t, text, "echo")
	assert.Contains(t, text, `saved as "Echo Chat"`)
	assert.NotContains(t, text, "ignored")
}

func TestRenderStatus(t *testing.T) {
	a, err := agent.New(echoProvider{})
	require.NoError(t, err)
	out := renderStatus(a.Status())
	assert.Contains(t, out, "KOOMENJUE")
	assert.Contains(t, out, "echo-model")
	assert.Contains(t, out, "connected")
}
