package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/meikuraledutech/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type analysis struct {
	Intent     string   `json:"intent" jsonschema:"enum=question,enum=request"`
	Confidence float64  `json:"confidence" jsonschema:"minimum=0,maximum=1"`
	Entities   []string `json:"entities"`
	Urgent     bool     `json:"urgent"`
}

func TestConvertSchema(t *testing.T) {
	r := &jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	gs := convertSchema(r.Reflect(&analysis{}))
	require.NotNil(t, gs)

	assert.Equal(t, genai.TypeObject, gs.Type)
	assert.Equal(t, []string{"intent", "confidence", "entities", "urgent"}, gs.PropertyOrdering)
	assert.ElementsMatch(t, []string{"intent", "confidence", "entities", "urgent"}, gs.Required)

	assert.Equal(t, genai.TypeString, gs.Properties["intent"].Type)
	assert.Equal(t, []string{"question", "request"}, gs.Properties["intent"].Enum)
	assert.Equal(t, genai.TypeNumber, gs.Properties["confidence"].Type)
	require.NotNil(t, gs.Properties["confidence"].Minimum)
	require.NotNil(t, gs.Properties["confidence"].Maximum)
	assert.Equal(t, 0.0, *gs.Properties["confidence"].Minimum)
	assert.Equal(t, 1.0, *gs.Properties["confidence"].Maximum)
	assert.Nil(t, gs.Properties["intent"].Minimum)
	assert.Equal(t, genai.TypeBoolean, gs.Properties["urgent"].Type)

	entities := gs.Properties["entities"]
	assert.Equal(t, genai.TypeArray, entities.Type)
	require.NotNil(t, entities.Items)
	assert.Equal(t, genai.TypeString, entities.Items.Type)
}

func TestConvertSchemaNil(t *testing.T) {
	assert.Nil(t, convertSchema(nil))
}

func TestBuildConfig(t *testing.T) {
	temp := float32(0.3)
	cfg := buildConfig(assistant.Rules{SystemPrompt: "be brief", Temperature: &temp, MaxTokens: 50})

	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, float32(0.3), *cfg.Temperature)
	assert.Equal(t, int32(50), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be brief", cfg.SystemInstruction.Parts[0].Text)
	assert.Empty(t, cfg.ResponseMIMEType)
	assert.Nil(t, cfg.ResponseSchema)

	cfg = buildConfig(assistant.Rules{OutputSchema: &jsonschema.Schema{Type: "object"}})
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.NotNil(t, cfg.ResponseSchema)
	assert.Nil(t, cfg.SystemInstruction)
}

func TestProviderConfigured(t *testing.T) {
	assert.False(t, New("", "gemini-2.5-flash").Configured())
	p := New("key", "gemini-2.5-flash")
	assert.True(t, p.Configured())
	assert.Equal(t, "gemini-2.5-flash", p.Model())
}

func TestSendWithoutKey(t *testing.T) {
	_, err := New("", "gemini-2.5-flash").Send(context.Background(), assistant.Rules{}, "hello")
	assert.ErrorIs(t, err, assistant.ErrModel)
}

func TestSendEmptyPrompt(t *testing.T) {
	_, err := New("key", "gemini-2.5-flash").Send(context.Background(), assistant.Rules{}, "  ")
	assert.ErrorIs(t, err, assistant.ErrInvalidInput)
}

func TestSendAgainstFakeServer(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Hello there"}]}}],
			"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 2, "totalTokenCount": 5}
		}`)
	}))
	defer srv.Close()

	p := New("test-key", "gemini-2.5-flash").WithBaseURL(srv.URL)
	res, err := p.Send(context.Background(), assistant.Rules{SystemPrompt: "sys"}, "Hi")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "gemini-2.5-flash:generateContent"), gotPath)
	assert.Contains(t, gotBody, "contents")
	assert.Equal(t, "Hello there", res.Content)
	assert.Equal(t, 5, res.Usage.TotalTokens)
	assert.Equal(t, 3, res.Usage.PromptTokens)
	assert.Equal(t, 2, res.Usage.ResponseTokens)
}

func TestSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"code": 400, "message": "bad request", "status": "INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	p := New("test-key", "gemini-2.5-flash").WithBaseURL(srv.URL)
	_, err := p.Send(context.Background(), assistant.Rules{}, "Hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, assistant.ErrModel)
}
