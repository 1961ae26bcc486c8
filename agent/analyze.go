package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/meikuraledutech/assistant"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Analysis classifies a user message.
type Analysis struct {
	Intent     string   `json:"intent" jsonschema:"description=the main intent/purpose of the message"`
	Confidence float64  `json:"confidence" jsonschema:"description=confidence score (0-1),minimum=0,maximum=1"`
	Entities   []string `json:"entities" jsonschema:"description=important entities or topics mentioned"`
	Complexity string   `json:"complexity" jsonschema:"enum=simple,enum=medium,enum=complex"`
}

// FallbackAnalysis is returned whenever analysis cannot be obtained.
func FallbackAnalysis() Analysis {
	return Analysis{
		Intent:     "general_inquiry",
		Confidence: 0.5,
		Entities:   []string{},
		Complexity: "medium",
	}
}

var (
	analysisSchema    = reflectAnalysisSchema()
	analysisValidator = mustCompile(analysisSchema)
)

func reflectAnalysisSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true, AllowAdditionalProperties: true}
	s := r.Reflect(&Analysis{})
	// gojsonschema does not know the 2020-12 draft identifier.
	s.Version = ""
	s.ID = ""
	return s
}

func mustCompile(s *jsonschema.Schema) *gojsonschema.Schema {
	raw, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(err)
	}
	return compiled
}

// AnalyzeMessage asks the model to classify content. It never fails: any
// error yields FallbackAnalysis.
func (a *Agent) AnalyzeMessage(ctx context.Context, content string) Analysis {
	analysis, err := a.analyze(ctx, content)
	if err != nil {
		log.Warn().Err(err).Msg("message analysis failed, using fallback")
		return FallbackAnalysis()
	}
	return analysis
}

func (a *Agent) analyze(ctx context.Context, content string) (Analysis, error) {
	prompt, err := render(analyzeTmpl, struct{ Content string }{content})
	if err != nil {
		return Analysis{}, err
	}

	result, err := a.send(ctx, assistant.Rules{OutputSchema: analysisSchema}, prompt)
	if err != nil {
		return Analysis{}, err
	}
	raw := strings.TrimSpace(result.Content)
	if raw == "" {
		return Analysis{}, errors.New("empty response from model")
	}

	res, err := analysisValidator.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return Analysis{}, errors.Wrap(err, "parse analysis")
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Analysis{}, errors.Errorf("analysis does not match schema: %s", strings.Join(msgs, "; "))
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return Analysis{}, errors.Wrap(err, "decode analysis")
	}
	if analysis.Entities == nil {
		analysis.Entities = []string{}
	}
	return analysis, nil
}
