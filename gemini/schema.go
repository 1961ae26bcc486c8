package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// convertSchema maps a reflected JSON schema onto the subset Gemini accepts
// as a response schema. Unknown types fall back to object.
func convertSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	gs := &genai.Schema{Description: s.Description}
	switch s.Type {
	case "string":
		gs.Type = genai.TypeString
	case "number", "integer":
		gs.Type = genai.TypeNumber
		if s.Type == "integer" {
			gs.Type = genai.TypeInteger
		}
		gs.Minimum = toFloat(s.Minimum)
		gs.Maximum = toFloat(s.Maximum)
	case "boolean":
		gs.Type = genai.TypeBoolean
	case "array":
		gs.Type = genai.TypeArray
		gs.Items = convertSchema(s.Items)
	default:
		gs.Type = genai.TypeObject
		if s.Properties != nil && s.Properties.Len() > 0 {
			gs.Properties = make(map[string]*genai.Schema, s.Properties.Len())
			for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
				gs.Properties[pair.Key] = convertSchema(pair.Value)
				gs.PropertyOrdering = append(gs.PropertyOrdering, pair.Key)
			}
		}
		if len(s.Required) > 0 {
			gs.Required = append([]string(nil), s.Required...)
		}
	}

	for _, e := range s.Enum {
		gs.Enum = append(gs.Enum, fmt.Sprint(e))
	}
	return gs
}

func toFloat(n json.Number) *float64 {
	if n == "" {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}
