package agent

import (
	_ "embed"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed persona.yaml
var defaultPersonaYAML []byte

// Persona describes who the assistant claims to be.
type Persona struct {
	Name         string   `yaml:"name"`
	Capabilities []string `yaml:"capabilities"`
	// SystemPrompt is a template; {{ .Name }} expands to the persona name.
	SystemPrompt string `yaml:"system_prompt"`
}

// DefaultPersona returns the built-in persona.
func DefaultPersona() Persona {
	p, err := ParsePersona(defaultPersonaYAML)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadPersona reads a persona document from path.
func LoadPersona(path string) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, errors.Wrapf(err, "read persona %s", path)
	}
	p, err := ParsePersona(data)
	if err != nil {
		return Persona{}, errors.Wrapf(err, "persona %s", path)
	}
	return p, nil
}

// ParsePersona decodes and checks a YAML persona document.
func ParsePersona(data []byte) (Persona, error) {
	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Persona{}, errors.Wrap(err, "decode persona")
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Persona{}, errors.New("persona name is required")
	}
	if strings.TrimSpace(p.SystemPrompt) == "" {
		return Persona{}, errors.New("persona system_prompt is required")
	}
	if _, err := p.renderSystemPrompt(); err != nil {
		return Persona{}, err
	}
	return p, nil
}

func (p Persona) renderSystemPrompt() (string, error) {
	t, err := template.New("system").Funcs(sprig.TxtFuncMap()).Parse(p.SystemPrompt)
	if err != nil {
		return "", errors.Wrap(err, "parse system prompt")
	}
	var sb strings.Builder
	if err := t.Execute(&sb, p); err != nil {
		return "", errors.Wrap(err, "render system prompt")
	}
	return sb.String(), nil
}
