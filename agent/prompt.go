package agent

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/meikuraledutech/assistant"
	"github.com/pkg/errors"
)

const (
	newConversationContext = "This is the start of a new conversation."
	apologyReply           = "I apologize, but I couldn't generate a response. Please try again."
	defaultTitle           = "New Chat"
)

const replyTemplate = `{{ .System }}

{{ if .Lines -}}
Previous conversation context:
{{ .Lines | join "\n" }}
{{- else -}}
` + newConversationContext + `
{{- end }}

User: {{ .Message }}

{{ .Speaker }}:`

const analyzeTemplate = `Analyze the following user message and provide a JSON response with:
- intent: the main intent/purpose of the message
- confidence: confidence score (0-1)
- entities: important entities or topics mentioned
- complexity: simple/medium/complex based on technical depth needed

Message: "{{ .Content }}"

Respond with valid JSON only.`

const titleTemplate = `Generate a concise, descriptive title (max 6 words) for a conversation that starts with this message:

"{{ .Content }}"

Respond with just the title, no quotes or extra text.`

var (
	replyTmpl   = template.Must(template.New("reply").Funcs(sprig.TxtFuncMap()).Parse(replyTemplate))
	analyzeTmpl = template.Must(template.New("analyze").Funcs(sprig.TxtFuncMap()).Parse(analyzeTemplate))
	titleTmpl   = template.Must(template.New("title").Funcs(sprig.TxtFuncMap()).Parse(titleTemplate))
)

type replyData struct {
	System  string
	Lines   []string
	Message string
	Speaker string
}

// historyLines formats the last window entries of history as "Speaker: content" lines.
func historyLines(history []assistant.Message, window int, speaker string) []string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		role := speaker
		if m.Role == assistant.RoleUser {
			role = "User"
		}
		lines = append(lines, role+": "+m.Content)
	}
	return lines
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", errors.Wrapf(err, "render %s prompt", t.Name())
	}
	return sb.String(), nil
}
