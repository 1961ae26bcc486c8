package agent

import (
	"context"

	"github.com/meikuraledutech/assistant"
)

// timestampLayout is ISO-8601 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Reply is a generated assistant turn.
type Reply struct {
	Content  string             `json:"content"`
	Metadata assistant.Metadata `json:"metadata"`
}

// GenerateReply produces the assistant's answer to userMessage given the prior history.
// Model failures are returned as *assistant.AgentError.
func (a *Agent) GenerateReply(ctx context.Context, userMessage string, history []assistant.Message) (*Reply, error) {
	prompt, err := render(replyTmpl, replyData{
		System:  a.system,
		Lines:   historyLines(history, a.settings.HistoryWindow, a.persona.Name),
		Message: userMessage,
		Speaker: a.persona.Name,
	})
	if err != nil {
		return nil, &assistant.AgentError{Op: "reply", Err: err}
	}

	temp := a.settings.Temperature
	result, err := a.send(ctx, assistant.Rules{Temperature: &temp, MaxTokens: a.settings.MaxTokens}, prompt)
	if err != nil {
		return nil, &assistant.AgentError{Op: "reply", Err: err}
	}

	content := result.Content
	if content == "" {
		content = apologyReply
	}

	return &Reply{
		Content: content,
		Metadata: assistant.Metadata{
			"model":      a.provider.Model(),
			"timestamp":  a.now().UTC().Format(timestampLayout),
			"tokensUsed": result.Usage.TotalTokens,
		},
	}, nil
}
