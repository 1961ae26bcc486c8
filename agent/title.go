package agent

import (
	"context"
	"strings"

	"github.com/meikuraledutech/assistant"
	"github.com/rs/zerolog/log"
)

const (
	maxTitleLen       = 50
	truncatedTitleLen = 47
)

// GenerateTitle names a conversation after its first user message.
// It never fails; "New Chat" stands in whenever no title can be produced.
func (a *Agent) GenerateTitle(ctx context.Context, messages []assistant.Message) string {
	var first *assistant.Message
	for i := range messages {
		if messages[i].Role == assistant.RoleUser {
			first = &messages[i]
			break
		}
	}
	if first == nil {
		return defaultTitle
	}

	prompt, err := render(titleTmpl, struct{ Content string }{first.Content})
	if err != nil {
		log.Warn().Err(err).Msg("title prompt failed, using default title")
		return defaultTitle
	}

	temp := a.settings.TitleTemperature
	result, err := a.send(ctx, assistant.Rules{Temperature: &temp, MaxTokens: a.settings.TitleMaxTokens}, prompt)
	if err != nil {
		log.Warn().Err(err).Int64("conversation_id", first.ConversationID).Msg("title generation failed, using default title")
		return defaultTitle
	}
	return truncateTitle(result.Content)
}

func truncateTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return defaultTitle
	}
	runes := []rune(title)
	if len(runes) > maxTitleLen {
		return string(runes[:truncatedTitleLen]) + "..."
	}
	return title
}
