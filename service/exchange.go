package service

import (
	"context"
	"time"

	"github.com/meikuraledutech/assistant"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrRoleNotAllowed rejects non-user messages on the user message path.
var ErrRoleNotAllowed = &assistant.ValidationError{Field: "role", Reason: "only user messages are allowed via this endpoint"}

// Exchange is the outcome of one user message: the stored user turn, the
// stored assistant turn and the conversation as it stands afterwards.
type Exchange struct {
	UserMessage  *assistant.Message      `json:"userMessage"`
	AIMessage    *assistant.Message      `json:"aiMessage"`
	Conversation *assistant.Conversation `json:"conversation"`
}

// HandleUserMessage stores a user message, asks the agent for a reply, stores
// the reply and names the conversation after its first exchange.
//
// A failed reply is returned as *assistant.AgentError; the user message stays stored.
func (s *Service) HandleUserMessage(ctx context.Context, req SendMessageRequest) (*Exchange, error) {
	conv, err := s.GetConversation(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Role != assistant.RoleUser {
		return nil, ErrRoleNotAllowed
	}

	ctx = assistant.WithConversationID(ctx, conv.ID)
	logger := log.With().Int64("conversation_id", conv.ID).Logger()
	start := time.Now()

	userMsg, err := s.store.CreateMessage(ctx, assistant.NewMessage{
		ConversationID: conv.ID,
		Role:           assistant.RoleUser,
		Content:        req.Content,
		Metadata:       req.Metadata,
	})
	if err != nil {
		return nil, errors.Wrap(err, "store user message")
	}

	all, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, errors.Wrap(err, "load history")
	}
	history := make([]assistant.Message, 0, len(all))
	turns := 1
	for _, m := range all {
		if m.ID == userMsg.ID {
			continue
		}
		history = append(history, m)
		if m.Role == assistant.RoleUser {
			turns++
		}
	}

	reply, err := s.agent.GenerateReply(ctx, userMsg.Content, history)
	if err != nil {
		logger.Error().Err(err).Int64("message_id", userMsg.ID).Msg("reply generation failed")
		return nil, err
	}

	// The conversation may have been deleted while the model was working.
	if _, err := s.GetConversation(ctx, conv.ID); err != nil {
		logger.Info().Err(err).Msg("conversation gone before reply was stored")
		return nil, err
	}

	aiMsg, err := s.store.CreateMessage(ctx, assistant.NewMessage{
		ConversationID: conv.ID,
		Role:           assistant.RoleAssistant,
		Content:        reply.Content,
		Metadata:       reply.Metadata,
	})
	if err != nil {
		return nil, errors.Wrap(err, "store assistant message")
	}

	if len(history) == 0 {
		title := s.agent.GenerateTitle(ctx, []assistant.Message{*userMsg})
		_, found, err := s.store.UpdateConversation(ctx, conv.ID, assistant.ConversationUpdate{Title: &title})
		if err != nil {
			return nil, errors.Wrap(err, "update conversation title")
		}
		if !found {
			s.discardMessage(ctx, aiMsg.ID)
			return nil, &assistant.NotFoundError{Entity: "conversation", ID: conv.ID}
		}
	}

	conv, err = s.GetConversation(ctx, conv.ID)
	if err != nil {
		s.discardMessage(ctx, aiMsg.ID)
		return nil, err
	}

	s.trackSession(ctx, conv.ID, aiMsg, turns)

	logger.Info().
		Int64("user_message_id", userMsg.ID).
		Int64("ai_message_id", aiMsg.ID).
		Dur("duration", time.Since(start)).
		Msg("exchange completed")

	return &Exchange{
		UserMessage:  userMsg,
		AIMessage:    aiMsg,
		Conversation: conv,
	}, nil
}

// trackSession records the latest exchange in the conversation's agent session.
// Failures are logged and ignored.
func (s *Service) trackSession(ctx context.Context, conversationID int64, aiMsg *assistant.Message, turns int) {
	state := assistant.Metadata{
		"turns":         turns,
		"lastMessageId": aiMsg.ID,
		"model":         aiMsg.Metadata["model"],
	}

	_, found, err := s.store.UpdateAgentSession(ctx, conversationID, state)
	if err == nil && !found {
		if _, live, _ := s.store.GetConversation(ctx, conversationID); !live {
			return
		}
		_, err = s.store.CreateAgentSession(ctx, conversationID, state)
		if errors.Is(err, assistant.ErrSessionExists) {
			// Created by a concurrent exchange in between.
			_, _, err = s.store.UpdateAgentSession(ctx, conversationID, state)
		}
	}
	if err != nil {
		log.Warn().Err(err).Int64("conversation_id", conversationID).Msg("could not update agent session")
	}
}

// discardMessage removes a message written for a conversation that was
// deleted concurrently, so the delete cascade stays complete.
func (s *Service) discardMessage(ctx context.Context, id int64) {
	if _, err := s.store.DeleteMessage(ctx, id); err != nil {
		log.Warn().Err(err).Int64("message_id", id).Msg("could not discard orphaned message")
	}
}
