// Package service runs the conversation flow on top of a Store and an agent,
// and exposes the operations the transports call.
package service

import (
	"context"

	"github.com/meikuraledutech/assistant"
	"github.com/meikuraledutech/assistant/agent"
	"github.com/pkg/errors"
)

// Gateway is the part of *agent.Agent the service depends on.
type Gateway interface {
	GenerateReply(ctx context.Context, userMessage string, history []assistant.Message) (*agent.Reply, error)
	GenerateTitle(ctx context.Context, messages []assistant.Message) string
	AnalyzeMessage(ctx context.Context, content string) agent.Analysis
	Status() agent.Status
}

// Service implements the conversation operations.
type Service struct {
	store assistant.Store
	agent Gateway
}

// New creates a Service.
func New(store assistant.Store, gateway Gateway) *Service {
	return &Service{store: store, agent: gateway}
}

// ListConversations returns conversations, most recently updated first.
// A nil ownerID lists every conversation.
func (s *Service) ListConversations(ctx context.Context, ownerID *int64) ([]assistant.Conversation, error) {
	convs, err := s.store.ListConversations(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "list conversations")
	}
	return convs, nil
}

// GetConversation returns a conversation or a *assistant.NotFoundError.
func (s *Service) GetConversation(ctx context.Context, id int64) (*assistant.Conversation, error) {
	conv, found, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get conversation %d", id)
	}
	if !found {
		return nil, &assistant.NotFoundError{Entity: "conversation", ID: id}
	}
	return conv, nil
}

// CreateConversation validates req and stores a new conversation.
func (s *Service) CreateConversation(ctx context.Context, req CreateConversationRequest) (*assistant.Conversation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	conv, err := s.store.CreateConversation(ctx, assistant.NewConversation{
		Title:  req.Title,
		UserID: req.UserID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create conversation")
	}
	return conv, nil
}

// DeleteConversation removes a conversation and everything attached to it.
func (s *Service) DeleteConversation(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteConversation(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "delete conversation %d", id)
	}
	if !deleted {
		return &assistant.NotFoundError{Entity: "conversation", ID: id}
	}
	return nil
}

// ListMessages returns the messages of a conversation, oldest first.
// An unknown conversation has no messages.
func (s *Service) ListMessages(ctx context.Context, conversationID int64) ([]assistant.Message, error) {
	msgs, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, errors.Wrapf(err, "list messages of conversation %d", conversationID)
	}
	return msgs, nil
}

// GetAgentSession returns the agent session of a conversation or a *assistant.NotFoundError.
func (s *Service) GetAgentSession(ctx context.Context, conversationID int64) (*assistant.AgentSession, error) {
	sess, found, err := s.store.GetAgentSession(ctx, conversationID)
	if err != nil {
		return nil, errors.Wrapf(err, "get agent session of conversation %d", conversationID)
	}
	if !found {
		return nil, &assistant.NotFoundError{Entity: "agent session", ID: conversationID}
	}
	return sess, nil
}

// AnalyzeMessage classifies content. Model failures yield the fallback analysis.
func (s *Service) AnalyzeMessage(ctx context.Context, req AnalyzeRequest) (agent.Analysis, error) {
	if err := req.Validate(); err != nil {
		return agent.Analysis{}, err
	}
	return s.agent.AnalyzeMessage(ctx, req.Content), nil
}

// AgentStatus reports whether the agent can reach its model.
func (s *Service) AgentStatus() agent.Status {
	return s.agent.Status()
}
