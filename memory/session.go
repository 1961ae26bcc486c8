package memory

import (
	"context"

	"github.com/meikuraledutech/assistant"
)

func copySession(sess *assistant.AgentSession) *assistant.AgentSession {
	out := *sess
	out.State = cloneMetadata(sess.State)
	return &out
}

func (s *Store) findSessionLocked(conversationID int64) *assistant.AgentSession {
	for _, sess := range s.sessions {
		if sess.ConversationID == conversationID {
			return sess
		}
	}
	return nil
}

// GetAgentSession returns the agent session of a conversation.
func (s *Store) GetAgentSession(_ context.Context, conversationID int64) (*assistant.AgentSession, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}

	sess := s.findSessionLocked(conversationID)
	if sess == nil {
		return nil, false, nil
	}
	return copySession(sess), true, nil
}

// CreateAgentSession creates the agent session of a conversation.
// A conversation has at most one session.
func (s *Store) CreateAgentSession(_ context.Context, conversationID int64, state assistant.Metadata) (*assistant.AgentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	if s.findSessionLocked(conversationID) != nil {
		return nil, assistant.ErrSessionExists
	}

	now := s.now()
	sess := &assistant.AgentSession{
		ID:             s.nextSessionID,
		ConversationID: conversationID,
		State:          cloneMetadata(state),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.nextSessionID++
	s.sessions[sess.ID] = sess

	return copySession(sess), nil
}

// UpdateAgentSession replaces the session state wholesale.
func (s *Store) UpdateAgentSession(_ context.Context, conversationID int64, state assistant.Metadata) (*assistant.AgentSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}

	sess := s.findSessionLocked(conversationID)
	if sess == nil {
		return nil, false, nil
	}
	sess.State = cloneMetadata(state)
	sess.UpdatedAt = s.now()

	return copySession(sess), true, nil
}
