package memory

import (
	"context"
	"sort"

	"github.com/meikuraledutech/assistant"
	"github.com/rs/zerolog/log"
)

func copyMessage(m *assistant.Message) *assistant.Message {
	out := *m
	out.Metadata = cloneMetadata(m.Metadata)
	return &out
}

// GetMessage retrieves a message by id.
func (s *Store) GetMessage(_ context.Context, id int64) (*assistant.Message, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}

	m, ok := s.messages[id]
	if !ok {
		return nil, false, nil
	}
	return copyMessage(m), true, nil
}

// ListMessages returns all messages of a conversation, oldest first.
func (s *Store) ListMessages(_ context.Context, conversationID int64) ([]assistant.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	out := make([]assistant.Message, 0)
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, *copyMessage(m))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// CreateMessage appends a message and touches the parent conversation's updatedAt.
//
// The parent is not required to exist: when it is gone the message is still
// stored and only the touch is skipped.
func (s *Store) CreateMessage(_ context.Context, msg assistant.NewMessage) (*assistant.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	now := s.now()
	m := &assistant.Message{
		ID:             s.nextMessageID,
		ConversationID: msg.ConversationID,
		Role:           msg.Role,
		Content:        msg.Content,
		Metadata:       cloneMetadata(msg.Metadata),
		CreatedAt:      now,
	}
	s.nextMessageID++
	s.messages[m.ID] = m

	if c, ok := s.conversations[msg.ConversationID]; ok {
		c.UpdatedAt = now
	} else {
		log.Warn().
			Int64("conversation_id", msg.ConversationID).
			Int64("message_id", m.ID).
			Msg("message stored for a conversation that does not exist")
	}

	return copyMessage(m), nil
}

// DeleteMessage removes a single message.
func (s *Store) DeleteMessage(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return false, err
	}

	if _, ok := s.messages[id]; !ok {
		return false, nil
	}
	delete(s.messages, id)
	return true, nil
}
