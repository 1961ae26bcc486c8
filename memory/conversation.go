package memory

import (
	"context"
	"sort"

	"github.com/meikuraledutech/assistant"
)

func copyConversation(c *assistant.Conversation) *assistant.Conversation {
	out := *c
	out.UserID = cloneOwner(c.UserID)
	return &out
}

// GetConversation retrieves a conversation by id.
func (s *Store) GetConversation(_ context.Context, id int64) (*assistant.Conversation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}

	c, ok := s.conversations[id]
	if !ok {
		return nil, false, nil
	}
	return copyConversation(c), true, nil
}

// ListConversations returns the conversations owned by ownerID (all of them when
// ownerID is nil), most recently updated first.
func (s *Store) ListConversations(_ context.Context, ownerID *int64) ([]assistant.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	out := make([]assistant.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		if ownerID != nil && (c.UserID == nil || *c.UserID != *ownerID) {
			continue
		}
		out = append(out, *copyConversation(c))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// CreateConversation stores a new, empty conversation.
func (s *Store) CreateConversation(_ context.Context, conv assistant.NewConversation) (*assistant.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	now := s.now()
	c := &assistant.Conversation{
		ID:        s.nextConversationID,
		Title:     conv.Title,
		UserID:    cloneOwner(conv.UserID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextConversationID++
	s.conversations[c.ID] = c

	return copyConversation(c), nil
}

// UpdateConversation merges upd into the conversation and refreshes its updatedAt.
func (s *Store) UpdateConversation(_ context.Context, id int64, upd assistant.ConversationUpdate) (*assistant.Conversation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}

	c, ok := s.conversations[id]
	if !ok {
		return nil, false, nil
	}

	if upd.Title != nil {
		c.Title = *upd.Title
	}
	switch {
	case upd.ClearUserID:
		c.UserID = nil
	case upd.UserID != nil:
		c.UserID = cloneOwner(upd.UserID)
	}
	c.UpdatedAt = s.now()

	return copyConversation(c), true, nil
}

// DeleteConversation removes the conversation together with its messages,
// agent session and request logs.
func (s *Store) DeleteConversation(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return false, err
	}

	if _, ok := s.conversations[id]; !ok {
		return false, nil
	}
	delete(s.conversations, id)

	for msgID, m := range s.messages {
		if m.ConversationID == id {
			delete(s.messages, msgID)
		}
	}
	for sessionID, sess := range s.sessions {
		if sess.ConversationID == id {
			delete(s.sessions, sessionID)
		}
	}
	for logID, l := range s.requestLogs {
		if l.ConversationID == id {
			delete(s.requestLogs, logID)
		}
	}
	return true, nil
}
