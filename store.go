package assistant

import (
	"context"
)

// Store defines the contract for persisting users, conversations, messages and agent sessions.
//
// Lookups report absence through the bool result; a missing entity is never an error.
type Store interface {
	// Users
	GetUser(ctx context.Context, id int64) (*User, bool, error)
	GetUserByUsername(ctx context.Context, username string) (*User, bool, error)
	CreateUser(ctx context.Context, user NewUser) (*User, error)

	// Conversations
	GetConversation(ctx context.Context, id int64) (*Conversation, bool, error)
	ListConversations(ctx context.Context, ownerID *int64) ([]Conversation, error)
	CreateConversation(ctx context.Context, conv NewConversation) (*Conversation, error)
	UpdateConversation(ctx context.Context, id int64, upd ConversationUpdate) (*Conversation, bool, error)
	DeleteConversation(ctx context.Context, id int64) (bool, error)

	// Messages
	GetMessage(ctx context.Context, id int64) (*Message, bool, error)
	ListMessages(ctx context.Context, conversationID int64) ([]Message, error)
	CreateMessage(ctx context.Context, msg NewMessage) (*Message, error)
	DeleteMessage(ctx context.Context, id int64) (bool, error)

	// Agent sessions
	GetAgentSession(ctx context.Context, conversationID int64) (*AgentSession, bool, error)
	CreateAgentSession(ctx context.Context, conversationID int64, state Metadata) (*AgentSession, error)
	UpdateAgentSession(ctx context.Context, conversationID int64, state Metadata) (*AgentSession, bool, error)

	// Request logs
	AddRequestLog(ctx context.Context, log RequestLog) (*RequestLog, error)
	UpdateRequestLog(ctx context.Context, id string, upd RequestLogUpdate) error
	ListRequestLogs(ctx context.Context, conversationID int64) ([]RequestLog, error)
}
