package assistant

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Metadata is an opaque structured payload attached to messages and agent sessions.
// The store never interprets it.
type Metadata map[string]any

// User is an account that may own conversations.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Conversation groups messages. UserID is nil for unowned conversations.
type Conversation struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	UserID    *int64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is a single turn in a conversation.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Metadata       Metadata  `json:"metadata"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AgentSession holds in-progress agent state for one conversation.
type AgentSession struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	State          Metadata  `json:"state"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser is the insert shape for users.
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewConversation is the insert shape for conversations.
type NewConversation struct {
	Title  string `json:"title"`
	UserID *int64 `json:"userId,omitempty"`
}

// ConversationUpdate lists the fields to merge into a conversation.
// Nil fields are left untouched. ClearUserID detaches the owner.
type ConversationUpdate struct {
	Title       *string
	UserID      *int64
	ClearUserID bool
}

// NewMessage is the insert shape for messages.
type NewMessage struct {
	ConversationID int64    `json:"conversationId"`
	Role           Role     `json:"role"`
	Content        string   `json:"content"`
	Metadata       Metadata `json:"metadata,omitempty"`
}

// Usage holds token counts from the model provider response.
type Usage struct {
	PromptTokens   int `json:"prompt_tokens"`
	ResponseTokens int `json:"response_tokens"`
	TotalTokens    int `json:"total_tokens"`
	ThoughtTokens  int `json:"thought_tokens"`
}

// Result is what a provider returns: content plus token usage.
type Result struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}
