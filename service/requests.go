package service

import (
	"strings"

	"github.com/meikuraledutech/assistant"
)

// CreateConversationRequest is the input of CreateConversation.
type CreateConversationRequest struct {
	Title  string `json:"title"`
	UserID *int64 `json:"userId,omitempty"`
}

// Validate checks the request fields.
func (r CreateConversationRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &assistant.ValidationError{Field: "title", Reason: "is required"}
	}
	if r.UserID != nil && *r.UserID <= 0 {
		return &assistant.ValidationError{Field: "userId", Reason: "must be a positive id"}
	}
	return nil
}

// SendMessageRequest is the input of HandleUserMessage.
type SendMessageRequest struct {
	ConversationID int64              `json:"-"`
	Role           assistant.Role     `json:"role"`
	Content        string             `json:"content"`
	Metadata       assistant.Metadata `json:"metadata,omitempty"`
}

// Validate checks the message shape. Whether the role is allowed on this path
// is decided by HandleUserMessage.
func (r SendMessageRequest) Validate() error {
	if !r.Role.Valid() {
		return &assistant.ValidationError{Field: "role", Reason: "must be user or assistant"}
	}
	if strings.TrimSpace(r.Content) == "" {
		return &assistant.ValidationError{Field: "content", Reason: "is required"}
	}
	return nil
}

// AnalyzeRequest is the input of AnalyzeMessage.
type AnalyzeRequest struct {
	Content string `json:"content"`
}

// Validate checks the request fields.
func (r AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return &assistant.ValidationError{Field: "content", Reason: "is required"}
	}
	return nil
}
