// Package httpapi serves the conversation operations as JSON over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/meikuraledutech/assistant"
	"github.com/meikuraledutech/assistant/agent"
	"github.com/meikuraledutech/assistant/service"
)

// Backend is the set of operations the HTTP layer exposes. *service.Service implements it.
type Backend interface {
	ListConversations(ctx context.Context, ownerID *int64) ([]assistant.Conversation, error)
	GetConversation(ctx context.Context, id int64) (*assistant.Conversation, error)
	CreateConversation(ctx context.Context, req service.CreateConversationRequest) (*assistant.Conversation, error)
	DeleteConversation(ctx context.Context, id int64) error
	ListMessages(ctx context.Context, conversationID int64) ([]assistant.Message, error)
	HandleUserMessage(ctx context.Context, req service.SendMessageRequest) (*service.Exchange, error)
	GetAgentSession(ctx context.Context, conversationID int64) (*assistant.AgentSession, error)
	AnalyzeMessage(ctx context.Context, req service.AnalyzeRequest) (agent.Analysis, error)
	AgentStatus() agent.Status
}

// Server routes HTTP requests to a Backend.
type Server struct {
	backend Backend
	mux     *http.ServeMux
}

// NewServer creates a Server and registers its routes.
func NewServer(backend Backend) *Server {
	s := &Server{
		backend: backend,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/conversations", s.listConversations)
	s.mux.HandleFunc("POST /api/conversations", s.createConversation)
	s.mux.HandleFunc("GET /api/conversations/{id}", s.getConversation)
	s.mux.HandleFunc("DELETE /api/conversations/{id}", s.deleteConversation)
	s.mux.HandleFunc("GET /api/conversations/{id}/messages", s.listMessages)
	s.mux.HandleFunc("POST /api/conversations/{id}/messages", s.postMessage)
	s.mux.HandleFunc("GET /api/conversations/{id}/session", s.getSession)
	s.mux.HandleFunc("GET /api/agent/status", s.agentStatus)
	s.mux.HandleFunc("POST /api/agent/analyze", s.analyze)
	s.mux.HandleFunc("GET /healthz", s.healthz)

	return s
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	return withRequestID(logRequests(s.mux))
}
