package httpapi

import (
	"net/http"
	"strconv"

	"github.com/meikuraledutech/assistant/service"
	"github.com/pkg/errors"
)

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	var owner *int64
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid user ID"})
			return
		}
		owner = &id
	}

	convs, err := s.backend.ListConversations(r.Context(), owner)
	if err != nil {
		writeError(w, r, "Failed to fetch conversations", err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	conv, err := s.backend.GetConversation(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to fetch conversation", err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	var req service.CreateConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalid(w, "Invalid conversation data", err)
		return
	}
	conv, err := s.backend.CreateConversation(r.Context(), req)
	if err != nil {
		if isInvalid(err) {
			writeInvalid(w, "Invalid conversation data", err)
			return
		}
		writeError(w, r, "Failed to create conversation", err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	if err := s.backend.DeleteConversation(r.Context(), id); err != nil {
		writeError(w, r, "Failed to delete conversation", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	msgs, err := s.backend.ListMessages(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to fetch messages", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}

	var req service.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalid(w, "Invalid message data", err)
		return
	}
	req.ConversationID = id

	exchange, err := s.backend.HandleUserMessage(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotAllowed):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Only user messages are allowed via this endpoint"})
		case isInvalid(err):
			writeInvalid(w, "Invalid message data", err)
		default:
			writeError(w, r, "Failed to process message", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, exchange)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	sess, err := s.backend.GetAgentSession(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to fetch agent session", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) agentStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.AgentStatus())
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req service.AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalid(w, "Invalid analysis request", err)
		return
	}
	analysis, err := s.backend.AnalyzeMessage(r.Context(), req)
	if err != nil {
		if isInvalid(err) {
			writeInvalid(w, "Invalid analysis request", err)
			return
		}
		writeError(w, r, "Failed to analyze message", err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// conversationID parses the {id} path segment, answering 400 when it is not an integer.
func conversationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid conversation ID"})
		return 0, false
	}
	return id, true
}
