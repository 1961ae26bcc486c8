package assistant

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Request log statuses.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Request log fail reasons.
const (
	FailReasonTimeout       = "timeout"
	FailReasonNetworkError  = "network_error"
	FailReasonEmptyResponse = "empty_response"
	FailReasonUnknownError  = "unknown_error"
)

// RequestLog records a single model call.
type RequestLog struct {
	ID             string        `json:"id"`
	ConversationID int64         `json:"conversationId"`
	Model          string        `json:"model"`
	Prompt         string        `json:"prompt"`
	Response       string        `json:"response"`
	FinalStatus    string        `json:"finalStatus"`
	FailReason     string        `json:"failReason,omitempty"`
	ErrorMessage   string        `json:"errorMessage,omitempty"`
	Usage          *Usage        `json:"usage,omitempty"`
	Duration       time.Duration `json:"duration"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// RequestLogUpdate carries the completion details of a request log.
type RequestLogUpdate struct {
	Response     string
	Status       string
	FailReason   string
	ErrorMessage string
	Usage        *Usage
	Duration     time.Duration
}

type conversationKey struct{}

// WithConversationID tags ctx with the conversation a model call belongs to.
func WithConversationID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, conversationKey{}, id)
}

// ConversationIDFrom returns the conversation id stored by WithConversationID.
func ConversationIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(conversationKey{}).(int64)
	return id, ok
}

// RecordingProvider wraps a Provider and records every call in the store's request log.
type RecordingProvider struct {
	Provider
	store Store
}

// WithRequestLog configures request logging for p.
func WithRequestLog(p Provider, store Store) *RecordingProvider {
	return &RecordingProvider{Provider: p, store: store}
}

// Send forwards to the wrapped provider. Failures to write the log never fail the call.
func (r *RecordingProvider) Send(ctx context.Context, rules Rules, prompt string) (*Result, error) {
	conversationID, _ := ConversationIDFrom(ctx)

	var logID string
	entry, err := r.store.AddRequestLog(ctx, RequestLog{
		ConversationID: conversationID,
		Model:          r.Provider.Model(),
		Prompt:         prompt,
		FinalStatus:    StatusPending,
	})
	if err != nil {
		log.Warn().Err(err).Int64("conversation_id", conversationID).Msg("could not record model request")
	} else {
		logID = entry.ID
	}

	start := time.Now()
	result, sendErr := r.Provider.Send(ctx, rules, prompt)
	if logID == "" {
		return result, sendErr
	}

	upd := RequestLogUpdate{Duration: time.Since(start)}
	switch {
	case sendErr != nil:
		upd.Status = StatusFailed
		upd.FailReason = ClassifyError(sendErr)
		upd.ErrorMessage = sendErr.Error()
	case strings.TrimSpace(result.Content) == "":
		upd.Status = StatusFailed
		upd.FailReason = FailReasonEmptyResponse
		upd.Usage = &result.Usage
	default:
		upd.Status = StatusSuccess
		upd.Response = result.Content
		upd.Usage = &result.Usage
	}

	// The caller's context may already be done; the log write is in-process and must still land.
	if err := r.store.UpdateRequestLog(context.WithoutCancel(ctx), logID, upd); err != nil {
		log.Warn().Err(err).Str("request_id", logID).Msg("could not update model request log")
	}

	return result, sendErr
}

// ClassifyError categorizes a provider error into a request log fail reason.
func ClassifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailReasonTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailReasonTimeout
		}
		return FailReasonNetworkError
	}

	if errors.Is(err, context.Canceled) {
		return FailReasonNetworkError
	}

	return FailReasonUnknownError
}
