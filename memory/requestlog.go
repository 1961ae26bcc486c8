package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/meikuraledutech/assistant"
	"github.com/pkg/errors"
)

func copyRequestLog(l *assistant.RequestLog) *assistant.RequestLog {
	out := *l
	if l.Usage != nil {
		u := *l.Usage
		out.Usage = &u
	}
	return &out
}

// AddRequestLog inserts a new request log with pending status.
func (s *Store) AddRequestLog(_ context.Context, log assistant.RequestLog) (*assistant.RequestLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	now := s.now()
	log.ID = uuid.New().String()
	log.FinalStatus = assistant.StatusPending
	log.CreatedAt = now
	log.UpdatedAt = now
	s.requestLogs[log.ID] = copyRequestLog(&log)

	return &log, nil
}

// UpdateRequestLog records the completion details of an existing request log.
func (s *Store) UpdateRequestLog(_ context.Context, id string, upd assistant.RequestLogUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return err
	}

	l, ok := s.requestLogs[id]
	if !ok {
		// The conversation may have been deleted while the call was in flight.
		return errors.Wrapf(assistant.ErrNotFound, "request log %s", id)
	}

	l.Response = upd.Response
	l.FinalStatus = upd.Status
	l.FailReason = upd.FailReason
	l.ErrorMessage = upd.ErrorMessage
	l.Duration = upd.Duration
	if upd.Usage != nil {
		u := *upd.Usage
		l.Usage = &u
	}
	l.UpdatedAt = s.now()
	return nil
}

// ListRequestLogs returns the request logs of a conversation, oldest first.
func (s *Store) ListRequestLogs(_ context.Context, conversationID int64) ([]assistant.RequestLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	out := make([]assistant.RequestLog, 0)
	for _, l := range s.requestLogs {
		if l.ConversationID == conversationID {
			out = append(out, *copyRequestLog(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
