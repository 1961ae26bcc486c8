// Package memory provides a process-lifetime implementation of assistant.Store.
//
// All four entity collections and their id counters live behind a single
// mutex, so every operation (including the cascading conversation delete)
// is atomic with respect to every other.
package memory

import (
	"sync"
	"time"

	"github.com/huandu/go-clone"
	"github.com/meikuraledutech/assistant"
)

// Store is a thread-safe in-memory assistant.Store.
type Store struct {
	mu     sync.RWMutex
	closed bool

	users         map[int64]*assistant.User
	conversations map[int64]*assistant.Conversation
	messages      map[int64]*assistant.Message
	sessions      map[int64]*assistant.AgentSession
	requestLogs   map[string]*assistant.RequestLog

	nextUserID         int64
	nextConversationID int64
	nextMessageID      int64
	nextSessionID      int64

	clock    func() time.Time
	lastTime time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates an empty Store. Ids of every entity kind start at 1.
func New(options ...Option) *Store {
	s := &Store{
		users:              map[int64]*assistant.User{},
		conversations:      map[int64]*assistant.Conversation{},
		messages:           map[int64]*assistant.Message{},
		sessions:           map[int64]*assistant.AgentSession{},
		requestLogs:        map[string]*assistant.RequestLog{},
		nextUserID:         1,
		nextConversationID: 1,
		nextMessageID:      1,
		nextSessionID:      1,
		clock:              time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Close marks the store closed; every later call fails with assistant.ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) ensureOpen() error {
	if s.closed {
		return assistant.ErrStoreClosed
	}
	return nil
}

// now returns a timestamp strictly after every timestamp issued before it.
// Must be called with mu held for writing.
func (s *Store) now() time.Time {
	t := s.clock().UTC()
	if !t.After(s.lastTime) {
		t = s.lastTime.Add(time.Nanosecond)
	}
	s.lastTime = t
	return t
}

func cloneMetadata(m assistant.Metadata) assistant.Metadata {
	if m == nil {
		return nil
	}
	return clone.Clone(m).(assistant.Metadata)
}

func cloneOwner(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

var _ assistant.Store = (*Store)(nil)
