package assistant

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("assistant: not found")
	ErrInvalidInput = errors.New("assistant: invalid input")
	ErrAgent        = errors.New("assistant: agent processing failed")
	ErrModel        = errors.New("assistant: model call failed")

	ErrStoreClosed   = errors.New("assistant: store closed")
	ErrUsernameTaken = errors.New("assistant: username already taken")
	ErrSessionExists = errors.New("assistant: agent session already exists")
)

// NotFoundError reports an entity id that did not resolve.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports a malformed or disallowed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s (%s): %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// AgentError reports a failure on the primary reply path.
type AgentError struct {
	Op  string
	Err error
}

func (e *AgentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("agent %s failed", e.Op)
	}
	return fmt.Sprintf("agent %s failed: %v", e.Op, e.Err)
}

func (e *AgentError) Unwrap() error { return e.Err }

func (e *AgentError) Is(target error) bool { return target == ErrAgent }

// ModelError reports a failed call to a model backend. It matches ErrModel
// and unwraps to the backend error so timeouts stay classifiable.
type ModelError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

func (e *ModelError) Is(target error) bool { return target == ErrModel }
