package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSessionNotFound      = errors.New("edit session not found")
	ErrNoActiveConversation = errors.New("no active conversation")
	ErrActivityNotFound     = errors.New("activity not found")
	ErrDayNotFound          = errors.New("day not found")
	ErrInvalidInput         = errors.New("invalid input")
)

// MalformedPlanError means a remote payload could not be mapped to a valid
// travel plan: missing day list, unrecognized envelope, or an explicit
// error envelope from the planner.
type MalformedPlanError struct {
	Detail string
}

func (e *MalformedPlanError) Error() string {
	if e.Detail == "" {
		return "malformed plan response"
	}
	return "malformed plan response: " + e.Detail
}

// NetworkError is a failed HTTP exchange with the remote planning service.
// Status is 0 when the call never produced a response.
type NetworkError struct {
	Status int
	Body   string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("planning service unreachable: %v", e.Err)
	}
	return fmt.Sprintf("planning service returned %d: %s", e.Status, e.Body)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MapNotFound translates a remote 404 into the given sentinel so the
// facade answers 404 for a missing resource instead of 502. Every other
// error passes through unchanged.
func MapNotFound(err error, sentinel error) error {
	var nerr *NetworkError
	if errors.As(err, &nerr) && nerr.Status == http.StatusNotFound {
		return sentinel
	}
	return err
}

// BlockedEditError reports a structural edit attempted on a locked activity.
type BlockedEditError struct {
	ActivityID string
}

func (e *BlockedEditError) Error() string {
	return fmt.Sprintf("activity %s is locked", e.ActivityID)
}

// FieldError is one failed client-side check on a request field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates per-field failures detected before any network
// call is issued.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
